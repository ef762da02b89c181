package sources

import (
	"context"
	"fmt"
	"time"

	"github.com/rovery/updatefeed/pkg/common"
	"github.com/samber/lo"
	gitlab "gitlab.com/gitlab-org/api/client-go"
)

type GitLabSource struct {
	*sourceBase
}

func NewGitLabSource(settings *common.SourceSettings) *GitLabSource {
	return &GitLabSource{
		sourceBase: newSourceBase(common.SOURCE_TYPE_GITLAB, settings),
	}
}

func (s *GitLabSource) FetchReleases(ctx context.Context) ([]*common.RawRelease, error) {
	options := []gitlab.ClientOptionFunc{}
	if s.settings.Endpoint != "" {
		options = append(options, gitlab.WithBaseURL(s.settings.Endpoint))
	}
	client, err := gitlab.NewClient(s.settings.TokenExpanded(), options...)
	if err != nil {
		return nil, fmt.Errorf("failed creating the gitlab client: %w", err)
	}
	projectID := fmt.Sprintf("%s/%s", s.settings.Account, s.settings.Repository)
	return s.fetchWithRetry(ctx, func(ctx context.Context) ([]*common.RawRelease, error) {
		gitLabReleases, resp, err := client.Releases.ListReleases(projectID, &gitlab.ListReleasesOptions{
			ListOptions: gitlab.ListOptions{PerPage: releasesPerPage},
		}, gitlab.WithContext(ctx))
		if err != nil {
			statusCode := 0
			if resp != nil {
				statusCode = resp.StatusCode
			}
			return nil, &common.UpstreamError{StatusCode: statusCode, Err: err}
		}
		return lo.Map(gitLabReleases, func(entry *gitlab.Release, _ int) *common.RawRelease {
			publishedAt := time.Time{}
			if entry.ReleasedAt != nil {
				publishedAt = *entry.ReleasedAt
			}
			rawRelease := &common.RawRelease{
				TagName: entry.TagName,
				// GitLab has no draft flag, upcoming releases are the closest equivalent
				Draft:       entry.UpcomingRelease,
				Notes:       entry.Description,
				PublishedAt: publishedAt,
			}
			for _, link := range entry.Assets.Links {
				assetURL := link.DirectAssetURL
				if assetURL == "" {
					assetURL = link.URL
				}
				rawRelease.Assets = append(rawRelease.Assets, &common.RawAsset{
					Name:        link.Name,
					URL:         assetURL,
					APIURL:      link.URL,
					ContentType: "application/octet-stream",
				})
			}
			return rawRelease
		}), nil
	})
}
