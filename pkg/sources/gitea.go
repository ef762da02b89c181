package sources

import (
	"context"
	"fmt"

	"code.gitea.io/sdk/gitea"
	"github.com/rovery/updatefeed/pkg/common"
	"github.com/samber/lo"
)

const defaultGiteaEndpoint = "https://gitea.com"

type GiteaSource struct {
	*sourceBase
}

func NewGiteaSource(settings *common.SourceSettings) *GiteaSource {
	return &GiteaSource{
		sourceBase: newSourceBase(common.SOURCE_TYPE_GITEA, settings),
	}
}

func (s *GiteaSource) FetchReleases(ctx context.Context) ([]*common.RawRelease, error) {
	endpoint := s.settings.Endpoint
	if endpoint == "" {
		endpoint = defaultGiteaEndpoint
	}
	options := []gitea.ClientOption{gitea.SetContext(ctx)}
	if token := s.settings.TokenExpanded(); token != "" {
		options = append(options, gitea.SetToken(token))
	}
	client, err := gitea.NewClient(endpoint, options...)
	if err != nil {
		return nil, fmt.Errorf("failed creating the gitea client: %w", err)
	}
	return s.fetchWithRetry(ctx, func(ctx context.Context) ([]*common.RawRelease, error) {
		giteaReleases, resp, err := client.ListReleases(s.settings.Account, s.settings.Repository, gitea.ListReleasesOptions{
			ListOptions: gitea.ListOptions{Page: 1, PageSize: releasesPerPage},
		})
		if err != nil {
			statusCode := 0
			if resp != nil {
				statusCode = resp.StatusCode
			}
			return nil, &common.UpstreamError{StatusCode: statusCode, Err: err}
		}
		return lo.Map(giteaReleases, func(entry *gitea.Release, _ int) *common.RawRelease {
			return &common.RawRelease{
				TagName:     entry.TagName,
				Draft:       entry.IsDraft,
				Notes:       entry.Note,
				PublishedAt: entry.PublishedAt,
				Assets: lo.Map(entry.Attachments, func(attachment *gitea.Attachment, _ int) *common.RawAsset {
					return &common.RawAsset{
						Name: attachment.Name,
						URL:  attachment.DownloadURL,
						// Gitea has no separate authenticated asset url
						APIURL:      attachment.DownloadURL,
						ContentType: "application/octet-stream",
						Size:        attachment.Size,
					}
				}),
			}
		}), nil
	})
}
