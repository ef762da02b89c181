package sources

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/go-github/v80/github"
	"github.com/rovery/updatefeed/pkg/common"
	"github.com/samber/lo"
)

type GitHubSource struct {
	*sourceBase
}

func NewGitHubSource(settings *common.SourceSettings) *GitHubSource {
	return &GitHubSource{
		sourceBase: newSourceBase(common.SOURCE_TYPE_GITHUB, settings),
	}
}

func (s *GitHubSource) FetchReleases(ctx context.Context) ([]*common.RawRelease, error) {
	client, err := s.createClient()
	if err != nil {
		return nil, err
	}
	return s.fetchWithRetry(ctx, func(ctx context.Context) ([]*common.RawRelease, error) {
		gitHubReleases, resp, err := client.Repositories.ListReleases(ctx, s.settings.Account, s.settings.Repository, &github.ListOptions{PerPage: releasesPerPage})
		if err != nil {
			// A malformed body on a 200 is "no releases this cycle", not a
			// failure worth retrying
			var typeErr *json.UnmarshalTypeError
			var syntaxErr *json.SyntaxError
			if errors.As(err, &typeErr) || errors.As(err, &syntaxErr) {
				s.logger.Warn(fmt.Sprintf("Ignoring malformed release list: %v", err))
				return []*common.RawRelease{}, nil
			}
			statusCode := 0
			if resp != nil {
				statusCode = resp.StatusCode
			}
			return nil, &common.UpstreamError{StatusCode: statusCode, Err: err}
		}
		return lo.Map(gitHubReleases, func(entry *github.RepositoryRelease, _ int) *common.RawRelease {
			return &common.RawRelease{
				TagName:     entry.GetTagName(),
				Draft:       entry.GetDraft(),
				Notes:       entry.GetBody(),
				PublishedAt: entry.GetPublishedAt().Time,
				Assets: lo.Map(entry.Assets, func(asset *github.ReleaseAsset, _ int) *common.RawAsset {
					return &common.RawAsset{
						Name:        asset.GetName(),
						URL:         asset.GetBrowserDownloadURL(),
						APIURL:      asset.GetURL(),
						ContentType: asset.GetContentType(),
						Size:        int64(asset.GetSize()),
					}
				}),
			}
		}), nil
	})
}

func (s *GitHubSource) createClient() (*github.Client, error) {
	client := github.NewClient(nil)
	if token := s.settings.TokenExpanded(); token != "" {
		client = client.WithAuthToken(token)
	}
	if s.settings.Endpoint != "" {
		baseURL, err := url.Parse(strings.TrimSuffix(s.settings.Endpoint, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("failed parsing the endpoint url '%s': %w", s.settings.Endpoint, err)
		}
		client.BaseURL = baseURL
	}
	return client, nil
}
