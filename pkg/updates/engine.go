package updates

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/rovery/updatefeed/pkg/cache"
	"github.com/rovery/updatefeed/pkg/common"
	"github.com/rovery/updatefeed/pkg/platform"
)

// The payload that is returned when an update is available.
type UpdateInfo struct {
	Version string    `json:"version"`
	Notes   string    `json:"notes"`
	PubDate time.Time `json:"pub_date"`
	URL     string    `json:"url"`
}

// The settings with which an update engine is created.
type EngineSettings struct {
	// The logger to use for the engine.
	Logger *slog.Logger
	// The cache to read release state from.
	Cache *cache.ReleaseCache
	// A token for the repository. When set, download urls point back at
	// the download proxy instead of the upstream asset url.
	Token string
	// The public base url of this service, required when a token is set.
	BaseURL string
}

// Engine decides whether an update should be offered to a client.
type Engine struct {
	logger  *slog.Logger
	cache   *cache.ReleaseCache
	token   string
	baseURL string
}

func NewEngine(settings *EngineSettings) *Engine {
	return &Engine{
		logger:  settings.Logger.With(slog.String("component", "updates")),
		cache:   settings.Cache,
		token:   settings.Token,
		baseURL: strings.TrimSuffix(settings.BaseURL, "/"),
	}
}

// Decide checks whether a release newer than the client's current version
// exists for the given environment and platform alias. A nil result with a
// nil error means there is nothing to offer. An update is only offered when
// the cached version is strictly greater than the current one.
func (e *Engine) Decide(ctx context.Context, environment string, platformAlias string, currentVersion string) (*UpdateInfo, error) {
	current, err := semver.NewVersion(currentVersion)
	if err != nil {
		return nil, common.ErrInvalidVersion
	}
	platformKey, ok := platform.ResolveAlias(platformAlias)
	if !ok {
		return nil, common.ErrInvalidPlatform
	}
	state, err := e.cache.Get(ctx)
	if err != nil {
		return nil, err
	}
	release, ok := state.Releases[environment]
	if !ok {
		return nil, nil
	}
	// Auto-updaters need the feed asset, not the installer. When a release
	// carries no feed counterpart the installer is all there is.
	asset, ok := release.Platforms[platform.UpdateVariant(platformKey)]
	if !ok {
		if asset, ok = release.Platforms[platformKey]; !ok {
			return nil, nil
		}
	}
	latest, err := semver.NewVersion(release.Version)
	if err != nil {
		// Invalid versions are already excluded at indexing time
		return nil, nil
	}
	if !latest.GreaterThan(current) {
		return nil, nil
	}
	e.logger.Debug(fmt.Sprintf("Offering %s to a client on %s", release.Version, current))
	return &UpdateInfo{
		Version: release.Version,
		Notes:   release.Notes,
		PubDate: release.PubDate,
		URL:     e.downloadURL(asset, environment, platformAlias),
	}, nil
}

// Resolve returns the asset for the given environment and platform alias
// without any version gate. When updateFeed is set, installer platforms
// resolve to their auto-update feed counterpart, with the installer itself
// as the fallback so the proxy serves the same asset an update decision
// would hand out directly. A nil result with a nil error means no such
// asset exists.
func (e *Engine) Resolve(ctx context.Context, environment string, platformAlias string, updateFeed bool) (*common.Asset, error) {
	platformKey, ok := platform.ResolveAlias(platformAlias)
	if !ok {
		return nil, common.ErrInvalidPlatform
	}
	state, err := e.cache.Get(ctx)
	if err != nil {
		return nil, err
	}
	release, ok := state.Releases[environment]
	if !ok {
		return nil, nil
	}
	if updateFeed {
		if asset, ok := release.Platforms[platform.UpdateVariant(platformKey)]; ok {
			return asset, nil
		}
	}
	asset, ok := release.Platforms[platformKey]
	if !ok {
		return nil, nil
	}
	return asset, nil
}

// PrivateMode reports whether downloads must go through the download proxy.
func (e *Engine) PrivateMode() bool {
	return e.token != ""
}

func (e *Engine) downloadURL(asset *common.Asset, environment string, platformAlias string) string {
	if !e.PrivateMode() {
		return asset.URL
	}
	// In private mode the asset is re-resolved by the download proxy
	return fmt.Sprintf("%s/download/%s?env=%s&update=true", e.baseURL, url.PathEscape(platformAlias), url.QueryEscape(environment))
}
