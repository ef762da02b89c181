package sources

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rovery/updatefeed/pkg/common"
)

// Only a single page of releases is requested. Older releases are invisible
// to this system, only the newest release per environment matters.
const releasesPerPage = 100

// How many times a fetch is attempted before the last error is surfaced.
const fetchAttempts = 3

type sourceBase struct {
	sourceType common.SourceType
	logger     *slog.Logger
	settings   *common.SourceSettings
}

func newSourceBase(sourceType common.SourceType, settings *common.SourceSettings) *sourceBase {
	return &sourceBase{
		sourceType: sourceType,
		logger:     settings.Logger.With(slog.String("source", string(sourceType))),
		settings:   settings,
	}
}

func GetReleaseSource(sourceType common.SourceType, settings *common.SourceSettings) (common.IReleaseSource, error) {
	switch sourceType {
	case common.SOURCE_TYPE_GITHUB:
		return NewGitHubSource(settings), nil
	case common.SOURCE_TYPE_GITEA:
		return NewGiteaSource(settings), nil
	case common.SOURCE_TYPE_GITLAB:
		return NewGitLabSource(settings), nil
	}
	return nil, fmt.Errorf("no release source defined for '%s'", sourceType)
}

func (s *sourceBase) Type() common.SourceType {
	return s.sourceType
}

func (s *sourceBase) Settings() *common.SourceSettings {
	return s.settings
}

// Runs the given fetch up to fetchAttempts times. Only the error of the
// final attempt is kept, earlier failures are just logged.
func (s *sourceBase) fetchWithRetry(ctx context.Context, fetch func(ctx context.Context) ([]*common.RawRelease, error)) ([]*common.RawRelease, error) {
	var lastErr error
	for attempt := 1; attempt <= fetchAttempts; attempt++ {
		releases, err := fetch(ctx)
		if err == nil {
			return releases, nil
		}
		lastErr = err
		s.logger.Warn(fmt.Sprintf("Fetch attempt %d/%d failed: %v", attempt, fetchAttempts, err))
	}
	return nil, lastErr
}
