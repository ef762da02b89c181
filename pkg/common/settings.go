package common

import (
	"log/slog"
	"os"
)

// The settings with which a release source is created.
type SourceSettings struct {
	// The logger to use for the source.
	Logger *slog.Logger
	// The account or organization that owns the repository.
	Account string
	// The repository to list releases from.
	Repository string
	// A token to authenticate with the source. Only attached when set.
	Token string
	// An alternative base api url, eg. for self-hosted instances.
	Endpoint string
}

// Expands the token with environment variables.
func (s *SourceSettings) TokenExpanded() string {
	return os.ExpandEnv(s.Token)
}
