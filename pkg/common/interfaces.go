package common

import "context"

// This is the interface that needs to be implemented by all release sources.
type IReleaseSource interface {
	// Gets the type of the source.
	Type() SourceType
	// Gets the settings with which the source was created.
	Settings() *SourceSettings
	// Lists the most recent releases of the configured repository.
	FetchReleases(ctx context.Context) ([]*RawRelease, error)
}
