package common

import "time"

// One downloadable artifact for one platform within one release.
type Asset struct {
	// The canonical platform key this asset was resolved to.
	Platform Platform `json:"platform"`
	// The original file name of the asset.
	Name string `json:"name"`
	// The direct download url of the asset.
	URL string `json:"url"`
	// The authenticated API url of the asset, used when the repository is private.
	APIURL string `json:"api_url"`
	// The content type of the asset.
	ContentType string `json:"content_type"`
	// The size of the asset in megabytes, rounded to one decimal.
	Size float64 `json:"size"`
}

// One tagged release for one environment.
type Release struct {
	// The version of the release, without any channel suffix.
	Version string `json:"version"`
	// The release notes.
	Notes string `json:"notes"`
	// The time when the release was published.
	PubDate time.Time `json:"pub_date"`
	// The assets of the release, keyed by their canonical platform.
	Platforms map[Platform]*Asset `json:"platforms"`
}

// A release as returned by a release source, before indexing.
type RawRelease struct {
	TagName     string
	Draft       bool
	Notes       string
	PublishedAt time.Time
	Assets      []*RawAsset
}

// An asset as returned by a release source, before platform resolution.
type RawAsset struct {
	Name        string
	URL         string
	APIURL      string
	ContentType string
	// The size of the asset in bytes.
	Size int64
}

// The indexed releases together with the time they were fetched.
// A state is immutable once built and replaced wholesale on refresh.
type CacheState struct {
	// The latest release per environment.
	Releases map[string]*Release
	// The time of the last successful refresh.
	LastUpdate time.Time
}
