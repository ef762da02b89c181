package index

import (
	"math"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/rovery/updatefeed/pkg/common"
	"github.com/rovery/updatefeed/pkg/platform"
)

// Index builds the latest release per environment from the raw upstream releases.
//
// Draft releases, releases without both a tag and assets and releases whose tag
// does not carry a valid semantic version are excluded. Within one environment
// only the release with the greatest version is kept; when two releases carry
// the exact same version, the first-seen one wins. Assets whose file name
// resolves to no platform key are dropped, and an environment whose asset table
// ends up empty is absent from the result.
//
// This is a pure transformation, identical input always yields identical output.
func Index(rawReleases []*common.RawRelease) map[string]*common.Release {
	type candidate struct {
		raw     *common.RawRelease
		version *semver.Version
	}

	// Select the version maximum per environment
	candidates := map[string]*candidate{}
	for _, raw := range rawReleases {
		if raw.Draft {
			continue
		}
		if raw.TagName == "" && len(raw.Assets) == 0 {
			continue
		}
		versionString, environment := SplitTag(raw.TagName)
		version, err := semver.NewVersion(versionString)
		if err != nil {
			continue
		}
		if existing, ok := candidates[environment]; ok && !version.GreaterThan(existing.version) {
			continue
		}
		candidates[environment] = &candidate{raw: raw, version: version}
	}

	// Build the platform asset tables for the retained releases
	releases := map[string]*common.Release{}
	for environment, entry := range candidates {
		assets := map[common.Platform]*common.Asset{}
		for _, rawAsset := range entry.raw.Assets {
			key, ok := platform.ResolveFilename(rawAsset.Name)
			if !ok {
				// Unknown platforms are unsupported, not malformed
				continue
			}
			assets[key] = &common.Asset{
				Platform:    key,
				Name:        rawAsset.Name,
				URL:         rawAsset.URL,
				APIURL:      rawAsset.APIURL,
				ContentType: rawAsset.ContentType,
				Size:        roundToMegabytes(rawAsset.Size),
			}
		}
		if len(assets) == 0 {
			// An environment without a single installable asset is not "latest", it is absent
			continue
		}
		releases[environment] = &common.Release{
			Version:   entry.version.String(),
			Notes:     entry.raw.Notes,
			PubDate:   entry.raw.PublishedAt,
			Platforms: assets,
		}
	}
	return releases
}

// SplitTag splits a release tag into its version part and the environment it
// belongs to. The environment is the segment after the first hyphen, releases
// without one belong to production.
func SplitTag(tagName string) (string, string) {
	if index := strings.Index(tagName, "-"); index >= 0 {
		return tagName[:index], tagName[index+1:]
	}
	return tagName, common.ENVIRONMENT_PRODUCTION
}

func roundToMegabytes(sizeInBytes int64) float64 {
	return math.Round(float64(sizeInBytes)/1048576*10) / 10
}
