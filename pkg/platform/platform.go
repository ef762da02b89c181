package platform

import (
	"path"
	"strings"

	"github.com/rovery/updatefeed/pkg/common"
)

// The aliases that clients may use instead of a canonical platform key.
// The keys themselves are always accepted as well.
var aliases = map[string]common.Platform{
	"win":         common.PLATFORM_EXE,
	"win32":       common.PLATFORM_EXE,
	"windows":     common.PLATFORM_EXE,
	"mac":         common.PLATFORM_DMG,
	"macos":       common.PLATFORM_DMG,
	"osx":         common.PLATFORM_DMG,
	"mac_arm64":   common.PLATFORM_DMG_ARM64,
	"macos_arm64": common.PLATFORM_DMG_ARM64,
	"osx_arm64":   common.PLATFORM_DMG_ARM64,
	"debian":      common.PLATFORM_DEB,
	"fedora":      common.PLATFORM_RPM,
}

// The full set of canonical platform keys.
var platforms = []common.Platform{
	common.PLATFORM_EXE,
	common.PLATFORM_NUPKG,
	common.PLATFORM_DMG,
	common.PLATFORM_DMG_ARM64,
	common.PLATFORM_DARWIN,
	common.PLATFORM_DARWIN_ARM64,
	common.PLATFORM_DEB,
	common.PLATFORM_RPM,
	common.PLATFORM_APPIMAGE,
	common.PLATFORM_SNAP,
}

// ResolveAlias maps a client-supplied platform alias to its canonical platform key.
func ResolveAlias(alias string) (common.Platform, bool) {
	normalized := strings.ToLower(strings.TrimSpace(alias))
	if normalized == "" {
		return "", false
	}
	for _, platform := range platforms {
		if normalized == strings.ToLower(string(platform)) {
			return platform, true
		}
	}
	if platform, ok := aliases[normalized]; ok {
		return platform, true
	}
	return "", false
}

// ResolveFilename classifies a raw asset file name into its canonical platform key.
// Installer assets (eg. a dmg) and auto-update feed assets (eg. a darwin zip)
// resolve to different keys even when the file names look similar.
func ResolveFilename(fileName string) (common.Platform, bool) {
	name := strings.ToLower(fileName)
	extension := path.Ext(name)
	arm64 := strings.Contains(name, "arm64") || strings.Contains(name, "aarch64")

	switch extension {
	case ".exe":
		return common.PLATFORM_EXE, true
	case ".nupkg":
		return common.PLATFORM_NUPKG, true
	case ".dmg":
		if arm64 {
			return common.PLATFORM_DMG_ARM64, true
		}
		return common.PLATFORM_DMG, true
	case ".deb":
		return common.PLATFORM_DEB, true
	case ".rpm":
		return common.PLATFORM_RPM, true
	case ".appimage":
		return common.PLATFORM_APPIMAGE, true
	case ".snap":
		return common.PLATFORM_SNAP, true
	case ".zip":
		// A zip is only relevant as the macOS auto-update feed
		if strings.Contains(name, "darwin") || strings.Contains(name, "mac") || strings.Contains(name, "osx") {
			if arm64 {
				return common.PLATFORM_DARWIN_ARM64, true
			}
			return common.PLATFORM_DARWIN, true
		}
	}
	return "", false
}

// UpdateVariant maps an installer platform key to its auto-update feed counterpart.
// Keys without a separate feed variant are returned unchanged.
func UpdateVariant(platform common.Platform) common.Platform {
	switch platform {
	case common.PLATFORM_DMG:
		return common.PLATFORM_DARWIN
	case common.PLATFORM_DMG_ARM64:
		return common.PLATFORM_DARWIN_ARM64
	}
	return platform
}
