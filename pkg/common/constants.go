package common

// The environment that releases without a channel suffix in their tag belong to.
const ENVIRONMENT_PRODUCTION string = "production"

type Platform string

const (
	PLATFORM_EXE          Platform = "exe"
	PLATFORM_NUPKG        Platform = "nupkg"
	PLATFORM_DMG          Platform = "dmg"
	PLATFORM_DMG_ARM64    Platform = "dmg_arm64"
	PLATFORM_DARWIN       Platform = "darwin"
	PLATFORM_DARWIN_ARM64 Platform = "darwin_arm64"
	PLATFORM_DEB          Platform = "deb"
	PLATFORM_RPM          Platform = "rpm"
	PLATFORM_APPIMAGE     Platform = "AppImage"
	PLATFORM_SNAP         Platform = "snap"
)

type SourceType string

const (
	SOURCE_TYPE_GITHUB SourceType = "github"
	SOURCE_TYPE_GITEA  SourceType = "gitea"
	SOURCE_TYPE_GITLAB SourceType = "gitlab"
)
