package platform

import (
	"testing"

	"github.com/rovery/updatefeed/pkg/common"
	"github.com/stretchr/testify/assert"
)

func TestResolveFilename(t *testing.T) {
	assert := assert.New(t)

	testCases := []struct {
		fileName string
		expected common.Platform
	}{
		{"MyApp-Setup-1.2.0.exe", common.PLATFORM_EXE},
		{"MyApp-1.2.0-full.nupkg", common.PLATFORM_NUPKG},
		{"MyApp-1.2.0.dmg", common.PLATFORM_DMG},
		{"MyApp-1.2.0-arm64.dmg", common.PLATFORM_DMG_ARM64},
		{"MyApp-mac-1.2.0.zip", common.PLATFORM_DARWIN},
		{"MyApp-darwin-x64.zip", common.PLATFORM_DARWIN},
		{"MyApp-darwin-arm64.zip", common.PLATFORM_DARWIN_ARM64},
		{"MyApp-mac-aarch64.zip", common.PLATFORM_DARWIN_ARM64},
		{"myapp_1.2.0_amd64.deb", common.PLATFORM_DEB},
		{"myapp-1.2.0.x86_64.rpm", common.PLATFORM_RPM},
		{"MyApp-1.2.0.AppImage", common.PLATFORM_APPIMAGE},
		{"myapp_1.2.0_amd64.snap", common.PLATFORM_SNAP},
	}
	for _, testCase := range testCases {
		resolved, ok := ResolveFilename(testCase.fileName)
		assert.True(ok, testCase.fileName)
		assert.Equal(testCase.expected, resolved, testCase.fileName)
	}
}

func TestResolveFilenameDistinguishesInstallerAndFeed(t *testing.T) {
	assert := assert.New(t)

	// The dmg is the manual installer, the zip is the auto-update feed
	installer, ok := ResolveFilename("MyApp-1.2.0.dmg")
	assert.True(ok)
	feed, ok := ResolveFilename("MyApp-mac-1.2.0.zip")
	assert.True(ok)
	assert.NotEqual(installer, feed)
}

func TestResolveFilenameUnknown(t *testing.T) {
	assert := assert.New(t)

	for _, fileName := range []string{"RELEASES", "checksums.txt", "source.tar.gz", "MyApp-linux.zip", ""} {
		_, ok := ResolveFilename(fileName)
		assert.False(ok, fileName)
	}
}

func TestResolveAlias(t *testing.T) {
	assert := assert.New(t)

	testCases := []struct {
		alias    string
		expected common.Platform
	}{
		{"win", common.PLATFORM_EXE},
		{"windows", common.PLATFORM_EXE},
		{"win32", common.PLATFORM_EXE},
		{"exe", common.PLATFORM_EXE},
		{"mac", common.PLATFORM_DMG},
		{"macos", common.PLATFORM_DMG},
		{"osx", common.PLATFORM_DMG},
		{"dmg", common.PLATFORM_DMG},
		{"mac_arm64", common.PLATFORM_DMG_ARM64},
		{"darwin", common.PLATFORM_DARWIN},
		{"DARWIN", common.PLATFORM_DARWIN},
		{"darwin_arm64", common.PLATFORM_DARWIN_ARM64},
		{"debian", common.PLATFORM_DEB},
		{"fedora", common.PLATFORM_RPM},
		{"appimage", common.PLATFORM_APPIMAGE},
		{"snap", common.PLATFORM_SNAP},
	}
	for _, testCase := range testCases {
		resolved, ok := ResolveAlias(testCase.alias)
		assert.True(ok, testCase.alias)
		assert.Equal(testCase.expected, resolved, testCase.alias)
	}

	_, ok := ResolveAlias("bogus-platform")
	assert.False(ok)
	_, ok = ResolveAlias("")
	assert.False(ok)
}

func TestUpdateVariant(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(common.PLATFORM_DARWIN, UpdateVariant(common.PLATFORM_DMG))
	assert.Equal(common.PLATFORM_DARWIN_ARM64, UpdateVariant(common.PLATFORM_DMG_ARM64))
	assert.Equal(common.PLATFORM_EXE, UpdateVariant(common.PLATFORM_EXE))
	assert.Equal(common.PLATFORM_DEB, UpdateVariant(common.PLATFORM_DEB))
}
