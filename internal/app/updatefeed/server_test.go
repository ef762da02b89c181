package updatefeed

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rovery/updatefeed/pkg/common"
	"github.com/rovery/updatefeed/pkg/config"
	"github.com/stretchr/testify/assert"
)

// A stub of the upstream release api plus the redirect endpoint used by the
// private download proxy.
func newUpstreamStub(t *testing.T) *httptest.Server {
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/repos/acme/app/releases":
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprintf(w, `[
				{
					"tag_name": "v1.2.0",
					"draft": false,
					"body": "release notes",
					"published_at": "2024-06-01T12:00:00Z",
					"assets": [
						{
							"name": "app-win.exe",
							"browser_download_url": "https://downloads.example.com/app-win.exe",
							"url": "%s/assets/1",
							"content_type": "application/octet-stream",
							"size": 52428800
						},
						{
							"name": "app-mac.dmg",
							"browser_download_url": "https://downloads.example.com/app-mac.dmg",
							"url": "%s/assets/2",
							"content_type": "application/octet-stream",
							"size": 62914560
						},
						{
							"name": "app-darwin.zip",
							"browser_download_url": "https://downloads.example.com/app-darwin.zip",
							"url": "%s/assets/4",
							"content_type": "application/zip",
							"size": 62914560
						}
					]
				},
				{
					"tag_name": "v1.1.0-beta",
					"draft": false,
					"assets": [
						{
							"name": "app-mac.dmg",
							"browser_download_url": "https://downloads.example.com/beta/app-mac.dmg",
							"url": "%s/assets/3",
							"content_type": "application/octet-stream",
							"size": 62914560
						}
					]
				}
			]`, server.URL, server.URL, server.URL, server.URL)
		case "/assets/1", "/assets/2", "/assets/3", "/assets/4":
			// The private asset endpoint answers with a signed redirect
			w.Header().Set("Location", "https://signed.example.com"+r.URL.Path)
			w.WriteHeader(http.StatusFound)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func newTestServer(t *testing.T, token string, publicURL string) *Server {
	assert := assert.New(t)
	upstream := newUpstreamStub(t)
	server, err := NewServer(slog.Default(), &config.Config{
		Source:     common.SOURCE_TYPE_GITHUB,
		Endpoint:   upstream.URL,
		Account:    "acme",
		Repository: "app",
		Interval:   15,
		Token:      token,
		URL:        publicURL,
		Address:    ":0",
	})
	assert.NoError(err)
	return server
}

func doRequest(server *Server, target string) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, target, nil)
	server.Handler().ServeHTTP(recorder, request)
	return recorder
}

func TestOverview(t *testing.T) {
	assert := assert.New(t)
	server := newTestServer(t, "", "")

	recorder := doRequest(server, "/")
	assert.Equal(http.StatusOK, recorder.Code)

	overview := map[string]*common.Release{}
	assert.NoError(json.Unmarshal(recorder.Body.Bytes(), &overview))
	assert.Len(overview, 2)
	assert.Equal("1.2.0", overview["production"].Version)
	assert.Equal("1.1.0", overview["beta"].Version)
}

func TestUpdateAvailable(t *testing.T) {
	assert := assert.New(t)
	server := newTestServer(t, "", "")

	recorder := doRequest(server, "/update/win/1.1.0")
	assert.Equal(http.StatusOK, recorder.Code)

	payload := map[string]any{}
	assert.NoError(json.Unmarshal(recorder.Body.Bytes(), &payload))
	assert.Equal("1.2.0", payload["version"])
	assert.Equal("release notes", payload["notes"])
	assert.Equal("https://downloads.example.com/app-win.exe", payload["url"])
}

func TestUpdateOffersFeedAsset(t *testing.T) {
	assert := assert.New(t)
	server := newTestServer(t, "", "")

	// Mac update checks get the zip feed asset, not the dmg installer
	recorder := doRequest(server, "/update/mac/1.0.0")
	assert.Equal(http.StatusOK, recorder.Code)

	payload := map[string]any{}
	assert.NoError(json.Unmarshal(recorder.Body.Bytes(), &payload))
	assert.Equal("https://downloads.example.com/app-darwin.zip", payload["url"])
}

func TestUpdateUpToDate(t *testing.T) {
	assert := assert.New(t)
	server := newTestServer(t, "", "")

	recorder := doRequest(server, "/update/win/1.2.0")
	assert.Equal(http.StatusNoContent, recorder.Code)
}

func TestUpdateInvalidInput(t *testing.T) {
	assert := assert.New(t)
	server := newTestServer(t, "", "")

	recorder := doRequest(server, "/update/win/not-a-version")
	assert.Equal(http.StatusInternalServerError, recorder.Code)
	response := errorResponse{}
	assert.NoError(json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.Equal("version_invalid", response.Error)

	recorder = doRequest(server, "/update/bogus-platform/1.0.0")
	assert.Equal(http.StatusInternalServerError, recorder.Code)
	assert.NoError(json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.Equal("platform_invalid", response.Error)
}

func TestUpdateEnvironmentSelection(t *testing.T) {
	assert := assert.New(t)
	server := newTestServer(t, "", "")

	recorder := doRequest(server, "/update/mac/1.0.0?env=beta")
	assert.Equal(http.StatusOK, recorder.Code)

	payload := map[string]any{}
	assert.NoError(json.Unmarshal(recorder.Body.Bytes(), &payload))
	assert.Equal("1.1.0", payload["version"])

	// Unknown environments simply have nothing to offer
	recorder = doRequest(server, "/update/mac/1.0.0?env=nightly")
	assert.Equal(http.StatusNoContent, recorder.Code)
}

func TestDownloadRedirect(t *testing.T) {
	assert := assert.New(t)
	server := newTestServer(t, "", "")

	recorder := doRequest(server, "/download/win")
	assert.Equal(http.StatusFound, recorder.Code)
	assert.Equal("https://downloads.example.com/app-win.exe", recorder.Header().Get("Location"))
}

func TestDownloadNotFound(t *testing.T) {
	assert := assert.New(t)
	server := newTestServer(t, "", "")

	recorder := doRequest(server, "/download/snap")
	assert.Equal(http.StatusNotFound, recorder.Code)

	recorder = doRequest(server, "/download/win?env=nightly")
	assert.Equal(http.StatusNotFound, recorder.Code)
}

func TestDownloadInvalidPlatform(t *testing.T) {
	assert := assert.New(t)
	server := newTestServer(t, "", "")

	recorder := doRequest(server, "/download/bogus-platform")
	assert.Equal(http.StatusInternalServerError, recorder.Code)
}

func TestDownloadByUserAgent(t *testing.T) {
	assert := assert.New(t)
	server := newTestServer(t, "", "")

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/download", nil)
	request.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64)")
	server.Handler().ServeHTTP(recorder, request)
	assert.Equal(http.StatusFound, recorder.Code)
	assert.Equal("https://downloads.example.com/app-win.exe", recorder.Header().Get("Location"))

	recorder = httptest.NewRecorder()
	request = httptest.NewRequest(http.MethodGet, "/download", nil)
	request.Header.Set("User-Agent", "curl/8.0")
	server.Handler().ServeHTTP(recorder, request)
	assert.Equal(http.StatusNotFound, recorder.Code)
}

func TestPrivateModeUpdatePointsAtProxy(t *testing.T) {
	assert := assert.New(t)
	server := newTestServer(t, "secret-token", "https://updates.example.com")

	recorder := doRequest(server, "/update/win/1.0.0")
	assert.Equal(http.StatusOK, recorder.Code)

	payload := map[string]any{}
	assert.NoError(json.Unmarshal(recorder.Body.Bytes(), &payload))
	assert.Equal("https://updates.example.com/download/win?env=production&update=true", payload["url"])
}

func TestPrivateModeDownloadProxiesLocation(t *testing.T) {
	assert := assert.New(t)
	server := newTestServer(t, "secret-token", "https://updates.example.com")

	recorder := doRequest(server, "/download/win")
	assert.Equal(http.StatusFound, recorder.Code)
	assert.Equal("https://signed.example.com/assets/1", recorder.Header().Get("Location"))
}

func TestNewServerValidatesConfiguration(t *testing.T) {
	assert := assert.New(t)

	_, err := NewServer(slog.Default(), &config.Config{Source: common.SOURCE_TYPE_GITHUB})
	var configError *common.ConfigurationError
	assert.ErrorAs(err, &configError)
}
