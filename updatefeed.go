package updatefeed

import (
	"log/slog"
	"net/http"

	app "github.com/rovery/updatefeed/internal/app/updatefeed"
	"github.com/rovery/updatefeed/pkg/common"
	"github.com/rovery/updatefeed/pkg/config"
	"github.com/rovery/updatefeed/pkg/sources"
)

// Get a release source with the given settings.
func GetReleaseSource(sourceType common.SourceType, settings *common.SourceSettings) (common.IReleaseSource, error) {
	return sources.GetReleaseSource(sourceType, settings)
}

// Load the configuration from the given path and the environment.
func LoadConfig(configPath string) (*config.Config, error) {
	return config.Load(configPath)
}

// NewHandler builds the full http handler of the service for embedding into
// an existing server.
func NewHandler(logger *slog.Logger, cfg *config.Config) (http.Handler, error) {
	server, err := app.NewServer(logger, cfg)
	if err != nil {
		return nil, err
	}
	return server.Handler(), nil
}
