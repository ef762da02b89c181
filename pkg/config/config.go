package config

import (
	"os"
	"time"

	"github.com/rovery/updatefeed/pkg/common"
)

const DefaultAddress = ":3000"
const DefaultIntervalMinutes = 15

// The full configuration of the service.
type Config struct {
	// The type of the release source (github, gitea or gitlab). Defaults to github.
	Source common.SourceType `json:"source" yaml:"source"`
	// An alternative base api url, eg. for self-hosted instances.
	Endpoint string `json:"endpoint" yaml:"endpoint"`
	// The account or organization that owns the repository.
	Account string `json:"account" yaml:"account"`
	// The repository to serve releases from.
	Repository string `json:"repository" yaml:"repository"`
	// The refresh interval of the release cache in minutes.
	Interval int `json:"interval" yaml:"interval"`
	// A token for private repositories.
	Token string `json:"token" yaml:"token"`
	// The public base url of this service. Required when a token is set.
	URL string `json:"url" yaml:"url"`
	// The address the http server listens on.
	Address string `json:"address" yaml:"address"`
}

// Expands the token with environment variables.
func (c *Config) TokenExpanded() string {
	return os.ExpandEnv(c.Token)
}

// Gets the refresh interval as a duration.
func (c *Config) RefreshInterval() time.Duration {
	return time.Duration(c.Interval) * time.Minute
}

// Validates the configuration. A configuration that fails validation
// must not be used to start the process.
func (c *Config) Validate() error {
	if c.Account == "" {
		return &common.ConfigurationError{Message: "no account configured"}
	}
	if c.Repository == "" {
		return &common.ConfigurationError{Message: "no repository configured"}
	}
	if c.Interval <= 0 {
		return &common.ConfigurationError{Message: "the refresh interval must be a positive number of minutes"}
	}
	if c.TokenExpanded() != "" && c.URL == "" {
		return &common.ConfigurationError{Message: "a public url is required when a token is configured"}
	}
	switch c.Source {
	case common.SOURCE_TYPE_GITHUB, common.SOURCE_TYPE_GITEA, common.SOURCE_TYPE_GITLAB:
	default:
		return &common.ConfigurationError{Message: "unknown release source '" + string(c.Source) + "'"}
	}
	return nil
}
