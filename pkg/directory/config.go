package directory

import "time"

// Config holds directory client configuration.
// Token settings are optional: when TokenURL is empty the client calls the
// directory without authentication, which suits local development against
// the mock directory.
type Config struct {
	BaseURL       string        `env:"DIRECTORY_URL,required"`
	Timeout       time.Duration `env:"DIRECTORY_TIMEOUT" envDefault:"2s"`
	GroupsEnabled bool          `env:"DIRECTORY_GROUPS_ENABLED" envDefault:"false"`
	TokenURL      string        `env:"DIRECTORY_TOKEN_URL"`
	ClientID      string        `env:"DIRECTORY_CLIENT_ID"`
	ClientSecret  string        `env:"DIRECTORY_CLIENT_SECRET"`
}
