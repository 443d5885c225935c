package infra

import (
	"fmt"
)

type PgConfig struct {
	ConnectionString   string
	Database           string
	Hostname           string
	Password           string
	Port               string
	User               string
	MaxPoolConnections int
	SslMode            string
}

func (config PgConfig) GetConnectionString() string {
	if config.ConnectionString != "" {
		return config.ConnectionString
	}

	if config.SslMode == "" {
		config.SslMode = "prefer"
	}

	return fmt.Sprintf("host=%s port=%s user=%s password=%s database=%s sslmode=%s",
		config.Hostname, config.Port, config.User, config.Password, config.Database, config.SslMode)
}

// LlmProviderConfiguration carries the credentials and client policies of
// every connector provider the service may resolve. Retry and rate limiting
// live here on purpose: the deliberation engine never retries, that is the
// connectors' job.
type LlmProviderConfiguration struct {
	OpenAIURL     string
	OpenAIKey     string
	AIStudioKey   string
	PerplexityKey string
	GeminiKey     string

	// Maximum request rate per provider, in requests per minute. 0 disables
	// client-side rate limiting.
	RateLimitPerMinute int
	// Number of attempts per connector call, including the first one.
	RetryAttempts uint
}

// DeliberationConfiguration is the explicit configuration value injected into
// the deliberation engine. Notably the justifier connector is named here
// rather than discovered from ambient process state.
type DeliberationConfiguration struct {
	JustifierProvider string
	JustifierModel    string
	// Upper bound on in-flight connector calls within one round, across the
	// model and sample axes combined.
	MaxConcurrentModelCalls int
	PromptFolder            string
}

type TelemetryConfiguration struct {
	Enabled         bool
	ApplicationName string
	Exporter        string
	ProjectID       string
}
