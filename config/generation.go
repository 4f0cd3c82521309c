package config

import "time"

// GenerationConfig contains direct model generation configuration.
//
// Direct generation bypasses the workflow engine and calls the model API
// synchronously, trying the feature's fallback chain on failure.
type GenerationConfig struct {
	// Enabled controls whether the synchronous generation route is exposed.
	Enabled bool `env:"ENABLED" envDefault:"false"`

	// AnthropicAPIKey authenticates direct model calls. Required when Enabled.
	AnthropicAPIKey string `env:"ANTHROPIC_API_KEY"`

	// Timeout bounds a single direct generation request, including fallbacks.
	Timeout time.Duration `env:"TIMEOUT" envDefault:"120s"`
}

// Sanitize applies guardrails to generation configuration values.
func (g *GenerationConfig) Sanitize() {
	if g.Timeout <= 0 {
		g.Timeout = 120 * time.Second
	}
}
