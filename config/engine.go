package config

import "time"

// EngineConfig contains workflow engine integration configuration.
//
// The engine is an external service that accepts generation job requests and
// later POSTs signed callbacks to this application's webhook endpoint.
type EngineConfig struct {
	// BaseURL is the base URL of the workflow engine API.
	BaseURL string `env:"BASE_URL" envDefault:"http://localhost:9000"`

	// WebhookSecret is the shared secret used to verify callback signatures.
	// Required outside development mode.
	WebhookSecret string `env:"WEBHOOK_SECRET"`

	// CallbackPath is the path on this service the engine POSTs callbacks to.
	// It is joined with HTTPConfig.BaseURL when submitting a job.
	CallbackPath string `env:"CALLBACK_PATH" envDefault:"/api/webhooks/engine"`

	// Timeout bounds a single job submission request to the engine.
	Timeout time.Duration `env:"TIMEOUT" envDefault:"30s"`
}

// Sanitize applies guardrails to engine configuration values.
func (e *EngineConfig) Sanitize() {
	if e.Timeout <= 0 {
		e.Timeout = 30 * time.Second
	}
	if e.CallbackPath == "" {
		e.CallbackPath = "/api/webhooks/engine"
	}
}
