package config

import "time"

// ReconcilerConfig contains stale-job reconciler configuration.
//
// The reconciler periodically fails generation jobs that have been pending
// longer than PendingTTL, so a job whose callback never arrives does not
// stay pending forever.
type ReconcilerConfig struct {
	// Interval is how often the reconciler scans for stale jobs.
	Interval time.Duration `env:"INTERVAL" envDefault:"1m"`

	// PendingTTL is how long a job may stay pending before it is failed.
	PendingTTL time.Duration `env:"PENDING_TTL" envDefault:"30m"`

	// BatchSize caps how many jobs are expired per scan.
	BatchSize int `env:"BATCH_SIZE" envDefault:"100"`
}

// Sanitize applies guardrails to reconciler configuration values.
func (r *ReconcilerConfig) Sanitize() {
	if r.Interval < 10*time.Second {
		r.Interval = 10 * time.Second
	}
	if r.PendingTTL < time.Minute {
		r.PendingTTL = time.Minute
	}
	if r.BatchSize <= 0 {
		r.BatchSize = 100
	}
	if r.BatchSize > 1000 {
		r.BatchSize = 1000
	}
}
