package config

import (
	"fmt"
	"slices"
	"strings"
)

var (
	logLevels  = []string{"debug", "info", "warn", "error"}
	logFormats = []string{"json", "text"}
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if err := c.Database.validate(); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Log.validate(); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	if err := c.Moderation.validate(); err != nil {
		return fmt.Errorf("moderation: %w", err)
	}
	if err := c.Escalation.validate(); err != nil {
		return fmt.Errorf("escalation: %w", err)
	}
	return nil
}

func (d *DatabaseConfig) validate() error {
	if strings.TrimSpace(d.DSN) == "" {
		return fmt.Errorf("dsn is required")
	}
	if d.MaxConns < 1 {
		return fmt.Errorf("max_conns must be >= 1 (got %d)", d.MaxConns)
	}
	if d.MinConns < 0 || d.MinConns > d.MaxConns {
		return fmt.Errorf("min_conns must be between 0 and max_conns (got %d)", d.MinConns)
	}
	return nil
}

func (l *LogConfig) validate() error {
	if !slices.Contains(logLevels, strings.ToLower(l.Level)) {
		return fmt.Errorf("level must be one of %v (got %q)", logLevels, l.Level)
	}
	if !slices.Contains(logFormats, strings.ToLower(l.Format)) {
		return fmt.Errorf("format must be one of %v (got %q)", logFormats, l.Format)
	}
	return nil
}

func (m *ModerationConfig) validate() error {
	if strings.TrimSpace(m.DefaultRejectReason) == "" {
		return fmt.Errorf("default_reject_reason must not be blank")
	}
	if m.BatchConcurrency < 1 {
		return fmt.Errorf("batch_concurrency must be >= 1 (got %d)", m.BatchConcurrency)
	}
	if m.MaxBatchSize < 0 {
		return fmt.Errorf("max_batch_size must be >= 0 (got %d)", m.MaxBatchSize)
	}
	return nil
}

func (e *EscalationConfig) validate() error {
	if e.PerpetratorWindow <= 0 {
		return fmt.Errorf("perpetrator_window must be > 0 (got %v)", e.PerpetratorWindow)
	}
	if e.PerpetratorVictimThreshold < 1 {
		return fmt.Errorf("perpetrator_victim_threshold must be >= 1 (got %d)", e.PerpetratorVictimThreshold)
	}
	if e.VictimWindowMonths < 1 {
		return fmt.Errorf("victim_window_months must be >= 1 (got %d)", e.VictimWindowMonths)
	}
	if e.VictimReportThreshold < 0 {
		return fmt.Errorf("victim_report_threshold must be >= 0 (got %d)", e.VictimReportThreshold)
	}
	if e.EvidencePatternThreshold < 1 {
		return fmt.Errorf("evidence_pattern_threshold must be >= 1 (got %d)", e.EvidencePatternThreshold)
	}
	return nil
}
