package config

import "time"

// Config is the root application configuration.
type Config struct {
	Database   DatabaseConfig   `yaml:"database"`
	Log        LogConfig        `yaml:"log"`
	Moderation ModerationConfig `yaml:"moderation"`
	Escalation EscalationConfig `yaml:"escalation"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// ModerationConfig holds report and evidence moderation settings.
type ModerationConfig struct {
	DefaultRejectReason  string `yaml:"default_reject_reason" env:"MODERATION_DEFAULT_REJECT_REASON" env-default:"rejected by administrator"`
	TransactionalArchive bool   `yaml:"transactional_archive" env:"MODERATION_TRANSACTIONAL_ARCHIVE" env-default:"true"`
	BatchConcurrency     int    `yaml:"batch_concurrency"     env:"MODERATION_BATCH_CONCURRENCY"     env-default:"4"`
	MaxBatchSize         int    `yaml:"max_batch_size"        env:"MODERATION_MAX_BATCH_SIZE"        env-default:"500"`
}

// EscalationConfig holds the auto-escalation rule parameters.
type EscalationConfig struct {
	PerpetratorWindow          time.Duration `yaml:"perpetrator_window"           env:"ESCALATION_PERPETRATOR_WINDOW"           env-default:"168h"`
	PerpetratorVictimThreshold int           `yaml:"perpetrator_victim_threshold" env:"ESCALATION_PERPETRATOR_VICTIM_THRESHOLD" env-default:"3"`
	VictimWindowMonths         int           `yaml:"victim_window_months"         env:"ESCALATION_VICTIM_WINDOW_MONTHS"         env-default:"1"`
	VictimReportThreshold      int           `yaml:"victim_report_threshold"      env:"ESCALATION_VICTIM_REPORT_THRESHOLD"      env-default:"5"`
	EvidencePatternThreshold   int           `yaml:"evidence_pattern_threshold"   env:"ESCALATION_EVIDENCE_PATTERN_THRESHOLD"   env-default:"3"`
}
