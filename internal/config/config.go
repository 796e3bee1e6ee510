package config

import "time"

// Config is the root application configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	LLM      LLMConfig      `yaml:"llm"`
	Slack    SlackConfig    `yaml:"slack"`
	Deadline DeadlineConfig `yaml:"deadline"`
	Reminder ReminderConfig `yaml:"reminder"`
	Log      LogConfig      `yaml:"log"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// LLMConfig holds Anthropic API settings for deadline extraction.
type LLMConfig struct {
	APIKey    string        `yaml:"api_key"    env:"LLM_API_KEY"    env-required:"true"`
	Model     string        `yaml:"model"      env:"LLM_MODEL"      env-default:"claude-3-5-haiku-latest"`
	MaxTokens int64         `yaml:"max_tokens" env:"LLM_MAX_TOKENS" env-default:"1024"`
	Timeout   time.Duration `yaml:"timeout"    env:"LLM_TIMEOUT"    env-default:"30s"`
}

// SlackConfig holds Slack API settings.
type SlackConfig struct {
	BotToken      string `yaml:"bot_token"       env:"SLACK_BOT_TOKEN"       env-required:"true"`
	UserCacheSize int    `yaml:"user_cache_size" env:"SLACK_USER_CACHE_SIZE" env-default:"512"`
}

// DeadlineConfig holds deadline resolution settings.
type DeadlineConfig struct {
	OfficeStartHour int `yaml:"office_start_hour" env:"DEADLINE_OFFICE_START_HOUR" env-default:"10"`
	EarlyHourFloor  int `yaml:"early_hour_floor"  env:"DEADLINE_EARLY_HOUR_FLOOR"  env-default:"7"`
}

// ReminderConfig holds reminder scheduler settings.
type ReminderConfig struct {
	Interval   time.Duration `yaml:"interval"    env:"REMINDER_INTERVAL"    env-default:"1m"`
	DailyHour  int           `yaml:"daily_hour"  env:"REMINDER_DAILY_HOUR"  env-default:"10"`
	Tolerance  time.Duration `yaml:"tolerance"   env:"REMINDER_TOLERANCE"   env-default:"65s"`
	RetainDays int           `yaml:"retain_days" env:"REMINDER_RETAIN_DAYS" env-default:"2"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}
