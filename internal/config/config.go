package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultTimezone = "UTC"
	configPathEnv   = "PAPER_SCRAPER_CONFIG"
	openAIAPIKeyEnv = "OPENAI_API_KEY"
	openAIModelEnv  = "OPENAI_MODEL"
	smtpUsernameEnv = "SMTP_USERNAME"
	smtpPasswordEnv = "SMTP_PASSWORD"
	recipientEnv    = "RECIPIENT_EMAIL"
	statePathEnv    = "PAPER_SCRAPER_STATE"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging   LoggingConfig   `yaml:"logging"`
	Feed      FeedConfig      `yaml:"feed"`
	Buckets   []BucketConfig  `yaml:"buckets"`
	Summary   SummaryConfig   `yaml:"summary"`
	Mail      MailConfig      `yaml:"mail"`
	State     StateConfig     `yaml:"state"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

// LoggingConfig controls the slog level.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// FeedConfig tunes the search window and selection policy.
type FeedConfig struct {
	MaxResults   int `yaml:"maxResults"`
	WindowDays   int `yaml:"windowDays"`
	MinVersion   int `yaml:"minVersion"`
	SelectionCap int `yaml:"selectionCap"`
}

// BucketConfig names one topical bucket and its category codes.
type BucketConfig struct {
	Name       string   `yaml:"name"`
	Categories []string `yaml:"categories"`
}

// SummaryConfig defines how to contact the summarization API.
type SummaryConfig struct {
	Endpoint     string `yaml:"endpoint"`
	Model        string `yaml:"model"`
	APIKey       string `yaml:"apiKey"`
	SystemPrompt string `yaml:"systemPrompt"`
}

// MailConfig wires all data required to deliver the digest over SMTP.
type MailConfig struct {
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	Username  string `yaml:"username"`
	Password  string `yaml:"password"`
	Recipient string `yaml:"recipient"`
}

// StateConfig locates the persisted version map.
type StateConfig struct {
	Path string `yaml:"path"`
}

// SchedulerConfig defines the optional daemon-mode cron schedule.
type SchedulerConfig struct {
	Enabled        bool           `yaml:"enabled"`
	CronExpression string         `yaml:"cronExpression"`
	Timezone       string         `yaml:"timezone"`
	location       *time.Location `yaml:"-"`
}

// Location resolves the scheduler timezone string to a time.Location.
func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	cfg.bindTimezone()

	if len(cfg.Buckets) == 0 {
		cfg.Buckets = defaultConfig().Buckets
	}

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(openAIAPIKeyEnv); v != "" {
		c.Summary.APIKey = v
	}

	if v := os.Getenv(openAIModelEnv); v != "" {
		c.Summary.Model = v
	}

	if v := os.Getenv(smtpUsernameEnv); v != "" {
		c.Mail.Username = v
	}

	if v := os.Getenv(smtpPasswordEnv); v != "" {
		c.Mail.Password = v
	}

	if v := os.Getenv(recipientEnv); v != "" {
		c.Mail.Recipient = v
	}

	if v := os.Getenv(statePathEnv); v != "" {
		c.State.Path = v
	}
}

func (c *Config) bindTimezone() {
	tz := c.Scheduler.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to %s", tz, defaultTimezone)
		loc, _ = time.LoadLocation(defaultTimezone)
	}
	c.Scheduler.location = loc
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	if override.Feed.MaxResults > 0 {
		base.Feed.MaxResults = override.Feed.MaxResults
	}
	if override.Feed.WindowDays > 0 {
		base.Feed.WindowDays = override.Feed.WindowDays
	}
	if override.Feed.MinVersion > 0 {
		base.Feed.MinVersion = override.Feed.MinVersion
	}
	if override.Feed.SelectionCap > 0 {
		base.Feed.SelectionCap = override.Feed.SelectionCap
	}

	if override.Summary.Endpoint != "" {
		base.Summary.Endpoint = override.Summary.Endpoint
	}
	if override.Summary.Model != "" {
		base.Summary.Model = override.Summary.Model
	}
	if override.Summary.APIKey != "" {
		base.Summary.APIKey = override.Summary.APIKey
	}
	if override.Summary.SystemPrompt != "" {
		base.Summary.SystemPrompt = override.Summary.SystemPrompt
	}

	if override.Mail.Host != "" {
		base.Mail.Host = override.Mail.Host
	}
	if override.Mail.Port > 0 {
		base.Mail.Port = override.Mail.Port
	}
	if override.Mail.Username != "" {
		base.Mail.Username = override.Mail.Username
	}
	if override.Mail.Password != "" {
		base.Mail.Password = override.Mail.Password
	}
	if override.Mail.Recipient != "" {
		base.Mail.Recipient = override.Mail.Recipient
	}

	if override.State.Path != "" {
		base.State.Path = override.State.Path
	}

	if override.Scheduler.Enabled {
		base.Scheduler.Enabled = true
	}
	if override.Scheduler.CronExpression != "" {
		base.Scheduler.CronExpression = override.Scheduler.CronExpression
	}
	if override.Scheduler.Timezone != "" {
		base.Scheduler.Timezone = override.Scheduler.Timezone
	}

	if len(override.Buckets) > 0 {
		base.Buckets = override.Buckets
	}

	return base
}

func defaultConfig() Config {
	tz, _ := time.LoadLocation(defaultTimezone)
	return Config{
		Logging: LoggingConfig{Level: "info"},
		Feed: FeedConfig{
			MaxResults:   50,
			WindowDays:   180,
			MinVersion:   2,
			SelectionCap: 2,
		},
		Buckets: []BucketConfig{
			{Name: "AI", Categories: []string{"cs.AI", "cs.LG", "cs.CV", "cs.CL", "cs.NE"}},
			{Name: "Security", Categories: []string{"cs.CR", "cs.IT", "math.IT"}},
		},
		Summary: SummaryConfig{
			Endpoint: "https://api.openai.com/v1/chat/completions",
			Model:    "gpt-4o-mini",
			APIKey:   "",
			SystemPrompt: "Summarize the following academic abstract in 3-4 concise sentences, " +
				"covering the research question, the main method, the core contribution, and the " +
				"key results. Do not introduce information absent from the abstract.",
		},
		Mail: MailConfig{
			Host: "smtp.qq.com",
			Port: 587,
		},
		State:     StateConfig{Path: "downloaded_papers.json"},
		Scheduler: SchedulerConfig{Enabled: false, CronExpression: "0 6 * * *", Timezone: defaultTimezone, location: tz},
	}
}
