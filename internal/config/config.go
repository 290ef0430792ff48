package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultTimezone = "Europe/London"

	configPathEnv     = "HERALDBOT_CONFIG"
	ledgerDSNEnv      = "LEDGER_DSN"
	blueskyHandleEnv  = "BLUESKY_HANDLE"
	blueskyAppPassEnv = "BLUESKY_APP_PASSWORD"
	twitterKeyEnv     = "TWITTER_API_KEY"
	twitterSecretEnv  = "TWITTER_API_SECRET"
	twitterTokenEnv   = "TWITTER_ACCESS_TOKEN"
	twitterAccessEnv  = "TWITTER_ACCESS_SECRET"
)

// Config holds high-level settings required across the application.
type Config struct {
	Site      SiteConfig      `yaml:"site"`
	Fetcher   FetcherConfig   `yaml:"fetcher"`
	Window    WindowConfig    `yaml:"window"`
	Freshness FreshnessConfig `yaml:"freshness"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Ledger    LedgerConfig    `yaml:"ledger"`
	Logging   LoggingConfig   `yaml:"logging"`
	Bluesky   BlueskyConfig   `yaml:"bluesky"`
	Twitter   TwitterConfig   `yaml:"twitter"`
}

// SiteConfig describes the news site and the section to watch.
type SiteConfig struct {
	BaseURL     string `yaml:"baseUrl"`
	SectionPath string `yaml:"sectionPath"`
	FeedPath    string `yaml:"feedPath"`
	Locator     string `yaml:"locator"`
	UserAgent   string `yaml:"userAgent"`
}

// FetcherConfig selects the page-retrieval strategy and its pacing.
type FetcherConfig struct {
	Strategy       string `yaml:"strategy"`
	TimeoutSeconds int    `yaml:"timeoutSeconds"`
	MinDelayMS     int    `yaml:"minDelayMs"`
	MaxDelayMS     int    `yaml:"maxDelayMs"`
}

// WindowConfig bounds the hour-of-day run window in a fixed zone.
type WindowConfig struct {
	StartHour int            `yaml:"startHour"`
	EndHour   int            `yaml:"endHour"`
	Timezone  string         `yaml:"timezone"`
	location  *time.Location `yaml:"-"`
}

// Location resolves the window timezone string to a time.Location.
func (w WindowConfig) Location() *time.Location {
	if w.location != nil {
		return w.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

// FreshnessConfig bounds how old an article may be and still be announced.
type FreshnessConfig struct {
	MaxAgeHours int `yaml:"maxAgeHours"`
}

// MaxAge returns the freshness threshold as a duration.
func (f FreshnessConfig) MaxAge() time.Duration {
	return time.Duration(f.MaxAgeHours) * time.Hour
}

// SchedulerConfig enables daemon mode; empty expression means one pass.
type SchedulerConfig struct {
	CronExpression string `yaml:"cronExpression"`
}

// LedgerConfig selects the posted-URL store backend.
type LedgerConfig struct {
	Driver string `yaml:"driver"`
	Dir    string `yaml:"dir"`
	DSN    string `yaml:"dsn"`
}

// LoggingConfig controls slog verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// BlueskyConfig wires the Bluesky target.
type BlueskyConfig struct {
	Enabled            bool   `yaml:"enabled"`
	Host               string `yaml:"host"`
	Handle             string `yaml:"handle"`
	AppPassword        string `yaml:"appPassword"`
	CharLimit          int    `yaml:"charLimit"`
	DefaultDescription string `yaml:"defaultDescription"`
	LedgerFile         string `yaml:"ledgerFile"`
}

// TwitterConfig wires the Twitter/X target.
type TwitterConfig struct {
	Enabled      bool   `yaml:"enabled"`
	APIKey       string `yaml:"apiKey"`
	APISecret    string `yaml:"apiSecret"`
	AccessToken  string `yaml:"accessToken"`
	AccessSecret string `yaml:"accessSecret"`
	CharLimit    int    `yaml:"charLimit"`
	LedgerFile   string `yaml:"ledgerFile"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			// Decode over a copy of the defaults: keys absent from the
			// file keep their default value, keys present override it,
			// explicit zeros included (maxDelayMs: 0 disables pacing).
			fileCfg := cfg
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = fileCfg
			}
		}
	}

	cfg.applyEnvOverrides()
	cfg.bindTimezone()

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(ledgerDSNEnv); v != "" {
		c.Ledger.DSN = v
	}

	if v := os.Getenv(blueskyHandleEnv); v != "" {
		c.Bluesky.Handle = v
	}
	if v := os.Getenv(blueskyAppPassEnv); v != "" {
		c.Bluesky.AppPassword = v
	}

	if v := os.Getenv(twitterKeyEnv); v != "" {
		c.Twitter.APIKey = v
	}
	if v := os.Getenv(twitterSecretEnv); v != "" {
		c.Twitter.APISecret = v
	}
	if v := os.Getenv(twitterTokenEnv); v != "" {
		c.Twitter.AccessToken = v
	}
	if v := os.Getenv(twitterAccessEnv); v != "" {
		c.Twitter.AccessSecret = v
	}
}

func (c *Config) bindTimezone() {
	tz := c.Window.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to %s", tz, defaultTimezone)
		loc, _ = time.LoadLocation(defaultTimezone)
	}
	c.Window.location = loc
}

func defaultConfig() Config {
	tz, _ := time.LoadLocation(defaultTimezone)
	return Config{
		Site: SiteConfig{
			BaseURL:     "https://www.heraldscotland.com",
			SectionPath: "/politics/",
			FeedPath:    "/politics/rss/",
			Locator:     "listing",
			UserAgent: "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) " +
				"AppleWebKit/537.36 (KHTML, like Gecko) " +
				"Chrome/123.0.0.0 Safari/537.36",
		},
		Fetcher: FetcherConfig{
			Strategy:       "static",
			TimeoutSeconds: 10,
			MinDelayMS:     1500,
			MaxDelayMS:     3500,
		},
		Window: WindowConfig{
			StartHour: 7,
			EndHour:   20,
			Timezone:  defaultTimezone,
			location:  tz,
		},
		Freshness: FreshnessConfig{MaxAgeHours: 12},
		Ledger:    LedgerConfig{Driver: "file", Dir: "."},
		Logging:   LoggingConfig{Level: "info"},
		Bluesky: BlueskyConfig{
			Host:               "https://bsky.social",
			CharLimit:          300,
			DefaultDescription: "Read more on Herald Scotland",
			LedgerFile:         "posted_urls.txt",
		},
		Twitter: TwitterConfig{
			CharLimit:  280,
			LedgerFile: "posted_urls_twitter.txt",
		},
	}
}
