package config

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/rewired-gh/nbafuse/internal/calendar"
	"github.com/rewired-gh/nbafuse/internal/models"
)

// Sportsbooks lists the books accepted for predictions.
var Sportsbooks = []string{"fanduel", "draftkings", "betmgm", "pointsbet", "caesars", "wynn", "bet_rivers_ny"}

// Config represents the complete application configuration
type Config struct {
	DataURL      string                  `mapstructure:"data-url"`
	FetchData    map[string]SeasonConfig `mapstructure:"fetch-data"`
	FetchOddData map[string]SeasonConfig `mapstructure:"fetch-odd-data"`
	CreateGame   map[string]SeasonConfig `mapstructure:"create-game"`

	Archive    ArchiveConfig    `mapstructure:"archive"`
	Fetch      FetchConfig      `mapstructure:"fetch"`
	Sportsbook SportsbookConfig `mapstructure:"sportsbook"`
	Fusion     FusionConfig     `mapstructure:"fusion"`
	Dataset    DatasetConfig    `mapstructure:"dataset"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
	Export     ExportConfig     `mapstructure:"export"`
	Telegram   TelegramConfig   `mapstructure:"telegram"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Model      ModelConfig      `mapstructure:"model"`
}

// SeasonConfig is one season's date range.
type SeasonConfig struct {
	StartDate string `mapstructure:"start_date"`
	EndDate   string `mapstructure:"end_date"`
	StartYear int    `mapstructure:"start_year"`
}

// ArchiveConfig holds the historical odds archive import settings
type ArchiveConfig struct {
	CSVPath   string `mapstructure:"csv_path"`
	OutputDir string `mapstructure:"output_dir"` // empty = no per-season CSV export
}

// FetchConfig holds settings shared by the statistics and odds fetchers
type FetchConfig struct {
	OddsURL      string        `mapstructure:"odds_url"`
	UserAgent    string        `mapstructure:"user_agent"`
	Timeout      time.Duration `mapstructure:"timeout"`
	MaxRetries   int           `mapstructure:"max_retries"`
	MinDelay     time.Duration `mapstructure:"min_delay"`
	MaxDelay     time.Duration `mapstructure:"max_delay"`
	SkipExisting bool          `mapstructure:"skip_existing"`
}

// SportsbookConfig selects the books used for odds collection and predictions
type SportsbookConfig struct {
	Collect string `mapstructure:"collect"`
	Predict string `mapstructure:"predict"`
}

// FusionConfig holds fusion behavior
type FusionConfig struct {
	StrictEras bool `mapstructure:"strict_eras"`
}

// DatasetConfig holds feature table assembly settings
type DatasetConfig struct {
	DropColumns []string `mapstructure:"drop_columns"`
}

// StorageConfig holds storage and persistence configuration
type StorageConfig struct {
	DBPath  string `mapstructure:"db_path"`
	MaxRuns int    `mapstructure:"max_runs"`
}

// CacheConfig holds the Redis response cache configuration
type CacheConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// MetricsConfig holds Prometheus textfile export settings
type MetricsConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	TextfilePath string `mapstructure:"textfile_path"`
}

// ExportConfig holds the Postgres dataset export settings
type ExportConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	PostgresURL string `mapstructure:"postgres_url"`
	Table       string `mapstructure:"table"`
}

// TelegramConfig holds Telegram notification configuration
type TelegramConfig struct {
	BotToken       string        `mapstructure:"bot_token"`
	ChatID         string        `mapstructure:"chat_id"`
	Enabled        bool          `mapstructure:"enabled"`
	MaxRetries     int           `mapstructure:"max_retries"`
	RetryDelayBase time.Duration `mapstructure:"retry_delay_base"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	File       string `mapstructure:"file"` // empty = stderr
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// ModelConfig holds classifier training settings
type ModelConfig struct {
	Epochs       int     `mapstructure:"epochs"`
	LearningRate float64 `mapstructure:"learning_rate"`
	L2           float64 `mapstructure:"l2"`
	HoldOut      float64 `mapstructure:"holdout"`
}

// Load reads configuration from file and environment variables
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	setDefaults(v)

	v.SetEnvPrefix("NBAFUSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	hook := mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
		stringerToStringHook,
	)
	if err := v.Unmarshal(&cfg, viper.DecodeHook(hook)); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// stringerToStringHook lets unquoted TOML dates decode into string fields.
func stringerToStringHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to.Kind() != reflect.String {
		return data, nil
	}
	if s, ok := data.(fmt.Stringer); ok {
		return s.String(), nil
	}
	if t, ok := data.(time.Time); ok {
		return t.Format(models.DateLayout), nil
	}
	return data, nil
}

// setDefaults configures default values for all configuration options
func setDefaults(v *viper.Viper) {
	v.SetDefault("fetch.odds_url", "https://www.sportsbookreview.com/betting-odds/nba-basketball/{market}/?date={date}")
	v.SetDefault("fetch.user_agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36")
	v.SetDefault("fetch.timeout", "30s")
	v.SetDefault("fetch.max_retries", 3)
	v.SetDefault("fetch.min_delay", "1s")
	v.SetDefault("fetch.max_delay", "3s")
	v.SetDefault("fetch.skip_existing", true)

	v.SetDefault("sportsbook.collect", "bet365")
	v.SetDefault("sportsbook.predict", "fanduel")

	v.SetDefault("fusion.strict_eras", false)
	v.SetDefault("dataset.drop_columns", []string{"TEAM_ID", "TEAM_ID.1"})

	v.SetDefault("storage.db_path", "./data/nbafuse.db")
	v.SetDefault("storage.max_runs", 200)

	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.addr", "localhost:6379")
	v.SetDefault("cache.ttl", "720h")

	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.textfile_path", "./data/nbafuse.prom")

	v.SetDefault("export.enabled", false)
	v.SetDefault("export.table", "dataset")

	v.SetDefault("telegram.enabled", false)
	v.SetDefault("telegram.max_retries", 3)
	v.SetDefault("telegram.retry_delay_base", "1s")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.max_size_mb", 50)
	v.SetDefault("logging.max_backups", 5)
	v.SetDefault("logging.max_age_days", 30)

	v.SetDefault("model.epochs", 500)
	v.SetDefault("model.learning_rate", 0.1)
	v.SetDefault("model.l2", 0.001)
	v.SetDefault("model.holdout", 0.1)
}

// Validate checks that all configuration values are valid
func (c *Config) Validate() error {
	sections := []struct {
		name    string
		seasons map[string]SeasonConfig
	}{
		{"fetch-data", c.FetchData},
		{"fetch-odd-data", c.FetchOddData},
		{"create-game", c.CreateGame},
	}
	for _, s := range sections {
		if _, err := Seasons(s.seasons); err != nil {
			return fmt.Errorf("%s: %w", s.name, err)
		}
	}
	if len(c.FetchData) > 0 && !strings.Contains(c.DataURL, "{0}") {
		return fmt.Errorf("data-url is required and must contain date placeholders when fetch-data is set")
	}

	if c.Fetch.Timeout < time.Second {
		return fmt.Errorf("fetch.timeout must be at least 1 second")
	}
	if c.Fetch.MaxRetries < 0 {
		return fmt.Errorf("fetch.max_retries must not be negative")
	}
	if c.Fetch.MinDelay < 0 || c.Fetch.MaxDelay < c.Fetch.MinDelay {
		return fmt.Errorf("fetch.min_delay must be between 0 and fetch.max_delay")
	}
	if len(c.FetchOddData) > 0 && c.Fetch.OddsURL == "" {
		return fmt.Errorf("fetch.odds_url is required when fetch-odd-data is set")
	}

	if c.Sportsbook.Collect == "" {
		return fmt.Errorf("sportsbook.collect is required")
	}
	if !ValidSportsbook(c.Sportsbook.Predict) {
		return fmt.Errorf("sportsbook.predict must be one of: %s", strings.Join(Sportsbooks, ", "))
	}

	if c.Storage.DBPath == "" {
		return fmt.Errorf("storage.db_path is required")
	}
	if c.Storage.MaxRuns < 0 {
		return fmt.Errorf("storage.max_runs must not be negative")
	}

	if c.Cache.Enabled && c.Cache.Addr == "" {
		return fmt.Errorf("cache.addr is required when cache is enabled")
	}
	if c.Metrics.Enabled && c.Metrics.TextfilePath == "" {
		return fmt.Errorf("metrics.textfile_path is required when metrics are enabled")
	}
	if c.Export.Enabled {
		if c.Export.PostgresURL == "" {
			return fmt.Errorf("export.postgres_url is required when export is enabled")
		}
		if c.Export.Table == "" {
			return fmt.Errorf("export.table is required when export is enabled")
		}
	}

	if c.Telegram.Enabled {
		if c.Telegram.BotToken == "" {
			return fmt.Errorf("telegram.bot_token is required when telegram is enabled")
		}
		if c.Telegram.ChatID == "" {
			return fmt.Errorf("telegram.chat_id is required when telegram is enabled")
		}
		if c.Telegram.MaxRetries < 1 {
			return fmt.Errorf("telegram.max_retries must be at least 1")
		}
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("logging.format must be one of: json, text")
	}

	if c.Model.Epochs < 1 {
		return fmt.Errorf("model.epochs must be at least 1")
	}
	if c.Model.LearningRate <= 0 {
		return fmt.Errorf("model.learning_rate must be positive")
	}
	if c.Model.HoldOut < 0 || c.Model.HoldOut >= 1 {
		return fmt.Errorf("model.holdout must be in [0, 1)")
	}
	return nil
}

// ValidSportsbook reports whether book is accepted for predictions.
func ValidSportsbook(book string) bool {
	for _, b := range Sportsbooks {
		if b == book {
			return true
		}
	}
	return false
}

// Seasons converts a season section into validated seasons ordered by start date.
func Seasons(section map[string]SeasonConfig) ([]models.Season, error) {
	out := make(map[string]models.Season, len(section))
	for id, sc := range section {
		start, err := models.ParseDate(sc.StartDate)
		if err != nil {
			return nil, fmt.Errorf("season %s start_date: %w", id, err)
		}
		end, err := models.ParseDate(sc.EndDate)
		if err != nil {
			return nil, fmt.Errorf("season %s end_date: %w", id, err)
		}
		year := sc.StartYear
		if year == 0 {
			year = start.Year()
		}
		s := models.Season{ID: id, StartDate: start, EndDate: end, StartYear: year}
		if err := s.Validate(); err != nil {
			return nil, err
		}
		out[id] = s
	}
	return calendar.Sorted(out), nil
}

// CurrentSeason picks the season predictions run against: the configured
// season whose range contains now, otherwise the one that started last.
// All three season sections are searched.
func (c *Config) CurrentSeason(now time.Time) (models.Season, error) {
	all := make(map[string]models.Season)
	for _, section := range []map[string]SeasonConfig{c.FetchData, c.FetchOddData, c.CreateGame} {
		seasons, err := Seasons(section)
		if err != nil {
			return models.Season{}, err
		}
		for _, s := range seasons {
			all[s.ID] = s
		}
	}
	sorted := calendar.Sorted(all)
	if len(sorted) == 0 {
		return models.Season{}, fmt.Errorf("no seasons configured")
	}
	if s, ok := calendar.SeasonFor(sorted, now); ok {
		return s, nil
	}
	return sorted[len(sorted)-1], nil
}
