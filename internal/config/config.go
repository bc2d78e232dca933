package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Server   Server   `mapstructure:"server"`
	Database Database `mapstructure:"database"`
	Journal  Journal  `mapstructure:"journal"`
	Sheet    Sheet    `mapstructure:"sheet"`
	Analyzer Analyzer `mapstructure:"analyzer"`
	Logger   Logger   `mapstructure:"logger"`
}

// Server holds the configuration for the web server.
type Server struct {
	Port int `mapstructure:"port"`
}

// Database holds the configuration for the database.
type Database struct {
	DSN string `mapstructure:"dsn"`
}

// Journal holds the configuration for local history persistence.
type Journal struct {
	CSVPath string `mapstructure:"csv_path"`
}

// Sheet holds the configuration for the spreadsheet mirror.
// Mirroring is disabled when Endpoint is empty.
type Sheet struct {
	Endpoint       string  `mapstructure:"endpoint"`
	Token          string  `mapstructure:"token"`
	SheetName      string  `mapstructure:"sheet_name"`
	RateLimit      float64 `mapstructure:"rate_limit"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst"`
}

// Analyzer holds the tunables of the outcome analyzer. The thresholds and
// window sizes varied across revisions of the app, so they are configuration
// rather than constants.
type Analyzer struct {
	WindowSize           int     `mapstructure:"window_size"`
	GoodWinRateThreshold float64 `mapstructure:"good_win_rate_threshold"`
	StreakThreshold      int     `mapstructure:"streak_threshold"`
	Predictor            string  `mapstructure:"predictor"`
	ShortHistory         string  `mapstructure:"short_history"`
}

// Logger holds the configuration for the logger.
type Logger struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config") // name of config file (without extension)
	viper.SetConfigType("yml")

	// Allow environment variables to override config file
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set default values
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("database.dsn", "journal.db")
	viper.SetDefault("journal.csv_path", "trade_history.csv")
	viper.SetDefault("sheet.sheet_name", "TradingHistory")
	viper.SetDefault("sheet.rate_limit", 10) // requests per second
	viper.SetDefault("sheet.rate_limit_burst", 5)
	viper.SetDefault("analyzer.window_size", 6)
	viper.SetDefault("analyzer.good_win_rate_threshold", 45)
	viper.SetDefault("analyzer.streak_threshold", 2)
	viper.SetDefault("analyzer.predictor", "threshold")
	viper.SetDefault("analyzer.short_history", "shrink")
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.format", "console")

	err = viper.ReadInConfig()
	if err != nil {
		return
	}

	err = viper.Unmarshal(&config)
	return
}
