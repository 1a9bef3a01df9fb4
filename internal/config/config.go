package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	App         AppConfig         `mapstructure:"app"`
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Redis       RedisConfig       `mapstructure:"redis"`
	Auth        AuthConfig        `mapstructure:"auth"`
	CORS        CORSConfig        `mapstructure:"cors"`
	RateLimit   RateLimitConfig   `mapstructure:"ratelimit"`
	Logger      LoggerConfig      `mapstructure:"logger"`
	Scoring     ScoringConfig     `mapstructure:"scoring"`
	Training    TrainingConfig    `mapstructure:"training"`
	Transcriber TranscriberConfig `mapstructure:"transcriber"`
	Model       ModelConfig       `mapstructure:"model"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	Version     string `mapstructure:"version"`
	Debug       bool   `mapstructure:"debug"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	HTTPPort        int           `mapstructure:"http_port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

type RedisConfig struct {
	Host      string `mapstructure:"host"`
	Port      int    `mapstructure:"port"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type AuthConfig struct {
	APIKey string `mapstructure:"api_key"`
}

type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

type RateLimitConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	RequestsPerMinute int  `mapstructure:"requests_per_minute"`
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	TimeFormat string `mapstructure:"time_format"`
}

// ScoringConfig blends the statistical model with the heuristic composite
// and defines the risk level bands.
type ScoringConfig struct {
	ModelWeight     float64        `mapstructure:"model_weight"`
	HeuristicWeight float64        `mapstructure:"heuristic_weight"`
	Thresholds      RiskThresholds `mapstructure:"thresholds"`
}

// RiskThresholds are the lower bounds of the low, medium and high bands.
// Scores below Low are very_low.
type RiskThresholds struct {
	Low    int `mapstructure:"low"`
	Medium int `mapstructure:"medium"`
	High   int `mapstructure:"high"`
}

// DefaultScoringConfig returns the default blend and band boundaries
func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		ModelWeight:     1.0,
		HeuristicWeight: 0.35,
		Thresholds: RiskThresholds{
			Low:    30,
			Medium: 60,
			High:   80,
		},
	}
}

// TrainingConfig controls corpus validation and model fitting
type TrainingConfig struct {
	MinExamples    int     `mapstructure:"min_examples"`
	TestSplit      float64 `mapstructure:"test_split"`
	CrossValFolds  int     `mapstructure:"cross_val_folds"`
	Seed           int64   `mapstructure:"seed"`
	MaxFeatures    int     `mapstructure:"max_features"`
	Epochs         int     `mapstructure:"epochs"`
	LearningRate   float64 `mapstructure:"learning_rate"`
	Regularization float64 `mapstructure:"regularization"`
}

// DefaultTrainingConfig returns default training parameters
func DefaultTrainingConfig() TrainingConfig {
	return TrainingConfig{
		MinExamples:    10,
		TestSplit:      0.2,
		CrossValFolds:  5,
		Seed:           42,
		MaxFeatures:    5000,
		Epochs:         300,
		LearningRate:   0.5,
		Regularization: 1e-4,
	}
}

type TranscriberConfig struct {
	Engine       string `mapstructure:"engine"` // "offline" is the only shipped engine
	MaxAudioSize int64  `mapstructure:"max_audio_size"`
}

// ModelConfig controls artifact persistence and prediction caching
type ModelConfig struct {
	AutoRestore        bool          `mapstructure:"auto_restore"`
	PredictionCacheTTL time.Duration `mapstructure:"prediction_cache_ttl"`
}

// Load reads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/callguard-lab")
	}

	setDefaults(v)

	// Environment variables
	v.SetEnvPrefix("CALLGUARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Bind nested env vars explicitly (viper doesn't auto-bind nested struct fields)
	v.BindEnv("redis.host", "CALLGUARD_REDIS_HOST")
	v.BindEnv("redis.port", "CALLGUARD_REDIS_PORT")
	v.BindEnv("redis.password", "CALLGUARD_REDIS_PASSWORD")
	v.BindEnv("database.host", "CALLGUARD_DATABASE_HOST")
	v.BindEnv("database.port", "CALLGUARD_DATABASE_PORT")
	v.BindEnv("database.user", "CALLGUARD_DATABASE_USER")
	v.BindEnv("database.password", "CALLGUARD_DATABASE_PASSWORD")
	v.BindEnv("database.dbname", "CALLGUARD_DATABASE_DBNAME")
	v.BindEnv("database.sslmode", "CALLGUARD_DATABASE_SSLMODE")
	v.BindEnv("auth.api_key", "CALLGUARD_AUTH_API_KEY")
	v.BindEnv("app.environment", "CALLGUARD_APP_ENVIRONMENT")

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Unmarshal config
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// LoadDefault loads configuration with default path
func LoadDefault() (*Config, error) {
	return Load("")
}

func setDefaults(v *viper.Viper) {
	scoring := DefaultScoringConfig()
	v.SetDefault("scoring.model_weight", scoring.ModelWeight)
	v.SetDefault("scoring.heuristic_weight", scoring.HeuristicWeight)
	v.SetDefault("scoring.thresholds.low", scoring.Thresholds.Low)
	v.SetDefault("scoring.thresholds.medium", scoring.Thresholds.Medium)
	v.SetDefault("scoring.thresholds.high", scoring.Thresholds.High)

	training := DefaultTrainingConfig()
	v.SetDefault("training.min_examples", training.MinExamples)
	v.SetDefault("training.test_split", training.TestSplit)
	v.SetDefault("training.cross_val_folds", training.CrossValFolds)
	v.SetDefault("training.seed", training.Seed)
	v.SetDefault("training.max_features", training.MaxFeatures)
	v.SetDefault("training.epochs", training.Epochs)
	v.SetDefault("training.learning_rate", training.LearningRate)
	v.SetDefault("training.regularization", training.Regularization)

	v.SetDefault("transcriber.engine", "offline")
	v.SetDefault("transcriber.max_audio_size", int64(10*1024*1024))

	v.SetDefault("model.auto_restore", true)
	v.SetDefault("model.prediction_cache_ttl", 10*time.Minute)
}
