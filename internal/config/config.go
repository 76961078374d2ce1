package config

import "time"

// Default configuration values.
const (
	defaultServiceName       = "signal-engine"
	defaultServiceVersion    = "1.0.0"
	defaultServicePort       = 8074
	defaultBatchSize         = 100
	maxBatchSize             = 500
	defaultPollInterval      = 30 * time.Second
	defaultCronSpec          = "*/5 * * * *"
	defaultDBHost            = "localhost"
	defaultDBPort            = 5432
	defaultDBUser            = "postgres"
	defaultDBName            = "signal_engine"
	defaultDBSSLMode         = "disable"
	defaultESURL             = "http://localhost:9200"
	defaultESTimeout         = 30 * time.Second
	defaultESArticleIndex    = "articles"
	defaultRedisURL          = "localhost:6379"
	defaultSignalChannel     = "signals.detected"
	defaultLogLevel          = "info"
	defaultFeedSize          = 10
	defaultMaxPerPublication = 2
	defaultMaxPerTopic       = 2
	defaultFeedWindowHours   = 24
	defaultQueryRPS          = 50
)

// Config holds all configuration for the signal engine.
type Config struct {
	Service       ServiceConfig       `yaml:"service"`
	Database      DatabaseConfig      `yaml:"database"`
	Elasticsearch ElasticsearchConfig `yaml:"elasticsearch"`
	Redis         RedisConfig         `yaml:"redis"`
	Logging       LoggingConfig       `yaml:"logging"`
	Feed          FeedConfig          `yaml:"feed"`
}

// ServiceConfig holds service-level configuration.
type ServiceConfig struct {
	Name         string        `yaml:"name"`
	Version      string        `yaml:"version"`
	Port         int           `env:"ENGINE_PORT" yaml:"port"`
	Debug        bool          `env:"APP_DEBUG"   yaml:"debug"`
	BatchSize    int           `yaml:"batch_size"`
	PollInterval time.Duration `yaml:"poll_interval"`
	CronSpec     string        `env:"ENGINE_CRON" yaml:"cron"`
	QueryRPS     int           `yaml:"query_rps"`
}

// DatabaseConfig holds PostgreSQL configuration.
type DatabaseConfig struct {
	Host            string        `env:"POSTGRES_HOST"     yaml:"host"`
	Port            int           `env:"POSTGRES_PORT"     yaml:"port"`
	User            string        `env:"POSTGRES_USER"     yaml:"user"`
	Password        string        `env:"POSTGRES_PASSWORD" yaml:"password"`
	Database        string        `env:"POSTGRES_DB"       yaml:"database"`
	SSLMode         string        `env:"POSTGRES_SSLMODE"  yaml:"sslmode"`
	MaxConnections  int           `yaml:"max_connections"`
	MaxIdleConns    int           `yaml:"max_idle_connections"`
	ConnMaxLifetime time.Duration `yaml:"connection_max_lifetime"`
}

// ElasticsearchConfig holds the article store configuration.
type ElasticsearchConfig struct {
	URL          string        `env:"ELASTICSEARCH_URL" yaml:"url"`
	Username     string        `yaml:"username"`
	Password     string        `yaml:"password"`
	Timeout      time.Duration `yaml:"timeout"`
	ArticleIndex string        `yaml:"article_index"`
}

// RedisConfig holds the signal event channel configuration.
type RedisConfig struct {
	URL           string `env:"REDIS_URL"      yaml:"url"`
	Password      string `env:"REDIS_PASSWORD" yaml:"password"`
	Database      int    `yaml:"database"`
	SignalChannel string `yaml:"signal_channel"`
	Enabled       bool   `yaml:"enabled"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level       string `env:"LOG_LEVEL" yaml:"level"`
	Development bool   `yaml:"development"`
}

// FeedConfig holds top-story selection defaults.
type FeedConfig struct {
	Size              int `yaml:"size"`
	MaxPerPublication int `yaml:"max_per_publication"`
	MaxPerTopic       int `yaml:"max_per_topic"`
	WindowHours       int `yaml:"window_hours"`
}

// Load loads configuration from the specified path.
func Load(path string) (*Config, error) {
	return LoadWithDefaults[Config](path, setDefaults)
}

func setDefaults(cfg *Config) {
	setServiceDefaults(&cfg.Service)
	setDatabaseDefaults(&cfg.Database)
	setElasticsearchDefaults(&cfg.Elasticsearch)
	setRedisDefaults(&cfg.Redis)
	setLoggingDefaults(&cfg.Logging)
	setFeedDefaults(&cfg.Feed)
}

func setServiceDefaults(s *ServiceConfig) {
	if s.Name == "" {
		s.Name = defaultServiceName
	}
	if s.Version == "" {
		s.Version = defaultServiceVersion
	}
	if s.Port == 0 {
		s.Port = defaultServicePort
	}
	if s.BatchSize <= 0 {
		s.BatchSize = defaultBatchSize
	}
	// History queries exclude the current batch with an explicit ID list;
	// cap the batch so that list stays bounded.
	if s.BatchSize > maxBatchSize {
		s.BatchSize = maxBatchSize
	}
	if s.PollInterval == 0 {
		s.PollInterval = defaultPollInterval
	}
	if s.CronSpec == "" {
		s.CronSpec = defaultCronSpec
	}
	if s.QueryRPS <= 0 {
		s.QueryRPS = defaultQueryRPS
	}
}

func setDatabaseDefaults(d *DatabaseConfig) {
	if d.Host == "" {
		d.Host = defaultDBHost
	}
	if d.Port == 0 {
		d.Port = defaultDBPort
	}
	if d.User == "" {
		d.User = defaultDBUser
	}
	if d.Database == "" {
		d.Database = defaultDBName
	}
	if d.SSLMode == "" {
		d.SSLMode = defaultDBSSLMode
	}
	if d.MaxConnections == 0 {
		d.MaxConnections = 25
	}
	if d.MaxIdleConns == 0 {
		d.MaxIdleConns = 5
	}
	if d.ConnMaxLifetime == 0 {
		d.ConnMaxLifetime = time.Hour
	}
}

func setElasticsearchDefaults(e *ElasticsearchConfig) {
	if e.URL == "" {
		e.URL = defaultESURL
	}
	if e.Timeout == 0 {
		e.Timeout = defaultESTimeout
	}
	if e.ArticleIndex == "" {
		e.ArticleIndex = defaultESArticleIndex
	}
}

func setRedisDefaults(r *RedisConfig) {
	if r.URL == "" {
		r.URL = defaultRedisURL
	}
	if r.SignalChannel == "" {
		r.SignalChannel = defaultSignalChannel
	}
}

func setLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = defaultLogLevel
	}
}

func setFeedDefaults(f *FeedConfig) {
	if f.Size == 0 {
		f.Size = defaultFeedSize
	}
	if f.MaxPerPublication == 0 {
		f.MaxPerPublication = defaultMaxPerPublication
	}
	if f.MaxPerTopic == 0 {
		f.MaxPerTopic = defaultMaxPerTopic
	}
	if f.WindowHours == 0 {
		f.WindowHours = defaultFeedWindowHours
	}
}
