package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	EnvDev  = "dev"
	EnvProd = "prod"
)

type QRConfig struct {
	Path string `yaml:"path" env:"QR_PATH" env-default:"./qr.jpg"`
	Open bool   `yaml:"open" env:"QR_OPEN" env-default:"true"`
}

type LoginConfig struct {
	PollInterval time.Duration `yaml:"poll_interval" env:"LOGIN_POLL_INTERVAL" env-default:"500ms"`
	MaxAttempts  int           `yaml:"max_attempts" env:"LOGIN_MAX_ATTEMPTS" env-default:"0"`
	Timeout      time.Duration `yaml:"timeout" env:"LOGIN_TIMEOUT" env-default:"0s"`
}

type ProbeConfig struct {
	BatchSize int           `yaml:"batch_size" env:"PROBE_BATCH_SIZE" env-default:"30"`
	Interval  time.Duration `yaml:"interval" env:"PROBE_INTERVAL" env-default:"15s"`
}

type StoreConfig struct {
	Driver string        `yaml:"driver" env:"STORE_DRIVER" env-default:"memory"`
	TTL    time.Duration `yaml:"ttl" env:"STORE_TTL" env-default:"168h"`

	RedisAddr     string `yaml:"redis_addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
	RedisPassword string `yaml:"redis_password" env:"REDIS_PASSWORD"`
	RedisDB       int    `yaml:"redis_db" env:"REDIS_DB" env-default:"0"`

	MongoURI      string `yaml:"mongo_uri" env:"MONGO_URI" env-default:"mongodb://localhost:27017"`
	MongoDatabase string `yaml:"mongo_database" env:"MONGO_DATABASE" env-default:"isfriend"`

	PostgresDSN string `yaml:"postgres_dsn" env:"POSTGRES_DSN"`
}

type TelegramConfig struct {
	Token  string `yaml:"token" env:"TELEGRAM_TOKEN"`
	ChatID int64  `yaml:"chat_id" env:"TELEGRAM_CHAT_ID"`
}

func (t TelegramConfig) Enabled() bool {
	return t.Token != "" && t.ChatID != 0
}

type ReportConfig struct {
	Path string `yaml:"path" env:"REPORT_PATH"`
}

type AppConfig struct {
	Env string `yaml:"env" env:"ENV" env-default:"prod"`

	LoginHost   string        `yaml:"login_host" env:"WX_LOGIN_HOST" env-default:"https://login.weixin.qq.com"`
	AppID       string        `yaml:"app_id" env:"WX_APP_ID" env-default:"wx782c26e4c19acffb"`
	Lang        string        `yaml:"lang" env:"WX_LANG" env-default:"zh_CN"`
	DeviceID    string        `yaml:"device_id" env:"WX_DEVICE_ID"`
	HTTPTimeout time.Duration `yaml:"http_timeout" env:"HTTP_TIMEOUT" env-default:"1m"`
	Proxy       string        `yaml:"proxy" env:"WX_PROXY"`
	Preflight   bool          `yaml:"preflight" env:"PREFLIGHT" env-default:"false"`

	QR       QRConfig       `yaml:"qr"`
	Login    LoginConfig    `yaml:"login"`
	Probe    ProbeConfig    `yaml:"probe"`
	Store    StoreConfig    `yaml:"store"`
	Telegram TelegramConfig `yaml:"telegram"`
	Report   ReportConfig   `yaml:"report"`
}

var knownDrivers = map[string]struct{}{
	"memory": {}, "redis": {}, "mongo": {}, "postgres": {},
}

// Load читает .env (если есть), затем YAML-файл из -config/CONFIG_PATH и переменные окружения
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return LoadPath(fetchConfigPath())
}

// LoadPath читает конфиг из path; пустой path — только окружение и значения по умолчанию
func LoadPath(path string) (*AppConfig, error) {
	var cfg AppConfig
	if path == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("read env: %w", err)
		}
	} else if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *AppConfig) Validate() error {
	if c.Probe.BatchSize <= 0 {
		return fmt.Errorf("probe.batch_size must be positive, got %d", c.Probe.BatchSize)
	}
	if c.Probe.Interval <= 0 {
		return fmt.Errorf("probe.interval must be positive, got %s", c.Probe.Interval)
	}
	if c.Login.PollInterval <= 0 {
		return fmt.Errorf("login.poll_interval must be positive, got %s", c.Login.PollInterval)
	}
	if c.Login.MaxAttempts < 0 || c.Login.Timeout < 0 {
		return errors.New("login.max_attempts and login.timeout must not be negative")
	}
	if _, ok := knownDrivers[c.Store.Driver]; !ok {
		return fmt.Errorf("unknown store.driver %q", c.Store.Driver)
	}
	if c.Store.Driver == "postgres" && c.Store.PostgresDSN == "" {
		return errors.New("store.postgres_dsn must be set for the postgres driver")
	}
	return nil
}

// fetchConfigPath fetches config path from command line flag or environment variable.
// Priority: flag > env > default.
// Default value is empty string.
func fetchConfigPath() string {
	var res string

	flag.StringVar(&res, "config", "", "path to config file")
	flag.Parse()

	if res == "" {
		res = os.Getenv("CONFIG_PATH")
	}
	return res
}
