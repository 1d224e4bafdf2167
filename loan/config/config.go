package config

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/aterekhov/library-system/pkg/kafka"
	"github.com/aterekhov/library-system/pkg/logger"
	"github.com/aterekhov/library-system/pkg/postgres"
	"github.com/aterekhov/library-system/pkg/resilience"
	"github.com/aterekhov/library-system/pkg/server"

	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap/zapcore"
)

type BookHTTPServer struct {
	Host string `envconfig:"BOOK_HTTP_HOST"`
	Port string `envconfig:"BOOK_HTTP_PORT"`
}

type UserHTTPServer struct {
	Host string `envconfig:"USER_HTTP_HOST"`
	Port string `envconfig:"USER_HTTP_PORT"`
}

type Config struct {
	Server         server.Config `yaml:"server"`
	Database       postgres.Config
	Kafka          kafka.Config
	Resilience     resilience.Config
	BookHTTPServer BookHTTPServer
	UserHTTPServer UserHTTPServer
	ClientTimeout  time.Duration `yaml:"clientTimeout" envconfig:"CLIENT_TIMEOUT" default:"10s"`
	Log            logger.Log    `yaml:"log"`
}

type Option func(*Config)

func WithLogLevel(level zapcore.Level) Option {
	return func(c *Config) {
		c.Log.LogLevel = level
	}
}

func WithWriteTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		c.Server.WriteTimeout = timeout
	}
}

var (
	once sync.Once
	cfg  Config
)

// NewConfig reads config from environment.
func NewConfig(ops ...Option) *Config {
	once.Do(func() {
		var config Config
		for _, op := range ops {
			op(&config)
		}
		err := envconfig.Process("", &config)
		if err != nil {
			log.Fatal("NewConfig ", err)
		}
		cfg = config
		printConfig(cfg)
	})

	return &cfg
}

func printConfig(cfg Config) {
	jscfg, _ := json.MarshalIndent(cfg, "", "	") //nolint:errcheck
	fmt.Println(string(jscfg))
}
