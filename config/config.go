package config

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config is the root configuration of the cartela-board service
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	MySQL    MySQLConfig    `mapstructure:"mysql"`
	Upstream UpstreamConfig `mapstructure:"upstream"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Poll     PollConfig     `mapstructure:"poll"`
	Jaeger   JaegerConfig   `mapstructure:"jaeger"`
}

// ServerConfig ...
type ServerConfig struct {
	HTTP ListenConfig `mapstructure:"http"`
}

// ListenConfig ...
type ListenConfig struct {
	Host string `mapstructure:"host"`
	Port uint16 `mapstructure:"port"`
}

// String ...
func (c ListenConfig) String() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ListenString for http.Server.Addr
func (c ListenConfig) ListenString() string {
	return fmt.Sprintf(":%d", c.Port)
}

// LogConfig ...
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Production bool   `mapstructure:"production"`
}

// CacheConfig for the in-memory board view cache
type CacheConfig struct {
	SizeMB   int           `mapstructure:"size_mb"`
	BoardTTL time.Duration `mapstructure:"board_ttl"`
}

// PollConfig for the background board refresher
type PollConfig struct {
	Interval       time.Duration `mapstructure:"interval"`
	RatePerSecond  float64       `mapstructure:"rate_per_second"`
	Burst          int           `mapstructure:"burst"`
	EntryRetention time.Duration `mapstructure:"entry_retention"`

	SnapshotRetention time.Duration `mapstructure:"snapshot_retention"`
}

// JaegerConfig ...
type JaegerConfig struct {
	Endpoint string  `mapstructure:"endpoint"`
	Enabled  bool    `mapstructure:"enabled"`
	Ratio    float64 `mapstructure:"ratio"`
}

// Load reads config.yml from the working directory, with CARTELA_* env overrides
func Load() Config {
	vip := viper.New()
	vip.SetConfigName("config")
	vip.SetConfigType("yml")
	vip.AddConfigPath(".")

	vip.SetEnvPrefix("cartela")
	vip.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	vip.AutomaticEnv()

	err := vip.ReadInConfig()
	if err != nil {
		panic(err)
	}

	var conf Config
	err = vip.Unmarshal(&conf)
	if err != nil {
		panic(err)
	}
	return conf
}

// LoadTestConfig reads config_test.yml from the module root directory
func LoadTestConfig(rootDir string) Config {
	vip := viper.New()
	vip.SetConfigName("config_test")
	vip.SetConfigType("yml")
	vip.AddConfigPath(path.Join(rootDir))

	err := vip.ReadInConfig()
	if err != nil {
		panic(err)
	}

	var conf Config
	err = vip.Unmarshal(&conf)
	if err != nil {
		panic(err)
	}
	return conf
}

// NewLogger builds the zap logger described by conf
func NewLogger(conf LogConfig) *zap.Logger {
	level := zapcore.InfoLevel
	if conf.Level != "" {
		err := level.Set(conf.Level)
		if err != nil {
			panic(err)
		}
	}

	var zapConf zap.Config
	if conf.Production {
		zapConf = zap.NewProductionConfig()
	} else {
		zapConf = zap.NewDevelopmentConfig()
	}
	zapConf.Level = zap.NewAtomicLevelAt(level)

	logger, err := zapConf.Build()
	if err != nil {
		panic(err)
	}
	return logger
}
