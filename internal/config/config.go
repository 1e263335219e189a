package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel   string        `yaml:"log-level" env-default:"info"`
	HTTPPort   string        `yaml:"http-port" env-default:"9090"`
	SocketPort string        `yaml:"socket-port" env-default:"8080"`
	RoundsPath string        `yaml:"rounds-path" env-default:"rounds.yml"`
	PlayerName string        `yaml:"player-name" env-default:"Player"`
	BotDelay   time.Duration `yaml:"bot-delay" env-default:"750ms"`
	Redis      Redis         `yaml:"redis"`
	Postgres   Postgres      `yaml:"postgres"`
	Kafka      Kafka         `yaml:"kafka"`
}

type Redis struct {
	Host string `yaml:"host" env-default:"localhost"`
	Port string `yaml:"port" env-default:"6379"`
}

type Postgres struct {
	URL string `yaml:"url" env-default:""`
}

type Kafka struct {
	Brokers []string `yaml:"brokers" env-default:""`
	Topic   string   `yaml:"topic" env-default:"connect44fx-events"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
