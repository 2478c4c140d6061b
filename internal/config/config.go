package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Env string `yaml:"env"`

	Server struct {
		Addr string `yaml:"addr"` // e.g. "wss://chat.example.com/ws"
	} `yaml:"server"`

	Account struct {
		Name      string `yaml:"name"`
		Password  string `yaml:"password"`
		GuardCode string `yaml:"guard_code"`
		Anonymous bool   `yaml:"anonymous"`
	} `yaml:"account"`

	Chat struct {
		EchoTimeout   time.Duration `yaml:"echo_timeout"`
		Throttle      time.Duration `yaml:"throttle"`
		StreamBackoff time.Duration `yaml:"stream_backoff"`
	} `yaml:"chat"`

	Metrics struct {
		Addr string `yaml:"addr"` // ":9105"
	} `yaml:"metrics"`
}

// Load supports comma-separated config files: "-c common.yml,chat.yml"
func Load(pathList string) (*Config, error) {
	if strings.TrimSpace(pathList) == "" {
		return nil, errors.New("config path required (e.g. -c ./config.yml or -c common.yml,chat.yml)")
	}
	var c Config
	paths := strings.Split(pathList, ",")
	for _, p := range paths {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		b, err := os.ReadFile(p)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, err
		}
	}

	if c.Server.Addr == "" {
		return nil, errors.New("config: server.addr is required")
	}
	if !c.Account.Anonymous && c.Account.Name == "" {
		return nil, errors.New("config: account.name is required unless account.anonymous is set")
	}
	if c.Chat.EchoTimeout == 0 {
		c.Chat.EchoTimeout = 5 * time.Second
	}
	if c.Chat.Throttle == 0 {
		c.Chat.Throttle = 25 * time.Millisecond
	}
	if c.Chat.StreamBackoff == 0 {
		c.Chat.StreamBackoff = 250 * time.Millisecond
	}
	if c.Metrics.Addr == "" {
		c.Metrics.Addr = ":9105"
	}
	return &c, nil
}
