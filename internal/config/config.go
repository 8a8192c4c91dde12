package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const DefaultEnvironment = "bison"

type Environment struct {
	IoTServiceURL string `yaml:"iot_service_url"`
	OAuthURL      string `yaml:"oauth_url"`
}

type Config struct {
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`

	Log struct {
		Level string `yaml:"level"` // zerolog level name
		JSON  bool   `yaml:"json"`  // plain JSON instead of the console writer
	} `yaml:"log"`

	HTTP struct {
		Timeout time.Duration `yaml:"timeout"` // outbound backend calls
	} `yaml:"http"`

	// keyed by the environment prefix carried in the access token
	Environments map[string]Environment `yaml:"environments"`

	Alexa struct {
		EventGateway    string `yaml:"event_gateway"`
		APLDeviceSerial string `yaml:"apl_device_serial"` // camera moved by the APL buttons
	} `yaml:"alexa"`

	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		Disabled bool   `yaml:"disabled"` // use the in-memory store
	} `yaml:"redis"`
}

func Default() *Config {
	var c Config
	c.Server.Addr = ":8080"
	c.Log.Level = "info"
	c.HTTP.Timeout = 10 * time.Second
	c.Environments = map[string]Environment{
		DefaultEnvironment: {
			IoTServiceURL: "http://localhost:10101",
			OAuthURL:      "http://localhost:10101",
		},
	}
	c.Alexa.EventGateway = "https://api.amazonalexa.com/v3/events"
	c.Redis.Addr = "127.0.0.1:6379"
	return &c
}

// Load reads the YAML file at path over the defaults and applies
// environment overrides. An empty path skips the file.
func Load(path string) (*Config, error) {
	c := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		// a file that lists environments replaces the defaults
		defaults := c.Environments
		c.Environments = nil
		if err := yaml.Unmarshal(raw, c); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
		if c.Environments == nil {
			c.Environments = defaults
		}
	}
	c.applyEnv()
	return c, nil
}

func (c *Config) applyEnv() {
	c.Server.Addr = envOrDefault("SERVER_ADDR", c.Server.Addr)
	c.Log.Level = envOrDefault("LOG_LEVEL", c.Log.Level)
	c.Log.JSON = envOrDefaultBool("LOG_JSON", c.Log.JSON)
	c.HTTP.Timeout = envOrDefaultDuration("HTTP_TIMEOUT", c.HTTP.Timeout)
	c.Alexa.EventGateway = envOrDefault("ALEXA_EVENT_GATEWAY", c.Alexa.EventGateway)
	c.Alexa.APLDeviceSerial = envOrDefault("ALEXA_APL_DEVICE_SERIAL", c.Alexa.APLDeviceSerial)
	c.Redis.Addr = envOrDefault("REDIS_ADDR", c.Redis.Addr)
	c.Redis.Password = envOrDefault("REDIS_PASSWORD", c.Redis.Password)
	c.Redis.DB = envOrDefaultInt("REDIS_DB", c.Redis.DB)
	c.Redis.Disabled = envOrDefaultBool("REDIS_DISABLED", c.Redis.Disabled)

	// IOT_SERVICE_URL_BISON, OAUTH_URL_BISON, ... override or add the
	// environment named by the lower cased suffix
	for _, kv := range os.Environ() {
		key, value, _ := strings.Cut(kv, "=")
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		if name, ok := strings.CutPrefix(key, "IOT_SERVICE_URL_"); ok && name != "" {
			env := c.environment(name)
			env.IoTServiceURL = value
			c.Environments[strings.ToLower(name)] = env
		}
		if name, ok := strings.CutPrefix(key, "OAUTH_URL_"); ok && name != "" {
			env := c.environment(name)
			env.OAuthURL = value
			c.Environments[strings.ToLower(name)] = env
		}
	}
}

func (c *Config) environment(name string) Environment {
	if c.Environments == nil {
		c.Environments = make(map[string]Environment)
	}
	return c.Environments[strings.ToLower(name)]
}

func envOrDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envOrDefaultInt(key string, def int) int {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envOrDefaultBool(key string, def bool) bool {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func envOrDefaultDuration(key string, def time.Duration) time.Duration {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
