package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type AppConfig struct {
	API      *APIConfig      `mapstructure:"api"`
	Gin      *GinConfig      `mapstructure:"gin"`
	GitHub   *GitHubConfig   `mapstructure:"github"`
	Schedule *ScheduleConfig `mapstructure:"schedule"`
}

type APIConfig struct {
	Environment        string   `mapstructure:"environment"`
	BaseURL            string   `mapstructure:"base_url"`
	Port               string   `mapstructure:"port"`
	AllowedCORSDomains []string `mapstructure:"allowed_cors_domains"`
}

type GinConfig struct {
	Mode string `mapstructure:"mode"`
}

type GitHubConfig struct {
	Owner      string `mapstructure:"owner"`
	Repo       string `mapstructure:"repo"`
	BaseBranch string `mapstructure:"base_branch"`
	// Token is never read from the file, only from the environment.
	Token string `mapstructure:"-"`
}

type ScheduleConfig struct {
	RegistryPath string        `mapstructure:"registry_path"`
	Environment  string        `mapstructure:"environment"`
	CacheTTL     time.Duration `mapstructure:"cache_ttl"`
}

// Load reads the config file, layers LAGERSCHEMA_-prefixed environment
// variables on top and validates the result. The file is watched so a
// changed config is at least visible in the logs before a restart.
func Load(configFile string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(configFile)

	v.SetEnvPrefix("LAGERSCHEMA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("v.ReadInConfig -> %w", err)
	}

	conf := &AppConfig{}
	if err := v.Unmarshal(conf); err != nil {
		return nil, fmt.Errorf("v.Unmarshal -> %w", err)
	}

	// The section itself may be absent; Validate names that case.
	if conf.GitHub != nil {
		conf.GitHub.Token = v.GetString("github_token")
	}

	if err := conf.Validate(); err != nil {
		return nil, fmt.Errorf("conf.Validate -> %w", err)
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		zap.L().Warn("config file changed, restart to apply", zap.String("file", e.Name))
	})
	v.WatchConfig()

	return conf, nil
}

// Validate fails fast and names the missing field instead of letting a
// half-wired server come up.
func (c *AppConfig) Validate() error {
	if c.API == nil {
		return errors.New("config is missing the api section")
	}
	if c.API.Port == "" {
		return errors.New("config api.port is empty")
	}
	if c.Gin == nil || c.Gin.Mode == "" {
		return errors.New("config gin.mode is empty")
	}
	if c.GitHub == nil {
		return errors.New("config is missing the github section")
	}
	if c.GitHub.Owner == "" {
		return errors.New("config github.owner is empty")
	}
	if c.GitHub.Repo == "" {
		return errors.New("config github.repo is empty")
	}
	if c.GitHub.BaseBranch == "" {
		return errors.New("config github.base_branch is empty")
	}
	if c.GitHub.Token == "" {
		return errors.New("LAGERSCHEMA_GITHUB_TOKEN is not set")
	}
	if c.Schedule == nil {
		return errors.New("config is missing the schedule section")
	}
	if c.Schedule.RegistryPath == "" {
		return errors.New("config schedule.registry_path is empty")
	}
	if c.Schedule.Environment != "production" && c.Schedule.Environment != "qa" {
		return fmt.Errorf("config schedule.environment is %q, want production or qa", c.Schedule.Environment)
	}
	if c.Schedule.CacheTTL <= 0 {
		return errors.New("config schedule.cache_ttl must be positive")
	}

	return nil
}
