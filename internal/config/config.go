package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete pipeline configuration.
// It is loaded once at startup and validated before any network
// or filesystem action is taken.
type Config struct {
	Service  ServiceConfig  `yaml:"service" envconfig:"SERVICE"`
	Analysis AnalysisConfig `yaml:"analysis" envconfig:"ANALYSIS"`
	Publish  PublishConfig  `yaml:"publish" envconfig:"PUBLISH"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Tracing  TracingConfig  `yaml:"tracing" envconfig:"TRACING"`
}

// ServiceConfig contains the remote survey service configuration
type ServiceConfig struct {
	AuthURL     string        `yaml:"auth_url" envconfig:"AUTH_URL" default:"https://fist-noki.iri.columbia.edu/token" validate:"required,url"`
	DownloadURL string        `yaml:"download_url" envconfig:"DOWNLOAD_URL" default:"https://fist-noki.iri.columbia.edu/download_csv" validate:"required,url"`
	Username    string        `yaml:"username" envconfig:"USERNAME"`
	Password    string        `yaml:"password" envconfig:"PASSWORD"`
	Deployment  string        `yaml:"deployment" envconfig:"DEPLOYMENT" default:"Scored storms" validate:"required"`
	Timeout     time.Duration `yaml:"timeout" envconfig:"TIMEOUT" default:"30s"`
}

// AnalysisConfig contains analyzer configuration
type AnalysisConfig struct {
	QuestionPrefix string `yaml:"question_prefix" envconfig:"QUESTION_PREFIX" default:"Now,"`
}

// PublishConfig contains static-site publishing configuration
type PublishConfig struct {
	ProjectRoot   string `yaml:"project_root" envconfig:"PROJECT_ROOT"`
	PublishSubdir string `yaml:"publish_subdir" envconfig:"PUBLISH_SUBDIR" default:"public/reports"`
	DeployCommand string `yaml:"deploy_command" envconfig:"DEPLOY_COMMAND" default:"quarto publish --no-prompt" validate:"required"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/noki.log"`
}

// TracingConfig controls the optional stdout trace exporter
type TracingConfig struct {
	Enabled bool `yaml:"enabled" envconfig:"ENABLED" default:"false"`
}

// Load loads configuration from environment variables and an optional
// config file, then validates it. Env vars take precedence over the file.
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("NOKI", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if configFile := getConfigFilePath(); configFile != "" {
		fileCfg, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = mergeConfigs(*fileCfg, cfg)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from a YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// mergeConfigs merges file config with env config (env takes precedence)
func mergeConfigs(fileConfig, envConfig Config) Config {
	if envConfig.Service.Username == "" {
		envConfig.Service.Username = fileConfig.Service.Username
	}
	if envConfig.Service.Password == "" {
		envConfig.Service.Password = fileConfig.Service.Password
	}
	if envConfig.Service.Deployment == "" {
		envConfig.Service.Deployment = fileConfig.Service.Deployment
	}
	if envConfig.Service.Timeout == 0 {
		envConfig.Service.Timeout = fileConfig.Service.Timeout
	}
	if envConfig.Publish.ProjectRoot == "" {
		envConfig.Publish.ProjectRoot = fileConfig.Publish.ProjectRoot
	}
	if envConfig.Publish.PublishSubdir == "" {
		envConfig.Publish.PublishSubdir = fileConfig.Publish.PublishSubdir
	}
	if envConfig.Publish.DeployCommand == "" {
		envConfig.Publish.DeployCommand = fileConfig.Publish.DeployCommand
	}
	if envConfig.Analysis.QuestionPrefix == "" {
		envConfig.Analysis.QuestionPrefix = fileConfig.Analysis.QuestionPrefix
	}

	return envConfig
}

// validate validates the configuration using struct tags plus the
// normalization rules the logger depends on.
func (c *Config) validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return err
	}

	if c.Service.Timeout <= 0 {
		return fmt.Errorf("service timeout must be positive, got %s", c.Service.Timeout)
	}

	// Always JSON format, output normalized to a known mode
	if c.Logging.Format != "json" {
		c.Logging.Format = "json"
	}
	if c.Logging.Output != "both" && c.Logging.Output != "file" && c.Logging.Output != "stdout" {
		c.Logging.Output = "both"
	}
	if c.Logging.FilePath == "" {
		c.Logging.FilePath = "logs/noki.log"
	}

	return nil
}

// ValidateService checks the fields the fetcher needs. Called by the
// fetch stage before any network action.
func (c *Config) ValidateService() error {
	if c.Service.Username == "" || c.Service.Password == "" {
		return fmt.Errorf("service credentials are not configured (NOKI_SERVICE_USERNAME / NOKI_SERVICE_PASSWORD)")
	}
	if c.Service.Deployment == "" {
		return fmt.Errorf("deployment name is not configured")
	}
	return nil
}

// ValidatePublish checks the fields the publisher needs. Called by the
// publish stage before any copy or deploy action.
func (c *Config) ValidatePublish() error {
	if c.Publish.ProjectRoot == "" {
		return fmt.Errorf("publish project root is not configured (NOKI_PUBLISH_PROJECT_ROOT)")
	}
	if c.Publish.DeployCommand == "" {
		return fmt.Errorf("deploy command is not configured")
	}
	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
		"../configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns a default configuration suitable for tests
func Default() *Config {
	return &Config{
		Service: ServiceConfig{
			AuthURL:     "https://fist-noki.iri.columbia.edu/token",
			DownloadURL: "https://fist-noki.iri.columbia.edu/download_csv",
			Deployment:  "Scored storms",
			Timeout:     30 * time.Second,
		},
		Analysis: AnalysisConfig{
			QuestionPrefix: "Now,",
		},
		Publish: PublishConfig{
			PublishSubdir: "public/reports",
			DeployCommand: "quarto publish --no-prompt",
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "both",
			FilePath: "logs/noki.log",
		},
		Tracing: TracingConfig{
			Enabled: false,
		},
	}
}
