package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const EnvPrefix = "CALLSENSE"

type Service struct {
	URL string `yaml:"url" mapstructure:"url"`
}
type Services struct {
	ASR           Service `yaml:"asr" mapstructure:"asr"`
	Visualization Service `yaml:"visualization" mapstructure:"visualization"`
}
type HTTP struct {
	TimeoutSeconds int `yaml:"timeout_seconds" mapstructure:"timeout_seconds"`
}
type Analyzer struct {
	LexiconPath string `yaml:"lexicon_path" mapstructure:"lexicon_path"`
	TrendWindow int    `yaml:"trend_window" mapstructure:"trend_window"`
}
type Pipeline struct {
	Name      string `yaml:"name" mapstructure:"name"`
	Version   string `yaml:"version" mapstructure:"version"`
	LogLvl    string `yaml:"log_level" mapstructure:"log_level"`
	LogFormat string `yaml:"log_format" mapstructure:"log_format"`
}
type Paths struct {
	Outputs  string `yaml:"outputs" mapstructure:"outputs"`
	Database string `yaml:"database" mapstructure:"database"`
}
type Root struct {
	Pipeline Pipeline `yaml:"pipeline" mapstructure:"pipeline"`
	Services Services `yaml:"services" mapstructure:"services"`
	HTTP     HTTP     `yaml:"http" mapstructure:"http"`
	Analyzer Analyzer `yaml:"analyzer" mapstructure:"analyzer"`
	Paths    Paths    `yaml:"paths" mapstructure:"paths"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("pipeline.name", "callsense")
	v.SetDefault("pipeline.version", "dev")
	v.SetDefault("pipeline.log_level", "info")
	v.SetDefault("pipeline.log_format", "text")
	v.SetDefault("services.asr.url", "")
	v.SetDefault("services.visualization.url", "")
	v.SetDefault("http.timeout_seconds", 60)
	v.SetDefault("analyzer.lexicon_path", "")
	v.SetDefault("analyzer.trend_window", 3)
	v.SetDefault("paths.outputs", "outputs")
	v.SetDefault("paths.database", "")
}

// Load reads path when given, otherwise the first existing file among
// config/<CONFIG_ENV>/config.yaml and config.yaml. Without any file the
// defaults apply. CALLSENSE_* environment variables override both.
func Load(path string) (*Root, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" {
		path = guess()
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	var cfg Root
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func guess() string {
	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	for _, p := range []string{
		filepath.Join("config", env, "config.yaml"),
		"config.yaml",
	} {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func (c *Root) validate() error {
	if _, err := logrus.ParseLevel(c.Pipeline.LogLvl); err != nil {
		return err
	}
	switch c.Pipeline.LogFormat {
	case "text", "json":
	default:
		return errors.New("pipeline.log_format must be text or json")
	}
	if c.HTTP.TimeoutSeconds <= 0 {
		return errors.New("http.timeout_seconds must be positive")
	}
	return nil
}

func DurSeconds(n int) time.Duration { return time.Duration(n) * time.Second }

// Logger builds the process logger from the pipeline section.
func (c *Root) Logger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	if lvl, err := logrus.ParseLevel(c.Pipeline.LogLvl); err == nil {
		log.SetLevel(lvl)
	}
	if c.Pipeline.LogFormat == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	}
	return log
}
