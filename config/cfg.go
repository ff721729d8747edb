package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"time"

	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	TemplateFieldName string

	ClientConfig struct {
		Profile    string       `yaml:"profile" validate:"required_without=URL"`
		URL        string       `yaml:"url,omitempty" validate:"omitempty,url"`
		Timeout    int          `yaml:"timeout" validate:"min=1"`
		MaxRetries int          `yaml:"max_retries" validate:"min=1"`
		RateLimit  float64      `yaml:"rate_limit" validate:"gte=0"`
		APIKey     SecretString `yaml:"api_key,omitempty"`
		UserAgent  string       `yaml:"user_agent,omitempty"`
		SRUVersion string       `yaml:"sru_version" validate:"required,oneof=1.1 1.2 2.0"`
	}

	DefaultsConfig struct {
		Format         string `yaml:"format" validate:"required,oneof=marcxml marcxml-legacy mods mods36 picaxml dc isbd turbomarc mads"`
		MaximumRecords int    `yaml:"maximum_records" validate:"min=1,max=100"`
		RecordPacking  string `yaml:"record_packing" validate:"required,oneof=xml string"`
	}

	OutputConfig struct {
		Mode             OutputMode `yaml:"mode" validate:"min=0,max=1"`
		SaveNameTemplate string     `yaml:"save_name_template" validate:"required"`
	}

	Config struct {
		Version   int            `yaml:"version" validate:"eq=1"`
		Client    ClientConfig   `yaml:"client"`
		Defaults  DefaultsConfig `yaml:"defaults"`
		Output    OutputConfig   `yaml:"output"`
		Logging   LoggingConfig  `yaml:"logging"`
		Reporting ReporterConfig `yaml:"reporting"`
	}
)

// TimeoutDuration returns the configured per-attempt timeout.
func (c *ClientConfig) TimeoutDuration() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

const (
	// NOTE: must match yaml field name above, alternative is to use struct
	// field name and reflection which I want to avoid for now
	SaveNameTemplateFieldName TemplateFieldName = "save_name_template"
)

var requiredOptions = append([]func(*gencfg.ProcessingOptions){},
	gencfg.WithDoNotExpandField(string(SaveNameTemplateFieldName)),
)

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// We want to use only fields we defined so we cannot use yaml.Unmarshal
	// directly here
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
		// sanitize and validate what has been loaded
		if err := gencfg.Sanitize(cfg); err != nil {
			return nil, fmt.Errorf("failed to sanitize configuration: %w", err)
		}
		if err := gencfg.Validate(cfg); err != nil {
			return nil, fmt.Errorf("failed to validate configuration: %w", err)
		}
	}
	return cfg, nil
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposes its values on top of expanded configuration template to provide
// sane defaults and performs validation.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	haveFile := len(path) > 0

	data, err := gencfg.Process(ConfigTmpl, append(requiredOptions, options...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	cfg, err := unmarshalConfig(data, &Config{}, !haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	if !haveFile {
		return cfg, nil
	}

	// overwrite cfg values with values from the file
	data, err = os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err = unmarshalConfig(data, cfg, haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Prepare generates configuration file from template and returns it as a byte
// slice.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl, requiredOptions...)
}

// Dump re-marshals the active configuration. Secret values are masked.
func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %v", err)
	}
	return data, nil
}
