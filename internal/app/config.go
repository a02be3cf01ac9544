package app

import "errors"

// Config holds everything an App instance needs to run.
type Config struct {
	// ConfigPath points at the experiment document (.hcl or .json).
	ConfigPath string

	// RecordsPath overrides record discovery under dataset.root_dir.
	RecordsPath string
	// Compare lists record files from other explainers over the same
	// corpus. Non-empty enables the disagreement report.
	Compare []string
	// OutputDir overrides the document's output path.
	OutputDir string

	Workers      int
	LogFormat    string
	LogLevel     string
	ValidateOnly bool
	Stats        bool
	ServePort    int
	ListConfigs  bool
}

// NewConfig validates the raw CLI configuration.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.ConfigPath == "" && !cfg.ListConfigs {
		return nil, errors.New("a config path is required unless -list-configs is given")
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return &cfg, nil
}
