package shared

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Database struct {
		RulesPath string `yaml:"rules_path"` // "./configs/forbidden_calls.txt"
		DSN       string `yaml:"dsn"`        // "./isrguard.db"
	} `yaml:"database"`

	Analysis struct {
		Sources []string `yaml:"sources"` // ["./src/mactcp"]
		Globs   []string `yaml:"globs"`   // ["**/*.c"]
		Workers int      `yaml:"workers"` // parallel file scans in directory mode
	} `yaml:"analysis"`

	Reporting struct {
		OutDir string `yaml:"out_dir"` // "./reports"
	} `yaml:"reporting"`

	Logging struct {
		Format string `yaml:"format"` // "json"|"text"
		Level  string `yaml:"level"`  // "info"|"debug"|"warn"|"error"
	} `yaml:"logging"`

	Suppressions []Suppression `yaml:"suppressions"`
}

// Suppression drops matching violations before reporting. ForbiddenCall
// is required; Callback and File narrow the match when set.
type Suppression struct {
	ForbiddenCall string `yaml:"forbidden_call"`
	Callback      string `yaml:"callback"`
	File          string `yaml:"file"` // substring match on the file identifier
}

func DefaultConfig() Config {
	var c Config
	c.Database.RulesPath = "./configs/forbidden_calls.txt"
	c.Database.DSN = "./isrguard.db"
	c.Analysis.Globs = []string{"**/*.c"}
	c.Analysis.Workers = 4
	c.Reporting.OutDir = "./reports"
	c.Logging.Format = "json"
	c.Logging.Level = "info"
	return c
}

func LoadConfig(path string) (Config, error) {
	c := DefaultConfig()
	if path != "" {
		if b, err := os.ReadFile(path); err == nil {
			_ = yaml.Unmarshal(b, &c)
		}
	}
	// Env overrides (simple, explicit)
	if v := os.Getenv("ISRGUARD_RULES_PATH"); v != "" {
		c.Database.RulesPath = v
	}
	if v := os.Getenv("ISRGUARD_DB_DSN"); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv("ISRGUARD_OUT_DIR"); v != "" {
		c.Reporting.OutDir = v
	}
	if v := os.Getenv("ISRGUARD_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Analysis.Workers = n
		}
	}
	if v := os.Getenv("ISRGUARD_LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv("ISRGUARD_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	return c, nil
}
