package cli

import (
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/amesfit/amesfit/pkg/errors"
)

// Config holds the CLI configuration.
type Config struct {
	DataPath string  `koanf:"data"`
	OutDir   string  `koanf:"out_dir"`
	Target   string  `koanf:"target"`
	Formula  string  `koanf:"formula"`
	Prop     float64 `koanf:"prop"`
	Breaks   int     `koanf:"breaks"`
	Seed     uint64  `koanf:"seed"`
	Verbose  bool    `koanf:"verbose"`
}

// Default configuration values.
const (
	DefaultOutDir  = "amesfit_out"
	DefaultTarget  = "log_sale_price"
	DefaultFormula = "log_sale_price ~ gr_liv_area + year_built"
	DefaultProp    = 0.75
	DefaultBreaks  = 4
	DefaultSeed    = 4595
)

var configFileUsed string

// findConfigFile finds the config file to use.
// Priority: explicit path > amesfit.yaml > amesfit.yml
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range []string{"amesfit.yaml", "amesfit.yml"} {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// LoadConfig loads configuration from file, environment variables, and
// flags. Precedence (highest to lowest): flags > env vars > config file >
// defaults.
func LoadConfig(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(map[string]interface{}{
		"data":    "",
		"out_dir": DefaultOutDir,
		"target":  DefaultTarget,
		"formula": DefaultFormula,
		"prop":    DefaultProp,
		"breaks":  DefaultBreaks,
		"seed":    DefaultSeed,
		"verbose": false,
	}, "."), nil); err != nil {
		return nil, errors.Wrap(err, "loading defaults")
	}

	configFileUsed = findConfigFile(cfgFile)
	if configFileUsed != "" {
		if err := k.Load(file.Provider(configFileUsed), yaml.Parser()); err != nil {
			return nil, errors.Wrapf(err, "reading config file %s", configFileUsed)
		}
	}

	// AMESFIT_OUT_DIR -> out_dir
	if err := k.Load(env.Provider("AMESFIT_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "AMESFIT_"))
	}), nil); err != nil {
		return nil, errors.Wrap(err, "loading env vars")
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, errors.Wrap(err, "loading flags")
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errors.Wrap(err, "decoding config")
	}

	if cfg.Prop <= 0 || cfg.Prop >= 1 {
		return nil, errors.Newf("amesfit: prop must be in (0, 1), got %g", cfg.Prop)
	}
	if cfg.Breaks < 2 {
		return nil, errors.Newf("amesfit: breaks must be at least 2, got %d", cfg.Breaks)
	}
	return &cfg, nil
}

// ConfigFileUsed returns the path of the loaded config file, if any.
func ConfigFileUsed() string {
	return configFileUsed
}
