package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/arthur-debert/textilize/pkg/errors"
	"github.com/arthur-debert/textilize/pkg/logging"
)

const (
	// EnvPrefix selects the environment variables read as configuration
	EnvPrefix = "TEXTILIZE_"

	// ProjectFileName is read from the working directory
	ProjectFileName = ".textilize.toml"
)

// LoadOptions selects the file layers and flag overrides for Load
type LoadOptions struct {
	// UserFile is skipped when empty or missing
	UserFile string
	// ProjectDir is searched for ProjectFileName; empty skips the layer
	ProjectDir string
	// ConfigFile must exist when set
	ConfigFile string
	// Overrides uses dotted keys such as "pipeline.jobs"
	Overrides map[string]interface{}
}

// UserConfigFile returns $XDG_CONFIG_HOME/textilize/config.toml
func UserConfigFile() string {
	return filepath.Join(xdg.ConfigHome, "textilize", "config.toml")
}

// Default returns the embedded defaults only
func Default() (*Config, error) {
	return Load(LoadOptions{})
}

// Load merges every configuration layer and decodes the result
func Load(opts LoadOptions) (*Config, error) {
	logger := logging.GetLogger("config")
	k := koanf.New(".")

	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load embedded defaults")
	}

	if err := loadOptionalFile(k, opts.UserFile); err != nil {
		return nil, err
	}
	if opts.ProjectDir != "" {
		if err := loadOptionalFile(k, filepath.Join(opts.ProjectDir, ProjectFileName)); err != nil {
			return nil, err
		}
	}

	if opts.ConfigFile != "" {
		if _, err := os.Stat(opts.ConfigFile); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to read config file %s", opts.ConfigFile).
				WithDetail(errors.DetailPath, opts.ConfigFile)
		}
		if err := loadFile(k, opts.ConfigFile); err != nil {
			return nil, err
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load env vars")
	}

	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to apply flag overrides")
		}
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToSliceHookFunc(","),
				mapstructure.TextUnmarshallerHookFunc(),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to decode configuration")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger.Debug().
		Strs("keys", k.Keys()).
		Str("configFile", opts.ConfigFile).
		Msg("Configuration loaded")
	return &cfg, nil
}

// envKey maps TEXTILIZE_PIPELINE__ROOT_WRAP to pipeline.root_wrap
func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
}

func loadOptionalFile(k *koanf.Koanf, path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return nil
	}
	return loadFile(k, path)
}

func loadFile(k *koanf.Koanf, path string) error {
	if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
		return errors.Wrapf(err, errors.ErrConfigParse, "failed to load config file %s", path).
			WithDetail(errors.DetailPath, path)
	}
	return nil
}
