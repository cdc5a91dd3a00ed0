package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/julianstephens/daydash/internal/constants"
	"github.com/julianstephens/daydash/internal/utils"
)

// Config is the runtime configuration, read from a YAML file and overridden
// by DAYDASH_* environment variables (DAYDASH_SNAPSHOT_DIR for snapshot.dir).
type Config struct {
	ListenAddr            string         `mapstructure:"listen_addr"`
	Timezone              string         `mapstructure:"timezone"`
	Seed                  bool           `mapstructure:"seed"`
	RecomputeOnUncomplete bool           `mapstructure:"recompute_on_uncomplete"`
	Snapshot              SnapshotConfig `mapstructure:"snapshot"`
	Log                   LogConfig      `mapstructure:"log"`
}

type SnapshotConfig struct {
	Dir string `mapstructure:"dir"`
	Max int    `mapstructure:"max"`
	// OnExit writes a snapshot file when the server shuts down.
	OnExit bool `mapstructure:"on_exit"`
	// Postgres additionally exports to the database whose DSN is in the keyring.
	Postgres bool `mapstructure:"postgres"`
}

type LogConfig struct {
	Dir string `mapstructure:"dir"`
}

// DefaultPath returns ~/.config/daydash/config.yaml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return constants.DefaultConfigFile
	}
	return filepath.Join(home, ".config", constants.AppName, constants.DefaultConfigFile)
}

// Load reads the config file at path. A missing file yields the defaults,
// with snapshot and log directories placed next to where the file would be.
func Load(path string) (*Config, error) {
	baseDir := filepath.Dir(path)

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(constants.AppName)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("listen_addr", constants.DefaultListenAddr)
	v.SetDefault("timezone", constants.DefaultTimezone)
	v.SetDefault("seed", constants.DefaultSeedSampleData)
	v.SetDefault("recompute_on_uncomplete", constants.DefaultRecomputeOnUndo)
	v.SetDefault("snapshot.dir", filepath.Join(baseDir, constants.SnapshotDirName))
	v.SetDefault("snapshot.max", constants.MaxSnapshots)
	v.SetDefault("snapshot.on_exit", false)
	v.SetDefault("snapshot.postgres", false)
	v.SetDefault("log.dir", filepath.Join(baseDir, "logs"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		var pathErr *os.PathError
		if !errors.As(err, &notFound) && !errors.As(err, &pathErr) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	cfg.Snapshot.Dir = expandHome(cfg.Snapshot.Dir)
	cfg.Log.Dir = expandHome(cfg.Log.Dir)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.ListenAddr == "" {
		return errors.New("listen_addr cannot be empty")
	}
	if !utils.ValidateTimezone(c.Timezone) {
		return fmt.Errorf("unknown timezone %q", c.Timezone)
	}
	if c.Snapshot.Max < 1 {
		return fmt.Errorf("snapshot.max must be at least 1, got %d", c.Snapshot.Max)
	}
	return nil
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
