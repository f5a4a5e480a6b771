package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/boards/internal/initializer"
	"github.com/mesh-intelligence/boards/internal/paths"
	"github.com/mesh-intelligence/boards/pkg/types"
)

// Config keys in config.yaml. Every key except data_dir can also be set
// through a BOARD_<KEY> environment variable.
const (
	cfgKeyBackend       = "backend"
	cfgKeyDataDir       = "data_dir"
	cfgKeySyncStrategy  = "sync_strategy"
	cfgKeyBatchSize     = "batch_size"
	cfgKeyBatchInterval = "batch_interval"
	cfgKeyRedisAddr     = "redis_addr"
	cfgKeyRedisPassword = "redis_password"
	cfgKeyRedisDB       = "redis_db"
	cfgKeyRedisPrefix   = "redis_prefix"
	cfgKeyNATSURL       = "nats_url"
	cfgKeyNATSBucket    = "nats_bucket"
	cfgKeyLogLevel      = "log_level"
	cfgKeyTemplate      = "template"

	envPrefix      = "BOARD"
	defaultBackend = types.BackendSQLite
	defaultLevel   = "info"
)

// envKeys lists the keys bound to environment variables. data_dir is
// resolved by the paths package, which has its own precedence.
var envKeys = []string{
	cfgKeyBackend, cfgKeySyncStrategy, cfgKeyBatchSize, cfgKeyBatchInterval,
	cfgKeyRedisAddr, cfgKeyRedisPassword, cfgKeyRedisDB, cfgKeyRedisPrefix,
	cfgKeyNATSURL, cfgKeyNATSBucket, cfgKeyLogLevel, cfgKeyTemplate,
}

// configFile is the shape of config.yaml.
type configFile struct {
	Backend       string `yaml:"backend"`
	DataDir       string `yaml:"data_dir,omitempty"`
	SyncStrategy  string `yaml:"sync_strategy"`
	BatchSize     int    `yaml:"batch_size"`
	BatchInterval int    `yaml:"batch_interval"`
	RedisAddr     string `yaml:"redis_addr"`
	RedisPrefix   string `yaml:"redis_prefix"`
	NATSURL       string `yaml:"nats_url"`
	NATSBucket    string `yaml:"nats_bucket"`
	LogLevel      string `yaml:"log_level"`
	Template      string `yaml:"template"`
}

func defaultConfigFile() configFile {
	return configFile{
		Backend:       defaultBackend,
		SyncStrategy:  types.SyncImmediate,
		BatchSize:     types.DefaultBatchSize,
		BatchInterval: types.DefaultBatchInterval,
		RedisAddr:     types.DefaultRedisAddr,
		RedisPrefix:   types.DefaultRedisPrefix,
		NATSURL:       types.DefaultNATSURL,
		NATSBucket:    types.DefaultNATSBucket,
		LogLevel:      defaultLevel,
		Template:      initializer.DefaultTemplate,
	}
}

// loadConfig reads config.yaml from configDir, creating the directory and a
// default file on first run. Flags in fs override the file for the keys
// they are bound to.
func loadConfig(configDir string, fs *pflag.FlagSet) (*viper.Viper, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}
	if _, err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	def := defaultConfigFile()
	v.SetDefault(cfgKeyBackend, def.Backend)
	v.SetDefault(cfgKeySyncStrategy, def.SyncStrategy)
	v.SetDefault(cfgKeyBatchSize, def.BatchSize)
	v.SetDefault(cfgKeyBatchInterval, def.BatchInterval)
	v.SetDefault(cfgKeyRedisAddr, def.RedisAddr)
	v.SetDefault(cfgKeyRedisPrefix, def.RedisPrefix)
	v.SetDefault(cfgKeyNATSURL, def.NATSURL)
	v.SetDefault(cfgKeyNATSBucket, def.NATSBucket)
	v.SetDefault(cfgKeyLogLevel, def.LogLevel)
	v.SetDefault(cfgKeyTemplate, def.Template)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	for _, k := range envKeys {
		if err := v.BindEnv(k); err != nil {
			return nil, err
		}
	}

	if fs != nil {
		for key, flag := range map[string]string{
			cfgKeyBackend:  "backend",
			cfgKeyLogLevel: "log-level",
		} {
			if f := fs.Lookup(flag); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, err
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return v, nil
}

// ensureDefaultConfigFile writes a default config.yaml if none exists and
// reports whether it did.
func ensureDefaultConfigFile(configDir string) (bool, error) {
	path := paths.ConfigFile(configDir)
	_, err := os.Stat(path)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("stat config file: %w", err)
	}

	data, err := yaml.Marshal(defaultConfigFile())
	if err != nil {
		return false, fmt.Errorf("marshal config: %w", err)
	}
	header := "# board CLI configuration\n# backend: memory | sqlite | redis | nats\n"
	if err := os.WriteFile(path, append([]byte(header), data...), 0o644); err != nil {
		return false, err
	}
	return true, nil
}

// storeConfig builds the store configuration from v. dataDir is already
// resolved.
func storeConfig(v *viper.Viper, dataDir string) types.Config {
	return types.Config{
		Backend: v.GetString(cfgKeyBackend),
		DataDir: dataDir,
		SQLite: types.SQLiteConfig{
			SyncStrategy:  v.GetString(cfgKeySyncStrategy),
			BatchSize:     v.GetInt(cfgKeyBatchSize),
			BatchInterval: v.GetInt(cfgKeyBatchInterval),
		},
		Redis: types.RedisConfig{
			Addr:     v.GetString(cfgKeyRedisAddr),
			Password: v.GetString(cfgKeyRedisPassword),
			DB:       v.GetInt(cfgKeyRedisDB),
			Prefix:   v.GetString(cfgKeyRedisPrefix),
		},
		NATS: types.NATSConfig{
			URL:    v.GetString(cfgKeyNATSURL),
			Bucket: v.GetString(cfgKeyNATSBucket),
		},
	}
}
