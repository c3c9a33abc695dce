package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	DefaultAPIURL      = "http://127.0.0.1:7443"
	DefaultDBFileName  = ".evault.db"
	DefaultBlobDirName = ".evault-blobs"
	DefaultLogLevel    = "info"

	DefaultAttachmentMaxUploadBytes int64 = 32 * 1024 * 1024

	configFileName  = ".evault.toml"
	configDirEnvKey = "EVAULT_CONFIG_DIR"

	apiURLEnvKey         = "EVAULT_API_URL"
	dbPathEnvKey         = "EVAULT_DB"
	blobRootEnvKey       = "EVAULT_BLOB_ROOT"
	logLevelEnvKey       = "EVAULT_LOG_LEVEL"
	maxUploadBytesEnvKey = "EVAULT_ATTACH_MAX_UPLOAD_BYTES"
)

// AttachmentConfig defines runtime configuration for attachment handling.
type AttachmentConfig struct {
	MaxUploadBytes int64 `toml:"max_upload_bytes"`
}

// Config defines runtime configuration for evault.
type Config struct {
	APIURL      string           `toml:"api_url"`
	DBPath      string           `toml:"db_path"`
	BlobRoot    string           `toml:"blob_root"`
	LogLevel    string           `toml:"log_level"`
	Attachments AttachmentConfig `toml:"attachments"`
}

// Default returns default configuration values.
func Default() Config {
	return Config{
		APIURL:   DefaultAPIURL,
		LogLevel: DefaultLogLevel,
		Attachments: AttachmentConfig{
			MaxUploadBytes: DefaultAttachmentMaxUploadBytes,
		},
	}
}

// Load reads the config file and applies env overrides. Missing files are
// fine; defaults cover everything.
func Load() (*Config, error) {
	cfg := Default()

	path, err := Path()
	if err != nil {
		return nil, err
	}
	if err := loadFileIfExists(path, &cfg); err != nil {
		return nil, err
	}

	if v := strings.TrimSpace(os.Getenv(apiURLEnvKey)); v != "" {
		cfg.APIURL = v
	}
	if v := strings.TrimSpace(os.Getenv(dbPathEnvKey)); v != "" {
		cfg.DBPath = v
	}
	if v := strings.TrimSpace(os.Getenv(blobRootEnvKey)); v != "" {
		cfg.BlobRoot = v
	}
	if v := strings.TrimSpace(os.Getenv(logLevelEnvKey)); v != "" {
		cfg.LogLevel = v
	}
	if v := strings.TrimSpace(os.Getenv(maxUploadBytesEnvKey)); v != "" {
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("%s must be a positive integer", maxUploadBytesEnvKey)
		}
		cfg.Attachments.MaxUploadBytes = parsed
	}

	if cfg.DBPath == "" {
		if cwd, err := os.Getwd(); err == nil {
			cfg.DBPath = filepath.Join(cwd, DefaultDBFileName)
		}
	}
	if cfg.BlobRoot == "" && cfg.DBPath != "" {
		cfg.BlobRoot = filepath.Join(filepath.Dir(cfg.DBPath), DefaultBlobDirName)
	}
	if cfg.Attachments.MaxUploadBytes <= 0 {
		cfg.Attachments.MaxUploadBytes = DefaultAttachmentMaxUploadBytes
	}

	return &cfg, nil
}

// Path returns the config file location: $EVAULT_CONFIG_DIR/.evault.toml
// when the override is set, otherwise ~/.evault.toml.
func Path() (string, error) {
	if dir := strings.TrimSpace(os.Getenv(configDirEnvKey)); dir != "" {
		return filepath.Join(dir, configFileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, configFileName), nil
}

func loadFileIfExists(path string, cfg *Config) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if info.IsDir() {
		return nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return nil
}
