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
	DefaultAPIURL     = "http://127.0.0.1:7411"
	DefaultDBFileName = ".clientdocs.db"
	DefaultLogLevel   = "info"

	DefaultMaxUploadBytes     int64 = 100 * 1024 * 1024
	DefaultMultipartMaxMemory int64 = 8 * 1024 * 1024

	DefaultSweepConcurrency  = 4
	DefaultSweepProbeTimeout = 30 // seconds

	BlobBackendLocal = "local"
	BlobBackendS3    = "s3"

	configDirEnvKey    = "CLIENTDOCS_CONFIG_DIR"
	apiURLEnvKey       = "CLIENTDOCS_API_URL"
	dbPathEnvKey       = "CLIENTDOCS_DB"
	s3SecretKeyEnvKey  = "CLIENTDOCS_S3_SECRET_ACCESS_KEY"
	sweepWorkersEnvKey = "CLIENTDOCS_SWEEP_CONCURRENCY"

	configFileName = ".clientdocs.toml"

	snapCommonConfigRelativePath = "snap/clientdocs/common/.clientdocs.toml"
)

// BlobConfig selects and configures the blob backend.
type BlobConfig struct {
	// Backend is "local" or "s3".
	Backend string `toml:"backend"`
	// LocalRoot is the directory for the local backend.
	LocalRoot string `toml:"local_root"`
	// PublicBaseURL overrides derived retrieval URLs for both backends.
	PublicBaseURL string `toml:"public_base_url"`
	S3            S3Config `toml:"s3"`
}

// S3Config configures the S3 backend. The secret access key is never
// read from file; it comes from the environment only.
type S3Config struct {
	Endpoint    string `toml:"endpoint"`
	Region      string `toml:"region"`
	Bucket      string `toml:"bucket"`
	AccessKeyID string `toml:"access_key_id"`

	SecretAccessKey string `toml:"-"`
}

// SweepConfig tunes the reconciliation sweep.
type SweepConfig struct {
	Concurrency      int `toml:"concurrency"`
	ProbeTimeoutSecs int `toml:"probe_timeout_secs"`
}

// UploadConfig defines runtime limits for upload handling.
type UploadConfig struct {
	MaxUploadBytes     int64 `toml:"max_upload_bytes"`
	MultipartMaxMemory int64 `toml:"multipart_max_memory"`
}

// Config defines runtime configuration for clientdocs.
type Config struct {
	APIURL   string       `toml:"api_url"`
	DBPath   string       `toml:"db_path"`
	LogLevel string       `toml:"log_level"`
	Blob     BlobConfig   `toml:"blob"`
	Sweep    SweepConfig  `toml:"sweep"`
	Uploads  UploadConfig `toml:"uploads"`
}

// Default returns default configuration values.
func Default() Config {
	return Config{
		APIURL:   DefaultAPIURL,
		DBPath:   "",
		LogLevel: DefaultLogLevel,
		Blob: BlobConfig{
			Backend: BlobBackendLocal,
		},
		Sweep: SweepConfig{
			Concurrency:      DefaultSweepConcurrency,
			ProbeTimeoutSecs: DefaultSweepProbeTimeout,
		},
		Uploads: UploadConfig{
			MaxUploadBytes:     DefaultMaxUploadBytes,
			MultipartMaxMemory: DefaultMultipartMaxMemory,
		},
	}
}

func loadFile(path string, cfg *Config) error {
	_, err := loadFileIfExists(path, cfg)
	return err
}

func loadFileIfExists(path string, cfg *Config) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if info.IsDir() {
		return false, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return false, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return true, nil
}

func overrideConfigPath() (string, bool) {
	dir := strings.TrimSpace(os.Getenv(configDirEnvKey))
	if dir == "" {
		return "", false
	}
	return filepath.Join(dir, configFileName), true
}

var allowedKeys = []string{
	"api_url",
	"db_path",
	"log_level",
	"blob.backend",
	"blob.local_root",
	"blob.public_base_url",
	"blob.s3.endpoint",
	"blob.s3.region",
	"blob.s3.bucket",
	"blob.s3.access_key_id",
	"sweep.concurrency",
	"sweep.probe_timeout_secs",
	"uploads.max_upload_bytes",
	"uploads.multipart_max_memory",
}

// AllowedKeys returns the set of valid config keys.
func AllowedKeys() []string {
	return allowedKeys
}

// IsAllowedKey checks if a key is a valid config key.
func IsAllowedKey(key string) bool {
	for _, k := range allowedKeys {
		if k == key {
			return true
		}
	}
	return false
}

// Get returns the value of a config key.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "api_url":
		return c.APIURL, nil
	case "db_path":
		return c.DBPath, nil
	case "log_level":
		return c.LogLevel, nil
	case "blob.backend":
		return c.Blob.Backend, nil
	case "blob.local_root":
		return c.Blob.LocalRoot, nil
	case "blob.public_base_url":
		return c.Blob.PublicBaseURL, nil
	case "blob.s3.endpoint":
		return c.Blob.S3.Endpoint, nil
	case "blob.s3.region":
		return c.Blob.S3.Region, nil
	case "blob.s3.bucket":
		return c.Blob.S3.Bucket, nil
	case "blob.s3.access_key_id":
		return c.Blob.S3.AccessKeyID, nil
	case "sweep.concurrency":
		return strconv.Itoa(c.Sweep.Concurrency), nil
	case "sweep.probe_timeout_secs":
		return strconv.Itoa(c.Sweep.ProbeTimeoutSecs), nil
	case "uploads.max_upload_bytes":
		return strconv.FormatInt(c.Uploads.MaxUploadBytes, 10), nil
	case "uploads.multipart_max_memory":
		return strconv.FormatInt(c.Uploads.MultipartMaxMemory, 10), nil
	default:
		return "", fmt.Errorf("unknown key: %s", key)
	}
}

// GlobalPath returns the path to the global config file.
func GlobalPath() (string, error) {
	if path, ok := overrideConfigPath(); ok {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	homePath := filepath.Join(home, configFileName)
	if info, statErr := os.Stat(homePath); statErr == nil && !info.IsDir() {
		return homePath, nil
	} else if statErr != nil && !os.IsNotExist(statErr) {
		return "", statErr
	}

	snapPath := filepath.Join(home, snapCommonConfigRelativePath)
	if info, statErr := os.Stat(snapPath); statErr == nil && !info.IsDir() {
		return snapPath, nil
	} else if statErr != nil && !os.IsNotExist(statErr) {
		return "", statErr
	}

	return homePath, nil
}

// SetKey reads the TOML file at path, sets key=value, and writes it back.
func SetKey(path, key, value string) error {
	if !IsAllowedKey(key) {
		return fmt.Errorf("unknown key: %s", key)
	}

	data := make(map[string]any)
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &data); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	}

	parsedValue, err := parseSetValue(key, value)
	if err != nil {
		return err
	}
	if err := setNestedKey(data, strings.Split(key, "."), parsedValue); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(data)
}

// Load reads config from the global file and applies env overrides.
func Load() (*Config, error) {
	cfg := Default()

	if overridePath, ok := overrideConfigPath(); ok {
		if err := loadFile(overridePath, &cfg); err != nil {
			return nil, err
		}
	} else if home, err := os.UserHomeDir(); err == nil {
		homePath := filepath.Join(home, configFileName)
		homeLoaded, loadErr := loadFileIfExists(homePath, &cfg)
		if loadErr != nil {
			return nil, loadErr
		}
		if !homeLoaded {
			snapPath := filepath.Join(home, snapCommonConfigRelativePath)
			if err := loadFile(snapPath, &cfg); err != nil {
				return nil, err
			}
		}
	}

	if cfg.DBPath == "" {
		if cwd, err := os.Getwd(); err == nil {
			cfg.DBPath = filepath.Join(cwd, DefaultDBFileName)
		}
	}

	if apiURL := os.Getenv(apiURLEnvKey); apiURL != "" {
		cfg.APIURL = apiURL
	}
	if dbPath := os.Getenv(dbPathEnvKey); dbPath != "" {
		cfg.DBPath = dbPath
	}
	if secret := os.Getenv(s3SecretKeyEnvKey); secret != "" {
		cfg.Blob.S3.SecretAccessKey = secret
	}
	if raw := strings.TrimSpace(os.Getenv(sweepWorkersEnvKey)); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			cfg.Sweep.Concurrency = parsed
		}
	}

	cfg.normalizeDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func parseSetValue(key, value string) (any, error) {
	value = strings.TrimSpace(value)
	switch key {
	case "uploads.max_upload_bytes", "uploads.multipart_max_memory":
		parsed, err := strconv.ParseInt(value, 10, 64)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("%s must be a positive integer", key)
		}
		return parsed, nil
	case "sweep.concurrency", "sweep.probe_timeout_secs":
		parsed, err := strconv.Atoi(value)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("%s must be a positive integer", key)
		}
		return parsed, nil
	case "blob.backend":
		if value != BlobBackendLocal && value != BlobBackendS3 {
			return nil, fmt.Errorf("blob.backend must be %q or %q", BlobBackendLocal, BlobBackendS3)
		}
		return value, nil
	default:
		return value, nil
	}
}

func setNestedKey(data map[string]any, parts []string, value any) error {
	if len(parts) == 0 {
		return fmt.Errorf("invalid config key")
	}
	if len(parts) == 1 {
		data[parts[0]] = value
		return nil
	}
	childRaw, ok := data[parts[0]]
	if !ok {
		child := map[string]any{}
		data[parts[0]] = child
		return setNestedKey(child, parts[1:], value)
	}
	child, ok := childRaw.(map[string]any)
	if !ok {
		return fmt.Errorf("cannot set nested key %q", strings.Join(parts, "."))
	}
	return setNestedKey(child, parts[1:], value)
}

func (c *Config) normalizeDefaults() {
	if strings.TrimSpace(c.LogLevel) == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.Blob.Backend == "" {
		c.Blob.Backend = BlobBackendLocal
	}
	if c.Sweep.Concurrency <= 0 {
		c.Sweep.Concurrency = DefaultSweepConcurrency
	}
	if c.Sweep.ProbeTimeoutSecs <= 0 {
		c.Sweep.ProbeTimeoutSecs = DefaultSweepProbeTimeout
	}
	if c.Uploads.MaxUploadBytes <= 0 {
		c.Uploads.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if c.Uploads.MultipartMaxMemory <= 0 {
		c.Uploads.MultipartMaxMemory = DefaultMultipartMaxMemory
	}
}

func (c *Config) validate() error {
	switch c.Blob.Backend {
	case BlobBackendLocal, BlobBackendS3:
	default:
		return fmt.Errorf("blob.backend must be %q or %q, got %q", BlobBackendLocal, BlobBackendS3, c.Blob.Backend)
	}
	return nil
}
