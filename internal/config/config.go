// Package config loads server settings from defaults, an optional YAML file and
// environment variables, in that order of precedence (later wins).
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// File store backends.
const (
	FileStoreLocal = "local"
	FileStoreS3    = "s3"
)

// DefaultJWTSecret is only suitable for development. Insecure reports its use.
const DefaultJWTSecret = "kanzlei-dev-secret-change-me"

// Config holds every setting of the server.
type Config struct {
	ListenAddr string        `yaml:"listen_addr"`
	DBPath     string        `yaml:"db_path"`
	StaticPath string        `yaml:"static_path"`
	JWTSecret  string        `yaml:"jwt_secret"`
	TokenTTL   time.Duration `yaml:"token_ttl"`

	Files   FilesConfig   `yaml:"files"`
	Logging LoggingConfig `yaml:"logging"`
}

// FilesConfig selects and configures the upload store.
type FilesConfig struct {
	Store     string `yaml:"store"`
	UploadDir string `yaml:"upload_dir"`
	// MaxUploadMB limits the size of one multipart upload.
	MaxUploadMB int      `yaml:"max_upload_mb"`
	S3          S3Config `yaml:"s3"`
}

// S3Config configures the S3 upload store.
type S3Config struct {
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
}

// LoggingConfig configures the slog handler.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the settings used when nothing else is configured.
func Default() *Config {
	return &Config{
		ListenAddr: ":8080",
		DBPath:     "./data/kanzlei.db",
		StaticPath: "../frontend/dist",
		JWTSecret:  DefaultJWTSecret,
		TokenTTL:   24 * time.Hour,
		Files: FilesConfig{
			Store:       FileStoreLocal,
			UploadDir:   "./data/uploads",
			MaxUploadMB: 32,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load returns the defaults overlaid with the YAML file at path (if path is
// non-empty) and then with environment variables.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	set := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	set("LISTEN_ADDR", &c.ListenAddr)
	set("DB_PATH", &c.DBPath)
	set("STATIC_PATH", &c.StaticPath)
	set("JWT_SECRET", &c.JWTSecret)
	set("FILE_STORE", &c.Files.Store)
	set("UPLOAD_DIR", &c.Files.UploadDir)
	set("S3_BUCKET", &c.Files.S3.Bucket)
	set("S3_REGION", &c.Files.S3.Region)
	set("S3_ENDPOINT", &c.Files.S3.Endpoint)
	set("S3_ACCESS_KEY", &c.Files.S3.AccessKey)
	set("S3_SECRET_KEY", &c.Files.S3.SecretKey)
	set("LOG_LEVEL", &c.Logging.Level)
	set("LOG_FORMAT", &c.Logging.Format)

	if v, ok := lookup("TOKEN_TTL"); ok && v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid TOKEN_TTL %q: %w", v, err)
		}
		c.TokenTTL = ttl
	}
	if v, ok := lookup("MAX_UPLOAD_MB"); ok && v != "" {
		mb, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid MAX_UPLOAD_MB %q: %w", v, err)
		}
		c.Files.MaxUploadMB = mb
	}
	return nil
}

// Validate checks that the settings are usable.
func (c *Config) Validate() error {
	var errs []error
	if c.ListenAddr == "" {
		errs = append(errs, errors.New("listen_addr is required"))
	}
	if c.DBPath == "" {
		errs = append(errs, errors.New("db_path is required"))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("jwt_secret is required"))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, errors.New("token_ttl must be positive"))
	}
	if c.Files.MaxUploadMB <= 0 {
		errs = append(errs, errors.New("files.max_upload_mb must be positive"))
	}
	switch strings.ToLower(c.Files.Store) {
	case FileStoreLocal:
		if c.Files.UploadDir == "" {
			errs = append(errs, errors.New("files.upload_dir is required for the local store"))
		}
	case FileStoreS3:
		if c.Files.S3.Bucket == "" {
			errs = append(errs, errors.New("files.s3.bucket is required for the s3 store"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown file store %q", c.Files.Store))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// Insecure reports whether the development JWT secret is in use.
func (c *Config) Insecure() bool {
	return c.JWTSecret == DefaultJWTSecret
}

// MaxUploadBytes is the upload limit in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.Files.MaxUploadMB) << 20
}
