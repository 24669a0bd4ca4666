package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ilyakaznacheev/cleanenv"
)

var gitSHA string
var buildDate string

type Config struct {
	Addr       string `env:"SOUNDNORM_ADDR" env-default:":8080"`
	DataDir    string `env:"SOUNDNORM_DATA_DIR" env-default:"data"`
	ConfigDir  string `env:"SOUNDNORM_CONFIG_DIR"` // defaults to DataDir / config
	TempDir    string `env:"SOUNDNORM_TEMP_DIR"`   // defaults to os.TempDir()
	Secure     bool   `env:"SOUNDNORM_SECURE" env-default:"false"`
	FfmpegBin  string `env:"SOUNDNORM_FFMPEG" env-default:"ffmpeg"`
	FfprobeBin string `env:"SOUNDNORM_FFPROBE" env-default:"ffprobe"`
	LogLevel   string `env:"SOUNDNORM_LOG_LEVEL" env-default:"debug"`

	MaxUploadMB int64 `env:"SOUNDNORM_MAX_UPLOAD_MB" env-default:"512"`

	SessionAuthKey       string `env:"SOUNDNORM_SESSION_AUTH_KEY"`
	AdminInitialPassword string `env:"SOUNDNORM_ADMIN_INITIAL_PASSWORD"`

	Storage StorageConfig
}

type StorageConfig struct {
	Backend     string `env:"SOUNDNORM_STORAGE" env-default:"fs"` // "fs" or "s3"
	S3Endpoint  string `env:"SOUNDNORM_S3_ENDPOINT"`
	S3Bucket    string `env:"SOUNDNORM_S3_BUCKET"`
	S3Region    string `env:"SOUNDNORM_S3_REGION" env-default:"us-east-1"`
	S3AccessKey string `env:"SOUNDNORM_S3_ACCESS_KEY"`
	S3SecretKey string `env:"SOUNDNORM_S3_SECRET_KEY"`
}

// Load reads the configuration from the environment and fills in derived defaults.
func Load() (Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to read configuration from environment: %w", err)
	}
	if cfg.ConfigDir == "" {
		cfg.ConfigDir = filepath.Join(cfg.DataDir, "config")
	}
	if cfg.TempDir == "" {
		cfg.TempDir = os.TempDir()
	}
	return cfg, nil
}

// ObjectDir is where the filesystem storage backend keeps uploaded objects
func (c Config) ObjectDir() string {
	return filepath.Join(c.DataDir, "objects")
}

func (c Config) GetSessionAuthKey() ([]byte, error) {
	if c.SessionAuthKey == "" {
		return []byte{}, fmt.Errorf("please set %s", "SOUNDNORM_SESSION_AUTH_KEY")
	}
	return []byte(c.SessionAuthKey), nil
}

func (c Config) GetAdminInitialPassword() (string, error) {
	if c.AdminInitialPassword == "" {
		return "", fmt.Errorf("please set %s", "SOUNDNORM_ADMIN_INITIAL_PASSWORD")
	}
	return c.AdminInitialPassword, nil
}

func (c Config) MaxUploadBytes() int64 {
	return c.MaxUploadMB * 1024 * 1024
}

func GetGitSHA() string {
	if gitSHA == "" {
		return "<not provided>"
	} else {
		return gitSHA
	}
}

func GetBuildDate() string {
	if buildDate == "" {
		return "<not provided>"
	} else {
		return buildDate
	}
}
