// Package config handles imgpdf configuration loading.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/akarakai/imgpdf/pkg/assembler"
	"github.com/akarakai/imgpdf/pkg/model"
	"github.com/akarakai/imgpdf/pkg/sink"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultFile is read from the working directory when no path is given.
const DefaultFile = "imgpdf.yaml"

type Config struct {
	Page         PageConfig     `yaml:"page"`
	JPEGQuality  int            `yaml:"jpeg_quality"`
	DownloadDir  string         `yaml:"download_dir"`
	DatabasePath string         `yaml:"database_path"`
	LogLevel     string         `yaml:"log_level"`
	Telegram     TelegramConfig `yaml:"telegram"`
}

type PageConfig struct {
	Size      string  `yaml:"size"`
	Landscape bool    `yaml:"landscape"`
	Margin    float64 `yaml:"margin"`
}

type TelegramConfig struct {
	// APIKey only comes from the environment
	APIKey      string `yaml:"-"`
	MaxFileSize int64  `yaml:"max_file_size"`
}

func Default() *Config {
	return &Config{
		Page: PageConfig{
			Size:   "a4",
			Margin: model.DefaultMargin,
		},
		JPEGQuality:  assembler.DefaultJPEGQuality,
		DownloadDir:  sink.DefaultDownloadDir(),
		DatabasePath: "./imgpdf.db",
		LogLevel:     "info",
		Telegram: TelegramConfig{
			MaxFileSize: 20 << 20,
		},
	}
}

// Load reads the YAML file over the defaults, then .env and the environment.
// A missing file is only an error when the path was given explicitly.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	if err := cfg.loadFile(path); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	// .env is optional
	_ = godotenv.Load()

	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides values with the environment. getenv is os.Getenv outside tests.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv("TELEGRAM_API_KEY"); v != "" {
		c.Telegram.APIKey = v
	}
	if v := getenv("IMGPDF_PAGE_SIZE"); v != "" {
		c.Page.Size = v
	}
	if v := getenv("IMGPDF_LANDSCAPE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("IMGPDF_LANDSCAPE: %w", err)
		}
		c.Page.Landscape = b
	}
	if v := getenv("IMGPDF_MARGIN"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("IMGPDF_MARGIN: %w", err)
		}
		c.Page.Margin = f
	}
	if v := getenv("IMGPDF_JPEG_QUALITY"); v != "" {
		q, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("IMGPDF_JPEG_QUALITY: %w", err)
		}
		c.JPEGQuality = q
	}
	if v := getenv("IMGPDF_DOWNLOAD_DIR"); v != "" {
		c.DownloadDir = v
	}
	if v := getenv("IMGPDF_DB_PATH"); v != "" {
		c.DatabasePath = v
	}
	if v := getenv("IMGPDF_LOG_LEVEL"); v != "" {
		c.LogLevel = strings.ToLower(v)
	}
	return nil
}

func (c *Config) Validate() error {
	if _, err := c.Layout(); err != nil {
		return err
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		return fmt.Errorf("jpeg_quality must be between 1 and 100, got %d", c.JPEGQuality)
	}
	if c.DownloadDir == "" {
		return errors.New("download_dir must not be empty")
	}
	return nil
}

// Layout resolves the page settings into a PageLayout.
func (c *Config) Layout() (model.PageLayout, error) {
	l, err := model.LayoutByName(c.Page.Size)
	if err != nil {
		return model.PageLayout{}, err
	}
	if c.Page.Margin < 0 || 2*c.Page.Margin >= l.Width || 2*c.Page.Margin >= l.Height {
		return model.PageLayout{}, fmt.Errorf("margin %v leaves no room on a %s page", c.Page.Margin, l.Name)
	}
	l = l.WithMargin(c.Page.Margin)
	if c.Page.Landscape {
		l = l.Landscape()
	}
	return l, nil
}

// Assembler builds an assembler for the configured layout.
func (c *Config) Assembler() (*assembler.Assembler, error) {
	l, err := c.Layout()
	if err != nil {
		return nil, err
	}
	return assembler.New(l, c.JPEGQuality), nil
}
