package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"
)

const (
	defaultDirectusURL = "https://directus.misavoid.dev"
	defaultConfigFile  = "postdeck.toml"
	defaultLimit       = 30
	maxLimit           = 200
	defaultCellWidth   = 8
)

// Config holds runtime settings for the CLI app.
type Config struct {
	DirectusURL string  `toml:"directus_url" env:"POSTDECK_DIRECTUS_URL"`
	Token       string  `toml:"token"        env:"POSTDECK_DIRECTUS_TOKEN"`
	SiteURL     string  `toml:"site_url"     env:"POSTDECK_SITE_URL"`
	DBPath      string  `toml:"db_path"      env:"POSTDECK_DB_PATH"`
	Limit       int     `toml:"limit"        env:"POSTDECK_LIMIT"`
	Locale      string  `toml:"locale"       env:"POSTDECK_LOCALE"`
	CellWidth   float64 `toml:"cell_width"   env:"POSTDECK_CELL_WIDTH"`
	LogPath     string  `toml:"log_path"     env:"POSTDECK_LOG_PATH"`
	Debug       bool    `toml:"debug"        env:"POSTDECK_DEBUG"`
}

func Default() Config {
	return Config{
		DirectusURL: defaultDirectusURL,
		DBPath:      "postdeck.db",
		Limit:       defaultLimit,
		CellWidth:   defaultCellWidth,
	}
}

// Load layers defaults, the TOML file, a local .env file and the process
// environment, in that order. An empty path reads postdeck.toml when it
// exists; an explicit path must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = defaultConfigFile
	}
	if err := readFile(path, &cfg); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return Config{}, err
		}
	}

	_ = godotenv.Load()

	if v := os.Getenv("PUBLIC_DIRECTUS_URL"); v != "" {
		cfg.DirectusURL = v
	}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	cfg.DirectusURL = strings.TrimRight(strings.TrimSpace(cfg.DirectusURL), "/")
	if cfg.SiteURL == "" {
		cfg.SiteURL = siteFromDirectus(cfg.DirectusURL)
	}
	if cfg.Locale == "" {
		cfg.Locale = localeFromEnv()
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func readFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c Config) Validate() error {
	if err := validateHTTPURL("DirectusURL", c.DirectusURL); err != nil {
		return err
	}
	if err := validateHTTPURL("SiteURL", c.SiteURL); err != nil {
		return err
	}
	if c.DBPath == "" {
		return errors.New("DBPath is required")
	}
	if c.Limit < 1 || c.Limit > maxLimit {
		return fmt.Errorf("Limit must be between 1 and %d: %d", maxLimit, c.Limit)
	}
	if c.CellWidth <= 0 {
		return fmt.Errorf("CellWidth must be positive: %v", c.CellWidth)
	}
	if _, err := language.Parse(c.Locale); err != nil {
		return fmt.Errorf("Locale is not a valid language tag: %s", c.Locale)
	}
	return nil
}

// LanguageTag returns the parsed locale, falling back to US English.
func (c Config) LanguageTag() language.Tag {
	tag, err := language.Parse(c.Locale)
	if err != nil {
		return language.AmericanEnglish
	}
	return tag
}

func validateHTTPURL(name, raw string) error {
	if raw == "" {
		return fmt.Errorf("%s is required", name)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s is not a valid URL: %s", name, raw)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s must use http or https: %s", name, raw)
	}
	if u.Host == "" {
		return fmt.Errorf("%s has no host: %s", name, raw)
	}
	return nil
}

// siteFromDirectus guesses the public site from the CMS host, so
// directus.example.dev serves posts for example.dev.
func siteFromDirectus(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}
	host := strings.TrimPrefix(u.Host, "directus.")
	return u.Scheme + "://" + host
}

func localeFromEnv() string {
	for _, key := range []string{"LC_ALL", "LC_TIME", "LANG"} {
		v := os.Getenv(key)
		if v == "" || v == "C" || v == "POSIX" {
			continue
		}
		if i := strings.IndexAny(v, ".@"); i >= 0 {
			v = v[:i]
		}
		v = strings.ReplaceAll(v, "_", "-")
		if _, err := language.Parse(v); err == nil {
			return v
		}
	}
	return "en-US"
}
