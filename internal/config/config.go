// Package config loads the layered verbivisa configuration.
//
// Precedence, lowest first: flag defaults, YAML config file, VERBIVISA_*
// environment variables, flags set on the command line.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// EnvPrefix prefixes environment overrides, e.g. VERBIVISA_DATABASE_PATH.
const EnvPrefix = "VERBIVISA_"

// Config is the full application configuration.
type Config struct {
	Lists     ListsConfig     `koanf:"lists"`
	Catalog   CatalogConfig   `koanf:"catalog"`
	Languages LanguagesConfig `koanf:"languages"`
	Packages  PackagesConfig  `koanf:"packages"`
	Database  DatabaseConfig  `koanf:"database"`
	Log       LogConfig       `koanf:"log"`
}

// ListsConfig locates the word-list CSV files.
type ListsConfig struct {
	Dir      string `koanf:"dir" validate:"required"`
	Repo     string `koanf:"repo"`     // optional git URL synced into Checkout
	Checkout string `koanf:"checkout"` // local clone directory for Repo
}

// CatalogConfig describes the CSV layout.
type CatalogConfig struct {
	Delimiter       string `koanf:"delimiter" validate:"len=1"`
	SourceColumn    string `koanf:"source" validate:"required"`
	TargetColumn    string `koanf:"target" validate:"required"`
	IrregularColumn string `koanf:"irregular"`
}

// LanguagesConfig names both sides of the lists for direction labels.
type LanguagesConfig struct {
	Source string `koanf:"source" validate:"required"`
	Target string `koanf:"target" validate:"required,nefield=Source"`
}

// PackagesConfig sets the size new package maps are split into.
type PackagesConfig struct {
	Size int `koanf:"size" validate:"min=1"`
}

// DatabaseConfig locates the SQLite file holding package maps and scores.
type DatabaseConfig struct {
	Path string `koanf:"path" validate:"required"`
}

// LogConfig selects the slog level and handler.
type LogConfig struct {
	Level  string `koanf:"level" validate:"oneof=debug info warn error"`
	Format string `koanf:"format" validate:"oneof=text json"`
}

// flagKeys maps flag names to configuration keys.
var flagKeys = map[string]string{
	"lists-dir":        "lists.dir",
	"lists-repo":       "lists.repo",
	"lists-checkout":   "lists.checkout",
	"delimiter":        "catalog.delimiter",
	"source-column":    "catalog.source",
	"target-column":    "catalog.target",
	"irregular-column": "catalog.irregular",
	"source-lang":      "languages.source",
	"target-lang":      "languages.target",
	"package-size":     "packages.size",
	"db":               "database.path",
	"log-level":        "log.level",
	"log-format":       "log.format",
}

// RegisterFlags adds the configuration flags and their defaults to flags.
func RegisterFlags(flags *pflag.FlagSet) {
	flags.String("config", "verbivisa.yaml", "Path to the YAML configuration file")
	flags.String("lists-dir", ".", "Directory holding the word-list CSV files")
	flags.String("lists-repo", "", "Git repository to sync word lists from")
	flags.String("lists-checkout", "", "Local directory for the word-list repository (default derived from --lists-repo)")
	flags.String("delimiter", ",", "CSV field delimiter")
	flags.String("source-column", "italia", "CSV column holding the source term")
	flags.String("target-column", "suomi", "CSV column holding the target term")
	flags.String("irregular-column", "epäsäännöllinen", "CSV column marking irregular words")
	flags.String("source-lang", "it", "Language code of the source terms")
	flags.String("target-lang", "fi", "Language code of the target terms")
	flags.Int("package-size", 20, "Number of words per package")
	flags.String("db", "verbivisa.db", "Path to the SQLite database file")
	flags.String("log-level", "info", "Log level: debug, info, warn or error")
	flags.String("log-format", "text", "Log format: text or json")
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load builds the configuration from flags, the file named by --config, and the environment.
// A missing config file is not an error.
func Load(flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	path, err := flags.GetString("config")
	if err != nil {
		return nil, fmt.Errorf("reading --config: %w", err)
	}
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("loading config file %s: %w", path, err)
			}
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("checking config file %s: %w", path, err)
		}
	}

	envToKey := func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", ".")
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", envToKey), nil); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	flagToKey := func(f *pflag.Flag) (string, interface{}) {
		key, ok := flagKeys[f.Name]
		if !ok {
			return "", nil
		}
		return key, posflag.FlagVal(flags, f)
	}
	if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, flagToKey), nil); err != nil {
		return nil, fmt.Errorf("loading flags: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// DelimiterRune returns the configured CSV delimiter.
func (c CatalogConfig) DelimiterRune() rune {
	for _, r := range c.Delimiter {
		return r
	}
	return ','
}
