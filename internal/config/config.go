// Package config loads user defaults for deptree from a TOML file.
//
// The file lives at $XDG_CONFIG_HOME/deptree/config.toml (falling back to
// ~/.config) unless --config names another path:
//
//	charset = "ascii"
//	prefix = "indent"
//	format = "{p} {l}"
//	all = false
//	no_dev_dependencies = true
//	depth = 3
//
// Every key is optional. Command-line flags override file values.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/afero"

	errs "github.com/matzehuels/deptree/pkg/errors"
	"github.com/matzehuels/deptree/pkg/pipeline"
)

// FileName is the config file name inside the deptree config directory.
const FileName = "config.toml"

// Config holds file-level defaults. Nil pointers mean "not set".
type Config struct {
	Charset           string `toml:"charset"`
	Prefix            string `toml:"prefix"`
	Format            string `toml:"format"`
	All               *bool  `toml:"all"`
	NoDevDependencies *bool  `toml:"no_dev_dependencies"`
	Depth             *int   `toml:"depth"`

	// Path is the file the values were read from, empty if none.
	Path string `toml:"-"`
}

// DefaultPath returns the config file location, or "" if no config directory
// can be determined.
func DefaultPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "deptree", FileName)
}

// Load reads the config at path. When explicit is false a missing file yields
// an empty Config; otherwise it is an error.
func Load(fsys afero.Fs, path string, explicit bool) (*Config, error) {
	cfg := &Config{}
	if path == "" {
		return cfg, nil
	}

	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, errs.Wrap(errs.ErrCodeInvalidConfig, err, "read config")
	}

	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errs.New(errs.ErrCodeInvalidConfig, "unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}
	cfg.Path = path

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values that have a fixed vocabulary.
func (c *Config) Validate() error {
	if c.Charset != "" {
		if err := pipeline.ValidateCharset(c.Charset); err != nil {
			return errs.Wrap(errs.ErrCodeInvalidConfig, err, "charset")
		}
	}
	if c.Prefix != "" {
		if err := pipeline.ValidatePrefix(c.Prefix); err != nil {
			return errs.Wrap(errs.ErrCodeInvalidConfig, err, "prefix")
		}
	}
	if c.Depth != nil {
		if err := pipeline.ValidateDepth(*c.Depth); err != nil {
			return errs.Wrap(errs.ErrCodeInvalidConfig, err, "depth")
		}
	}
	return nil
}

// Apply fills the fields of opts that the user did not set on the command
// line. changed reports whether a flag was given explicitly.
func (c *Config) Apply(opts *pipeline.Options, changed func(flag string) bool) {
	if c.Charset != "" && !changed("charset") {
		opts.Charset = c.Charset
	}
	if c.Prefix != "" && !changed("prefix") && !changed("no-indent") && !changed("prefix-depth") {
		opts.Prefix = c.Prefix
	}
	if c.Format != "" && !changed("format") {
		opts.Format = c.Format
	}
	if c.All != nil && !changed("all") {
		opts.ShowAll = *c.All
	}
	if c.NoDevDependencies != nil && !changed("no-dev-dependencies") {
		opts.NoDevDependencies = *c.NoDevDependencies
	}
	if c.Depth != nil && !changed("depth") {
		d := *c.Depth
		opts.MaxDepth = &d
	}
}
