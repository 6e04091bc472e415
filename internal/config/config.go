// Package config holds the settings shared by every cputable command. They
// come from an optional TOML file and are then overridden by command-line
// flags.
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"cputable/internal/engine"
	"cputable/internal/render"
)

type Config struct {
	Server  Server  `toml:"server"`
	Dataset Dataset `toml:"dataset"`
	Columns Columns `toml:"columns"`
	Render  Render  `toml:"render"`
	Debug   bool    `toml:"debug"`
}

type Server struct {
	Addr string `toml:"addr"`
}

type Dataset struct {
	Path  string `toml:"path"`
	Table string `toml:"table"` // sqlite only
}

// Columns binds the filter roles to dataset column names.
type Columns struct {
	Search       string `toml:"search"`
	Manufacturer string `toml:"manufacturer"`
	Platform     string `toml:"platform"`
	Cores        string `toml:"cores"`
}

type Render struct {
	Title        string `toml:"title"`
	EmptyMessage string `toml:"empty_message"`
	CoresLabel   string `toml:"cores_label"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	b := engine.DefaultBindings()
	r := render.DefaultOptions()
	return Config{
		Server: Server{Addr: ":8080"},
		Columns: Columns{
			Search:       b.Search,
			Manufacturer: b.Manufacturer,
			Platform:     b.Platform,
			Cores:        b.Cores,
		},
		Render: Render{
			Title:        r.Title,
			EmptyMessage: r.EmptyMessage,
			CoresLabel:   r.CoresLabel,
		},
	}
}

// Load reads path over the defaults. Keys the file leaves out keep their
// default value; unknown keys are an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("read config %s: unknown key %q", path, undecoded[0].String())
	}
	return cfg, nil
}

func (c Config) Bindings() engine.Bindings {
	return engine.Bindings{
		Search:       c.Columns.Search,
		Manufacturer: c.Columns.Manufacturer,
		Platform:     c.Columns.Platform,
		Cores:        c.Columns.Cores,
	}
}

func (c Config) RenderOptions() render.Options {
	return render.Options{
		Title:        c.Render.Title,
		EmptyMessage: c.Render.EmptyMessage,
		CoresLabel:   c.Render.CoresLabel,
	}
}

func (c Config) LoadOptions() engine.LoadOptions {
	return engine.LoadOptions{Table: c.Dataset.Table}
}
