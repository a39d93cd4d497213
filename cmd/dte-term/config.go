package main

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/dte-go/dte"
)

// fileConfig mirrors the subset of dte.Options a user may override from a
// TOML config file. Fields left unset in the file keep their
// dte.DefaultOptions() value.
type fileConfig struct {
	TabWidth      *int    `toml:"tab-width"`
	ExpandTab     *bool   `toml:"expand-tab"`
	TabPolicy     *string `toml:"tab-policy"` // "normal", "control", or "special"
	ScrollMarginV *int    `toml:"scroll-margin-v"`
	ScrollMarginH *int    `toml:"scroll-margin-h"`
	Syntax        *string `toml:"syntax"`
}

// loadOptions reads path as TOML and layers it over dte.DefaultOptions().
// A missing file is not an error: callers just get the defaults.
func loadOptions(path string) (dte.Options, error) {
	opts := dte.DefaultOptions()
	if path == "" {
		return opts, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return opts, nil
	}

	var cfg fileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return opts, err
	}
	if cfg.TabWidth != nil {
		opts.TabWidth = *cfg.TabWidth
	}
	if cfg.ExpandTab != nil {
		opts.ExpandTab = *cfg.ExpandTab
	}
	if cfg.TabPolicy != nil {
		switch *cfg.TabPolicy {
		case "control":
			opts.TabPolicy = dte.TabControl
		case "special":
			opts.TabPolicy = dte.TabSpecial
		default:
			opts.TabPolicy = dte.TabNormal
		}
	}
	if cfg.ScrollMarginV != nil {
		opts.ScrollMarginV = *cfg.ScrollMarginV
	}
	if cfg.ScrollMarginH != nil {
		opts.ScrollMarginH = *cfg.ScrollMarginH
	}
	if cfg.Syntax != nil {
		opts.Syntax = *cfg.Syntax
	}
	return opts, nil
}
