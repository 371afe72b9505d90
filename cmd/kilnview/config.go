// Copyright (c) 2026, Kiln Developers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"io/fs"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Config holds the viewer settings, read from kilnview.toml next
// to the binary. Every field has a default; the file is optional.
type Config struct {
	// Title is the window title.
	Title string `toml:"title"`

	// Width and Height are the initial window size in pixels.
	Width  int `toml:"width"`
	Height int `toml:"height"`

	// UpdateHz is the fixed simulation rate.
	UpdateHz int `toml:"update_hz"`

	// FrameHz is the frame rate limit.
	FrameHz int `toml:"frame_hz"`

	// Textures lists KTX2 textures to load, in catalog id order.
	Textures []Asset `toml:"textures"`

	// Meshes lists OBJ meshes to load after the built-in
	// primitives, in catalog id order.
	Meshes []Asset `toml:"meshes"`
}

// Asset names one catalog file.
type Asset struct {
	Name string `toml:"name"`
	Path string `toml:"path"`
}

func defaultConfig() *Config {
	return &Config{
		Title:    "kiln viewer",
		Width:    1024,
		Height:   768,
		UpdateHz: 60,
		FrameHz:  60,
	}
}

// loadConfig reads the TOML config at path, returning defaults if
// the file does not exist. A present but malformed file is an
// error; silently ignoring it would hide typos.
func loadConfig(path string) (*Config, error) {
	cfg := defaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
