package main

import (
	"io/ioutil"

	"github.com/naoina/toml"
	"github.com/pkg/errors"

	"github.com/gossimlabs/gossipdes/des"
	"github.com/gossimlabs/gossipdes/topology"
)

// fileConfig mirrors runConfig but with toml tags, following the teacher's
// consensus/tendermint Config struct-with-toml-tags convention. Any field
// left at its zero value leaves the corresponding flag-derived value in
// place.
type fileConfig struct {
	N                 int     `toml:",omitempty"`
	M                 int     `toml:",omitempty"`
	BroadcastInterval float64 `toml:",omitempty"`
	L                 int     `toml:",omitempty"`
	GraphType         string  `toml:",omitempty"`
	Seed              int64   `toml:",omitempty"`
	NumBlocks         int     `toml:",omitempty"`
	PrintProgress     *bool   `toml:",omitempty"`
}

type runConfig struct {
	des.Config
	NumBlocks     int
	PrintProgress bool
}

func loadConfigFile(path string, base runConfig) (runConfig, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return base, errors.Wrap(err, "reading config file")
	}

	var fc fileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return base, errors.Wrap(err, "parsing toml config")
	}

	cfg := base
	if fc.N != 0 {
		cfg.N = fc.N
	}
	if fc.M != 0 {
		cfg.M = fc.M
	}
	if fc.BroadcastInterval != 0 {
		cfg.BroadcastInterval = fc.BroadcastInterval
	}
	if fc.L != 0 {
		cfg.L = fc.L
	}
	if fc.GraphType != "" {
		cfg.GraphType = topology.Type(fc.GraphType)
	}
	if fc.Seed != 0 {
		cfg.Seed = fc.Seed
	}
	if fc.NumBlocks != 0 {
		cfg.NumBlocks = fc.NumBlocks
	}
	if fc.PrintProgress != nil {
		cfg.PrintProgress = *fc.PrintProgress
	}
	return cfg, nil
}
