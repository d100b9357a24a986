// Copyright 2024 trim21 <trim21.me@gmail.com>
// SPDX-License-Identifier: GPL-3.0-only

package config

import (
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
	"github.com/samber/lo"
	"github.com/spf13/viper"
	"github.com/trim21/errgo"

	"cellatomic/atomics"
)

type Litmus struct {
	// empty means every scenario.
	Scenarios []string `toml:"scenarios"`
	// empty means every order.
	Orders []string `toml:"orders" validate:"dive,oneof=relaxed consume acquire release acq_rel seq_cst"`
	// 0 means GOMAXPROCS.
	Goroutines int `toml:"goroutines" validate:"gte=0,lte=1024"`
	// at most 1024 goroutines times this many iterations fit a uint32 index.
	Iterations int `toml:"iterations" validate:"gte=1,lte=1000000"`
	Parallel   int `toml:"parallel" validate:"gte=1,lte=64"`
}

type Output struct {
	// Prometheus text exposition is written here after a run.
	MetricsFile string `toml:"metrics-file"`
	NoColor     bool   `toml:"no-color"`
}

type Config struct {
	Litmus Litmus `toml:"litmus"`
	Output Output `toml:"output"`
}

func Default() Config {
	return Config{
		Litmus: Litmus{Iterations: 100_000, Parallel: 1},
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// LoadFromFile reads a TOML config on top of Default. A missing file is not an
// error.
func LoadFromFile(path string) (Config, error) {
	var cfg = Default()

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}

		return Config{}, errgo.Wrap(err, "failed to read config file")
	}

	if err := toml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, errgo.Wrap(err, "failed to parse config file")
	}

	return cfg, cfg.Validate()
}

// Resolve builds the effective config: Default, then the file named by
// "config-file", then every key that a flag or environment variable set
// explicitly.
func Resolve(v *viper.Viper) (Config, error) {
	cfg := Default()

	if path := v.GetString("config-file"); path != "" {
		var err error
		cfg, err = LoadFromFile(path)
		if err != nil {
			return Config{}, err
		}
	}

	if v.IsSet("scenario") {
		cfg.Litmus.Scenarios = v.GetStringSlice("scenario")
	}
	if v.IsSet("order") {
		cfg.Litmus.Orders = v.GetStringSlice("order")
	}
	if v.IsSet("goroutines") {
		cfg.Litmus.Goroutines = v.GetInt("goroutines")
	}
	if v.IsSet("iterations") {
		cfg.Litmus.Iterations = v.GetInt("iterations")
	}
	if v.IsSet("parallel") {
		cfg.Litmus.Parallel = v.GetInt("parallel")
	}
	if v.IsSet("metrics-file") {
		cfg.Output.MetricsFile = v.GetString("metrics-file")
	}
	if v.IsSet("no-color") {
		cfg.Output.NoColor = v.GetBool("no-color")
	}

	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errgo.Wrap(err, "invalid config")
	}

	return nil
}

// ParsedOrders converts Litmus.Orders to atomics orders.
func (c Config) ParsedOrders() ([]atomics.Order, error) {
	orders := make([]atomics.Order, 0, len(c.Litmus.Orders))
	for _, s := range lo.Uniq(c.Litmus.Orders) {
		o, err := atomics.ParseOrder(s)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}

	return orders, nil
}
