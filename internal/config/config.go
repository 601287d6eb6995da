// Package config loads the optional realm-bootstrap file that toggles
// which non-default ECMAScript realm features a runtime.Context starts
// with (Float16 typed arrays, BigInt, string normalization; the
// Non-goal-excluded features such as Atomics/SharedArrayBuffer stay off
// regardless of what a file requests).
package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// RealmFeatures toggles optional realm capabilities. A zero
// RealmFeatures has every feature disabled, but Default and Load start
// from every feature enabled; a config file only overrides the fields
// it names.
type RealmFeatures struct {
	Float16Array    bool `yaml:"float16Array"`
	BigInt          bool `yaml:"bigInt"`
	StringNormalize bool `yaml:"stringNormalize"`
}

// Realm is the top-level shape of a realm bootstrap file.
type Realm struct {
	Features RealmFeatures `yaml:"features"`
}

// Default returns the realm configuration used when no file is
// supplied: every optional feature enabled, since the core spec treats
// them as part of the standard surface rather than as opt-in extras.
// A bootstrap file is only needed to turn features off.
func Default() *Realm {
	return &Realm{Features: RealmFeatures{
		Float16Array:    true,
		BigInt:          true,
		StringNormalize: true,
	}}
}

// Load reads a realm bootstrap file from path. A missing file is not an
// error; it is treated the same as no file being supplied (Default()).
func Load(path string) (*Realm, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading realm config %s: %w", path, err)
	}
	realm := Default()
	if err := yaml.Unmarshal(data, realm); err != nil {
		return nil, fmt.Errorf("parsing realm config %s: %w", path, err)
	}
	return realm, nil
}
