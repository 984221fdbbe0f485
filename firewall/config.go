// Copyright © 2019, Oleksandr Krykovliuk <k33nice@gmail.com>.
// Use of this source code is governed by the
// MIT license that can be found in the LICENSE file.

package firewall

import (
	"flag"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"github.com/k33nice/patricia/ipkey"
)

// DefaultAction is applied to addresses no rule matches unless configured otherwise.
const DefaultAction Action = "DEFAULT_DENY"

var (
	errEmptyDefaultAction = errors.New("default action must not be empty")
	errEmptyAction        = errors.New("rule action must not be empty")
)

// Action is the verdict attached to a rule, e.g. ALLOW or BLOCK.
type Action string

// Rule maps an IPv4 prefix to an action.
type Rule struct {
	Prefix string `yaml:"prefix"`
	Action Action `yaml:"action"`
}

// Config for the firewall.
type Config struct {
	DefaultAction Action `yaml:"default_action"`
	Rules         []Rule `yaml:"rules"`

	RulesFile string `yaml:"-"`
}

// RegisterFlags adds the flags required to config this to the given FlagSet.
func (cfg *Config) RegisterFlags(f *flag.FlagSet) {
	f.StringVar((*string)(&cfg.DefaultAction), "firewall.default-action", string(DefaultAction), "Action for addresses that match no rule.")
	f.StringVar(&cfg.RulesFile, "firewall.rules-file", "", "YAML file with the default action and the list of rules.")
}

// Validate the config and return an error if it is invalid.
func (cfg *Config) Validate() error {
	if cfg.DefaultAction == "" {
		return errEmptyDefaultAction
	}

	for i, r := range cfg.Rules {
		if err := r.Validate(); err != nil {
			return errors.Wrapf(err, "rule %d", i)
		}
	}
	return nil
}

// Validate the rule and return an error if it is invalid.
func (r Rule) Validate() error {
	if r.Action == "" {
		return errors.Wrapf(errEmptyAction, "prefix %s", r.Prefix)
	}
	if _, err := ipkey.FromPrefix(r.Prefix); err != nil {
		return err
	}
	return nil
}

// LoadFile overlays the YAML file at path onto cfg. Fields missing from
// the file keep their current values.
func (cfg *Config) LoadFile(path string) error {
	buf, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "read rules file")
	}

	if err := cfg.Parse(buf); err != nil {
		return errors.Wrapf(err, "load %s", path)
	}
	return nil
}

// Parse overlays YAML rules onto cfg. Unknown fields are rejected.
func (cfg *Config) Parse(buf []byte) error {
	if err := yaml.UnmarshalStrict(buf, cfg); err != nil {
		return errors.Wrap(err, "parse rules")
	}
	return cfg.Validate()
}
