// Copyright © 2019, Oleksandr Krykovliuk <k33nice@gmail.com>.
// Use of this source code is governed by the
// MIT license that can be found in the LICENSE file.

// Package firewall classifies IPv4 addresses against prefix rules using
// longest prefix matching over a patricia tree.
package firewall

import (
	"io"
	"sync"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/k33nice/patricia"
	"github.com/k33nice/patricia/ipkey"
)

// Firewall holds a rule table. It is safe for concurrent use.
type Firewall struct {
	defaultAction Action
	logger        log.Logger
	metrics       *metrics

	mtx  sync.RWMutex
	tree patricia.Tree
}

// New builds a firewall from the rules in cfg.
func New(cfg Config, logger log.Logger, reg prometheus.Registerer) (*Firewall, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid firewall config")
	}
	if logger == nil {
		logger = log.NewNopLogger()
	}

	f := &Firewall{
		defaultAction: cfg.DefaultAction,
		logger:        logger,
		metrics:       newMetrics(reg),
		tree:          patricia.New(),
	}

	for _, r := range cfg.Rules {
		if err := f.AddRule(r.Prefix, r.Action); err != nil {
			return nil, err
		}
	}

	level.Info(logger).Log("msg", "firewall rules loaded", "rules", f.Size(), "default_action", f.defaultAction)
	return f, nil
}

// DefaultAction returns the action for addresses no rule matches.
func (f *Firewall) DefaultAction() Action {
	return f.defaultAction
}

// AddRule maps prefix to action, replacing the action of an existing rule
// for the same prefix.
func (f *Firewall) AddRule(prefix string, action Action) error {
	r := Rule{Prefix: prefix, Action: action}
	if err := r.Validate(); err != nil {
		return errors.Wrap(err, "add rule")
	}

	// Validate already parsed the prefix.
	key, _ := ipkey.FromPrefix(prefix)

	f.mtx.Lock()
	replaced := f.tree.Contains(key)
	f.tree.Insert(key, action)
	size := f.tree.Size()
	f.mtx.Unlock()

	f.metrics.rules.Set(float64(size))
	level.Debug(f.logger).Log("msg", "rule added", "prefix", prefix, "action", action, "replaced", replaced)
	return nil
}

// RemoveRule deletes the rule for prefix. It reports false if there was none.
func (f *Firewall) RemoveRule(prefix string) (bool, error) {
	key, err := ipkey.FromPrefix(prefix)
	if err != nil {
		return false, errors.Wrap(err, "remove rule")
	}

	f.mtx.Lock()
	removed := f.tree.Delete(key)
	size := f.tree.Size()
	f.mtx.Unlock()

	f.metrics.rules.Set(float64(size))
	level.Debug(f.logger).Log("msg", "rule removed", "prefix", prefix, "found", removed)
	return removed, nil
}

// Classify returns the action of the most specific rule covering addr,
// or the default action if no rule does.
func (f *Firewall) Classify(addr string) (Action, error) {
	key, err := ipkey.FromAddr(addr)
	if err != nil {
		return "", errors.Wrap(err, "classify")
	}

	f.mtx.RLock()
	match := f.tree.LongestPrefix(key, nil)
	f.mtx.RUnlock()

	action, ok := match.(Action)
	if !ok {
		action = f.defaultAction
		f.metrics.defaultLookups.Inc()
	}

	f.metrics.lookups.WithLabelValues(string(action)).Inc()
	return action, nil
}

// Rules returns every rule ordered by prefix bits.
func (f *Firewall) Rules() []Rule {
	f.mtx.RLock()
	defer f.mtx.RUnlock()

	rules := make([]Rule, 0, f.tree.Size())
	f.tree.Walk(func(key patricia.Key, value patricia.Value) bool {
		pfx, err := ipkey.ToPrefix(key)
		if err != nil {
			level.Warn(f.logger).Log("msg", "skipping undecodable rule key", "key", string(key), "err", err)
			return true
		}
		rules = append(rules, Rule{Prefix: pfx.String(), Action: value.(Action)})
		return true
	})
	return rules
}

// Size returns the number of rules.
func (f *Firewall) Size() int {
	f.mtx.RLock()
	defer f.mtx.RUnlock()

	return f.tree.Size()
}

// Print renders the rule tree to w.
func (f *Firewall) Print(w io.Writer) error {
	f.mtx.RLock()
	defer f.mtx.RUnlock()

	return patricia.Fprint(w, f.tree)
}
