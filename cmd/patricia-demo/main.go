// Copyright © 2019, Oleksandr Krykovliuk <k33nice@gmail.com>.
// Use of this source code is governed by the
// MIT license that can be found in the LICENSE file.

package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/k33nice/patricia"
	"github.com/k33nice/patricia/firewall"
)

// Config for the demo.
type Config struct {
	Scenario string
	LogLevel string
	Firewall firewall.Config
}

// RegisterFlags adds the flags required to config this to the given FlagSet.
func (cfg *Config) RegisterFlags(f *flag.FlagSet) {
	f.StringVar(&cfg.Scenario, "scenario", "all", "Scenario to run: words, firewall or all.")
	f.StringVar(&cfg.LogLevel, "log.level", "info", "Only log messages with the given severity or above. Valid levels: [debug, info, warn, error]")
	cfg.Firewall.RegisterFlags(f)
}

var builtinRules = []firewall.Rule{
	{Prefix: "192.0.0.0/8", Action: "ALLOW (Office Network)"},
	{Prefix: "192.168.1.55/32", Action: "BLOCK (Malicious Host)"},
}

var packets = []string{"192.255.0.1", "192.168.1.55", "8.8.8.8"}

func main() {
	var cfg Config
	cfg.RegisterFlags(flag.CommandLine)
	flag.Parse()

	logger, err := newLogger(cfg.LogLevel)
	checkFatal(log.NewLogfmtLogger(os.Stderr), "initializing logger", err)

	checkFatal(logger, "running demo", run(cfg, os.Stdout, logger))
}

func newLogger(lvl string) (log.Logger, error) {
	var opt level.Option
	switch lvl {
	case "debug":
		opt = level.AllowDebug()
	case "info":
		opt = level.AllowInfo()
	case "warn":
		opt = level.AllowWarn()
	case "error":
		opt = level.AllowError()
	default:
		return nil, errors.Errorf("unrecognized log level %q", lvl)
	}

	logger := log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	logger = level.NewFilter(logger, opt)
	return log.With(logger, "ts", log.DefaultTimestampUTC, "caller", log.DefaultCaller), nil
}

// checkFatal prints an error and exits with error code 1 if err is non-nil.
func checkFatal(logger log.Logger, location string, err error) {
	if err == nil {
		return
	}
	// %+v gets the stack trace from errors using github.com/pkg/errors
	level.Error(logger).Log("msg", "error "+location, "err", fmt.Sprintf("%+v", err))
	os.Exit(1)
}

func run(cfg Config, w io.Writer, logger log.Logger) error {
	switch cfg.Scenario {
	case "words":
		return runWords(w)
	case "firewall":
		return runFirewall(cfg.Firewall, w, logger)
	case "all":
		if err := runWords(w); err != nil {
			return err
		}
		fmt.Fprintln(w)
		return runFirewall(cfg.Firewall, w, logger)
	default:
		return errors.Errorf("unknown scenario %q", cfg.Scenario)
	}
}

func runWords(w io.Writer) error {
	tree := patricia.New()
	for _, word := range []string{"car", "card", "care", "dog"} {
		tree.Insert(patricia.Key(word), nil)
	}
	fmt.Fprintln(w, "Inserted words: car, card, care, dog")

	if err := show(w, tree); err != nil {
		return err
	}

	fmt.Fprintln(w, "\nSearch Results:")
	for _, word := range []string{"car", "care", "cat"} {
		result := "Not Found"
		if tree.Contains(patricia.Key(word)) {
			result = "Found"
		}
		fmt.Fprintf(w, "%-5s: %s\n", word, result)
	}

	fmt.Fprintln(w, "\nDeleting 'card'...")
	tree.Delete(patricia.Key("card"))
	return show(w, tree)
}

func show(w io.Writer, tree patricia.Tree) error {
	fmt.Fprintln(w, "\nPatricia Trie Structure:")
	return errors.Wrap(patricia.Fprint(w, tree), "print tree")
}

func runFirewall(cfg firewall.Config, w io.Writer, logger log.Logger) error {
	if cfg.RulesFile != "" {
		if err := cfg.LoadFile(cfg.RulesFile); err != nil {
			return err
		}
	} else {
		cfg.Rules = builtinRules
	}

	fw, err := firewall.New(cfg, logger, prometheus.NewRegistry())
	if err != nil {
		return err
	}

	fmt.Fprintln(w, "--- 1. CONFIGURING FIREWALL RULES ---")
	for _, r := range fw.Rules() {
		fmt.Fprintf(w, "Added Rule: %s -> %s\n", r.Prefix, r.Action)
	}

	fmt.Fprintln(w, "\n--- 2. VISUALIZING THE PATRICIA TRIE ---")
	if err := fw.Print(w); err != nil {
		return errors.Wrap(err, "print rules")
	}

	fmt.Fprintln(w, "\n--- 3. TESTING PACKETS (Longest Prefix Match) ---")
	for _, addr := range packets {
		action, err := fw.Classify(addr)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Packet from %s\nAction: %s\n\n", addr, action)
	}
	return nil
}
