// Copyright © 2019, Oleksandr Krykovliuk <k33nice@gmail.com>.
// Use of this source code is governed by the
// MIT license that can be found in the LICENSE file.

package firewall

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/go-kit/log"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/k33nice/patricia/ipkey"
)

func newTestFirewall(t *testing.T, reg prometheus.Registerer) *Firewall {
	t.Helper()

	f, err := New(Config{
		DefaultAction: DefaultAction,
		Rules: []Rule{
			{Prefix: "192.0.0.0/8", Action: "ALLOW (Office Network)"},
			{Prefix: "192.168.1.55/32", Action: "BLOCK (Malicious Host)"},
		},
	}, log.NewNopLogger(), reg)
	require.NoError(t, err)
	return f
}

func TestFirewallClassify(t *testing.T) {
	f := newTestFirewall(t, nil)

	tests := map[string]Action{
		"192.168.1.55": "BLOCK (Malicious Host)",
		"192.255.0.1":  "ALLOW (Office Network)",
		"192.168.1.56": "ALLOW (Office Network)",
		"8.8.8.8":      DefaultAction,
	}

	for addr, want := range tests {
		got, err := f.Classify(addr)
		require.NoError(t, err, addr)
		assert.Equal(t, want, got, addr)
	}
}

func TestFirewallClassifyInvalid(t *testing.T) {
	f := newTestFirewall(t, nil)

	_, err := f.Classify("not-an-ip")
	assert.Equal(t, ipkey.ErrInvalidAddr, errors.Cause(err))

	_, err = f.Classify("::1")
	assert.Equal(t, ipkey.ErrNotIPv4, errors.Cause(err))
}

// A /0 rule replaces the default action for everything else.
func TestFirewallCatchAll(t *testing.T) {
	f := newTestFirewall(t, nil)
	require.NoError(t, f.AddRule("0.0.0.0/0", "LOG"))

	got, err := f.Classify("8.8.8.8")
	require.NoError(t, err)
	assert.Equal(t, Action("LOG"), got)
}

func TestFirewallAddAndRemoveRule(t *testing.T) {
	f := newTestFirewall(t, nil)

	require.NoError(t, f.AddRule("192.168.0.0/16", "INSPECT"))
	got, err := f.Classify("192.168.7.7")
	require.NoError(t, err)
	assert.Equal(t, Action("INSPECT"), got)

	// Re-adding a prefix replaces its action.
	require.NoError(t, f.AddRule("192.168.0.0/16", "QUARANTINE"))
	got, err = f.Classify("192.168.7.7")
	require.NoError(t, err)
	assert.Equal(t, Action("QUARANTINE"), got)
	assert.Equal(t, 3, f.Size())

	removed, err := f.RemoveRule("192.168.1.55/32")
	require.NoError(t, err)
	assert.True(t, removed)

	got, err = f.Classify("192.168.1.55")
	require.NoError(t, err)
	assert.Equal(t, Action("QUARANTINE"), got)

	removed, err = f.RemoveRule("10.0.0.0/8")
	require.NoError(t, err)
	assert.False(t, removed)

	_, err = f.RemoveRule("10.0.0.0")
	assert.Equal(t, ipkey.ErrInvalidPrefix, errors.Cause(err))

	assert.Equal(t, errEmptyAction, errors.Cause(f.AddRule("10.0.0.0/8", "")))
}

func TestFirewallRules(t *testing.T) {
	f := newTestFirewall(t, nil)
	require.NoError(t, f.AddRule("10.0.0.0/8", "ALLOW"))

	assert.Equal(t, []Rule{
		{Prefix: "10.0.0.0/8", Action: "ALLOW"},
		{Prefix: "192.0.0.0/8", Action: "ALLOW (Office Network)"},
		{Prefix: "192.168.1.55/32", Action: "BLOCK (Malicious Host)"},
	}, f.Rules())
}

func TestFirewallPrint(t *testing.T) {
	f := newTestFirewall(t, nil)

	buf := &bytes.Buffer{}
	require.NoError(t, f.Print(buf))
	assert.Equal(t, `|-- 11000000 -> ALLOW (Office Network)
    |-- 101010000000000100110111 -> BLOCK (Malicious Host)
`, buf.String())
}

func TestNewInvalidConfig(t *testing.T) {
	_, err := New(Config{}, nil, nil)
	assert.Equal(t, errEmptyDefaultAction, errors.Cause(err))

	_, err = New(Config{
		DefaultAction: DefaultAction,
		Rules:         []Rule{{Prefix: "300.0.0.0/8", Action: "ALLOW"}},
	}, nil, nil)
	assert.Equal(t, ipkey.ErrInvalidPrefix, errors.Cause(err))
}

func TestFirewallMetrics(t *testing.T) {
	reg := prometheus.NewPedanticRegistry()
	f := newTestFirewall(t, reg)

	for _, addr := range []string{"192.168.1.55", "192.255.0.1", "8.8.8.8", "1.1.1.1"} {
		_, err := f.Classify(addr)
		require.NoError(t, err)
	}

	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(`
		# HELP patricia_firewall_default_lookups_total Total number of addresses that matched no rule.
		# TYPE patricia_firewall_default_lookups_total counter
		patricia_firewall_default_lookups_total 2
		# HELP patricia_firewall_lookups_total Total number of classified addresses by resulting action.
		# TYPE patricia_firewall_lookups_total counter
		patricia_firewall_lookups_total{action="ALLOW (Office Network)"} 1
		patricia_firewall_lookups_total{action="BLOCK (Malicious Host)"} 1
		patricia_firewall_lookups_total{action="DEFAULT_DENY"} 2
		# HELP patricia_firewall_rules Number of rules in the firewall table.
		# TYPE patricia_firewall_rules gauge
		patricia_firewall_rules 2
	`)))

	_, err := f.RemoveRule("192.0.0.0/8")
	require.NoError(t, err)
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.rules))
}

// Lookups and rule changes may run concurrently.
func TestFirewallConcurrentAccess(t *testing.T) {
	f := newTestFirewall(t, nil)

	wg := sync.WaitGroup{}
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				_, err := f.Classify("192.168.1.55")
				assert.NoError(t, err)
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				assert.NoError(t, f.AddRule("10.0.0.0/8", "ALLOW"))
				_, err := f.RemoveRule("10.0.0.0/8")
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 2, f.Size())
}
