package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LucianBellevue/ba-website/internal/rates"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSubcommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range newRootCmd().Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"estimate", "export", "validate", "wizard", "version"} {
		assert.True(t, names[want], want)
	}
}

func TestEstimateCommand(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "final expense",
			args: []string{"--product", "final_expense", "--age", "65", "--gender", "female", "--coverage", "10k"},
			want: []string{"$36 - $46 per month", "±12%"},
		},
		{
			name: "referral",
			args: []string{"--product", "final-expense", "--age", "70", "--gender", "f", "--coverage", "35k"},
			want: []string{"Agent review required", "$25,000"},
		},
		{
			name: "whole life with health",
			args: []string{"--product", "whole_life", "--age", "62", "--gender", "female", "--coverage", "100k",
				"--height-ft", "5", "--height-in", "6", "--weight", "140"},
			want: []string{"$254 - $323 per month", "health class preferred", "interpolated"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, append([]string{"estimate"}, tt.args...)...)
			require.NoError(t, err)
			for _, w := range tt.want {
				assert.Contains(t, out, w)
			}
		})
	}
}

func TestEstimateCommandJSON(t *testing.T) {
	out, err := execute(t, "estimate", "--product", "term_life", "--age", "35", "--gender", "male", "--coverage", "500k", "--json")
	require.NoError(t, err)

	var got estimateOut
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "62", got.Low)
	assert.Equal(t, "76", got.High)
	assert.Equal(t, rates.ShippedVersion, got.RatesVersion)
}

func TestEstimateCommandErrors(t *testing.T) {
	_, err := execute(t, "estimate", "--age", "65")
	assert.Error(t, err, "product is required")

	_, err = execute(t, "estimate", "--product", "term_life", "--age", "90", "--gender", "male", "--coverage", "100k")
	assert.ErrorContains(t, err, "age")
}

func TestExportValidateRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rates.yaml")

	_, err := execute(t, "export", "--out", path)
	require.NoError(t, err)

	out, err := execute(t, "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "ok, version "+rates.ShippedVersion)

	out, err = execute(t, "--rates", path, "estimate", "--product", "final_expense", "--age", "65", "--gender", "female", "--coverage", "10k")
	require.NoError(t, err)
	assert.Contains(t, out, "$36 - $46")
}

func TestExportToStdout(t *testing.T) {
	out, err := execute(t, "export")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "version: "), out[:min(len(out), 40)])
}

func TestValidateRejectsBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("version: x\ntables: [{product: nope}]\n"), 0o600))

	_, err := execute(t, "validate", path)
	assert.ErrorContains(t, err, path)
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "ratesctl dev")
	assert.Contains(t, out, "rates "+rates.ShippedVersion)
}
