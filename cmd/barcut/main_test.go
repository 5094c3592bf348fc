package main

import (
	"bytes"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/BarCut/internal/model"
	"github.com/piwi3910/BarCut/internal/project"
)

func TestParseTargetArg(t *testing.T) {
	tests := []struct {
		in      string
		length  int
		pct     int
		wantErr bool
	}{
		{"1090=50", 1090, 50, false},
		{"1060 = 30%", 1060, 30, false},
		{"1120", 1120, 0, false},
		{"abc=5", 0, 0, true},
		{"1090=x", 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			length, pct, err := parseTargetArg(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.length, length)
			assert.Equal(t, tt.pct, pct)
		})
	}
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"A", "B 2"}, splitList(" A, ,B 2,"))
	assert.Nil(t, splitList(""))
}

func TestSettingsFlags_OnlyGivenFlagsApply(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	sf := addSettingsFlags(fs)
	require.NoError(t, fs.Parse([]string{"-kerf", "2", "-offcut", "0", "-algorithm", "genetic"}))

	settings := model.DefaultSettings()
	settings.TrimFront = 25
	require.NoError(t, sf.apply(fs, &settings))

	assert.Equal(t, 2, settings.KerfWidth)
	assert.False(t, settings.OffcutEnabled)
	assert.Equal(t, model.AlgorithmGenetic, settings.Algorithm)
	assert.Equal(t, 25, settings.TrimFront, "unset flags keep the project value")
}

func TestSettingsFlags_Invalid(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	sf := addSettingsFlags(fs)
	require.NoError(t, fs.Parse([]string{"-algorithm", "best"}))
	settings := model.DefaultSettings()
	assert.Error(t, sf.apply(fs, &settings))

	fs = flag.NewFlagSet("test", flag.ContinueOnError)
	sf = addSettingsFlags(fs)
	require.NoError(t, fs.Parse([]string{"-max-unique", "0"}))
	assert.Error(t, sf.apply(fs, &settings))
}

func TestRun_EditAndOptimize(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	cfg := model.DefaultAppConfig()
	cfg.RunLogPath = filepath.Join(dir, "runs.db")
	require.NoError(t, project.SaveAppConfig(cfgPath, cfg))

	projPath := filepath.Join(dir, "rack.barcut")
	base := []string{"-config", cfgPath, "-project", projPath}
	var out bytes.Buffer

	require.NoError(t, run(append([]string{"inventory"}, append(base, "add", "6000", "5")...), &out))
	require.NoError(t, run(append([]string{"targets"}, append(base, "remove", "1060", "1120")...), &out))
	require.NoError(t, run(append([]string{"targets"}, append(base, "set", "1090=100")...), &out))

	p, err := project.Load(projPath)
	require.NoError(t, err)
	assert.Equal(t, 5, p.Inventory.Count())
	assert.Equal(t, []int{1090}, p.Targets.Lengths())

	csvPath := filepath.Join(dir, "cut.csv")
	out.Reset()
	require.NoError(t, run(append([]string{"optimize"}, append(base, "-csv", csvPath, "-save")...), &out))
	assert.Contains(t, out.String(), "Bars used:")
	assert.FileExists(t, csvPath)

	p, err = project.Load(projPath)
	require.NoError(t, err)
	require.NotNil(t, p.Result)
	assert.Len(t, p.Result.Bars, 5)

	out.Reset()
	require.NoError(t, run([]string{"history", "-config", cfgPath}, &out))
	assert.Contains(t, out.String(), "rack")
}

func TestRun_FailedEditRollsBack(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.json")
	projPath := filepath.Join(dir, "rack.barcut")
	base := []string{"-config", cfgPath, "-project", projPath}
	var out bytes.Buffer

	require.NoError(t, run(append([]string{"targets"}, append(base, "set", "1000=70")...), &out))
	err := run(append([]string{"targets"}, append(base, "set", "900=30", "bad")...), &out)
	require.Error(t, err)

	p, err := project.Load(projPath)
	require.NoError(t, err)
	assert.False(t, p.Targets.Has(900), "partial edit must not be saved")
}

func TestRun_UnknownCommand(t *testing.T) {
	var out bytes.Buffer
	assert.Error(t, run([]string{"frobnicate"}, &out))
	assert.Contains(t, out.String(), "Usage: barcut")

	out.Reset()
	require.NoError(t, run(nil, &out))
	assert.Contains(t, out.String(), "optimize")
}

func TestRun_DemandFromCSV(t *testing.T) {
	dir := t.TempDir()
	demandPath := filepath.Join(dir, "demand.csv")
	require.NoError(t, os.WriteFile(demandPath, []byte("Paket;3000;2000\nA;2;3\nB;1;0\n"), 0644))
	cfgPath := filepath.Join(dir, "config.json")

	var out bytes.Buffer
	require.NoError(t, run([]string{"demand", "-config", cfgPath, "-file", demandPath, "-list"}, &out))
	assert.Equal(t, "A\nB\n", out.String())

	out.Reset()
	require.NoError(t, run([]string{"demand", "-config", cfgPath, "-file", demandPath, "-packages", "A",
		"-kerf", "4", "-trim-front", "0", "-trim-back", "0", "-stock", "6000"}, &out))
	assert.Regexp(t, `Bars used:\s+3\n`, out.String())
	assert.Contains(t, out.String(), "Purchase estimate: 5 pieces")
}
