package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("", nil)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Target != DefaultTarget {
		t.Errorf("Target = %q, want %q", cfg.Target, DefaultTarget)
	}
	if cfg.Prop != DefaultProp {
		t.Errorf("Prop = %g, want %g", cfg.Prop, DefaultProp)
	}
	if cfg.Seed != DefaultSeed {
		t.Errorf("Seed = %d, want %d", cfg.Seed, DefaultSeed)
	}
	if cfg.Breaks != DefaultBreaks {
		t.Errorf("Breaks = %d, want %d", cfg.Breaks, DefaultBreaks)
	}
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("AMESFIT_PROP", "0.6")
	t.Setenv("AMESFIT_OUT_DIR", "/tmp/somewhere")

	cfg, err := LoadConfig("", nil)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Prop != 0.6 {
		t.Errorf("Prop = %g, want 0.6", cfg.Prop)
	}
	if cfg.OutDir != "/tmp/somewhere" {
		t.Errorf("OutDir = %q, want /tmp/somewhere", cfg.OutDir)
	}
}

func TestLoadConfigFlagsBeatEnv(t *testing.T) {
	t.Setenv("AMESFIT_SEED", "1")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Uint64("seed", 0, "")
	if err := flags.Parse([]string{"--seed", "99"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}

	cfg, err := LoadConfig("", flags)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Seed != 99 {
		t.Errorf("Seed = %d, want 99 (flag beats env)", cfg.Seed)
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "amesfit.yaml")
	if err := os.WriteFile(path, []byte("prop: 0.8\nbreaks: 5\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := LoadConfig(path, nil)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Prop != 0.8 {
		t.Errorf("Prop = %g, want 0.8", cfg.Prop)
	}
	if cfg.Breaks != 5 {
		t.Errorf("Breaks = %d, want 5", cfg.Breaks)
	}
	if ConfigFileUsed() != path {
		t.Errorf("ConfigFileUsed() = %q, want %q", ConfigFileUsed(), path)
	}
}

func TestLoadConfigValidation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"prop too large", "prop: 1.5\n"},
		{"prop zero", "prop: 0\n"},
		{"breaks too small", "breaks: 1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "amesfit.yaml")
			if err := os.WriteFile(path, []byte(tt.yaml), 0o600); err != nil {
				t.Fatalf("WriteFile: %v", err)
			}
			if _, err := LoadConfig(path, nil); err == nil {
				t.Errorf("LoadConfig() accepted %q", tt.yaml)
			}
		})
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(out, "amesfit") {
		t.Errorf("version output = %q", out)
	}
}

func TestExploreCommand(t *testing.T) {
	out, err := execute(t, "explore", "--histograms=false")
	if err != nil {
		t.Fatalf("explore: %v", err)
	}
	for _, want := range []string{"sale_price", "log_sale_price", "neighborhood", "numeric", "string"} {
		if !strings.Contains(out, want) {
			t.Errorf("explore output missing %q", want)
		}
	}
}

func TestSplitCommand(t *testing.T) {
	out, err := execute(t, "split")
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	for _, want := range []string{"train", "test", "TARGET MEAN"} {
		if !strings.Contains(out, want) {
			t.Errorf("split output missing %q", want)
		}
	}
}

func TestFitCommand(t *testing.T) {
	t.Setenv("AMESFIT_OUT_DIR", t.TempDir())

	out, err := execute(t, "fit")
	if err != nil {
		t.Fatalf("fit: %v", err)
	}
	for _, want := range []string{"(Intercept)", "gr_liv_area", "RMSE", "Held-out performance"} {
		if !strings.Contains(out, want) {
			t.Errorf("fit output missing %q", want)
		}
	}
}

func TestRecipeCommand(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("AMESFIT_OUT_DIR", dir)

	// Two balanced neighborhood levels keep the dummy encoding stable
	// across any train/test split.
	var sb strings.Builder
	sb.WriteString("Sale_Price,Gr_Liv_Area,Neighborhood\n")
	for i := 0; i < 60; i++ {
		price := 100000 + 500*i
		area := 800 + 20*i
		hood := "north"
		if i%2 == 1 {
			hood = "south"
			price += 15000
		}
		sb.WriteString(strconv.Itoa(price))
		sb.WriteByte(',')
		sb.WriteString(strconv.Itoa(area))
		sb.WriteByte(',')
		sb.WriteString(hood)
		sb.WriteByte('\n')
	}
	dataPath := filepath.Join(dir, "homes.csv")
	if err := os.WriteFile(dataPath, []byte(sb.String()), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	out, err := execute(t, "recipe", "--data", dataPath, "--pool-below", "0")
	if err != nil {
		t.Fatalf("recipe: %v", err)
	}
	for _, want := range []string{"(Intercept)", "neighborhood_south", "Held-out performance", "MAPE"} {
		if !strings.Contains(out, want) {
			t.Errorf("recipe output missing %q", want)
		}
	}
}
