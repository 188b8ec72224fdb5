package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	filename := filepath.Join(t.TempDir(), "wrangle.toml")
	if err := os.WriteFile(filename, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return filename
}

func TestLoadConfig(t *testing.T) {
	filename := writeConfig(t, `
input = "desc/toy.yaml"
out = "gen"
package = "toyinfo"
enums = "gen/enums.yaml"
verbose = true
`)

	got, err := loadConfig(filename, true)
	if err != nil {
		t.Fatalf("loadConfig(): %v", err)
	}

	want := &Config{
		Input:   filepath.Join(filepath.Dir(filename), "desc/toy.yaml"),
		Out:     "gen",
		Package: "toyinfo",
		Enums:   "gen/enums.yaml",
		Verbose: true,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("loadConfig(): (-want, +got)\n%s", diff)
	}
}

func TestLoadConfigMissing(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "wrangle.toml")

	got, err := loadConfig(filename, false)
	if err != nil {
		t.Fatalf("loadConfig(): %v", err)
	}
	if diff := cmp.Diff(&Config{Out: "."}, got); diff != "" {
		t.Fatalf("loadConfig(): (-want, +got)\n%s", diff)
	}

	if _, err := loadConfig(filename, true); err == nil {
		t.Fatalf("loadConfig(): got no error for a missing required file")
	}
}

func TestLoadConfigUnknownSetting(t *testing.T) {
	filename := writeConfig(t, "input = \"toy.yaml\"\noutput = \"gen\"\n")

	_, err := loadConfig(filename, true)
	if err == nil || !strings.Contains(err.Error(), "unknown settings output") {
		t.Fatalf("loadConfig(): got %v, want an unknown setting error", err)
	}
}

func TestConfigApplyEnv(t *testing.T) {
	t.Setenv("WRANGLE_OUT", "elsewhere")
	t.Setenv("WRANGLE_PACKAGE", "")
	t.Setenv("WRANGLE_VERBOSE", "1")

	cfg := &Config{Out: ".", Package: "toyinfo"}
	cfg.applyEnv()

	want := &Config{Out: "elsewhere", Package: "toyinfo", Verbose: true}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("applyEnv(): (-want, +got)\n%s", diff)
	}
}

func TestConfigOutputNames(t *testing.T) {
	cfg := &Config{Out: "gen"}
	if got := cfg.packageName("X86-64"); got != "x8664" {
		t.Errorf("packageName(): got %q, want x8664", got)
	}
	if got := cfg.outputFile("Toy"); got != filepath.Join("gen", "toy_instrinfo.go") {
		t.Errorf("outputFile(): got %q", got)
	}

	cfg.Package = "toyinfo"
	if got := cfg.packageName("Toy"); got != "toyinfo" {
		t.Errorf("packageName(): got %q, want toyinfo", got)
	}
}
