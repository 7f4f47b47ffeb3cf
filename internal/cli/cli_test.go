package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/webring/pkg/camera"
	"github.com/matzehuels/webring/pkg/errors"
	"github.com/matzehuels/webring/pkg/sim"
	"github.com/matzehuels/webring/pkg/source"
)

func TestCacheDir(t *testing.T) {
	// Clear XDG_CACHE_HOME to test default behavior
	oldXdg := os.Getenv("XDG_CACHE_HOME")
	os.Unsetenv("XDG_CACHE_HOME")
	defer func() {
		if oldXdg != "" {
			os.Setenv("XDG_CACHE_HOME", oldXdg)
		}
	}()

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	if dir == "" {
		t.Error("cacheDir() returned empty string")
	}

	home, _ := os.UserHomeDir()
	if !strings.HasPrefix(dir, home) {
		t.Errorf("cacheDir() = %q, should be under home %q", dir, home)
	}

	if !strings.HasSuffix(dir, appName) {
		t.Errorf("cacheDir() = %q, should end with %q", dir, appName)
	}

	if !strings.Contains(dir, ".cache") {
		t.Errorf("cacheDir() = %q, should contain '.cache'", dir)
	}
}

func TestCacheDirXDG(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-test")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if dir != filepath.Join("/tmp/xdg-test", appName) {
		t.Errorf("cacheDir() = %q, should honor XDG_CACHE_HOME", dir)
	}
}

func TestRootCommandSubcommands(t *testing.T) {
	c := New(os.Stderr, log.InfoLevel)
	root := c.RootCommand()

	want := []string{"layout", "view", "export", "serve", "cache", "completion"}
	for _, name := range want {
		found := false
		for _, sub := range root.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("root command missing subcommand %q", name)
		}
	}
}

func TestLoadDirectorySortValidation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ring.toml")
	data := `[[site]]
name = "Ada"
link = "https://ada.example"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	c := New(os.Stderr, log.InfoLevel)

	_, err := c.loadDirectory(context.Background(), directoryFlags{sortKey: "bogus"}, []string{path})
	if !errors.Is(err, errors.ErrCodeInvalidSort) {
		t.Errorf("error = %v, want code %v", err, errors.ErrCodeInvalidSort)
	}

	doc, err := c.loadDirectory(context.Background(), directoryFlags{sortKey: "name"}, []string{path})
	if err != nil {
		t.Fatalf("loadDirectory() error = %v", err)
	}
	if len(doc.Sites) != 1 {
		t.Errorf("len(Sites) = %d, want 1", len(doc.Sites))
	}
}

func TestLoadDirectoryNoSource(t *testing.T) {
	c := New(os.Stderr, log.InfoLevel)
	_, err := c.loadDirectory(context.Background(), directoryFlags{}, nil)
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("error = %v, want code %v", err, errors.ErrCodeInvalidInput)
	}
}

func TestNewRandDeterministic(t *testing.T) {
	a, b := newRand(42), newRand(42)
	for i := 0; i < 10; i++ {
		if a.Float64() != b.Float64() {
			t.Fatal("same seed should yield the same sequence")
		}
	}

	c, d := newRand(0), newRand(0)
	same := true
	for i := 0; i < 10; i++ {
		if c.Float64() != d.Float64() {
			same = false
			break
		}
	}
	if same {
		t.Error("seed 0 should pick a fresh seed each call")
	}
}

func TestSnapshotPath(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"ring.toml"}, "ring.ring.json"},
		{[]string{"dirs/cs.json"}, "dirs/cs.ring.json"},
		{nil, "ring.json"},
	}
	for _, tt := range tests {
		if got := snapshotPath(tt.args); got != tt.want {
			t.Errorf("snapshotPath(%v) = %q, want %q", tt.args, got, tt.want)
		}
	}
}

func TestLayoutOptionsAppliesDirectoryOverrides(t *testing.T) {
	const directory = `
title = "Overridden Ring"

[forces]
link_distance = 90.0

[camera]
min_scale = 0.5
max_scale = 4.0
frame_duration_ms = 250

[[site]]
name = "alpha"
link = "https://alpha.example"
`
	doc, err := source.Parse([]byte(directory), ".toml")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	c := New(os.Stderr, log.InfoLevel)
	opts := c.layoutOptions(doc, 800, 600, 1)

	if opts.Sim.LinkDistance != 90 {
		t.Errorf("Sim.LinkDistance = %v, want 90", opts.Sim.LinkDistance)
	}
	if opts.Camera.MinScale != 0.5 || opts.Camera.MaxScale != 4.0 {
		t.Errorf("Camera scale bounds = [%v, %v], want [0.5, 4]", opts.Camera.MinScale, opts.Camera.MaxScale)
	}
	if opts.Camera.FrameDuration != 250*time.Millisecond {
		t.Errorf("Camera.FrameDuration = %v, want 250ms", opts.Camera.FrameDuration)
	}
	if opts.Sim.AlphaDecay != sim.DefaultConfig().AlphaDecay {
		t.Errorf("AlphaDecay = %v, want the default kept", opts.Sim.AlphaDecay)
	}
}

func TestLayoutOptionsDefaultsWithoutOverrides(t *testing.T) {
	doc := &source.Document{}

	c := New(os.Stderr, log.InfoLevel)
	opts := c.layoutOptions(doc, 800, 600, 1)

	if opts.Camera != camera.DefaultConfig() {
		t.Errorf("Camera = %+v, want defaults", opts.Camera)
	}
	if opts.Sim != sim.DefaultConfig() {
		t.Errorf("Sim = %+v, want defaults", opts.Sim)
	}
}
