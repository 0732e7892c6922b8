package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	t.Run("defaults without a config file", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}
		if cfg.PDFToText != "pdftotext" {
			t.Errorf("PDFToText = %q, want pdftotext", cfg.PDFToText)
		}
		if cfg.Estimator.URL != DefaultEstimatorURL {
			t.Errorf("Estimator.URL = %q, want default", cfg.Estimator.URL)
		}
		if cfg.Estimator.RequestsPerMinute != 6 {
			t.Errorf("RequestsPerMinute = %d, want 6", cfg.Estimator.RequestsPerMinute)
		}
	})

	t.Run("reads values and producers", func(t *testing.T) {
		path := writeConfig(t, `
output_dir = "/out"
inbox = "/in"
stamp_template = "/templates/stamp.pdf"

[estimator]
requests_per_minute = 12
timeout = "10s"

[[producer]]
name = "main"
agent_name = "Pat Agent"
address = "1 Main St"
city_state_zip = "Houston, TX 77002"
`)
		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}
		if cfg.OutputDir != "/out" || cfg.Inbox != "/in" {
			t.Errorf("paths = %q/%q, want /out//in", cfg.OutputDir, cfg.Inbox)
		}
		if cfg.Estimator.RequestsPerMinute != 12 {
			t.Errorf("RequestsPerMinute = %d, want 12", cfg.Estimator.RequestsPerMinute)
		}
		if len(cfg.Producers) != 1 || cfg.Producers[0].AgentName != "Pat Agent" {
			t.Errorf("Producers = %+v, want one Pat Agent entry", cfg.Producers)
		}
	})

	t.Run("duplicate producer names rejected", func(t *testing.T) {
		path := writeConfig(t, `
[[producer]]
name = "main"

[[producer]]
name = "main"
`)
		if _, err := Load(path); !errors.Is(err, ErrDuplicateProducer) {
			t.Fatalf("expected ErrDuplicateProducer, got %v", err)
		}
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv(EnvSurplusOutputDir, "/env-out")
		cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}
		if cfg.OutputDir != "/env-out" {
			t.Errorf("OutputDir = %q, want /env-out", cfg.OutputDir)
		}
	})
}

func TestProducerLookup(t *testing.T) {
	cfg := &Config{Producers: []Producer{
		{Name: "main", AgentName: "Pat Agent"},
		{Name: "alt", AgentName: "Sam Agent"},
	}}

	t.Run("by name", func(t *testing.T) {
		producer, err := cfg.Producer("alt")
		if err != nil {
			t.Fatalf("Producer returned error: %v", err)
		}
		if producer.AgentName != "Sam Agent" {
			t.Errorf("AgentName = %q, want Sam Agent", producer.AgentName)
		}
	})

	t.Run("unknown name", func(t *testing.T) {
		if _, err := cfg.Producer("nobody"); !errors.Is(err, ErrUnknownProducer) {
			t.Fatalf("expected ErrUnknownProducer, got %v", err)
		}
	})

	t.Run("empty name requires a single template", func(t *testing.T) {
		if _, err := cfg.Producer(""); !errors.Is(err, ErrUnknownProducer) {
			t.Fatalf("expected ErrUnknownProducer, got %v", err)
		}
		single := &Config{Producers: []Producer{{Name: "only", AgentName: "Solo"}}}
		producer, err := single.Producer("")
		if err != nil {
			t.Fatalf("Producer returned error: %v", err)
		}
		if producer.Name != "only" {
			t.Errorf("Name = %q, want only", producer.Name)
		}
	})
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := &Config{
		OutputDir: "/out",
		Producers: []Producer{{Name: "main", AgentName: "Pat Agent"}},
	}
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if loaded.OutputDir != "/out" {
		t.Errorf("OutputDir = %q, want /out", loaded.OutputDir)
	}
	if len(loaded.Producers) != 1 || loaded.Producers[0].Name != "main" {
		t.Errorf("Producers = %+v, want the saved template", loaded.Producers)
	}
}
