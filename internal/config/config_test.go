package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	cfg := Config{Database: DatabaseConfig{Driver: DriverMemory}}
	cfg.ApplyDefaults()
	return cfg
}

func TestApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()

	if cfg.HTTP.Port != 3000 {
		t.Errorf("expected port 3000, got %d", cfg.HTTP.Port)
	}
	if cfg.Database.Driver != DriverRedis {
		t.Errorf("expected redis driver, got %q", cfg.Database.Driver)
	}
	if cfg.Search.DefaultTopK != 5 || cfg.Search.MaxTopK != 50 {
		t.Errorf("unexpected top_k defaults: %d/%d", cfg.Search.DefaultTopK, cfg.Search.MaxTopK)
	}
	if cfg.Search.VectorWeight != 0.6 || cfg.Search.KeywordWeight != 0.4 {
		t.Errorf("unexpected weights: %v/%v", cfg.Search.VectorWeight, cfg.Search.KeywordWeight)
	}
	if cfg.Search.CandidateMultiplier != 3 {
		t.Errorf("expected multiplier 3, got %d", cfg.Search.CandidateMultiplier)
	}
	if cfg.Search.AdapterTimeout() != 5*time.Second {
		t.Errorf("expected 5s adapter timeout, got %v", cfg.Search.AdapterTimeout())
	}
	if cfg.Ingest.BatchSize != 10 || cfg.Ingest.Workers != 4 {
		t.Errorf("unexpected ingest defaults: %+v", cfg.Ingest)
	}
	if cfg.Index.Name != "idx:incidents" || cfg.Index.KeyPrefix != "incident:" {
		t.Errorf("unexpected index defaults: %+v", cfg.Index)
	}
}

func TestApplyDefaults_KeepsExplicitWeights(t *testing.T) {
	cfg := Config{Search: SearchConfig{VectorWeight: 1}}
	cfg.ApplyDefaults()
	if cfg.Search.VectorWeight != 1 || cfg.Search.KeywordWeight != 0 {
		t.Errorf("explicit weights overwritten: %+v", cfg.Search)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid memory", func(*Config) {}, ""},
		{"redis without addrs", func(c *Config) { c.Database.Driver = DriverRedis }, "database.url or database.addrs is required"},
		{"redis with addrs", func(c *Config) {
			c.Database.Driver = DriverRedis
			c.Database.Addrs = []string{"localhost:6379"}
		}, ""},
		{"unknown driver", func(c *Config) { c.Database.Driver = "postgres" }, "database.driver must be"},
		{"bad port", func(c *Config) { c.HTTP.Port = 70000 }, "http.port"},
		{"vector weight above 1", func(c *Config) { c.Search.VectorWeight = 1.5 }, "search.vector_weight"},
		{"negative keyword weight", func(c *Config) { c.Search.KeywordWeight = -0.1 }, "search.keyword_weight"},
		{"default above max", func(c *Config) { c.Search.DefaultTopK = 60 }, "exceeds search.max_top_k"},
		{"temperature", func(c *Config) { c.Chat.Temperature = 3 }, "chat.temperature"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestWeightsSumWarning(t *testing.T) {
	cfg := validConfig()
	if msg := cfg.WeightsSumWarning(); msg != "" {
		t.Errorf("expected no warning for 0.6/0.4, got %q", msg)
	}

	cfg.Search.VectorWeight = 0.9
	cfg.Search.KeywordWeight = 0.9
	if msg := cfg.WeightsSumWarning(); !strings.Contains(msg, "1.800") {
		t.Errorf("expected warning mentioning the sum, got %q", msg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("weights not summing to 1 must still validate: %v", err)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("INCIDENTRAG_TEST_KEY", "sk-test")

	got := string(expandEnvVars([]byte("a: ${INCIDENTRAG_TEST_KEY}\nb: ${INCIDENTRAG_UNSET:-fallback}\nc: ${INCIDENTRAG_UNSET}")))
	want := "a: sk-test\nb: fallback\nc: "
	if got != want {
		t.Errorf("expandEnvVars:\ngot:  %q\nwant: %q", got, want)
	}
}

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "test.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFile(t *testing.T) {
	t.Setenv("INCIDENTRAG_TEST_OPENAI", "sk-abc")
	path := writeConfig(t, t.TempDir(), `
database:
  driver: memory
embedding:
  api_key: ${INCIDENTRAG_TEST_OPENAI}
  dimensions: 64
search:
  vector_weight: 0.7
  keyword_weight: 0.3
`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Embedding.APIKey != "sk-abc" {
		t.Errorf("expected expanded api key, got %q", cfg.Embedding.APIKey)
	}
	if cfg.Embedding.Dimensions != 64 {
		t.Errorf("expected 64 dimensions, got %d", cfg.Embedding.Dimensions)
	}
	if cfg.Search.VectorWeight != 0.7 || cfg.Search.KeywordWeight != 0.3 {
		t.Errorf("unexpected weights: %+v", cfg.Search)
	}
	if cfg.HTTP.Port != 3000 {
		t.Errorf("defaults not applied, port=%d", cfg.HTTP.Port)
	}
}

func TestLoadFile_Invalid(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "database:\n  driver: redis\n")
	if _, err := LoadFile(path); err == nil || !strings.Contains(err.Error(), "invalid config") {
		t.Fatalf("expected invalid config error, got %v", err)
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoad_ShippedProfiles(t *testing.T) {
	for _, env := range []string{"local", "prod"} {
		t.Run(env, func(t *testing.T) {
			t.Setenv("REDIS_ADDR", "localhost:6379")
			if _, err := LoadFile(FindConfigPath(env)); err != nil {
				t.Fatalf("config/%s.yaml: %v", env, err)
			}
		})
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("ENV", "")
	if got := GetEnv(); got != "local" {
		t.Errorf("expected local, got %q", got)
	}
	t.Setenv("ENV", "prod")
	if got := GetEnv(); got != "prod" {
		t.Errorf("expected prod, got %q", got)
	}
}

func TestWatch_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "database:\n  driver: memory\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	armed := make(chan struct{})
	changes := make(chan Config, 4)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, nil, func(c Config) {
			select {
			case changes <- c:
			default:
			}
		}, WithDebounce(50*time.Millisecond), WithArmed(func() { close(armed) }))
	}()

	select {
	case <-armed:
	case <-time.After(5 * time.Second):
		t.Fatal("watcher never armed")
	}

	body := "database:\n  driver: memory\nsearch:\n  vector_weight: 0.2\n  keyword_weight: 0.8\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	select {
	case cfg := <-changes:
		if cfg.Search.VectorWeight != 0.2 || cfg.Search.KeywordWeight != 0.8 {
			t.Fatalf("unexpected reloaded weights: %+v", cfg.Search)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
	}

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Watch returned %v", err)
	}
}

func TestWatch_DebounceCollapsesBurst(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "database:\n  driver: memory\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	armed := make(chan struct{})
	changes := make(chan Config, 8)
	go func() {
		_ = Watch(ctx, path, nil, func(c Config) { changes <- c },
			WithDebounce(300*time.Millisecond), WithArmed(func() { close(armed) }))
	}()
	<-armed

	// Writes closer together than the debounce window produce one reload with the last content.
	for _, w := range []string{"0.1", "0.2", "0.3"} {
		body := "database:\n  driver: memory\nsearch:\n  vector_weight: " + w + "\n  keyword_weight: 0.7\n"
		if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
			t.Fatalf("write: %v", err)
		}
		time.Sleep(20 * time.Millisecond)
	}

	select {
	case cfg := <-changes:
		if cfg.Search.VectorWeight != 0.3 {
			t.Fatalf("reloaded vector weight %v, want the last write", cfg.Search.VectorWeight)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
	}

	select {
	case cfg := <-changes:
		t.Errorf("burst produced a second reload: %+v", cfg.Search)
	case <-time.After(600 * time.Millisecond):
	}
}

func TestValidate_RedisURLWithoutAddrs(t *testing.T) {
	c := Config{Database: DatabaseConfig{Driver: DriverRedis, URL: "redis://localhost:6379/0"}}
	c.ApplyDefaults()
	if err := c.Validate(); err != nil {
		t.Errorf("a redis url alone should be enough, got %v", err)
	}
}
