package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

// clearEnv unsets every variable Load reads so the host environment does
// not leak into tests.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"GOOGLE_PROJECT_ID", "LANGUAGE_CODES", "XCFILL_SOURCE_LANG", "XCFILL_PROVIDER",
		"XCFILL_MODEL", "XCFILL_API_KEY", "XCFILL_BASE_URL", "XCFILL_TIMEOUT",
	} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	t.Run("missing file returns nil", func(t *testing.T) {
		cfg, err := LoadFile(filepath.Join(t.TempDir(), FileName))
		if err != nil {
			t.Fatalf("LoadFile error: %v", err)
		}
		if cfg != nil {
			t.Fatalf("LoadFile expected nil, got %#v", cfg)
		}
	})

	t.Run("parses all keys", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), FileName)
		writeFile(t, path, "project_id: demo\n"+
			"languages: [fr, de]\n"+
			"source_lang: en\n"+
			"provider: groq\n"+
			"model: llama\n"+
			"base_url: http://localhost:1234/v1\n"+
			"timeout: 45s\n"+
			"proxy: http://proxy:3128\n")

		cfg, err := LoadFile(path)
		if err != nil {
			t.Fatalf("LoadFile error: %v", err)
		}
		want := Config{
			ProjectID:  "demo",
			Languages:  []string{"fr", "de"},
			SourceLang: "en",
			Provider:   "groq",
			Model:      "llama",
			BaseURL:    "http://localhost:1234/v1",
			Timeout:    45 * time.Second,
			Proxy:      "http://proxy:3128",
		}
		if !reflect.DeepEqual(*cfg, want) {
			t.Fatalf("LoadFile() = %#v, want %#v", *cfg, want)
		}
	})

	t.Run("empty file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), FileName)
		writeFile(t, path, "")
		cfg, err := LoadFile(path)
		if err != nil || cfg == nil {
			t.Fatalf("LoadFile() = %v, %v", cfg, err)
		}
	})

	t.Run("rejects unknown keys", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), FileName)
		writeFile(t, path, "api_key: secret\n")
		if _, err := LoadFile(path); err == nil {
			t.Fatal("expected error for api_key in config file")
		}
	})
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(t.TempDir(), "")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.SourceLang != DefaultSourceLang {
		t.Errorf("SourceLang = %q, want %q", cfg.SourceLang, DefaultSourceLang)
	}
	if cfg.Provider != DefaultProvider {
		t.Errorf("Provider = %q, want %q", cfg.Provider, DefaultProvider)
	}
	if len(cfg.Languages) != 0 {
		t.Errorf("Languages = %v, want none", cfg.Languages)
	}
}

func TestLoad_Precedence(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, FileName), "project_id: from-yaml\nlanguages: [ja]\nmodel: yaml-model\n")
	writeFile(t, filepath.Join(dir, DotEnvFileName), "GOOGLE_PROJECT_ID=from-dotenv\nLANGUAGE_CODES= fr, de ,fr,\n")
	t.Setenv("GOOGLE_PROJECT_ID", "from-env")

	cfg, err := Load(dir, "")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.ProjectID != "from-env" {
		t.Errorf("ProjectID = %q, want from-env", cfg.ProjectID)
	}
	if !reflect.DeepEqual(cfg.Languages, []string{"fr", "de"}) {
		t.Errorf("Languages = %q, want [fr de]", cfg.Languages)
	}
	if cfg.Model != "yaml-model" {
		t.Errorf("Model = %q, want yaml-model", cfg.Model)
	}
	if os.Getenv("LANGUAGE_CODES") != "" {
		t.Error("Load must not export .env values into the process environment")
	}
}

func TestLoad_ExplicitConfigMissing(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	_, err := Load(dir, filepath.Join(dir, "custom.yaml"))
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("Load() error = %v, want not found", err)
	}
}

func TestLoad_InvalidTimeout(t *testing.T) {
	clearEnv(t)
	t.Setenv("XCFILL_TIMEOUT", "soon")
	if _, err := Load(t.TempDir(), ""); err == nil {
		t.Fatal("expected error for invalid XCFILL_TIMEOUT")
	}
}

func TestParseLanguageList(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"fr,de", []string{"fr", "de"}},
		{" fr , de ,ja ", []string{"fr", "de", "ja"}},
		{"fr,fr,de,fr", []string{"fr", "de"}},
		{",, ,", nil},
		{"", nil},
	}
	for _, tc := range cases {
		got := ParseLanguageList(tc.in)
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("ParseLanguageList(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"ok", Config{Provider: DefaultProvider, ProjectID: "p", Languages: []string{"fr"}}, ""},
		{"no languages", Config{Provider: DefaultProvider, ProjectID: "p"}, "no target languages"},
		{"no project", Config{Provider: DefaultProvider, Languages: []string{"fr"}}, "no Google Cloud project"},
		{"ai provider without project", Config{Provider: "groq", Languages: []string{"fr"}}, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("Validate() error = %v, want %q", err, tc.wantErr)
			}
		})
	}
}

func TestUnknownLanguages(t *testing.T) {
	cfg := Config{Languages: []string{"fr", "pt-BR", "klingon!", "zh-Hans"}}
	got := cfg.UnknownLanguages()
	if !reflect.DeepEqual(got, []string{"klingon!"}) {
		t.Errorf("UnknownLanguages() = %q, want [klingon!]", got)
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	in := &Config{ProjectID: "demo", Languages: []string{"fr", "de"}, Timeout: 30 * time.Second}
	if err := WriteFile(path, in); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}
	if err := WriteFile(path, in); err == nil {
		t.Fatal("WriteFile should refuse to overwrite")
	}

	got, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile error: %v", err)
	}
	if got.ProjectID != "demo" || got.Timeout != 30*time.Second || len(got.Languages) != 2 {
		t.Fatalf("reloaded config = %#v", got)
	}
}
