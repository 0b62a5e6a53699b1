package xcstrings

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleCatalog = `{
  "sourceLanguage" : "en",
  "strings" : {
    "greeting" : {
      "comment" : "Shown on <launch> & resume",
      "localizations" : {
        "en" : {
          "stringUnit" : {
            "state" : "translated",
            "value" : "Hi"
          }
        },
        "de" : {
          "stringUnit" : {
            "state" : "needs_review",
            "value" : "Hallo ü"
          }
        }
      }
    },
    "plain" : {
      "extractionState" : "manual"
    },
    "%lld items" : {
      "localizations" : {
        "en" : {
          "variations" : {
            "plural" : {
              "one" : {
                "stringUnit" : {
                  "state" : "translated",
                  "value" : "%lld item"
                }
              }
            }
          }
        }
      }
    },
    "empty" : {

    }
  },
  "version" : "1.0"
}
`

func TestParse_Basic(t *testing.T) {
	c, err := Parse([]byte(sampleCatalog))
	if err != nil {
		t.Fatal(err)
	}
	if c.SourceLanguage() != "en" {
		t.Errorf("sourceLanguage = %q, want en", c.SourceLanguage())
	}
	if c.Version() != "1.0" {
		t.Errorf("version = %q, want 1.0", c.Version())
	}

	keys := c.Keys()
	want := []string{"greeting", "plain", "%lld items", "empty"}
	if strings.Join(keys, "|") != strings.Join(want, "|") {
		t.Fatalf("keys = %v, want %v", keys, want)
	}

	e := c.Entry("greeting")
	if v, ok := e.Value("en"); !ok || v != "Hi" {
		t.Errorf("greeting/en = %q, %v", v, ok)
	}
	if v, _ := e.Value("de"); v != "Hallo ü" {
		t.Errorf("greeting/de = %q", v)
	}
	if s, _ := e.State("de"); s != "needs_review" {
		t.Errorf("greeting/de state = %q", s)
	}
	if got := strings.Join(e.Languages(), ","); got != "en,de" {
		t.Errorf("languages = %q, want en,de", got)
	}
	if c.Entry("missing") != nil {
		t.Error("Entry(missing) should be nil")
	}
}

func TestEntry_PluralHasNoValue(t *testing.T) {
	c, err := Parse([]byte(sampleCatalog))
	if err != nil {
		t.Fatal(err)
	}
	e := c.Entry("%lld items")
	if !e.HasLanguage("en") {
		t.Fatal("expected en record")
	}
	if _, ok := e.Value("en"); ok {
		t.Error("plural record should not expose a stringUnit value")
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"invalid json", `{"strings": {`},
		{"trailing garbage", `{"strings": {}} x`},
		{"not an object", `["strings"]`},
		{"no strings", `{"version": "1.0"}`},
		{"strings not object", `{"strings": []}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.data))
			var fe *FormatError
			if !errors.As(err, &fe) {
				t.Fatalf("Parse() error = %v, want *FormatError", err)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.xcstrings")
	_, err := Load(path)
	var fa *FileAccessError
	if !errors.As(err, &fa) {
		t.Fatalf("Load() error = %v, want *FileAccessError", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error should wrap os.ErrNotExist: %v", err)
	}
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Error("Load must not create the file")
	}
}

func TestLoad_FormatErrorCarriesPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.xcstrings")
	if err := os.WriteFile(path, []byte("not json"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path)
	var fe *FormatError
	if !errors.As(err, &fe) {
		t.Fatalf("Load() error = %v, want *FormatError", err)
	}
	if fe.Path != path {
		t.Errorf("FormatError.Path = %q, want %q", fe.Path, path)
	}
}

func TestMarshal_RoundTripIsStable(t *testing.T) {
	c, err := Parse([]byte(sampleCatalog))
	if err != nil {
		t.Fatal(err)
	}
	out, err := c.Marshal()
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != sampleCatalog {
		t.Fatalf("round trip changed content:\n%s", out)
	}
}

func TestMarshal_NormalizesCompactInput(t *testing.T) {
	c, err := Parse([]byte(`{"strings":{"a":{"localizations":{"en":{"stringUnit":{"state":"translated","value":"A"}}}}},"version":"1.0"}`))
	if err != nil {
		t.Fatal(err)
	}
	first, _ := c.Marshal()

	again, err := Parse(first)
	if err != nil {
		t.Fatal(err)
	}
	second, _ := again.Marshal()
	if string(first) != string(second) {
		t.Fatalf("second marshal differs:\n%s\n---\n%s", first, second)
	}
	if !strings.Contains(string(first), `"value" : "A"`) {
		t.Errorf("unexpected layout:\n%s", first)
	}
}

func TestAddLocalization(t *testing.T) {
	c, err := Parse([]byte(sampleCatalog))
	if err != nil {
		t.Fatal(err)
	}
	e := c.Entry("greeting")

	if e.AddLocalization("de", StateTranslated, "Servus") {
		t.Error("AddLocalization must not replace an existing record")
	}
	if v, _ := e.Value("de"); v != "Hallo ü" {
		t.Errorf("existing record changed: %q", v)
	}

	if !e.AddLocalization("ja", StateTranslated, "こんにちは <b>") {
		t.Fatal("AddLocalization(ja) = false")
	}
	if got := strings.Join(e.Languages(), ","); got != "en,de,ja" {
		t.Errorf("languages = %q, want en,de,ja", got)
	}

	out, _ := c.Marshal()
	s := string(out)
	if !strings.Contains(s, `"value" : "こんにちは <b>"`) {
		t.Errorf("new value should be written unescaped:\n%s", s)
	}
	// Untouched values keep their original escapes.
	if !strings.Contains(s, `"value" : "Hallo ü"`) {
		t.Errorf("existing value bytes changed:\n%s", s)
	}
	if strings.Index(s, `"de" : {`) > strings.Index(s, `"ja" : {`) {
		t.Error("new record should be appended after existing ones")
	}
}

func TestMalformed(t *testing.T) {
	data := `{"strings":{
		"blank":{"localizations":{"":{"stringUnit":{"state":"new","value":"x"}},"en":{"stringUnit":{"state":"translated","value":"Hello"}}}},
		"null":{"localizations":{"en":null}},
		"scalar":{"localizations":"oops"},
		"ok":{"localizations":{"en":{"stringUnit":{"state":"translated","value":"Hello"}}}},
		"none":{}
	}}`
	c, err := Parse([]byte(data))
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]bool{"blank": true, "null": true, "scalar": true, "ok": false, "none": false}
	for key, malformed := range want {
		if got := c.Entry(key).Malformed(); got != malformed {
			t.Errorf("%s: Malformed() = %v, want %v", key, got, malformed)
		}
	}
	if c.Entry("scalar").AddLocalization("fr", StateTranslated, "x") {
		t.Error("AddLocalization on non-object localizations should fail")
	}
}

func TestWriteFile_PreservesMode(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Localizable.xcstrings")
	if err := os.WriteFile(path, []byte(sampleCatalog), 0600); err != nil {
		t.Fatal(err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	c.Entry("greeting").AddLocalization("fr", StateTranslated, "Salut")
	if err := c.WriteFile(path); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("mode = %o, want 600", info.Mode().Perm())
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("temp files left behind: %v", entries)
	}

	reloaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := reloaded.Entry("greeting").Value("fr"); v != "Salut" {
		t.Errorf("fr = %q, want Salut", v)
	}
}

func TestLanguages(t *testing.T) {
	c, err := Parse([]byte(sampleCatalog))
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Join(c.Languages(), ","); got != "en,de" {
		t.Errorf("Languages() = %q, want en,de", got)
	}
}
