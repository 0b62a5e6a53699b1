package xcstrings

import "testing"

func TestCoverage(t *testing.T) {
	c, err := Parse([]byte(sampleCatalog))
	if err != nil {
		t.Fatal(err)
	}

	// Only "greeting" has an en stringUnit value.
	n, stats := c.Coverage("en", []string{"de", "fr"})
	if n != 1 {
		t.Fatalf("translatable = %d, want 1", n)
	}
	if stats[0] != (LangStats{Lang: "de", Present: 1}) {
		t.Errorf("de = %+v", stats[0])
	}
	if stats[1] != (LangStats{Lang: "fr", Missing: 1}) {
		t.Errorf("fr = %+v", stats[1])
	}
	if stats[0].Percent() != 100 || stats[1].Percent() != 0 {
		t.Errorf("percent = %d, %d", stats[0].Percent(), stats[1].Percent())
	}
}

func TestCoverage_DefaultsToCatalogLanguages(t *testing.T) {
	c, err := Parse([]byte(sampleCatalog))
	if err != nil {
		t.Fatal(err)
	}
	_, stats := c.Coverage("en", nil)
	if len(stats) != 1 || stats[0].Lang != "de" {
		t.Fatalf("stats = %+v, want only de", stats)
	}
}
