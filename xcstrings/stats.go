package xcstrings

// LangStats is the coverage of one language over the translatable entries
// of a catalog.
type LangStats struct {
	Lang    string
	Present int
	Missing int
}

// Percent returns the share of translatable entries that have a record.
func (s LangStats) Percent() int {
	total := s.Present + s.Missing
	if total == 0 {
		return 100
	}
	return s.Present * 100 / total
}

// Coverage counts, for each of langs, how many translatable entries carry a
// record. An entry is translatable when it has a well-formed localizations
// map and a string value in sourceLang. If langs is empty, every language
// found in the catalog except sourceLang is reported.
func (c *Catalog) Coverage(sourceLang string, langs []string) (translatable int, stats []LangStats) {
	if len(langs) == 0 {
		for _, l := range c.Languages() {
			if l != sourceLang && l != "" {
				langs = append(langs, l)
			}
		}
	}

	stats = make([]LangStats, len(langs))
	for i, l := range langs {
		stats[i].Lang = l
	}

	for _, e := range c.Entries() {
		if !e.HasLocalizations() || e.Malformed() {
			continue
		}
		if _, ok := e.Value(sourceLang); !ok {
			continue
		}
		translatable++
		for i := range stats {
			if e.HasLanguage(stats[i].Lang) {
				stats[i].Present++
			} else {
				stats[i].Missing++
			}
		}
	}
	return translatable, stats
}
