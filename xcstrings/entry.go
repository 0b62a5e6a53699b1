package xcstrings

// Entry is one string key of a catalog.
type Entry struct {
	Key string
	n   *node
}

func (e *Entry) localizations() *node {
	return e.n.get("localizations")
}

// HasLocalizations reports whether the entry carries a "localizations" member.
func (e *Entry) HasLocalizations() bool {
	return e.n.has("localizations")
}

// Malformed reports whether the localizations member cannot be processed:
// it is not an object, it has the empty "no language" key, or one of its
// records is null.
func (e *Entry) Malformed() bool {
	locs := e.localizations()
	if !e.HasLocalizations() {
		return false
	}
	if !locs.isObject() {
		return true
	}
	for _, k := range locs.keys {
		if k == "" || locs.vals[k].isNull() {
			return true
		}
	}
	return false
}

// Languages returns the localization codes present on the entry, in
// document order.
func (e *Entry) Languages() []string {
	locs := e.localizations()
	if !locs.isObject() {
		return nil
	}
	langs := make([]string, len(locs.keys))
	copy(langs, locs.keys)
	return langs
}

// HasLanguage reports whether a localization record exists for lang.
func (e *Entry) HasLanguage(lang string) bool {
	return e.localizations().has(lang)
}

// Value returns stringUnit.value for lang. ok is false when the record is
// missing or has no string value (e.g. plural variations).
func (e *Entry) Value(lang string) (value string, ok bool) {
	return e.localizations().get(lang).get("stringUnit").get("value").str()
}

// State returns stringUnit.state for lang.
func (e *Entry) State(lang string) (string, bool) {
	return e.localizations().get(lang).get("stringUnit").get("state").str()
}

// AddLocalization appends a new record for lang. Existing records are never
// replaced: it returns false if lang is already present or the entry's
// localizations member is not an object.
func (e *Entry) AddLocalization(lang, state, value string) bool {
	if !e.n.isObject() {
		return false
	}
	locs := e.localizations()
	if locs == nil {
		locs = newObject()
		e.n.set("localizations", locs)
	}
	if !locs.isObject() || locs.has(lang) {
		return false
	}

	unit := newObject()
	unit.set("state", newString(state))
	unit.set("value", newString(value))
	rec := newObject()
	rec.set("stringUnit", unit)
	locs.set(lang, rec)
	return true
}
