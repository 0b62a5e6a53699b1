// Package fill adds missing localizations to a string catalog.
//
// For every entry that has a localizations map and a source-language
// value, each configured language that is not yet present gets a new
// stringUnit with state "translated". Existing records are never modified.
// Entries are processed one at a time, one provider call per missing
// language, with no retries.
package fill

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/hashicorp/go-multierror"
	"github.com/minios-linux/xcfill/translate"
	"github.com/minios-linux/xcfill/xcstrings"
)

// DefaultSourceLanguage is used when Config.SourceLanguage is empty.
const DefaultSourceLanguage = "en"

// Config is the fixed input of a run.
type Config struct {
	// ProjectID identifies the translation provider project (for logging).
	ProjectID string
	// Languages are the target language codes, in the order they are filled.
	Languages []string
	// SourceLanguage is the code whose value is translated (default "en").
	SourceLanguage string
}

// Options controls reporting and dry runs.
type Options struct {
	// DryRun computes missing languages without calling the provider or
	// writing the file.
	DryRun bool
	// OnProgress is called after each entry.
	OnProgress func(done, total int)
	// OnLog emits log messages.
	OnLog func(format string, args ...any)
	// OnError emits error messages.
	OnError func(format string, args ...any)
}

func (o *Options) log(format string, args ...any) {
	if o.OnLog != nil {
		o.OnLog(format, args...)
	}
}

func (o *Options) logError(format string, args ...any) {
	if o.OnError != nil {
		o.OnError(format, args...)
	} else if o.OnLog != nil {
		o.OnLog(format, args...)
	}
}

// ProviderError is a failed translation of one key into one language. It is
// recorded in the Result and the value is stored as "".
type ProviderError struct {
	Key  string
	Lang string
	Err  error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("translating %q to %s: %v", e.Key, e.Lang, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// Pending lists the languages an entry still needs.
type Pending struct {
	Key    string
	Source string
	Langs  []string
}

// Result summarises a run.
type Result struct {
	Entries         int // entries in the catalog
	NoLocalizations int // entries without a localizations map
	NoSource        int // entries without a source-language value
	Malformed       int // entries skipped as malformed
	Complete        int // entries that already had every language
	Added           int // records added
	ProviderCalls   int
	Copied          int // short values copied verbatim
	Empty           int // provider returned an empty translation
	Pending         []Pending
	Failures        *multierror.Error
}

// Err returns the aggregated provider failures, or nil.
func (r *Result) Err() error {
	return r.Failures.ErrorOrNil()
}

// Filler fills missing localizations using a Translator.
type Filler struct {
	cfg  Config
	tr   translate.Translator
	opts Options
}

// New returns a Filler. tr may be nil for dry runs.
func New(cfg Config, tr translate.Translator, opts Options) *Filler {
	if cfg.SourceLanguage == "" {
		cfg.SourceLanguage = DefaultSourceLanguage
	}
	return &Filler{cfg: cfg, tr: tr, opts: opts}
}

// Missing returns the configured codes that are not in present, in
// configured order.
func Missing(configured, present []string) []string {
	have := make(map[string]struct{}, len(present))
	for _, p := range present {
		have[p] = struct{}{}
	}
	var out []string
	for _, c := range configured {
		if _, ok := have[c]; !ok {
			out = append(out, c)
		}
	}
	return out
}

// Run loads the catalog at path, fills it and writes it back. Nothing is
// written if loading fails, the context is cancelled, no record was added,
// or DryRun is set.
func (f *Filler) Run(ctx context.Context, path string) (*Result, error) {
	cat, err := xcstrings.Load(path)
	if err != nil {
		return nil, err
	}

	if f.cfg.ProjectID != "" {
		f.opts.log("Project: %s", f.cfg.ProjectID)
	}

	res, err := f.Fill(ctx, cat)
	if err != nil {
		return res, err
	}
	if f.opts.DryRun || res.Added == 0 {
		return res, nil
	}

	if err := cat.WriteFile(path); err != nil {
		return res, err
	}
	return res, nil
}

// Fill processes every entry of cat in document order.
func (f *Filler) Fill(ctx context.Context, cat *xcstrings.Catalog) (*Result, error) {
	if f.tr == nil && !f.opts.DryRun {
		return nil, fmt.Errorf("no translator configured")
	}

	res := &Result{}
	entries := cat.Entries()
	res.Entries = len(entries)

	for i, e := range entries {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if err := f.fillEntry(ctx, e, res); err != nil {
			return res, err
		}
		if f.opts.OnProgress != nil {
			f.opts.OnProgress(i+1, len(entries))
		}
	}
	return res, nil
}

// Plan returns the pending work for cat without changing it.
func (f *Filler) Plan(cat *xcstrings.Catalog) []Pending {
	var out []Pending
	for _, e := range cat.Entries() {
		if p, ok := f.pending(e); ok && len(p.Langs) > 0 {
			out = append(out, p)
		}
	}
	return out
}

// pending resolves the source text and missing languages of e. ok is false
// if the entry is not eligible for translation.
func (f *Filler) pending(e *xcstrings.Entry) (Pending, bool) {
	if !e.HasLocalizations() || e.Malformed() {
		return Pending{}, false
	}
	source, ok := e.Value(f.cfg.SourceLanguage)
	if !ok {
		return Pending{}, false
	}
	return Pending{
		Key:    e.Key,
		Source: source,
		Langs:  Missing(f.cfg.Languages, e.Languages()),
	}, true
}

func (f *Filler) fillEntry(ctx context.Context, e *xcstrings.Entry, res *Result) error {
	switch {
	case !e.HasLocalizations():
		res.NoLocalizations++
		return nil
	case e.Malformed():
		res.Malformed++
		f.opts.log("Skipping malformed entry %q", e.Key)
		return nil
	}

	p, ok := f.pending(e)
	if !ok {
		res.NoSource++
		return nil
	}
	if len(p.Langs) == 0 {
		res.Complete++
		return nil
	}
	if f.opts.DryRun {
		res.Pending = append(res.Pending, p)
		return nil
	}

	for _, lang := range p.Langs {
		value, err := f.translateOne(ctx, p.Key, p.Source, lang, res)
		if err != nil {
			return err
		}
		if e.AddLocalization(lang, xcstrings.StateTranslated, value) {
			res.Added++
		}
	}
	return nil
}

// translateOne returns the value to store for lang. Values of at most one
// character are copied verbatim. Provider failures are recorded and yield
// "". Only context cancellation is returned as an error.
func (f *Filler) translateOne(ctx context.Context, key, source, lang string, res *Result) (string, error) {
	if utf8.RuneCountInString(source) <= 1 {
		res.Copied++
		return source, nil
	}

	res.ProviderCalls++
	out, err := f.tr.Translate(ctx, source, lang)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		perr := &ProviderError{Key: key, Lang: lang, Err: err}
		res.Failures = multierror.Append(res.Failures, perr)
		f.opts.logError("%v", perr)
		return "", nil
	}
	if out == "" {
		res.Empty++
	}
	return out, nil
}
