// xcfill fills missing locales of Xcode string catalogs (.xcstrings) using
// machine translation.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/minios-linux/xcfill/config"
	"github.com/minios-linux/xcfill/fill"
	"github.com/minios-linux/xcfill/i18n"
	"github.com/minios-linux/xcfill/langmeta"
	"github.com/minios-linux/xcfill/settings"
	"github.com/minios-linux/xcfill/translate"
	"github.com/minios-linux/xcfill/xcstrings"
)

// Version information (set via -ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// ---------------------------------------------------------------------------
// Root command (fill)
// ---------------------------------------------------------------------------

type fillArgs struct {
	file       string
	configPath string
	langs      string
	sourceLang string
	projectID  string

	provider, apiKey, model, baseURL string
	prompt                           string

	timeout time.Duration
	proxy   string

	dryRun  bool
	verbose bool
}

func newRootCmd() *cobra.Command {
	var a fillArgs

	root := &cobra.Command{
		Use:   "xcfill --file PATH",
		Short: "Fill missing locales in Xcode string catalogs using machine translation",
		Long: `xcfill reads an Xcode string catalog (.xcstrings), finds entries whose source
language value exists but whose configured target languages are missing, and
fills them using machine translation. Existing translations are never changed.

Configuration (highest priority first):
  command-line flags
  environment (GOOGLE_PROJECT_ID, LANGUAGE_CODES, XCFILL_*)
  .env in the working directory
  .xcfill.yaml in the working directory (or --config)

Providers:
  google-cloud   Google Cloud Translation v3 (default, ADC or API key)
  google         Google AI (Gemini), API key
  groq           Groq, API key
  ollama         Ollama local server
  custom-openai  Custom OpenAI-compatible endpoint

Commands:
  status      Show per-language coverage of a catalog
  init        Write a starter .xcfill.yaml
  auth        Manage provider credentials

Examples:
  # Fill using Google Cloud Translation and Application Default Credentials
  GOOGLE_PROJECT_ID=my-project LANGUAGE_CODES=fr,de,ja xcfill -f Localizable.xcstrings

  # Fill using Gemini
  xcfill -f Localizable.xcstrings --provider google --model gemini-2.5-flash --lang fr,de

  # Show what would be translated
  xcfill -f Localizable.xcstrings --dry-run`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFill(cmd.Context(), a)
		},
	}

	f := root.Flags()
	f.StringVarP(&a.file, "file", "f", "", "Path to the .xcstrings file (required)")
	_ = root.MarkFlagRequired("file")
	_ = root.MarkFlagFilename("file", "xcstrings")

	f.StringVar(&a.langs, "lang", "", "Target languages, comma-separated (or LANGUAGE_CODES)")
	f.StringVar(&a.sourceLang, "source-lang", "", "Source language code (default en)")
	f.StringVar(&a.projectID, "project-id", "", "Google Cloud project ID (or GOOGLE_PROJECT_ID)")
	f.StringVar(&a.configPath, "config", "", "Config file (default ./"+config.FileName+")")

	f.StringVar(&a.provider, "provider", "", "Translation provider: google-cloud, google, groq, ollama, custom-openai")
	f.StringVar(&a.model, "model", "", "Model name (AI providers)")
	f.StringVar(&a.apiKey, "api-key", "", "API key (or XCFILL_API_KEY env var)")
	f.StringVar(&a.baseURL, "base-url", "", "Custom API base URL")
	f.StringVar(&a.prompt, "prompt", "", "Custom system prompt (use {{sourceLang}} and {{targetLang}} placeholders)")

	f.DurationVar(&a.timeout, "timeout", 0, "Request timeout (0 = provider default)")
	f.StringVar(&a.proxy, "proxy", "", "HTTP/HTTPS proxy URL")

	f.BoolVar(&a.dryRun, "dry-run", false, "Show what would be translated without calling the provider")
	f.BoolVar(&a.verbose, "verbose", false, "Enable detailed logging")

	_ = root.RegisterFlagCompletionFunc("provider", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		out := make([]string, 0, len(allProviders))
		for _, p := range allProviders {
			out = append(out, p.id+"\t"+p.name)
		}
		return out, cobra.ShellCompDirectiveNoFileComp
	})
	_ = root.RegisterFlagCompletionFunc("model", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		p, _ := cmd.Flags().GetString("provider")
		return modelExamples(p), cobra.ShellCompDirectiveNoFileComp
	})

	root.AddCommand(
		newStatusCmd(),
		newInitCmd(),
		newAuthCmd(),
		newVersionCmd(),
	)

	return root
}

func main() {
	i18n.Init("")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	go func() {
		<-sigCh
		logWarning("%s", i18n.T("Interrupted, stopping without saving..."))
		cancel()
	}()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		logError("%v", err)
		os.Exit(1)
	}
}

// ---------------------------------------------------------------------------
// version
// ---------------------------------------------------------------------------

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display version, commit hash, and build date.`,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "xcfill version %s\n", version)
			fmt.Fprintf(out, "  commit:    %s\n", commit)
			fmt.Fprintf(out, "  built:     %s\n", date)
		},
	}
}

// ---------------------------------------------------------------------------
// Configuration
// ---------------------------------------------------------------------------

// loadConfig resolves config files and environment, then applies flags.
func loadConfig(a fillArgs) (*config.Config, error) {
	cfg, err := config.Load(".", a.configPath)
	if err != nil {
		return nil, err
	}

	if a.langs != "" {
		cfg.Languages = config.ParseLanguageList(a.langs)
	}
	if a.sourceLang != "" {
		cfg.SourceLang = a.sourceLang
	}
	if a.projectID != "" {
		cfg.ProjectID = a.projectID
	}
	if a.provider != "" {
		cfg.Provider = strings.ToLower(a.provider)
	}
	if a.model != "" {
		cfg.Model = a.model
	}
	if a.apiKey != "" {
		cfg.APIKey = a.apiKey
	}
	if a.baseURL != "" {
		cfg.BaseURL = a.baseURL
	}
	if a.prompt != "" {
		cfg.Prompt = a.prompt
	}
	if a.timeout > 0 {
		cfg.Timeout = a.timeout
	}
	if a.proxy != "" {
		cfg.Proxy = a.proxy
	}

	if cfg.ProjectID == "" && cfg.Provider == translate.ProviderGoogleCloud {
		cfg.ProjectID = settings.GetProjectID(translate.ProviderGoogleCloud)
	}
	return cfg, nil
}

// ---------------------------------------------------------------------------
// Fill run
// ---------------------------------------------------------------------------

func runFill(ctx context.Context, a fillArgs) error {
	cfg, err := loadConfig(a)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	for _, code := range cfg.UnknownLanguages() {
		logWarning(i18n.T("Unknown language code '%s', passing it to the provider as is"), code)
	}

	var tr translate.Translator
	if !a.dryRun {
		prov := resolveProvider(cfg)
		if err := validateProvider(prov); err != nil {
			return err
		}
		tr, err = translate.New(ctx, translate.Options{
			Provider:     prov,
			SourceLang:   cfg.SourceLang,
			SystemPrompt: cfg.Prompt,
			Verbose:      a.verbose,
			OnLog:        logInfo,
		})
		if err != nil {
			return err
		}
		logInfo(i18n.T("Provider: %s"), providerLabel(prov))
	}

	logInfo(i18n.T("Target languages: %s"), strings.Join(cfg.Languages, ", "))

	opts := fill.Options{
		DryRun:  a.dryRun,
		OnError: logError,
	}
	if a.verbose {
		opts.OnLog = logInfo
	} else {
		opts.OnLog = func(string, ...any) {}
	}

	var bar *progressbar.ProgressBar
	if !a.verbose && !a.dryRun && stderrIsTerminal() {
		opts.OnProgress = func(done, total int) {
			if bar == nil {
				bar = newProgressBar(total)
			}
			_ = bar.Set(done)
		}
	}

	filler := fill.New(fill.Config{
		ProjectID:      cfg.ProjectID,
		Languages:      cfg.Languages,
		SourceLanguage: cfg.SourceLang,
	}, tr, opts)

	res, err := filler.Run(ctx, a.file)
	if bar != nil {
		_ = bar.Finish()
	}
	if err != nil {
		return describeRunError(err, a.file)
	}

	if a.dryRun {
		printPending(res.Pending)
		return nil
	}
	printSummary(res, a.file)
	return nil
}

// describeRunError maps typed failures to operator messages.
func describeRunError(err error, path string) error {
	var fa *xcstrings.FileAccessError
	var fe *xcstrings.FormatError
	switch {
	case errors.Is(err, context.Canceled):
		return fmt.Errorf(i18n.T("interrupted, '%s' was not modified"), path)
	case errors.As(err, &fa) && errors.Is(err, os.ErrNotExist):
		return fmt.Errorf(i18n.T("File not found at '%s'"), path)
	case errors.As(err, &fa):
		return fmt.Errorf(i18n.T("Cannot access '%s': %v"), path, fa.Err)
	case errors.As(err, &fe):
		return fmt.Errorf(i18n.T("Invalid JSON format in '%s': %v"), path, fe.Err)
	default:
		return err
	}
}

func newProgressBar(total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription(i18n.T("Translating")),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}

func printPending(pending []fill.Pending) {
	if len(pending) == 0 {
		logSuccess("%s", i18n.T("Nothing to translate"))
		return
	}
	total := 0
	for _, p := range pending {
		total += len(p.Langs)
		labels := make([]string, len(p.Langs))
		for i, l := range p.Langs {
			labels[i] = langLabel(l)
		}
		fmt.Fprintf(logOut, "  %q\n      %s\n", p.Key, strings.Join(labels, ", "))
	}
	logInfo(i18n.N("%d entry needs translation", "%d entries need translation", len(pending)), len(pending))
	logInfo(i18n.N("%d translation would be added", "%d translations would be added", total), total)
}

func printSummary(res *fill.Result, path string) {
	if res.Added == 0 {
		logSuccess(i18n.T("All entries are already translated, '%s' unchanged"), path)
		return
	}
	logSuccess(i18n.N("Added %d translation to '%s'", "Added %d translations to '%s'", res.Added), res.Added, path)
	logInfo(i18n.T("Provider calls: %d, copied verbatim: %d"), res.ProviderCalls, res.Copied)
	if res.NoSource > 0 {
		logInfo(i18n.N("%d entry has no source value", "%d entries have no source value", res.NoSource), res.NoSource)
	}
	if res.Malformed > 0 {
		logWarning(i18n.N("%d malformed entry skipped", "%d malformed entries skipped", res.Malformed), res.Malformed)
	}
	if res.Empty > 0 {
		logWarning(i18n.N("%d translation came back empty", "%d translations came back empty", res.Empty), res.Empty)
	}
	if err := res.Err(); err != nil {
		n := len(res.Failures.Errors)
		logWarning(i18n.N("%d translation failed and was stored empty", "%d translations failed and were stored empty", n), n)
	}
}

func langLabel(code string) string {
	m := langmeta.Resolve(code)
	label := code
	if m.Name != "" && m.Name != code {
		label = fmt.Sprintf("%s (%s)", code, m.Name)
	}
	if m.Flag != "" {
		label = m.Flag + " " + label
	}
	return label
}

// ---------------------------------------------------------------------------
// Provider resolution
// ---------------------------------------------------------------------------

// resolveProvider merges the configuration into the provider defaults.
// Unknown provider names are treated as OpenAI-compatible base URLs.
func resolveProvider(cfg *config.Config) translate.Provider {
	defaults := translate.DefaultProviders()

	var prov translate.Provider
	if p, ok := defaults[cfg.Provider]; ok {
		prov = p
	} else {
		prov = translate.Provider{
			ID:      translate.ProviderCustomOpenAI,
			Name:    cfg.Provider,
			BaseURL: cfg.Provider,
			Timeout: 60 * time.Second,
		}
	}

	if cfg.BaseURL != "" {
		prov.BaseURL = cfg.BaseURL
	} else if prov.ID == translate.ProviderCustomOpenAI {
		if storedURL := settings.GetBaseURL(prov.ID); storedURL != "" {
			prov.BaseURL = storedURL
		}
	}
	prov.APIKey = settings.ResolveAPIKey(prov.ID, cfg.APIKey)
	prov.ProjectID = cfg.ProjectID
	prov.Model = cfg.Model
	if cfg.Proxy != "" {
		prov.Proxy = cfg.Proxy
	}
	if cfg.Timeout > 0 {
		prov.Timeout = cfg.Timeout
	}
	return prov
}

func modelExamples(providerID string) []string {
	switch providerID {
	case translate.ProviderGoogle:
		return []string{"gemini-2.5-flash", "gemini-2.0-flash", "gemini-1.5-pro"}
	case translate.ProviderGroq:
		return []string{"llama-3.3-70b-versatile", "mixtral-8x7b-32768"}
	case translate.ProviderOllama:
		return []string{"llama3.2", "qwen2.5", "mistral"}
	default:
		return nil
	}
}

func validateProvider(prov translate.Provider) error {
	if prov.NeedsModel() && prov.Model == "" {
		examples := strings.Join(modelExamples(prov.ID), ", ")
		if examples == "" {
			examples = "check provider documentation"
		}
		return fmt.Errorf("--model is required for provider '%s'\n\n"+
			"Example models for %s:\n  %s\n\n"+
			"Usage: --provider %s --model MODEL_NAME",
			prov.ID, prov.Name, examples, prov.ID)
	}

	switch prov.ID {
	case translate.ProviderGoogle, translate.ProviderGroq:
		if prov.APIKey == "" {
			return fmt.Errorf("provider '%s' requires an API key\n\n"+
				"Option 1: Store your API key:\n"+
				"  xcfill auth login --provider %s\n\n"+
				"Option 2: Pass key directly:\n"+
				"  --api-key YOUR_KEY or export XCFILL_API_KEY=YOUR_KEY",
				prov.ID, prov.ID)
		}

	case translate.ProviderCustomOpenAI:
		if prov.BaseURL == "" {
			return fmt.Errorf("provider 'custom-openai' requires an endpoint URL\n\n" +
				"Option 1: Configure via auth:\n" +
				"  xcfill auth login --provider custom-openai\n\n" +
				"Option 2: Pass directly:\n" +
				"  --base-url https://api.example.com/v1")
		}

	case translate.ProviderOllama:
		client := &http.Client{Timeout: 2 * time.Second}
		ollamaURL := strings.TrimSuffix(strings.TrimRight(prov.BaseURL, "/"), "/v1")
		resp, err := client.Get(ollamaURL + "/api/tags")
		if err != nil {
			return fmt.Errorf("cannot reach Ollama at %s: %v\n\n"+
				"Start it with: ollama serve", ollamaURL, err)
		}
		resp.Body.Close()
	}
	return nil
}

func providerLabel(prov translate.Provider) string {
	label := prov.Name
	if prov.Model != "" {
		label += " / " + prov.Model
	}
	if prov.ID == translate.ProviderGoogleCloud {
		label += " (project " + prov.ProjectID + ")"
	}
	return label
}
