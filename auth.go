package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/minios-linux/xcfill/i18n"
	"github.com/minios-linux/xcfill/settings"
)

// ---------------------------------------------------------------------------
// auth (credential store management)
// ---------------------------------------------------------------------------

// allProviders is the ordered list of providers for menus and completion.
var allProviders = []struct {
	id      string
	name    string
	desc    string
	auth    string // "api-key", "project", "none"
	helpURL string
}{
	{"google-cloud", "Google Cloud Translation", "default, ADC or API key", "project", "https://console.cloud.google.com/apis/credentials"},
	{"google", "Google AI Studio", "Gemini API key, free tier available", "api-key", "https://aistudio.google.com/apikey"},
	{"groq", "Groq Cloud", "fast inference, free tier available", "api-key", "https://console.groq.com/keys"},
	{"custom-openai", "Custom OpenAI", "any OpenAI-compatible endpoint", "api-key", ""},
	{"ollama", "Ollama", "local server, no auth needed", "none", ""},
}

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage provider credentials",
		Long: `Manage credentials for translation providers.

Credentials are stored in ` + settings.FilePath() + ` (mode 0600).

Providers:
  google-cloud  Project ID and optional API key (ADC is used without a key)
  google        Google AI Studio API key
  groq          Groq Cloud API key
  custom-openai API key and endpoint URL
  ollama        Local server, no auth required

Examples:
  xcfill auth login                          Interactive provider selection
  xcfill auth login --provider google        Store a Google AI API key
  xcfill auth logout --provider google       Remove the Google AI key
  xcfill auth logout                         Remove all credentials
  xcfill auth list                           Show stored credentials`,
	}

	cmd.AddCommand(
		newAuthLoginCmd(),
		newAuthLogoutCmd(),
		newAuthListCmd(),
	)
	return cmd
}

func completeAuthProviders(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	completions := make([]string, 0, len(allProviders))
	for _, p := range allProviders {
		if p.auth == "none" {
			continue
		}
		completions = append(completions, fmt.Sprintf("%s\t%s", p.id, p.name))
	}
	return completions, cobra.ShellCompDirectiveNoFileComp
}

// ---------------------------------------------------------------------------
// auth login
// ---------------------------------------------------------------------------

func newAuthLoginCmd() *cobra.Command {
	var provider string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store credentials for a provider",
		Long: `Store credentials for a translation provider.

If --provider is not specified, you will be prompted to choose.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := bufio.NewScanner(cmd.InOrStdin())

			if provider == "" {
				p, err := promptProvider(in)
				if err != nil {
					return err
				}
				provider = p
			}

			switch provider {
			case "google-cloud":
				return authLoginGoogleCloud(in)
			case "google", "groq":
				return authLoginAPIKey(in, provider)
			case "custom-openai":
				return authLoginCustomOpenAI(in)
			case "ollama":
				logInfo("%s", i18n.T("Ollama needs no credentials"))
				return nil
			default:
				return fmt.Errorf("unknown provider '%s', run 'xcfill auth login' for options", provider)
			}
		},
	}

	cmd.Flags().StringVar(&provider, "provider", "", "Provider to authenticate")
	_ = cmd.RegisterFlagCompletionFunc("provider", completeAuthProviders)
	return cmd
}

func promptProvider(in *bufio.Scanner) (string, error) {
	fmt.Fprintln(logOut)
	fmt.Fprintf(logOut, "%s\n\n", colorInfo.Sprint(i18n.T("Select provider to authenticate:")))
	n := 0
	for _, p := range allProviders {
		if p.auth == "none" {
			continue
		}
		n++
		fmt.Fprintf(logOut, "  %d. %s %s\n", n, colorWarning.Sprintf("%-13s", p.id), p.desc)
	}
	fmt.Fprintln(logOut)
	fmt.Fprint(logOut, i18n.T("Enter choice (number or name): "))

	choice, ok := readLine(in)
	if !ok {
		return "", fmt.Errorf("no input received")
	}

	n = 0
	for _, p := range allProviders {
		if p.auth == "none" {
			continue
		}
		n++
		if choice == strconv.Itoa(n) || choice == p.id {
			return p.id, nil
		}
	}
	return "", fmt.Errorf("invalid choice, use: xcfill auth login --provider PROVIDER")
}

func readLine(in *bufio.Scanner) (string, bool) {
	if !in.Scan() {
		return "", false
	}
	return strings.TrimSpace(in.Text()), true
}

func providerInfo(id string) (name, helpURL string) {
	for _, p := range allProviders {
		if p.id == id {
			return p.name, p.helpURL
		}
	}
	return id, ""
}

func printAuthHeader(id string) {
	name, helpURL := providerInfo(id)
	fmt.Fprintf(logOut, "\n%s\n", colorInfo.Sprintf("%s: %s", name, i18n.T("Credential Setup")))
	fmt.Fprintln(logOut, strings.Repeat("─", 60))
	fmt.Fprintln(logOut)
	if helpURL != "" {
		fmt.Fprintf(logOut, "  %s %s\n\n", i18n.T("Get your API key from:"), colorSuccess.Sprint(helpURL))
	}
}

// promptKey asks for a key, offering to keep existing. required=false
// accepts an empty answer when nothing is stored.
func promptKey(in *bufio.Scanner, existing string, required bool) (string, error) {
	if existing != "" {
		fmt.Fprintf(logOut, "  %s %s\n", i18n.T("Current key:"), colorWarning.Sprint(settings.MaskKey(existing)))
		fmt.Fprint(logOut, "  "+i18n.T("Enter new key to replace, or press Enter to keep: "))
	} else {
		fmt.Fprint(logOut, "  "+i18n.T("Enter API key: "))
	}

	key, ok := readLine(in)
	if !ok {
		return "", fmt.Errorf("no input received")
	}
	if key == "" {
		if existing != "" {
			return existing, nil
		}
		if required {
			return "", fmt.Errorf("no API key provided")
		}
	}
	return key, nil
}

func authLoginAPIKey(in *bufio.Scanner, providerID string) error {
	printAuthHeader(providerID)

	existing := settings.GetAPIKey(providerID)
	key, err := promptKey(in, existing, true)
	if err != nil {
		return err
	}
	if key == existing {
		logInfo("%s", i18n.T("Keeping existing key"))
		return nil
	}

	if err := settings.SetAPIKey(providerID, key); err != nil {
		return fmt.Errorf("failed to save API key: %w", err)
	}
	name, _ := providerInfo(providerID)
	logSuccess(i18n.T("%s API key saved"), name)
	return nil
}

func authLoginGoogleCloud(in *bufio.Scanner) error {
	const id = "google-cloud"
	printAuthHeader(id)

	existing := settings.Get(id)
	var oldKey, oldProject string
	if existing != nil {
		oldKey, oldProject = existing.Key, existing.ProjectID
	}

	if oldProject != "" {
		fmt.Fprintf(logOut, "  %s [%s]: ", i18n.T("Project ID"), oldProject)
	} else {
		fmt.Fprintf(logOut, "  %s: ", i18n.T("Project ID"))
	}
	project, ok := readLine(in)
	if !ok {
		return fmt.Errorf("no input received")
	}
	if project == "" {
		project = oldProject
	}
	if project == "" {
		return fmt.Errorf("no project ID provided")
	}

	fmt.Fprintf(logOut, "  %s\n", i18n.T("Leave the key empty to use Application Default Credentials (gcloud auth application-default login)."))
	key, err := promptKey(in, oldKey, false)
	if err != nil {
		return err
	}

	if err := settings.SetAPIKeyWithProject(id, key, project); err != nil {
		return fmt.Errorf("failed to save credentials: %w", err)
	}
	logSuccess(i18n.T("Google Cloud project %s saved"), project)
	return nil
}

func authLoginCustomOpenAI(in *bufio.Scanner) error {
	const id = "custom-openai"
	printAuthHeader(id)

	oldURL := settings.GetBaseURL(id)
	if oldURL != "" {
		fmt.Fprintf(logOut, "  %s [%s]: ", i18n.T("Endpoint URL"), oldURL)
	} else {
		fmt.Fprintf(logOut, "  %s: ", i18n.T("Endpoint URL"))
	}
	baseURL, ok := readLine(in)
	if !ok {
		return fmt.Errorf("no input received")
	}
	if baseURL == "" {
		baseURL = oldURL
	}
	if baseURL == "" {
		return fmt.Errorf("no endpoint URL provided")
	}

	key, err := promptKey(in, settings.GetAPIKey(id), false)
	if err != nil {
		return err
	}

	if err := settings.SetAPIKeyWithBaseURL(id, key, baseURL); err != nil {
		return fmt.Errorf("failed to save credentials: %w", err)
	}
	logSuccess(i18n.T("Custom endpoint %s saved"), baseURL)
	return nil
}

// ---------------------------------------------------------------------------
// auth logout
// ---------------------------------------------------------------------------

func newAuthLogoutCmd() *cobra.Command {
	var provider string

	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Remove stored credentials",
		Long: `Remove stored credentials for one or all providers.

If --provider is not specified, credentials for ALL providers are removed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if provider == "" {
				if err := settings.RemoveAll(); err != nil {
					return err
				}
				logSuccess("%s", i18n.T("All stored credentials removed"))
				return nil
			}

			if name, _ := providerInfo(provider); name == provider {
				return fmt.Errorf("unknown provider '%s', run 'xcfill auth list' to see providers", provider)
			}
			if err := settings.Remove(provider); err != nil {
				return fmt.Errorf("failed to remove %s credentials: %w", provider, err)
			}
			logSuccess(i18n.T("%s credentials removed"), provider)
			return nil
		},
	}

	cmd.Flags().StringVar(&provider, "provider", "", "Provider to logout (default: all)")
	_ = cmd.RegisterFlagCompletionFunc("provider", completeAuthProviders)
	return cmd
}

// ---------------------------------------------------------------------------
// auth list
// ---------------------------------------------------------------------------

func newAuthListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Show stored credentials and status",
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			printCredentials(logOut)
		},
	}
}

func printCredentials(w io.Writer) {
	fmt.Fprintf(w, "\n%s\n", colorInfo.Sprint(i18n.T("Stored Credentials")))
	fmt.Fprintln(w, strings.Repeat("─", 60))
	fmt.Fprintln(w)

	notConfigured := colorError.Sprint(i18n.T("not configured"))
	for _, p := range allProviders {
		if p.auth == "none" {
			continue
		}
		entry := settings.Get(p.id)
		if entry == nil {
			fmt.Fprintf(w, "  %-14s %s\n", p.id, notConfigured)
			continue
		}

		status := colorSuccess.Sprint(i18n.T("configured"))
		if entry.Key != "" {
			status += fmt.Sprintf(" (key: %s)", settings.MaskKey(entry.Key))
		} else if p.id == "google-cloud" {
			status += " (ADC)"
		}
		if entry.ProjectID != "" {
			status += fmt.Sprintf("\n  %14s project: %s", "", entry.ProjectID)
		}
		if entry.BaseURL != "" {
			status += fmt.Sprintf("\n  %14s endpoint: %s", "", entry.BaseURL)
		}
		fmt.Fprintf(w, "  %-14s %s\n", p.id, status)
	}

	fmt.Fprintf(w, "\n  %s\n", colorWarning.Sprint(i18n.T("Environment Variables")))
	for _, name := range []string{"XCFILL_API_KEY", "GOOGLE_API_KEY", "GROQ_API_KEY", "OPENAI_API_KEY", "GOOGLE_APPLICATION_CREDENTIALS"} {
		v := os.Getenv(name)
		switch {
		case v == "":
			fmt.Fprintf(w, "  %-31s %s\n", name+":", colorError.Sprint(i18n.T("not set")))
		case name == "GOOGLE_APPLICATION_CREDENTIALS":
			fmt.Fprintf(w, "  %-31s %s\n", name+":", v)
		default:
			fmt.Fprintf(w, "  %-31s %s\n", name+":", colorSuccess.Sprint(settings.MaskKey(v)))
		}
	}
	fmt.Fprintln(w)
}
