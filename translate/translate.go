// Package translate provides the machine-translation backends used to fill
// string catalogs: Google Cloud Translation (v3) and HTTP chat-completion
// AI providers (Google AI / Gemini, Groq, Ollama, custom OpenAI-compatible
// endpoints).
//
// Every backend translates one string into one language per call. Calls are
// made once; failures are returned to the caller, never retried.
package translate

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Translator translates a single text into the target language.
type Translator interface {
	Translate(ctx context.Context, text, targetLang string) (string, error)
}

// ---------------------------------------------------------------------------
// Provider IDs
// ---------------------------------------------------------------------------

const (
	ProviderGoogleCloud  = "google-cloud"
	ProviderGoogle       = "google"
	ProviderGroq         = "groq"
	ProviderOllama       = "ollama"
	ProviderCustomOpenAI = "custom-openai"
)

// ---------------------------------------------------------------------------
// Provider configuration
// ---------------------------------------------------------------------------

// Provider holds the configuration for a translation service.
type Provider struct {
	// ID is the provider identifier (google-cloud, google, groq, ...).
	ID string
	// Name is the display name.
	Name string
	// BaseURL is the API base URL.
	BaseURL string
	// APIKey is the authentication key (empty for ADC or local services).
	APIKey string
	// ProjectID is the Google Cloud project (google-cloud only).
	ProjectID string
	// Model is the model identifier (AI providers only).
	Model string
	// Proxy is an optional HTTP/HTTPS proxy URL.
	Proxy string
	// Timeout is the request timeout.
	Timeout time.Duration
}

// NeedsModel reports whether the provider is an AI chat provider that
// requires a model name.
func (p Provider) NeedsModel() bool {
	return p.ID != ProviderGoogleCloud
}

// DefaultProviders returns the pre-configured provider definitions.
func DefaultProviders() map[string]Provider {
	return map[string]Provider{
		ProviderGoogleCloud: {
			ID:      ProviderGoogleCloud,
			Name:    "Google Cloud Translation",
			BaseURL: "https://translation.googleapis.com",
			Timeout: 30 * time.Second,
		},
		ProviderGoogle: {
			ID:      ProviderGoogle,
			Name:    "Google AI (Gemini)",
			BaseURL: "https://generativelanguage.googleapis.com",
			Timeout: 120 * time.Second,
		},
		ProviderGroq: {
			ID:      ProviderGroq,
			Name:    "Groq",
			BaseURL: "https://api.groq.com/openai/v1",
			Timeout: 60 * time.Second,
		},
		ProviderOllama: {
			ID:      ProviderOllama,
			Name:    "Ollama",
			BaseURL: "http://localhost:11434/v1",
			Timeout: 120 * time.Second,
		},
		ProviderCustomOpenAI: {
			ID:      ProviderCustomOpenAI,
			Name:    "Custom OpenAI",
			Timeout: 60 * time.Second,
		},
	}
}

// ---------------------------------------------------------------------------
// Options
// ---------------------------------------------------------------------------

// Options configures a Translator.
type Options struct {
	// Provider is the service configuration.
	Provider Provider
	// SourceLang is the language of the input text (e.g. "en").
	SourceLang string
	// SystemPrompt overrides the default AI prompt. {{sourceLang}} and
	// {{targetLang}} are replaced with language names.
	SystemPrompt string
	// Verbose enables request logging through OnLog.
	Verbose bool
	// OnLog emits debug messages.
	OnLog func(format string, args ...any)
}

func (o *Options) debug(format string, args ...any) {
	if o.Verbose && o.OnLog != nil {
		o.OnLog(format, args...)
	}
}

func (o *Options) effectiveTimeout() time.Duration {
	if o.Provider.Timeout > 0 {
		return o.Provider.Timeout
	}
	return 120 * time.Second
}

// New returns the Translator for opts.Provider. Unknown provider IDs are
// treated as OpenAI-compatible endpoints.
func New(ctx context.Context, opts Options) (Translator, error) {
	switch opts.Provider.ID {
	case ProviderGoogleCloud:
		return newCloudTranslator(ctx, opts)
	case ProviderGoogle:
		return newChatTranslator(opts, formatGeminiNative)
	default:
		return newChatTranslator(opts, formatOpenAIChat)
	}
}

// ---------------------------------------------------------------------------
// HTTP client with real proxy support
// ---------------------------------------------------------------------------

func makeHTTPClient(proxyURL string, timeout time.Duration) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()

	// Support both --proxy flag and HTTP_PROXY/HTTPS_PROXY env vars
	if proxyURL != "" {
		parsed, err := url.Parse(proxyURL)
		if err == nil {
			transport.Proxy = http.ProxyURL(parsed)
		}
	} else {
		transport.Proxy = http.ProxyFromEnvironment
	}

	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}
}

func statusError(status int, body []byte) error {
	return fmt.Errorf("API returned status %d: %s", status, truncate(strings.TrimSpace(string(body)), 500))
}

// truncate truncates a string to maxLen bytes.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
