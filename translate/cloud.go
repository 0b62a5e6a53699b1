package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// cloudPlatformScope is the OAuth scope required by the Translation API.
const cloudPlatformScope = "https://www.googleapis.com/auth/cloud-platform"

// ---------------------------------------------------------------------------
// Google Cloud Translation (v3)
// ---------------------------------------------------------------------------

type cloudTranslator struct {
	prov       Provider
	sourceLang string
	client     *http.Client
	endpoint   string
	opts       Options
}

type cloudRequest struct {
	Contents           []string `json:"contents"`
	MimeType           string   `json:"mimeType"`
	SourceLanguageCode string   `json:"sourceLanguageCode,omitempty"`
	TargetLanguageCode string   `json:"targetLanguageCode"`
}

type cloudResponse struct {
	Translations []struct {
		TranslatedText string `json:"translatedText"`
	} `json:"translations"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// newCloudTranslator authenticates with the configured API key, or with
// Application Default Credentials when no key is set.
func newCloudTranslator(ctx context.Context, opts Options) (*cloudTranslator, error) {
	prov := opts.Provider
	base := makeHTTPClient(prov.Proxy, opts.effectiveTimeout())

	if prov.ProjectID == "" {
		return nil, fmt.Errorf("no Google Cloud project ID configured")
	}

	client := base
	if prov.APIKey == "" {
		// Token refreshes go through the same proxy settings.
		ctx = context.WithValue(ctx, oauth2.HTTPClient, base)
		creds, err := google.FindDefaultCredentials(ctx, cloudPlatformScope)
		if err != nil {
			return nil, fmt.Errorf("finding Google application default credentials: %w", err)
		}
		client = &http.Client{
			Transport: &oauth2.Transport{Source: creds.TokenSource, Base: base.Transport},
			Timeout:   base.Timeout,
		}
	}

	baseURL := strings.TrimRight(prov.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultProviders()[ProviderGoogleCloud].BaseURL
	}

	return &cloudTranslator{
		prov:       prov,
		sourceLang: opts.SourceLang,
		client:     client,
		endpoint: fmt.Sprintf("%s/v3/projects/%s/locations/global:translateText",
			baseURL, url.PathEscape(prov.ProjectID)),
		opts: opts,
	}, nil
}

// Translate sends text as plain text and returns the first translation, or
// "" if the response carries none.
func (c *cloudTranslator) Translate(ctx context.Context, text, targetLang string) (string, error) {
	body, err := json.Marshal(cloudRequest{
		Contents:           []string{text},
		MimeType:           "text/plain",
		SourceLanguageCode: c.sourceLang,
		TargetLanguageCode: targetLang,
	})
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.prov.APIKey != "" {
		req.Header.Set("x-goog-api-key", c.prov.APIKey)
	} else {
		req.Header.Set("x-goog-user-project", c.prov.ProjectID)
	}

	c.opts.debug("[DEBUG] %s: POST %s (%s)", c.prov.Name, c.endpoint, targetLang)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	var out cloudResponse
	if jsonErr := json.Unmarshal(respBody, &out); jsonErr != nil {
		if resp.StatusCode != http.StatusOK {
			return "", statusError(resp.StatusCode, respBody)
		}
		return "", fmt.Errorf("invalid JSON response: %w", jsonErr)
	}
	if out.Error != nil {
		return "", fmt.Errorf("API error (%d %s): %s", out.Error.Code, out.Error.Status, out.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", statusError(resp.StatusCode, respBody)
	}

	if len(out.Translations) == 0 {
		return "", nil
	}
	return out.Translations[0].TranslatedText, nil
}
