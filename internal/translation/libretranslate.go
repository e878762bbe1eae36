package translation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// LibreTranslate calls a LibreTranslate compatible /translate endpoint with source "auto".
// It ignores the display name; the service detects the language itself.
type LibreTranslate struct {
	base string
	http *http.Client
}

func NewLibreTranslate(base string) *LibreTranslate {
	return &LibreTranslate{base: strings.TrimRight(base, "/"), http: &http.Client{}}
}

func (c *LibreTranslate) Name() string { return "libretranslate" }

func (c *LibreTranslate) Translate(ctx context.Context, text, _ string) (string, error) {
	payload := map[string]any{
		"q":      text,
		"source": "auto",
		"target": "en",
		"format": "text",
	}
	b, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/translate", bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &ServiceError{Provider: c.Name(), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &ServiceError{Provider: c.Name(), Err: fmt.Errorf("translation http %d", resp.StatusCode)}
	}

	var lr struct {
		TranslatedText *string `json:"translatedText"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil || lr.TranslatedText == nil {
		return "", ErrMalformedResponse
	}
	return *lr.TranslatedText, nil
}
