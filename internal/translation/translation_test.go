package translation

import (
	"context"
	"errors"
	"testing"

	"github.com/obiente/translate/livetranslate/internal/config"
)

type fakeProvider struct {
	out   string
	err   error
	calls int

	gotText, gotSource string
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Translate(_ context.Context, text, source string) (string, error) {
	f.calls++
	f.gotText, f.gotSource = text, source
	return f.out, f.err
}

func TestTranslateSkipsBlankText(t *testing.T) {
	for _, in := range []string{"", "   ", "\n\t"} {
		fp := &fakeProvider{out: "should not be used"}
		got, err := New(fp, 1).Translate(context.Background(), in, "Spanish")
		if err != nil || got != "" {
			t.Errorf("Translate(%q) = %q, %v; want empty, nil", in, got, err)
		}
		if fp.calls != 0 {
			t.Errorf("Translate(%q) made %d provider calls, want 0", in, fp.calls)
		}
	}
}

func TestTranslateBlankTextWithoutProvider(t *testing.T) {
	got, err := New(nil, 1).Translate(context.Background(), " ", "Hindi")
	if err != nil || got != "" {
		t.Errorf("Translate = %q, %v; want empty, nil", got, err)
	}
}

func TestTranslateNotConfigured(t *testing.T) {
	_, err := New(nil, 1).Translate(context.Background(), "Hola", "Spanish")
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("err = %v, want ErrNotConfigured", err)
	}
	if err.Error() != NotConfiguredMessage {
		t.Errorf("message = %q, want sentinel %q", err.Error(), NotConfiguredMessage)
	}
}

func TestTranslateTrimsAndPassesSourceName(t *testing.T) {
	fp := &fakeProvider{out: " Hello \n"}
	got, err := New(fp, 1).Translate(context.Background(), "Hola", "Spanish")
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if got != "Hello" {
		t.Errorf("got %q, want Hello", got)
	}
	if fp.calls != 1 || fp.gotText != "Hola" || fp.gotSource != "Spanish" {
		t.Errorf("provider calls=%d text=%q source=%q", fp.calls, fp.gotText, fp.gotSource)
	}
}

func TestTranslateErrorClassification(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	tests := []struct {
		name      string
		err       error
		malformed bool
	}{
		{"malformed", ErrMalformedResponse, true},
		{"service", &ServiceError{Provider: "fake", Err: cause}, false},
		{"bare error", cause, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fp := &fakeProvider{err: tt.err}
			_, err := New(fp, 1).Translate(context.Background(), "Hola", "Spanish")
			if tt.malformed {
				if !errors.Is(err, ErrMalformedResponse) {
					t.Fatalf("err = %v, want ErrMalformedResponse", err)
				}
				return
			}
			var se *ServiceError
			if !errors.As(err, &se) || !errors.Is(err, cause) {
				t.Fatalf("err = %v, want *ServiceError wrapping cause", err)
			}
			if fp.calls != 1 {
				t.Errorf("calls = %d, want exactly 1 (no retries)", fp.calls)
			}
		})
	}
}

func TestPrompt(t *testing.T) {
	want := `Translate the following text from Punjabi to English: "ਸਤ ਸ੍ਰੀ ਅਕਾਲ"`
	if got := Prompt("ਸਤ ਸ੍ਰੀ ਅਕਾਲ", "Punjabi"); got != want {
		t.Errorf("Prompt = %q, want %q", got, want)
	}
}

func TestFromConfigWithoutCredential(t *testing.T) {
	for _, provider := range []string{"gemini", "anthropic", "openai", "libretranslate"} {
		tr := FromConfig(context.Background(), config.Config{TranslationProvider: provider})
		if tr.Provider() != "" {
			t.Errorf("%s: provider = %q, want unconfigured", provider, tr.Provider())
		}
		if _, err := tr.Translate(context.Background(), "Hola", "Spanish"); !errors.Is(err, ErrNotConfigured) {
			t.Errorf("%s: err = %v, want ErrNotConfigured", provider, err)
		}
	}
}

func TestFromConfigSelectsProvider(t *testing.T) {
	tests := []struct {
		cfg  config.Config
		want string
	}{
		{config.Config{TranslationProvider: "anthropic", AnthropicAPIKey: "k", AnthropicModel: "m"}, "anthropic"},
		{config.Config{TranslationProvider: "openai", OpenAIAPIKey: "k", OpenAIModel: "m"}, "openai"},
		{config.Config{TranslationProvider: "libretranslate", TranslationBaseURL: "http://localhost:5000"}, "libretranslate"},
		{config.Config{TranslationProvider: "gemini", GeminiAPIKey: "k", GeminiModel: "m"}, "gemini"},
	}
	for _, tt := range tests {
		if got := FromConfig(context.Background(), tt.cfg).Provider(); got != tt.want {
			t.Errorf("provider = %q, want %q", got, tt.want)
		}
	}
}
