package language

import "testing"

func TestDisplayName(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"es-ES", "Spanish"},
		{"hi-IN", "Hindi"},
		{"zh-CN", "Chinese (Mandarin)"},
		{"xx-XX", "xx-XX"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := DisplayName(tt.code); got != tt.want {
			t.Errorf("DisplayName(%q) = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestAllSorted(t *testing.T) {
	entries := All()
	if len(entries) != len(names) {
		t.Fatalf("len(All()) = %d, want %d", len(entries), len(names))
	}
	for i := 1; i < len(entries); i++ {
		if entries[i-1].Code >= entries[i].Code {
			t.Errorf("entries not sorted at %d: %q >= %q", i, entries[i-1].Code, entries[i].Code)
		}
	}
}

func TestBase(t *testing.T) {
	tests := map[string]string{
		"es-ES": "es",
		"pa_IN": "pa",
		"EN":    "en",
		"":      "",
	}
	for in, want := range tests {
		if got := Base(in); got != want {
			t.Errorf("Base(%q) = %q, want %q", in, got, want)
		}
	}
}
