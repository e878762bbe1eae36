// Package language maps source language codes to display names.
package language

import (
	"sort"
	"strings"
)

var names = map[string]string{
	"en-US": "English",
	"es-ES": "Spanish",
	"fr-FR": "French",
	"de-DE": "German",
	"it-IT": "Italian",
	"pt-BR": "Portuguese",
	"ru-RU": "Russian",
	"ja-JP": "Japanese",
	"ko-KR": "Korean",
	"zh-CN": "Chinese (Mandarin)",
	"pa-IN": "Punjabi",
	"hi-IN": "Hindi",
}

// DisplayName returns the human readable name for code, or code itself when unknown.
func DisplayName(code string) string {
	if name, ok := names[code]; ok {
		return name
	}
	return code
}

type Entry struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// All returns the catalog sorted by code.
func All() []Entry {
	out := make([]Entry, 0, len(names))
	for code, name := range names {
		out = append(out, Entry{Code: code, Name: name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// Base returns the primary subtag of a BCP-47 style code ("es-ES" -> "es").
func Base(code string) string {
	for i := 0; i < len(code); i++ {
		if code[i] == '-' || code[i] == '_' {
			return strings.ToLower(code[:i])
		}
	}
	return strings.ToLower(code)
}
