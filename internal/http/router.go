package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/obiente/translate/livetranslate/internal/language"
	"github.com/obiente/translate/livetranslate/internal/ws"
)

func NewRouter(wss *ws.Server) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"ok": true})
	})
	r.Get("/languages", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, language.All())
	})
	// Translation session websocket
	r.Get("/ws", wss.Handle)
	return r
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
