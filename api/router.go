package api

import (
	"net/http"
	"slices"
)

func NewRouter(handler *Handler, allowedOrigins []string) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", handler.Health)
	mux.HandleFunc("POST /api/chat", handler.Chat)
	mux.HandleFunc("POST /api/session/clear", handler.ClearSession)
	mux.HandleFunc("GET /api/session/{id}", handler.GetSession)
	mux.HandleFunc("GET /api/complaints", handler.ListComplaints)
	mux.HandleFunc("GET /api/schema", handler.Schema)

	return withCORS(mux, allowedOrigins)
}

// withCORS answers preflight requests and tags responses for allowed
// origins. "*" allows any origin.
func withCORS(next http.Handler, allowedOrigins []string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && (slices.Contains(allowedOrigins, origin) || slices.Contains(allowedOrigins, "*")) {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Credentials", "true")
			h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			h.Add("Vary", "Origin")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
