package dictionary

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes mounts the schema dictionary API routes. Both endpoints
// always answer 200 with a well-formed artifact; degraded responses carry
// an "error" key and empty fields rather than a failure status.
func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/api/schemas", func(r chi.Router) {
		r.Get("/dictionary", handleDictionary(svc))
		r.Get("/union-profile", handleUnionProfile(svc))
	})
}

func handleDictionary(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		refresh, _ := strconv.ParseBool(r.URL.Query().Get("refresh"))

		dict, err := svc.Generate(r.Context(), refresh)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, dict)
	}
}

func handleUnionProfile(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		refresh, _ := strconv.ParseBool(r.URL.Query().Get("refresh"))

		schema, err := svc.UnionProfile(r.Context(), refresh)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, schema)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
