package profiles

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes mounts profile store endpoints on the given router.
func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/api/profiles", func(r chi.Router) {
		r.Get("/preview", handlePreview(svc))
		r.Get("/namespaces", handleNamespaces(svc))
	})
}

func handlePreview(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		estimate, err := svc.Preview(r.Context())
		if err != nil {
			writeError(w, http.StatusBadGateway, err)
			return
		}
		writeJSON(w, http.StatusOK, estimate)
	}
}

func handleNamespaces(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		namespaces, err := svc.Namespaces(r.Context())
		if err != nil {
			writeError(w, http.StatusBadGateway, err)
			return
		}
		writeJSON(w, http.StatusOK, namespaces)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
