package history

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dviselman/pconsole/internal/dictionary"
)

// RegisterRoutes mounts crawl history endpoints on the given router.
func RegisterRoutes(r chi.Router, store *Store) {
	r.Get("/api/dictionary/runs", handleListRuns(store))
}

func handleListRuns(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 50
		if v := r.URL.Query().Get("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				limit = n
			}
		}

		runs, err := store.ListRuns(r.Context(), limit)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if runs == nil {
			runs = []dictionary.BuildRun{}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(runs)
	}
}
