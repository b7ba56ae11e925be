package dashboard

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/dviselman/pconsole/internal/batches"
	"github.com/dviselman/pconsole/internal/dataflows"
	"github.com/dviselman/pconsole/internal/datasets"
	"github.com/dviselman/pconsole/internal/dictionary"
	"github.com/dviselman/pconsole/internal/segments"
)

// statsResponse aggregates every section of the overview page. Sections
// fail independently: a broken upstream fills the matching _error field and
// leaves the rest intact.
type statsResponse struct {
	Datasets       *datasets.Stats        `json:"datasets,omitempty"`
	DatasetsError  string                 `json:"datasets_error,omitempty"`
	Batches        *batches.Stats         `json:"batches,omitempty"`
	BatchesError   string                 `json:"batches_error,omitempty"`
	Segments       *segments.Stats        `json:"segments,omitempty"`
	SegmentsError  string                 `json:"segments_error,omitempty"`
	Dataflows      *dataflows.Stats       `json:"dataflows,omitempty"`
	DataflowsError string                 `json:"dataflows_error,omitempty"`
	Dictionary     dictionary.CacheStatus `json:"dictionary"`
}

func (d *Dashboard) handleStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var (
		resp statsResponse
		wg   sync.WaitGroup
	)

	if d.sources.Datasets != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			stats, err := d.sources.Datasets.Stats(ctx)
			if err != nil {
				resp.DatasetsError = err.Error()
				return
			}
			resp.Datasets = stats
		}()
	}
	if d.sources.Batches != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			stats, err := d.sources.Batches.Stats(ctx)
			if err != nil {
				resp.BatchesError = err.Error()
				return
			}
			resp.Batches = stats
		}()
	}
	if d.sources.Segments != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			stats, err := d.sources.Segments.Stats(ctx)
			if err != nil {
				resp.SegmentsError = err.Error()
				return
			}
			resp.Segments = stats
		}()
	}
	if d.sources.Dataflows != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			stats, err := d.sources.Dataflows.Stats(ctx)
			if err != nil {
				resp.DataflowsError = err.Error()
				return
			}
			resp.Dataflows = stats
		}()
	}
	wg.Wait()

	if d.sources.Dictionary != nil {
		resp.Dictionary = d.sources.Dictionary.Status()
	}

	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
