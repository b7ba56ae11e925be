package dashboard

import (
	"context"

	"github.com/go-chi/chi/v5"

	"github.com/dviselman/pconsole/internal/batches"
	"github.com/dviselman/pconsole/internal/dataflows"
	"github.com/dviselman/pconsole/internal/datasets"
	"github.com/dviselman/pconsole/internal/dictionary"
	"github.com/dviselman/pconsole/internal/segments"
)

// DatasetSource supplies dataset stats. The datasets Service satisfies it.
type DatasetSource interface {
	Stats(ctx context.Context) (*datasets.Stats, error)
}

// BatchSource supplies ingestion stats. The batches Service satisfies it.
type BatchSource interface {
	Stats(ctx context.Context) (*batches.Stats, error)
}

// SegmentSource supplies segment stats. The segments Service satisfies it.
type SegmentSource interface {
	Stats(ctx context.Context) (*segments.Stats, error)
}

// FlowSource supplies dataflow stats. The dataflows Service satisfies it.
type FlowSource interface {
	Stats(ctx context.Context) (*dataflows.Stats, error)
}

// DictionaryStatus reports on the cached dictionary. The dictionary Service
// satisfies it.
type DictionaryStatus interface {
	Status() dictionary.CacheStatus
}

// Sources bundles the stat providers backing the overview endpoint. Nil
// entries are reported as unconfigured sections rather than failures.
type Sources struct {
	Datasets   DatasetSource
	Batches    BatchSource
	Segments   SegmentSource
	Dataflows  FlowSource
	Dictionary DictionaryStatus
}

// Dashboard serves the console UI, the overview stats endpoint and the
// chat WebSocket.
type Dashboard struct {
	sources   Sources
	assistant Assistant
}

// New creates a Dashboard. assistant may be nil when no LLM is configured;
// the chat socket then reports errors instead of answers.
func New(sources Sources, assistant Assistant) *Dashboard {
	return &Dashboard{
		sources:   sources,
		assistant: assistant,
	}
}

// RegisterRoutes mounts all dashboard routes onto the given router.
func (d *Dashboard) RegisterRoutes(r chi.Router) {
	r.Get("/", d.ServeIndex)
	r.Get("/api/dashboard/stats", d.handleStats)
	r.Get("/ws/chat", d.handleWebSocket)
}
