package dictionary

import (
	"context"
	"time"

	"github.com/dviselman/pconsole/internal/platform"
)

// FieldRecord is one flattened schema field. The aggregate field list is a
// multiset: the same path can appear under multiple schema titles.
type FieldRecord struct {
	Path        string   `json:"path"`
	Type        string   `json:"type"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	SchemaName  string   `json:"schema_name"`
	Enum        []string `json:"enum,omitempty"`
}

// Dictionary is the cached crawl artifact. It is immutable once built and
// replaced wholesale on refresh.
type Dictionary struct {
	GeneratedAt           time.Time     `json:"generated_at"`
	TotalSchemas          int           `json:"total_schemas"`
	SchemaNames           []string      `json:"schema_names"`
	Fields                []FieldRecord `json:"fields"`
	ProcessingTimeSeconds float64       `json:"processing_time_seconds"`
	Error                 string        `json:"error,omitempty"`
	Cached                bool          `json:"cached"`
}

// UnionField is a flattened union-schema field carrying the query-expression
// path alongside the dotted path. The two are identical today but diverge in
// consumers outside this service, so both are recorded.
type UnionField struct {
	Path        string   `json:"path"`
	PqlPath     string   `json:"pql_path"`
	Type        string   `json:"type"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	SchemaName  string   `json:"schema_name"`
	Enum        []string `json:"enum,omitempty"`
}

// UnionProfileSchema is the derived artifact for query-expression authoring,
// cached independently of the general Dictionary.
type UnionProfileSchema struct {
	ExtractedAt      time.Time    `json:"extracted_at"`
	ProfileTitle     string       `json:"profile_title"`
	TotalFields      int          `json:"total_fields"`
	Fields           []UnionField `json:"fields"`
	CommonAttributes []UnionField `json:"common_attributes"`
	Error            string       `json:"error,omitempty"`
	Cached           bool         `json:"cached"`
}

// SchemaSource is the remote schema registry as consumed by the crawl.
// *platform.Client satisfies it; tests supply fakes.
type SchemaSource interface {
	ListSchemas(ctx context.Context, container platform.Container, start string, limit int) (*platform.SchemaPage, error)
	GetSchema(ctx context.Context, container platform.Container, id string) (*platform.SchemaDetail, error)
	ListUnions(ctx context.Context, start string, limit int) (*platform.SchemaPage, error)
	GetUnion(ctx context.Context, id string) (*platform.SchemaDetail, error)
}

// BuildRun describes one completed dictionary crawl, for history recording.
type BuildRun struct {
	ID              string    `json:"id"`
	StartedAt       time.Time `json:"started_at"`
	DurationSeconds float64   `json:"duration_seconds"`
	TotalSchemas    int       `json:"total_schemas"`
	TotalFields     int       `json:"total_fields"`
	Error           string    `json:"error,omitempty"`
	Forced          bool      `json:"forced"`
}

// RunRecorder receives a record of each completed crawl. Recording failures
// are the recorder's concern; the build result is served regardless.
type RunRecorder interface {
	RecordRun(ctx context.Context, run BuildRun) error
}
