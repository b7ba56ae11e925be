package dictionary

import (
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Config tunes the crawl and the artifact caches.
type Config struct {
	BatchSize  int
	PageSize   int
	MaxSchemas int
	MaxDepth   int

	// Include/Exclude are doublestar globs matched against schema titles.
	// Empty Include means all schemas.
	Include []string
	Exclude []string

	DictionaryTTL time.Duration
	UnionTTL      time.Duration

	// Files is the durable cache tier. Nil disables the file tier.
	Files FileStore

	// Now is the clock; defaults to time.Now. Injected for tests.
	Now func() time.Time

	// History, when set, receives a record of every completed crawl.
	History RunRecorder

	// OnProgress, when set, is called after each processed batch with the
	// number of schemas processed so far and the total planned.
	OnProgress func(done, total int)
}

// Service builds and caches the schema field dictionary and the union
// profile schema. Both artifacts use the same two-tier cache: a process
// memory slot backed by a durable file, with time-based invalidation and
// a forced-refresh escape hatch.
type Service struct {
	source SchemaSource
	cfg    Config
	now    func() time.Time

	mu           sync.Mutex
	dict         *Dictionary
	dictBuiltAt  time.Time
	union        *UnionProfileSchema
	unionBuiltAt time.Time

	// Concurrent cache misses share one in-flight build per artifact
	// rather than racing independent crawls.
	group singleflight.Group
}

// NewService creates a dictionary service over the given schema source.
// Zero-valued Config fields get defaults.
func NewService(source SchemaSource, cfg Config) *Service {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 20
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 100
	}
	if cfg.MaxSchemas <= 0 {
		cfg.MaxSchemas = 1000
	}
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = 5
	}
	if cfg.DictionaryTTL <= 0 {
		cfg.DictionaryTTL = 72 * time.Hour
	}
	if cfg.UnionTTL <= 0 {
		cfg.UnionTTL = 72 * time.Hour
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Service{
		source: source,
		cfg:    cfg,
		now:    now,
	}
}
