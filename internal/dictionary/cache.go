package dictionary

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// FileStore is the durable cache tier. Implementations must tolerate
// missing files on Read (return an error) and create any needed
// directories on Write.
type FileStore interface {
	Read(name string) ([]byte, error)
	Write(name string, data []byte) error
}

// DirStore stores cache files under a single directory, created on the
// first write if absent.
type DirStore struct {
	Dir string
}

func (d DirStore) Read(name string) ([]byte, error) {
	return os.ReadFile(filepath.Join(d.Dir, name))
}

func (d DirStore) Write(name string, data []byte) error {
	if err := os.MkdirAll(d.Dir, 0o755); err != nil {
		return fmt.Errorf("creating cache dir: %w", err)
	}
	return os.WriteFile(filepath.Join(d.Dir, name), data, 0o644)
}

const (
	dictionaryCacheFile = "schema_dictionary.json"
	unionCacheFile      = "union_profile_schema.json"
)

// dictionaryEnvelope is the on-disk format: a timestamp in epoch millis
// wrapping the artifact. There is no version field; a format change means
// the file fails to parse and the cache goes cold, which is the intended
// recovery.
type dictionaryEnvelope struct {
	Timestamp  int64       `json:"timestamp"`
	Dictionary *Dictionary `json:"dictionary"`
}

type unionEnvelope struct {
	Timestamp int64               `json:"timestamp"`
	Schema    *UnionProfileSchema `json:"schema"`
}

// Generate returns the schema dictionary, serving it from the memory tier,
// then the file tier, and finally rebuilding via a full crawl. Results
// from either cache tier are tagged Cached; a fresh build is not.
func (s *Service) Generate(ctx context.Context, forceRefresh bool) (*Dictionary, error) {
	if !forceRefresh {
		if dict := s.cachedDictionary(); dict != nil {
			return dict, nil
		}
		if dict := s.dictionaryFromFile(); dict != nil {
			return dict, nil
		}
	}

	v, err, _ := s.group.Do("dictionary", func() (interface{}, error) {
		started := s.now()
		dict := s.buildDictionary(ctx)

		s.mu.Lock()
		s.dict = dict
		s.dictBuiltAt = s.now()
		s.mu.Unlock()

		s.writeDictionaryFile(dict)
		s.recordRun(ctx, dict, started, forceRefresh)
		return dict, nil
	})
	if err != nil {
		// The builder contract never returns an error, but singleflight's
		// signature forces the check.
		return nil, err
	}

	return tagged(v.(*Dictionary), false), nil
}

// cachedDictionary returns the memory-tier entry when fresh, else nil.
func (s *Service) cachedDictionary() *Dictionary {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dict == nil || s.now().Sub(s.dictBuiltAt) >= s.cfg.DictionaryTTL {
		return nil
	}
	return tagged(s.dict, true)
}

// dictionaryFromFile consults the durable tier. Any read, parse, or
// staleness problem is treated as a cold cache, never an error. A hit is
// promoted into the memory tier.
func (s *Service) dictionaryFromFile() *Dictionary {
	if s.cfg.Files == nil {
		return nil
	}
	data, err := s.cfg.Files.Read(dictionaryCacheFile)
	if err != nil {
		return nil
	}

	var env dictionaryEnvelope
	if err := json.Unmarshal(data, &env); err != nil || env.Dictionary == nil || env.Timestamp == 0 {
		return nil
	}

	builtAt := time.UnixMilli(env.Timestamp)
	if s.now().Sub(builtAt) >= s.cfg.DictionaryTTL {
		return nil
	}

	s.mu.Lock()
	s.dict = env.Dictionary
	s.dictBuiltAt = builtAt
	s.mu.Unlock()

	return tagged(env.Dictionary, true)
}

// writeDictionaryFile persists the artifact to the durable tier. Failure
// is logged and ignored: the in-memory result still serves the request.
func (s *Service) writeDictionaryFile(dict *Dictionary) {
	if s.cfg.Files == nil {
		return
	}
	env := dictionaryEnvelope{
		Timestamp:  s.now().UnixMilli(),
		Dictionary: dict,
	}
	data, err := json.Marshal(env)
	if err != nil {
		log.Printf("dictionary: marshalling cache file: %v", err)
		return
	}
	if err := s.cfg.Files.Write(dictionaryCacheFile, data); err != nil {
		log.Printf("dictionary: writing cache file: %v", err)
	}
}

func (s *Service) recordRun(ctx context.Context, dict *Dictionary, started time.Time, forced bool) {
	if s.cfg.History == nil {
		return
	}
	run := BuildRun{
		ID:              uuid.New().String(),
		StartedAt:       started,
		DurationSeconds: dict.ProcessingTimeSeconds,
		TotalSchemas:    dict.TotalSchemas,
		TotalFields:     len(dict.Fields),
		Error:           dict.Error,
		Forced:          forced,
	}
	if err := s.cfg.History.RecordRun(ctx, run); err != nil {
		log.Printf("dictionary: recording crawl run: %v", err)
	}
}

// tagged returns a shallow copy with the Cached flag set, so the shared
// artifact itself is never mutated after publication.
func tagged(dict *Dictionary, cached bool) *Dictionary {
	out := *dict
	out.Cached = cached
	return &out
}

// CacheStatus summarizes the dictionary cache for dashboards.
type CacheStatus struct {
	Present      bool      `json:"present"`
	GeneratedAt  time.Time `json:"generated_at"`
	TotalSchemas int       `json:"total_schemas"`
	TotalFields  int       `json:"total_fields"`
	AgeSeconds   float64   `json:"age_seconds"`
}

// Status reports on the memory-tier dictionary without triggering a build.
func (s *Service) Status() CacheStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dict == nil {
		return CacheStatus{}
	}
	return CacheStatus{
		Present:      true,
		GeneratedAt:  s.dict.GeneratedAt,
		TotalSchemas: s.dict.TotalSchemas,
		TotalFields:  len(s.dict.Fields),
		AgeSeconds:   s.now().Sub(s.dictBuiltAt).Seconds(),
	}
}
