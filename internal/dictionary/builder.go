package dictionary

import (
	"context"
	"log"
	"sync"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/dviselman/pconsole/internal/platform"
)

// containerIndex is the result of one container's pagination.
type containerIndex struct {
	schemas []platform.SchemaSummary
	err     error
}

// buildDictionary runs a full crawl of both containers and assembles a
// fresh Dictionary. It never fails: total upstream failure yields an
// empty artifact carrying an error string.
//
// Both containers paginate concurrently, but tenant is processed first;
// global's pagination typically finishes in the background while tenant
// batches are in flight, so wall-clock time is roughly
// max(tenant pagination, tenant processing) + global processing.
func (s *Service) buildDictionary(ctx context.Context) *Dictionary {
	start := s.now()

	tenantCh := make(chan containerIndex, 1)
	globalCh := make(chan containerIndex, 1)
	go func() {
		schemas, err := s.fetchContainer(ctx, platform.ContainerTenant)
		tenantCh <- containerIndex{schemas, err}
	}()
	go func() {
		schemas, err := s.fetchContainer(ctx, platform.ContainerGlobal)
		globalCh <- containerIndex{schemas, err}
	}()

	var fields []FieldRecord
	var names []string

	tenant := <-tenantCh
	tenantList := s.filterSchemas(tenant.schemas)
	s.processSchemas(ctx, tenantList, len(tenantList), 0, &fields, &names)

	global := <-globalCh
	globalList := s.filterSchemas(global.schemas)
	s.processSchemas(ctx, globalList, len(tenantList)+len(globalList), len(tenantList), &fields, &names)

	dict := &Dictionary{
		GeneratedAt:           s.now(),
		TotalSchemas:          len(names),
		SchemaNames:           names,
		Fields:                fields,
		ProcessingTimeSeconds: s.now().Sub(start).Seconds(),
	}
	if dict.SchemaNames == nil {
		dict.SchemaNames = []string{}
	}
	if dict.Fields == nil {
		dict.Fields = []FieldRecord{}
	}

	if tenant.err != nil && global.err != nil && len(names) == 0 {
		dict.Error = "schema registry crawl failed: " + tenant.err.Error()
	}

	return dict
}

// filterSchemas applies the configured include/exclude globs to schema
// titles before any detail fetches are issued.
func (s *Service) filterSchemas(list []platform.SchemaSummary) []platform.SchemaSummary {
	if len(s.cfg.Include) == 0 && len(s.cfg.Exclude) == 0 {
		return list
	}

	var out []platform.SchemaSummary
	for _, sum := range list {
		if !matchesAny(s.cfg.Include, sum.Title, true) {
			continue
		}
		if matchesAny(s.cfg.Exclude, sum.Title, false) {
			continue
		}
		out = append(out, sum)
	}
	return out
}

// matchesAny reports whether title matches any pattern. An empty pattern
// list returns emptyResult, so an empty include list admits everything
// while an empty exclude list drops nothing.
func matchesAny(patterns []string, title string, emptyResult bool) bool {
	if len(patterns) == 0 {
		return emptyResult
	}
	for _, p := range patterns {
		if ok, err := doublestar.Match(p, title); err == nil && ok {
			return true
		}
	}
	return false
}

// processSchemas walks the index in fixed-size batches. Within a batch,
// detail fetches run concurrently with parallelism equal to the batch
// size; that is the throttle against the remote API, not a worker pool
// with backpressure. Fetch failures skip the schema and the crawl
// continues. Flattening happens after the batch settles so output order
// follows server order.
func (s *Service) processSchemas(ctx context.Context, list []platform.SchemaSummary, total, done int, fields *[]FieldRecord, names *[]string) {
	for start := 0; start < len(list); start += s.cfg.BatchSize {
		end := start + s.cfg.BatchSize
		if end > len(list) {
			end = len(list)
		}
		batch := list[start:end]

		details := make([]*platform.SchemaDetail, len(batch))
		var wg sync.WaitGroup
		for i, sum := range batch {
			wg.Add(1)
			go func(i int, sum platform.SchemaSummary) {
				defer wg.Done()
				detail, err := s.source.GetSchema(ctx, sum.Container, sum.ID)
				if err != nil {
					log.Printf("dictionary: skipping schema %s: %v", sum.ID, err)
					return
				}
				details[i] = detail
			}(i, sum)
		}
		wg.Wait()

		for _, detail := range details {
			if detail == nil {
				continue
			}
			flattenSchema(detail, s.cfg.MaxDepth, fields, names)
		}

		done += len(batch)
		if s.cfg.OnProgress != nil {
			s.cfg.OnProgress(done, total)
		}
	}
}
