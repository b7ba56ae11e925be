package dictionary

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dviselman/pconsole/internal/platform"
)

// fakeSource is a SchemaSource backed by function fields. Unset functions
// behave as an empty registry.
type fakeSource struct {
	listSchemas func(ctx context.Context, container platform.Container, start string, limit int) (*platform.SchemaPage, error)
	getSchema   func(ctx context.Context, container platform.Container, id string) (*platform.SchemaDetail, error)
	listUnions  func(ctx context.Context, start string, limit int) (*platform.SchemaPage, error)
	getUnion    func(ctx context.Context, id string) (*platform.SchemaDetail, error)
}

func (f *fakeSource) ListSchemas(ctx context.Context, container platform.Container, start string, limit int) (*platform.SchemaPage, error) {
	if f.listSchemas == nil {
		return &platform.SchemaPage{}, nil
	}
	return f.listSchemas(ctx, container, start, limit)
}

func (f *fakeSource) GetSchema(ctx context.Context, container platform.Container, id string) (*platform.SchemaDetail, error) {
	if f.getSchema == nil {
		return nil, fmt.Errorf("no schema detail for %s", id)
	}
	return f.getSchema(ctx, container, id)
}

func (f *fakeSource) ListUnions(ctx context.Context, start string, limit int) (*platform.SchemaPage, error) {
	if f.listUnions == nil {
		return &platform.SchemaPage{}, nil
	}
	return f.listUnions(ctx, start, limit)
}

func (f *fakeSource) GetUnion(ctx context.Context, id string) (*platform.SchemaDetail, error) {
	if f.getUnion == nil {
		return nil, fmt.Errorf("no union detail for %s", id)
	}
	return f.getUnion(ctx, id)
}

// makeSummaries builds n index entries named <container>-schema-<i>.
func makeSummaries(container platform.Container, n int) []platform.SchemaSummary {
	out := make([]platform.SchemaSummary, n)
	for i := range out {
		out[i] = platform.SchemaSummary{
			ID:        fmt.Sprintf("https://ns.test/%s/schema-%d", container, i),
			Title:     fmt.Sprintf("%s-schema-%d", container, i),
			Container: container,
		}
	}
	return out
}

// singlePageList serves the given summaries as one page followed by
// exhausted pagination.
func singlePageList(summaries []platform.SchemaSummary) func(context.Context, platform.Container, string, int) (*platform.SchemaPage, error) {
	return func(ctx context.Context, container platform.Container, start string, limit int) (*platform.SchemaPage, error) {
		if start != "" {
			return &platform.SchemaPage{}, nil
		}
		var mine []platform.SchemaSummary
		for _, s := range summaries {
			if s.Container == container {
				mine = append(mine, s)
			}
		}
		page := &platform.SchemaPage{Results: mine}
		if len(mine) > 0 {
			page.Page.Next = "end"
		}
		return page, nil
	}
}

// simpleDetail returns a detail document with two string leaves.
func simpleDetail(title string) *platform.SchemaDetail {
	return &platform.SchemaDetail{
		ID:    "https://ns.test/" + title,
		Title: title,
		Properties: map[string]platform.FieldDef{
			"alpha": {Type: "string", Title: "Alpha"},
			"beta":  {Type: "number"},
		},
	}
}

// memStore is an in-memory FileStore for cache tests.
type memStore struct {
	mu       sync.Mutex
	files    map[string][]byte
	writeErr error
	writes   int
}

func newMemStore() *memStore {
	return &memStore{files: map[string][]byte{}}
}

func (m *memStore) Read(name string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[name]
	if !ok {
		return nil, fmt.Errorf("no such cache file %s", name)
	}
	return data, nil
}

func (m *memStore) Write(name string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
	if m.writeErr != nil {
		return m.writeErr
	}
	m.files[name] = data
	return nil
}

// fakeClock is a settable clock for TTL tests.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}
