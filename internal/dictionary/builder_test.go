package dictionary

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/dviselman/pconsole/internal/platform"
)

func TestBuildPartialFailureTolerance(t *testing.T) {
	summaries := makeSummaries(platform.ContainerTenant, 20)

	var mu sync.Mutex
	detailCalls := 0
	src := &fakeSource{
		listSchemas: singlePageList(summaries),
		getSchema: func(ctx context.Context, container platform.Container, id string) (*platform.SchemaDetail, error) {
			mu.Lock()
			detailCalls++
			mu.Unlock()
			// Two of the twenty schemas fail to fetch.
			if strings.HasSuffix(id, "schema-3") || strings.HasSuffix(id, "schema-7") {
				return nil, fmt.Errorf("upstream 500")
			}
			return simpleDetail("title-" + id), nil
		},
	}

	svc := NewService(src, Config{})
	dict := svc.buildDictionary(context.Background())

	if detailCalls != 20 {
		t.Errorf("expected 20 detail fetches, got %d", detailCalls)
	}
	if len(dict.SchemaNames) != 18 {
		t.Fatalf("expected 18 processed schemas, got %d", len(dict.SchemaNames))
	}
	for _, name := range dict.SchemaNames {
		if strings.HasSuffix(name, "schema-3") || strings.HasSuffix(name, "schema-7") {
			t.Errorf("failed schema %q present in output", name)
		}
	}
	if dict.Error != "" {
		t.Errorf("partial failure must not set the error field: %q", dict.Error)
	}
	// Two fields per successfully processed schema.
	if len(dict.Fields) != 36 {
		t.Errorf("expected 36 fields, got %d", len(dict.Fields))
	}
}

func TestBuildBatchingScenario(t *testing.T) {
	// 25 tenant schemas with batch size 20 -> two processing batches;
	// the global container is empty.
	summaries := makeSummaries(platform.ContainerTenant, 25)

	var progress [][2]int
	src := &fakeSource{
		listSchemas: singlePageList(summaries),
		getSchema: func(ctx context.Context, container platform.Container, id string) (*platform.SchemaDetail, error) {
			return simpleDetail("title-" + id), nil
		},
	}

	svc := NewService(src, Config{
		BatchSize: 20,
		OnProgress: func(done, total int) {
			progress = append(progress, [2]int{done, total})
		},
	})
	dict := svc.buildDictionary(context.Background())

	if dict.TotalSchemas != 25 {
		t.Errorf("expected totalSchemas 25, got %d", dict.TotalSchemas)
	}
	if len(dict.Fields) != 50 {
		t.Errorf("expected fields only from tenant (50), got %d", len(dict.Fields))
	}
	if len(progress) != 2 {
		t.Fatalf("expected 2 processing batches, got %d: %v", len(progress), progress)
	}
	if progress[0] != [2]int{20, 25} || progress[1] != [2]int{25, 25} {
		t.Errorf("unexpected batch progression: %v", progress)
	}
}

func TestBuildTenantProcessedBeforeGlobal(t *testing.T) {
	tenant := makeSummaries(platform.ContainerTenant, 2)
	global := makeSummaries(platform.ContainerGlobal, 2)

	var mu sync.Mutex
	var order []string
	src := &fakeSource{
		listSchemas: singlePageList(append(tenant, global...)),
		getSchema: func(ctx context.Context, container platform.Container, id string) (*platform.SchemaDetail, error) {
			mu.Lock()
			order = append(order, string(container))
			mu.Unlock()
			return simpleDetail("title-" + id), nil
		},
	}

	svc := NewService(src, Config{BatchSize: 1})
	dict := svc.buildDictionary(context.Background())

	if dict.TotalSchemas != 4 {
		t.Fatalf("expected 4 schemas, got %d", dict.TotalSchemas)
	}
	want := []string{"tenant", "tenant", "global", "global"}
	for i, c := range order {
		if c != want[i] {
			t.Fatalf("detail fetch order = %v, want tenant fully before global", order)
		}
	}
}

func TestBuildTotalFailureYieldsEmptyArtifact(t *testing.T) {
	src := &fakeSource{
		listSchemas: func(ctx context.Context, container platform.Container, start string, limit int) (*platform.SchemaPage, error) {
			return nil, fmt.Errorf("connection refused")
		},
	}

	svc := NewService(src, Config{})
	dict := svc.buildDictionary(context.Background())

	if dict == nil {
		t.Fatal("builder must never return nil")
	}
	if dict.Error == "" {
		t.Error("expected error indicator on total failure")
	}
	if len(dict.Fields) != 0 || len(dict.SchemaNames) != 0 {
		t.Errorf("expected empty artifact, got %d fields, %d schemas", len(dict.Fields), len(dict.SchemaNames))
	}
	if dict.Fields == nil || dict.SchemaNames == nil {
		t.Error("empty artifact must still marshal as [] not null")
	}
}

func TestBuildIncludeExcludeFilters(t *testing.T) {
	summaries := []platform.SchemaSummary{
		{ID: "id-1", Title: "Web Events", Container: platform.ContainerTenant},
		{ID: "id-2", Title: "Web Sessions", Container: platform.ContainerTenant},
		{ID: "id-3", Title: "CRM Contacts", Container: platform.ContainerTenant},
	}

	src := &fakeSource{
		listSchemas: singlePageList(summaries),
		getSchema: func(ctx context.Context, container platform.Container, id string) (*platform.SchemaDetail, error) {
			return simpleDetail(id), nil
		},
	}

	svc := NewService(src, Config{
		Include: []string{"Web *"},
		Exclude: []string{"* Sessions"},
	})
	dict := svc.buildDictionary(context.Background())

	if dict.TotalSchemas != 1 {
		t.Fatalf("expected only Web Events to pass the filters, got %v", dict.SchemaNames)
	}
	if dict.SchemaNames[0] != "id-1" {
		t.Errorf("wrong schema selected: %v", dict.SchemaNames)
	}
}
