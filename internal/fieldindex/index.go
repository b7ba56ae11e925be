package fieldindex

import (
	"context"
	"fmt"
	"strings"
	"sync"

	chromem "github.com/philippgille/chromem-go"

	"github.com/dviselman/pconsole/internal/dictionary"
)

const collectionName = "fields"

// Match is one semantic search hit against the field index.
type Match struct {
	Path        string  `json:"path"`
	Type        string  `json:"type"`
	Title       string  `json:"title,omitempty"`
	Description string  `json:"description,omitempty"`
	SchemaName  string  `json:"schema_name"`
	Similarity  float32 `json:"similarity"`
}

// Index is a semantic search index over dictionary fields, backed by an
// in-memory vector store. Reindex replaces the whole collection.
type Index struct {
	mu         sync.Mutex
	db         *chromem.DB
	collection *chromem.Collection
	embedFunc  chromem.EmbeddingFunc
}

// New creates an empty field index using the given embedding function.
func New(ef chromem.EmbeddingFunc) (*Index, error) {
	db := chromem.NewDB()
	col, err := db.GetOrCreateCollection(collectionName, nil, ef)
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}
	return &Index{db: db, collection: col, embedFunc: ef}, nil
}

// Reindex rebuilds the collection from the given dictionary. An errored or
// empty dictionary clears the index.
func (x *Index) Reindex(ctx context.Context, dict *dictionary.Dictionary) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	if err := x.db.DeleteCollection(collectionName); err != nil {
		return fmt.Errorf("reset collection: %w", err)
	}
	col, err := x.db.GetOrCreateCollection(collectionName, nil, x.embedFunc)
	if err != nil {
		return fmt.Errorf("create collection: %w", err)
	}
	x.collection = col

	if dict == nil || dict.Error != "" || len(dict.Fields) == 0 {
		return nil
	}

	docs := make([]chromem.Document, len(dict.Fields))
	for i, f := range dict.Fields {
		docs[i] = chromem.Document{
			ID:      f.SchemaName + "|" + f.Path,
			Content: fieldContent(f),
			Metadata: map[string]string{
				"path":        f.Path,
				"type":        f.Type,
				"title":       f.Title,
				"description": f.Description,
				"schema":      f.SchemaName,
			},
		}
	}
	if err := col.AddDocuments(ctx, docs, 1); err != nil {
		return fmt.Errorf("index fields: %w", err)
	}
	return nil
}

// Search returns up to limit fields ranked by similarity to the query.
func (x *Index) Search(ctx context.Context, query string, limit int) ([]Match, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("query is required")
	}
	if limit <= 0 {
		limit = 10
	}

	x.mu.Lock()
	col := x.collection
	x.mu.Unlock()

	// chromem-go requires nResults <= collection size.
	count := col.Count()
	if count == 0 {
		return []Match{}, nil
	}
	if limit > count {
		limit = count
	}

	results, err := col.Query(ctx, query, limit, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("field search: %w", err)
	}

	matches := make([]Match, len(results))
	for i, r := range results {
		matches[i] = Match{
			Path:        r.Metadata["path"],
			Type:        r.Metadata["type"],
			Title:       r.Metadata["title"],
			Description: r.Metadata["description"],
			SchemaName:  r.Metadata["schema"],
			Similarity:  r.Similarity,
		}
	}
	return matches, nil
}

// Count reports how many fields are indexed.
func (x *Index) Count() int {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.collection.Count()
}

// Persist writes the index to a file under dir.
func (x *Index) Persist(ctx context.Context, dir string) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.db.ExportToFile(dir+"/fields.gob.gz", true, "")
}

// Load restores a previously persisted index from dir.
func (x *Index) Load(ctx context.Context, dir string) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	if err := x.db.ImportFromFile(dir+"/fields.gob.gz", ""); err != nil {
		return fmt.Errorf("import field index: %w", err)
	}

	// Re-acquire the collection reference after import.
	col := x.db.GetCollection(collectionName, x.embedFunc)
	if col == nil {
		return fmt.Errorf("collection %q not found after import", collectionName)
	}
	x.collection = col
	return nil
}

// fieldContent is the text embedded for a field. Path, title, description
// and schema name all contribute to retrieval.
func fieldContent(f dictionary.FieldRecord) string {
	var b strings.Builder
	b.WriteString(f.Path)
	b.WriteString(" (")
	b.WriteString(f.Type)
	b.WriteString(")")
	if f.Title != "" {
		b.WriteString(" ")
		b.WriteString(f.Title)
	}
	if f.Description != "" {
		b.WriteString(": ")
		b.WriteString(f.Description)
	}
	b.WriteString(" in schema ")
	b.WriteString(f.SchemaName)
	return b.String()
}
