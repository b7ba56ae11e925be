package platform

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// Container identifies a schema registry namespace partition.
type Container string

const (
	// ContainerTenant holds customer-defined schemas.
	ContainerTenant Container = "tenant"
	// ContainerGlobal holds platform-provided schemas.
	ContainerGlobal Container = "global"
)

const (
	acceptSchemaID   = "application/vnd.platform.xed-id+json"
	acceptSchemaFull = "application/vnd.platform.xed-full+json; version=1"
)

// SchemaSummary is one entry from a container's schema index.
type SchemaSummary struct {
	ID        string    `json:"$id"`
	AltID     string    `json:"meta:altId,omitempty"`
	Title     string    `json:"title"`
	Container Container `json:"-"`
}

// FieldDef is a JSON-Schema-like node. Self-similar: nested Properties
// values are themselves FieldDefs.
type FieldDef struct {
	Type        string              `json:"type,omitempty"`
	Title       string              `json:"title,omitempty"`
	Description string              `json:"description,omitempty"`
	Properties  map[string]FieldDef `json:"properties,omitempty"`
	Items       *FieldDef           `json:"items,omitempty"`
	Enum        []string            `json:"enum,omitempty"`
	AllOf       []FieldDef          `json:"allOf,omitempty"`
	Ref         string              `json:"$ref,omitempty"`
}

// SchemaDetail is the full document for one schema.
type SchemaDetail struct {
	ID         string              `json:"$id"`
	Title      string              `json:"title"`
	Properties map[string]FieldDef `json:"properties,omitempty"`
	AllOf      []FieldDef          `json:"allOf,omitempty"`
	Required   []string            `json:"required,omitempty"`
}

// SchemaPage is one page of a container listing.
type SchemaPage struct {
	Results []SchemaSummary `json:"results"`
	Page    struct {
		Next string `json:"next"`
	} `json:"_page"`
}

// ListSchemas fetches one page of the container's schema index. An empty
// start cursor requests the first page; the response's _page.next cursor
// (empty when exhausted) continues the listing.
func (c *Client) ListSchemas(ctx context.Context, container Container, start string, limit int) (*SchemaPage, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	if start != "" {
		q.Set("start", start)
	}

	var page SchemaPage
	path := fmt.Sprintf("/data/foundation/schemaregistry/%s/schemas", container)
	if err := c.GetJSON(ctx, path, q, acceptSchemaID, &page); err != nil {
		return nil, err
	}
	for i := range page.Results {
		page.Results[i].Container = container
	}
	return &page, nil
}

// GetSchema fetches the full document for one schema by its $id.
func (c *Client) GetSchema(ctx context.Context, container Container, id string) (*SchemaDetail, error) {
	var detail SchemaDetail
	path := fmt.Sprintf("/data/foundation/schemaregistry/%s/schemas/%s", container, url.PathEscape(id))
	if err := c.GetJSON(ctx, path, nil, acceptSchemaFull, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// ListUnions fetches one page of the union schema index.
func (c *Client) ListUnions(ctx context.Context, start string, limit int) (*SchemaPage, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	if start != "" {
		q.Set("start", start)
	}

	var page SchemaPage
	if err := c.GetJSON(ctx, "/data/foundation/schemaregistry/tenant/unions", q, acceptSchemaID, &page); err != nil {
		return nil, err
	}
	for i := range page.Results {
		page.Results[i].Container = ContainerTenant
	}
	return &page, nil
}

// GetUnion fetches the full document for one union schema by its $id.
func (c *Client) GetUnion(ctx context.Context, id string) (*SchemaDetail, error) {
	var detail SchemaDetail
	path := "/data/foundation/schemaregistry/tenant/unions/" + url.PathEscape(id)
	if err := c.GetJSON(ctx, path, nil, acceptSchemaFull, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}
