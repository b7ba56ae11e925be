package profiles

import (
	"context"
	"fmt"
	"net/url"
)

// API is the slice of the platform client used by this package.
type API interface {
	GetJSON(ctx context.Context, path string, query url.Values, accept string, out interface{}) error
}

// PreviewEstimate reports the last profile store sample.
type PreviewEstimate struct {
	TotalRows            int64  `json:"total_rows"`
	Status               string `json:"status"`
	LastUpdatedTimestamp int64  `json:"last_updated"`
}

// Namespace is an identity namespace.
type Namespace struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	IDType string `json:"id_type"`
}

// Service fetches profile store metadata through the platform API.
type Service struct {
	api API
}

func NewService(api API) *Service {
	return &Service{api: api}
}

type previewReport struct {
	TotalRows            int64  `json:"totalRows"`
	Status               string `json:"status"`
	LastUpdatedTimestamp int64  `json:"lastUpdatedTimestamp"`
}

// Preview fetches the latest profile count estimate.
func (s *Service) Preview(ctx context.Context) (*PreviewEstimate, error) {
	var report previewReport
	if err := s.api.GetJSON(ctx, "/data/core/ups/previewsamplestatus", nil, "", &report); err != nil {
		return nil, fmt.Errorf("fetching profile preview: %w", err)
	}
	return &PreviewEstimate{
		TotalRows:            report.TotalRows,
		Status:               report.Status,
		LastUpdatedTimestamp: report.LastUpdatedTimestamp,
	}, nil
}

type namespaceEntry struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	IDType string `json:"idType"`
}

// Namespaces lists the identity namespaces configured for the org.
func (s *Service) Namespaces(ctx context.Context) ([]Namespace, error) {
	var raw []namespaceEntry
	if err := s.api.GetJSON(ctx, "/data/core/idnamespace/identities", nil, "", &raw); err != nil {
		return nil, fmt.Errorf("listing identity namespaces: %w", err)
	}

	out := make([]Namespace, 0, len(raw))
	for _, entry := range raw {
		out = append(out, Namespace{Code: entry.Code, Name: entry.Name, IDType: entry.IDType})
	}
	return out, nil
}
