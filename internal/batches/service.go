package batches

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"
)

// API is the slice of the platform client used by this package.
type API interface {
	GetJSON(ctx context.Context, path string, query url.Values, accept string, out interface{}) error
}

// Batch is an ingestion batch reshaped for the dashboard.
type Batch struct {
	ID      string `json:"id"`
	Status  string `json:"status"`
	Created int64  `json:"created"`
	Updated int64  `json:"updated"`
}

// Stats summarizes recent ingestion activity.
type Stats struct {
	Total           int            `json:"total"`
	ByStatus        map[string]int `json:"by_status"`
	LatestIngestion int64          `json:"latest_ingestion"`
	Recent          []Batch        `json:"recent"`
}

// Service lists ingestion batches through the platform API.
type Service struct {
	api API
}

func NewService(api API) *Service {
	return &Service{api: api}
}

type catalogEntry struct {
	Status  string `json:"status"`
	Created int64  `json:"created"`
	Updated int64  `json:"updated"`
}

// List fetches recent batches, newest created first.
func (s *Service) List(ctx context.Context, limit int) ([]Batch, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	query.Set("orderBy", "desc:created")

	var raw map[string]catalogEntry
	if err := s.api.GetJSON(ctx, "/data/foundation/catalog/batches", query, "", &raw); err != nil {
		return nil, fmt.Errorf("listing batches: %w", err)
	}

	out := make([]Batch, 0, len(raw))
	for id, entry := range raw {
		out = append(out, Batch{
			ID:      id,
			Status:  entry.Status,
			Created: entry.Created,
			Updated: entry.Updated,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Created > out[j].Created })
	return out, nil
}

// Stats reshapes ingestion activity into dashboard counters.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	batches, err := s.List(ctx, 0)
	if err != nil {
		return nil, err
	}

	stats := &Stats{
		Total:    len(batches),
		ByStatus: map[string]int{},
		Recent:   []Batch{},
	}
	for _, b := range batches {
		stats.ByStatus[b.Status]++
		if b.Status == "success" && b.Updated > stats.LatestIngestion {
			stats.LatestIngestion = b.Updated
		}
	}
	if len(batches) > 10 {
		batches = batches[:10]
	}
	stats.Recent = batches
	return stats, nil
}
