package datasets

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

// Dataset is a catalog dataset reshaped for the dashboard.
type Dataset struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	TableEnabled bool   `json:"table_enabled"`
	Created      int64  `json:"created"`
	Updated      int64  `json:"updated"`
}

// Stats summarizes the dataset inventory.
type Stats struct {
	Total        int       `json:"total"`
	TableEnabled int       `json:"table_enabled"`
	Recent       []Dataset `json:"recent"`
}

// Service lists catalog datasets through the platform API.
type Service struct {
	api API
}

func NewService(api API) *Service {
	return &Service{api: api}
}

// catalogEntry is the upstream representation. The catalog returns an
// object keyed by dataset id rather than an array.
type catalogEntry struct {
	Name         string `json:"name"`
	TableEnabled bool   `json:"tableEnabled"`
	Created      int64  `json:"created"`
	Updated      int64  `json:"updated"`
}

// List fetches the dataset inventory, newest updated first.
func (s *Service) List(ctx context.Context, limit int) ([]Dataset, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	var raw map[string]catalogEntry
	if err := s.api.GetJSON(ctx, "/data/foundation/catalog/dataSets", query, "", &raw); err != nil {
		return nil, fmt.Errorf("listing datasets: %w", err)
	}

	out := make([]Dataset, 0, len(raw))
	for id, entry := range raw {
		out = append(out, Dataset{
			ID:           id,
			Name:         entry.Name,
			TableEnabled: entry.TableEnabled,
			Created:      entry.Created,
			Updated:      entry.Updated,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Updated > out[j].Updated })
	return out, nil
}

// Stats reshapes the inventory into dashboard counters.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	datasets, err := s.List(ctx, 0)
	if err != nil {
		return nil, err
	}

	stats := &Stats{Total: len(datasets), Recent: []Dataset{}}
	for _, d := range datasets {
		if d.TableEnabled {
			stats.TableEnabled++
		}
	}
	if len(datasets) > 10 {
		datasets = datasets[:10]
	}
	stats.Recent = datasets
	return stats, nil
}
