package dataflows

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// API is the slice of the platform client used by this package.
type API interface {
	GetJSON(ctx context.Context, path string, query url.Values, accept string, out interface{}) error
}

// Flow is a data ingestion flow.
type Flow struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	State   string `json:"state"`
	LastRun int64  `json:"last_run"`
}

// Stats summarizes the flow inventory.
type Stats struct {
	Total    int `json:"total"`
	Enabled  int `json:"enabled"`
	Disabled int `json:"disabled"`
}

// Service lists data flows through the platform API.
type Service struct {
	api API
}

func NewService(api API) *Service {
	return &Service{api: api}
}

type flowEntry struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	State         string `json:"state"`
	LastRunDetail struct {
		StartedAtUTC int64 `json:"startedAtUTC"`
	} `json:"lastRunDetails"`
}

type flowPage struct {
	Items []flowEntry `json:"items"`
}

// List fetches the flow inventory.
func (s *Service) List(ctx context.Context, limit int) ([]Flow, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	var page flowPage
	if err := s.api.GetJSON(ctx, "/data/foundation/flowservice/flows", query, "", &page); err != nil {
		return nil, fmt.Errorf("listing dataflows: %w", err)
	}

	out := make([]Flow, 0, len(page.Items))
	for _, entry := range page.Items {
		out = append(out, Flow{
			ID:      entry.ID,
			Name:    entry.Name,
			State:   entry.State,
			LastRun: entry.LastRunDetail.StartedAtUTC,
		})
	}
	return out, nil
}

// Stats reshapes the inventory into dashboard counters.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	flows, err := s.List(ctx, 0)
	if err != nil {
		return nil, err
	}

	stats := &Stats{Total: len(flows)}
	for _, f := range flows {
		if f.State == "enabled" {
			stats.Enabled++
		} else {
			stats.Disabled++
		}
	}
	return stats, nil
}
