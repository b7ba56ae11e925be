package policies

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

// Policy is a data governance policy.
type Policy struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

// Stats summarizes the policy inventory.
type Stats struct {
	Total    int            `json:"total"`
	ByStatus map[string]int `json:"by_status"`
}

// Service lists governance policies through the platform API.
type Service struct {
	api API
}

func NewService(api API) *Service {
	return &Service{api: api}
}

type policyPage struct {
	Children []Policy `json:"children"`
}

// List fetches custom governance policies.
func (s *Service) List(ctx context.Context, limit int) ([]Policy, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	var page policyPage
	if err := s.api.GetJSON(ctx, "/data/foundation/dulepolicy/policies/custom", query, "", &page); err != nil {
		return nil, fmt.Errorf("listing policies: %w", err)
	}
	if page.Children == nil {
		return []Policy{}, nil
	}
	return page.Children, nil
}

// Stats reshapes the inventory into dashboard counters.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	policies, err := s.List(ctx, 0)
	if err != nil {
		return nil, err
	}

	stats := &Stats{Total: len(policies), ByStatus: map[string]int{}}
	for _, p := range policies {
		stats.ByStatus[p.Status]++
	}
	return stats, nil
}
