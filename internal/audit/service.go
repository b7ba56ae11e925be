package audit

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// API is the slice of the platform client used by this package.
type API interface {
	GetJSON(ctx context.Context, path string, query url.Values, accept string, out interface{}) error
}

// Event is a platform audit event.
type Event struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	User      string    `json:"user"`
	Action    string    `json:"action"`
	Resource  string    `json:"resource"`
	Status    string    `json:"status"`
}

// QueryFilter bounds the audit window passed through to the platform.
type QueryFilter struct {
	Since time.Time
	Until time.Time
	Limit int
}

// Service fetches audit events from the platform API.
type Service struct {
	api API
}

func NewService(api API) *Service {
	return &Service{api: api}
}

type eventPage struct {
	Embedded struct {
		Events []Event `json:"events"`
	} `json:"_embedded"`
}

// Query lists audit events in the given window, pass-through.
func (s *Service) Query(ctx context.Context, filter QueryFilter) ([]Event, error) {
	query := url.Values{}
	if !filter.Since.IsZero() {
		query.Set("startDate", filter.Since.UTC().Format(time.RFC3339))
	}
	if !filter.Until.IsZero() {
		query.Set("endDate", filter.Until.UTC().Format(time.RFC3339))
	}
	if filter.Limit > 0 {
		query.Set("limit", strconv.Itoa(filter.Limit))
	}

	var page eventPage
	if err := s.api.GetJSON(ctx, "/data/foundation/audit/events", query, "", &page); err != nil {
		return nil, fmt.Errorf("querying audit events: %w", err)
	}
	if page.Embedded.Events == nil {
		return []Event{}, nil
	}
	return page.Embedded.Events, nil
}
