package segments

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

// Segment is an audience segment definition.
type Segment struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	EvaluationType string `json:"evaluation_type"`
}

// Stats summarizes the segment inventory.
type Stats struct {
	Total            int            `json:"total"`
	ByEvaluationType map[string]int `json:"by_evaluation_type"`
}

// Service lists segment definitions through the platform API.
type Service struct {
	api API
}

func NewService(api API) *Service {
	return &Service{api: api}
}

type segmentEntry struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	EvaluationInfo struct {
		Batch struct {
			Enabled bool `json:"enabled"`
		} `json:"batch"`
		Continuous struct {
			Enabled bool `json:"enabled"`
		} `json:"continuous"`
		Synchronous struct {
			Enabled bool `json:"enabled"`
		} `json:"synchronous"`
	} `json:"evaluationInfo"`
}

type segmentPage struct {
	Segments []segmentEntry `json:"segments"`
}

// List fetches segment definitions.
func (s *Service) List(ctx context.Context, limit int) ([]Segment, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	var page segmentPage
	if err := s.api.GetJSON(ctx, "/data/core/ups/segment/definitions", query, "", &page); err != nil {
		return nil, fmt.Errorf("listing segments: %w", err)
	}

	out := make([]Segment, 0, len(page.Segments))
	for _, entry := range page.Segments {
		out = append(out, Segment{
			ID:             entry.ID,
			Name:           entry.Name,
			EvaluationType: evaluationType(entry),
		})
	}
	return out, nil
}

// evaluationType collapses the evaluation flags into one label. Streaming
// wins over batch when both are enabled.
func evaluationType(entry segmentEntry) string {
	switch {
	case entry.EvaluationInfo.Synchronous.Enabled:
		return "edge"
	case entry.EvaluationInfo.Continuous.Enabled:
		return "streaming"
	case entry.EvaluationInfo.Batch.Enabled:
		return "batch"
	default:
		return "unknown"
	}
}

// Stats reshapes the inventory into dashboard counters.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	segments, err := s.List(ctx, 0)
	if err != nil {
		return nil, err
	}

	stats := &Stats{Total: len(segments), ByEvaluationType: map[string]int{}}
	for _, seg := range segments {
		stats.ByEvaluationType[seg.EvaluationType]++
	}
	return stats, nil
}
