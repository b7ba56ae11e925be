package dictionary

import (
	"context"
	"log"

	"github.com/dviselman/pconsole/internal/platform"
)

// listPageFunc fetches one page of a schema index.
type listPageFunc func(ctx context.Context, start string, limit int) (*platform.SchemaPage, error)

// fetchAllPages follows the continuation cursor until the index is
// exhausted or maxItems accumulate. The remote API has no reliable total
// count, so the cap is what bounds an otherwise open-ended crawl.
//
// A page-fetch failure aborts pagination and returns whatever accumulated
// so far together with the error; partial results are usable (the
// dictionary is best-effort reference data) and the caller decides whether
// the error matters.
func fetchAllPages(ctx context.Context, list listPageFunc, pageSize, maxItems int) ([]platform.SchemaSummary, error) {
	var all []platform.SchemaSummary
	start := ""

	for {
		page, err := list(ctx, start, pageSize)
		if err != nil {
			log.Printf("dictionary: pagination stopped after %d items: %v", len(all), err)
			return all, err
		}
		if len(page.Results) == 0 {
			return all, nil
		}

		all = append(all, page.Results...)
		if len(all) >= maxItems {
			log.Printf("dictionary: pagination hit safety cap at %d items", len(all))
			return all, nil
		}
		if page.Page.Next == "" {
			return all, nil
		}
		start = page.Page.Next
	}
}

// fetchContainer retrieves the complete schema index of one container.
func (s *Service) fetchContainer(ctx context.Context, container platform.Container) ([]platform.SchemaSummary, error) {
	return fetchAllPages(ctx, func(ctx context.Context, start string, limit int) (*platform.SchemaPage, error) {
		return s.source.ListSchemas(ctx, container, start, limit)
	}, s.cfg.PageSize, s.cfg.MaxSchemas)
}

// fetchUnionIndex retrieves the complete union schema index.
func (s *Service) fetchUnionIndex(ctx context.Context) ([]platform.SchemaSummary, error) {
	return fetchAllPages(ctx, s.source.ListUnions, s.cfg.PageSize, s.cfg.MaxSchemas)
}
