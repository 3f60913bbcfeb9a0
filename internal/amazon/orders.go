package amazon

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// EnumerateOrders walks the order history of year page by page and returns
// each order id once, in the order first seen. A page whose order links never
// appear aborts the whole enumeration with domain.ErrScrapeTimeout.
func (s *Site) EnumerateOrders(ctx context.Context, year int) ([]string, error) {
	s.log.Info("Fetching all order numbers", zap.Int("year", year))

	page, err := s.sessions.Acquire(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var orders []string

	for start, n := 0, 0; n < maxPages; start, n = start+PageSize, n+1 {
		url := OrderHistoryURL(year, start)
		s.log.Debug("Fetching orders", zap.String("url", url))

		if err := s.waitFor(ctx, page, url, orderLinkSelector, s.timeouts.OrderLinks); err != nil {
			return nil, fmt.Errorf("order history page %d: %w", n+1, err)
		}
		doc, err := page.HTML(ctx)
		if err != nil {
			return nil, err
		}

		ids, err := ParseOrderIDs(doc)
		if err != nil {
			return nil, err
		}
		for _, id := range ids {
			if !seen[id] {
				seen[id] = true
				orders = append(orders, id)
			}
		}
		s.log.Info("Parsed order page",
			zap.Int("found", len(ids)),
			zap.Int("unique_total", len(orders)),
			zap.Int("start_index", start))

		if len(ids) == 0 {
			break
		}
		next, err := HasNextPage(doc)
		if err != nil {
			return nil, err
		}
		if !next {
			s.log.Debug("No more pages to fetch")
			break
		}
	}

	return orders, nil
}
