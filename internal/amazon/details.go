package amazon

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/v0xg/claimgen/internal/domain"
)

// ExtractLineItems loads the detail page of orderID and returns its items
func (s *Site) ExtractLineItems(ctx context.Context, orderID string) ([]domain.LineItem, error) {
	if !domain.ValidOrderID(orderID) {
		return nil, fmt.Errorf("%w: order id %q", domain.ErrInvalidRequest, orderID)
	}
	s.log.Debug("Fetching order details", zap.String("order_id", orderID))

	page, err := s.sessions.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.waitFor(ctx, page, OrderDetailURL(orderID), shipmentSelector, s.timeouts.Shipments); err != nil {
		return nil, fmt.Errorf("order %s: %w", orderID, err)
	}

	doc, err := page.HTML(ctx)
	if err != nil {
		return nil, fmt.Errorf("order %s: %w", orderID, err)
	}
	items, err := ParseLineItems(orderID, doc)
	if err != nil {
		return nil, fmt.Errorf("order %s: %w", orderID, err)
	}

	for _, item := range items {
		s.log.Debug("Product found",
			zap.String("order_id", orderID),
			zap.String("title", item.ProductTitle),
			zap.String("price", item.Price),
			zap.Int("quantity", item.Quantity),
			zap.String("total", item.Total))
	}
	return items, nil
}
