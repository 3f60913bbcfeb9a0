package amazon

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/v0xg/claimgen/internal/domain"
)

// FetchInvoice prints the invoice of orderID to an A4 PDF. Without a
// signed-in session it signs in with creds first.
func (s *Site) FetchInvoice(ctx context.Context, orderID string, creds domain.Credentials) ([]byte, error) {
	if !domain.ValidOrderID(orderID) {
		return nil, fmt.Errorf("%w: order id %q", domain.ErrInvalidRequest, orderID)
	}

	if !s.sessions.Authenticated() {
		s.log.Info("No signed-in session, logging in again", zap.String("order_id", orderID))
		ok, err := s.sessions.Login(ctx, creds)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrLoginFlow, err)
		}
		if !ok {
			return nil, fmt.Errorf("%w: %w", domain.ErrLoginFlow, domain.ErrLoginFailed)
		}
	}

	page, err := s.sessions.Acquire(ctx)
	if err != nil {
		return nil, err
	}

	url := InvoiceURL(orderID)
	s.log.Info("Downloading invoice", zap.String("url", url))
	if err := s.waitFor(ctx, page, url, invoiceSelector, s.timeouts.Invoice); err != nil {
		return nil, fmt.Errorf("invoice %s: %w", orderID, err)
	}

	pdf, err := page.PrintPDF(ctx)
	if err != nil {
		return nil, fmt.Errorf("invoice %s: %w", orderID, err)
	}
	return pdf, nil
}
