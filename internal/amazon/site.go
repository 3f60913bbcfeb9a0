// Package amazon scrapes order history, order details and printable invoices
// from amazon.com. All knowledge of the site's URLs and DOM landmarks lives here.
package amazon

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/v0xg/claimgen/internal/domain"
	"github.com/v0xg/claimgen/internal/session"
)

const (
	BaseURL = "https://www.amazon.com"

	signInURL = BaseURL + "/ap/signin?openid.pape.max_auth_age=0" +
		"&openid.return_to=https%3A%2F%2Fwww.amazon.com%2F%3Fref_%3Dnav_custrec_signin" +
		"&openid.identity=http%3A%2F%2Fspecs.openid.net%2Fauth%2F2.0%2Fidentifier_select" +
		"&openid.assoc_handle=usflex&openid.mode=checkid_setup" +
		"&openid.claimed_id=http%3A%2F%2Fspecs.openid.net%2Fauth%2F2.0%2Fidentifier_select" +
		"&openid.ns=http%3A%2F%2Fspecs.openid.net%2Fauth%2F2.0"

	// PageSize is how far startIndex advances per order-history page
	PageSize = 10

	// maxPages caps pagination in case the next control never disables
	maxPages = 100
)

// DOM landmarks
const (
	orderLinkSelector = `a[href*="orderID="]`
	shipmentSelector  = ".a-box.shipment"
	invoiceSelector   = "body"
)

// LoginForm is the amazon.com sign-in flow
func LoginForm() session.LoginForm {
	return session.LoginForm{
		URL:            signInURL,
		EmailField:     "#ap_email",
		ContinueButton: "#continue",
		PasswordField:  "#ap_password",
		SubmitButton:   "#signInSubmit",
		SignedInMarker: "#nav-orders",
	}
}

// OrderHistoryURL is the year-filtered order list starting at offset start
func OrderHistoryURL(year, start int) string {
	return fmt.Sprintf("%s/gp/css/history/orders/view.html?orderFilter=year-%d&startIndex=%d", BaseURL, year, start)
}

// OrderDetailURL is the detail page of one order
func OrderDetailURL(orderID string) string {
	return BaseURL + "/gp/your-account/order-details?orderID=" + url.QueryEscape(orderID)
}

// InvoiceURL is the printable invoice of one order
func InvoiceURL(orderID string) string {
	return BaseURL + "/gp/css/summary/print.html/ref=ppx_od_dt_b_invoice?ie=UTF8&orderID=" + url.QueryEscape(orderID)
}

// Sessions is the part of session.Manager the scraper uses
type Sessions interface {
	Acquire(ctx context.Context) (session.Page, error)
	Authenticated() bool
	Login(ctx context.Context, creds domain.Credentials) (bool, error)
}

// Timeouts bounds the hard waits for page markers
type Timeouts struct {
	PageLoad   time.Duration // navigation until the load event
	OrderLinks time.Duration
	Shipments  time.Duration
	Invoice    time.Duration
}

// DefaultTimeouts returns the standard marker waits
func DefaultTimeouts() Timeouts {
	return Timeouts{
		PageLoad:   30 * time.Second,
		OrderLinks: 60 * time.Second,
		Shipments:  30 * time.Second,
		Invoice:    30 * time.Second,
	}
}

// Site scrapes amazon.com through a managed session
type Site struct {
	sessions Sessions
	timeouts Timeouts
	log      *zap.Logger
}

// NewSite creates a scraper over sessions. A nil logger disables logging.
func NewSite(sessions Sessions, timeouts Timeouts, log *zap.Logger) *Site {
	if log == nil {
		log = zap.NewNop()
	}
	return &Site{sessions: sessions, timeouts: timeouts, log: log}
}

// waitFor loads url and waits for selector, mapping a hard timeout to
// domain.ErrScrapeTimeout
func (s *Site) waitFor(ctx context.Context, page session.Page, url, selector string, timeout time.Duration) error {
	load := session.Step{Name: "load", Timeout: s.timeouts.PageLoad}
	outcome, err := load.Run(ctx, func(ctx context.Context) error {
		return page.Navigate(ctx, url)
	})
	if outcome == session.HardTimeout {
		return fmt.Errorf("%w: %s: %v", domain.ErrScrapeTimeout, url, err)
	}
	if err != nil {
		return err
	}

	step := session.Step{Name: "wait for " + selector, Timeout: timeout}
	outcome, err = step.Run(ctx, func(ctx context.Context) error {
		return page.WaitVisible(ctx, selector)
	})
	if outcome == session.HardTimeout {
		return fmt.Errorf("%w: %s on %s: %v", domain.ErrScrapeTimeout, selector, url, err)
	}
	return err
}
