package amazon

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/v0xg/claimgen/internal/domain"
	"github.com/v0xg/claimgen/internal/session"
	"github.com/v0xg/claimgen/internal/session/sessiontest"
)

var creds = domain.Credentials{Email: "user@example.com", Password: "hunter2"}

func newSite(t *testing.T, p *sessiontest.Page) (*Site, *session.Manager) {
	t.Helper()
	m := session.NewManager(sessiontest.Launcher(p, nil), LoginForm(),
		session.WithScreenshotPath(filepath.Join(t.TempDir(), "login.png")))
	return NewSite(m, DefaultTimeouts(), nil), m
}

// allowLogin makes the fake page accept the amazon sign-in flow
func allowLogin(p *sessiontest.Page) {
	form := LoginForm()
	p.SetPresent(form.EmailField, true)
	p.OnClick = func(p *sessiontest.Page, selector string) {
		switch selector {
		case form.ContinueButton:
			p.SetPresent(form.PasswordField, true)
		case form.SubmitButton:
			p.SetPresent(form.SignedInMarker, true)
		}
	}
}

func TestEnumerateOrders(t *testing.T) {
	ctx := context.Background()

	t.Run("deduplicates ids repeated across pages", func(t *testing.T) {
		p := sessiontest.NewPage()
		p.Docs[OrderHistoryURL(2023, 0)] = historyPage(true, "111-2222222", "333-4444444")
		p.Docs[OrderHistoryURL(2023, 10)] = historyPage(false, "333-4444444", "555-6666666")
		site, _ := newSite(t, p)

		orders, err := site.EnumerateOrders(ctx, 2023)
		require.NoError(t, err)
		assert.Equal(t, []string{"111-2222222", "333-4444444", "555-6666666"}, orders)
		assert.Equal(t, []string{OrderHistoryURL(2023, 0), OrderHistoryURL(2023, 10)}, p.Navigations)
	})

	t.Run("a page without order links times out", func(t *testing.T) {
		p := sessiontest.NewPage()
		p.Docs[OrderHistoryURL(2024, 0)] = historyPage(true, "111-2222222")
		p.Docs[OrderHistoryURL(2024, 10)] = historyPage(true)
		site, _ := newSite(t, p)

		orders, err := site.EnumerateOrders(ctx, 2024)
		assert.ErrorIs(t, err, domain.ErrScrapeTimeout)
		assert.Nil(t, orders)
		assert.Len(t, p.Navigations, 2)
	})

	t.Run("stops on a page whose links carry no ids", func(t *testing.T) {
		p := sessiontest.NewPage()
		p.Docs[OrderHistoryURL(2024, 0)] = historyPage(true, "111-2222222")
		p.Docs[OrderHistoryURL(2024, 10)] = `<html><body><a href="/gp/help?orderID=">Help</a>` +
			`<ul class="a-pagination"><li class="a-last"><a href="#">Next</a></li></ul></body></html>`
		site, _ := newSite(t, p)

		orders, err := site.EnumerateOrders(ctx, 2024)
		require.NoError(t, err)
		assert.Equal(t, []string{"111-2222222"}, orders)
		assert.Len(t, p.Navigations, 2)
	})

	t.Run("stops after the page cap", func(t *testing.T) {
		p := sessiontest.NewPage()
		for n := 0; n <= maxPages; n++ {
			p.Docs[OrderHistoryURL(2022, n*PageSize)] = historyPage(true, fmt.Sprintf("100-%07d", n))
		}
		site, _ := newSite(t, p)

		orders, err := site.EnumerateOrders(ctx, 2022)
		require.NoError(t, err)
		assert.Len(t, orders, maxPages)
		assert.Len(t, p.Navigations, maxPages)
	})

	t.Run("aborts when order links never appear", func(t *testing.T) {
		p := sessiontest.NewPage()
		p.Docs[OrderHistoryURL(2023, 0)] = historyPage(true, "111-2222222")
		p.Stalled[OrderHistoryURL(2023, 0)] = true
		site, _ := newSite(t, p)

		orders, err := site.EnumerateOrders(ctx, 2023)
		assert.ErrorIs(t, err, domain.ErrScrapeTimeout)
		assert.Nil(t, orders)
	})
}

func TestExtractLineItems(t *testing.T) {
	ctx := context.Background()

	t.Run("parses the detail page", func(t *testing.T) {
		p := sessiontest.NewPage()
		p.Docs[OrderDetailURL("111-2222222")] = detailPage
		site, _ := newSite(t, p)

		items, err := site.ExtractLineItems(ctx, "111-2222222")
		require.NoError(t, err)
		assert.Len(t, items, 3)
		assert.Equal(t, OrderDetailURL("111-2222222"), p.URL())
	})

	t.Run("times out when no shipment appears", func(t *testing.T) {
		p := sessiontest.NewPage()
		p.Docs[OrderDetailURL("555-6666666")] = detailPage
		p.Stalled[OrderDetailURL("555-6666666")] = true
		site, _ := newSite(t, p)

		_, err := site.ExtractLineItems(ctx, "555-6666666")
		assert.ErrorIs(t, err, domain.ErrScrapeTimeout)
	})

	t.Run("times out when the page never finishes loading", func(t *testing.T) {
		p := sessiontest.NewPage()
		p.Hung[OrderDetailURL("555-6666666")] = true
		site, _ := newSite(t, p)
		timeouts := DefaultTimeouts()
		timeouts.PageLoad = 20 * time.Millisecond
		site.timeouts = timeouts

		_, err := site.ExtractLineItems(ctx, "555-6666666")
		assert.ErrorIs(t, err, domain.ErrScrapeTimeout)
		assert.NotErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("rejects malformed ids", func(t *testing.T) {
		site, _ := newSite(t, sessiontest.NewPage())
		_, err := site.ExtractLineItems(ctx, "../etc")
		assert.ErrorIs(t, err, domain.ErrInvalidRequest)
	})
}

func TestFetchInvoice(t *testing.T) {
	ctx := context.Background()
	invoice := []byte("%PDF-1.7 invoice")

	t.Run("signs in when no session is live", func(t *testing.T) {
		p := sessiontest.NewPage()
		allowLogin(p)
		p.Docs[InvoiceURL("111-2222222")] = "<html><body>Invoice</body></html>"
		p.PDFs[InvoiceURL("111-2222222")] = invoice
		site, m := newSite(t, p)

		got, err := site.FetchInvoice(ctx, "111-2222222", creds)
		require.NoError(t, err)
		assert.Equal(t, invoice, got)
		assert.True(t, m.Authenticated())
		assert.Equal(t, []string{LoginForm().URL, InvoiceURL("111-2222222")}, p.Navigations)
	})

	t.Run("reuses a signed-in session", func(t *testing.T) {
		p := sessiontest.NewPage()
		allowLogin(p)
		p.Docs[InvoiceURL("111-2222222")] = "<html><body>Invoice</body></html>"
		p.PDFs[InvoiceURL("111-2222222")] = invoice
		site, m := newSite(t, p)

		ok, err := m.Login(ctx, creds)
		require.NoError(t, err)
		require.True(t, ok)

		_, err = site.FetchInvoice(ctx, "111-2222222", creds)
		require.NoError(t, err)
		assert.Len(t, p.Navigations, 2)
	})

	t.Run("fails when sign-in fails", func(t *testing.T) {
		p := sessiontest.NewPage()
		p.SetPresent(LoginForm().PasswordField, true)
		site, _ := newSite(t, p)

		_, err := site.FetchInvoice(ctx, "111-2222222", creds)
		assert.ErrorIs(t, err, domain.ErrLoginFlow)
		assert.ErrorIs(t, err, domain.ErrLoginFailed)
	})

	t.Run("fails without credentials", func(t *testing.T) {
		site, _ := newSite(t, sessiontest.NewPage())
		_, err := site.FetchInvoice(ctx, "111-2222222", domain.Credentials{})
		assert.ErrorIs(t, err, domain.ErrLoginFlow)
		assert.ErrorIs(t, err, domain.ErrCredentialsMissing)
	})
}
