// Package sessiontest provides an in-memory session.Page for tests.
package sessiontest

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"

	"github.com/v0xg/claimgen/internal/session"
)

// Page serves canned HTML by URL and records what the pipeline did to it.
//
// WaitVisible succeeds when the selector matches the current URL's document
// or is listed in Present; URLs listed in Stalled never satisfy a wait.
// Visible only consults Present. Navigating to or snapshotting a URL listed
// in Hung blocks until ctx is done.
type Page struct {
	mu sync.Mutex

	Docs    map[string]string
	PDFs    map[string][]byte
	Present map[string]bool
	Stalled map[string]bool
	Hung    map[string]bool

	// OnClick runs after a click is recorded, e.g. to reveal a selector
	OnClick func(p *Page, selector string)

	url         string
	Navigations []string
	Snapshots   []string
	Filled      map[string]string
	Clicks      []string
	Screenshots []string
	Closed      bool
}

var _ session.Page = (*Page)(nil)

// NewPage returns an empty fake page
func NewPage() *Page {
	return &Page{
		Docs:    make(map[string]string),
		PDFs:    make(map[string][]byte),
		Present: make(map[string]bool),
		Stalled: make(map[string]bool),
		Hung:    make(map[string]bool),
		Filled:  make(map[string]string),
	}
}

// Launcher returns a launcher that hands out p and counts launches
func Launcher(p *Page, launches *int) session.Launcher {
	return func(ctx context.Context) (session.Page, error) {
		if launches != nil {
			*launches++
		}
		p.mu.Lock()
		p.Closed = false
		p.mu.Unlock()
		return p, nil
	}
}

// SetPresent marks selector visible or hidden
func (p *Page) SetPresent(selector string, present bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Present[selector] = present
}

func (p *Page) Navigate(ctx context.Context, url string) error {
	p.mu.Lock()
	if p.Closed {
		p.mu.Unlock()
		return fmt.Errorf("navigate %s: page closed", url)
	}
	p.url = url
	p.Navigations = append(p.Navigations, url)
	hung := p.Hung[url]
	p.mu.Unlock()

	if hung {
		<-ctx.Done()
		return fmt.Errorf("navigate %s: %w", url, ctx.Err())
	}
	return nil
}

func (p *Page) Visible(ctx context.Context, selector string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.Present[selector]
}

func (p *Page) WaitVisible(ctx context.Context, selector string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Stalled[p.url] {
		return context.DeadlineExceeded
	}
	if doc, ok := p.Docs[p.url]; ok && matches(doc, selector) {
		return nil
	}
	if p.Present[selector] {
		return nil
	}
	return context.DeadlineExceeded
}

func (p *Page) Fill(ctx context.Context, selector, text string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Filled[selector] = text
	return nil
}

func (p *Page) ClickAndWait(ctx context.Context, selector string) error {
	p.mu.Lock()
	p.Clicks = append(p.Clicks, selector)
	hook := p.OnClick
	p.mu.Unlock()
	if hook != nil {
		hook(p, selector)
	}
	return nil
}

func (p *Page) HTML(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	doc, ok := p.Docs[p.url]
	if !ok {
		return "", fmt.Errorf("no document for %s", p.url)
	}
	return doc, nil
}

func (p *Page) Snapshot(ctx context.Context, url string) (string, error) {
	p.mu.Lock()
	p.Snapshots = append(p.Snapshots, url)
	hung := p.Hung[url]
	p.mu.Unlock()
	if hung {
		<-ctx.Done()
		return "", fmt.Errorf("snapshot %s: %w", url, ctx.Err())
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	doc, ok := p.Docs[url]
	if !ok {
		return "", fmt.Errorf("no document for %s", url)
	}
	return doc, nil
}

func (p *Page) PrintPDF(ctx context.Context) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	pdf, ok := p.PDFs[p.url]
	if !ok {
		return nil, fmt.Errorf("no pdf for %s", p.url)
	}
	return pdf, nil
}

func (p *Page) Screenshot(path string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Screenshots = append(p.Screenshots, path)
	if path == "" {
		return nil
	}
	return os.WriteFile(path, []byte("png"), 0o644)
}

func (p *Page) Info() session.Info {
	p.mu.Lock()
	defer p.mu.Unlock()
	return session.Info{URL: p.url, Title: "fake"}
}

func (p *Page) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Closed = true
	return nil
}

// URL returns the last navigated URL
func (p *Page) URL() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.url
}

// matches reports whether selector finds an element in doc
func matches(doc, selector string) bool {
	d, err := goquery.NewDocumentFromReader(strings.NewReader(doc))
	if err != nil {
		return false
	}
	return d.Find(selector).Length() > 0
}
