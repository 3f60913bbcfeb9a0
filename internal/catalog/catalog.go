// Package catalog fetches the HealthEquity lists of qualified medical expense
// categories used to decide HSA and FSA eligibility.
package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/v0xg/claimgen/internal/domain"
	"github.com/v0xg/claimgen/internal/session"
)

// Catalog pages per program
const (
	HSAURL = "https://www.healthequity.com/hsa-qme"
	FSAURL = "https://www.healthequity.com/fsa-qme"

	phraseSelector = "h5.header-3"

	// DefaultTimeout bounds loading one catalog page
	DefaultTimeout = 30 * time.Second
)

// URL returns the catalog page of a program
func URL(program domain.ClaimType) (string, error) {
	switch program {
	case domain.ClaimHSA:
		return HSAURL, nil
	case domain.ClaimFSA:
		return FSAURL, nil
	default:
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidClaimType, program)
	}
}

// Pages is the part of session.Manager the fetcher uses
type Pages interface {
	Acquire(ctx context.Context) (session.Page, error)
}

// Fetcher reads catalog phrases. Nothing is cached: every call loads the
// page again.
type Fetcher struct {
	pages   Pages
	timeout time.Duration
	log     *zap.Logger
}

// NewFetcher creates a catalog fetcher whose page loads are bounded by
// timeout. A nil logger disables logging.
func NewFetcher(pages Pages, timeout time.Duration, log *zap.Logger) *Fetcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Fetcher{pages: pages, timeout: timeout, log: log}
}

// Fetch returns the eligible-category phrases of program
func (f *Fetcher) Fetch(ctx context.Context, program domain.ClaimType) ([]string, error) {
	url, err := URL(program)
	if err != nil {
		return nil, err
	}
	f.log.Info("Fetching catalog", zap.String("program", program.Program()), zap.String("url", url))

	page, err := f.pages.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	var doc string
	load := session.Step{Name: "catalog load", Timeout: f.timeout}
	outcome, err := load.Run(ctx, func(ctx context.Context) error {
		var err error
		doc, err = page.Snapshot(ctx, url)
		return err
	})
	if outcome == session.HardTimeout {
		return nil, fmt.Errorf("%s catalog: %w: %v", program.Program(), domain.ErrScrapeTimeout, err)
	}
	if err != nil {
		return nil, fmt.Errorf("%s catalog: %w", program.Program(), err)
	}
	phrases, err := Parse(doc)
	if err != nil {
		return nil, fmt.Errorf("%s catalog: %w", program.Program(), err)
	}
	f.log.Info("Catalog fetched", zap.String("program", program.Program()), zap.Int("phrases", len(phrases)))
	return phrases, nil
}

// Parse returns the trimmed text of every h5.header-3 heading
func Parse(doc string) ([]string, error) {
	root, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		return nil, err
	}
	var phrases []string
	goquery.NewDocumentFromNode(root).Find(phraseSelector).Each(func(_ int, h *goquery.Selection) {
		if text := strings.TrimSpace(h.Text()); text != "" {
			phrases = append(phrases, text)
		}
	})
	return phrases, nil
}
