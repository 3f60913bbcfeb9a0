package eligibility

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/v0xg/claimgen/internal/domain"
)

// Site enumerates orders and extracts their line items
type Site interface {
	EnumerateOrders(ctx context.Context, year int) ([]string, error)
	ExtractLineItems(ctx context.Context, orderID string) ([]domain.LineItem, error)
}

// Catalogs fetches the phrases of a program
type Catalogs interface {
	Fetch(ctx context.Context, program domain.ClaimType) ([]string, error)
}

// Session signs in and releases the browser
type Session interface {
	Login(ctx context.Context, creds domain.Credentials) (bool, error)
	Teardown() error
}

// Checker runs eligibility checks
type Checker struct {
	session  Session
	site     Site
	catalogs Catalogs
	log      *zap.Logger
}

// NewChecker wires a checker. A nil logger disables logging.
func NewChecker(session Session, site Site, catalogs Catalogs, log *zap.Logger) *Checker {
	if log == nil {
		log = zap.NewNop()
	}
	return &Checker{session: session, site: site, catalogs: catalogs, log: log}
}

// Check signs in, lists the orders of year, fetches both catalogs and
// classifies every line item. Sign-in, enumeration and catalog failures abort
// the check; a failing order is recorded in Failures and skipped. The browser
// is closed when the check returns.
func (c *Checker) Check(ctx context.Context, year int, creds domain.Credentials) (*domain.EligibilityResult, error) {
	log := c.log.With(zap.String("run_id", uuid.NewString()), zap.Int("year", year))
	started := time.Now()
	defer c.teardown(log)

	if err := c.login(ctx, creds); err != nil {
		return nil, err
	}

	orders, err := c.site.EnumerateOrders(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("enumerate orders: %w", err)
	}
	log.Info("Orders found", zap.Int("count", len(orders)))

	hsa, err := c.catalogs.Fetch(ctx, domain.ClaimHSA)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}
	fsa, err := c.catalogs.Fetch(ctx, domain.ClaimFSA)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}
	hsaCatalog, fsaCatalog := NewCatalog(hsa), NewCatalog(fsa)
	log.Info("Catalogs loaded", zap.Int("hsa_phrases", hsaCatalog.Len()), zap.Int("fsa_phrases", fsaCatalog.Len()))

	observe := func(program domain.ClaimType, item domain.LineItem, phrase string) {
		log.Info("Eligible product found",
			zap.String("program", program.Program()),
			zap.String("order_id", item.OrderID),
			zap.String("product", item.ProductTitle),
			zap.String("phrase", phrase))
	}

	result := &domain.EligibilityResult{}
	for _, orderID := range orders {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		items, err := c.site.ExtractLineItems(ctx, orderID)
		if err != nil {
			log.Warn("Skipping order", zap.String("order_id", orderID), zap.Error(err))
			result.Failures = append(result.Failures, domain.OrderFailure{OrderID: orderID, Reason: err.Error()})
			continue
		}
		matched := match(items, hsaCatalog, fsaCatalog, observe)
		result.HSAOrders = append(result.HSAOrders, matched.HSAOrders...)
		result.FSAOrders = append(result.FSAOrders, matched.FSAOrders...)
	}

	log.Info("Eligibility check complete",
		zap.Int("hsa", len(result.HSAOrders)),
		zap.Int("fsa", len(result.FSAOrders)),
		zap.Int("skipped", len(result.Failures)),
		zap.Duration("elapsed", time.Since(started)))
	return result, nil
}

// Orders signs in and lists the order ids of year
func (c *Checker) Orders(ctx context.Context, year int, creds domain.Credentials) ([]string, error) {
	defer c.teardown(c.log)

	if err := c.login(ctx, creds); err != nil {
		return nil, err
	}
	orders, err := c.site.EnumerateOrders(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("enumerate orders: %w", err)
	}
	return orders, nil
}

func (c *Checker) login(ctx context.Context, creds domain.Credentials) error {
	ok, err := c.session.Login(ctx, creds)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrLoginFailed, err)
	}
	if !ok {
		return domain.ErrLoginFailed
	}
	return nil
}

func (c *Checker) teardown(log *zap.Logger) {
	if err := c.session.Teardown(); err != nil {
		log.Warn("Failed to close browser", zap.Error(err))
	}
}
