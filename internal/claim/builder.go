// Package claim assembles reimbursement claim documents: a filled program
// form followed by the printed order invoice.
package claim

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/v0xg/claimgen/internal/domain"
)

// Forms reads, fills and merges PDF documents
type Forms interface {
	Fields(template []byte) ([]FormField, error)
	Fill(template []byte, values FormValues) ([]byte, error)
	Merge(docs ...[]byte) ([]byte, error)
}

// InvoiceFetcher prints the invoice of an order
type InvoiceFetcher interface {
	FetchInvoice(ctx context.Context, orderID string, creds domain.Credentials) ([]byte, error)
}

// claimsDir is the directory under the public root that holds claims
const claimsDir = "claims"

// Builder produces claim documents
type Builder struct {
	templates *TemplateStore
	forms     Forms
	invoices  InvoiceFetcher
	publicDir string
	now       func() time.Time
	log       *zap.Logger
}

// Option configures a Builder
type Option func(*Builder)

// WithLogger sets the builder logger
func WithLogger(log *zap.Logger) Option {
	return func(b *Builder) {
		if log != nil {
			b.log = log
		}
	}
}

// WithClock overrides the clock used for the form's signature date
func WithClock(now func() time.Time) Option {
	return func(b *Builder) { b.now = now }
}

// NewBuilder returns a builder writing claims below publicDir
func NewBuilder(templates *TemplateStore, forms Forms, invoices InvoiceFetcher, publicDir string, opts ...Option) *Builder {
	b := &Builder{
		templates: templates,
		forms:     forms,
		invoices:  invoices,
		publicDir: publicDir,
		now:       time.Now,
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// ArtifactName returns the file name of the claim for orderID
func ArtifactName(claimType domain.ClaimType, orderID string) string {
	return fmt.Sprintf("%s_Claim_%s.pdf", claimType.Program(), orderID)
}

// Build fills the program form, appends the invoice and persists the result.
// Nothing is written unless every step succeeds.
func (b *Builder) Build(ctx context.Context, req domain.ClaimRequest) (domain.ClaimArtifact, error) {
	var artifact domain.ClaimArtifact

	values, err := Values(req, b.now())
	if err != nil {
		return artifact, err
	}
	if !domain.ValidOrderID(req.OrderID) {
		return artifact, fmt.Errorf("%w: order id %q", domain.ErrInvalidRequest, req.OrderID)
	}

	log := b.log.With(zap.String("order_id", req.OrderID), zap.String("program", req.ClaimType.Program()))

	template, err := b.templates.Load(req.ClaimType)
	if err != nil {
		return artifact, err
	}
	if err := b.verify(template, values); err != nil {
		return artifact, err
	}

	filled, err := b.forms.Fill(template, values)
	if err != nil {
		return artifact, fmt.Errorf("fill form: %w", err)
	}
	log.Debug("Form filled", zap.Int("fields", len(values.Text)+len(values.Checks)))

	invoice, err := b.invoices.FetchInvoice(ctx, req.OrderID, req.Credentials)
	if err != nil {
		return artifact, fmt.Errorf("fetch invoice: %w", err)
	}

	merged, err := b.forms.Merge(filled, invoice)
	if err != nil {
		return artifact, fmt.Errorf("merge invoice: %w", err)
	}

	name := ArtifactName(req.ClaimType, req.OrderID)
	file := filepath.Join(b.publicDir, claimsDir, name)
	if err := writeFileAtomic(file, merged); err != nil {
		return artifact, fmt.Errorf("save claim: %w", err)
	}

	artifact = domain.ClaimArtifact{Ref: path.Join("/", claimsDir, name), File: file}
	log.Info("Claim generated", zap.String("file", file), zap.Int("bytes", len(merged)))
	return artifact, nil
}

// verify checks that the template has every field the values write
func (b *Builder) verify(template []byte, values FormValues) error {
	fields, err := b.forms.Fields(template)
	if err != nil {
		return fmt.Errorf("read template fields: %w", err)
	}
	kinds := make(map[string]FieldKind, len(fields))
	for _, f := range fields {
		kinds[f.Name] = f.Kind
	}

	want := values.Fields()
	sort.Slice(want, func(i, j int) bool { return want[i].Name < want[j].Name })
	for _, f := range want {
		kind, ok := kinds[f.Name]
		if !ok {
			return fmt.Errorf("%w: %q", domain.ErrTemplateFieldMissing, f.Name)
		}
		if kind != f.Kind {
			return fmt.Errorf("%w: %q is a %s field, want %s", domain.ErrTemplateFieldMissing, f.Name, kind, f.Kind)
		}
	}
	return nil
}

func writeFileAtomic(file string, data []byte) error {
	dir := filepath.Dir(file)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".claim-*.pdf")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), file)
}
