package claim

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/v0xg/claimgen/internal/domain"
)

// TemplateName returns the file name of the blank form for claimType
func TemplateName(claimType domain.ClaimType) (string, error) {
	switch claimType {
	case domain.ClaimHSA, domain.ClaimFSA:
		return claimType.Program() + "_Reimbursement_Form.pdf", nil
	default:
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidClaimType, claimType)
	}
}

// TemplateStore reads blank claim forms from a directory
type TemplateStore struct {
	dir string
}

// NewTemplateStore returns a store rooted at dir
func NewTemplateStore(dir string) *TemplateStore {
	return &TemplateStore{dir: dir}
}

// Load reads the template of claimType
func (s *TemplateStore) Load(claimType domain.ClaimType) ([]byte, error) {
	name, err := TemplateName(claimType)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return nil, fmt.Errorf("load template: %w", err)
	}
	return data, nil
}
