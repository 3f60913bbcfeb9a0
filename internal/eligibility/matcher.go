// Package eligibility classifies purchased items against the HSA and FSA
// catalogs and runs the end-to-end eligibility check.
package eligibility

import (
	"strings"

	"github.com/v0xg/claimgen/internal/domain"
)

// Catalog is a prepared set of phrases for case-insensitive containment tests
type Catalog struct {
	phrases []string
	lowered []string
}

// NewCatalog lowercases phrases once; blank phrases are dropped since they
// would match every title
func NewCatalog(phrases []string) Catalog {
	c := Catalog{}
	for _, p := range phrases {
		if strings.TrimSpace(p) == "" {
			continue
		}
		c.phrases = append(c.phrases, p)
		c.lowered = append(c.lowered, strings.ToLower(p))
	}
	return c
}

// Len returns the number of usable phrases
func (c Catalog) Len() int {
	return len(c.phrases)
}

// Find returns the first phrase contained in title
func (c Catalog) Find(title string) (string, bool) {
	t := strings.ToLower(title)
	for i, p := range c.lowered {
		if strings.Contains(t, p) {
			return c.phrases[i], true
		}
	}
	return "", false
}

// Matches reports whether some phrase is a case-insensitive substring of title
func Matches(title string, phrases []string) bool {
	_, ok := NewCatalog(phrases).Find(title)
	return ok
}

// Match sorts items into HSA and FSA records. Each catalog is tested
// independently; an item matching several phrases is added once per catalog.
func Match(items []domain.LineItem, hsa, fsa []string) domain.EligibilityResult {
	return match(items, NewCatalog(hsa), NewCatalog(fsa), nil)
}

// matchFunc observes each match, e.g. for logging
type matchFunc func(program domain.ClaimType, item domain.LineItem, phrase string)

func match(items []domain.LineItem, hsa, fsa Catalog, observe matchFunc) domain.EligibilityResult {
	var result domain.EligibilityResult
	for _, item := range items {
		if phrase, ok := hsa.Find(item.ProductTitle); ok {
			result.HSAOrders = append(result.HSAOrders, item.Record())
			if observe != nil {
				observe(domain.ClaimHSA, item, phrase)
			}
		}
		if phrase, ok := fsa.Find(item.ProductTitle); ok {
			result.FSAOrders = append(result.FSAOrders, item.Record())
			if observe != nil {
				observe(domain.ClaimFSA, item, phrase)
			}
		}
	}
	return result
}
