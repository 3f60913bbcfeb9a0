package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// ClaimType selects the benefit program a claim targets
type ClaimType string

const (
	ClaimHSA ClaimType = "hsa"
	ClaimFSA ClaimType = "fsa"
)

// ParseClaimType normalizes user input into a ClaimType
func ParseClaimType(s string) (ClaimType, error) {
	switch ClaimType(strings.ToLower(strings.TrimSpace(s))) {
	case ClaimHSA:
		return ClaimHSA, nil
	case ClaimFSA:
		return ClaimFSA, nil
	default:
		return "", fmt.Errorf("%w: %q (supported: hsa, fsa)", ErrInvalidClaimType, s)
	}
}

// Program returns the upper-case program name used in artifact file names
func (c ClaimType) Program() string {
	return strings.ToUpper(string(c))
}

// Credentials are the sign-in details for the order site
type Credentials struct {
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
}

// Complete reports whether both email and password are present
func (c Credentials) Complete() bool {
	return c.Email != "" && c.Password != ""
}

// Account types for the reimbursement deposit
const (
	AccountChecking = "checking"
	AccountSavings  = "savings"
)

// UserProfile is the claimant data printed on claim forms
type UserProfile struct {
	FirstName     string `yaml:"first_name"`
	LastName      string `yaml:"last_name"`
	MiddleInitial string `yaml:"middle_initial"`
	StreetAddress string `yaml:"street_address"`
	City          string `yaml:"city"`
	State         string `yaml:"state"`
	ZipCode       string `yaml:"zip_code"`
	AreaCode      string `yaml:"area_code"`
	PhoneNumber   string `yaml:"phone_number"`
	SSNOrHEQID    string `yaml:"ssn_or_heq_id"`
	CompanyName   string `yaml:"company_name"`

	BankName      string `yaml:"bank_name"`
	BankCity      string `yaml:"bank_city"`
	BankState     string `yaml:"bank_state"`
	RoutingNumber string `yaml:"routing_number"`
	AccountNumber string `yaml:"account_number"`
	AccountType   string `yaml:"account_type"` // checking or savings
}

// FullName joins first and last name
func (p UserProfile) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// ClaimRequest carries everything needed to build one claim document
type ClaimRequest struct {
	OrderID      string
	ProductTitle string
	ClaimType    ClaimType
	OrderDate    string
	OrderTotal   string
	Price        string
	Quantity     int
	Credentials  Credentials
	Profile      UserProfile
}

var orderIDPattern = regexp.MustCompile(`^[0-9A-Za-z-]+$`)

// ValidOrderID reports whether id is safe to embed in URLs and file names
func ValidOrderID(id string) bool {
	return orderIDPattern.MatchString(id)
}

// Validate checks the fields the request boundary must supply
func (r ClaimRequest) Validate() error {
	var missing []string
	if r.OrderID == "" {
		missing = append(missing, "order id")
	}
	if r.ProductTitle == "" {
		missing = append(missing, "product title")
	}
	if r.ClaimType == "" {
		missing = append(missing, "claim type")
	}
	if r.OrderDate == "" {
		missing = append(missing, "order date")
	}
	if r.OrderTotal == "" {
		missing = append(missing, "order total")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrInvalidRequest, strings.Join(missing, ", "))
	}
	if !r.Credentials.Complete() {
		return ErrCredentialsMissing
	}
	if !ValidOrderID(r.OrderID) {
		return fmt.Errorf("%w: order id %q", ErrInvalidRequest, r.OrderID)
	}
	return nil
}

// ClaimArtifact references a persisted claim document
type ClaimArtifact struct {
	Ref  string `json:"pdfPath"` // path relative to the public directory, e.g. /claims/HSA_Claim_1.pdf
	File string `json:"file"`    // location on disk
}
