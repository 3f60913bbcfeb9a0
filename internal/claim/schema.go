package claim

import (
	"fmt"
	"strings"
	"time"

	"github.com/v0xg/claimgen/internal/domain"
)

// FieldKind distinguishes the form field types the schemas use
type FieldKind int

const (
	TextField FieldKind = iota
	CheckBox
)

func (k FieldKind) String() string {
	switch k {
	case TextField:
		return "text"
	case CheckBox:
		return "checkbox"
	default:
		return fmt.Sprintf("FieldKind(%d)", int(k))
	}
}

// FormField is a named field found in a template
type FormField struct {
	Name string
	Kind FieldKind
}

// FormValues are the values written into a template
type FormValues struct {
	Text   map[string]string
	Checks map[string]bool
}

// Fields lists every field the values touch, text fields first
func (v FormValues) Fields() []FormField {
	fields := make([]FormField, 0, len(v.Text)+len(v.Checks))
	for name := range v.Text {
		fields = append(fields, FormField{Name: name, Kind: TextField})
	}
	for name := range v.Checks {
		fields = append(fields, FormField{Name: name, Kind: CheckBox})
	}
	return fields
}

const (
	serviceProvider = "Amazon"
	dateLayout      = "1/2/2006"
)

// Values maps a request onto the field schema of its program. Values the
// request does not supply are written as empty strings.
func Values(req domain.ClaimRequest, today time.Time) (FormValues, error) {
	switch req.ClaimType {
	case domain.ClaimHSA:
		return hsaValues(req, today), nil
	case domain.ClaimFSA:
		return fsaValues(req, today), nil
	default:
		return FormValues{}, fmt.Errorf("%w: %q", domain.ErrInvalidClaimType, req.ClaimType)
	}
}

func hsaValues(req domain.ClaimRequest, today time.Time) FormValues {
	p := req.Profile
	return FormValues{Text: map[string]string{
		"Last Name":            p.LastName,
		"First Name":           p.FirstName,
		"Middle Initial":       p.MiddleInitial,
		"Street Address":       p.StreetAddress,
		"City":                 p.City,
		"State":                p.State,
		"Zip":                  p.ZipCode,
		"E-Mail Address":       req.Credentials.Email,
		"AC":                   p.AreaCode,
		"Phone":                p.PhoneNumber,
		"SSN or HEQ ID":        p.SSNOrHEQID,
		"Provider Name":        serviceProvider,
		"Date of expense":      req.OrderDate,
		"Patient Name":         p.FullName(),
		"Total Reimbursement":  req.OrderTotal,
		"Financial Insitution": p.BankName, // sic, matches the form
		"City/State":           bankLocation(p),
		"Routing number":       p.RoutingNumber,
		"Account number":       p.AccountNumber,
		"Name (please print)":  p.FullName(),
		"Date":                 today.Format(dateLayout),
	}}
}

func fsaValues(req domain.ClaimRequest, today time.Time) FormValues {
	p := req.Profile
	month, day, year := splitDate(req.OrderDate)
	checking := p.AccountType == domain.AccountChecking
	return FormValues{
		Text: map[string]string{
			"Last Name":              p.LastName,
			"First Name":             p.FirstName,
			"Middle Initial":         p.MiddleInitial,
			"Street Address":         p.StreetAddress,
			"City":                   p.City,
			"State":                  p.State,
			"Zip":                    p.ZipCode,
			"E-Mail Address":         req.Credentials.Email,
			"AC":                     p.AreaCode,
			"Day Phone":              p.PhoneNumber,
			"Company Name":           p.CompanyName,
			"Last 4 of SSN":          p.SSNOrHEQID,
			"Total Amount Requested": req.OrderTotal,
			"Date":                   today.Format(dateLayout),
			"Start DateMM 1":         month,
			"Start DateDD 1":         day,
			"Start DateYY 1":         year,
			"End DateMM 1":           month,
			"End DateDD 1":           day,
			"End DateYY 1":           year,
			"Service Provider 1":     serviceProvider,
			"Description 1":          req.ProductTitle,
			"Amount 1":               req.OrderTotal,
			"Financial Institution":  p.BankName,
			"City/state":             bankLocation(p),
			"Routing number":         p.RoutingNumber,
			"Account number":         p.AccountNumber,
		},
		Checks: map[string]bool{
			"Checking": checking,
			"Savings":  !checking,
		},
	}
}

func bankLocation(p domain.UserProfile) string {
	return p.BankCity + ", " + p.BankState
}

// splitDate splits "August 5, 2023" into month, day and year
func splitDate(date string) (month, day, year string) {
	parts := strings.Fields(date)
	get := func(i int) string {
		if i < len(parts) {
			return parts[i]
		}
		return ""
	}
	return get(0), strings.TrimSuffix(get(1), ","), get(2)
}
