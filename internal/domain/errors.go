package domain

import "errors"

var (
	// ErrCredentialsMissing is returned when a login is attempted without an email or password
	ErrCredentialsMissing = errors.New("site credentials missing")

	// ErrLoginFlow is returned when the sign-in flow breaks before a result can be judged
	ErrLoginFlow = errors.New("login flow error")

	// ErrLoginFailed is returned when the sign-in flow completed but the account is not signed in
	ErrLoginFailed = errors.New("login failed")

	// ErrScrapeTimeout is returned when an expected page marker never appears
	ErrScrapeTimeout = errors.New("scrape timeout")

	// ErrInvalidClaimType is returned for claim types other than hsa and fsa
	ErrInvalidClaimType = errors.New("invalid claim type")

	// ErrTemplateFieldMissing is returned when a claim template lacks a field the schema fills
	ErrTemplateFieldMissing = errors.New("template field missing")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")
)
