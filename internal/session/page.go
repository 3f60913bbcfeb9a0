// Package session owns the single automated browser page and the sign-in flow
// that every scraping and claim operation runs through.
package session

import (
	"context"
	"time"
)

// Info is the URL and title of the page currently loaded
type Info struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

// Page is the browser tab the pipeline drives. Implementations bind every
// call to ctx; a deadline that expires inside a call surfaces as an error
// wrapping context.DeadlineExceeded.
type Page interface {
	// Navigate loads url and waits for the load event and a short network idle
	Navigate(ctx context.Context, url string) error

	// Visible reports whether selector currently matches a visible element
	Visible(ctx context.Context, selector string) bool

	// WaitVisible blocks until selector matches a visible element
	WaitVisible(ctx context.Context, selector string) error

	// Fill replaces the value of the input matched by selector
	Fill(ctx context.Context, selector, text string) error

	// ClickAndWait clicks selector and waits for the navigation it triggers
	ClickAndWait(ctx context.Context, selector string) error

	// HTML returns the serialized document of the current page
	HTML(ctx context.Context) (string, error)

	// Snapshot loads url in a separate tab and returns its HTML, leaving the
	// main page where it was
	Snapshot(ctx context.Context, url string) (string, error)

	// PrintPDF renders the current page as an A4 PDF
	PrintPDF(ctx context.Context) ([]byte, error)

	// Screenshot writes a PNG of the viewport to path
	Screenshot(path string) error

	Info() Info

	// Close releases the tab and the browser behind it
	Close() error
}

// Launcher opens a fresh browser and returns its page
type Launcher func(ctx context.Context) (Page, error)

// Timeouts bounds the waits used by the sign-in flow
type Timeouts struct {
	PageLoad   time.Duration // hard, loading the sign-in page
	Navigation time.Duration // soft, after clicking continue
	Password   time.Duration // hard, password field must appear
	PostLogin  time.Duration // soft, after submitting the password
}

// DefaultTimeouts returns the standard bounds for the sign-in flow
func DefaultTimeouts() Timeouts {
	return Timeouts{
		PageLoad:   30 * time.Second,
		Navigation: 5 * time.Second,
		Password:   10 * time.Second,
		PostLogin:  10 * time.Second,
	}
}
