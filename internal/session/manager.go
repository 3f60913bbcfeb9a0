package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// State tracks where the session is in the sign-in flow
type State int

const (
	Uninitialized State = iota
	BrowserReady
	AwaitingCredentials
	AwaitingPassword
	PostSubmit
	LoggedIn
	LoginFailed
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case BrowserReady:
		return "browser-ready"
	case AwaitingCredentials:
		return "awaiting-credentials"
	case AwaitingPassword:
		return "awaiting-password"
	case PostSubmit:
		return "post-submit"
	case LoggedIn:
		return "logged-in"
	case LoginFailed:
		return "login-failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// LoginForm describes the sign-in pages of the target site
type LoginForm struct {
	URL            string
	EmailField     string
	ContinueButton string
	PasswordField  string
	SubmitButton   string
	SignedInMarker string
}

// Manager owns at most one live page. Handle creation and teardown are
// guarded; navigations on the acquired page are serialized by the caller.
type Manager struct {
	launch     Launcher
	form       LoginForm
	timeouts   Timeouts
	screenshot string
	log        *zap.Logger

	mu    sync.Mutex
	page  Page
	state State
}

// Option customizes a Manager
type Option func(*Manager)

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.log = l
		}
	}
}

// WithTimeouts overrides the sign-in wait bounds
func WithTimeouts(t Timeouts) Option {
	return func(m *Manager) { m.timeouts = t }
}

// WithScreenshotPath sets where login diagnostics are written ("" disables them)
func WithScreenshotPath(path string) Option {
	return func(m *Manager) { m.screenshot = path }
}

// NewManager creates a manager that opens pages with launch on first use
func NewManager(launch Launcher, form LoginForm, opts ...Option) *Manager {
	m := &Manager{
		launch:     launch,
		form:       form,
		timeouts:   DefaultTimeouts(),
		screenshot: "login-error-screenshot.png",
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Acquire returns the live page, launching the browser if none is held
func (m *Manager) Acquire(ctx context.Context) (Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.page != nil {
		return m.page, nil
	}
	if m.launch == nil {
		return nil, errors.New("no browser launcher configured")
	}

	m.log.Info("Initializing browser")
	page, err := m.launch(ctx)
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}
	m.page = page
	m.state = BrowserReady
	return page, nil
}

// Teardown closes the browser and clears the handle. Safe to call when no
// session is live.
func (m *Manager) Teardown() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.page == nil {
		return nil
	}
	err := m.page.Close()
	m.page = nil
	m.state = Uninitialized
	m.log.Info("Browser closed")
	return err
}

// Active reports whether a page is currently held
func (m *Manager) Active() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.page != nil
}

// Authenticated reports whether a page is held and its last login succeeded
func (m *Manager) Authenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.page != nil && m.state == LoggedIn
}

// State returns the current sign-in state
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Manager) setState(s State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.page != nil {
		m.state = s
	}
}
