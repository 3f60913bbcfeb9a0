package session

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/v0xg/claimgen/internal/domain"
)

// Login runs the sign-in flow on the managed page. It returns (true, nil)
// once the signed-in marker is visible and (false, nil) when the flow ran to
// completion without signing in. Errors are reserved for missing
// credentials and flows that broke before a verdict (domain.ErrLoginFlow).
// Calling Login on a signed-in session repeats the flow.
func (m *Manager) Login(ctx context.Context, creds domain.Credentials) (bool, error) {
	if !creds.Complete() {
		return false, domain.ErrCredentialsMissing
	}

	page, err := m.Acquire(ctx)
	if err != nil {
		return false, fmt.Errorf("%w: %v", domain.ErrLoginFlow, err)
	}
	m.setState(BrowserReady)

	m.log.Info("Navigating to sign-in page")
	load := Step{Name: "sign-in page load", Timeout: m.timeouts.PageLoad}
	if _, err := load.Run(ctx, func(ctx context.Context) error {
		return page.Navigate(ctx, m.form.URL)
	}); err != nil {
		return false, m.fail(page, err)
	}
	m.setState(AwaitingCredentials)

	if page.Visible(ctx, m.form.EmailField) {
		m.log.Debug("Email field found, entering email")
		if err := page.Fill(ctx, m.form.EmailField, creds.Email); err != nil {
			return false, m.fail(page, fmt.Errorf("fill email: %w", err))
		}
		step := Step{Name: "navigation after continue", Timeout: m.timeouts.Navigation, Soft: true}
		outcome, err := step.Run(ctx, func(ctx context.Context) error {
			return page.ClickAndWait(ctx, m.form.ContinueButton)
		})
		if err != nil {
			return false, m.fail(page, err)
		}
		if outcome == SoftTimeout {
			m.log.Debug("Navigation after continue timed out")
		}
	} else {
		m.log.Debug("Email field not visible, expecting password entry")
	}
	m.setState(AwaitingPassword)

	step := Step{Name: "password field", Timeout: m.timeouts.Password}
	if _, err := step.Run(ctx, func(ctx context.Context) error {
		return page.WaitVisible(ctx, m.form.PasswordField)
	}); err != nil {
		return false, m.fail(page, err)
	}
	if err := page.Fill(ctx, m.form.PasswordField, creds.Password); err != nil {
		return false, m.fail(page, fmt.Errorf("fill password: %w", err))
	}

	step = Step{Name: "navigation after sign-in", Timeout: m.timeouts.PostLogin, Soft: true}
	outcome, err := step.Run(ctx, func(ctx context.Context) error {
		return page.ClickAndWait(ctx, m.form.SubmitButton)
	})
	if err != nil {
		return false, m.fail(page, err)
	}
	if outcome == SoftTimeout {
		m.log.Debug("Navigation after sign-in timed out")
	}
	m.setState(PostSubmit)

	info := page.Info()
	if !page.Visible(ctx, m.form.SignedInMarker) {
		m.log.Warn("Signed-in marker not visible",
			zap.String("url", info.URL),
			zap.String("title", info.Title))
		m.captureDiagnostics(page)
		m.setState(LoginFailed)
		return false, nil
	}

	m.log.Info("Login successful", zap.String("url", info.URL))
	m.setState(LoggedIn)
	return true, nil
}

// fail records a broken flow and wraps err as a login flow error
func (m *Manager) fail(page Page, err error) error {
	info := page.Info()
	m.log.Error("Error during login",
		zap.Error(err),
		zap.String("url", info.URL),
		zap.String("title", info.Title))
	m.captureDiagnostics(page)
	m.setState(LoginFailed)
	return fmt.Errorf("%w: %w", domain.ErrLoginFlow, err)
}

func (m *Manager) captureDiagnostics(page Page) {
	if m.screenshot == "" {
		return
	}
	if err := page.Screenshot(m.screenshot); err != nil {
		m.log.Warn("Failed to capture login screenshot", zap.Error(err))
		return
	}
	m.log.Info("Login screenshot saved", zap.String("path", m.screenshot))
}
