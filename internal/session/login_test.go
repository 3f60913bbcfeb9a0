package session_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/v0xg/claimgen/internal/domain"
	"github.com/v0xg/claimgen/internal/session"
	"github.com/v0xg/claimgen/internal/session/sessiontest"
)

var testForm = session.LoginForm{
	URL:            "https://example.test/signin",
	EmailField:     "#email",
	ContinueButton: "#continue",
	PasswordField:  "#password",
	SubmitButton:   "#submit",
	SignedInMarker: "#orders",
}

var creds = domain.Credentials{Email: "user@example.com", Password: "hunter2"}

// signInPage reveals the password field after continue and the signed-in
// marker after submit, like the real two-step form.
func signInPage() *sessiontest.Page {
	p := sessiontest.NewPage()
	p.SetPresent("#email", true)
	p.OnClick = func(p *sessiontest.Page, selector string) {
		switch selector {
		case "#continue":
			p.SetPresent("#password", true)
		case "#submit":
			p.SetPresent("#orders", true)
		}
	}
	return p
}

func newManager(t *testing.T, p *sessiontest.Page, launches *int) *session.Manager {
	t.Helper()
	shot := filepath.Join(t.TempDir(), "login-error.png")
	return session.NewManager(sessiontest.Launcher(p, launches), testForm, session.WithScreenshotPath(shot))
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("signs in through email and password steps", func(t *testing.T) {
		p := signInPage()
		m := newManager(t, p, nil)

		ok, err := m.Login(ctx, creds)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, session.LoggedIn, m.State())
		assert.True(t, m.Authenticated())
		assert.Equal(t, "user@example.com", p.Filled["#email"])
		assert.Equal(t, "hunter2", p.Filled["#password"])
		assert.Equal(t, []string{"#continue", "#submit"}, p.Clicks)
		assert.Empty(t, p.Screenshots)
	})

	t.Run("skips email entry when the form starts at the password", func(t *testing.T) {
		p := sessiontest.NewPage()
		p.SetPresent("#password", true)
		p.OnClick = func(p *sessiontest.Page, selector string) {
			if selector == "#submit" {
				p.SetPresent("#orders", true)
			}
		}
		m := newManager(t, p, nil)

		ok, err := m.Login(ctx, creds)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.NotContains(t, p.Filled, "#email")
		assert.Equal(t, []string{"#submit"}, p.Clicks)
	})

	t.Run("is idempotent on a signed-in session", func(t *testing.T) {
		launches := 0
		p := signInPage()
		m := newManager(t, p, &launches)

		for i := 0; i < 2; i++ {
			ok, err := m.Login(ctx, creds)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, session.LoggedIn, m.State())
		}
		assert.Equal(t, 1, launches)
		assert.Len(t, p.Navigations, 2)
	})

	t.Run("rejects missing credentials without launching", func(t *testing.T) {
		launches := 0
		m := newManager(t, signInPage(), &launches)

		for _, c := range []domain.Credentials{
			{Email: "user@example.com"},
			{Password: "hunter2"},
			{},
		} {
			ok, err := m.Login(ctx, c)
			assert.False(t, ok)
			assert.ErrorIs(t, err, domain.ErrCredentialsMissing)
		}
		assert.Zero(t, launches)
		assert.Equal(t, session.Uninitialized, m.State())
	})

	t.Run("fails the flow when the password field never appears", func(t *testing.T) {
		p := sessiontest.NewPage()
		p.SetPresent("#email", true)
		m := newManager(t, p, nil)

		ok, err := m.Login(ctx, creds)
		assert.False(t, ok)
		require.ErrorIs(t, err, domain.ErrLoginFlow)
		assert.ErrorIs(t, err, session.ErrStepTimeout)
		assert.Equal(t, session.LoginFailed, m.State())
		assert.Len(t, p.Screenshots, 1)
	})

	t.Run("fails the flow when the sign-in page never loads", func(t *testing.T) {
		p := signInPage()
		p.Hung[testForm.URL] = true
		timeouts := session.DefaultTimeouts()
		timeouts.PageLoad = 20 * time.Millisecond
		m := session.NewManager(sessiontest.Launcher(p, nil), testForm,
			session.WithScreenshotPath(""), session.WithTimeouts(timeouts))

		ok, err := m.Login(ctx, creds)
		assert.False(t, ok)
		require.ErrorIs(t, err, domain.ErrLoginFlow)
		assert.ErrorIs(t, err, session.ErrStepTimeout)
		assert.Equal(t, session.LoginFailed, m.State())
		assert.Empty(t, p.Filled)
	})

	t.Run("reports failure without error when the marker is missing", func(t *testing.T) {
		p := sessiontest.NewPage()
		p.SetPresent("#password", true)
		m := newManager(t, p, nil)

		ok, err := m.Login(ctx, creds)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, session.LoginFailed, m.State())
		assert.False(t, m.Authenticated())
		assert.Len(t, p.Screenshots, 1)
		assert.FileExists(t, p.Screenshots[0])
	})
}
