package main

import (
	"github.com/v0xg/claimgen/internal/amazon"
	"github.com/v0xg/claimgen/internal/browser"
	"github.com/v0xg/claimgen/internal/catalog"
	"github.com/v0xg/claimgen/internal/claim"
	"github.com/v0xg/claimgen/internal/eligibility"
	"github.com/v0xg/claimgen/internal/pdfform"
	"github.com/v0xg/claimgen/internal/session"
)

// app is the pipeline wired from configuration. One session backs every
// component.
type app struct {
	session *session.Manager
	site    *amazon.Site
	checker *eligibility.Checker
	builder *claim.Builder
}

func newApp() *app {
	launch := browser.Launcher(browser.Options{
		Width:      cfg.Browser.Width,
		Height:     cfg.Browser.Height,
		Headless:   cfg.Browser.Headless,
		NoSandbox:  cfg.Browser.NoSandbox,
		Bin:        cfg.Browser.Bin,
		ProfileDir: cfg.Browser.ProfileDir,
		IdleWait:   cfg.Timeouts.Navigation,
		Logger:     logger.Named("browser"),
	})

	mgr := session.NewManager(launch, amazon.LoginForm(),
		session.WithLogger(logger.Named("session")),
		session.WithScreenshotPath(cfg.Paths.Screenshot),
		session.WithTimeouts(session.Timeouts{
			PageLoad:   cfg.Timeouts.PageLoad,
			Navigation: cfg.Timeouts.Navigation,
			Password:   cfg.Timeouts.Password,
			PostLogin:  cfg.Timeouts.PostLogin,
		}))

	site := amazon.NewSite(mgr, amazon.Timeouts{
		PageLoad:   cfg.Timeouts.PageLoad,
		OrderLinks: cfg.Timeouts.OrderLinks,
		Shipments:  cfg.Timeouts.Shipments,
		Invoice:    cfg.Timeouts.Invoice,
	}, logger.Named("amazon"))

	catalogs := catalog.NewFetcher(mgr, cfg.Timeouts.PageLoad, logger.Named("catalog"))

	return &app{
		session: mgr,
		site:    site,
		checker: eligibility.NewChecker(mgr, site, catalogs, logger.Named("eligibility")),
		builder: claim.NewBuilder(claim.NewTemplateStore(cfg.Paths.Templates), pdfform.New(), site,
			cfg.Paths.Public, claim.WithLogger(logger.Named("claim"))),
	}
}

func (a *app) close() {
	_ = a.session.Teardown()
}
