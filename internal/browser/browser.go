// Package browser drives a headless Chromium through go-rod and implements
// session.Page for the rest of the pipeline.
package browser

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"

	"github.com/v0xg/claimgen/internal/session"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// A4 paper in inches
const (
	a4Width  = 8.27
	a4Height = 11.69
)

// Options configures the browser
type Options struct {
	Width      int
	Height     int
	Headless   bool
	NoSandbox  bool
	Bin        string // Chrome/Chromium binary; looked up when empty
	ProfileDir string // Chrome/Chromium profile directory for a persistent sign-in
	UserAgent  string
	IdleWait   time.Duration // soft network-idle wait after each navigation
	Logger     *zap.Logger
}

func (o Options) withDefaults() Options {
	if o.Width == 0 {
		o.Width = 1280
	}
	if o.Height == 0 {
		o.Height = 720
	}
	if o.UserAgent == "" {
		o.UserAgent = defaultUserAgent
	}
	if o.IdleWait == 0 {
		o.IdleWait = 5 * time.Second
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}

// Browser wraps the Rod browser and its single page
type Browser struct {
	browser  *rod.Browser
	page     *rod.Page
	launcher *launcher.Launcher
	opts     Options
}

var _ session.Page = (*Browser)(nil)

// Launcher returns a session.Launcher that starts a browser with opts
func Launcher(opts Options) session.Launcher {
	return func(ctx context.Context) (session.Page, error) {
		return Launch(ctx, opts)
	}
}

// Launch starts Chromium and opens a blank page with the configured
// user agent and viewport
func Launch(ctx context.Context, opts Options) (*Browser, error) {
	opts = opts.withDefaults()

	path := opts.Bin
	if path == "" {
		path, _ = launcher.LookPath()
	}
	l := launcher.New().Bin(path).Headless(opts.Headless).NoSandbox(opts.NoSandbox)
	if opts.ProfileDir != "" {
		l = l.UserDataDir(opts.ProfileDir)
	}

	u, err := l.Context(ctx).Launch()
	if err != nil {
		return nil, fmt.Errorf("launch chromium: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("connect to chromium: %w", err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		_ = browser.Close()
		return nil, fmt.Errorf("create page: %w", err)
	}

	if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: opts.UserAgent}); err != nil {
		opts.Logger.Warn("Failed to set user agent", zap.Error(err))
	}
	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             opts.Width,
		Height:            opts.Height,
		DeviceScaleFactor: 1,
	}); err != nil {
		opts.Logger.Warn("Failed to set viewport", zap.Error(err))
	}

	opts.Logger.Info("Browser initialized",
		zap.Bool("headless", opts.Headless),
		zap.Int("width", opts.Width),
		zap.Int("height", opts.Height))

	return &Browser{browser: browser, page: page, launcher: l, opts: opts}, nil
}

// Close cleans up browser resources
func (b *Browser) Close() error {
	var err error
	if b.page != nil {
		_ = b.page.Close()
		b.page = nil
	}
	if b.browser != nil {
		err = b.browser.Close()
		b.browser = nil
	}
	if b.launcher != nil {
		b.launcher.Cleanup()
		b.launcher = nil
	}
	return err
}

// Page returns the underlying Rod page
func (b *Browser) Page() *rod.Page {
	return b.page
}

// Navigate loads url, waits for the load event and then gives the network a
// bounded chance to go idle
func (b *Browser) Navigate(ctx context.Context, url string) error {
	page := b.page.Context(ctx)
	if err := page.Navigate(url); err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("wait load %s: %w", url, err)
	}
	b.waitIdle(ctx)
	return nil
}

// waitIdle waits for network idle without hanging on persistent connections
func (b *Browser) waitIdle(ctx context.Context) {
	b.page.Context(ctx).Timeout(b.opts.IdleWait).WaitRequestIdle(500*time.Millisecond, nil, nil, nil)()
}

func (b *Browser) Visible(ctx context.Context, selector string) bool {
	has, el, err := b.page.Context(ctx).Has(selector)
	if err != nil || !has {
		return false
	}
	visible, err := el.Visible()
	return err == nil && visible
}

func (b *Browser) WaitVisible(ctx context.Context, selector string) error {
	el, err := b.page.Context(ctx).Element(selector)
	if err != nil {
		return fmt.Errorf("element %s: %w", selector, err)
	}
	if err := el.WaitVisible(); err != nil {
		return fmt.Errorf("element %s visible: %w", selector, err)
	}
	return nil
}

func (b *Browser) Fill(ctx context.Context, selector, text string) error {
	el, err := b.page.Context(ctx).Element(selector)
	if err != nil {
		return fmt.Errorf("element not found: %s: %w", selector, err)
	}
	if err := el.SelectAllText(); err != nil {
		return fmt.Errorf("select %s: %w", selector, err)
	}
	if err := el.Input(text); err != nil {
		return fmt.Errorf("input %s: %w", selector, err)
	}
	return nil
}

// ClickAndWait clicks selector and waits for the next load event. The wait
// is bounded only by ctx, so callers decide whether running out of time matters.
func (b *Browser) ClickAndWait(ctx context.Context, selector string) error {
	page := b.page.Context(ctx)
	el, err := page.Element(selector)
	if err != nil {
		return fmt.Errorf("element not found: %s: %w", selector, err)
	}

	wait := page.WaitNavigation(proto.PageLifecycleEventNameLoad)
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("click %s: %w", selector, err)
	}
	wait()
	return ctx.Err()
}

func (b *Browser) HTML(ctx context.Context) (string, error) {
	html, err := b.page.Context(ctx).HTML()
	if err != nil {
		return "", fmt.Errorf("read page html: %w", err)
	}
	return html, nil
}

// Snapshot opens url in a new tab of the same browser, returns its HTML and
// closes the tab
func (b *Browser) Snapshot(ctx context.Context, url string) (string, error) {
	tab, err := b.browser.Context(ctx).Page(proto.TargetCreateTarget{URL: url})
	if err != nil {
		return "", fmt.Errorf("open %s: %w", url, err)
	}
	defer tab.Close()

	if err := tab.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: b.opts.UserAgent}); err != nil {
		b.opts.Logger.Debug("Failed to set user agent on tab", zap.Error(err))
	}
	if err := tab.WaitLoad(); err != nil {
		return "", fmt.Errorf("wait load %s: %w", url, err)
	}
	tab.Timeout(b.opts.IdleWait).WaitRequestIdle(500*time.Millisecond, nil, nil, nil)()

	html, err := tab.HTML()
	if err != nil {
		return "", fmt.Errorf("read html %s: %w", url, err)
	}
	return html, nil
}

// PrintPDF prints the current page on A4 paper
func (b *Browser) PrintPDF(ctx context.Context) ([]byte, error) {
	width, height := a4Width, a4Height
	stream, err := b.page.Context(ctx).PDF(&proto.PagePrintToPDF{
		PaperWidth:      &width,
		PaperHeight:     &height,
		PrintBackground: true,
	})
	if err != nil {
		return nil, fmt.Errorf("print to pdf: %w", err)
	}
	data, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("read pdf stream: %w", err)
	}
	return data, nil
}

// Screenshot writes a PNG of the viewport to path
func (b *Browser) Screenshot(path string) error {
	data, err := b.page.Screenshot(false, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		return fmt.Errorf("capture screenshot: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Info returns the current URL and title; empty on error
func (b *Browser) Info() session.Info {
	info, err := b.page.Info()
	if err != nil {
		return session.Info{}
	}
	return session.Info{URL: info.URL, Title: info.Title}
}
