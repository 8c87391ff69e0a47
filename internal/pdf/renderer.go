package pdf

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/zachmeador/pineneedle/pkg/errors"
)

// Renderer converts resume markdown to PDF through headless Chrome. Each
// Render call spins up its own browser context; exports are rare enough that
// keeping a warm instance isn't worth the lifecycle handling.
type Renderer struct {
	markdown goldmark.Markdown
	timeout  time.Duration
}

func NewRenderer() *Renderer {
	return &Renderer{
		markdown: goldmark.New(goldmark.WithExtensions(extension.GFM)),
		timeout:  60 * time.Second,
	}
}

// Render produces PDF bytes for the markdown in the named style.
func (r *Renderer) Render(ctx context.Context, markdown, style string) ([]byte, error) {
	logger := slog.With("component", "pdf", "operation", "render", "style", style)

	css, ok := styles[style]
	if !ok {
		return nil, errors.UnknownStyle(style,
			fmt.Sprintf("available styles: %v", r.Styles()))
	}

	var body bytes.Buffer
	if err := r.markdown.Convert([]byte(markdown), &body); err != nil {
		return nil, errors.Render(style, fmt.Errorf("markdown conversion failed: %w", err))
	}
	html := fmt.Sprintf(pageShell, css, body.String())

	startTime := time.Now()
	pdfBytes, err := r.printToPDF(ctx, html)
	if err != nil {
		return nil, errors.Render(style, fmt.Errorf("chrome print failed: %w", err))
	}

	logger.Debug("rendered pdf",
		"duration_ms", time.Since(startTime).Milliseconds(),
		"size_bytes", len(pdfBytes))
	return pdfBytes, nil
}

// Styles lists the recognized style names.
func (r *Renderer) Styles() []string {
	names := make([]string, 0, len(styles))
	for name := range styles {
		names = append(names, name)
	}
	return names
}

func (r *Renderer) printToPDF(ctx context.Context, html string) ([]byte, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if p := os.Getenv("CHROME_PATH"); p != "" {
		opts = append(opts, chromedp.ExecPath(p))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	runCtx, cancelRun := context.WithTimeout(browserCtx, r.timeout)
	defer cancelRun()

	// Chrome wants a real file URL; data URLs break relative resolution.
	tmpDir, err := os.MkdirTemp("", "pineneedle-pdf-")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(tmpDir)

	htmlPath := filepath.Join(tmpDir, "resume.html")
	if err := os.WriteFile(htmlPath, []byte(html), 0o644); err != nil {
		return nil, err
	}

	var pdfBuf []byte
	err = chromedp.Run(runCtx,
		chromedp.Navigate("file://"+htmlPath),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			// US Letter, 0.5in margins.
			pdfBuf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(8.5).
				WithPaperHeight(11).
				WithMarginTop(0.5).
				WithMarginBottom(0.5).
				WithMarginLeft(0.5).
				WithMarginRight(0.5).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, err
	}
	return pdfBuf, nil
}

const pageShell = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>%s</style>
</head>
<body>%s</body>
</html>`
