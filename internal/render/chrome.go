package render

import (
	"context"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/hpungsan/acta/internal/errors"
	"github.com/hpungsan/acta/internal/logging"
)

// A4 paper and margins in inches (120px top, 60px bottom, 40px sides at 96dpi).
const (
	paperWidth   = 8.27
	paperHeight  = 11.69
	marginTop    = 1.25
	marginBottom = 0.625
	marginSide   = 40.0 / 96.0
)

// ChromeRenderer prints HTML to PDF with headless Chrome. A browser is
// launched for every call and closed before returning; nothing is pooled.
type ChromeRenderer struct {
	ExecPath string
	Timeout  time.Duration
	Log      logging.Logger
}

// NewChromeRenderer creates a ChromeRenderer. An empty execPath lets
// chromedp locate Chrome on the host.
func NewChromeRenderer(execPath string, timeout time.Duration, log logging.Logger) *ChromeRenderer {
	if log == nil {
		log = logging.Nop()
	}
	return &ChromeRenderer{ExecPath: execPath, Timeout: timeout, Log: log}
}

// PDF renders html as an A4 PDF with background graphics.
func (c *ChromeRenderer) PDF(ctx context.Context, html string) ([]byte, error) {
	log := c.Log.WithContext(ctx)
	start := time.Now()

	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	opts = append(opts, chromedp.DisableGPU, chromedp.NoSandbox)
	if c.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(c.ExecPath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()
	tabCtx, cancelTab := chromedp.NewContext(allocCtx)
	defer cancelTab()

	var pdf []byte
	err := chromedp.Run(tabCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, html).Do(ctx)
		}),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			data, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(paperWidth).
				WithPaperHeight(paperHeight).
				WithMarginTop(marginTop).
				WithMarginBottom(marginBottom).
				WithMarginLeft(marginSide).
				WithMarginRight(marginSide).
				Do(ctx)
			pdf = data
			return err
		}),
	)
	if err != nil {
		log.Error("render.pdf.failed", logging.Err(err), logging.Elapsed(start))
		return nil, errors.NewRenderFailed("PDF rendering failed", err)
	}

	log.Info("render.pdf.ok", logging.F("bytes", len(pdf)), logging.Elapsed(start))
	return pdf, nil
}
