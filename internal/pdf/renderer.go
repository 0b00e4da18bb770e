package pdf

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// Renderer prints an HTML document to PDF bytes.
type Renderer interface {
	Render(ctx context.Context, html string) ([]byte, error)
}

// RodRenderer prints with a headless Chrome driven by go-rod. A browser is
// launched per document and torn down afterwards.
type RodRenderer struct {
	// Bin is the Chrome binary; empty lets the launcher find or download one.
	Bin      string
	Headless bool
	Timeout  time.Duration
}

// NewRodRenderer returns a headless renderer with a 30s timeout.
func NewRodRenderer(bin string) *RodRenderer {
	return &RodRenderer{Bin: bin, Headless: true, Timeout: 30 * time.Second}
}

// A4 in inches with 2cm margins.
const (
	a4Width  = 8.27
	a4Height = 11.69
	margin   = 0.79
)

func inches(v float64) *float64 { return &v }

func (r *RodRenderer) Render(ctx context.Context, html string) ([]byte, error) {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	l := launcher.New().Headless(r.Headless).NoSandbox(true).
		Set("disable-gpu").
		Set("disable-dev-shm-usage")
	if r.Bin != "" {
		l = l.Bin(r.Bin)
	}
	controlURL, err := l.Context(ctx).Launch()
	if err != nil {
		return nil, fmt.Errorf("launching chrome: %w", err)
	}
	defer func() {
		l.Kill()
		l.Cleanup()
	}()

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connecting to chrome: %w", err)
	}
	defer browser.Close()

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("opening page: %w", err)
	}
	if err := page.SetDocumentContent(html); err != nil {
		return nil, fmt.Errorf("loading document: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("waiting for document: %w", err)
	}

	stream, err := page.PDF(&proto.PagePrintToPDF{
		PrintBackground:   true,
		PaperWidth:        inches(a4Width),
		PaperHeight:       inches(a4Height),
		MarginTop:         inches(margin),
		MarginBottom:      inches(margin),
		MarginLeft:        inches(margin),
		MarginRight:       inches(margin),
		PreferCSSPageSize: true,
	})
	if err != nil {
		return nil, fmt.Errorf("printing pdf: %w", err)
	}
	out, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("reading pdf stream: %w", err)
	}
	return out, nil
}
