package x11

import (
	"fmt"
	"image"
	"math"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xgraphics"
)

// PaintDisc fills the surface with background and draws an anti-aliased disc
// of the given diameter at its center. The image becomes the window's
// background pixmap, so the server repaints it without Expose handling.
func (s *Surface) PaintDisc(diameter float64, color, background uint32) error {
	width, height := s.opts.Width, s.opts.Height
	if w, h, err := s.InnerSize(); err == nil && w > 0 && h > 0 {
		width, height = w, h
	}

	img := xgraphics.New(s.conn.XUtil, image.Rect(0, 0, width, height))
	defer img.Destroy()

	fg, bg := bgra(color), bgra(background)
	cx, cy, r := float64(width)/2, float64(height)/2, diameter/2
	img.For(func(x, y int) xgraphics.BGRA {
		return blend(fg, bg, discCoverage(float64(x)+0.5, float64(y)+0.5, cx, cy, r))
	})

	if err := img.XSurfaceSet(s.win.Id); err != nil {
		return fmt.Errorf("failed to create surface pixmap: %w", err)
	}
	img.XDraw()
	img.XPaint(s.win.Id)
	return nil
}

// discCoverage is the fraction of the pixel centered at px, py covered by a
// disc, approximated by a one-pixel linear ramp across the edge.
func discCoverage(px, py, cx, cy, r float64) float64 {
	d := math.Hypot(px-cx, py-cy)
	return math.Max(0, math.Min(1, r-d+0.5))
}

func bgra(rgb uint32) xgraphics.BGRA {
	return xgraphics.BGRA{
		R: uint8(rgb >> 16),
		G: uint8(rgb >> 8),
		B: uint8(rgb),
		A: 0xff,
	}
}

func blend(fg, bg xgraphics.BGRA, alpha float64) xgraphics.BGRA {
	mix := func(a, b uint8) uint8 {
		return uint8(math.Round(float64(a)*alpha + float64(b)*(1-alpha)))
	}
	return xgraphics.BGRA{
		R: mix(fg.R, bg.R),
		G: mix(fg.G, bg.G),
		B: mix(fg.B, bg.B),
		A: 0xff,
	}
}

const (
	textPaddingX   = 14
	textPaddingY   = 14
	textLineHeight = 18
)

// TextPanel renders static lines of text with a core X font. Lines are
// redrawn on every Expose.
type TextPanel struct {
	surface *Surface
	gc      xproto.Gcontext
	font    xproto.Font
	lines   []string
}

// NewTextPanel prepares a font and graphics context for s.
func NewTextPanel(s *Surface, foreground, background uint32) (*TextPanel, error) {
	conn := s.conn.XUtil.Conn()

	font, err := xproto.NewFontId(conn)
	if err != nil {
		return nil, err
	}
	opened := false
	for _, fontName := range []string{"9x15", "fixed", "8x13", "6x13"} {
		if xproto.OpenFontChecked(conn, font, uint16(len(fontName)), fontName).Check() == nil {
			opened = true
			break
		}
	}
	if !opened {
		return nil, fmt.Errorf("no core X font available")
	}

	gc, err := xproto.NewGcontextId(conn)
	if err != nil {
		xproto.CloseFont(conn, font)
		return nil, err
	}
	err = xproto.CreateGCChecked(
		conn,
		gc,
		xproto.Drawable(s.win.Id),
		xproto.GcForeground|xproto.GcBackground|xproto.GcFont|xproto.GcGraphicsExposures,
		[]uint32{foreground, background, uint32(font), 0},
	).Check()
	if err != nil {
		xproto.CloseFont(conn, font)
		return nil, err
	}

	p := &TextPanel{surface: s, gc: gc, font: font}
	xevent.ExposeFun(func(xu *xgbutil.XUtil, ev xevent.ExposeEvent) {
		if ev.Count == 0 {
			p.draw()
		}
	}).Connect(s.conn.XUtil, s.win.Id)
	return p, nil
}

// SetLines replaces the panel text and redraws it.
func (p *TextPanel) SetLines(lines []string) {
	p.lines = append(p.lines[:0], lines...)
	xproto.ClearArea(p.surface.conn.XUtil.Conn(), false, p.surface.win.Id, 0, 0, 0, 0)
	p.draw()
}

func (p *TextPanel) draw() {
	conn := p.surface.conn.XUtil.Conn()
	baseline := textPaddingY + textLineHeight - 4
	for i, line := range p.lines {
		if line == "" {
			continue
		}
		if len(line) > 255 {
			line = line[:255]
		}
		xproto.ImageText8(
			conn,
			byte(len(line)),
			xproto.Drawable(p.surface.win.Id),
			p.gc,
			int16(textPaddingX),
			int16(baseline+i*textLineHeight),
			line,
		)
	}
}

// Close frees the font and graphics context.
func (p *TextPanel) Close() {
	conn := p.surface.conn.XUtil.Conn()
	xproto.FreeGC(conn, p.gc)
	xproto.CloseFont(conn, p.font)
}
