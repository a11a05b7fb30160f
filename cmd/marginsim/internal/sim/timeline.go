package sim

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// Timeline image geometry, in pixels.
const (
	timelineWidth  = 720
	timelineHeight = 320
	padLeft        = 56
	padRight       = 16
	padTop         = 28
	padBottom      = 36
	strokeWidth    = 2
)

var (
	backgroundColor = color.RGBA{0xff, 0xff, 0xff, 0xff}
	axisColor       = color.RGBA{0x60, 0x60, 0x60, 0xff}
	forcedColor     = color.RGBA{0x20, 0x20, 0x20, 0xff}
	textColor       = color.RGBA{0x10, 0x10, 0x10, 0xff}
)

type series struct {
	name  string
	color color.RGBA
	value func(Frame) float64
}

var timelineSeries = []series{
	{"left", color.RGBA{0xd6, 0x27, 0x28, 0xff}, func(f Frame) float64 { return f.Margins.Left }},
	{"top", color.RGBA{0x1f, 0x77, 0xb4, 0xff}, func(f Frame) float64 { return f.Margins.Top }},
	{"right", color.RGBA{0x2c, 0xa0, 0x2c, 0xff}, func(f Frame) float64 { return f.Margins.Right }},
	{"bottom", color.RGBA{0xff, 0x7f, 0x0e, 0xff}, func(f Frame) float64 { return f.Margins.Bottom }},
}

// plot maps frame time and margin values into the image.
type plot struct {
	maxMS, maxValue float64
}

func (p plot) x(ms float64) float32 {
	w := float64(timelineWidth - padLeft - padRight)
	return float32(padLeft + ms/p.maxMS*w)
}

func (p plot) y(v float64) float32 {
	h := float64(timelineHeight - padTop - padBottom)
	return float32(timelineHeight - padBottom - v/p.maxValue*h)
}

// RenderTimeline draws each margin over simulated time. Frames committed
// with a forced redraw are marked under the time axis.
func RenderTimeline(res *Result) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, timelineWidth, timelineHeight))
	draw.Draw(img, img.Bounds(), image.NewUniform(backgroundColor), image.Point{}, draw.Src)

	points := make([]Frame, 0, len(res.Frames)+1)
	points = append(points, res.Frames...)
	points = append(points, res.Final)

	p := plot{maxMS: math.Max(1, res.Final.TimeMS), maxValue: 1}
	for _, f := range points {
		for _, s := range timelineSeries {
			p.maxValue = math.Max(p.maxValue, s.value(f))
		}
	}
	for _, v := range []float64{res.MaxMargins.Left, res.MaxMargins.Top, res.MaxMargins.Right, res.MaxMargins.Bottom} {
		p.maxValue = math.Max(p.maxValue, v)
	}

	r := vector.NewRasterizer(timelineWidth, timelineHeight)
	x0, y0 := p.x(0), p.y(0)
	x1, y1 := p.x(p.maxMS), p.y(p.maxValue)
	stroke(r, x0, y0, x1, y0, 1)
	stroke(r, x0, y0, x0, y1, 1)
	r.Draw(img, img.Bounds(), image.NewUniform(axisColor), image.Point{})

	for _, s := range timelineSeries {
		r.Reset(timelineWidth, timelineHeight)
		prevX, prevY := p.x(points[0].TimeMS), p.y(s.value(points[0]))
		for _, f := range points[1:] {
			nx, ny := p.x(f.TimeMS), p.y(s.value(f))
			stroke(r, prevX, prevY, nx, ny, strokeWidth)
			prevX, prevY = nx, ny
		}
		r.Draw(img, img.Bounds(), image.NewUniform(s.color), image.Point{})
	}

	marker := image.NewUniform(forcedColor)
	for _, f := range res.Frames {
		if !f.Forced {
			continue
		}
		mx := int(p.x(f.TimeMS))
		draw.Draw(img, image.Rect(mx-1, int(y0)+3, mx+2, int(y0)+9), marker, image.Point{}, draw.Src)
	}

	label(img, 4, int(y0)+4, "0")
	label(img, 4, int(y1)+4, fmt.Sprintf("%.0fpx", p.maxValue))
	label(img, int(x0), timelineHeight-6, "0ms")
	end := fmt.Sprintf("%.0fms", p.maxMS)
	label(img, int(x1)-len(end)*7, timelineHeight-6, end)

	lx := padLeft
	for _, s := range timelineSeries {
		draw.Draw(img, image.Rect(lx, 10, lx+12, 16), image.NewUniform(s.color), image.Point{}, draw.Src)
		label(img, lx+16, 17, s.name)
		lx += 16 + len(s.name)*7 + 20
	}
	if res.Name != "" {
		label(img, timelineWidth-padRight-len(res.Name)*7, 17, res.Name)
	}
	return img
}

// WritePNG renders the timeline and encodes it as PNG.
func WritePNG(w io.Writer, res *Result) error {
	return png.Encode(w, RenderTimeline(res))
}

// stroke adds a line segment of the given width to r as a closed quad.
func stroke(r *vector.Rasterizer, ax, ay, bx, by, width float32) {
	dx, dy := bx-ax, by-ay
	length := float32(math.Hypot(float64(dx), float64(dy)))
	if length == 0 {
		return
	}
	nx, ny := -dy/length*width/2, dx/length*width/2
	r.MoveTo(ax+nx, ay+ny)
	r.LineTo(bx+nx, by+ny)
	r.LineTo(bx-nx, by-ny)
	r.LineTo(ax-nx, ay-ny)
	r.ClosePath()
}

func label(img draw.Image, x, y int, text string) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(textColor),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}
