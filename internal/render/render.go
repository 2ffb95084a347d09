// Package render draws axis pads into RGBA frames.
package render

import (
	_ "embed"
	"fmt"
	"image"
	"image/color"
	"log"
	"math"
	"strings"

	"github.com/phinze/axispad/internal/axispad"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"gonum.org/v1/gonum/spatial/r2"
)

//go:embed icons/knob.svg
var knobSVG string

// Chrome around each pad
const (
	// Padding separates the pad from its frame.
	Padding = 4
	// LabelHeight is the strip above the pad holding the value label.
	LabelHeight = 22

	frameRadius = 8
	labelSize   = 14
)

// Frame is everything needed to draw one pad at one instant.
type Frame struct {
	// Bounds is the pad's resting placement on the surface.
	Bounds image.Rectangle

	// Knob and Offset are the animated positions, relative to the pad centre.
	Knob   r2.Vec
	Offset r2.Vec

	ControlSize float64
	Active      bool
	Label       string
}

// Outer returns the framed area around a pad placed at bounds, including
// the label strip.
func Outer(bounds image.Rectangle) image.Rectangle {
	return image.Rect(
		bounds.Min.X-Padding,
		bounds.Min.Y-LabelHeight-Padding,
		bounds.Max.X+Padding,
		bounds.Max.Y+Padding,
	)
}

// ValueLabel formats a ratio the way the pad label shows it.
func ValueLabel(r axispad.Ratio) string {
	return fmt.Sprintf("X: %.2f, Y: %.2f", r.X, r.Y)
}

type knobKey struct {
	size int
	col  color.NRGBA
}

// Renderer draws pads. It caches rasterised knobs, so it is not safe for
// concurrent use.
type Renderer struct {
	labelFace font.Face
	knobs     map[knobKey]*image.RGBA
}

// New creates a renderer.
func New() (*Renderer, error) {
	tt, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse label font: %w", err)
	}
	face, err := opentype.NewFace(tt, &opentype.FaceOptions{
		Size:    labelSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create label face: %w", err)
	}
	return &Renderer{labelFace: face, knobs: make(map[knobKey]*image.RGBA)}, nil
}

// Draw paints f onto dst using st.
func (r *Renderer) Draw(dst *image.RGBA, f Frame, st Style) {
	frameColor := st.Frame
	if f.Active {
		frameColor = st.FrameActive
	}

	// Frame and label strip
	outer := Outer(f.Bounds)
	strokeRoundRect(dst, rectF(outer), frameRadius, 0, 1.5, frameColor)
	if st.ShowLabel {
		strip := image.Rect(f.Bounds.Min.X+8, outer.Min.Y, f.Bounds.Max.X-8, outer.Min.Y+LabelHeight-2)
		fillRoundRect(dst, rectF(strip), frameRadius, 0, frameColor)
		r.drawLabel(dst, f.Label, strip, st.Label)
	}

	// Pad background, a disc or a capsule when an axis is locked
	w, h := float64(f.Bounds.Dx()), float64(f.Bounds.Dy())
	center := r2.Add(r2.Vec{X: float64(f.Bounds.Min.X) + w/2, Y: float64(f.Bounds.Min.Y) + h/2}, f.Offset)
	pad := centredRect(center, w, h)
	fillRoundRect(dst, pad, math.Min(w, h)/2, 0, st.Background)
	strokeRoundRect(dst, pad, math.Min(w, h)/2, 0, st.BorderWidth, st.Border)

	if st.StickWidth > 0 {
		stick := axispad.StickFor(axispad.PadPoint(f.Knob), st.StickWidth)
		rect := centredRect(r2.Add(center, r2.Vec(stick.Center)), stick.Length, stick.Thickness)
		deg := stick.Angle * 180 / math.Pi
		fillRoundRect(dst, rect, stick.Thickness/2, deg, st.Stick)
		strokeRoundRect(dst, rect, stick.Thickness/2, deg, st.StickBorderWidth, st.StickBorder)
	}

	// Knob
	knobCentre := r2.Add(center, f.Knob)
	size := int(math.Round(f.ControlSize))
	if size > 0 {
		knob := r.knob(size, st.Knob)
		at := image.Pt(
			int(math.Round(knobCentre.X-f.ControlSize/2)),
			int(math.Round(knobCentre.Y-f.ControlSize/2)),
		)
		draw.Draw(dst, image.Rectangle{Min: at, Max: at.Add(knob.Bounds().Size())}, knob, image.Point{}, draw.Over)
		strokeRoundRect(dst, centredRect(knobCentre, f.ControlSize, f.ControlSize), f.ControlSize/2, 0, st.KnobBorderWidth, st.KnobBorder)
	}
}

func (r *Renderer) knob(size int, col color.NRGBA) *image.RGBA {
	key := knobKey{size: size, col: col}
	if img, ok := r.knobs[key]; ok {
		return img
	}
	img := renderSVGIcon(knobSVG, size, col)
	r.knobs[key] = img
	return img
}

// renderSVGIcon renders an SVG string to an image with the given size and
// colour. The colour's alpha replaces currentOpacity.
func renderSVGIcon(svgContent string, size int, iconColor color.NRGBA) *image.RGBA {
	hexColor := fmt.Sprintf("#%02x%02x%02x", iconColor.R, iconColor.G, iconColor.B)
	svgContent = strings.ReplaceAll(svgContent, "currentColor", hexColor)
	svgContent = strings.ReplaceAll(svgContent, "currentOpacity", fmt.Sprintf("%.3f", float64(iconColor.A)/255))

	img := image.NewRGBA(image.Rect(0, 0, size, size))

	icon, err := oksvg.ReadIconStream(strings.NewReader(svgContent))
	if err != nil {
		log.Printf("Failed to parse SVG: %v", err)
		return img
	}

	icon.SetTarget(0, 0, float64(size), float64(size))

	scanner := rasterx.NewScannerGV(size, size, img, img.Bounds())
	raster := rasterx.NewDasher(size, size, scanner)
	icon.Draw(raster, 1.0)

	return img
}

// drawLabel centres text in box.
func (r *Renderer) drawLabel(dst *image.RGBA, text string, box image.Rectangle, col color.Color) {
	if text == "" {
		return
	}
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: r.labelFace,
	}
	width := d.MeasureString(text)
	m := r.labelFace.Metrics()
	x := fixed.I(box.Min.X+box.Dx()/2) - width/2
	y := fixed.I(box.Min.Y+box.Dy()/2) + (m.Ascent-m.Descent)/2
	d.Dot = fixed.Point26_6{X: x, Y: y}
	d.DrawString(text)
}

type rectf struct {
	minX, minY, maxX, maxY float64
}

func rectF(r image.Rectangle) rectf {
	return rectf{float64(r.Min.X), float64(r.Min.Y), float64(r.Max.X), float64(r.Max.Y)}
}

func centredRect(c r2.Vec, w, h float64) rectf {
	return rectf{c.X - w/2, c.Y - h/2, c.X + w/2, c.Y + h/2}
}

// fillRoundRect fills a rounded rectangle rotated by deg degrees about its centre.
func fillRoundRect(dst *image.RGBA, r rectf, radius, deg float64, col color.Color) {
	b := dst.Bounds()
	scanner := rasterx.NewScannerGV(b.Dx(), b.Dy(), dst, b)
	filler := rasterx.NewFiller(b.Dx(), b.Dy(), scanner)
	filler.SetColor(col)
	rasterx.AddRoundRect(r.minX, r.minY, r.maxX, r.maxY, radius, radius, deg, rasterx.RoundGap, filler)
	filler.Draw()
}

// strokeRoundRect outlines a rounded rectangle rotated by deg degrees about its centre.
func strokeRoundRect(dst *image.RGBA, r rectf, radius, deg, width float64, col color.Color) {
	if width <= 0 {
		return
	}
	b := dst.Bounds()
	scanner := rasterx.NewScannerGV(b.Dx(), b.Dy(), dst, b)
	stroker := rasterx.NewStroker(b.Dx(), b.Dy(), scanner)
	stroker.SetStroke(fixed.Int26_6(width*64), 4*64, rasterx.RoundCap, nil, rasterx.RoundGap, rasterx.Round)
	stroker.SetColor(col)
	rasterx.AddRoundRect(r.minX, r.minY, r.maxX, r.maxY, radius, radius, deg, rasterx.RoundGap, stroker)
	stroker.Draw()
}
