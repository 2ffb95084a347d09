package render

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Style holds the colours and stroke widths for one pad.
type Style struct {
	Background  color.NRGBA
	Border      color.NRGBA
	BorderWidth float64

	Knob            color.NRGBA
	KnobBorder      color.NRGBA
	KnobBorderWidth float64

	// StickWidth of zero hides the stick.
	Stick            color.NRGBA
	StickBorder      color.NRGBA
	StickWidth       float64
	StickBorderWidth float64

	// Frame outlines the pad and its label; FrameActive replaces it while a
	// touch is held.
	Frame       color.NRGBA
	FrameActive color.NRGBA

	Label     color.NRGBA
	ShowLabel bool
}

// Palette
var (
	padBackground = color.NRGBA{0x00, 0x00, 0x00, 0x33}
	padBorder     = color.NRGBA{0x5d, 0x3f, 0xd3, 0x66}
	knobFill      = color.NRGBA{0x7f, 0x00, 0xff, 0x44}
	stickBorder   = color.NRGBA{0x00, 0x00, 0x00, 0x66}
	labelText     = color.NRGBA{0xee, 0xee, 0xee, 0xff}
)

// DefaultStyle returns the stock purple-on-grey look with a large stick.
func DefaultStyle() Style {
	return Style{
		Background:       padBackground,
		Border:           padBorder,
		BorderWidth:      1.5,
		Knob:             knobFill,
		KnobBorder:       padBorder,
		KnobBorderWidth:  1.5,
		Stick:            padBackground,
		StickBorder:      stickBorder,
		StickWidth:       40,
		StickBorderWidth: 1,
		Frame:            padBackground,
		FrameActive:      padBorder,
		Label:            labelText,
		ShowLabel:        true,
	}
}

// ParseHexColor parses #RGB, #RRGGBB or #RRGGBBAA.
func ParseHexColor(s string) (color.NRGBA, error) {
	hex, ok := strings.CutPrefix(s, "#")
	if !ok {
		return color.NRGBA{}, fmt.Errorf("colour %q: missing leading #", s)
	}
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return color.NRGBA{}, fmt.Errorf("colour %q: want 3, 6 or 8 hex digits", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("colour %q: %w", s, err)
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// HexColor formats c as #RRGGBBAA.
func HexColor(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}
