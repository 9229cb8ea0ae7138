package widget

import (
	"image/color"

	"gioui.org/font"
	"gioui.org/layout"
	"gioui.org/text"
	"gioui.org/unit"
	"gioui.org/widget/material"
	"github.com/oligo/gvinput/textstyle"
)

type InputStyle struct {
	Font font.Font
	// TextSize set the text size.
	TextSize unit.Sp
	// Color is the text color.
	Color textstyle.Color
	// HintColor is the color of the placeholder text.
	HintColor textstyle.Color
	// SelectionColor is the color of the background for selected text.
	SelectionColor textstyle.Color

	Input  *Input
	shaper *text.Shaper
}

func NewInputStyle(th *material.Theme, input *Input) InputStyle {
	return InputStyle{
		Input:  input,
		shaper: th.Shaper,
		Font: font.Font{
			Typeface: th.Face,
		},
		TextSize:       th.TextSize,
		Color:          textstyle.MakeColor(th.Fg),
		HintColor:      textstyle.MakeColor(th.Fg).MulAlpha(0xbb),
		SelectionColor: textstyle.MakeColor(th.ContrastBg).MulAlpha(0x60),
	}
}

func (s InputStyle) Layout(gtx layout.Context) layout.Dimensions {
	disabled := !gtx.Enabled()
	textColor := textstyle.MakeColor(blendDisabledColor(disabled, s.Color.NRGBA()))
	hintColor := textstyle.MakeColor(blendDisabledColor(disabled, s.HintColor.NRGBA()))
	selectColor := textstyle.MakeColor(blendDisabledColor(disabled, s.SelectionColor.NRGBA()))

	return s.Input.Layout(gtx, s.shaper, s.Font, s.TextSize, textColor.Op(), selectColor.Op(), hintColor.Op())
}

func blendDisabledColor(disabled bool, c color.NRGBA) color.NRGBA {
	if disabled {
		return disabledColor(c)
	}
	return c
}

// mulAlpha applies the alpha to the color.
func mulAlpha(c color.NRGBA, alpha uint8) color.NRGBA {
	c.A = uint8(uint32(c.A) * uint32(alpha) / 0xFF)
	return c
}

// approxLuminance is a fast approximate version of RGBA.Luminance.
func approxLuminance(c color.NRGBA) byte {
	const (
		r = 13933 // 0.2126 * 256 * 256
		g = 46871 // 0.7152 * 256 * 256
		b = 4732  // 0.0722 * 256 * 256
		t = r + g + b
	)
	return byte((r*int(c.R) + g*int(c.G) + b*int(c.B)) / t)
}

// disabledColor desaturates c and blends it towards the background.
func disabledColor(c color.NRGBA) (d color.NRGBA) {
	const r = 80 // blend ratio
	lum := approxLuminance(c)
	d = mix(c, color.NRGBA{A: c.A, R: lum, G: lum, B: lum}, r)
	d = mulAlpha(d, 128+32)
	return
}

// mix mixes c1 and c2 weighted by (1 - a/256) and a/256 respectively.
func mix(c1, c2 color.NRGBA, a uint8) color.NRGBA {
	ai := int(a)
	return color.NRGBA{
		R: byte((int(c1.R)*ai + int(c2.R)*(256-ai)) / 256),
		G: byte((int(c1.G)*ai + int(c2.G)*(256-ai)) / 256),
		B: byte((int(c1.B)*ai + int(c2.B)*(256-ai)) / 256),
		A: byte((int(c1.A)*ai + int(c2.A)*(256-ai)) / 256),
	}
}
