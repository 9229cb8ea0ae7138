package textstyle

import (
	"image/color"

	"gioui.org/op"
	"gioui.org/op/paint"
)

// Color wraps a color.NRGBA color which is widely used by Gio.
// It provides method to convert the non-alpha-premultiplied color
// to a color OP used by Gio ops.
type Color struct {
	val color.NRGBA
	op  op.CallOp
}

// MakeColor wraps c.
func MakeColor(c color.NRGBA) Color {
	return Color{val: c}
}

func (c Color) NRGBA() color.NRGBA {
	return c.val
}

// IsSet reports whether the color is not the zero color.
func (c Color) IsSet() bool {
	return c.val != (color.NRGBA{})
}

// MulAlpha applies the alpha to the color.
func (c Color) MulAlpha(alpha uint8) Color {
	c.val.A = uint8(uint32(c.val.A) * uint32(alpha) / 0xFF)
	c.op = op.CallOp{}
	return c
}

func (c *Color) makeOp() {
	if c.op != (op.CallOp{}) {
		return
	}
	ops := new(op.Ops)
	m := op.Record(ops)
	paint.ColorOp{Color: c.val}.Add(ops)
	c.op = m.Stop()
}

// Op returns the recorded paint material of the color. The zero color
// gives an empty call.
func (c *Color) Op() op.CallOp {
	if !c.IsSet() {
		return op.CallOp{}
	}

	c.makeOp()
	return c.op
}
