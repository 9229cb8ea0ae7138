package main

import (
	"image/color"
	"log/slog"
	"regexp"

	"gioui.org/app"
	"gioui.org/font"
	"gioui.org/font/gofont"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/text"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"
	"github.com/oligo/gvinput/config"
	"github.com/oligo/gvinput/editor"
	"github.com/oligo/gvinput/textstyle"
	"github.com/oligo/gvinput/textstyle/decoration"
	gvwidget "github.com/oligo/gvinput/widget"
	"golang.org/x/exp/shiny/materialdesign/icons"
)

type (
	C = layout.Context
	D = layout.Dimensions
)

// variableSource marks the decorations of {{variable}} references.
type variableSource struct{}

var variablePattern = regexp.MustCompile(`\{\{[^{}]*\}\}`)

type requestApp struct {
	window *app.Window
	th     *material.Theme

	url  *gvwidget.Input
	body *gvwidget.Input

	clearButton widget.Clickable
	sendButton  widget.Clickable
	clearIcon   *widget.Icon

	variableColor textstyle.Color
}

func newRequestApp(cfg config.Config) (*requestApp, error) {
	urlOpts, err := cfg.EditorOptions(cfg.URL)
	if err != nil {
		return nil, err
	}
	bodyOpts, err := cfg.EditorOptions(cfg.Body)
	if err != nil {
		return nil, err
	}
	clearIcon, err := widget.NewIcon(icons.ContentClear)
	if err != nil {
		return nil, err
	}

	th := material.NewTheme()
	th.Shaper = text.NewShaper(text.WithCollection(gofont.Collection()))
	a := &requestApp{
		window:        &app.Window{},
		th:            th,
		url:           gvwidget.NewInput(urlOpts...),
		body:          gvwidget.NewInput(bodyOpts...),
		clearIcon:     clearIcon,
		variableColor: textstyle.MakeColor(th.ContrastBg),
	}
	a.window.Option(app.Title("gvinput"))
	return a, nil
}

func (a *requestApp) run() error {
	var ops op.Ops
	for {
		e := a.window.Event()

		switch e := e.(type) {
		case app.DestroyEvent:
			return e.Err
		case app.FrameEvent:
			gtx := app.NewContext(&ops, e)
			layout.UniformInset(unit.Dp(8)).Layout(gtx, a.layout)
			e.Frame(gtx.Ops)
		}
	}
}

func (a *requestApp) update(gtx C) {
	if a.clearButton.Clicked(gtx) {
		a.url.SetText("")
	}
	if a.sendButton.Clicked(gtx) {
		a.send()
	}

	for {
		ev, ok := a.url.Update(gtx)
		if !ok {
			break
		}
		switch ev := ev.(type) {
		case editor.SubmitEvent:
			a.send()
		case editor.TextEvent:
			a.highlightVariables(a.url, ev.Text)
		}
	}
	for {
		ev, ok := a.body.Update(gtx)
		if !ok {
			break
		}
		if ev, ok := ev.(editor.TextEvent); ok {
			a.highlightVariables(a.body, ev.Text)
		}
	}
}

func (a *requestApp) send() {
	slog.Info("send request", "url", a.url.Text(), "body_bytes", a.body.Len())
}

// highlightVariables boxes the {{variable}} references of s.
func (a *requestApp) highlightVariables(in *gvwidget.Input, s string) {
	decorations := in.Decorations()
	decorations.RemoveBySource(variableSource{})
	for _, rng := range variableRanges(s) {
		box := decoration.BoxDeco(rng.Start, rng.End, a.variableColor.Op())
		box.Src = variableSource{}
		decorations.Insert(box)
	}
}

// variableRanges returns the byte ranges of the {{variable}} references
// of s.
func variableRanges(s string) []editor.Range {
	var ranges []editor.Range
	for _, loc := range variablePattern.FindAllStringIndex(s, -1) {
		ranges = append(ranges, editor.Range{Start: loc[0], End: loc[1]})
	}
	return ranges
}

func (a *requestApp) layout(gtx C) D {
	a.update(gtx)
	th := a.th

	return layout.Flex{
		Axis: layout.Vertical,
	}.Layout(gtx,
		layout.Rigid(func(gtx C) D {
			return layout.Flex{
				Axis:      layout.Horizontal,
				Alignment: layout.Middle,
			}.Layout(gtx,
				layout.Flexed(1, func(gtx C) D {
					return a.bordered(gtx, a.url)
				}),
				layout.Rigid(func(gtx C) D {
					btn := material.IconButton(th, &a.clearButton, a.clearIcon, "Clear")
					btn.Background = color.NRGBA{}
					btn.Color = th.Fg
					btn.Size = unit.Dp(18)
					btn.Inset = layout.UniformInset(unit.Dp(6))
					return btn.Layout(gtx)
				}),
				layout.Rigid(layout.Spacer{Width: unit.Dp(6)}.Layout),
				layout.Rigid(material.Button(th, &a.sendButton, "Send").Layout),
			)
		}),
		layout.Rigid(layout.Spacer{Height: unit.Dp(8)}.Layout),
		layout.Flexed(1, func(gtx C) D {
			gtx.Constraints.Min = gtx.Constraints.Max
			return a.bordered(gtx, a.body)
		}),
	)
}

func (a *requestApp) bordered(gtx C, in *gvwidget.Input) D {
	borderColor := a.th.Fg
	borderColor.A = 0xb6
	return widget.Border{
		Color: borderColor, Width: unit.Dp(1), CornerRadius: unit.Dp(4),
	}.Layout(gtx, func(gtx C) D {
		return layout.UniformInset(unit.Dp(6)).Layout(gtx, func(gtx C) D {
			style := gvwidget.NewInputStyle(a.th, in)
			style.Font.Typeface = "monospace"
			style.Font.Weight = font.Normal
			style.TextSize = unit.Sp(13)
			return style.Layout(gtx)
		})
	})
}
