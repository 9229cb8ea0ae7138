package main

import (
	"errors"
	"fmt"
	"image"
	"io"
	"strconv"
	"strings"

	"github.com/oligo/gvinput/config"
	"github.com/oligo/gvinput/editor"
	lt "github.com/oligo/gvinput/internal/layout"
	"github.com/spf13/cobra"
)

var errUnhandled = errors.New("step not handled")

func newReplayCmd() *cobra.Command {
	var (
		input      string
		initial    string
		cellWidth  int
		lineHeight int
	)

	cmd := &cobra.Command{
		Use:   "replay [step...]",
		Short: "Apply key and pointer steps to an input and print the result",
		Long: `Replay applies steps to a text input laid out on a monospace grid, then
prints its text and selection.

Steps:
  left, right, backspace, delete, enter   Keys, optionally prefixed by
                                          modifiers: shift+left, ctrl+a
  a, é, ...                               A printable key
  type:<text>                             Type text
  click:<x>,<y>, shift-click:<x>,<y>      Press and release at a point
  press:<x>,<y>, drag:<x>,<y>, release    Pointer drag selection`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flagConfig)
			if err != nil {
				return err
			}
			var in config.Input
			switch input {
			case "url":
				in = cfg.URL
			case "body":
				in = cfg.Body
			default:
				return fmt.Errorf("unknown input %q (use url or body)", input)
			}
			opts, err := cfg.EditorOptions(in)
			if err != nil {
				return err
			}

			ed := editor.New(opts...)
			ed.SetText(initial)
			out := cmd.OutOrStdout()
			cancel := ed.Subscribe(func(ev editor.EditorEvent) {
				if submit, ok := ev.(editor.SubmitEvent); ok {
					fmt.Fprintf(out, "submit: %q\n", submit.Text)
				}
			})
			defer cancel()

			grid := lt.NewMonospace("", cellWidth, lineHeight)
			if err := replay(ed, grid, args); err != nil {
				return err
			}
			printState(out, ed)
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "url", "Input settings to use: url or body")
	cmd.Flags().StringVarP(&initial, "text", "t", "", "Initial text")
	cmd.Flags().IntVar(&cellWidth, "cell-width", 10, "Width of a grid cell in pixels")
	cmd.Flags().IntVar(&lineHeight, "line-height", 20, "Height of a line in pixels")
	return cmd
}

// replay applies steps to ed. The text is laid out again on grid after
// every step.
func replay(ed *editor.Editor, grid *lt.Monospace, steps []string) error {
	relayout := func() {
		grid.Reset(ed.Text())
		ed.SetLayout(grid, image.Rectangle{Max: grid.Size()})
	}

	relayout()
	for _, step := range steps {
		if err := applyStep(ed, step); err != nil {
			return err
		}
		relayout()
	}
	return nil
}

func applyStep(ed *editor.Editor, step string) error {
	if step == "release" {
		ed.Release()
		return nil
	}

	if kind, arg, found := strings.Cut(step, ":"); found && kind != "" {
		if kind == "type" {
			if !ed.HandleKey(editor.KeyEvent{Text: arg}) {
				return fmt.Errorf("%w: %q", errUnhandled, step)
			}
			return nil
		}

		pt, err := parsePoint(arg)
		if err != nil {
			return fmt.Errorf("step %q: %w", step, err)
		}
		switch kind {
		case "click":
			ed.Press(pt, 0)
			ed.Release()
		case "shift-click":
			ed.Press(pt, editor.ModShift)
			ed.Release()
		case "press":
			ed.Press(pt, 0)
		case "drag":
			ed.Drag(pt)
		default:
			return fmt.Errorf("%w: %q", errUnhandled, step)
		}
		return nil
	}

	ke := editor.KeyEvent{Name: step}
	if i := strings.LastIndex(step, "+"); i > 0 && i < len(step)-1 {
		mods, err := config.ParseModifiers(step[:i])
		if err != nil {
			return fmt.Errorf("step %q: %w", step, err)
		}
		ke = editor.KeyEvent{Name: step[i+1:], Modifiers: mods}
	}
	if !ed.HandleKey(ke) {
		return fmt.Errorf("%w: %q", errUnhandled, step)
	}
	return nil
}

func parsePoint(s string) (image.Point, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return image.Point{}, fmt.Errorf("invalid point %q, want x,y", s)
	}
	x, err := strconv.Atoi(strings.TrimSpace(xs))
	if err != nil {
		return image.Point{}, fmt.Errorf("invalid point %q: %w", s, err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(ys))
	if err != nil {
		return image.Point{}, fmt.Errorf("invalid point %q: %w", s, err)
	}
	return image.Pt(x, y), nil
}

func printState(w io.Writer, ed *editor.Editor) {
	sel := ed.Selection()
	fmt.Fprintf(w, "text: %q\n", ed.Text())
	fmt.Fprintf(w, "selection: %d-%d reversed=%v caret=%d\n", sel.Start, sel.End, sel.Reversed, sel.Caret())
	if rng, ok := ed.MarkedTextRange(); ok {
		fmt.Fprintf(w, "marked: %d-%d\n", rng.Start, rng.End)
	}
}
