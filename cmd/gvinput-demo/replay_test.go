package main

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/oligo/gvinput/config"
	"github.com/oligo/gvinput/editor"
	lt "github.com/oligo/gvinput/internal/layout"
)

func runReplay(t *testing.T, args ...string) (string, error) {
	t.Helper()
	flagConfig = ""
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"replay"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestReplay(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "delete after moving left",
			args: []string{"--text", "hello", "left", "left", "backspace"},
			want: "text: \"helo\"\nselection: 2-2 reversed=false caret=2\n",
		},
		{
			name: "click then extend",
			args: []string{"--text", "hello", "click:32,5", "shift+right"},
			want: "text: \"hello\"\nselection: 3-4 reversed=false caret=4\n",
		},
		{
			name: "drag backwards",
			args: []string{"--text", "hello", "press:40,5", "drag:10,5", "release"},
			want: "text: \"hello\"\nselection: 1-4 reversed=true caret=1\n",
		},
		{
			name: "enter submits a url",
			args: []string{"--text", "https://example.com", "enter"},
			want: "submit: \"https://example.com\"\n" +
				"text: \"https://example.com\"\nselection: 19-19 reversed=false caret=19\n",
		},
		{
			name: "enter breaks a body line",
			args: []string{"--input", "body", "--text", "{}", "left", "enter"},
			want: "text: \"{\\n}\"\nselection: 2-2 reversed=false caret=2\n",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := runReplay(t, tc.args...)
			if err != nil {
				t.Fatalf("replay failed: %v", err)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("output mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestReplaySelectAllKeymap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inputs.toml")
	cfg := config.Default()
	cfg.Keymap.SelectAll = []string{"alt"}
	if err := config.Save(cfg, path); err != nil {
		t.Fatal(err)
	}

	got, err := runReplay(t, "--config", path, "--text", "hello", "alt+a", "type:hi")
	if err != nil {
		t.Fatalf("replay failed: %v", err)
	}
	want := "text: \"hi\"\nselection: 2-2 reversed=false caret=2\n"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}

	// The platform default no longer applies.
	if _, err := runReplay(t, "--config", path, "--text", "hello", "ctrl+a"); !errors.Is(err, errUnhandled) {
		t.Errorf("ctrl+a with a custom keymap: got %v, want errUnhandled", err)
	}
}

func TestReplayErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "unknown key", args: []string{"up"}, want: "step not handled"},
		{name: "bad point", args: []string{"click:1"}, want: "invalid point"},
		{name: "bad modifier", args: []string{"hyper+a"}, want: "unknown modifier"},
		{name: "unknown input", args: []string{"--input", "headers"}, want: "unknown input"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := runReplay(t, tc.args...)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Errorf("got error %v, want one containing %q", err, tc.want)
			}
		})
	}
}

func TestApplyStepUnhandled(t *testing.T) {
	ed := editor.New()
	if err := replay(ed, lt.NewMonospace("", 10, 20), []string{"ctrl+x"}); !errors.Is(err, errUnhandled) {
		t.Errorf("got %v, want errUnhandled", err)
	}
}

func TestVariableRanges(t *testing.T) {
	got := variableRanges("{{host}}/users/{{id}}?q={x}")
	want := []editor.Range{{Start: 0, End: 8}, {Start: 15, End: 21}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ranges mismatch (-want +got):\n%s", diff)
	}
	if got := variableRanges("plain"); len(got) != 0 {
		t.Errorf("unexpected ranges: %v", got)
	}
}
