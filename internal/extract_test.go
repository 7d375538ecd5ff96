package internal

import (
	"testing"
)

func TestExtractTextFromValueControl(t *testing.T) {
	page := NewSimPage("chatgpt.com", "/")
	ctrl := NewSimControl(page, []string{"textarea"}, Rect{W: 400, H: 40})
	ctrl.SetValue("  hello world  ")

	if got := ExtractText(ctrl); got != "hello world" {
		t.Errorf("ExtractText = %q, want %q", got, "hello world")
	}
}

func TestExtractTextFromEditorBlocks(t *testing.T) {
	page := NewSimPage("claude.ai", "/")
	ed := NewSimEditor(page, []string{"div"}, Rect{W: 400, H: 40})
	ed.SetBlocks("first line", "second line")

	want := "first line\nsecond line"
	if got := ExtractText(ed); got != want {
		t.Errorf("ExtractText = %q, want %q", got, want)
	}
}

func TestExtractTextEmptyInputs(t *testing.T) {
	page := NewSimPage("chatgpt.com", "/")

	if got := ExtractText(nil); got != "" {
		t.Errorf("ExtractText(nil) = %q, want empty", got)
	}

	ctrl := NewSimControl(page, []string{"textarea"}, Rect{})
	if got := ExtractText(ctrl); got != "" {
		t.Errorf("ExtractText(empty control) = %q, want empty", got)
	}

	ed := NewSimEditor(page, []string{"div"}, Rect{})
	if got := ExtractText(ed); got != "" {
		t.Errorf("ExtractText(empty editor) = %q, want empty", got)
	}
}

func TestExtractTextWhitespaceOnlyBlocks(t *testing.T) {
	page := NewSimPage("claude.ai", "/")
	ed := NewSimEditor(page, []string{"div"}, Rect{})
	ed.SetBlocks("   ", "")

	if got := ExtractText(ed); got != "" {
		t.Errorf("ExtractText = %q, want empty", got)
	}
}

// brokenEditor panics in every accessor, modelling a page mid-teardown.
type brokenEditor struct {
	SimEditor
}

func (b *brokenEditor) BlockTexts() []string {
	panic("node detached")
}

func TestExtractTextNeverPanics(t *testing.T) {
	page := NewSimPage("claude.ai", "/")
	ed := &brokenEditor{SimEditor: *NewSimEditor(page, []string{"div"}, Rect{})}

	if got := ExtractText(ed); got != "" {
		t.Errorf("ExtractText = %q, want empty on panic", got)
	}
}
