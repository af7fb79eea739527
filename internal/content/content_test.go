package content

import (
	"strings"
	"testing"
)

func TestLandingHTML(t *testing.T) {
	html, err := LandingHTML()
	if err != nil {
		t.Fatalf("LandingHTML() error = %v", err)
	}
	for _, want := range []string{"<h1>StudySprint</h1>", "<li>", `<a href="/app">Get started</a>`} {
		if !strings.Contains(string(html), want) {
			t.Errorf("landing HTML missing %q:\n%s", want, html)
		}
	}
}

func TestLandingBlocks(t *testing.T) {
	got := LandingBlocks()
	if len(got) < 3 {
		t.Fatalf("expected heading, paragraphs and list items, got %+v", got)
	}
	if got[0].Kind != Heading || got[0].Level != 1 || got[0].Text != "StudySprint" {
		t.Errorf("first block = %+v, want level-1 heading StudySprint", got[0])
	}

	var items int
	last := got[len(got)-1]
	for _, b := range got {
		if b.Kind == ListItem {
			items++
		}
	}
	if items != 3 {
		t.Errorf("list items = %d, want 3", items)
	}
	if last.Kind != Paragraph || last.Text != "Get started" {
		t.Errorf("last block = %+v, want the call-to-action paragraph", last)
	}
}

func TestBlocksJoinSoftLineBreaks(t *testing.T) {
	got := blocks([]byte("first line\nsecond line\n"))
	if len(got) != 1 || got[0].Text != "first line second line" {
		t.Errorf("blocks() = %+v", got)
	}
}
