// Package content holds the static landing copy and renders it for the web
// and terminal front ends.
package content

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"strings"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

//go:embed landing.md
var landingSource []byte

var (
	markdown     goldmark.Markdown
	markdownOnce sync.Once
)

func parser() goldmark.Markdown {
	markdownOnce.Do(func() {
		markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))
	})
	return markdown
}

// LandingHTML renders the landing copy to HTML.
func LandingHTML() (template.HTML, error) {
	var buf bytes.Buffer
	if err := parser().Convert(landingSource, &buf); err != nil {
		return "", fmt.Errorf("render landing markdown: %w", err)
	}
	// The source is embedded at build time, never user input.
	return template.HTML(buf.String()), nil
}

// BlockKind classifies a block of landing copy.
type BlockKind int

const (
	Heading BlockKind = iota
	Paragraph
	ListItem
)

// Block is a flattened piece of landing copy for plain-text rendering.
type Block struct {
	Kind  BlockKind
	Level int // heading level, 0 otherwise
	Text  string
}

// LandingBlocks returns the landing copy as a flat list of text blocks.
func LandingBlocks() []Block {
	return blocks(landingSource)
}

func blocks(source []byte) []Block {
	doc := parser().Parser().Parse(text.NewReader(source))

	var out []Block
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Heading:
			out = append(out, Block{Kind: Heading, Level: node.Level, Text: plain(node, source)})
			return ast.WalkSkipChildren, nil
		case *ast.ListItem:
			out = append(out, Block{Kind: ListItem, Text: plain(node, source)})
			return ast.WalkSkipChildren, nil
		case *ast.Paragraph:
			out = append(out, Block{Kind: Paragraph, Text: plain(node, source)})
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return out
}

// plain concatenates the text segments below n.
func plain(n ast.Node, source []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if t, ok := c.(*ast.Text); ok {
			b.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				b.WriteByte(' ')
			}
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}
