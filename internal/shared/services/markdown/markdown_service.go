// Package markdown turns operator-authored Markdown (property disclaimers)
// into plain text lines.
package markdown

import (
	"html"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

type MarkdownService interface {
	// ToPlainLines drops emphasis and link syntax and returns the non-empty
	// trimmed lines. List markers are kept. Inline text that looks like a tag,
	// such as "<Bldg A>", is kept literally; HTML blocks are reduced to their text.
	ToPlainLines(markdown string) ([]string, error)
}

type markdownServiceImpl struct {
	md    goldmark.Markdown
	strip *bluemonday.Policy
}

func NewMarkdownService() MarkdownService {
	return &markdownServiceImpl{
		md: goldmark.New(
			goldmark.WithExtensions(extension.Strikethrough),
		),
		strip: bluemonday.StrictPolicy(),
	}
}

func (s *markdownServiceImpl) ToPlainLines(markdown string) ([]string, error) {
	if strings.TrimSpace(markdown) == "" {
		return nil, nil
	}

	source := []byte(markdown)
	doc := s.md.Parser().Parse(text.NewReader(source))

	var (
		lines   []string
		current strings.Builder
		marker  string
	)
	flush := func() {
		if line := strings.TrimSpace(current.String()); line != "" {
			lines = append(lines, line)
		}
		current.Reset()
	}

	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		switch node := n.(type) {
		case *ast.ListItem:
			if entering {
				marker = listMarker(node)
			}
		case *ast.Paragraph, *ast.TextBlock, *ast.Heading:
			if entering {
				flush()
				current.WriteString(marker)
				marker = ""
			} else {
				flush()
			}
		case *ast.Text:
			if !entering {
				break
			}
			value := node.Segment.Value(source)
			if !node.IsRaw() {
				value = util.ResolveEntityNames(util.ResolveNumericReferences(util.UnescapePunctuations(value)))
			}
			current.Write(value)
			if node.SoftLineBreak() || node.HardLineBreak() {
				flush()
			}
		case *ast.String:
			if entering {
				current.Write(node.Value)
			}
		case *ast.CodeSpan:
			if entering {
				for c := node.FirstChild(); c != nil; c = c.NextSibling() {
					if t, ok := c.(*ast.Text); ok {
						current.Write(t.Segment.Value(source))
					}
				}
				return ast.WalkSkipChildren, nil
			}
		case *ast.AutoLink:
			if entering {
				current.Write(node.Label(source))
			}
		case *ast.RawHTML:
			if entering {
				for i := 0; i < node.Segments.Len(); i++ {
					segment := node.Segments.At(i)
					current.Write(segment.Value(source))
				}
			}
		case *ast.HTMLBlock:
			if entering {
				flush()
				lines = append(lines, s.htmlText(node, source)...)
				return ast.WalkSkipChildren, nil
			}
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			if entering {
				flush()
				lines = append(lines, nonEmptyLines(string(n.Lines().Value(source)))...)
				return ast.WalkSkipChildren, nil
			}
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}
	flush()
	return lines, nil
}

// htmlText keeps only the text of an HTML block.
func (s *markdownServiceImpl) htmlText(node *ast.HTMLBlock, source []byte) []string {
	var raw strings.Builder
	raw.Write(node.Lines().Value(source))
	if node.HasClosure() {
		raw.Write(node.ClosureLine.Value(source))
	}
	return nonEmptyLines(html.UnescapeString(s.strip.Sanitize(raw.String())))
}

func listMarker(item *ast.ListItem) string {
	list, ok := item.Parent().(*ast.List)
	if !ok {
		return ""
	}
	if !list.IsOrdered() {
		return string(list.Marker) + " "
	}
	index := 0
	for c := list.FirstChild(); c != nil && c != ast.Node(item); c = c.NextSibling() {
		index++
	}
	return strconv.Itoa(list.Start+index) + string(list.Marker) + " "
}

func nonEmptyLines(s string) []string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
