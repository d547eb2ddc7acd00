package label

import (
	"fmt"
	"strings"
)

// Layout constants in printer dots.
const (
	marginLeft     = 20
	marginTop      = 20
	headerFont     = 60
	bodyFont       = 28
	smallFont      = 22
	lineGap        = 4
	blockGap       = 12
	maxBlockLines  = 12
	barcodeHeight  = 80
	barcodeReserve = barcodeHeight + smallFont + 2*blockGap

	// A glyph is estimated at 0.55 of the font height.
	charWidthPercent = 55
)

// charsPerLine estimates how many characters of font fit in width dots.
func charsPerLine(width, font int) int {
	n := width * 100 / (font * charWidthPercent)
	if n < 1 {
		return 1
	}
	return n
}

// wrap breaks text into lines of at most limit characters at spaces. A word
// longer than limit is split hard and reported.
func wrap(text string, limit int) (lines []string, splitToken bool) {
	var current strings.Builder
	flush := func() {
		if current.Len() > 0 {
			lines = append(lines, current.String())
			current.Reset()
		}
	}

	for _, word := range strings.Fields(text) {
		for len(word) > limit {
			splitToken = true
			flush()
			lines = append(lines, word[:limit])
			word = word[limit:]
		}
		switch {
		case current.Len() == 0:
			current.WriteString(word)
		case current.Len()+1+len(word) <= limit:
			current.WriteByte(' ')
			current.WriteString(word)
		default:
			flush()
			current.WriteString(word)
		}
	}
	flush()
	return lines, splitToken
}

// layout tracks the vertical cursor while ZPL commands are appended.
type layout struct {
	body      strings.Builder
	y         int
	textWidth int
	// limit is the last dot optional blocks may reach; 0 means unbounded.
	limit    int
	cut      bool
	problems []RenderError
}

func newLayout(labelWidth, maxLength, reservedTail int) *layout {
	l := &layout{
		y:         marginTop,
		textWidth: labelWidth - 2*marginLeft,
	}
	if l.textWidth < 1 {
		l.textWidth = 1
	}
	if maxLength > 0 {
		l.limit = maxLength - reservedTail
	}
	return l
}

func (l *layout) report(kind, block, format string, args ...any) {
	l.problems = append(l.problems, RenderError{
		Kind:   kind,
		Block:  block,
		Detail: fmt.Sprintf(format, args...),
	})
}

func blockHeight(lines, font int) int {
	return lines*(font+lineGap) + blockGap
}

// wrapLines sanitizes and wraps each raw line independently.
func (l *layout) wrapLines(block string, raw []string, font int) []string {
	limit := charsPerLine(l.textWidth, font)
	var out []string
	for _, line := range raw {
		wrapped, split := wrap(Sanitize(line), limit)
		if split {
			l.report(KindTokenOverflow, block, "word longer than %d characters split", limit)
		}
		out = append(out, wrapped...)
	}
	return out
}

// text emits a field block. Optional blocks are dropped, together with every
// optional block after them, once the cursor would pass the length limit.
func (l *layout) text(block string, font int, optional bool, raw ...string) {
	if optional && l.cut {
		return
	}

	lines := l.wrapLines(block, raw, font)
	if len(lines) == 0 {
		return
	}
	if len(lines) > maxBlockLines {
		l.report(KindBlockOverflow, block, "%d lines truncated to %d", len(lines), maxBlockLines)
		lines = lines[:maxBlockLines]
	}

	height := blockHeight(len(lines), font)
	if optional && l.limit > 0 && l.y+height > l.limit {
		l.cut = true
		l.report(KindLabelOverflow, block, "block at %d dots would pass %d; remaining text omitted", l.y, l.limit)
		return
	}

	fmt.Fprintf(&l.body, "^FO%d,%d^A0N,%d,%d^FB%d,%d,%d,L^FD%s^FS\n",
		marginLeft, l.y, font, font, l.textWidth, len(lines), lineGap, strings.Join(lines, `\&`))
	l.y += height
}

func (l *layout) graphic(name string, height int) {
	fmt.Fprintf(&l.body, "^FO%d,%d^XGR:%s,1,1^FS\n", marginLeft, l.y, name)
	l.y += height + blockGap
}

func (l *layout) barcode(data string) {
	fmt.Fprintf(&l.body, "^FO%d,%d^BY2^BCN,%d,Y,N,N^FD%s^FS\n", marginLeft, l.y, barcodeHeight, data)
	l.y += barcodeReserve
}
