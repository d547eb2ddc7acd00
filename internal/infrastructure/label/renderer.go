// Package label lays tickets out as ZPL II for thermal label printers.
package label

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/parkwarden/parkwarden/internal/domain/ticket"
	"github.com/parkwarden/parkwarden/internal/shared/logger"
	"github.com/parkwarden/parkwarden/internal/shared/services/markdown"
)

const (
	issuedFormat = "01/02/2006 3:04 PM MST"
	introText    = "This vehicle was found in violation of the following parking rules:"
)

// RenderError kinds.
const (
	KindTokenOverflow = "token_overflow"
	KindBlockOverflow = "block_overflow"
	KindLabelOverflow = "label_overflow"
)

// RenderError describes where the layout estimate overflowed. The label is
// still produced, degraded by truncation.
type RenderError struct {
	Kind   string
	Block  string
	Detail string
}

func (e RenderError) Error() string {
	return fmt.Sprintf("label %s in %s: %s", e.Kind, e.Block, e.Detail)
}

// Result is a rendered label and the overflow it degraded around.
type Result struct {
	Payload  []byte
	Problems []RenderError
}

var _ ticket.LabelRenderer = (*Renderer)(nil)

// DisclaimerFormat selects how property disclaimers are read.
type DisclaimerFormat string

const (
	// DisclaimerText prints every non-empty line as written.
	DisclaimerText DisclaimerFormat = "text"
	// DisclaimerMarkdown reads the disclaimer as Markdown and prints its text.
	DisclaimerMarkdown DisclaimerFormat = "markdown"
)

type Renderer struct {
	format   DisclaimerFormat
	markdown markdown.MarkdownService
	logger   logger.Interface
}

func NewRenderer(format DisclaimerFormat, log logger.Interface) *Renderer {
	if format == "" {
		format = DisclaimerText
	}
	return &Renderer{
		format:   format,
		markdown: markdown.NewMarkdownService(),
		logger:   log.Named("label"),
	}
}

// Render lays out the label and logs every RenderError at warn level.
func (r *Renderer) Render(in ticket.LabelInput) ([]byte, error) {
	result, err := r.Layout(in)
	if err != nil {
		return nil, err
	}
	for _, p := range result.Problems {
		r.logger.Warnw("label layout overflow",
			"ticket_id", in.Ticket.ID(),
			"kind", p.Kind,
			"block", p.Block,
			"detail", p.Detail)
	}
	return result.Payload, nil
}

// Layout produces the ZPL payload. The output depends only on in.
func (r *Renderer) Layout(in ticket.LabelInput) (*Result, error) {
	t := in.Ticket
	if t == nil || t.ID() == 0 {
		return nil, errors.New("label requires a persisted ticket")
	}
	if in.Settings.LabelWidthDots <= 0 {
		return nil, errors.New("label width must be positive")
	}

	prop := t.Property()
	propertyRaw := []string{prop.Name, prop.Address}
	propertyRaw = append(propertyRaw, strings.Split(prop.Contact, "\n")...)

	loc := t.IssuedLocation()
	issuedAt := t.IssuedAt().In(loc)

	var towRaw []string
	if in.Totals.HasTowDeadline() {
		hours := *in.Totals.MinTowDeadlineHours
		eligible := issuedAt.Add(time.Duration(hours) * time.Hour)
		towRaw = []string{
			fmt.Sprintf("VEHICLE SUBJECT TO TOW AFTER %d HOURS", hours),
			"ELIGIBLE FOR TOW AT " + eligible.Format(issuedFormat),
		}
	}

	// The tow warning, property block and barcode always print.
	textWidth := in.Settings.LabelWidthDots - 2*marginLeft
	tail := blockHeight(estimateLines(propertyRaw, textWidth, smallFont), smallFont) + barcodeReserve
	if len(towRaw) > 0 {
		tail += blockHeight(estimateLines(towRaw, textWidth, bodyFont), bodyFont)
	}
	l := newLayout(in.Settings.LabelWidthDots, in.Settings.MaxLabelLengthDots, tail)

	if name := Sanitize(in.Settings.LogoGraphic); name != "" {
		l.graphic(name, in.Settings.LogoHeightDots)
	}

	l.text("header", headerFont, true, t.Type().String())

	v := t.Vehicle()
	l.text("vehicle", bodyFont, true, titleCase(joinNonEmpty(" ", v.Year, v.Color, v.Make, v.Model)))
	l.text("registration", bodyFont, true, registrationLine(v.Tag, v.Plate))
	l.text("intro", smallFont, true, introText)

	for i, item := range in.LineItems {
		l.text("line_item", bodyFont, true, fmt.Sprintf("%d. %s", i+1, item.Description()))
	}

	l.text("issued", bodyFont, true, "Issued: "+issuedAt.Format(issuedFormat))

	if !in.Totals.TotalFine.IsZero() {
		l.text("fine", bodyFont, true, "Fine: $"+in.Totals.TotalFine.String())
	}

	disclaimer, err := r.disclaimerLines(in.Disclaimer)
	if err != nil {
		l.report(KindBlockOverflow, "disclaimer", "disclaimer not rendered: %v", err)
	}
	for _, line := range disclaimer {
		l.text("disclaimer", smallFont, true, line)
	}

	if len(towRaw) > 0 {
		l.text("tow", bodyFont, false, towRaw...)
	}

	l.text("property", smallFont, false, propertyRaw...)
	l.barcode(strconv.FormatUint(uint64(t.ID()), 10))

	var out strings.Builder
	fmt.Fprintf(&out, "^XA\n^CI0\n^PW%d\n^LH0,0\n^LL%d\n", in.Settings.LabelWidthDots, l.y)
	out.WriteString(l.body.String())
	out.WriteString("^XZ\n")

	return &Result{Payload: []byte(out.String()), Problems: l.problems}, nil
}

// disclaimerLines returns the non-empty disclaimer lines, each still to be
// sanitized and wrapped.
func (r *Renderer) disclaimerLines(disclaimer string) ([]string, error) {
	if r.format == DisclaimerMarkdown {
		return r.markdown.ToPlainLines(disclaimer)
	}
	var lines []string
	for _, line := range strings.Split(disclaimer, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, nil
}

// estimateLines counts wrapped lines without recording problems.
func estimateLines(raw []string, width, font int) int {
	if width < 1 {
		width = 1
	}
	limit := charsPerLine(width, font)
	n := 0
	for _, line := range raw {
		wrapped, _ := wrap(Sanitize(line), limit)
		n += len(wrapped)
	}
	if n > maxBlockLines {
		n = maxBlockLines
	}
	return n
}

func registrationLine(tag, plate string) string {
	var parts []string
	if tag = strings.TrimSpace(tag); tag != "" {
		parts = append(parts, "Tag: "+tag)
	}
	if plate = strings.TrimSpace(plate); plate != "" {
		parts = append(parts, "Plate: "+plate)
	}
	return strings.Join(parts, " ")
}

func joinNonEmpty(sep string, values ...string) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, sep)
}
