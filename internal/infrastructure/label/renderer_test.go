package label

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parkwarden/parkwarden/internal/domain/setting"
	"github.com/parkwarden/parkwarden/internal/domain/ticket"
	vo "github.com/parkwarden/parkwarden/internal/domain/ticket/valueobjects"
	"github.com/parkwarden/parkwarden/internal/shared/logger"
)

func testSettings() setting.PrinterSettings {
	return setting.PrinterSettings{
		Timezone:           "America/Chicago",
		DPI:                203,
		LabelWidthDots:     812,
		MaxLabelLengthDots: 2436,
	}
}

func testTicket(t *testing.T, ticketType vo.TicketType) *ticket.Ticket {
	t.Helper()
	tk, err := ticket.ReconstructTicket(
		42,
		ticketType,
		ticket.VehicleSnapshot{VehicleID: 9, Year: "2019", Color: "blue", Make: "honda", Model: "civic", Tag: "T-77", Plate: "ABC123"},
		ticket.PropertySnapshot{PropertyID: 1, Name: "Maple Court", Address: "100 Maple St", Contact: "Office: 555-0100"},
		3, "officer.lee",
		time.Date(2024, 3, 2, 15, 15, 0, 0, time.UTC),
		"America/Chicago",
		nil,
		vo.StatusActive, nil, nil, nil,
	)
	require.NoError(t, err)
	return tk
}

func lineItem(id uint, description string) *ticket.LineItem {
	vid := id
	return ticket.ReconstructLineItem(id, 42, &vid, description, int(id))
}

func testInput(t *testing.T) ticket.LabelInput {
	tow := 24
	return ticket.LabelInput{
		Ticket:    testTicket(t, vo.TypeViolation),
		LineItems: []*ticket.LineItem{lineItem(1, "No Permit"), lineItem(2, "Blocking Fire Lane")},
		Totals:    ticket.Totals{TotalFine: vo.NewMoneyFromCents(15000), MinTowDeadlineHours: &tow},
		Settings:  testSettings(),
	}
}

func layoutOf(t *testing.T, in ticket.LabelInput) *Result {
	t.Helper()
	res, err := NewRenderer(DisclaimerText, logger.NewNop()).Layout(in)
	require.NoError(t, err)
	return res
}

func TestLayout_FullTicket(t *testing.T) {
	res := layoutOf(t, testInput(t))
	out := string(res.Payload)

	assert.True(t, strings.HasPrefix(out, "^XA\n"))
	assert.True(t, strings.HasSuffix(out, "^XZ\n"))
	assert.Contains(t, out, "^PW812")
	assert.Empty(t, res.Problems)

	order := []string{
		"^FDVIOLATION^FS",
		"^FD2019 Blue Honda Civic^FS",
		"^FDTag: T-77 Plate: ABC123^FS",
		introText[:20],
		"^FD1. No Permit^FS",
		"^FD2. Blocking Fire Lane^FS",
		"^FDIssued: 03/02/2024 9:15 AM CST^FS",
		"^FDFine: $150.00^FS",
		`VEHICLE SUBJECT TO TOW AFTER 24 HOURS\&ELIGIBLE FOR TOW AT 03/03/2024 9:15 AM CST`,
		`^FDMaple Court\&100 Maple St\&Office: 555-0100^FS`,
		"^BCN,80,Y,N,N^FD42^FS",
	}
	last := -1
	for _, fragment := range order {
		idx := strings.Index(out, fragment)
		require.NotEqual(t, -1, idx, "missing %q", fragment)
		assert.Greater(t, idx, last, "%q out of order", fragment)
		last = idx
	}
}

func TestLayout_Deterministic(t *testing.T) {
	in := testInput(t)
	first := layoutOf(t, in)
	second := layoutOf(t, in)
	assert.Equal(t, first.Payload, second.Payload)
}

func TestLayout_ZeroFineOmitted(t *testing.T) {
	in := testInput(t)
	in.Totals = ticket.Totals{}

	out := string(layoutOf(t, in).Payload)
	assert.NotContains(t, out, "Fine:")
	assert.NotContains(t, out, "TOW")
}

func TestLayout_TowBlockNeedsPositiveDeadline(t *testing.T) {
	in := testInput(t)
	zero := 0
	in.Totals.MinTowDeadlineHours = &zero

	out := string(layoutOf(t, in).Payload)
	assert.NotContains(t, out, "SUBJECT TO TOW")
	assert.Contains(t, out, "Fine: $150.00")
}

func TestLayout_WarningHeader(t *testing.T) {
	in := testInput(t)
	in.Ticket = testTicket(t, vo.TypeWarning)

	out := string(layoutOf(t, in).Payload)
	assert.Contains(t, out, "^FDWARNING^FS")
}

func TestLayout_SanitizesExternalText(t *testing.T) {
	in := testInput(t)
	in.LineItems = []*ticket.LineItem{lineItem(1, "Parked ^XZ~JR on café lawn\x07")}

	out := string(layoutOf(t, in).Payload)
	assert.Contains(t, out, "^FD1. Parked XZJR on cafe lawn^FS")
	assert.Equal(t, 1, strings.Count(out, "^XZ"))
	assert.NotContains(t, out, "~")
}

func TestLayout_DisclaimerPrintedAsWritten(t *testing.T) {
	in := testInput(t)
	in.Disclaimer = "1. Unauthorized vehicles towed at owner expense.\n\n  2. Questions: see office <Bldg A>.\nFine is $50 *per* day"

	out := string(layoutOf(t, in).Payload)
	assert.Contains(t, out, "^FD1. Unauthorized vehicles towed at owner expense.^FS")
	assert.Contains(t, out, "^FD2. Questions: see office <Bldg A>.^FS")
	assert.Contains(t, out, "^FDFine is $50 *per* day^FS")
	assert.Less(t, strings.Index(out, "Fine is $50"), strings.Index(out, "SUBJECT TO TOW"))
}

func TestLayout_MarkdownDisclaimer(t *testing.T) {
	in := testInput(t)
	in.Disclaimer = "**Towing** at owner's expense.\n\n1. Call *555-0100* & ask.\n2. See office <Bldg A>."

	res, err := NewRenderer(DisclaimerMarkdown, logger.NewNop()).Layout(in)
	require.NoError(t, err)

	out := string(res.Payload)
	assert.Contains(t, out, "^FDTowing at owner's expense.^FS")
	assert.Contains(t, out, "^FD1. Call 555-0100 & ask.^FS")
	assert.Contains(t, out, "^FD2. See office <Bldg A>.^FS")
}

func TestLayout_Logo(t *testing.T) {
	in := testInput(t)
	in.Settings.LogoGraphic = "LOGO.GRF"
	in.Settings.LogoHeightDots = 100

	out := string(layoutOf(t, in).Payload)
	assert.Contains(t, out, "^FO20,20^XGR:LOGO.GRF,1,1^FS")
	assert.Contains(t, out, "^FO20,132^A0N,60,60")
}

func TestLayout_TokenOverflow(t *testing.T) {
	in := testInput(t)
	in.LineItems = []*ticket.LineItem{lineItem(1, strings.Repeat("X", 120))}

	res := layoutOf(t, in)
	require.Len(t, res.Problems, 1)
	assert.Equal(t, KindTokenOverflow, res.Problems[0].Kind)
	assert.Equal(t, "line_item", res.Problems[0].Block)
}

func TestLayout_BlockOverflow(t *testing.T) {
	in := testInput(t)
	in.Disclaimer = strings.Repeat("word ", 200)

	res := layoutOf(t, in)
	require.NotEmpty(t, res.Problems)
	assert.Equal(t, KindBlockOverflow, res.Problems[0].Kind)
	assert.Equal(t, "disclaimer", res.Problems[0].Block)
}

func TestLayout_LabelOverflowKeepsTowPropertyAndBarcode(t *testing.T) {
	in := testInput(t)
	in.Settings.MaxLabelLengthDots = 680

	res := layoutOf(t, in)
	out := string(res.Payload)

	require.Len(t, res.Problems, 1)
	assert.Equal(t, KindLabelOverflow, res.Problems[0].Kind)
	assert.Equal(t, "fine", res.Problems[0].Block)
	assert.NotContains(t, out, "Fine:")
	assert.Contains(t, out, "VEHICLE SUBJECT TO TOW AFTER 24 HOURS")
	assert.Contains(t, out, "Maple Court")
	assert.Contains(t, out, "^BCN,80,Y,N,N^FD42^FS")
}

func TestLayout_LongDisclaimerKeepsTowWarning(t *testing.T) {
	in := testInput(t)
	lines := make([]string, 80)
	for i := range lines {
		lines[i] = "Vehicles parked in violation of posted rules may be removed."
	}
	in.Disclaimer = strings.Join(lines, "\n")

	res := layoutOf(t, in)
	out := string(res.Payload)

	require.NotEmpty(t, res.Problems)
	last := res.Problems[len(res.Problems)-1]
	assert.Equal(t, KindLabelOverflow, last.Kind)
	assert.Equal(t, "disclaimer", last.Block)

	tow := strings.Index(out, "VEHICLE SUBJECT TO TOW AFTER 24 HOURS")
	require.NotEqual(t, -1, tow)
	assert.Less(t, strings.LastIndex(out, "Vehicles parked"), tow)
	assert.Less(t, tow, strings.Index(out, "Maple Court"))

	var length int
	_, err := fmt.Sscanf(out[strings.Index(out, "^LL"):], "^LL%d", &length)
	require.NoError(t, err)
	assert.LessOrEqual(t, length, in.Settings.MaxLabelLengthDots)
}

func TestLayout_RequiresPersistedTicket(t *testing.T) {
	_, err := NewRenderer(DisclaimerText, logger.NewNop()).Layout(ticket.LabelInput{Settings: testSettings()})
	assert.Error(t, err)
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Café", "Cafe"},
		{"A^B~C\\D", "ABCD"},
		{"x\x01y", "xy"},
		{"München ß", "Munchen"},
		{"line1\nline2", "line1 line2"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Sanitize(tt.in), tt.in)
	}
}

func TestWrap(t *testing.T) {
	lines, split := wrap("aaa bbb ccc", 7)
	assert.Equal(t, []string{"aaa bbb", "ccc"}, lines)
	assert.False(t, split)

	lines, split = wrap("abcdefghij", 4)
	assert.Equal(t, []string{"abcd", "efgh", "ij"}, lines)
	assert.True(t, split)
}
