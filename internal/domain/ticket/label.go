package ticket

import "github.com/parkwarden/parkwarden/internal/domain/setting"

// LabelInput is everything a printed label is laid out from.
type LabelInput struct {
	Ticket    *Ticket
	LineItems []*LineItem
	Totals    Totals
	// Disclaimer is the property's current disclaimer, authored as Markdown.
	Disclaimer string
	Settings   setting.PrinterSettings
}

// LabelRenderer turns a ticket into printer markup. Layout overflow degrades
// the output and is never returned as an error.
type LabelRenderer interface {
	Render(in LabelInput) ([]byte, error)
}
