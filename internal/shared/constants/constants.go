package constants

const (
	// Environment constants
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"

	// HTTP Headers
	HeaderContentType        = "Content-Type"
	HeaderAuthorization      = "Authorization"
	HeaderXRequestID         = "X-Request-ID"
	HeaderContentDisposition = "Content-Disposition"

	// Content Types
	ContentTypeJSON  = "application/json"
	ContentTypeLabel = "application/octet-stream"

	// Context keys
	ContextKeyUserID    = "user_id"
	ContextKeyUsername  = "username"
	ContextKeyRequestID = "request_id"

	// Database table names
	TableTickets          = "tickets"
	TableTicketViolations = "ticket_violations"
	TableViolations       = "violations"
	TableProperties       = "properties"
	TableVehicles         = "vehicles"
	TableAuditLogs        = "audit_logs"
	TablePrinterSettings  = "printer_settings"

	// Search defaults
	DefaultSearchMaxRows = 500
)
