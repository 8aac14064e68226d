// Package classifier derives a category label from an event type. The
// category is computed once when details are written and stored alongside
// them, never re-derived on read.
package classifier

import "strings"

// Category labels produced by Categorize.
const (
	CategoryAuthentication = "Authentication"
	CategoryTransaction    = "Transaction"
	CategoryError          = "Error"
	CategoryAnalytics      = "Analytics"
	CategoryGeneral        = "General"
)

// Categorize maps an event type to its category, case-insensitively.
// It is total: any unrecognized type yields CategoryGeneral, so callers do
// not have to validate the input first.
func Categorize(eventType string) string {
	switch strings.ToUpper(strings.TrimSpace(eventType)) {
	case "LOGIN", "LOGOUT":
		return CategoryAuthentication
	case "PURCHASE", "PAYMENT":
		return CategoryTransaction
	case "ERROR", "CRASH":
		return CategoryError
	case "PAGE_VIEW", "CLICK":
		return CategoryAnalytics
	default:
		return CategoryGeneral
	}
}
