// Package schema parses untrusted JSON into typed values and checks form
// input, reporting field-level messages.
package schema

import "github.com/shopspring/decimal"

func init() {
	// prices travel as JSON numbers in both directions
	decimal.MarshalJSONWithoutQuotes = true
}
