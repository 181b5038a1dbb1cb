package schema

import "strings"

type Search struct {
	Query string `json:"query" validate:"min=2,max=50,searchchars"`
}

var searchMessages = messages{
	"query.min":         "search must be at least 2 characters",
	"query.max":         "search cannot exceed 50 characters",
	"query.searchchars": "special characters are not allowed",
}

// ValidateSearch checks a query exactly as typed; callers trim first if they
// want to.
func ValidateSearch(query string) error {
	return check(Search{Query: query}, searchMessages)
}

// NormalizeSearch trims the query and validates it. An empty query means
// "no filter" and is accepted.
func NormalizeSearch(query string) (string, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return "", nil
	}
	if err := ValidateSearch(q); err != nil {
		return "", err
	}
	return q, nil
}
