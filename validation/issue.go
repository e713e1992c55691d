package validation

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
)

// Severity ranks an issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Issue is one finding reported by a validator.
type Issue struct {
	Validator string   `mapstructure:"validator" json:"validator"`
	Severity  Severity `mapstructure:"severity" json:"severity"`
	Message   string   `mapstructure:"message" json:"message"`
	Path      string   `mapstructure:"path" json:"path,omitempty"`
}

// HasErrors reports whether any issue has error severity.
func HasErrors(issues []Issue) bool {
	for _, i := range issues {
		if i.Severity == SeverityError {
			return true
		}
	}
	return false
}

// IssuesFrom converts a context value back into issues. It accepts []Issue
// as well as the generic shapes produced by a JSON round trip.
func IssuesFrom(v any) ([]Issue, error) {
	switch issues := v.(type) {
	case nil:
		return nil, nil
	case []Issue:
		return issues, nil
	}
	var out []Issue
	if err := mapstructure.Decode(v, &out); err != nil {
		return nil, fmt.Errorf("decode issues: %w", err)
	}
	return out, nil
}
