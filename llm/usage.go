package llm

import (
	"fmt"
	"time"

	"github.com/go-viper/mapstructure/v2"
)

// UsageRow aggregates requests for one provider/model pair.
type UsageRow struct {
	Count        int     `json:"count"`
	InputTokens  int     `json:"input_tokens"`
	OutputTokens int     `json:"output_tokens"`
	Cost         float64 `json:"cost"`
	Errors       int     `json:"errors"`
	// AverageDuration is taken over successful requests only.
	AverageDuration time.Duration `json:"average_duration"`

	succeeded int
	total     time.Duration
}

func (u *UsageRow) add(r Request) {
	u.Count++
	if r.InputTokens != nil {
		u.InputTokens += *r.InputTokens
	}
	if r.OutputTokens != nil {
		u.OutputTokens += *r.OutputTokens
	}
	if r.Cost != nil {
		u.Cost += *r.Cost
	}
	switch r.Status {
	case StatusError:
		u.Errors++
	case StatusSuccess:
		u.succeeded++
		u.total += r.Duration
		u.AverageDuration = u.total / time.Duration(u.succeeded)
	}
}

// UsageReport summarizes a set of requests.
type UsageReport struct {
	// Models is keyed by "provider/model".
	Models map[string]UsageRow `json:"models"`
	Totals UsageRow            `json:"totals"`
}

// BuildUsageReport aggregates the finished requests of history matching
// filter. Pending requests are not counted.
func BuildUsageReport(history []Request, filter Filter) UsageReport {
	report := UsageReport{Models: make(map[string]UsageRow)}
	for _, r := range history {
		if r.Status == StatusPending || !filter.Match(r) {
			continue
		}
		row := report.Models[r.Key()]
		row.add(r)
		report.Models[r.Key()] = row
		report.Totals.add(r)
	}
	return report
}

// Map renders the report as plain maps for storage in an execution context.
func (u UsageReport) Map() map[string]any {
	models := make(map[string]any, len(u.Models))
	for k, row := range u.Models {
		models[k] = row.Map()
	}
	return map[string]any{
		"models": models,
		"totals": u.Totals.Map(),
	}
}

// Map renders the row as a plain map.
func (u UsageRow) Map() map[string]any {
	return map[string]any{
		"count":               u.Count,
		"input_tokens":        u.InputTokens,
		"output_tokens":       u.OutputTokens,
		"cost":                u.Cost,
		"errors":              u.Errors,
		"average_duration_ms": u.AverageDuration.Milliseconds(),
	}
}

// Merge adds other's rows into u.
func (u *UsageReport) Merge(other UsageReport) {
	if u.Models == nil {
		u.Models = make(map[string]UsageRow, len(other.Models))
	}
	for k, row := range other.Models {
		mine := u.Models[k]
		mine.merge(row)
		u.Models[k] = mine
	}
	u.Totals.merge(other.Totals)
}

func (u *UsageRow) merge(o UsageRow) {
	u.Count += o.Count
	u.InputTokens += o.InputTokens
	u.OutputTokens += o.OutputTokens
	u.Cost += o.Cost
	u.Errors += o.Errors
	u.succeeded += o.succeeded
	u.total += o.total
	if u.succeeded > 0 {
		u.AverageDuration = u.total / time.Duration(u.succeeded)
	}
}

type storedRow struct {
	Count           int     `mapstructure:"count"`
	InputTokens     int     `mapstructure:"input_tokens"`
	OutputTokens    int     `mapstructure:"output_tokens"`
	Cost            float64 `mapstructure:"cost"`
	Errors          int     `mapstructure:"errors"`
	AverageDuration int64   `mapstructure:"average_duration_ms"`
}

func (r storedRow) row() UsageRow {
	row := UsageRow{
		Count:           r.Count,
		InputTokens:     r.InputTokens,
		OutputTokens:    r.OutputTokens,
		Cost:            r.Cost,
		Errors:          r.Errors,
		AverageDuration: time.Duration(r.AverageDuration) * time.Millisecond,
		succeeded:       max(r.Count-r.Errors, 0),
	}
	row.total = row.AverageDuration * time.Duration(row.succeeded)
	return row
}

// UsageReportFromMap decodes a report stored with [UsageReport.Map], including
// one that went through a JSON round trip.
func UsageReportFromMap(v any) (UsageReport, error) {
	var stored struct {
		Models map[string]storedRow `mapstructure:"models"`
		Totals storedRow            `mapstructure:"totals"`
	}
	if err := mapstructure.WeakDecode(v, &stored); err != nil {
		return UsageReport{}, fmt.Errorf("decode usage report: %w", err)
	}
	report := UsageReport{Models: make(map[string]UsageRow, len(stored.Models)), Totals: stored.Totals.row()}
	for k, r := range stored.Models {
		report.Models[k] = r.row()
	}
	return report, nil
}
