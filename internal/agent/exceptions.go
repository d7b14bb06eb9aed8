package agent

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/crucible-dev/crucible/internal/domain"
)

// Collector accumulates exception records for one agent session.
// Records are append-only: once collected they are never removed.
type Collector struct {
	records []domain.ExceptionRecord
}

// NewCollector creates an empty exception collector.
func NewCollector() *Collector {
	return &Collector{records: []domain.ExceptionRecord{}}
}

// Record appends an exception record for the given component.
func (c *Collector) Record(component string, detail domain.ExceptionDetail) {
	c.records = append(c.records, domain.ExceptionRecord{
		ID:        uuid.NewString(),
		Component: component,
		Error:     detail,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// RecordError appends a record built from an error return.
func (c *Collector) RecordError(component string, err error) {
	c.Record(component, domain.ExceptionDetail{
		Type:    "error",
		Message: err.Error(),
	})
}

// RecordFailure appends a record for a module that reported failure through
// its output mapping rather than an error return.
func (c *Collector) RecordFailure(component, moduleName, message string) {
	c.Record(component, domain.ExceptionDetail{
		Type:    "module_failure",
		Message: message,
		Module:  moduleName,
	})
}

// Records returns a copy of the collected records.
func (c *Collector) Records() []domain.ExceptionRecord {
	out := make([]domain.ExceptionRecord, len(c.records))
	copy(out, c.records)
	return out
}

// Len returns the number of collected records.
func (c *Collector) Len() int {
	return len(c.records)
}

// ExceptionReport is the aggregated exception report produced before commit:
// the full record list plus counts by type and the affected components.
type ExceptionReport struct {
	Status         string                   `json:"status"`
	ExceptionCount int                      `json:"exception_count"`
	Exceptions     []domain.ExceptionRecord `json:"exceptions"`
	Summary        ExceptionReportSummary   `json:"summary"`
}

// ExceptionReportSummary is the analysis section of an ExceptionReport.
type ExceptionReportSummary struct {
	TotalExceptions    int            `json:"total_exceptions"`
	ExceptionTypes     map[string]int `json:"exception_types"`
	AffectedComponents []string       `json:"affected_components"`
	Timestamp          string         `json:"timestamp"`
}

// BuildExceptionReport aggregates the given records into a report.
// An empty record list yields a success report with zero counts.
func BuildExceptionReport(records []domain.ExceptionRecord) ExceptionReport {
	report := ExceptionReport{
		Status:         "success",
		ExceptionCount: len(records),
		Exceptions:     records,
		Summary: ExceptionReportSummary{
			TotalExceptions: len(records),
			ExceptionTypes:  map[string]int{},
			Timestamp:       time.Now().UTC().Format(time.RFC3339),
		},
	}
	if len(records) == 0 {
		return report
	}

	report.Status = "failed"
	components := map[string]bool{}
	for _, rec := range records {
		excType := rec.Error.Type
		if excType == "" {
			excType = "unknown"
		}
		report.Summary.ExceptionTypes[excType]++
		components[rec.Component] = true
	}

	for component := range components {
		report.Summary.AffectedComponents = append(report.Summary.AffectedComponents, component)
	}
	sort.Strings(report.Summary.AffectedComponents)

	return report
}
