package ledger

import "github.com/shopspring/decimal"

// MetricsCollector records transfer outcomes.
type MetricsCollector interface {
	RecordTransaction(txType string, amount decimal.Decimal)
	RecordError(operation, errType string)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (n *NoopMetricsCollector) RecordTransaction(string, decimal.Decimal) {}
func (n *NoopMetricsCollector) RecordError(string, string)               {}
