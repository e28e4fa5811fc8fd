package export

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/gocarina/gocsv"

	"bankstmt/iso20022/internal/logging"
	"bankstmt/iso20022/internal/models"
)

// Exporter renders records with a configurable CSV delimiter. An empty
// record set yields header-only output, never an error.
type Exporter struct {
	delimiter rune
	logger    logging.Logger
}

// New creates an exporter. A zero delimiter falls back to a comma.
func New(delimiter rune, logger logging.Logger) *Exporter {
	if delimiter == 0 {
		delimiter = ','
	}
	return &Exporter{delimiter: delimiter, logger: logger}
}

// TransactionsCSV renders every entry of every statement, flattened in
// document order.
func (e *Exporter) TransactionsCSV(statements []models.StatementRecord) (string, error) {
	return e.marshal(transactionRows(statements))
}

// BalancesCSV renders the reported balances of every statement.
func (e *Exporter) BalancesCSV(statements []models.StatementRecord) (string, error) {
	return e.marshal(balanceRows(statements))
}

// StatsCSV renders one summary row per statement.
func (e *Exporter) StatsCSV(statements []models.StatementRecord) (string, error) {
	return e.marshal(statsRows(statements))
}

// PaymentsCSV renders one row per credit transfer, with the batch header
// fields repeated on each row.
func (e *Exporter) PaymentsCSV(instruction models.PaymentInstruction) (string, error) {
	return e.marshal(paymentRows(instruction))
}

func (e *Exporter) marshal(rows interface{}) (string, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	writer.Comma = e.delimiter
	if err := gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(writer)); err != nil {
		return "", fmt.Errorf("error writing CSV data: %w", err)
	}
	return buf.String(), nil
}
