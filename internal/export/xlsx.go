package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"bankstmt/iso20022/internal/models"
)

// Workbook renders statements into an Excel workbook with Transactions,
// Balances and Stats sheets, returned as in-memory bytes so callers can
// write the file in one step.
func (e *Exporter) Workbook(statements []models.StatementRecord) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			e.logger.WithError(err).Warn("failed to close workbook")
		}
	}()

	if err := f.SetSheetName("Sheet1", "Transactions"); err != nil {
		return nil, fmt.Errorf("error preparing workbook: %w", err)
	}
	if err := writeTransactionsSheet(f, statements); err != nil {
		return nil, err
	}
	if err := writeBalancesSheet(f, statements); err != nil {
		return nil, err
	}
	if err := writeStatsSheet(f, statements); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("error writing workbook: %w", err)
	}
	return &buf, nil
}

func writeTransactionsSheet(f *excelize.File, statements []models.StatementRecord) error {
	cells := [][]interface{}{
		{"Date", "ValueDate", "Amount", "Currency", "CreditDebit", "Status",
			"RemittanceInfo", "CounterpartyName", "CounterpartyIBAN"},
	}
	for _, row := range transactionRows(statements) {
		cells = append(cells, []interface{}{
			row.Date, row.ValueDate, row.Amount, row.Currency, row.CreditDebit,
			row.Status, row.RemittanceInfo, row.CounterpartyName, row.CounterpartyIBAN,
		})
	}
	return writeSheet(f, "Transactions", cells)
}

func writeBalancesSheet(f *excelize.File, statements []models.StatementRecord) error {
	if _, err := f.NewSheet("Balances"); err != nil {
		return fmt.Errorf("error preparing workbook: %w", err)
	}
	cells := [][]interface{}{
		{"StatementID", "Code", "Description", "Amount", "Currency", "CreditDebit", "Date"},
	}
	for _, row := range balanceRows(statements) {
		cells = append(cells, []interface{}{
			row.StatementID, row.Code, row.Description, row.Amount,
			row.Currency, row.CreditDebit, row.Date,
		})
	}
	return writeSheet(f, "Balances", cells)
}

func writeStatsSheet(f *excelize.File, statements []models.StatementRecord) error {
	if _, err := f.NewSheet("Stats"); err != nil {
		return fmt.Errorf("error preparing workbook: %w", err)
	}
	cells := [][]interface{}{
		{"AccountIBAN", "StatementID", "Created", "NumEntries", "NetAmount"},
	}
	for _, row := range statsRows(statements) {
		cells = append(cells, []interface{}{
			row.AccountIBAN, row.StatementID, row.Created, row.NumEntries, row.NetAmount,
		})
	}
	return writeSheet(f, "Stats", cells)
}

func writeSheet(f *excelize.File, sheet string, cells [][]interface{}) error {
	for rowIdx, row := range cells {
		for colIdx, value := range row {
			cellName, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
			if err != nil {
				return fmt.Errorf("error addressing cell: %w", err)
			}
			if err := f.SetCellValue(sheet, cellName, value); err != nil {
				return fmt.Errorf("error writing cell %s: %w", cellName, err)
			}
		}
	}
	for i := range cells[0] {
		colName, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return fmt.Errorf("error sizing columns: %w", err)
		}
		if err := f.SetColWidth(sheet, colName, colName, 18); err != nil {
			return fmt.Errorf("error sizing columns: %w", err)
		}
	}
	return nil
}
