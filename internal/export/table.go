package export

import (
	"bytes"
	"fmt"
	"text/tabwriter"

	"bankstmt/iso20022/internal/models"
)

// TransactionsTable renders entries as an aligned console table.
func (e *Exporter) TransactionsTable(statements []models.StatementRecord) string {
	w, buf := newTable()
	fmt.Fprintln(w, "Date\tValueDate\tAmount\tCurrency\tCreditDebit\tStatus\tRemittanceInfo\tCounterpartyName\tCounterpartyIBAN")
	for _, row := range transactionRows(statements) {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			row.Date, row.ValueDate, row.Amount, row.Currency, row.CreditDebit,
			row.Status, row.RemittanceInfo, row.CounterpartyName, row.CounterpartyIBAN)
	}
	w.Flush()
	return buf.String()
}

// BalancesTable renders statement balances as an aligned console table.
func (e *Exporter) BalancesTable(statements []models.StatementRecord) string {
	w, buf := newTable()
	fmt.Fprintln(w, "StatementID\tCode\tDescription\tAmount\tCurrency\tCreditDebit\tDate")
	for _, row := range balanceRows(statements) {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			row.StatementID, row.Code, row.Description, row.Amount,
			row.Currency, row.CreditDebit, row.Date)
	}
	w.Flush()
	return buf.String()
}

// StatsTable renders per-statement summaries as an aligned console table.
func (e *Exporter) StatsTable(statements []models.StatementRecord) string {
	w, buf := newTable()
	fmt.Fprintln(w, "AccountIBAN\tStatementID\tCreated\tNumEntries\tNetAmount")
	for _, row := range statsRows(statements) {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			row.AccountIBAN, row.StatementID, row.Created, row.NumEntries, row.NetAmount)
	}
	w.Flush()
	return buf.String()
}

// PaymentsTable renders credit transfers as an aligned console table.
func (e *Exporter) PaymentsTable(instruction models.PaymentInstruction) string {
	w, buf := newTable()
	fmt.Fprintln(w, "MessageID\tPaymentID\tExecutionDate\tDebtor\tDebtorIBAN\tEndToEndID\tAmount\tCurrency\tCreditor\tCreditorIBAN\tRemittanceInfo")
	for _, row := range paymentRows(instruction) {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			row.MessageID, row.PaymentID, row.ExecutionDate, row.Debtor, row.DebtorIBAN,
			row.EndToEndID, row.Amount, row.Currency, row.Creditor, row.CreditorIBAN,
			row.RemittanceInfo)
	}
	w.Flush()
	return buf.String()
}

func newTable() (*tabwriter.Writer, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return tabwriter.NewWriter(buf, 0, 4, 2, ' ', 0), buf
}
