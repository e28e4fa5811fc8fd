// Package export renders extracted records as CSV, Excel workbooks or
// console tables with deterministic formatting: ISO-8601 dates and two
// decimal places, no thousands separators.
package export

import (
	"strconv"
	"time"

	"bankstmt/iso20022/internal/models"
)

// transactionRow is the fixed CSV layout for statement entries. The column
// order is part of the output contract and must not change.
type transactionRow struct {
	Date             string `csv:"Date"`
	ValueDate        string `csv:"ValueDate"`
	Amount           string `csv:"Amount"`
	Currency         string `csv:"Currency"`
	CreditDebit      string `csv:"CreditDebit"`
	Status           string `csv:"Status"`
	RemittanceInfo   string `csv:"RemittanceInfo"`
	CounterpartyName string `csv:"CounterpartyName"`
	CounterpartyIBAN string `csv:"CounterpartyIBAN"`
}

type balanceRow struct {
	StatementID string `csv:"StatementID"`
	Code        string `csv:"Code"`
	Description string `csv:"Description"`
	Amount      string `csv:"Amount"`
	Currency    string `csv:"Currency"`
	CreditDebit string `csv:"CreditDebit"`
	Date        string `csv:"Date"`
}

type statsRow struct {
	AccountIBAN string `csv:"AccountIBAN"`
	StatementID string `csv:"StatementID"`
	Created     string `csv:"Created"`
	NumEntries  string `csv:"NumEntries"`
	NetAmount   string `csv:"NetAmount"`
}

// paymentRow flattens a credit transfer together with its batch header, one
// row per instructed payment.
type paymentRow struct {
	MessageID      string `csv:"MessageID"`
	PaymentID      string `csv:"PaymentID"`
	ExecutionDate  string `csv:"ExecutionDate"`
	Debtor         string `csv:"Debtor"`
	DebtorIBAN     string `csv:"DebtorIBAN"`
	EndToEndID     string `csv:"EndToEndID"`
	Amount         string `csv:"Amount"`
	Currency       string `csv:"Currency"`
	Creditor       string `csv:"Creditor"`
	CreditorIBAN   string `csv:"CreditorIBAN"`
	RemittanceInfo string `csv:"RemittanceInfo"`
}

func transactionRows(statements []models.StatementRecord) []transactionRow {
	rows := make([]transactionRow, 0)
	for _, stmt := range statements {
		for _, entry := range stmt.Entries {
			rows = append(rows, transactionRow{
				Date:             formatDate(entry.BookingDate),
				ValueDate:        formatDate(entry.ValueDate),
				Amount:           entry.Amount.StringFixed(2),
				Currency:         entry.Currency,
				CreditDebit:      string(entry.CreditDebit),
				Status:           string(entry.Status),
				RemittanceInfo:   deref(entry.RemittanceInfo),
				CounterpartyName: deref(entry.CounterpartyName),
				CounterpartyIBAN: deref(entry.CounterpartyIBAN),
			})
		}
	}
	return rows
}

func balanceRows(statements []models.StatementRecord) []balanceRow {
	rows := make([]balanceRow, 0)
	for _, stmt := range statements {
		for _, balance := range stmt.Balances {
			rows = append(rows, balanceRow{
				StatementID: stmt.StatementID,
				Code:        balance.Code,
				Description: balance.Description,
				Amount:      balance.Amount.StringFixed(2),
				Currency:    balance.Currency,
				CreditDebit: string(balance.CreditDebit),
				Date:        formatDate(balance.Date),
			})
		}
	}
	return rows
}

func statsRows(statements []models.StatementRecord) []statsRow {
	rows := make([]statsRow, 0, len(statements))
	for _, stmt := range statements {
		stats := stmt.Stats()
		rows = append(rows, statsRow{
			AccountIBAN: stats.AccountIBAN,
			StatementID: stats.StatementID,
			Created:     formatDateTime(stats.Created),
			NumEntries:  strconv.Itoa(stats.NumEntries),
			NetAmount:   stats.NetAmount.StringFixed(2),
		})
	}
	return rows
}

func paymentRows(instruction models.PaymentInstruction) []paymentRow {
	rows := make([]paymentRow, 0, instruction.TransactionCount())
	for _, block := range instruction.PaymentInfo {
		for _, tx := range block.Transactions {
			rows = append(rows, paymentRow{
				MessageID:      instruction.MessageID,
				PaymentID:      block.PaymentID,
				ExecutionDate:  formatDate(block.RequestedExecutionDate),
				Debtor:         block.Debtor.Name,
				DebtorIBAN:     block.DebtorIBAN,
				EndToEndID:     tx.EndToEndID,
				Amount:         tx.Amount.StringFixed(2),
				Currency:       tx.Currency,
				Creditor:       tx.Creditor.Name,
				CreditorIBAN:   tx.CreditorIBAN,
				RemittanceInfo: deref(tx.RemittanceInfo),
			})
		}
	}
	return rows
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

func formatDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02T15:04:05")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
