package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreditDebit is the ISO 20022 credit/debit indicator. The sign of a
// movement is always carried here, never by the numeric amount.
type CreditDebit string

const (
	// Credit marks incoming money (CRDT).
	Credit CreditDebit = "CRDT"
	// Debit marks outgoing money (DBIT).
	Debit CreditDebit = "DBIT"
)

// EntryStatus is the booking status of a statement entry.
type EntryStatus string

const (
	// StatusBooked marks a booked entry (BOOK).
	StatusBooked EntryStatus = "BOOK"
	// StatusPending marks a pending entry (PDNG).
	StatusPending EntryStatus = "PDNG"
)

// EntryRecord is one reported account movement from a CAMT.053 statement.
// Amount is always a non-negative magnitude; direction is in CreditDebit.
// Optional fields are nil when absent in the source document.
type EntryRecord struct {
	BookingDate      time.Time
	ValueDate        time.Time
	Amount           decimal.Decimal
	Currency         string
	CreditDebit      CreditDebit
	Status           EntryStatus
	RemittanceInfo   *string
	CounterpartyName *string
	CounterpartyIBAN *string
}

// StatementRecord is one bank statement with its entries in document order.
type StatementRecord struct {
	AccountIBAN string
	StatementID string
	Created     time.Time
	Entries     []EntryRecord
	Balances    []BalanceRecord
}

// BalanceRecord is one reported balance (Bal element) of a statement.
type BalanceRecord struct {
	Code        string
	Description string
	Amount      decimal.Decimal
	CreditDebit CreditDebit
	Currency    string
	Date        time.Time
}

// balanceDescriptions maps ISO balance type codes to their descriptions.
var balanceDescriptions = map[string]string{
	"OPBD": "Opening booked balance",
	"CLBD": "Closing booked balance",
	"CLAV": "Closing available balance",
	"PRCD": "Previously closed booked balance",
	"FWAV": "Forward available balance",
	"ITBD": "Interim booked balance",
	"XPCD": "Expected balance",
}

// DescribeBalanceCode returns the human-readable description of a balance
// type code, or "Unknown code" when the code is not a known ISO value.
func DescribeBalanceCode(code string) string {
	if d, ok := balanceDescriptions[code]; ok {
		return d
	}
	return "Unknown code"
}

// StatementStats summarises one statement: entry count and the net movement
// (credits minus debits), computed with exact decimal arithmetic.
type StatementStats struct {
	AccountIBAN string
	StatementID string
	Created     time.Time
	NumEntries  int
	NetAmount   decimal.Decimal
}

// Stats computes summary statistics for the statement.
func (s StatementRecord) Stats() StatementStats {
	net := decimal.Zero
	for _, e := range s.Entries {
		if e.CreditDebit == Debit {
			net = net.Sub(e.Amount)
		} else {
			net = net.Add(e.Amount)
		}
	}
	return StatementStats{
		AccountIBAN: s.AccountIBAN,
		StatementID: s.StatementID,
		Created:     s.Created,
		NumEntries:  len(s.Entries),
		NetAmount:   net,
	}
}
