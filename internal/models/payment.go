package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PartyInfo names a transaction party. Identifier carries an organisation
// identifier when the source provides one; it is nil otherwise.
type PartyInfo struct {
	Name       string  `yaml:"name"`
	Identifier *string `yaml:"identifier,omitempty"`
}

// Equal reports semantic equality of two parties.
func (p PartyInfo) Equal(other PartyInfo) bool {
	if strings.TrimSpace(p.Name) != strings.TrimSpace(other.Name) {
		return false
	}
	return equalOptString(p.Identifier, other.Identifier)
}

// CreditTransferTransaction is one instructed payment inside a
// PaymentInfoBlock. Amount must be a positive magnitude.
type CreditTransferTransaction struct {
	EndToEndID     string
	Amount         decimal.Decimal
	Currency       string
	Creditor       PartyInfo
	CreditorIBAN   string
	RemittanceInfo *string
}

// Equal reports semantic equality, comparing amounts by value rather than
// by decimal representation.
func (t CreditTransferTransaction) Equal(other CreditTransferTransaction) bool {
	return t.EndToEndID == other.EndToEndID &&
		t.Amount.Equal(other.Amount) &&
		t.Currency == other.Currency &&
		t.Creditor.Equal(other.Creditor) &&
		t.CreditorIBAN == other.CreditorIBAN &&
		equalOptString(t.RemittanceInfo, other.RemittanceInfo)
}

// PaymentInfoBlock groups the credit transfers debited from one account on
// one requested execution date.
type PaymentInfoBlock struct {
	PaymentID              string
	RequestedExecutionDate time.Time
	Debtor                 PartyInfo
	DebtorIBAN             string
	Transactions           []CreditTransferTransaction
}

// Equal reports semantic equality of two payment blocks.
func (b PaymentInfoBlock) Equal(other PaymentInfoBlock) bool {
	if b.PaymentID != other.PaymentID ||
		!b.RequestedExecutionDate.Equal(other.RequestedExecutionDate) ||
		!b.Debtor.Equal(other.Debtor) ||
		b.DebtorIBAN != other.DebtorIBAN ||
		len(b.Transactions) != len(other.Transactions) {
		return false
	}
	for i := range b.Transactions {
		if !b.Transactions[i].Equal(other.Transactions[i]) {
			return false
		}
	}
	return true
}

// PaymentInstruction is the structured model of a PAIN.001 message: one
// group header followed by one or more payment information blocks.
type PaymentInstruction struct {
	MessageID        string
	CreationDateTime time.Time
	InitiatingParty  PartyInfo
	PaymentInfo      []PaymentInfoBlock
}

// TransactionCount returns the total number of credit transfers across all
// payment blocks (the NbOfTxs of the group header).
func (p PaymentInstruction) TransactionCount() int {
	n := 0
	for _, b := range p.PaymentInfo {
		n += len(b.Transactions)
	}
	return n
}

// ControlSum returns the exact sum of all transaction amounts (the CtrlSum
// of the group header).
func (p PaymentInstruction) ControlSum() decimal.Decimal {
	sum := decimal.Zero
	for _, b := range p.PaymentInfo {
		for _, t := range b.Transactions {
			sum = sum.Add(t.Amount)
		}
	}
	return sum
}

// Equal reports semantic equality of two instructions, field for field.
// Formatting differences (decimal exponents, timezone spellings of the same
// instant) do not break equality.
func (p PaymentInstruction) Equal(other PaymentInstruction) bool {
	if p.MessageID != other.MessageID ||
		!p.CreationDateTime.Equal(other.CreationDateTime) ||
		!p.InitiatingParty.Equal(other.InitiatingParty) ||
		len(p.PaymentInfo) != len(other.PaymentInfo) {
		return false
	}
	for i := range p.PaymentInfo {
		if !p.PaymentInfo[i].Equal(other.PaymentInfo[i]) {
			return false
		}
	}
	return true
}

func equalOptString(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
