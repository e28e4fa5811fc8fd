package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestStatementStats(t *testing.T) {
	stmt := StatementRecord{
		AccountIBAN: "CH9300762011623852957",
		StatementID: "STMT-1",
		Entries: []EntryRecord{
			{Amount: decimal.RequireFromString("100.00"), CreditDebit: Credit},
			{Amount: decimal.RequireFromString("25.50"), CreditDebit: Debit},
			{Amount: decimal.RequireFromString("0.01"), CreditDebit: Credit},
		},
	}

	stats := stmt.Stats()
	assert.Equal(t, "CH9300762011623852957", stats.AccountIBAN)
	assert.Equal(t, 3, stats.NumEntries)
	assert.True(t, stats.NetAmount.Equal(decimal.RequireFromString("74.51")),
		"net amount was %s", stats.NetAmount)
}

func TestStatementStatsEmpty(t *testing.T) {
	stats := StatementRecord{StatementID: "STMT-2"}.Stats()
	assert.Equal(t, 0, stats.NumEntries)
	assert.True(t, stats.NetAmount.IsZero())
}

func TestDescribeBalanceCode(t *testing.T) {
	assert.Equal(t, "Opening booked balance", DescribeBalanceCode("OPBD"))
	assert.Equal(t, "Closing booked balance", DescribeBalanceCode("CLBD"))
	assert.Equal(t, "Unknown code", DescribeBalanceCode("ZZZZ"))
}
