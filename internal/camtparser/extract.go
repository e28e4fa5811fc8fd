package camtparser

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"bankstmt/iso20022/internal/models"
	"bankstmt/iso20022/internal/parsererror"
	"bankstmt/iso20022/internal/validator"
)

// fieldPath addresses a value relative to an Ntry element: a chain of child
// element names, optionally ending in an attribute.
type fieldPath struct {
	steps []string
	attr  string
}

// entryField binds one source path to one EntryRecord field. Extraction is
// driven by these tables so that supporting another schema version is a data
// change, not new traversal code.
type entryField struct {
	name     string
	path     fieldPath
	required bool
	assign   func(r *models.EntryRecord, value string) error
}

var entryMappings = map[string][]entryField{
	"053.001.02": {
		{
			name:     "Amt",
			path:     fieldPath{steps: []string{"Amt"}},
			required: true,
			assign: func(r *models.EntryRecord, value string) error {
				amount, err := decimal.NewFromString(value)
				if err != nil {
					return fmt.Errorf("invalid amount %q", value)
				}
				r.Amount = amount
				return nil
			},
		},
		{
			name:     "Ccy",
			path:     fieldPath{steps: []string{"Amt"}, attr: "Ccy"},
			required: true,
			assign: func(r *models.EntryRecord, value string) error {
				r.Currency = value
				return nil
			},
		},
		{
			name:     "CdtDbtInd",
			path:     fieldPath{steps: []string{"CdtDbtInd"}},
			required: true,
			assign: func(r *models.EntryRecord, value string) error {
				switch models.CreditDebit(value) {
				case models.Credit, models.Debit:
					r.CreditDebit = models.CreditDebit(value)
					return nil
				}
				return fmt.Errorf("invalid credit/debit indicator %q", value)
			},
		},
		{
			name:     "Sts",
			path:     fieldPath{steps: []string{"Sts"}},
			required: true,
			assign: func(r *models.EntryRecord, value string) error {
				switch models.EntryStatus(value) {
				case models.StatusBooked, models.StatusPending:
					r.Status = models.EntryStatus(value)
					return nil
				}
				return fmt.Errorf("invalid entry status %q", value)
			},
		},
		{
			name: "BookgDt",
			path: fieldPath{steps: []string{"BookgDt", "Dt"}},
			assign: func(r *models.EntryRecord, value string) error {
				return assignDate(&r.BookingDate, value)
			},
		},
		{
			name: "BookgDt",
			path: fieldPath{steps: []string{"BookgDt", "DtTm"}},
			assign: func(r *models.EntryRecord, value string) error {
				return assignDateTime(&r.BookingDate, value)
			},
		},
		{
			name: "ValDt",
			path: fieldPath{steps: []string{"ValDt", "Dt"}},
			assign: func(r *models.EntryRecord, value string) error {
				return assignDate(&r.ValueDate, value)
			},
		},
		{
			name: "ValDt",
			path: fieldPath{steps: []string{"ValDt", "DtTm"}},
			assign: func(r *models.EntryRecord, value string) error {
				return assignDateTime(&r.ValueDate, value)
			},
		},
		{
			name: "Ustrd",
			path: fieldPath{steps: []string{"NtryDtls", "TxDtls", "RmtInf", "Ustrd"}},
			assign: func(r *models.EntryRecord, value string) error {
				r.RemittanceInfo = optString(value)
				return nil
			},
		},
		{
			name: "AddtlNtryInf",
			path: fieldPath{steps: []string{"AddtlNtryInf"}},
			assign: func(r *models.EntryRecord, value string) error {
				if r.RemittanceInfo == nil {
					r.RemittanceInfo = optString(value)
				}
				return nil
			},
		},
	},
}

// extractStatements walks a validated document once, in document order, and
// builds one StatementRecord per Stmt block.
func extractStatements(root *validator.Node, version models.MessageVersion) ([]models.StatementRecord, error) {
	fields, ok := entryMappings[version.Version]
	if !ok {
		return nil, &parsererror.UnsupportedVersionError{Family: version.Family, Version: version.Version}
	}

	message := root.Child("BkToCstmrStmt")
	if message == nil {
		return nil, fmt.Errorf("document has no BkToCstmrStmt element")
	}

	var statements []models.StatementRecord
	for _, stmt := range message.Children {
		if stmt.Local != "Stmt" {
			continue
		}
		record, err := extractStatement(stmt, fields)
		if err != nil {
			return nil, err
		}
		statements = append(statements, record)
	}
	return statements, nil
}

func extractStatement(stmt *validator.Node, fields []entryField) (models.StatementRecord, error) {
	record := models.StatementRecord{
		StatementID: stmt.ChildText("Id"),
		AccountIBAN: accountIdentifier(stmt.Child("Acct")),
	}
	if created := stmt.ChildText("CreDtTm"); created != "" {
		if err := assignDateTime(&record.Created, created); err != nil {
			return models.StatementRecord{}, fmt.Errorf("statement %s: %w", record.StatementID, err)
		}
	}

	entryIndex := 0
	for _, child := range stmt.Children {
		switch child.Local {
		case "Ntry":
			entry, err := extractEntry(child, fields, record.StatementID, entryIndex)
			if err != nil {
				return models.StatementRecord{}, err
			}
			record.Entries = append(record.Entries, entry)
			entryIndex++
		case "Bal":
			balance, err := extractBalance(child, record.StatementID)
			if err != nil {
				return models.StatementRecord{}, err
			}
			record.Balances = append(record.Balances, balance)
		}
	}
	return record, nil
}

// extractEntry applies the field mapping table to one Ntry element. A missing
// required field fails the whole extraction; partial records are never kept.
func extractEntry(ntry *validator.Node, fields []entryField, statementID string, index int) (models.EntryRecord, error) {
	var record models.EntryRecord
	for _, field := range fields {
		value, present := resolvePath(ntry, field.path)
		if !present {
			if field.required {
				return models.EntryRecord{}, &parsererror.IncompleteEntryError{
					StatementID: statementID,
					EntryIndex:  index,
					Field:       field.name,
				}
			}
			continue
		}
		if err := field.assign(&record, value); err != nil {
			return models.EntryRecord{}, fmt.Errorf("statement %s entry %d: %w", statementID, index, err)
		}
	}
	counterparty(&record, ntry)
	return record, nil
}

// counterparty fills the opposite party of the movement: the debtor of a
// credit, the creditor of a debit.
func counterparty(record *models.EntryRecord, ntry *validator.Node) {
	parties, _ := descend(ntry, "NtryDtls", "TxDtls", "RltdPties")
	if parties == nil {
		return
	}
	party, account := "Cdtr", "CdtrAcct"
	if record.CreditDebit == models.Credit {
		party, account = "Dbtr", "DbtrAcct"
	}
	if node, _ := descend(parties, party, "Nm"); node != nil {
		record.CounterpartyName = optString(strings.TrimSpace(node.Text))
	}
	if node, _ := descend(parties, account, "Id", "IBAN"); node != nil {
		record.CounterpartyIBAN = optString(strings.TrimSpace(node.Text))
	}
}

func extractBalance(bal *validator.Node, statementID string) (models.BalanceRecord, error) {
	code, _ := descendText(bal, "Tp", "CdOrPrtry", "Cd")
	if code == "" {
		code, _ = descendText(bal, "Tp", "CdOrPrtry", "Prtry")
	}
	record := models.BalanceRecord{
		Code:        code,
		Description: models.DescribeBalanceCode(code),
	}

	amt := bal.Child("Amt")
	if amt == nil {
		return models.BalanceRecord{}, fmt.Errorf("statement %s: balance %s has no amount", statementID, code)
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(amt.Text))
	if err != nil {
		return models.BalanceRecord{}, fmt.Errorf("statement %s: balance %s: invalid amount %q", statementID, code, amt.Text)
	}
	record.Amount = amount
	record.Currency = amt.Attr("Ccy")
	record.CreditDebit = models.CreditDebit(bal.ChildText("CdtDbtInd"))

	if date, ok := descendText(bal, "Dt", "Dt"); ok {
		if err := assignDate(&record.Date, date); err != nil {
			return models.BalanceRecord{}, fmt.Errorf("statement %s: balance %s: %w", statementID, code, err)
		}
	} else if date, ok := descendText(bal, "Dt", "DtTm"); ok {
		if err := assignDateTime(&record.Date, date); err != nil {
			return models.BalanceRecord{}, fmt.Errorf("statement %s: balance %s: %w", statementID, code, err)
		}
	}
	return record, nil
}

// accountIdentifier prefers the IBAN and falls back to the generic Othr id.
func accountIdentifier(acct *validator.Node) string {
	if acct == nil {
		return ""
	}
	if iban, ok := descendText(acct, "Id", "IBAN"); ok {
		return iban
	}
	other, _ := descendText(acct, "Id", "Othr", "Id")
	return other
}

func resolvePath(n *validator.Node, path fieldPath) (string, bool) {
	node, ok := descend(n, path.steps...)
	if !ok {
		return "", false
	}
	if path.attr != "" {
		value := node.Attr(path.attr)
		return value, value != ""
	}
	value := strings.TrimSpace(node.Text)
	return value, value != ""
}

func descend(n *validator.Node, steps ...string) (*validator.Node, bool) {
	current := n
	for _, step := range steps {
		current = current.Child(step)
		if current == nil {
			return nil, false
		}
	}
	return current, true
}

func descendText(n *validator.Node, steps ...string) (string, bool) {
	node, ok := descend(n, steps...)
	if !ok {
		return "", false
	}
	value := strings.TrimSpace(node.Text)
	return value, value != ""
}

func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func assignDate(target *time.Time, value string) error {
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		return fmt.Errorf("invalid date %q", value)
	}
	*target = parsed
	return nil
}

var dateTimeLayouts = []string{
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.999999999",
}

func assignDateTime(target *time.Time, value string) error {
	for _, layout := range dateTimeLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			*target = parsed
			return nil
		}
	}
	return fmt.Errorf("invalid datetime %q", value)
}
