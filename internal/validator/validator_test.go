package validator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bankstmt/iso20022/internal/logging"
	"bankstmt/iso20022/internal/models"
	"bankstmt/iso20022/internal/parsererror"
	"bankstmt/iso20022/internal/schema"
)

const validCamtDocument = `<?xml version="1.0" encoding="UTF-8"?>
<Document xmlns="urn:iso:std:iso:20022:tech:xsd:camt.053.001.02">
  <BkToCstmrStmt>
    <GrpHdr>
      <MsgId>MSG-001</MsgId>
      <CreDtTm>2023-05-15T09:30:00</CreDtTm>
    </GrpHdr>
    <Stmt>
      <Id>STMT-2023-001</Id>
      <CreDtTm>2023-05-15T09:30:00</CreDtTm>
      <Acct>
        <Id>
          <IBAN>CH9300762011623852957</IBAN>
        </Id>
        <Ccy>CHF</Ccy>
      </Acct>
      <Bal>
        <Tp>
          <CdOrPrtry>
            <Cd>OPBD</Cd>
          </CdOrPrtry>
        </Tp>
        <Amt Ccy="CHF">1000.00</Amt>
        <CdtDbtInd>CRDT</CdtDbtInd>
        <Dt>
          <Dt>2023-05-01</Dt>
        </Dt>
      </Bal>
      <Ntry>
        <Amt Ccy="CHF">250.00</Amt>
        <CdtDbtInd>CRDT</CdtDbtInd>
        <Sts>BOOK</Sts>
        <BookgDt>
          <Dt>2023-05-12</Dt>
        </BookgDt>
        <ValDt>
          <Dt>2023-05-13</Dt>
        </ValDt>
        <NtryDtls>
          <TxDtls>
            <RltdPties>
              <Dbtr>
                <Nm>Acme Corp</Nm>
              </Dbtr>
            </RltdPties>
            <RmtInf>
              <Ustrd>Invoice 42</Ustrd>
            </RmtInf>
          </TxDtls>
        </NtryDtls>
      </Ntry>
    </Stmt>
  </BkToCstmrStmt>
</Document>`

func camtSchema(t *testing.T) *schema.CompiledSchema {
	t.Helper()
	registry := schema.NewRegistry(logging.NewMockLogger())
	compiled, err := registry.Resolve(models.MessageVersion{Family: models.FamilyCamt053, Version: "053.001.02"})
	require.NoError(t, err)
	return compiled
}

func TestParseDocumentPositions(t *testing.T) {
	doc, err := ParseDocument([]byte(validCamtDocument))
	require.NoError(t, err)

	assert.Equal(t, "Document", doc.Root.Local)
	assert.Equal(t, "urn:iso:std:iso:20022:tech:xsd:camt.053.001.02", doc.Namespace)
	assert.Equal(t, 2, doc.Root.Line)
	assert.Equal(t, 1, doc.Root.Column)

	stmt := doc.Root.Child("BkToCstmrStmt").Child("Stmt")
	require.NotNil(t, stmt)
	assert.Equal(t, 8, stmt.Line)
	assert.Equal(t, 5, stmt.Column)
	assert.Equal(t, "STMT-2023-001", stmt.ChildText("Id"))
}

func TestParseDocumentMalformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "truncated document", input: "<Document><BkToCstmrStmt>"},
		{name: "mismatched end tag", input: "<Document><GrpHdr></Document></GrpHdr>"},
		{name: "empty input", input: ""},
		{name: "multiple roots", input: "<Document/>\n<Document/>"},
		{name: "not XML at all", input: "IBAN;Amount\nCH93;100.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDocument([]byte(tt.input))
			var malformed *parsererror.MalformedXMLError
			require.ErrorAs(t, err, &malformed)
		})
	}
}

func TestValidateAcceptsValidDocument(t *testing.T) {
	doc, err := ParseDocument([]byte(validCamtDocument))
	require.NoError(t, err)

	result := Validate(doc, camtSchema(t))
	assert.True(t, result.Valid, "violations: %v", result.Violations)
	assert.Empty(t, result.Violations)
}

func TestValidateWrongNamespace(t *testing.T) {
	input := strings.Replace(validCamtDocument,
		"urn:iso:std:iso:20022:tech:xsd:camt.053.001.02",
		"urn:iso:std:iso:20022:tech:xsd:camt.053.001.04", 1)
	doc, err := ParseDocument([]byte(input))
	require.NoError(t, err)

	result := Validate(doc, camtSchema(t))
	require.False(t, result.Valid)
	assert.Contains(t, result.Violations[0].Message, "namespace")
}

func TestValidateReportsAllViolationsWithPositions(t *testing.T) {
	// Entry is missing Amt and carries an invalid status.
	input := `<?xml version="1.0" encoding="UTF-8"?>
<Document xmlns="urn:iso:std:iso:20022:tech:xsd:camt.053.001.02">
  <BkToCstmrStmt>
    <GrpHdr>
      <MsgId>MSG-001</MsgId>
      <CreDtTm>2023-05-15T09:30:00</CreDtTm>
    </GrpHdr>
    <Stmt>
      <Id>STMT-1</Id>
      <Acct>
        <Id>
          <IBAN>CH9300762011623852957</IBAN>
        </Id>
      </Acct>
      <Ntry>
        <CdtDbtInd>CRDT</CdtDbtInd>
        <Sts>SETTLED</Sts>
      </Ntry>
    </Stmt>
  </BkToCstmrStmt>
</Document>`

	doc, err := ParseDocument([]byte(input))
	require.NoError(t, err)

	result := Validate(doc, camtSchema(t))
	require.False(t, result.Valid)
	require.Len(t, result.Violations, 2)

	var messages []string
	for _, violation := range result.Violations {
		assert.Greater(t, violation.Line, 1)
		messages = append(messages, violation.Message)
	}
	joined := strings.Join(messages, "\n")
	assert.Contains(t, joined, "Amt")
	assert.Contains(t, joined, "SETTLED")
}

func TestValidateSequenceOrder(t *testing.T) {
	// CreDtTm placed before MsgId.
	input := `<Document xmlns="urn:iso:std:iso:20022:tech:xsd:camt.053.001.02">
  <BkToCstmrStmt>
    <GrpHdr>
      <CreDtTm>2023-05-15T09:30:00</CreDtTm>
      <MsgId>MSG-001</MsgId>
    </GrpHdr>
    <Stmt>
      <Id>STMT-1</Id>
      <Acct>
        <Id>
          <IBAN>CH9300762011623852957</IBAN>
        </Id>
      </Acct>
    </Stmt>
  </BkToCstmrStmt>
</Document>`

	doc, err := ParseDocument([]byte(input))
	require.NoError(t, err)

	result := Validate(doc, camtSchema(t))
	require.False(t, result.Valid)
	joined := violationText(result)
	assert.Contains(t, joined, "MsgId")
}

func TestValidateMissingRequiredAttribute(t *testing.T) {
	input := strings.Replace(validCamtDocument,
		`<Amt Ccy="CHF">250.00</Amt>`, `<Amt>250.00</Amt>`, 1)
	doc, err := ParseDocument([]byte(input))
	require.NoError(t, err)

	result := Validate(doc, camtSchema(t))
	require.False(t, result.Valid)
	assert.Contains(t, violationText(result), "Ccy")
}

func TestValidateFacets(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(string) string
		message string
	}{
		{
			name: "negative amount",
			mutate: func(s string) string {
				return strings.Replace(s, `<Amt Ccy="CHF">250.00</Amt>`, `<Amt Ccy="CHF">-250.00</Amt>`, 1)
			},
			message: "less than",
		},
		{
			name: "non-decimal amount",
			mutate: func(s string) string {
				return strings.Replace(s, `<Amt Ccy="CHF">250.00</Amt>`, `<Amt Ccy="CHF">abc</Amt>`, 1)
			},
			message: "not a valid decimal",
		},
		{
			name: "too many fraction digits",
			mutate: func(s string) string {
				return strings.Replace(s, `<Amt Ccy="CHF">250.00</Amt>`, `<Amt Ccy="CHF">250.1234567</Amt>`, 1)
			},
			message: "fraction digits",
		},
		{
			name: "lowercase currency code",
			mutate: func(s string) string {
				return strings.Replace(s, `<Amt Ccy="CHF">250.00</Amt>`, `<Amt Ccy="chf">250.00</Amt>`, 1)
			},
			message: "pattern",
		},
		{
			name: "invalid booking date",
			mutate: func(s string) string {
				return strings.Replace(s, "<Dt>2023-05-12</Dt>", "<Dt>2023-13-40</Dt>", 1)
			},
			message: "not a valid date",
		},
		{
			name: "invalid credit debit indicator",
			mutate: func(s string) string {
				return strings.Replace(s, "<CdtDbtInd>CRDT</CdtDbtInd>", "<CdtDbtInd>CREDIT</CdtDbtInd>", 1)
			},
			message: "not a valid CreditDebitCode",
		},
		{
			name: "empty statement id",
			mutate: func(s string) string {
				return strings.Replace(s, "<Id>STMT-2023-001</Id>", "<Id></Id>", 1)
			},
			message: "shorter than",
		},
	}

	compiled := camtSchema(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := ParseDocument([]byte(tt.mutate(validCamtDocument)))
			require.NoError(t, err)

			result := Validate(doc, compiled)
			require.False(t, result.Valid)
			assert.Contains(t, violationText(result), tt.message)
		})
	}
}

func TestValidateChoice(t *testing.T) {
	// Both IBAN and Othr inside an account id choice.
	input := strings.Replace(validCamtDocument,
		"<IBAN>CH9300762011623852957</IBAN>",
		"<IBAN>CH9300762011623852957</IBAN><Othr><Id>12345</Id></Othr>", 1)
	doc, err := ParseDocument([]byte(input))
	require.NoError(t, err)

	result := Validate(doc, camtSchema(t))
	require.False(t, result.Valid)
	assert.Contains(t, violationText(result), "Othr")
}

func TestValidateUnexpectedElement(t *testing.T) {
	input := strings.Replace(validCamtDocument,
		"<MsgId>MSG-001</MsgId>",
		"<MsgId>MSG-001</MsgId><Bogus>1</Bogus>", 1)
	doc, err := ParseDocument([]byte(input))
	require.NoError(t, err)

	result := Validate(doc, camtSchema(t))
	require.False(t, result.Valid)
	assert.Contains(t, violationText(result), "Bogus")
}

func violationText(result models.ValidationResult) string {
	var sb strings.Builder
	for _, v := range result.Violations {
		sb.WriteString(v.Message)
		sb.WriteByte('\n')
	}
	return sb.String()
}
