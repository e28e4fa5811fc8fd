package pain001parser

import (
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"bankstmt/iso20022/internal/models"
	"bankstmt/iso20022/internal/parsererror"
)

// YAML input for the generate command. Amounts and dates are strings in the
// file and converted explicitly, so a malformed value is reported with its
// location instead of being coerced.
type instructionFile struct {
	MessageID        string             `yaml:"message_id"`
	CreationDateTime string             `yaml:"creation_datetime"`
	InitiatingParty  models.PartyInfo   `yaml:"initiating_party"`
	Payments         []paymentBlockFile `yaml:"payments"`
}

type paymentBlockFile struct {
	PaymentID     string            `yaml:"payment_id"`
	ExecutionDate string            `yaml:"execution_date"`
	Debtor        models.PartyInfo  `yaml:"debtor"`
	DebtorIBAN    string            `yaml:"debtor_iban"`
	Transactions  []transactionFile `yaml:"transactions"`
}

type transactionFile struct {
	EndToEndID     string           `yaml:"end_to_end_id"`
	Amount         string           `yaml:"amount"`
	Currency       string           `yaml:"currency"`
	Creditor       models.PartyInfo `yaml:"creditor"`
	CreditorIBAN   string           `yaml:"creditor_iban"`
	RemittanceInfo string           `yaml:"remittance_info"`
}

// LoadInstruction reads a YAML payment instruction file.
func LoadInstruction(path string) (models.PaymentInstruction, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.PaymentInstruction{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return ParseInstruction(data)
}

// ParseInstruction converts YAML bytes into a PaymentInstruction. A missing
// creation datetime defaults to the current time; value conversion failures
// yield InvalidInstructionError.
func ParseInstruction(data []byte) (models.PaymentInstruction, error) {
	var file instructionFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return models.PaymentInstruction{}, fmt.Errorf("failed to parse instruction YAML: %w", err)
	}

	instruction := models.PaymentInstruction{
		MessageID:       file.MessageID,
		InitiatingParty: file.InitiatingParty,
	}
	if file.CreationDateTime == "" {
		instruction.CreationDateTime = time.Now().UTC().Truncate(time.Second)
	} else {
		created, err := parseDateTime(file.CreationDateTime)
		if err != nil {
			return models.PaymentInstruction{}, &parsererror.InvalidInstructionError{
				Reason: fmt.Sprintf("invalid creation_datetime %q", file.CreationDateTime),
			}
		}
		instruction.CreationDateTime = created
	}

	for _, payment := range file.Payments {
		execution, err := time.Parse(dateLayout, payment.ExecutionDate)
		if err != nil {
			return models.PaymentInstruction{}, &parsererror.InvalidInstructionError{
				Reason: fmt.Sprintf("payment %q: invalid execution_date %q", payment.PaymentID, payment.ExecutionDate),
			}
		}
		block := models.PaymentInfoBlock{
			PaymentID:              payment.PaymentID,
			RequestedExecutionDate: execution,
			Debtor:                 payment.Debtor,
			DebtorIBAN:             payment.DebtorIBAN,
		}
		for i, tx := range payment.Transactions {
			amount, err := decimal.NewFromString(tx.Amount)
			if err != nil {
				return models.PaymentInstruction{}, &parsererror.InvalidInstructionError{
					Reason: fmt.Sprintf("payment %q transaction %d: invalid amount %q", payment.PaymentID, i, tx.Amount),
				}
			}
			transaction := models.CreditTransferTransaction{
				EndToEndID:   tx.EndToEndID,
				Amount:       amount,
				Currency:     tx.Currency,
				Creditor:     tx.Creditor,
				CreditorIBAN: tx.CreditorIBAN,
			}
			if tx.RemittanceInfo != "" {
				info := tx.RemittanceInfo
				transaction.RemittanceInfo = &info
			}
			block.Transactions = append(block.Transactions, transaction)
		}
		instruction.PaymentInfo = append(instruction.PaymentInfo, block)
	}
	return instruction, nil
}
