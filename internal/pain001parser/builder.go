package pain001parser

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"bankstmt/iso20022/internal/logging"
	"bankstmt/iso20022/internal/models"
	"bankstmt/iso20022/internal/parsererror"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02T15:04:05"

	// paymentMethodTransfer is the only payment method emitted (PmtMtd TRF).
	paymentMethodTransfer = "TRF"
)

// Build emits a schema-valid pain.001.001.03 document for the instruction.
// Structural invariants are checked before any XML is produced; a violated
// invariant yields InvalidInstructionError and no output. A missing message
// or payment id is defaulted to a fresh UUID rather than rejected.
func (p *Pain001Parser) Build(instruction models.PaymentInstruction) ([]byte, error) {
	if err := checkInstruction(instruction); err != nil {
		return nil, err
	}

	doc := documentEnvelope{
		Xmlns: namespaceURI,
		CstmrCdtTrfInitn: customerCreditTransferInitiation{
			GrpHdr: groupHeader{
				MsgID:    defaultID(instruction.MessageID),
				CreDtTm:  instruction.CreationDateTime.Format(time.RFC3339),
				NbOfTxs:  strconv.Itoa(instruction.TransactionCount()),
				CtrlSum:  instruction.ControlSum().StringFixed(2),
				InitgPty: newParty(instruction.InitiatingParty),
			},
		},
	}

	for _, block := range instruction.PaymentInfo {
		info := paymentInfo{
			PmtInfID:    defaultID(block.PaymentID),
			PmtMtd:      paymentMethodTransfer,
			NbOfTxs:     strconv.Itoa(len(block.Transactions)),
			ReqdExctnDt: block.RequestedExecutionDate.Format(dateLayout),
			Dbtr:        newParty(block.Debtor),
			DbtrAcct:    account{ID: accountID{IBAN: block.DebtorIBAN}},
		}
		for _, tx := range block.Transactions {
			transfer := creditTransfer{
				PmtID: paymentID{EndToEndID: tx.EndToEndID},
				Amt: amountChoice{InstdAmt: instructedAmount{
					Ccy:   tx.Currency,
					Value: tx.Amount.StringFixed(2),
				}},
				Cdtr:     newParty(tx.Creditor),
				CdtrAcct: account{ID: accountID{IBAN: tx.CreditorIBAN}},
			}
			if tx.RemittanceInfo != nil && *tx.RemittanceInfo != "" {
				transfer.RmtInf = &remittance{Ustrd: []string{*tx.RemittanceInfo}}
			}
			info.CdtTrfTxInf = append(info.CdtTrfTxInf, transfer)
		}
		doc.CstmrCdtTrfInitn.PmtInf = append(doc.CstmrCdtTrfInitn.PmtInf, info)
	}

	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal pain.001 document: %w", err)
	}
	p.logger.Info("built pain.001 document",
		logging.Field{Key: "transactions", Value: instruction.TransactionCount()})
	return append([]byte(xml.Header), body...), nil
}

// checkInstruction enforces the structural invariants of a payment
// instruction. The first violation wins.
func checkInstruction(instruction models.PaymentInstruction) error {
	if len(instruction.PaymentInfo) == 0 {
		return &parsererror.InvalidInstructionError{Reason: "no payment information blocks"}
	}
	for _, block := range instruction.PaymentInfo {
		if block.DebtorIBAN == "" {
			return &parsererror.InvalidInstructionError{
				Reason: fmt.Sprintf("payment block %q: missing debtor account", block.PaymentID),
			}
		}
		if len(block.Transactions) == 0 {
			return &parsererror.InvalidInstructionError{
				Reason: fmt.Sprintf("payment block %q: empty transaction list", block.PaymentID),
			}
		}
		for i, tx := range block.Transactions {
			if !tx.Amount.IsPositive() {
				return &parsererror.InvalidInstructionError{
					Reason: fmt.Sprintf("transaction %d of block %q: non-positive amount %s",
						i, block.PaymentID, tx.Amount),
				}
			}
			if tx.Currency == "" {
				return &parsererror.InvalidInstructionError{
					Reason: fmt.Sprintf("transaction %d of block %q: missing currency", i, block.PaymentID),
				}
			}
			if tx.CreditorIBAN == "" {
				return &parsererror.InvalidInstructionError{
					Reason: fmt.Sprintf("transaction %d of block %q: missing creditor account", i, block.PaymentID),
				}
			}
			if tx.EndToEndID == "" {
				return &parsererror.InvalidInstructionError{
					Reason: fmt.Sprintf("transaction %d of block %q: missing end-to-end id", i, block.PaymentID),
				}
			}
		}
	}
	return nil
}

func defaultID(id string) string {
	if id != "" {
		return id
	}
	return uuid.NewString()
}
