package pain001parser

import (
	"encoding/xml"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/xmlpath.v2"

	"bankstmt/iso20022/internal/logging"
	"bankstmt/iso20022/internal/models"
	"bankstmt/iso20022/internal/parsererror"
	"bankstmt/iso20022/internal/schema"
	"bankstmt/iso20022/internal/validator"
)

// Pain001Parser builds and parses pain.001 messages. It is safe for
// concurrent use.
type Pain001Parser struct {
	registry *schema.Registry
	logger   logging.Logger
}

// New creates a PAIN.001 parser backed by the given schema registry.
func New(registry *schema.Registry, logger logging.Logger) *Pain001Parser {
	return &Pain001Parser{registry: registry, logger: logger}
}

// Parse validates a pain.001 document and reconstructs the payment
// instruction that would produce it. It is the inverse of Build.
func (p *Pain001Parser) Parse(data []byte) (models.PaymentInstruction, error) {
	doc, err := validator.ParseDocument(data)
	if err != nil {
		return models.PaymentInstruction{}, err
	}

	version, err := schema.ResolveNamespace(doc.Namespace)
	if err != nil {
		return models.PaymentInstruction{}, err
	}
	if version.Family != models.FamilyPain001 {
		return models.PaymentInstruction{}, &parsererror.UnsupportedVersionError{
			Family:  version.Family,
			Version: version.Version,
		}
	}

	compiled, err := p.registry.Resolve(version)
	if err != nil {
		return models.PaymentInstruction{}, err
	}
	if result := validator.Validate(doc, compiled); !result.Valid {
		p.logger.Warn("document failed schema validation",
			logging.Field{Key: "version", Value: version.String()},
			logging.Field{Key: "violations", Value: len(result.Violations)})
		return models.PaymentInstruction{}, &parsererror.SchemaValidationError{Version: version, Result: result}
	}

	var envelope documentEnvelope
	if err := xml.Unmarshal(data, &envelope); err != nil {
		return models.PaymentInstruction{}, &parsererror.MalformedXMLError{Err: err}
	}
	instruction, err := toInstruction(envelope.CstmrCdtTrfInitn)
	if err != nil {
		return models.PaymentInstruction{}, err
	}
	p.logger.Info("parsed pain.001 document",
		logging.Field{Key: "transactions", Value: instruction.TransactionCount()})
	return instruction, nil
}

// ParseFile reads and parses a pain.001 file.
func (p *Pain001Parser) ParseFile(path string) (models.PaymentInstruction, error) {
	p.logger.Info("parsing PAIN.001 file", logging.Field{Key: "file", Value: path})
	data, err := os.ReadFile(path)
	if err != nil {
		return models.PaymentInstruction{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return p.Parse(data)
}

func toInstruction(initn customerCreditTransferInitiation) (models.PaymentInstruction, error) {
	created, err := parseDateTime(initn.GrpHdr.CreDtTm)
	if err != nil {
		return models.PaymentInstruction{}, fmt.Errorf("invalid creation datetime %q", initn.GrpHdr.CreDtTm)
	}
	instruction := models.PaymentInstruction{
		MessageID:        initn.GrpHdr.MsgID,
		CreationDateTime: created,
		InitiatingParty:  initn.GrpHdr.InitgPty.toModel(),
	}

	for _, info := range initn.PmtInf {
		execution, err := time.Parse(dateLayout, info.ReqdExctnDt)
		if err != nil {
			return models.PaymentInstruction{}, fmt.Errorf(
				"payment block %q: invalid execution date %q", info.PmtInfID, info.ReqdExctnDt)
		}
		block := models.PaymentInfoBlock{
			PaymentID:              info.PmtInfID,
			RequestedExecutionDate: execution,
			Debtor:                 info.Dbtr.toModel(),
			DebtorIBAN:             info.DbtrAcct.ID.IBAN,
		}
		for i, transfer := range info.CdtTrfTxInf {
			amount, err := decimal.NewFromString(transfer.Amt.InstdAmt.Value)
			if err != nil {
				return models.PaymentInstruction{}, fmt.Errorf(
					"payment block %q transaction %d: invalid amount %q",
					info.PmtInfID, i, transfer.Amt.InstdAmt.Value)
			}
			tx := models.CreditTransferTransaction{
				EndToEndID:   transfer.PmtID.EndToEndID,
				Amount:       amount,
				Currency:     transfer.Amt.InstdAmt.Ccy,
				Creditor:     transfer.Cdtr.toModel(),
				CreditorIBAN: transfer.CdtrAcct.ID.IBAN,
			}
			if transfer.RmtInf != nil && len(transfer.RmtInf.Ustrd) > 0 && transfer.RmtInf.Ustrd[0] != "" {
				info := transfer.RmtInf.Ustrd[0]
				tx.RemittanceInfo = &info
			}
			block.Transactions = append(block.Transactions, tx)
		}
		instruction.PaymentInfo = append(instruction.PaymentInfo, block)
	}
	return instruction, nil
}

func parseDateTime(value string) (time.Time, error) {
	for _, layout := range []string{dateTimeLayout, time.RFC3339} {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid datetime %q", value)
}

var messageIDPath = xmlpath.MustCompile("//CstmrCdtTrfInitn/GrpHdr/MsgId")

// ValidateFormat reports whether a file looks like a pain.001 message. It
// checks structure only, not schema validity.
func (p *Pain001Parser) ValidateFormat(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, fmt.Errorf("error opening XML file: %w", err)
	}
	defer f.Close()

	root, err := xmlpath.Parse(f)
	if err != nil {
		p.logger.Debug("file is not well-formed XML", logging.Field{Key: "file", Value: path})
		return false, nil
	}
	if _, ok := messageIDPath.String(root); !ok {
		p.logger.Debug("no group header message id found, not a pain.001 file",
			logging.Field{Key: "file", Value: path})
		return false, nil
	}
	return true, nil
}
