// Package pain001parser builds and parses PAIN.001 customer credit transfer
// initiation messages. Build and Parse are symmetric: parsing a built
// document recovers the instruction that produced it.
package pain001parser

import (
	"encoding/xml"

	"bankstmt/iso20022/internal/models"
)

const namespaceURI = "urn:iso:std:iso:20022:tech:xsd:pain.001.001.03"

// Wire structures for pain.001.001.03. Field order follows the schema's
// element order, which encoding/xml preserves when marshaling.
type documentEnvelope struct {
	XMLName          xml.Name                         `xml:"Document"`
	Xmlns            string                           `xml:"xmlns,attr"`
	CstmrCdtTrfInitn customerCreditTransferInitiation `xml:"CstmrCdtTrfInitn"`
}

type customerCreditTransferInitiation struct {
	GrpHdr groupHeader   `xml:"GrpHdr"`
	PmtInf []paymentInfo `xml:"PmtInf"`
}

type groupHeader struct {
	MsgID    string `xml:"MsgId"`
	CreDtTm  string `xml:"CreDtTm"`
	NbOfTxs  string `xml:"NbOfTxs"`
	CtrlSum  string `xml:"CtrlSum,omitempty"`
	InitgPty party  `xml:"InitgPty"`
}

type party struct {
	Nm string   `xml:"Nm,omitempty"`
	ID *partyID `xml:"Id,omitempty"`
}

type partyID struct {
	OrgID organisationID `xml:"OrgId"`
}

type organisationID struct {
	Othr []genericID `xml:"Othr"`
}

type genericID struct {
	ID string `xml:"Id"`
}

type paymentInfo struct {
	PmtInfID    string           `xml:"PmtInfId"`
	PmtMtd      string           `xml:"PmtMtd"`
	NbOfTxs     string           `xml:"NbOfTxs,omitempty"`
	CtrlSum     string           `xml:"CtrlSum,omitempty"`
	ReqdExctnDt string           `xml:"ReqdExctnDt"`
	Dbtr        party            `xml:"Dbtr"`
	DbtrAcct    account          `xml:"DbtrAcct"`
	CdtTrfTxInf []creditTransfer `xml:"CdtTrfTxInf"`
}

type account struct {
	ID accountID `xml:"Id"`
}

type accountID struct {
	IBAN string `xml:"IBAN"`
}

type creditTransfer struct {
	PmtID    paymentID    `xml:"PmtId"`
	Amt      amountChoice `xml:"Amt"`
	Cdtr     party        `xml:"Cdtr"`
	CdtrAcct account      `xml:"CdtrAcct"`
	RmtInf   *remittance  `xml:"RmtInf,omitempty"`
}

type paymentID struct {
	EndToEndID string `xml:"EndToEndId"`
}

type amountChoice struct {
	InstdAmt instructedAmount `xml:"InstdAmt"`
}

type instructedAmount struct {
	Ccy   string `xml:"Ccy,attr"`
	Value string `xml:",chardata"`
}

type remittance struct {
	Ustrd []string `xml:"Ustrd"`
}

func newParty(info models.PartyInfo) party {
	p := party{Nm: info.Name}
	if info.Identifier != nil && *info.Identifier != "" {
		p.ID = &partyID{OrgID: organisationID{Othr: []genericID{{ID: *info.Identifier}}}}
	}
	return p
}

func (p party) toModel() models.PartyInfo {
	info := models.PartyInfo{Name: p.Nm}
	if p.ID != nil && len(p.ID.OrgID.Othr) > 0 && p.ID.OrgID.Othr[0].ID != "" {
		id := p.ID.OrgID.Othr[0].ID
		info.Identifier = &id
	}
	return info
}
