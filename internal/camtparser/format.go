package camtparser

import (
	"fmt"
	"os"

	"gopkg.in/xmlpath.v2"

	"bankstmt/iso20022/internal/logging"
)

var statementIDPath = xmlpath.MustCompile("//BkToCstmrStmt/Stmt/Id")

// ValidateFormat reports whether a file looks like a CAMT.053 statement. It
// checks structure only, not schema validity: a true result means the file
// is worth handing to Parse.
func (p *CamtParser) ValidateFormat(path string) (bool, error) {
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
	if _, ok := statementIDPath.String(root); !ok {
		p.logger.Debug("no statement id found, not a CAMT.053 file",
			logging.Field{Key: "file", Value: path})
		return false, nil
	}
	return true, nil
}
