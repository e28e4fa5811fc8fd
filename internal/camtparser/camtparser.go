// Package camtparser parses CAMT.053 bank-to-customer statements: schema
// validation first, then extraction into flat statement records.
package camtparser

import (
	"fmt"
	"os"

	"bankstmt/iso20022/internal/logging"
	"bankstmt/iso20022/internal/models"
	"bankstmt/iso20022/internal/parsererror"
	"bankstmt/iso20022/internal/schema"
	"bankstmt/iso20022/internal/validator"
)

// CamtParser sequences schema resolution, validation and extraction for
// CAMT.053 documents. It is safe for concurrent use.
type CamtParser struct {
	registry *schema.Registry
	logger   logging.Logger
}

// New creates a CAMT.053 parser backed by the given schema registry.
func New(registry *schema.Registry, logger logging.Logger) *CamtParser {
	return &CamtParser{registry: registry, logger: logger}
}

// Parse validates a CAMT.053 document and extracts every statement it
// contains, in document order. Extraction is never attempted on a document
// that failed validation.
func (p *CamtParser) Parse(data []byte) ([]models.StatementRecord, error) {
	doc, err := validator.ParseDocument(data)
	if err != nil {
		return nil, err
	}

	version, err := schema.ResolveNamespace(doc.Namespace)
	if err != nil {
		return nil, err
	}
	if version.Family != models.FamilyCamt053 {
		return nil, &parsererror.UnsupportedVersionError{Family: version.Family, Version: version.Version}
	}

	compiled, err := p.registry.Resolve(version)
	if err != nil {
		return nil, err
	}
	if result := validator.Validate(doc, compiled); !result.Valid {
		p.logger.Warn("document failed schema validation",
			logging.Field{Key: "version", Value: version.String()},
			logging.Field{Key: "violations", Value: len(result.Violations)})
		return nil, &parsererror.SchemaValidationError{Version: version, Result: result}
	}

	statements, err := extractStatements(doc.Root, version)
	if err != nil {
		return nil, err
	}
	p.logger.Info("extracted statements",
		logging.Field{Key: "version", Value: version.String()},
		logging.Field{Key: "statements", Value: len(statements)})
	return statements, nil
}

// ParseFile reads and parses a CAMT.053 file.
func (p *CamtParser) ParseFile(path string) ([]models.StatementRecord, error) {
	p.logger.Info("parsing CAMT.053 file", logging.Field{Key: "file", Value: path})
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return p.Parse(data)
}

// Extract validates a document and returns its first statement. Multi
// statement files are handled by Parse; single-statement callers use this.
func (p *CamtParser) Extract(data []byte) (models.StatementRecord, error) {
	statements, err := p.Parse(data)
	if err != nil {
		return models.StatementRecord{}, err
	}
	if len(statements) == 0 {
		return models.StatementRecord{}, fmt.Errorf("document contains no statements")
	}
	return statements[0], nil
}
