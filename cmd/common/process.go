// Package common contains the shared processing pipeline behind the
// commands: parse, render, write. Output is rendered fully in memory before
// any file is created, so a failed run never leaves a partial output file.
package common

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"bankstmt/iso20022/internal/camtparser"
	"bankstmt/iso20022/internal/config"
	"bankstmt/iso20022/internal/export"
	"bankstmt/iso20022/internal/logging"
	"bankstmt/iso20022/internal/models"
	"bankstmt/iso20022/internal/pain001parser"
	"bankstmt/iso20022/internal/schema"
)

// Report names what a camt conversion exports.
const (
	ReportTransactions = "transactions"
	ReportBalances     = "balances"
	ReportStats        = "stats"
)

// ErrInvalidFormat is returned when the input file does not look like the
// declared message type.
var ErrInvalidFormat = errors.New("file is not in a valid format")

// App wires the schema registry, parsers and exporter for one invocation.
type App struct {
	Logger   logging.Logger
	Stdout   io.Writer
	registry *schema.Registry
	exporter *export.Exporter
}

// NewApp builds the processing pipeline from the loaded configuration.
func NewApp(cfg *config.Config, logger logging.Logger) *App {
	return &App{
		Logger:   logger,
		Stdout:   os.Stdout,
		registry: schema.NewRegistry(logger),
		exporter: export.New(cfg.Delimiter(), logger),
	}
}

// ConvertCamt parses a CAMT.053 file and writes the selected report: an
// aligned table on stdout when output is empty, a CSV or Excel file
// otherwise.
func (a *App) ConvertCamt(input, output, format, report string) error {
	parser := camtparser.New(a.registry, a.Logger)
	ok, err := parser.ValidateFormat(input)
	if err != nil {
		return fmt.Errorf("error validating file: %w", err)
	}
	if !ok {
		return ErrInvalidFormat
	}
	statements, err := parser.ParseFile(input)
	if err != nil {
		return err
	}

	if output == "" {
		text, err := a.renderTable(statements, report)
		if err != nil {
			return err
		}
		_, err = io.WriteString(a.Stdout, text)
		return err
	}

	if format == "xlsx" {
		buf, err := a.exporter.Workbook(statements)
		if err != nil {
			return err
		}
		return a.writeFile(output, buf.Bytes())
	}

	content, err := a.renderCSV(statements, report)
	if err != nil {
		return err
	}
	return a.writeFile(output, []byte(content))
}

// BatchConvertCamt converts every XML file in inputDir, writing one output
// file per statement file into outputDir. Files that fail validation or
// parsing are skipped with a warning; the count of converted files is
// returned.
func (a *App) BatchConvertCamt(inputDir, outputDir, format, report string) (int, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return 0, fmt.Errorf("error creating output directory: %w", err)
	}
	files, err := filepath.Glob(filepath.Join(inputDir, "*.xml"))
	if err != nil {
		return 0, fmt.Errorf("error reading input directory: %w", err)
	}

	ext := ".csv"
	if format == "xlsx" {
		ext = ".xlsx"
	}
	var processed int
	for _, file := range files {
		base := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
		output := filepath.Join(outputDir, base+ext)
		if err := a.ConvertCamt(file, output, format, report); err != nil {
			a.Logger.WithError(err).Warn("skipping file",
				logging.Field{Key: "file", Value: file})
			continue
		}
		processed++
	}
	a.Logger.Info("batch conversion completed",
		logging.Field{Key: "count", Value: processed})
	return processed, nil
}

// ConvertPain001 parses a pain.001 file and writes one row per credit
// transfer, with the batch header repeated on each row.
func (a *App) ConvertPain001(input, output string) error {
	parser := pain001parser.New(a.registry, a.Logger)
	ok, err := parser.ValidateFormat(input)
	if err != nil {
		return fmt.Errorf("error validating file: %w", err)
	}
	if !ok {
		return ErrInvalidFormat
	}
	instruction, err := parser.ParseFile(input)
	if err != nil {
		return err
	}

	if output == "" {
		_, err = io.WriteString(a.Stdout, a.exporter.PaymentsTable(instruction))
		return err
	}
	content, err := a.exporter.PaymentsCSV(instruction)
	if err != nil {
		return err
	}
	return a.writeFile(output, []byte(content))
}

// Generate reads a YAML payment instruction and emits a schema-valid
// pain.001 document.
func (a *App) Generate(input, output string) error {
	instruction, err := pain001parser.LoadInstruction(input)
	if err != nil {
		return err
	}
	parser := pain001parser.New(a.registry, a.Logger)
	data, err := parser.Build(instruction)
	if err != nil {
		return err
	}

	if output == "" {
		_, err = a.Stdout.Write(append(data, '\n'))
		return err
	}
	return a.writeFile(output, data)
}

func (a *App) renderCSV(statements []models.StatementRecord, report string) (string, error) {
	switch report {
	case ReportTransactions, "":
		return a.exporter.TransactionsCSV(statements)
	case ReportBalances:
		return a.exporter.BalancesCSV(statements)
	case ReportStats:
		return a.exporter.StatsCSV(statements)
	}
	return "", fmt.Errorf("unknown report %q (want transactions, balances or stats)", report)
}

func (a *App) renderTable(statements []models.StatementRecord, report string) (string, error) {
	switch report {
	case ReportTransactions, "":
		return a.exporter.TransactionsTable(statements), nil
	case ReportBalances:
		return a.exporter.BalancesTable(statements), nil
	case ReportStats:
		return a.exporter.StatsTable(statements), nil
	}
	return "", fmt.Errorf("unknown report %q (want transactions, balances or stats)", report)
}

func (a *App) writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("error writing %s: %w", path, err)
	}
	a.Logger.Info("wrote output file",
		logging.Field{Key: "file", Value: path},
		logging.Field{Key: "bytes", Value: len(data)})
	return nil
}
