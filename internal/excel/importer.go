package excel

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/xuri/excelize/v2"

	"github.com/example/vocabdrill/pkg/models"
)

// Header names of the card sheet
const (
	LanguageColumn = "langue"
	ThemeColumn    = "theme"
	FrenchColumn   = "fr"
)

var validate = validator.New()

// ImportConfig defines the import configuration
type ImportConfig struct {
	FilePath  string // Path to the Excel or CSV file
	SheetName string // Name of the sheet to import, first sheet when empty
}

// ImportResult holds the result of an import operation
type ImportResult struct {
	TotalProcessed int
	Imported       int
	Skipped        int
	Errors         []string
	Cards          []models.Card
}

// Source serves the cards of a spreadsheet
type Source struct {
	Config ImportConfig
	Logger *slog.Logger
}

// NewSource creates a card source for the given file
func NewSource(cfg ImportConfig, logger *slog.Logger) *Source {
	if logger == nil {
		logger = slog.Default()
	}
	return &Source{Config: cfg, Logger: logger}
}

// Cards loads every valid card of the file. Invalid rows are logged and skipped.
func (s *Source) Cards(ctx context.Context) ([]models.Card, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	result, err := Load(s.Config)
	if err != nil {
		return nil, err
	}

	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	for _, rowErr := range result.Errors {
		logger.Warn("skipping card row", "file", s.Config.FilePath, "error", rowErr)
	}
	logger.Debug("cards loaded", "file", s.Config.FilePath, "imported", result.Imported, "skipped", result.Skipped)
	return result.Cards, nil
}

// Load reads cards from an Excel or CSV file
func Load(config ImportConfig) (*ImportResult, error) {
	// Check the file extension
	ext := strings.ToLower(filepath.Ext(config.FilePath))

	var rows [][]string
	var err error
	if ext == ".csv" {
		rows, err = readCSV(config.FilePath)
	} else {
		rows, err = readExcel(config)
	}
	if err != nil {
		return nil, err
	}
	return parseRows(rows)
}

// readExcel returns the rows of the configured sheet
func readExcel(config ImportConfig) ([][]string, error) {
	f, err := excelize.OpenFile(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheet := config.SheetName
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows of sheet %s: %w", sheet, err)
	}
	return rows, nil
}

// readCSV returns every record of a CSV file
func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.LazyQuotes = true

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV: %w", err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// parseRows maps the rows below the header row to cards
func parseRows(rows [][]string) (*ImportResult, error) {
	result := &ImportResult{Errors: make([]string, 0)}
	if len(rows) == 0 {
		return result, nil
	}

	columns := make(map[string]int)
	for i, name := range rows[0] {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{LanguageColumn, ThemeColumn, FrenchColumn} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("missing %q column in header", required)
		}
	}

	for i, row := range rows[1:] {
		rowNum := i + 2
		if blank(row) {
			continue
		}
		result.TotalProcessed++

		card, err := parseRow(row, columns)
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
			continue
		}
		result.Imported++
		result.Cards = append(result.Cards, card)
	}
	return result, nil
}

func parseRow(row []string, columns map[string]int) (models.Card, error) {
	cell := func(name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	language := models.Language(cell(LanguageColumn))
	card := models.Card{
		SourceWord: cell(language.ColumnKey()),
		TargetWord: cell(FrenchColumn),
		Theme:      cell(ThemeColumn),
		Language:   language,
	}
	if err := validate.Struct(card); err != nil {
		return models.Card{}, fmt.Errorf("invalid card: %w", err)
	}
	return card, nil
}

func blank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
