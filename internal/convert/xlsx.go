package convert

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/xuri/excelize/v2"

	"kslingo/internal/phrase"
	"kslingo/internal/services"
)

const (
	// SheetName is the worksheet written and preferred on read.
	SheetName = "Phrases"

	colKind    = "Kind"
	colEnabled = "Enabled"
	colLevel   = "Level"
	colIsWord  = "IsWord"
)

// WriteSpreadsheet renders doc as a workbook: one header row, then per
// section a category row followed by its emittable phrase rows.
func WriteSpreadsheet(w io.Writer, doc phrase.Document, langs phrase.Languages) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}

	columns := langs.Columns()
	header := []any{colKind, colEnabled, colLevel, colIsWord}
	for _, lang := range columns {
		header = append(header, strings.ToUpper(lang))
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := styleHeader(f, len(header)); err != nil {
		return err
	}

	row := 2
	writeRow := func(values []any) error {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		row++
		return f.SetSheetRow(SheetName, cell, &values)
	}

	for _, section := range doc.Sections {
		values := []any{string(phrase.RowCategory), "", "", ""}
		for _, lang := range columns {
			values = append(values, section.CategoryFor(langs, lang))
		}
		if err := writeRow(values); err != nil {
			return fmt.Errorf("write category row: %w", err)
		}
		for _, p := range section.Phrases {
			if !p.Emittable(langs) {
				continue
			}
			values := []any{string(phrase.RowPhrase), boolCell(p.Flags.Enabled), p.Flags.Level, boolCell(p.Flags.IsWord)}
			for _, lang := range columns {
				values = append(values, p.TextFor(lang))
			}
			if err := writeRow(values); err != nil {
				return fmt.Errorf("write phrase row: %w", err)
			}
		}
	}

	if err := f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freeze header: %w", err)
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func styleHeader(f *excelize.File, width int) error {
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(width, 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetName, "A1", last, style); err != nil {
		return fmt.Errorf("style header: %w", err)
	}
	return nil
}

// SpreadsheetResult is a decoded workbook.
type SpreadsheetResult struct {
	Document phrase.Document
	// Legacy is true when the sheet had no Kind column and row kinds were
	// inferred from empty flag cells.
	Legacy   bool
	Warnings []string
}

type sheetLayout struct {
	kind    int
	enabled int
	level   int
	isWord  int
	langs   map[int]string
}

// ReadSpreadsheet decodes a workbook written by WriteSpreadsheet. Sheets
// without a Kind column are read by inferring category rows from empty or
// zero flag cells.
func ReadSpreadsheet(r io.Reader, langs phrase.Languages) (SpreadsheetResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return SpreadsheetResult{}, services.Wrap(services.ErrInvalidFormat, "convert", "open workbook", "", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return SpreadsheetResult{}, services.Wrap(services.ErrInvalidFormat, "convert", "open workbook", "workbook has no sheets", nil)
	}
	sheet := sheets[0]
	if slices.Contains(sheets, SheetName) {
		sheet = SheetName
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return SpreadsheetResult{}, services.Wrap(services.ErrInvalidFormat, "convert", "read rows", sheet, err)
	}
	if len(rows) == 0 {
		return SpreadsheetResult{}, services.Wrap(services.ErrInvalidFormat, "convert", "read rows", "sheet is empty", nil)
	}

	layout, err := parseHeader(rows[0])
	if err != nil {
		return SpreadsheetResult{}, err
	}

	var res SpreadsheetResult
	res.Legacy = layout.kind < 0
	if res.Legacy {
		res.Warnings = append(res.Warnings, "no Kind column; category rows inferred from empty flag cells")
	}

	var current *phrase.Section
	flush := func() {
		if current != nil {
			res.Document.Sections = append(res.Document.Sections, *current)
		}
	}
	for idx, cells := range rows[1:] {
		rowNo := idx + 2
		if rowEmpty(cells) {
			continue
		}
		kind, ok := layout.rowKind(cells)
		if !ok {
			res.Warnings = append(res.Warnings, fmt.Sprintf("row %d: unknown kind %q, skipped", rowNo, cellAt(cells, layout.kind)))
			continue
		}

		text := make(map[string]string, len(layout.langs))
		for col, lang := range layout.langs {
			text[lang] = cellAt(cells, col)
		}

		if kind == phrase.RowCategory {
			flush()
			current = &phrase.Section{
				Title:    phrase.TitleFromCategory(text, langs),
				Category: text,
			}
			continue
		}

		if current == nil {
			res.Warnings = append(res.Warnings, fmt.Sprintf("row %d: phrase before first category, opened untitled section", rowNo))
			current = &phrase.Section{}
		}
		flags := phrase.FlagSet{
			Level:   cellAt(cells, layout.level),
			IsWord:  truthy(cellAt(cells, layout.isWord)),
			Enabled: truthy(cellAt(cells, layout.enabled)),
		}
		if flags.Level == "" {
			flags.Level = phrase.DefaultLevel
		}
		current.Phrases = append(current.Phrases, phrase.Phrase{
			Flags:     flags,
			Text:      text,
			OnlyLearn: nonEmptyCount(text) == 1,
		})
	}
	flush()
	return res, nil
}

func parseHeader(header []string) (sheetLayout, error) {
	layout := sheetLayout{kind: -1, enabled: -1, level: -1, isWord: -1, langs: map[int]string{}}
	for idx, raw := range header {
		name := strings.TrimSpace(raw)
		switch strings.ToLower(name) {
		case "":
			continue
		case strings.ToLower(colKind):
			layout.kind = idx
		case strings.ToLower(colEnabled):
			layout.enabled = idx
		case strings.ToLower(colLevel):
			layout.level = idx
		case strings.ToLower(colIsWord):
			layout.isWord = idx
		default:
			layout.langs[idx] = strings.ToLower(name)
		}
	}
	if layout.enabled < 0 || layout.level < 0 || layout.isWord < 0 {
		return sheetLayout{}, services.Wrap(services.ErrInvalidFormat, "convert", "read header",
			"header must contain Enabled, Level and IsWord columns", nil)
	}
	if len(layout.langs) == 0 {
		return sheetLayout{}, services.Wrap(services.ErrInvalidFormat, "convert", "read header", "no language columns", nil)
	}
	return layout, nil
}

func (l sheetLayout) rowKind(cells []string) (phrase.RowKind, bool) {
	if l.kind >= 0 {
		return phrase.ParseRowKind(cellAt(cells, l.kind))
	}
	for _, col := range []int{l.enabled, l.level, l.isWord} {
		if v := cellAt(cells, col); v != "" && v != "0" {
			return phrase.RowPhrase, true
		}
	}
	return phrase.RowCategory, true
}

func cellAt(cells []string, idx int) string {
	if idx < 0 || idx >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[idx])
}

func rowEmpty(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func boolCell(v bool) string {
	if v {
		return "1"
	}
	return "0"
}

func truthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "y", "e":
		return true
	default:
		return false
	}
}
