package xlsxexport

import (
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"

	"docketflow/internal/csvexport"
	"docketflow/internal/domain"
)

// sheet display names per table, in workbook order.
var sheetNames = map[domain.TableName]string{
	domain.TableIncidents:      "Incidents",
	domain.TablePlaintiffs:     "Plaintiffs",
	domain.TableDefendants:     "Defendants",
	domain.TableHarms:          "Harms",
	domain.TableHarmPlaintiffs: "Harm Plaintiffs",
	domain.TableHarmDefendants: "Harm Defendants",
}

// BuildWorkbook renders the six tables into one XLSX workbook, one sheet per
// table, plus a Summary sheet when run summaries are supplied.
func BuildWorkbook(ts *domain.TableSet, summaries []domain.RunSummary) (*excelize.File, error) {
	f := excelize.NewFile()

	for i, table := range domain.AllTables {
		sheet := sheetNames[table]
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return nil, fmt.Errorf("renaming first sheet: %w", err)
			}
		} else {
			if _, err := f.NewSheet(sheet); err != nil {
				return nil, fmt.Errorf("creating sheet %s: %w", sheet, err)
			}
		}

		header, rows, err := csvexport.TableRows(table, ts)
		if err != nil {
			return nil, err
		}
		if err := setRow(f, sheet, 1, header); err != nil {
			return nil, err
		}
		for r, row := range rows {
			if err := setRow(f, sheet, r+2, row); err != nil {
				return nil, err
			}
		}
	}

	if len(summaries) > 0 {
		if err := addSummarySheet(f, summaries); err != nil {
			return nil, err
		}
	}

	return f, nil
}

var summaryColumns = []string{
	"Provider", "Model", "Run Date", "Runtime (s)", "Succeeded", "Failed",
	"Transient Exhausted", "Terminal", "Skipped", "Avg Time (s)", "Total Tokens",
}

func addSummarySheet(f *excelize.File, summaries []domain.RunSummary) error {
	const sheet = "Summary"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("creating summary sheet: %w", err)
	}
	if err := setRow(f, sheet, 1, summaryColumns); err != nil {
		return err
	}
	for i, s := range summaries {
		row := []string{
			s.Provider, s.Model, s.Timestamp,
			strconv.FormatFloat(s.TotalRuntime, 'f', 2, 64),
			strconv.Itoa(s.SuccessCount), strconv.Itoa(s.ErrorCount),
			strconv.Itoa(s.TransientExhausted), strconv.Itoa(s.TerminalCount),
			strconv.Itoa(s.SkippedCount),
			strconv.FormatFloat(s.AvgTimePerRequest, 'f', 2, 64),
			strconv.Itoa(s.TotalTokens),
		}
		if err := setRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, rowNum int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = v
	}
	if err := f.SetSheetRow(sheet, cell, &row); err != nil {
		return fmt.Errorf("writing %s row %d: %w", sheet, rowNum, err)
	}
	return nil
}
