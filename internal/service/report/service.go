package report

import (
	"bytes"
	"fmt"
	"math"
	"time"

	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/ledger"
	"github.com/xuri/excelize/v2"
)

const (
	sheetLedger   = "Ledger"
	sheetRollups  = "Rollups"
	sheetWarnings = "Warnings"
	sheetSkipped  = "Skipped"
)

var (
	ledgerHeader = []any{
		"Employee ID", "Name", "Date", "Clock Hours", "Book Hours",
		"Absence Hours", "Absence Kind", "Discrepancy", "Odd Punch Count",
	}
	rollupHeader = []any{
		"Employee ID", "Name", "Days Worked", "Total Clock Hours", "Total Book Hours",
		"Mean Session Hours", "Max Session Hours", "Min Session Hours",
		"Mean Discrepancy", "Cumulative Discrepancy", "Absence Days", "Absence Hours", "Odd Punch Days",
	}
	warningHeader = []any{"Code", "Artifact", "Line", "Message"}
	skippedHeader = []any{"Artifact", "Reason"}
)

type ReportServiceImpl struct{}

func NewReportService() ledger.ReportService {
	return &ReportServiceImpl{}
}

// LedgerWorkbook implements ledger.ReportService.
func (s *ReportServiceImpl) LedgerWorkbook(l ledger.Ledger) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetLedger); err != nil {
		return nil, err
	}
	for _, name := range []string{sheetRollups, sheetWarnings, sheetSkipped} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, err
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	ledgerRows := make([][]any, 0, len(l.Rows))
	for _, r := range l.Rows {
		var discrepancy any
		if r.Discrepancy != nil {
			discrepancy = round(*r.Discrepancy)
		}
		ledgerRows = append(ledgerRows, []any{
			r.EmployeeID, r.DisplayName, r.Date.Format(time.DateOnly),
			round(r.ClockHours), round(r.BookHours), round(r.AbsenceHours),
			string(r.AbsenceKind), discrepancy, r.HasOddPunchCount,
		})
	}

	rollupRows := make([][]any, 0, len(l.Rollups))
	for _, r := range l.Rollups {
		rollupRows = append(rollupRows, []any{
			r.EmployeeID, r.DisplayName, r.DaysWorked,
			round(r.TotalClockHours), round(r.TotalBookHours),
			round(r.MeanSessionHours), round(r.MaxSessionHours), round(r.MinSessionHours),
			round(r.MeanDiscrepancy), round(r.CumulativeDiscrepancy),
			r.AbsenceDays, round(r.AbsenceHours), r.OddPunchDays,
		})
	}

	warningRows := make([][]any, 0, len(l.Warnings))
	for _, w := range l.Warnings {
		var line any
		if w.Line > 0 {
			line = w.Line
		}
		warningRows = append(warningRows, []any{string(w.Code), w.Artifact, line, w.Message})
	}

	skippedRows := make([][]any, 0, len(l.Skipped))
	for _, sk := range l.Skipped {
		skippedRows = append(skippedRows, []any{sk.Artifact, sk.Reason})
	}

	sheets := []struct {
		name   string
		header []any
		rows   [][]any
	}{
		{sheetLedger, ledgerHeader, ledgerRows},
		{sheetRollups, rollupHeader, rollupRows},
		{sheetWarnings, warningHeader, warningRows},
		{sheetSkipped, skippedHeader, skippedRows},
	}

	for _, sh := range sheets {
		if err := writeSheet(f, sh.name, sh.header, sh.rows, headerStyle); err != nil {
			return nil, fmt.Errorf("failed to write %s sheet: %w", sh.name, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to encode workbook: %w", err)
	}
	return bytes.Clone(buf.Bytes()), nil
}

func writeSheet(f *excelize.File, sheet string, header []any, rows [][]any, headerStyle int) error {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	lastCol, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", lastCol+"1", headerStyle); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "A", lastCol, 16); err != nil {
		return err
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}

	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func round(v float64) float64 {
	return math.Round(v*100) / 100
}
