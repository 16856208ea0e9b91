package report

import (
	"fmt"
	"io"

	"github.com/360EntSecGroup-Skylar/excelize"
)

// WorkbookContentType is the MIME type of WriteWorkbook's output.
const WorkbookContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// WorkbookFileName is the default download name for the workbook.
const WorkbookFileName = "mediway-reports.xlsx"

type sheet struct {
	name   string
	header []string
	rows   [][]interface{}
}

func pointRows(pts []Point) [][]interface{} {
	rows := make([][]interface{}, len(pts))
	for i, p := range pts {
		rows[i] = []interface{}{p.Label, p.Count}
	}
	return rows
}

// sheets lays out snap as tables. The summary sheet only carries the
// statuses enabled in the filter.
func sheets(snap Snapshot) []sheet {
	statuses := snap.Filters.Statuses.Enabled()
	summaryHeader := []string{"bucket"}
	for _, s := range statuses {
		summaryHeader = append(summaryHeader, string(s))
	}
	summaryRows := make([][]interface{}, len(snap.Summary.Data))
	for i, r := range snap.Summary.Data {
		row := []interface{}{r.Bucket}
		for _, s := range statuses {
			row = append(row, r.Count(s))
		}
		summaryRows[i] = row
	}

	var demo [][]interface{}
	for _, p := range snap.Gender.Data {
		demo = append(demo, []interface{}{"gender", p.Label, p.Count})
	}
	for _, p := range snap.AgeBuckets.Data {
		demo = append(demo, []interface{}{"age", p.Label, p.Count})
	}

	k := snap.KPIs
	return []sheet{
		{"KPIs", []string{"metric", "value"}, [][]interface{}{
			{"Total registrations", k.TotalRegistrations},
			{"Total appointments", k.TotalAppointments},
			{"Cancellations (30d)", k.Cancellations30d},
			{"Top specialization", k.TopSpecialization},
		}},
		{"Registrations", []string{"date", "count"}, pointRows(snap.Registration.Data)},
		{"Demographics", []string{"section", "key", "count"}, demo},
		{"Doctor Load", []string{"doctor", "count"}, pointRows(snap.DoctorLoad.Data)},
		{"Summary", summaryHeader, summaryRows},
		{"Specializations", []string{"specialization", "count"}, pointRows(snap.Specialization.Data)},
		{"Cancellations", []string{"date", "cancellations"}, pointRows(snap.Cancellations.Data)},
	}
}

// cell converts zero-based column and row indexes to an A1 reference.
func cell(col, row int) string {
	name := ""
	for col >= 0 {
		name = string(rune('A'+col%26)) + name
		col = col/26 - 1
	}
	return fmt.Sprintf("%s%d", name, row+1)
}

// WriteWorkbook writes every derived table of snap to one XLSX workbook, a
// sheet per report.
func WriteWorkbook(w io.Writer, snap Snapshot) error {
	f := excelize.NewFile()
	for i, s := range sheets(snap) {
		if i == 0 {
			f.SetSheetName("Sheet1", s.name)
		} else {
			f.NewSheet(s.name)
		}
		for c, h := range s.header {
			f.SetCellValue(s.name, cell(c, 0), h)
		}
		for r, row := range s.rows {
			for c, v := range row {
				f.SetCellValue(s.name, cell(c, r+1), v)
			}
		}
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
