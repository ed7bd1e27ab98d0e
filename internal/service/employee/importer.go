package employee

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/employee"
	"github.com/xuri/excelize/v2"
)

// importColumns maps normalized header names to row fields. Both snake_case
// and the camelCase headers of older templates are accepted.
var importColumns = map[string]func(r *employee.ImportRow, v string){
	"employeecode": func(r *employee.ImportRow, v string) { r.EmployeeCode = v },
	"employeeid":   func(r *employee.ImportRow, v string) { r.EmployeeCode = v },
	"firstname":    func(r *employee.ImportRow, v string) { r.FirstName = v },
	"lastname":     func(r *employee.ImportRow, v string) { r.LastName = v },
	"email":        func(r *employee.ImportRow, v string) { r.Email = v },
	"department":   func(r *employee.ImportRow, v string) { r.Department = v },
	"position":     func(r *employee.ImportRow, v string) { r.Position = v },
	"hourlyrate":   func(r *employee.ImportRow, v string) { r.HourlyRate = v },
	"basesalary":   func(r *employee.ImportRow, v string) { r.BaseSalary = v },
}

var headerReplacer = strings.NewReplacer("_", "", " ", "", "-", "")

func normalizeHeader(h string) string {
	return headerReplacer.Replace(strings.ToLower(strings.TrimSpace(h)))
}

func readCSV(body []byte) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(body, []byte("\xef\xbb\xbf"))))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	return r.ReadAll()
}

// readXLSX returns the rows of the first sheet.
func readXLSX(body []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	return f.GetRows(sheets[0])
}

// parseImportRows turns a header line plus data lines into rows. Blank lines
// are skipped. Unknown columns are ignored.
func parseImportRows(records [][]string) ([]employee.ImportRow, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("file has no header row")
	}

	setters := make([]func(r *employee.ImportRow, v string), len(records[0]))
	known := 0
	for i, h := range records[0] {
		if set, ok := importColumns[normalizeHeader(h)]; ok {
			setters[i] = set
			known++
		}
	}
	if known == 0 {
		return nil, fmt.Errorf("header row has no recognised columns")
	}

	rows := make([]employee.ImportRow, 0, len(records)-1)
	for i, record := range records[1:] {
		if isBlank(record) {
			continue
		}
		row := employee.ImportRow{Row: i + 2}
		for col, value := range record {
			if col < len(setters) && setters[col] != nil {
				setters[col](&row, strings.TrimSpace(value))
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func isBlank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
