package export

import (
	"encoding/csv"
	"io"

	"github.com/antonio-alexander/go-employee-payroll/internal/data"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

const (
	FilenameCsv     string = "employee_data.csv"
	FilenameXlsx    string = "employee_data.xlsx"
	ContentTypeCsv  string = "text/csv; charset=utf-8"
	ContentTypeXlsx string = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	SheetName       string = "Employees"
)

var ErrFormatUnsupported = errors.New("export format not supported")

// Columns is the fixed column order of an export, no header row is written
var Columns = []string{
	"firstName",
	"lastName",
	"email",
	"contactNumber",
	"salary",
	"address",
	"age",
	"dob",
}

func Record(e *data.Employee) []string {
	return []string{
		e.FirstName.String(),
		e.LastName.String(),
		e.Email.String(),
		e.ContactNumber.String(),
		e.Salary.String(),
		e.Address.String(),
		e.Age.String(),
		e.Dob.String(),
	}
}

// Filename returns the download name and content type for a format
func Filename(format string) (string, string, error) {
	switch format {
	default:
		return "", "", errors.Wrap(ErrFormatUnsupported, format)
	case "", data.FormatCsv:
		return FilenameCsv, ContentTypeCsv, nil
	case data.FormatXlsx:
		return FilenameXlsx, ContentTypeXlsx, nil
	}
}

func Write(w io.Writer, format string, employees []*data.Employee) error {
	switch format {
	default:
		return errors.Wrap(ErrFormatUnsupported, format)
	case "", data.FormatCsv:
		return WriteCsv(w, employees)
	case data.FormatXlsx:
		return WriteXlsx(w, employees)
	}
}

// WriteCsv writes one record per employee; fields holding a comma, quote
// or newline are quoted so every record parses back into exactly
// len(Columns) fields
func WriteCsv(w io.Writer, employees []*data.Employee) error {
	writer := csv.NewWriter(w)
	for _, employee := range employees {
		if err := writer.Write(Record(employee)); err != nil {
			return errors.Wrap(err, "unable to write csv record")
		}
	}
	writer.Flush()
	return writer.Error()
}

func WriteXlsx(w io.Writer, employees []*data.Employee) error {
	file := excelize.NewFile()
	defer file.Close()

	index, err := file.NewSheet(SheetName)
	if err != nil {
		return errors.Wrap(err, "unable to create sheet")
	}
	file.SetActiveSheet(index)
	if err := file.DeleteSheet("Sheet1"); err != nil {
		return errors.Wrap(err, "unable to delete default sheet")
	}
	for i, employee := range employees {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		record := Record(employee)
		row := make([]interface{}, 0, len(record))
		for _, field := range record {
			row = append(row, field)
		}
		if err := file.SetSheetRow(SheetName, cell, &row); err != nil {
			return errors.Wrapf(err, "unable to write row %d", i+1)
		}
	}
	return file.Write(w)
}
