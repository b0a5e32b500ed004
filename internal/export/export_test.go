package export_test

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/antonio-alexander/go-employee-payroll/internal/data"
	"github.com/antonio-alexander/go-employee-payroll/internal/export"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func newEmployee(firstName, lastName, address string) *data.Employee {
	return &data.Employee{
		Id:            data.NewValue(1001),
		FirstName:     data.NewValue(firstName),
		LastName:      data.NewValue(lastName),
		Email:         data.NewValue(strings.ToLower(firstName) + "@example.com"),
		ContactNumber: data.NewValue("5551234567"),
		Salary:        data.NewValue(51234.5),
		Address:       data.NewValue(address),
		Age:           data.NewValue(34),
		Dob:           data.NewValue("01/02/1990"),
	}
}

func TestWriteCsv(t *testing.T) {
	employees := []*data.Employee{
		newEmployee("Jane", "Doe", "12 Main St"),
		newEmployee("John", "Smith", "99 Elm St"),
		newEmployee("Ada", "Lovelace", "1 Analytical Way"),
	}

	buffer := &bytes.Buffer{}
	err := export.WriteCsv(buffer, employees)
	require.Nil(t, err)
	lines := strings.Split(strings.TrimSuffix(buffer.String(), "\n"), "\n")
	assert.Len(t, lines, len(employees))
	for _, line := range lines {
		assert.Len(t, strings.Split(line, ","), len(export.Columns))
	}
	assert.Equal(t, "Jane,Doe,jane@example.com,5551234567,51234.5,12 Main St,34,01/02/1990", lines[0])
}

func TestWriteCsvQuoted(t *testing.T) {
	employees := []*data.Employee{
		newEmployee("Jane", "Doe", "12 Main St, Springfield"),
		newEmployee("John", `"Jack" Smith`, "99 Elm St"),
	}

	buffer := &bytes.Buffer{}
	err := export.WriteCsv(buffer, employees)
	require.Nil(t, err)
	records, err := csv.NewReader(buffer).ReadAll()
	require.Nil(t, err)
	assert.Len(t, records, len(employees))
	for i, record := range records {
		assert.Len(t, record, len(export.Columns))
		assert.Equal(t, export.Record(employees[i]), record)
	}
}

func TestWriteCsvEmpty(t *testing.T) {
	buffer := &bytes.Buffer{}
	err := export.WriteCsv(buffer, nil)
	assert.Nil(t, err)
	assert.Zero(t, buffer.Len())
}

func TestWriteXlsx(t *testing.T) {
	employees := []*data.Employee{
		newEmployee("Jane", "Doe", "12 Main St, Springfield"),
		newEmployee("John", "Smith", "99 Elm St"),
	}

	buffer := &bytes.Buffer{}
	err := export.WriteXlsx(buffer, employees)
	require.Nil(t, err)
	file, err := excelize.OpenReader(buffer)
	require.Nil(t, err)
	defer file.Close()
	rows, err := file.GetRows(export.SheetName)
	require.Nil(t, err)
	assert.Len(t, rows, len(employees))
	for i, row := range rows {
		assert.Equal(t, export.Record(employees[i]), row)
	}
}

func TestFilename(t *testing.T) {
	filename, contentType, err := export.Filename("")
	assert.Nil(t, err)
	assert.Equal(t, "employee_data.csv", filename)
	assert.Equal(t, export.ContentTypeCsv, contentType)

	filename, _, err = export.Filename(data.FormatXlsx)
	assert.Nil(t, err)
	assert.Equal(t, "employee_data.xlsx", filename)

	_, _, err = export.Filename("pdf")
	assert.True(t, errors.Is(err, export.ErrFormatUnsupported))
	err = export.Write(&bytes.Buffer{}, "pdf", nil)
	assert.True(t, errors.Is(err, export.ErrFormatUnsupported))
}
