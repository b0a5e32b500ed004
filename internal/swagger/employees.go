package swagger

import "github.com/antonio-alexander/go-employee-payroll/internal/data"

// swagger:route GET /views/{ViewId}/employees Employees SearchEmployees
// Searches the employees of a loaded view by full name.
//
//     Produces:
//     - application/json
//
// responses:
//   200: EmployeesResponseOk
//   404: ErrorResponse
//   409: ErrorResponse

// swagger:route PUT /views/{ViewId}/employees Employees ImportEmployees
// Replaces the employees of a loaded view with a json array.
//
//     Consumes:
//     - application/json
//     - multipart/form-data
//
//     Produces:
//     - application/json
//
// responses:
//   200: EmployeesResponseOk
//   400: ErrorResponse
//   404: ErrorResponse
//   409: ErrorResponse
//   413: ErrorResponse

// swagger:route GET /views/{ViewId}/employees/export Employees ExportEmployees
// Downloads every employee of a loaded view, searches are ignored.
//
//     Produces:
//     - text/csv
//     - application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
//
// responses:
//   200: ExportResponseOk
//   400: ErrorResponse
//   404: ErrorResponse
//   409: ErrorResponse

// swagger:response EmployeesResponseOk
type EmployeesResponseOk struct {
	// in:body
	Employees []data.Employee `json:"employees"`
}

// swagger:response ExportResponseOk
type ExportResponseOk struct {
	// in:header
	ContentDisposition string `json:"Content-Disposition"`

	// in:body
	Body []byte
}

// swagger:parameters SearchEmployees
type EmployeesSearchParams struct {
	// in:query
	Search string `json:"search"`

	// in:query
	Fuzzy bool `json:"fuzzy"`
}

// swagger:parameters ImportEmployees
type EmployeesImportParams struct {
	// in:body
	Employees []data.Employee
}

// swagger:parameters ExportEmployees
type EmployeesExportParams struct {
	// in:query
	// enum: csv,xlsx
	Format string `json:"format"`
}
