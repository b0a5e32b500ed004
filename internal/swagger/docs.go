// Package Swagger go-employee-payroll
//
// An API to mount employee payroll views and search, import or export
// their employees.
//
//	Schemes: http, https
//	Version: 1.0
//	Host: localhost:8080
//	BasePath:/
//
//	Consumes:
//	- application/json
//
//	Produces:
//	- application/json
//
// swagger:meta
package swagger
