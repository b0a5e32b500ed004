package swagger

import "github.com/antonio-alexander/go-employee-payroll/internal/data"

// swagger:route PUT /views View CreateView
// Mounts a view, the employees are loaded in the background.
//
//     Produces:
//     - application/json
//
// responses:
//   200: ViewResponseOk

// swagger:route GET /views/{ViewId} View ReadView
// Reads a view; its status is loading, loaded or failed.
//
//     Produces:
//     - application/json
//
// responses:
//   200: ViewResponseOk
//   404: ErrorResponse

// swagger:route DELETE /views/{ViewId} View DeleteView
// Unmounts a view, any in-flight load is cancelled.
//
// responses:
//   204: NoContentResponse
//   404: ErrorResponse

// swagger:response ViewResponseOk
type ViewResponseOk struct {
	// in:body
	View data.View `json:"view"`
}

// swagger:response ErrorResponse
type ErrorResponse struct {
	// in:body
	Body data.Error
}

// swagger:response NoContentResponse
type NoContentResponse struct{}

// swagger:parameters ReadView DeleteView SearchEmployees ImportEmployees ExportEmployees
type ViewIdParams struct {
	// in:path
	ViewId string `json:"ViewId"`

	// in:header
	CorrelationId string `json:"Correlation-Id"`
}
