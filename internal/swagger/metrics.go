package swagger

import "github.com/antonio-alexander/go-employee-payroll/internal/data"

// swagger:route GET /charts Charts ReadCharts
// Reads the employee roles and salary range charts.
//
//     Produces:
//     - application/json
//
// responses:
//   200: ChartsResponseOk

// swagger:route GET /counters Counters ReadCounters
// Reads the outcome counters.
//
// responses:
//   200: CountersResponseOk

// swagger:route DELETE /counters Counters DeleteCounters
// Clears the outcome counters.
//
// responses:
//   204: NoContentResponse

// swagger:route GET /timers Timers ReadTimers
// Reads all timers.
//
// responses:
//   200: TimersResponseOk

// swagger:route DELETE /timers Timers DeleteTimers
// Clears all timers.
//
// responses:
//   204: NoContentResponse

// swagger:response ChartsResponseOk
type ChartsResponseOk struct {
	// in:body
	Charts []data.Chart `json:"charts"`
}

// swagger:response CountersResponseOk
type CountersResponseOk struct {
	// in:body
	Counters data.Counters
}

// swagger:response TimersResponseOk
type TimersResponseOk struct {
	// in:body
	Timers data.Timers
}
