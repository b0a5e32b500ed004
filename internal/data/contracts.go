package data

const (
	RouteViews                       string = "/views"
	RouteViewsViewId                 string = RouteViews + "/{" + PathViewId + "}"
	RouteViewsViewIdf                string = RouteViews + "/%s"
	RouteViewsViewIdEmployees        string = RouteViewsViewId + "/employees"
	RouteViewsViewIdEmployeesf       string = RouteViewsViewIdf + "/employees"
	RouteViewsViewIdEmployeesExport  string = RouteViewsViewIdEmployees + "/export"
	RouteViewsViewIdEmployeesExportf string = RouteViewsViewIdEmployeesf + "/export"
	RouteCharts                      string = "/charts"
	RouteTimers                      string = "/timers"
	RouteCounters                    string = "/counters"
	RoutePayroll                     string = "/payroll"
	RoutePayrollImport               string = RoutePayroll + "/import"
	RoutePayrollExport               string = RoutePayroll + "/export"
)

const PathViewId string = "ViewId"

const (
	ParameterSearch string = "search"
	ParameterFuzzy  string = "fuzzy"
	ParameterFormat string = "format"
)

const (
	FormatCsv  string = "csv"
	FormatXlsx string = "xlsx"
)

const (
	CookieViewId        string = "view_id"
	FormFile            string = "file"
	HeaderCorrelationId string = "Correlation-Id"
)

type Response struct {
	View      *View       `json:"view,omitempty"`
	Employees []*Employee `json:"employees,omitempty"`
	Charts    []*Chart    `json:"charts,omitempty"`
}

type Error struct {
	Error string `json:"error"`
}

type Counters struct {
	Successes map[string]int `json:"successes,omitempty"`
	Failures  map[string]int `json:"failures,omitempty"`
}

type Timers struct {
	Totals   map[string]int64 `json:"totals,omitempty"`
	Averages map[string]int64 `json:"averages,omitempty"`
}
