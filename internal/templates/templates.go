package templates

import (
	"context"
	"html/template"
	"io"

	"github.com/antonio-alexander/go-employee-payroll/internal/data"

	"github.com/a-h/templ"
)

// Page is everything needed to render the payroll view
type Page struct {
	View         *data.View
	Employees    []*data.Employee
	Search       string
	Charts       []*data.Chart
	Notice       string
	ImportAction string
	ExportHref   string
	SearchAction string
}

func (p Page) Loading() bool {
	return p.View == nil || p.View.Status == data.ViewStatusLoading
}

func (p Page) Failed() bool {
	return p.View != nil && p.View.Status == data.ViewStatusFailed
}

var payrollTmpl = template.Must(template.New("payroll").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
{{- if .Loading}}
<meta http-equiv="refresh" content="1">
{{- end}}
<title>Employee Payroll</title>
<script src="https://unpkg.com/htmx.org@1.9.12"></script>
<script src="https://cdn.jsdelivr.net/npm/chart.js@4.4.1/dist/chart.umd.min.js"></script>
<style>
  .container { max-width: 1200px; margin: 0 auto; font-family: sans-serif; }
  .toolbar { display: flex; gap: 1rem; align-items: center; margin-bottom: 1rem; }
  .notice { color: #c0392b; }
  .employee-table { width: 100%; border-collapse: collapse; }
  .employee-table th, .employee-table td { border: 1px solid #ddd; padding: 8px; text-align: left; }
  .employee-table img { width: 40px; height: 40px; border-radius: 50%; }
  .chart-container { display: flex; gap: 2rem; margin-top: 2rem; }
  .chart { flex: 1; height: 320px; }
</style>
</head>
<body>
{{- if .Loading}}
<p>Loading employee data...</p>
{{- else if .Failed}}
<p>Error fetching employee data: {{.View.Error}}</p>
{{- else}}
<div class="container">
  <h2>Employee Payroll</h2>
  {{- with .Notice}}
  <p class="notice">{{.}}</p>
  {{- end}}
  <div class="toolbar">
    <form method="post" action="{{.ImportAction}}" enctype="multipart/form-data">
      <input type="file" name="file" accept=".json" onchange="this.form.submit()">
    </form>
    <a class="button" href="{{.ExportHref}}" download="employee_data.csv">Download Employee Data</a>
    <input type="text" name="search" placeholder="Search by name..." value="{{.Search}}"
      hx-get="{{.SearchAction}}" hx-trigger="input" hx-select="#employees" hx-target="#employees" hx-swap="outerHTML">
  </div>
  <table class="employee-table">
    <thead>
      <tr>
        <th>Image</th>
        <th>First Name</th>
        <th>Last Name</th>
        <th>Email</th>
        <th>Contact Number</th>
        <th>Salary</th>
        <th>Address</th>
        <th>Age</th>
        <th>DOB</th>
      </tr>
    </thead>
    <tbody id="employees">
    {{- range .Employees}}
      <tr data-id="{{.Id}}">
        <td><img src="{{.ImageUrl}}" alt="{{.FullName}}"></td>
        <td>{{.FirstName}}</td>
        <td>{{.LastName}}</td>
        <td>{{.Email}}</td>
        <td>{{.ContactNumber}}</td>
        <td>{{.Salary}}</td>
        <td>{{.Address}}</td>
        <td>{{.Age}}</td>
        <td>{{.Dob}}</td>
      </tr>
    {{- end}}
    </tbody>
  </table>
  <div class="chart-container">
  {{- range .Charts}}
    <div class="chart">
      <h3>{{.Title}}</h3>
      <canvas id="{{.Id}}"></canvas>
    </div>
  {{- end}}
  </div>
</div>
<script>
  const charts = {{.Charts}};
  for (const chart of charts || []) {
    new Chart(document.getElementById(chart.id), {
      type: chart.type,
      data: chart.data,
      options: chart.options || {},
    });
  }
</script>
{{- end}}
</body>
</html>
`))

// Payroll renders the payroll view; the markup depends on the status of
// the view: loading, failed or loaded
func Payroll(page Page) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return payrollTmpl.Execute(w, page)
	})
}
