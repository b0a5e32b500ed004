// Package charts holds the two summary charts shown beside the employee
// table; they're sample data and aren't derived from the employees
package charts

import "github.com/antonio-alexander/go-employee-payroll/internal/data"

const (
	ChartIdRoles       string = "employee_roles"
	ChartIdSalaryRange string = "salary_range"
)

// Charts returns a fresh copy of the static charts on every call
func Charts() []*data.Chart {
	maintainAspectRatio := false
	return []*data.Chart{
		{
			Id:    ChartIdRoles,
			Type:  data.ChartTypeDoughnut,
			Title: "Employee Roles Distribution",
			Data: data.ChartData{
				Labels: []string{"Developer", "Designer", "Manager", "Sales"},
				Datasets: []data.ChartDataset{
					{
						Data:                 []float64{30, 20, 25, 25},
						BackgroundColor:      []string{"#FF6384", "#36A2EB", "#FFCE56", "#4BC0C0"},
						HoverBackgroundColor: []string{"#FF6384", "#36A2EB", "#FFCE56", "#4BC0C0"},
					},
				},
			},
		},
		{
			Id:    ChartIdSalaryRange,
			Type:  data.ChartTypeBar,
			Title: "Salary Range of Employees",
			Data: data.ChartData{
				Labels: []string{"30k", "30k-50k", "50k-70k", "70k-100k"},
				Datasets: []data.ChartDataset{
					{
						Label:           "Number of Employees",
						Data:            []float64{10, 25, 15, 5},
						BackgroundColor: []string{"#36A2EB"},
					},
				},
			},
			Options: &data.ChartOptions{
				MaintainAspectRatio: &maintainAspectRatio,
			},
		},
	}
}
