package logic

import (
	"strings"

	"github.com/antonio-alexander/go-employee-payroll/internal/data"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"golang.org/x/text/cases"
)

// Matches reports whether the employee's full name contains the search
// term ignoring case; in fuzzy mode the characters of the term only have
// to appear in order
func Matches(employee *data.Employee, search data.EmployeeSearch) bool {
	fullName := employee.FullName()
	if search.Fuzzy {
		return fuzzy.MatchFold(search.Term, fullName)
	}
	caser := cases.Fold()
	return strings.Contains(caser.String(fullName), caser.String(search.Term))
}

// Filter returns the employees matching search, preserving their order;
// an empty term matches every employee
func Filter(employees []*data.Employee, search data.EmployeeSearch) []*data.Employee {
	filtered := make([]*data.Employee, 0, len(employees))
	for _, employee := range employees {
		if Matches(employee, search) {
			filtered = append(filtered, data.CopyEmployee(employee))
		}
	}
	return filtered
}
