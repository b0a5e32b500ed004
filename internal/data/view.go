package data

type ViewStatus string

const (
	ViewStatusLoading ViewStatus = "loading"
	ViewStatusLoaded  ViewStatus = "loaded"
	ViewStatusFailed  ViewStatus = "failed"
)

// View is the state of a single mounted payroll view
type View struct {
	ViewId       string      `json:"view_id"`
	Status       ViewStatus  `json:"status"`
	Error        string      `json:"error,omitempty"`
	Employees    []*Employee `json:"employees,omitempty"`
	Search       string      `json:"search,omitempty"`
	Created      int64       `json:"created"`
	LastAccessed int64       `json:"last_accessed"`
}

func CopyView(v *View) *View {
	view := &View{}
	*view = *v
	view.Employees = CopyEmployees(v.Employees)
	return view
}
