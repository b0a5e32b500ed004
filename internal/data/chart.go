package data

const (
	ChartTypeDoughnut string = "doughnut"
	ChartTypeBar      string = "bar"
)

// Chart is shaped so that Type, Data and Options can be handed
// to Chart.js as is
type Chart struct {
	Id      string        `json:"id"`
	Type    string        `json:"type"`
	Title   string        `json:"title"`
	Data    ChartData     `json:"data"`
	Options *ChartOptions `json:"options,omitempty"`
}

type ChartData struct {
	Labels   []string       `json:"labels"`
	Datasets []ChartDataset `json:"datasets"`
}

type ChartDataset struct {
	Label                string    `json:"label,omitempty"`
	Data                 []float64 `json:"data"`
	BackgroundColor      []string  `json:"backgroundColor,omitempty"`
	HoverBackgroundColor []string  `json:"hoverBackgroundColor,omitempty"`
}

type ChartOptions struct {
	MaintainAspectRatio *bool `json:"maintainAspectRatio,omitempty"`
}
