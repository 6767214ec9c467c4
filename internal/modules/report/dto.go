package report

type ReportQuery struct {
	StartDate string `form:"startDate"`
	EndDate   string `form:"endDate"`
	Type      string `form:"type"`
}

type TypeCount struct {
	Type    string  `json:"type"`
	Count   int64   `json:"count"`
	Revenue float64 `json:"revenue"`
}

type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// Report is never partially empty: missing data yields zeros and empty lists.
type Report struct {
	ByType        []TypeCount   `json:"byType"`
	ByStatus      []StatusCount `json:"byStatus"`
	Revenue       float64       `json:"revenue"`
	AvgTurnaround float64       `json:"avgTurnaround"`
	TotalServicos int64         `json:"totalServicos"`
}
