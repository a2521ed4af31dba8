// Package panels holds the read models of the presentational view panels.
package panels

type MetricCard struct {
	Label  string `json:"label"`
	Value  any    `json:"value"`
	Unit   string `json:"unit"`
	Status string `json:"status"`
	Color  string `json:"color"`
}

type TrendPoint struct {
	Time   string `json:"name"`
	Heart  int    `json:"heart"`
	Stress int    `json:"stress"`
}

type AnalysisItem struct {
	Organ  string `json:"organ"`
	Status string `json:"status"`
	Detail string `json:"detail"`
	Score  int    `json:"score"`
}

type Dashboard struct {
	Metrics  []MetricCard   `json:"metrics"`
	Trends   []TrendPoint   `json:"trends"`
	Analysis []AnalysisItem `json:"analysis"`
	Scan     *ScanSummary   `json:"scan,omitempty"`
}

var trends = []TrendPoint{
	{"08:00", 65, 20},
	{"10:00", 72, 45},
	{"12:00", 85, 30},
	{"14:00", 78, 60},
	{"16:00", 74, 40},
	{"18:00", 70, 25},
}

var analysis = []AnalysisItem{
	{Organ: "Lungs", Status: "Normal", Detail: "No signs of congestion or respiratory distress.", Score: 94},
	{Organ: "Skin (External)", Status: "Normal", Detail: "Surface-level analysis via camera shows no UV damage or malignant moles.", Score: 98},
	{Organ: "Liver", Status: "Observation", Detail: "Slightly elevated fat-processing signals. Monitor diet.", Score: 82},
}

// NewDashboard builds the dashboard, reading heart and kidney values from the
// latest scan when one exists.
func NewDashboard(scan *ScanSummary) Dashboard {
	var heart, kidneys any = 72, "98%"
	if scan != nil {
		if scan.Heart.Value != nil {
			heart = scan.Heart.Value
		}
		if scan.Kidneys.Value != nil {
			kidneys = scan.Kidneys.Value
		}
	}
	return Dashboard{
		Metrics: []MetricCard{
			{Label: "Heart Rate", Value: heart, Unit: "BPM", Status: "Stable", Color: "red"},
			{Label: "Kidney Function", Value: kidneys, Status: "Healthy", Color: "blue"},
			{Label: "Hydration", Value: "2.4", Unit: "L", Status: "Good", Color: "cyan"},
		},
		Trends:   append([]TrendPoint(nil), trends...),
		Analysis: append([]AnalysisItem(nil), analysis...),
		Scan:     scan,
	}
}
