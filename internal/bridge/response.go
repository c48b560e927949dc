package bridge

import "github.com/garrettladley/fitgate/internal/gateway"

type response struct {
	Result any      `json:"result"`
	Errors []string `json:"errors,omitempty"`
}

type deleteResponse struct {
	Result  bool `json:"result"`
	Deleted int  `json:"deleted"`
}

type healthResponse struct {
	Status string `json:"status"`
}

type dailyTotal struct {
	Date  int64   `json:"date"`
	Value float64 `json:"value"`
}

type record struct {
	DataType  string  `json:"dataType"`
	StartDate int64   `json:"startDate"`
	EndDate   int64   `json:"endDate"`
	Value     float64 `json:"value"`
	Source    string  `json:"source"`
}

func toDailyTotals(totals []gateway.DailyTotal) []dailyTotal {
	out := make([]dailyTotal, len(totals))
	for i, t := range totals {
		out[i] = dailyTotal{Date: t.Date.UnixMilli(), Value: t.Value}
	}
	return out
}

// toRecord keeps a missing record as JSON null.
func toRecord(r *gateway.Record) *record {
	if r == nil {
		return nil
	}
	return &record{
		DataType:  string(r.Kind),
		StartDate: r.Start.UnixMilli(),
		EndDate:   r.End.UnixMilli(),
		Value:     r.Value,
		Source:    r.Source,
	}
}
