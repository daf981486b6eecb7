package insights

import (
	"bytes"
	"text/template"
)

// Metrics is the fixed-shape analytics snapshot shown on the dashboard.
type Metrics struct {
	TotalSent int     `json:"totalSent"`
	Delivered int     `json:"delivered"`
	Read      int     `json:"read"`
	Failed    int     `json:"failed"`
	Pending   int     `json:"pending"`
	Today     float64 `json:"today"`
	Yesterday float64 `json:"yesterday"`
	ThisMonth float64 `json:"thisMonth"`
}

type MessageAnalytics struct {
	TotalSent int `json:"totalSent"`
	Delivered int `json:"delivered"`
	Read      int `json:"read"`
	Failed    int `json:"failed"`
	Pending   int `json:"pending"`
}

type EarningsData struct {
	Today     float64 `json:"today"`
	Yesterday float64 `json:"yesterday"`
	ThisMonth float64 `json:"thisMonth"`
}

// Request is the payload handed to the summarizer.
type Request struct {
	MessageAnalytics MessageAnalytics `json:"messageAnalytics"`
	EarningsData     EarningsData     `json:"earningsData"`
}

func NewRequest(m Metrics) Request {
	return Request{
		MessageAnalytics: MessageAnalytics{
			TotalSent: m.TotalSent,
			Delivered: m.Delivered,
			Read:      m.Read,
			Failed:    m.Failed,
			Pending:   m.Pending,
		},
		EarningsData: EarningsData{
			Today:     m.Today,
			Yesterday: m.Yesterday,
			ThisMonth: m.ThisMonth,
		},
	}
}

// Metrics flattens the request back into the snapshot it was built from.
func (r Request) Metrics() Metrics {
	return Metrics{
		TotalSent: r.MessageAnalytics.TotalSent,
		Delivered: r.MessageAnalytics.Delivered,
		Read:      r.MessageAnalytics.Read,
		Failed:    r.MessageAnalytics.Failed,
		Pending:   r.MessageAnalytics.Pending,
		Today:     r.EarningsData.Today,
		Yesterday: r.EarningsData.Yesterday,
		ThisMonth: r.EarningsData.ThisMonth,
	}
}

var promptTemplate = template.Must(template.New("summary").Parse(`You are an AI assistant that summarizes key insights from message analytics and earnings data.

Message Analytics:
- Total Messages Sent: {{.MessageAnalytics.TotalSent}}
- Delivered: {{.MessageAnalytics.Delivered}}
- Read: {{.MessageAnalytics.Read}}
- Failed: {{.MessageAnalytics.Failed}}
- Pending: {{.MessageAnalytics.Pending}}

Earnings Data:
- Today: {{.EarningsData.Today}}
- Yesterday: {{.EarningsData.Yesterday}}
- This Month: {{.EarningsData.ThisMonth}}

Provide a concise summary of the key insights from the above data. Focus on significant changes, trends, and potential issues.
`))

func Prompt(req Request) (string, error) {
	var buf bytes.Buffer
	if err := promptTemplate.Execute(&buf, req); err != nil {
		return "", err
	}
	return buf.String(), nil
}
