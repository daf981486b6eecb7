package ledger

import (
	"sort"
	"strings"
	"time"

	"waba-admin/pkg/models"

	"github.com/shopspring/decimal"
)

const (
	SourceServer   = "server"
	SourceDerived  = "derived"
	SourceBackend  = "backend"
	SourceComputed = "computed"
)

// Sum adds up payments by transaction type. Unknown types are ignored.
func Sum(payments []models.Payment) models.Totals {
	totals := models.Totals{Credit: decimal.Zero, Debit: decimal.Zero, Refund: decimal.Zero}
	for _, p := range payments {
		switch strings.ToLower(p.TransactionType) {
		case models.TransactionCredit:
			totals.Credit = totals.Credit.Add(p.Amount)
		case models.TransactionDebit:
			totals.Debit = totals.Debit.Add(p.Amount)
		case models.TransactionRefund:
			totals.Refund = totals.Refund.Add(p.Amount)
		}
	}
	return totals
}

// Available is credit - debit + refund.
func Available(t models.Totals) decimal.Decimal {
	return t.Credit.Sub(t.Debit).Add(t.Refund)
}

// Summary is the balance panel of a user. Totals and balance each come
// from exactly one source, recorded next to the figure.
type Summary struct {
	Totals        models.Totals   `json:"totals"`
	TotalsSource  string          `json:"totals_source"`
	Balance       decimal.Decimal `json:"balance"`
	BalanceSource string          `json:"balance_source"`
	CrossCheck    decimal.Decimal `json:"cross_check"`
	Mismatch      bool            `json:"mismatch"`
}

// Summarize prefers server totals over totals derived from payments and
// the backend balance over the computed one. The computed balance is kept
// as a cross-check only.
func Summarize(serverTotals *models.Totals, payments []models.Payment, balance *decimal.Decimal) Summary {
	s := Summary{}
	if serverTotals != nil {
		s.Totals = *serverTotals
		s.TotalsSource = SourceServer
	} else {
		s.Totals = Sum(payments)
		s.TotalsSource = SourceDerived
	}

	s.CrossCheck = Available(s.Totals)
	if balance != nil {
		s.Balance = *balance
		s.BalanceSource = SourceBackend
		s.Mismatch = !s.Balance.Equal(s.CrossCheck)
	} else {
		s.Balance = s.CrossCheck
		s.BalanceSource = SourceComputed
	}
	return s
}

// Point is one day of the transaction chart.
type Point struct {
	Date   string  `json:"date"`
	Credit float64 `json:"credit"`
	Debit  float64 `json:"debit"`
	Refund float64 `json:"refund"`
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.000Z",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseDate reads the backend's payment_date formats.
func ParseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// Series turns payments into one point per UTC day, oldest first.
// Payments with an unreadable date are skipped.
func Series(payments []models.Payment) []Point {
	byDay := map[string]*models.Totals{}
	for _, p := range payments {
		t, ok := ParseDate(p.PaymentDate)
		if !ok {
			continue
		}
		day := t.Format("2006-01-02")
		if _, exists := byDay[day]; !exists {
			byDay[day] = &models.Totals{}
		}
		sum := Sum([]models.Payment{p})
		totals := byDay[day]
		totals.Credit = totals.Credit.Add(sum.Credit)
		totals.Debit = totals.Debit.Add(sum.Debit)
		totals.Refund = totals.Refund.Add(sum.Refund)
	}

	points := make([]Point, 0, len(byDay))
	for day, totals := range byDay {
		points = append(points, Point{
			Date:   day,
			Credit: totals.Credit.InexactFloat64(),
			Debit:  totals.Debit.InexactFloat64(),
			Refund: totals.Refund.InexactFloat64(),
		})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date < points[j].Date })
	return points
}

// FormatINR renders an amount with the rupee sign and Indian digit grouping.
func FormatINR(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	fixed := d.StringFixed(2)
	intPart, frac := fixed[:len(fixed)-3], fixed[len(fixed)-3:]

	var grouped string
	if len(intPart) <= 3 {
		grouped = intPart
	} else {
		head, tail := intPart[:len(intPart)-3], intPart[len(intPart)-3:]
		var parts []string
		for len(head) > 2 {
			parts = append([]string{head[len(head)-2:]}, parts...)
			head = head[:len(head)-2]
		}
		if head != "" {
			parts = append([]string{head}, parts...)
		}
		grouped = strings.Join(parts, ",") + "," + tail
	}
	return sign + "₹" + grouped + frac
}
