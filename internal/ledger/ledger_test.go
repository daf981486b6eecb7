package ledger

import (
	"testing"

	"waba-admin/pkg/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func payment(kind, amount, date string) models.Payment {
	return models.Payment{
		TransactionType: kind,
		Amount:          decimal.RequireFromString(amount),
		PaymentDate:     date,
	}
}

func TestAvailableFromServerTotals(t *testing.T) {
	totals := models.Totals{
		Credit: decimal.RequireFromString("100.00"),
		Debit:  decimal.RequireFromString("40.00"),
		Refund: decimal.RequireFromString("10.00"),
	}

	assert.Equal(t, "70.00", Available(totals).StringFixed(2))
}

func TestSumByType(t *testing.T) {
	totals := Sum([]models.Payment{
		payment("credit", "100.00", "2025-03-01"),
		payment("debit", "25.50", "2025-03-01"),
		payment("DEBIT", "14.50", "2025-03-02"),
		payment("refund", "10", "2025-03-03"),
		payment("bonus", "999", "2025-03-03"),
	})

	assert.True(t, totals.Credit.Equal(decimal.NewFromInt(100)))
	assert.True(t, totals.Debit.Equal(decimal.NewFromInt(40)))
	assert.True(t, totals.Refund.Equal(decimal.NewFromInt(10)))
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil, []models.Payment{}, nil)

	assert.True(t, s.Totals.Credit.IsZero())
	assert.True(t, s.Totals.Debit.IsZero())
	assert.True(t, s.Totals.Refund.IsZero())
	assert.True(t, s.Balance.IsZero())
	assert.Equal(t, SourceDerived, s.TotalsSource)
	assert.Equal(t, SourceComputed, s.BalanceSource)
}

func TestSummarizeNeverMixesSources(t *testing.T) {
	server := &models.Totals{
		Credit: decimal.RequireFromString("500"),
		Debit:  decimal.RequireFromString("100"),
		Refund: decimal.Zero,
	}
	page := []models.Payment{payment("credit", "20", "2025-03-01")}
	balance := decimal.RequireFromString("390")

	s := Summarize(server, page, &balance)

	assert.Equal(t, SourceServer, s.TotalsSource)
	assert.True(t, s.Totals.Credit.Equal(decimal.NewFromInt(500)))
	assert.Equal(t, SourceBackend, s.BalanceSource)
	assert.True(t, s.Balance.Equal(decimal.NewFromInt(390)))
	assert.True(t, s.CrossCheck.Equal(decimal.NewFromInt(400)))
	assert.True(t, s.Mismatch)
}

func TestSeriesGroupsByDay(t *testing.T) {
	points := Series([]models.Payment{
		payment("debit", "5", "2025-03-02T09:00:00Z"),
		payment("credit", "100", "2025-03-01T10:00:00.000Z"),
		payment("credit", "50", "2025-03-01 18:30:00"),
		payment("refund", "2", "2025-03-02"),
		payment("credit", "1", "not a date"),
	})

	require.Len(t, points, 2)
	assert.Equal(t, Point{Date: "2025-03-01", Credit: 150}, points[0])
	assert.Equal(t, Point{Date: "2025-03-02", Debit: 5, Refund: 2}, points[1])
}

func TestFormatINR(t *testing.T) {
	assert.Equal(t, "₹0.00", FormatINR(decimal.Zero))
	assert.Equal(t, "₹70.00", FormatINR(decimal.RequireFromString("70")))
	assert.Equal(t, "₹1,234.50", FormatINR(decimal.RequireFromString("1234.5")))
	assert.Equal(t, "₹12,34,567.89", FormatINR(decimal.RequireFromString("1234567.89")))
	assert.Equal(t, "-₹500.00", FormatINR(decimal.RequireFromString("-500")))
}
