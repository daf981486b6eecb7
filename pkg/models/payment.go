package models

import "github.com/shopspring/decimal"

const (
	TransactionCredit = "credit"
	TransactionDebit  = "debit"
	TransactionRefund = "refund"
)

// Payment is one ledger entry of a user's prepaid balance history.
type Payment struct {
	PaymentID       ID              `json:"payment_id"`
	UserID          ID              `json:"user_id"`
	PaymentMethod   string          `json:"payment_method"`
	PaymentDate     string          `json:"payment_date"`
	TransactionType string          `json:"transaction_type"`
	Amount          decimal.Decimal `json:"amount"`
	CampaignID      ID              `json:"campaign_id"`
}

// Totals are the per-type sums of a user's payments.
type Totals struct {
	Credit decimal.Decimal `json:"credit"`
	Debit  decimal.Decimal `json:"debit"`
	Refund decimal.Decimal `json:"refund"`
}
