package models

// User is a reseller customer account as listed by the backend.
type User struct {
	ID            ID     `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Status        int    `json:"status"`
	WabaID        ID     `json:"waba_id"`
	PhoneNumberID ID     `json:"phone_number_id"`
}

func (u User) Active() bool {
	return u.Status == 1
}

// NewUser is the insert-user payload.
type NewUser struct {
	Email         string `json:"email"`
	Password      string `json:"password"`
	Name          string `json:"name"`
	WaPricing     int    `json:"wa_pricing"`
	Balance       int    `json:"balance"`
	WabaID        string `json:"waba_id"`
	PhoneNumberID string `json:"phone_number_id"`
	Status        int    `json:"status"`
	Role          string `json:"role"`
}

// EmbeddedUser is a phone number onboarded through embedded signup,
// offered when creating a user to fill the WABA and phone-number ids.
type EmbeddedUser struct {
	ID          ID     `json:"id"`
	WabaID      string `json:"waba_id"`
	NumberID    string `json:"number_id"`
	PhoneNumber string `json:"phone_number"`
}

// PricingOption carries per-category per-message rates.
type PricingOption struct {
	PricingID      ID     `json:"pricing_id"`
	Marketing      string `json:"marketing"`
	Utility        string `json:"utility"`
	Authentication string `json:"authentication"`
}
