package models

// Campaign is a message template campaign owned by a user.
type Campaign struct {
	ID                   ID      `json:"id"`
	Name                 string  `json:"name"`
	Description          string  `json:"description"`
	CreatedAt            string  `json:"created_at"`
	Platform             string  `json:"platform"`
	Status               *string `json:"status"`
	WhatsAppTemplateName *string `json:"whatsapp_template_name"`
}

// SearchResult is one campaign delivery found for a phone number.
type SearchResult struct {
	CampaignID     ID      `json:"campaign_id"`
	TemplateName   string  `json:"template_name"`
	Status         string  `json:"status"`
	SentAt         string  `json:"sent_at"`
	UpdatedAt      string  `json:"updated_at"`
	WaTemplateName *string `json:"wa_template_name"`
}
