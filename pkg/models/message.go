package models

// IncomingMessage is a message received on one of a user's numbers.
type IncomingMessage struct {
	ID          ID      `json:"id"`
	ContactName string  `json:"contact_name"`
	WaID        string  `json:"wa_id"`
	MessageType string  `json:"message_type"`
	MessageBody string  `json:"message_body"`
	MediaID     *string `json:"media_id"`
	MimeType    *string `json:"mime_type"`
	Timestamp   string  `json:"timestamp"`
	Filename    *string `json:"filename"`
}
