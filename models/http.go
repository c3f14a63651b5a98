package models

// Email is a composed outbound message ready for a mail transport.
type Email struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
	HTML    string `json:"html"`
}

// WebhookAck is the body returned to the payment provider after a
// webhook was accepted.
type WebhookAck struct {
	Received bool `json:"received"`
}
