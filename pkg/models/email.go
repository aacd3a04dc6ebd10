package models

import "time"

// Sender identifies who sent an email.
type Sender struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// EmailMessage is an immutable inbox message. Identity is ID; the client
// never mutates these records.
type EmailMessage struct {
	ID         string    `json:"id"`
	Subject    string    `json:"subject"`
	Sender     Sender    `json:"sender"`
	ReceivedAt time.Time `json:"received_at"`
	Body       string    `json:"body"`
	Preview    string    `json:"preview"`
}
