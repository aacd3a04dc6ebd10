package models

// Session is the authenticated user's state. Exactly one instance exists
// process-wide, or none when logged out. It is owned by the auth service and
// only ever mutated through its operations.
type Session struct {
	Email            string `json:"email"`
	DisplayName      string `json:"display_name,omitempty"`
	MailboxConnected bool   `json:"mailbox_connected"`
}
