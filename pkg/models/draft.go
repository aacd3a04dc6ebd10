package models

// DraftOrigin records whether the reply text is still the generated
// suggestion or has been changed by the user.
type DraftOrigin string

const (
	OriginGenerated DraftOrigin = "generated"
	OriginEdited    DraftOrigin = "edited"
)

// DraftStatus is the lifecycle state of a reply draft.
type DraftStatus string

const (
	StatusIdle       DraftStatus = "idle"
	StatusGenerating DraftStatus = "generating"
	StatusReady      DraftStatus = "ready"
	StatusEditing    DraftStatus = "editing"
	StatusSending    DraftStatus = "sending"
	StatusSent       DraftStatus = "sent"
)

// ReplyDraft is the mutable reply for one open reply screen. Drafts are not
// durable: one is created when the screen opens and discarded when it closes
// or the send succeeds.
type ReplyDraft struct {
	ForEmailID string      `json:"for_email_id"`
	Text       string      `json:"text"`
	Origin     DraftOrigin `json:"origin"`
	Status     DraftStatus `json:"status"`
}
