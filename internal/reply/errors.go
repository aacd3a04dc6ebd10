package reply

import (
	"errors"
	"fmt"

	"github.com/Alipio135/dropmail-ai-reply-55/pkg/models"
)

// ErrClosed is returned once the workflow is torn down: the screen was
// navigated away from or the reply was already sent.
var ErrClosed = errors.New("workflow closed")

// ErrEmptyDraft is returned when sending whitespace-only text. The send
// call is never issued.
var ErrEmptyDraft = errors.New("draft text is empty")

// ErrStaleResult marks a remote response that arrived after the workflow
// lost interest in it. The draft was not touched.
var ErrStaleResult = errors.New("stale result discarded")

// StateError reports an operation attempted in a status that forbids it,
// e.g. a second send while one is in flight.
type StateError struct {
	Op     string
	Status models.DraftStatus
}

func (e *StateError) Error() string {
	return fmt.Sprintf("cannot %s while draft is %s", e.Op, e.Status)
}
