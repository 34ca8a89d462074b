package importer

import "github.com/google/uuid"

const (
	MsgClientNotSelected = "Client not selected"
	MsgNoItems           = "No valid items found"
	MsgIssueDateRequired = "Issue date required"
	MsgDueDateRequired   = "Due date required"
)

// Revalidate computes the complete error list for a record from its current state.
// The filename problem only counts while no issue date has been supplied.
func Revalidate(r *FileRecord, globalClient uuid.UUID) []string {
	var errs []string

	if r.parseProblem != "" {
		errs = append(errs, r.parseProblem)
	}

	if r.IssueDate == nil && r.filenameProblem != "" {
		errs = append(errs, r.filenameProblem)
	}

	if r.ClientID == uuid.Nil && globalClient == uuid.Nil {
		errs = append(errs, MsgClientNotSelected)
	}

	if len(r.Items) == 0 {
		errs = append(errs, MsgNoItems)
	}

	if r.IssueDate == nil {
		errs = append(errs, MsgIssueDateRequired)
	}

	if r.DueDate == nil {
		errs = append(errs, MsgDueDateRequired)
	}

	return errs
}

func (r *FileRecord) revalidate(globalClient uuid.UUID) {
	r.Errors = Revalidate(r, globalClient)
	if len(r.Errors) > 0 {
		r.Status = StatusError
	} else {
		r.Status = StatusPending
	}
}
