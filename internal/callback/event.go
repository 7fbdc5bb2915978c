package callback

// Status is the document state reported by the editing server with each
// callback. The set is closed; Process matches it exhaustively so an
// unexpected code is a visible gap, not a silent fallthrough.
type Status int

const (
	StatusEditing        Status = 0 // document is being edited
	StatusPendingSave    Status = 1 // document is ready for saving soon
	StatusReadyForSaving Status = 2 // edited content is ready to fetch
	StatusSaveError      Status = 3 // upstream save error
	StatusClosed         Status = 4 // closed with no modification
	StatusForceSaved     Status = 6 // force-save checkpoint, content ready
	StatusForceSaveError Status = 7 // force-save error
)

func (s Status) String() string {
	switch s {
	case StatusEditing:
		return "editing"
	case StatusPendingSave:
		return "pending-save"
	case StatusReadyForSaving:
		return "ready-for-saving"
	case StatusSaveError:
		return "save-error"
	case StatusClosed:
		return "closed"
	case StatusForceSaved:
		return "force-saved"
	case StatusForceSaveError:
		return "force-save-error"
	default:
		return "unknown"
	}
}

// Event is the callback payload posted by the editing server. Unknown JSON
// fields are ignored; the event is consumed once and never persisted.
type Event struct {
	Status        Status   `json:"status"`
	Key           string   `json:"key"`
	URL           string   `json:"url"`
	ChangesURL    string   `json:"changesurl"`
	Token         string   `json:"token"`
	History       *History `json:"history"`
	Users         []string `json:"users"`
	Actions       []Action `json:"actions"`
	LastSave      string   `json:"lastsave"`
	NotModified   *bool    `json:"notmodified"`
	FileType      string   `json:"filetype"`
	ForceSaveType *int     `json:"forcesavetype"`
}

// History describes the change log the editing server attaches to final
// save callbacks.
type History struct {
	ServerVersion string   `json:"serverVersion"`
	Changes       []Change `json:"changes"`
}

type Change struct {
	Created string     `json:"created"`
	User    ChangeUser `json:"user"`
}

type ChangeUser struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Action describes a user connect/disconnect/force-save action.
type Action struct {
	Type   int    `json:"type"`
	UserID string `json:"userid"`
}
