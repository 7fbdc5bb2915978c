package session

// Config is the document-session descriptor handed to the editing client.
// Field names follow the editor's wire format.
type Config struct {
	Document     Document     `json:"document"`
	EditorConfig EditorConfig `json:"editorConfig"`
	DocumentType string       `json:"documentType"`
	Width        string       `json:"width"`
	Height       string       `json:"height"`
	Token        string       `json:"token"`
}

type Document struct {
	FileType    string      `json:"fileType"`
	Key         string      `json:"key"`
	Title       string      `json:"title"`
	URL         string      `json:"url"`
	Permissions Permissions `json:"permissions"`
}

type Permissions struct {
	Download  bool `json:"download"`
	Edit      bool `json:"edit"`
	Print     bool `json:"print"`
	Review    bool `json:"review"`
	Comment   bool `json:"comment"`
	FillForms bool `json:"fillForms"`
}

type EditorConfig struct {
	CallbackURL   string        `json:"callbackUrl"`
	Lang          string        `json:"lang"`
	Mode          string        `json:"mode"`
	User          User          `json:"user"`
	Customization Customization `json:"customization"`
}

type User struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Customization struct {
	Autosave       bool `json:"autosave"`
	Forcesave      bool `json:"forcesave"`
	Chat           bool `json:"chat"`
	Comments       bool `json:"comments"`
	Help           bool `json:"help"`
	CompactToolbar bool `json:"compactToolbar"`
}
