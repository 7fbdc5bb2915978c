// Package session composes document-session descriptors for the editing
// server: document locator, permissions, editor settings and the signed
// token covering the security-relevant subset.
package session

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/docbridge/internal/common"
	"github.com/dmitrijs2005/docbridge/internal/dockey"
	"github.com/dmitrijs2005/docbridge/internal/logging"
	"github.com/dmitrijs2005/docbridge/internal/storage"
	"github.com/dmitrijs2005/docbridge/internal/token"
)

const (
	ModeEdit = "edit"
	ModeView = "view"

	DefaultFileType = "docx"
)

// Request carries the session parameters from the transport layer.
// FileType defaults to docx, Mode to edit, the user to an anonymous
// placeholder.
type Request struct {
	DocumentID string
	FileType   string
	UserID     string
	UserName   string
	Mode       string
}

// Options are the externally configured addresses and editor settings the
// builder needs.
type Options struct {
	// BaseURL is the backend address the editing server can reach, used
	// for both the callback endpoint and document download URLs.
	BaseURL string
	Lang    string
}

type Builder struct {
	store  *storage.FileStorage
	tokens *token.Service
	opts   Options
	logger logging.Logger
}

func NewBuilder(store *storage.FileStorage, tokens *token.Service, opts Options, logger logging.Logger) *Builder {
	return &Builder{store: store, tokens: tokens, opts: opts, logger: logger}
}

// Build composes the session descriptor for a stored document and signs the
// document/editorConfig/documentType subset. Width, height and the token
// field itself are never part of the signed payload.
func (b *Builder) Build(ctx context.Context, req Request) (*Config, error) {
	fileType := req.FileType
	if fileType == "" {
		fileType = DefaultFileType
	}
	mode := req.Mode
	if mode != ModeView {
		mode = ModeEdit
	}

	if !b.store.Exists(req.DocumentID, fileType) {
		return nil, fmt.Errorf("%w: %s.%s", common.ErrDocumentNotFound, req.DocumentID, fileType)
	}

	lastModified, err := b.store.LastModified(req.DocumentID, fileType)
	if err != nil {
		return nil, err
	}

	key, err := dockey.Encode(req.DocumentID, lastModified)
	if err != nil {
		return nil, err
	}

	userID := req.UserID
	if userID == "" {
		userID = "anonymous"
	}
	userName := req.UserName
	if userName == "" {
		userName = "Anonymous"
	}

	cfg := &Config{
		Document: Document{
			FileType: fileType,
			Key:      key,
			Title:    req.DocumentID + "." + fileType,
			URL:      b.downloadURL(req.DocumentID, fileType),
			Permissions: Permissions{
				Download:  true,
				Edit:      mode == ModeEdit,
				Print:     true,
				Review:    true,
				Comment:   true,
				FillForms: true,
			},
		},
		EditorConfig: EditorConfig{
			CallbackURL: strings.TrimSuffix(b.opts.BaseURL, "/") + "/api/office/callback",
			Lang:        b.opts.Lang,
			Mode:        mode,
			User:        User{ID: userID, Name: userName},
			Customization: Customization{
				Autosave:       true,
				Forcesave:      true,
				Chat:           false,
				Comments:       true,
				Help:           true,
				CompactToolbar: false,
			},
		},
		DocumentType: DocumentTypeFor(fileType),
		Width:        "100%",
		Height:       "100%",
	}

	if mode == ModeView {
		cfg.Document.Permissions = Permissions{Download: true, Print: true}
	}

	signed, err := b.tokens.Sign(map[string]any{
		"document":     cfg.Document,
		"editorConfig": cfg.EditorConfig,
		"documentType": cfg.DocumentType,
	})
	if err != nil {
		return nil, fmt.Errorf("sign session config: %w", err)
	}
	cfg.Token = signed

	b.logger.Info(ctx, "built session config", "id", req.DocumentID, "key", key, "mode", mode)

	return cfg, nil
}

func (b *Builder) downloadURL(id, fileType string) string {
	name := url.PathEscape(id + "." + fileType)
	return strings.TrimSuffix(b.opts.BaseURL, "/") + "/uploads/" + name
}

// DocumentTypeFor classifies a file extension into the editor's three
// document kinds. Unknown extensions fall back to "word".
func DocumentTypeFor(fileType string) string {
	switch strings.ToLower(fileType) {
	case "xlsx", "xls", "ods", "csv":
		return "cell"
	case "pptx", "ppt", "odp":
		return "slide"
	default:
		return "word"
	}
}
