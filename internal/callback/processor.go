// Package callback consumes the state events the editing server posts back
// and persists edited content when an event indicates a completed save.
package callback

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dmitrijs2005/docbridge/internal/common"
	"github.com/dmitrijs2005/docbridge/internal/dockey"
	"github.com/dmitrijs2005/docbridge/internal/logging"
	"github.com/dmitrijs2005/docbridge/internal/storage"
	"github.com/dmitrijs2005/docbridge/internal/token"
)

// Fetcher retrieves edited document content from the URL supplied in a save
// callback.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// HTTPFetcher is the production Fetcher: a plain GET with a bounded timeout
// so a stuck editing server cannot block unrelated requests.
type HTTPFetcher struct {
	client *http.Client
}

func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{client: &http.Client{Timeout: timeout}}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrUpstreamFetchFailed, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrUpstreamFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", common.ErrUpstreamFetchFailed, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", common.ErrUpstreamFetchFailed, err)
	}
	return data, nil
}

// Processor handles inbound callback events. It is stateless: the editing
// server is the source of truth for session state, each event carries its
// own status.
type Processor struct {
	tokens          *token.Service
	store           *storage.FileStorage
	fetcher         Fetcher
	defaultFileType string
	logger          logging.Logger
}

func NewProcessor(tokens *token.Service, store *storage.FileStorage, fetcher Fetcher, defaultFileType string, logger logging.Logger) *Processor {
	if defaultFileType == "" {
		defaultFileType = "docx"
	}
	return &Processor{
		tokens:          tokens,
		store:           store,
		fetcher:         fetcher,
		defaultFileType: defaultFileType,
		logger:          logger,
	}
}

// Process verifies the event's token if one is present, then dispatches on
// its status. Absence of a token is tolerated (some deployments disable
// signing); presence of an invalid one fails the whole event before anything
// else happens. Save-triggering statuses fetch the content and persist it;
// there are no internal retries, redelivery is the editing server's job.
func (p *Processor) Process(ctx context.Context, ev *Event) error {
	if ev.Token != "" {
		if _, err := p.tokens.Verify(ev.Token); err != nil {
			p.logger.Warn(ctx, "callback token rejected", "key", ev.Key, "reason", err.Error())
			return fmt.Errorf("%w: %v", common.ErrUnauthorized, err)
		}
	}

	switch ev.Status {
	case StatusReadyForSaving, StatusForceSaved:
		return p.save(ctx, ev)
	case StatusEditing, StatusPendingSave:
		p.logger.Debug(ctx, "document in progress", "key", ev.Key, "status", ev.Status.String())
		return nil
	case StatusClosed:
		p.logger.Debug(ctx, "document closed without changes", "key", ev.Key)
		return nil
	case StatusSaveError, StatusForceSaveError:
		p.logger.Error(ctx, "editing server reported save error", "key", ev.Key, "status", ev.Status.String())
		return nil
	default:
		p.logger.Debug(ctx, "unrecognized callback status", "key", ev.Key, "status", int(ev.Status))
		return nil
	}
}

func (p *Processor) save(ctx context.Context, ev *Event) error {
	if ev.URL == "" {
		return fmt.Errorf("%w: save callback carries no document url", common.ErrUpstreamFetchFailed)
	}

	id, err := dockey.Decode(ev.Key)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrUnresolvableDocument, err)
	}

	fileType := ev.FileType
	if fileType == "" {
		fileType = p.defaultFileType
	}

	// Fetch before touching storage: no lock is held across the network call.
	data, err := p.fetcher.Fetch(ctx, ev.URL)
	if err != nil {
		return err
	}

	if err := p.store.WriteAtomic(id, fileType, bytes.NewReader(data)); err != nil {
		return err
	}

	p.logger.Info(ctx, "document saved", "id", id, "fileType", fileType, "status", ev.Status.String(), "bytes", len(data))
	return nil
}
