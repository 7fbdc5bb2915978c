// Package storage owns the on-disk representation of documents: a single
// flat directory with one file per document named {id}.{fileType}. All other
// components reference documents by id and never touch paths directly.
package storage

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/docbridge/internal/common"
)

// tempMarker tags in-flight write artifacts so listings can skip them.
const tempMarker = "_temp_"

// FileStorage is a path-safe document store rooted at a single directory.
// Writes to one document id are serialized against each other, so overlapping
// saves resolve to an explicit last-write-wins instead of a rename race.
type FileStorage struct {
	root         string
	allowedTypes map[string]struct{}
	maxSize      int64

	// locks maps document id -> *sync.Mutex guarding that id's file.
	locks sync.Map
}

// New resolves and creates the storage root and parses the comma-separated
// allow-list of file extensions.
func New(root string, allowedTypes string, maxSize int64) (*FileStorage, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve storage root: %w", err)
	}

	if err := os.MkdirAll(abs, 0o770); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", abs, err)
	}

	allowed := make(map[string]struct{})
	for _, t := range strings.Split(allowedTypes, ",") {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			allowed[t] = struct{}{}
		}
	}

	return &FileStorage{root: abs, allowedTypes: allowed, maxSize: maxSize}, nil
}

// Root returns the absolute storage root directory.
func (s *FileStorage) Root() string {
	return s.root
}

// Allowed reports whether a file extension is on the configured allow-list.
func (s *FileStorage) Allowed(fileType string) bool {
	_, ok := s.allowedTypes[strings.ToLower(fileType)]
	return ok
}

// Sanitize validates a raw document id against path traversal. The id is
// rejected if it contains "..", a path separator or NUL either before or
// after a single percent-decode. This is the sole gate for ids; every
// operation routes through it.
func (s *FileStorage) Sanitize(raw string) (string, bool) {
	if raw == "" || hasTraversal(raw) {
		return "", false
	}

	decoded, err := url.QueryUnescape(raw)
	if err != nil {
		// Not percent-encoded input; the raw form already passed.
		return raw, true
	}
	if hasTraversal(decoded) || decoded == "" {
		return "", false
	}

	return decoded, true
}

func hasTraversal(id string) bool {
	return strings.Contains(id, "..") ||
		strings.ContainsAny(id, "/\\\x00")
}

// Resolve maps a document id and file type to an absolute path under the
// root. The joined path must remain a descendant of the root even though
// Sanitize already blocks traversal sequences.
func (s *FileStorage) Resolve(id, fileType string) (string, error) {
	safe, ok := s.Sanitize(id)
	if !ok {
		return "", fmt.Errorf("%w: %q", common.ErrInvalidDocumentID, id)
	}
	if fileType == "" || hasTraversal(fileType) || strings.Contains(fileType, ".") {
		return "", fmt.Errorf("%w: bad file type", common.ErrInvalidPath)
	}

	p := filepath.Join(s.root, safe+"."+fileType)
	if !strings.HasPrefix(p, s.root+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: escapes storage root", common.ErrInvalidPath)
	}

	return p, nil
}

// Exists reports whether the document is present. Invalid ids read as absent.
func (s *FileStorage) Exists(id, fileType string) bool {
	p, err := s.Resolve(id, fileType)
	if err != nil {
		return false
	}
	info, err := os.Stat(p)
	return err == nil && info.Mode().IsRegular()
}

// LastModified returns the document's last-modified time in epoch
// milliseconds. This doubles as the version marker for the document key.
func (s *FileStorage) LastModified(id, fileType string) (int64, error) {
	p, err := s.Resolve(id, fileType)
	if err != nil {
		return 0, err
	}

	info, err := os.Stat(p)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, fmt.Errorf("%w: %s.%s", common.ErrDocumentNotFound, id, fileType)
		}
		return 0, fmt.Errorf("%w: stat: %v", common.ErrStorageIO, err)
	}

	return info.ModTime().UnixMilli(), nil
}

// Read returns the document's content.
func (s *FileStorage) Read(id, fileType string) ([]byte, error) {
	p, err := s.FilePath(id, fileType)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("%w: read: %v", common.ErrStorageIO, err)
	}
	return data, nil
}

// FilePath resolves the document and requires it to exist. Download handlers
// serve the returned path; containment is already enforced by Resolve.
func (s *FileStorage) FilePath(id, fileType string) (string, error) {
	p, err := s.Resolve(id, fileType)
	if err != nil {
		return "", err
	}

	if _, err := os.Stat(p); err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s.%s", common.ErrDocumentNotFound, id, fileType)
		}
		return "", fmt.Errorf("%w: stat: %v", common.ErrStorageIO, err)
	}

	return p, nil
}

// List enumerates stored document ids: regular files under the root with an
// allowed extension, excluding temporary write artifacts, without extension.
func (s *FileStorage) List() ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("%w: list: %v", common.ErrStorageIO, err)
	}

	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		name := e.Name()
		if strings.Contains(name, tempMarker) {
			continue
		}
		ext := extension(name)
		if ext == "" || !s.Allowed(ext) {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, "."+ext))
	}

	return ids, nil
}

// Delete removes a stored document.
func (s *FileStorage) Delete(id, fileType string) error {
	p, err := s.FilePath(id, fileType)
	if err != nil {
		return err
	}

	if err := os.Remove(p); err != nil {
		return fmt.Errorf("%w: delete: %v", common.ErrStorageIO, err)
	}
	return nil
}

// WriteAtomic replaces the document's content. The bytes go to a uniquely
// named temp file in the same directory, then an atomic rename over the
// target, so concurrent readers never observe a partial file and a failed
// write leaves any pre-existing target untouched. The per-id mutex is held
// across the temp write and rename; callers must fetch remote content before
// calling so the lock is never held across network I/O.
func (s *FileStorage) WriteAtomic(id, fileType string, r io.Reader) error {
	target, err := s.Resolve(id, fileType)
	if err != nil {
		return err
	}
	safe, _ := s.Sanitize(id)

	mu := s.lockFor(safe)
	mu.Lock()
	defer mu.Unlock()

	tmp := filepath.Join(s.root, safe+tempMarker+uuid.NewString()+"."+fileType)

	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o660)
	if err != nil {
		return fmt.Errorf("%w: create temp file: %v", common.ErrStorageIO, err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("%w: write temp file: %v", common.ErrStorageIO, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%w: close temp file: %v", common.ErrStorageIO, err)
	}

	if err := os.Rename(tmp, target); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%w: rename: %v", common.ErrStorageIO, err)
	}

	return nil
}

// SaveUpload stores a new document from an upload. Extension and size are
// validated before any bytes are written; a name collision is disambiguated
// with a timestamp suffix rather than overwriting (the save-callback path,
// by contrast, intentionally overwrites). Returns the stored id without
// extension.
func (s *FileStorage) SaveUpload(name string, size int64, r io.Reader) (string, error) {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	ext := extension(name)

	if ext == "" || !s.Allowed(ext) {
		return "", fmt.Errorf("%w: %q", common.ErrUnsupportedFileType, ext)
	}
	if size > s.maxSize {
		return "", fmt.Errorf("%w: %d > %d", common.ErrSizeLimitExceeded, size, s.maxSize)
	}

	id, ok := s.Sanitize(strings.TrimSuffix(name, "."+ext))
	if !ok || id == "" {
		return "", fmt.Errorf("%w: %q", common.ErrInvalidDocumentID, name)
	}

	if s.Exists(id, ext) {
		id = id + "_" + strconv.FormatInt(time.Now().UnixMilli(), 10)
	}

	if err := s.WriteAtomic(id, ext, r); err != nil {
		return "", err
	}

	return id, nil
}

func (s *FileStorage) lockFor(id string) *sync.Mutex {
	mu, _ := s.locks.LoadOrStore(id, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

func extension(name string) string {
	i := strings.LastIndex(name, ".")
	if i <= 0 || i == len(name)-1 {
		return ""
	}
	return strings.ToLower(name[i+1:])
}
