package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Upload is an attachment as received from the boundary layer: the raw bytes and
// the client's original filename, used only for its extension.
type Upload struct {
	Reader   io.Reader
	Filename string
}

// AttachmentStore maps uploaded screenshots to collision-free files under a local
// directory and hands back the public URL. References are always derived from the
// write itself, never accepted from a client.
type AttachmentStore struct {
	dir        string
	publicPath string
}

// NewAttachmentStore creates the uploads directory if needed. publicPath is the
// URL prefix the files are served under, e.g. "/uploads".
func NewAttachmentStore(dir, publicPath string) (*AttachmentStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create uploads directory: %w", err)
	}
	return &AttachmentStore{dir: dir, publicPath: strings.TrimSuffix(publicPath, "/")}, nil
}

// Dir returns the directory the store writes into.
func (s *AttachmentStore) Dir() string {
	return s.dir
}

// Save writes the upload under a generated name and returns its public URL.
// The name is a random identifier plus the original extension, so concurrent
// saves never collide.
func (s *AttachmentStore) Save(up *Upload) (string, error) {
	ext := strings.ToLower(filepath.Ext(up.Filename))
	name := uuid.NewString() + ext

	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("failed to create attachment file: %w", err)
	}
	if _, err := io.Copy(f, up.Reader); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to write attachment file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to write attachment file: %w", err)
	}

	return s.publicPath + "/" + name, nil
}

// Delete removes the file a public URL points at. A missing file is not an
// error; URLs outside the managed prefix are rejected.
func (s *AttachmentStore) Delete(url string) error {
	name, err := s.fileName(url)
	if err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete attachment file: %w", err)
	}
	return nil
}

// Exists reports whether the file behind a public URL is still present.
func (s *AttachmentStore) Exists(url string) bool {
	name, err := s.fileName(url)
	if err != nil {
		return false
	}
	_, err = os.Stat(filepath.Join(s.dir, name))
	return err == nil
}

// List returns the public URLs of every stored file together with its mtime,
// for the orphan sweeper.
func (s *AttachmentStore) List() (map[string]time.Time, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read uploads directory: %w", err)
	}
	files := make(map[string]time.Time, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		files[s.publicPath+"/"+e.Name()] = info.ModTime()
	}
	return files, nil
}

// fileName extracts and validates the bare filename from a public URL.
func (s *AttachmentStore) fileName(url string) (string, error) {
	name, ok := strings.CutPrefix(url, s.publicPath+"/")
	if !ok {
		return "", fmt.Errorf("attachment url %q is outside %s", url, s.publicPath)
	}
	if name == "" || name != filepath.Base(name) {
		return "", fmt.Errorf("invalid attachment url %q", url)
	}
	return name, nil
}
