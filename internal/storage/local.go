// Package storage persists uploaded attachment files on local disk and
// derives their metadata exactly once at write time.
package storage

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// StoredFile describes a persisted file. The metadata is computed when the
// file is written and never recomputed afterwards.
type StoredFile struct {
	Key       string
	FileName  string
	MimeType  string
	SizeBytes int64
}

// Store abstracts the attachment file store.
type Store interface {
	Save(r io.Reader, originalName string) (*StoredFile, error)
	Stat(key string) (*StoredFile, error)
	Open(key string) (io.ReadCloser, error)
}

// LocalStore keeps files under a root directory, one file per opaque key.
type LocalStore struct {
	root string
}

// NewLocalStore creates the root directory if needed.
func NewLocalStore(root string) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}
	return &LocalStore{root: root}, nil
}

// Save writes the stream to a new key and sniffs MIME type and size.
func (s *LocalStore) Save(r io.Reader, originalName string) (*StoredFile, error) {
	key := uuid.NewString()
	path := filepath.Join(s.root, key)

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create file: %w", err)
	}
	defer f.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(r, head)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		os.Remove(path)
		return nil, fmt.Errorf("read upload: %w", err)
	}
	head = head[:n]

	size := int64(0)
	if n > 0 {
		written, err := f.Write(head)
		if err != nil {
			os.Remove(path)
			return nil, fmt.Errorf("write upload: %w", err)
		}
		size += int64(written)
	}
	rest, err := io.Copy(f, r)
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("write upload: %w", err)
	}
	size += rest

	name := filepath.Base(originalName)
	if name == "." || name == string(filepath.Separator) {
		name = key
	}

	return &StoredFile{
		Key:       key,
		FileName:  name,
		MimeType:  http.DetectContentType(head),
		SizeBytes: size,
	}, nil
}

// Stat returns metadata for an existing key. The MIME type is re-sniffed
// from the head of the file; callers persist it once at attachment
// creation.
func (s *LocalStore) Stat(key string) (*StoredFile, error) {
	path := filepath.Join(s.root, filepath.Base(key))
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, err
	}

	return &StoredFile{
		Key:       key,
		FileName:  key,
		MimeType:  http.DetectContentType(head[:n]),
		SizeBytes: info.Size(),
	}, nil
}

// Open returns the file contents for download.
func (s *LocalStore) Open(key string) (io.ReadCloser, error) {
	return os.Open(filepath.Join(s.root, filepath.Base(key)))
}
