package pipeline

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/akolanti/intellifile/internal/domain/docmodel"
)

// FileStore keeps the original uploaded files so metadata can be regenerated
// later without a re-upload. Files are named by document id plus the original
// extension.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating document store dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) Put(documentId string, srcPath string) error {
	src, err := os.Open(srcPath)
	if err != nil {
		return err
	}
	defer src.Close()

	dstPath := filepath.Join(s.dir, documentId+storedExtension(srcPath))
	dst, err := os.Create(dstPath)
	if err != nil {
		return err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dstPath)
		return err
	}
	return nil
}

func (s *FileStore) Path(documentId string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(s.dir, documentId+".*"))
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("stored file for %s: %w", documentId, docmodel.ErrDocumentNotFound)
	}
	return matches[0], nil
}

func (s *FileStore) Remove(documentId string) error {
	matches, err := filepath.Glob(filepath.Join(s.dir, documentId+".*"))
	if err != nil {
		return err
	}
	for _, m := range matches {
		if err := os.Remove(m); err != nil {
			return err
		}
	}
	return nil
}
