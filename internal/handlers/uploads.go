package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ImageStore saves uploaded complaint images to local disk and serves
// them back under the /uploads URL prefix.
type ImageStore struct {
	dir      string
	maxBytes int64
}

// NewImageStore creates the upload directory if it does not exist.
func NewImageStore(dir string, maxBytes int64) (*ImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload directory: %w", err)
	}
	return &ImageStore{dir: dir, maxBytes: maxBytes}, nil
}

// SaveFromForm extracts the named file from a multipart request and
// writes it to disk under a random name. Returns the public URL, or ""
// when no file was attached. Only image content types are accepted.
func (s *ImageStore) SaveFromForm(r *http.Request, field string) (string, error) {
	if err := r.ParseMultipartForm(s.maxBytes); err != nil {
		return "", errors.New("invalid multipart form data")
	}

	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return "", nil
		}
		return "", errors.New("invalid image upload")
	}
	defer file.Close()

	if header.Size > s.maxBytes {
		return "", fmt.Errorf("image exceeds the %dMB size limit", s.maxBytes/(1<<20))
	}
	if !strings.HasPrefix(header.Header.Get("Content-Type"), "image/") {
		return "", errors.New("only image files are allowed")
	}

	ext := filepath.Ext(header.Filename)
	name := uuid.New().String() + ext
	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("saving image: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, io.LimitReader(file, s.maxBytes)); err != nil {
		return "", fmt.Errorf("saving image: %w", err)
	}
	return "/uploads/" + name, nil
}

// Dir returns the on-disk directory images are written to.
func (s *ImageStore) Dir() string {
	return s.dir
}
