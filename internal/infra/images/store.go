package images

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"github.com/Spok95/materials-inventory/internal/apperr"
)

const (
	maxSide     = 1024
	jpegQuality = 85
	URLPrefix   = "/uploads/"
)

// Store keeps normalised JPEG copies of uploaded images on local disk and
// hands back the public URL they are served under.
type Store struct {
	dir     string
	baseURL string
}

func NewStore(dir, baseURL string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	return &Store{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (s *Store) Dir() string { return s.dir }

// Save decodes r, fits it into maxSide x maxSide and writes it as JPEG.
func (s *Store) Save(ctx context.Context, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return "", apperr.Validation("imagen is not a supported image: %v", err)
	}
	img = imaging.Fit(img, maxSide, maxSide, imaging.Lanczos)

	name := uuid.NewString() + ".jpg"
	if err := imaging.Save(img, filepath.Join(s.dir, name), imaging.JPEGQuality(jpegQuality)); err != nil {
		return "", apperr.Storage("save image", err)
	}
	return s.baseURL + URLPrefix + name, nil
}
