package blob

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	crerr "github.com/cockroachdb/errors"
	"github.com/gabriel-vasile/mimetype"
	idgen "github.com/riskibarqy/tournament-portal/internal/platform/id"
	"github.com/riskibarqy/tournament-portal/internal/usecase"
)

const DefaultMaxBytes = 5 << 20

var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
}

type LocalConfig struct {
	Dir        string
	PublicPath string
	MaxBytes   int64
}

// LocalStore keeps uploads on disk below Dir/<category>/ and publishes them
// under PublicPath.
type LocalStore struct {
	dir        string
	publicPath string
	maxBytes   int64
	ids        idgen.Generator
}

func NewLocalStore(cfg LocalConfig, ids idgen.Generator) (*LocalStore, error) {
	dir := strings.TrimSpace(cfg.Dir)
	if dir == "" {
		return nil, crerr.New("upload dir is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, crerr.Wrapf(err, "create upload dir %s", dir)
	}
	publicPath := "/" + strings.Trim(strings.TrimSpace(cfg.PublicPath), "/")
	if publicPath == "/" {
		publicPath = "/uploads"
	}
	maxBytes := cfg.MaxBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	if ids == nil {
		ids = idgen.NewUUIDGenerator()
	}

	return &LocalStore{dir: dir, publicPath: publicPath, maxBytes: maxBytes, ids: ids}, nil
}

func (s *LocalStore) Dir() string        { return s.dir }
func (s *LocalStore) PublicPath() string { return s.publicPath }

// Save sniffs the content type and rejects anything but jpeg, png and gif.
func (s *LocalStore) Save(_ context.Context, category string, upload usecase.Upload) (string, error) {
	category = strings.TrimSpace(category)
	if category == "" || strings.ContainsAny(category, `/\.`) {
		return "", crerr.Newf("invalid upload category %q", category)
	}
	if upload.Content == nil {
		return "", fmt.Errorf("%w: empty upload", usecase.ErrInvalidInput)
	}

	content, err := io.ReadAll(io.LimitReader(upload.Content, s.maxBytes+1))
	if err != nil {
		return "", crerr.Wrap(err, "read upload")
	}
	if int64(len(content)) > s.maxBytes {
		return "", fmt.Errorf("%w: File too large. Maximum size is %d MB", usecase.ErrInvalidInput, s.maxBytes>>20)
	}
	if len(content) == 0 {
		return "", fmt.Errorf("%w: empty upload", usecase.ErrInvalidInput)
	}

	detected := mimetype.Detect(content)
	ext, ok := allowedTypes[detected.String()]
	if !ok {
		return "", fmt.Errorf("%w: Only image files are allowed (jpeg, jpg, png, gif)", usecase.ErrInvalidInput)
	}

	id, err := s.ids.NewID()
	if err != nil {
		return "", crerr.Wrap(err, "generate upload name")
	}
	name := category + "-" + id + ext

	folder := filepath.Join(s.dir, category)
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return "", crerr.Wrapf(err, "create upload folder %s", folder)
	}
	target := filepath.Join(folder, name)
	if err := writeFile(target, content); err != nil {
		return "", err
	}
	return path.Join(s.publicPath, category, name), nil
}

// Remove deletes a previously saved upload. Unknown or foreign URLs are
// ignored.
func (s *LocalStore) Remove(_ context.Context, url string) error {
	rel, ok := strings.CutPrefix(strings.TrimSpace(url), s.publicPath+"/")
	if !ok || rel == "" {
		return nil
	}
	clean := path.Clean("/" + rel)[1:]
	if clean == "" || strings.HasPrefix(clean, "..") {
		return nil
	}
	if err := os.Remove(filepath.Join(s.dir, filepath.FromSlash(clean))); err != nil && !os.IsNotExist(err) {
		return crerr.Wrapf(err, "remove upload %s", clean)
	}
	return nil
}

func writeFile(target string, content []byte) error {
	tmp := target + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		return crerr.Wrapf(err, "create %s", tmp)
	}
	if _, err := io.Copy(f, bytes.NewReader(content)); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return crerr.Wrapf(err, "write %s", tmp)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return crerr.Wrapf(err, "close %s", tmp)
	}
	if err := os.Rename(tmp, target); err != nil {
		_ = os.Remove(tmp)
		return crerr.Wrapf(err, "rename %s", tmp)
	}
	return nil
}
