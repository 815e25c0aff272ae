// Package uploadsvc stores uploaded files on local disk: each file lands in
// a directory keyed by the owning record's id and is served back under a
// public URL prefix. The CRUD core treats this as an opaque collaborator.
package uploadsvc

import (
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/idara/core"
)

var allowedExts = map[string]struct{}{
	".pdf": {}, ".png": {}, ".jpg": {}, ".jpeg": {}, ".gif": {},
	".doc": {}, ".docx": {}, ".ppt": {}, ".pptx": {}, ".xls": {}, ".xlsx": {},
}

var (
	ErrTooLarge    = errors.New("file exceeds the maximum allowed size")
	ErrBadFileType = errors.New("file type not allowed")
)

type DiskService struct {
	dir       string
	urlPrefix string
	maxSize   int64
}

func NewDiskService(conf *core.Config) *DiskService {
	return &DiskService{
		dir:       conf.Upload.Dir,
		urlPrefix: conf.Upload.URLPrefix,
		maxSize:   conf.Upload.MaxSizeBytes,
	}
}

// Dir returns the storage root, for static file serving.
func (svc *DiskService) Dir() string {
	return svc.dir
}

// Save writes the file under a directory keyed by the record id with a
// uuid-prefixed name (uploads for the same record never clash) and returns
// the public URL path.
func (svc *DiskService) Save(recordID, filename string, size int64, src io.Reader) (string, error) {
	if svc.maxSize > 0 && size > svc.maxSize {
		return "", ErrTooLarge
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := allowedExts[ext]; !ok {
		return "", ErrBadFileType
	}

	dir := filepath.Join(svc.dir, recordID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrap(err, "creating upload dir")
	}

	name := uuid.New().String() + ext
	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", errors.Wrap(err, "creating upload file")
	}
	defer func() { _ = dst.Close() }()

	written, err := io.Copy(dst, io.LimitReader(src, svc.maxSize+1))
	if err != nil {
		return "", errors.Wrap(err, "writing upload file")
	}
	if svc.maxSize > 0 && written > svc.maxSize {
		_ = os.Remove(dst.Name())
		return "", ErrTooLarge
	}

	return path.Join(svc.urlPrefix, recordID, name), nil
}

// Remove deletes every file stored for a record.
func (svc *DiskService) Remove(recordID string) error {
	if recordID == "" {
		return nil
	}
	return errors.Wrap(os.RemoveAll(filepath.Join(svc.dir, recordID)), "removing uploads")
}
