package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/loreycode/cms-api/internal/storage"
	"github.com/loreycode/cms-api/internal/store"
	"github.com/loreycode/cms-api/types"
)

// Upload limits.
const (
	MaxUploadFiles    = 10
	MaxUploadFileSize = 10 << 20
	uploadURLPrefix   = "/uploads/"
	suffixAlphabet    = "0123456789abcdefghijklmnopqrstuvwxyz"
	suffixLength      = 6
)

// ErrInvalidUpload wraps every rejection of an upload batch.
var ErrInvalidUpload = errors.New("invalid upload")

// UploadFile is one file of a multipart upload.
type UploadFile struct {
	Name        string
	ContentType string
	Size        int64
	Open        func() (io.ReadCloser, error)
}

// ObjectStore is the subset of storage.Storage used for media.
type ObjectStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) ([]storage.ObjectInfo, error)
}

// MediaService stores uploaded files and their metadata.
type MediaService struct {
	*ContentService[types.MediaFile]
	objects ObjectStore
	allowed map[string]bool
	logger  *slog.Logger
	now     func() time.Time
}

// NewMediaService returns a media service. An empty allowedTypes accepts any type.
func NewMediaService(records *ContentService[types.MediaFile], objects ObjectStore, allowedTypes []string, logger *slog.Logger) *MediaService {
	allowed := map[string]bool{}
	for _, t := range allowedTypes {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			allowed[t] = true
		}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &MediaService{
		ContentService: records,
		objects:        objects,
		allowed:        allowed,
		logger:         logger,
		now:            time.Now,
	}
}

// Validate checks the whole batch before anything is written.
func (s *MediaService) Validate(files []UploadFile) error {
	if len(files) == 0 {
		return fmt.Errorf("%w: no files provided", ErrInvalidUpload)
	}
	if len(files) > MaxUploadFiles {
		return fmt.Errorf("%w: at most %d files per upload", ErrInvalidUpload, MaxUploadFiles)
	}
	for _, f := range files {
		if f.Size > MaxUploadFileSize {
			return fmt.Errorf("%w: %s exceeds %d MB", ErrInvalidUpload, f.Name, MaxUploadFileSize>>20)
		}
		if len(s.allowed) > 0 && !s.allowed[mimeTypeOf(f)] {
			return fmt.Errorf("%w: file type %s is not allowed", ErrInvalidUpload, mimeTypeOf(f))
		}
	}
	return nil
}

// Upload validates the batch and stores each file followed by its metadata.
func (s *MediaService) Upload(ctx context.Context, files []UploadFile) ([]types.MediaFile, error) {
	if err := s.Validate(files); err != nil {
		return nil, err
	}

	created := make([]types.MediaFile, 0, len(files))
	for _, f := range files {
		item, err := s.store(ctx, f)
		if err != nil {
			return created, err
		}
		created = append(created, item)
	}
	return created, nil
}

func (s *MediaService) store(ctx context.Context, f UploadFile) (types.MediaFile, error) {
	suffix, err := randomSuffix()
	if err != nil {
		return types.MediaFile{}, err
	}
	name := StoredName(f.Name, s.now(), suffix)
	mimeType := mimeTypeOf(f)

	body, err := f.Open()
	if err != nil {
		return types.MediaFile{}, fmt.Errorf("open upload %s: %w", f.Name, err)
	}
	err = s.objects.Put(ctx, name, body, f.Size, mimeType)
	_ = body.Close()
	if err != nil {
		return types.MediaFile{}, fmt.Errorf("store upload %s: %w", f.Name, err)
	}

	item, err := s.Create(ctx, store.Fields{
		"filename":      name,
		"original_name": f.Name,
		"mime_type":     mimeType,
		"size":          f.Size,
		"url":           URLFor(name),
	})
	if err != nil {
		if delErr := s.objects.Delete(ctx, name); delErr != nil {
			s.logger.Warn("remove orphaned upload", "filename", name, "error", delErr)
		}
		return types.MediaFile{}, err
	}
	return item, nil
}

// Delete removes the stored file and its metadata. Storage errors are
// logged and never reported; a missing record is not an error.
func (s *MediaService) Delete(ctx context.Context, id string) error {
	item, err := s.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		return err
	}
	if err := s.objects.Delete(ctx, item.Filename); err != nil {
		s.logger.Warn("remove media file", "filename", item.Filename, "error", err)
	}
	return s.ContentService.Delete(ctx, id)
}

// Open streams a stored file by its generated name.
func (s *MediaService) Open(ctx context.Context, filename string) (io.ReadCloser, error) {
	return s.objects.Get(ctx, filename)
}

// PruneOrphans deletes stored objects older than grace that have no metadata
// record, and returns their keys.
func (s *MediaService) PruneOrphans(ctx context.Context, grace time.Duration) ([]string, error) {
	objects, err := s.objects.List(ctx)
	if err != nil {
		return nil, err
	}
	records, err := s.ListWhere(ctx, nil)
	if err != nil {
		return nil, err
	}
	known := make(map[string]bool, len(records))
	for _, r := range records {
		known[r.Filename] = true
	}

	cutoff := s.now().Add(-grace)
	var pruned []string
	for _, obj := range objects {
		if known[obj.Key] || obj.LastModified.After(cutoff) {
			continue
		}
		if err := s.objects.Delete(ctx, obj.Key); err != nil {
			s.logger.Warn("prune media file", "filename", obj.Key, "error", err)
			continue
		}
		pruned = append(pruned, obj.Key)
	}
	return pruned, nil
}

// StoredName builds the storage key for an uploaded file:
// {sanitized base}_{unix millis}_{suffix}{extension}.
func StoredName(original string, now time.Time, suffix string) string {
	ext := filepath.Ext(original)
	base := sanitizeName(strings.TrimSuffix(original, ext))
	// Leading dots would make the stored file hidden.
	if trimmed := strings.TrimLeft(base, "."); trimmed != base {
		base = strings.Repeat("_", len(base)-len(trimmed)) + trimmed
	}
	return base + "_" + strconv.FormatInt(now.UnixMilli(), 10) + "_" + suffix + sanitizeName(ext)
}

// URLFor returns the public path of a stored file.
func URLFor(filename string) string {
	return uploadURLPrefix + url.PathEscape(filename)
}

// sanitizeName replaces every character outside [A-Za-z0-9._-] with '_'.
func sanitizeName(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

func mimeTypeOf(f UploadFile) string {
	if ct := strings.TrimSpace(f.ContentType); ct != "" {
		if mediaType, _, err := mime.ParseMediaType(ct); err == nil {
			return strings.ToLower(mediaType)
		}
	}
	if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(f.Name))); byExt != "" {
		if mediaType, _, err := mime.ParseMediaType(byExt); err == nil {
			return mediaType
		}
	}
	return "application/octet-stream"
}

func randomSuffix() (string, error) {
	buf := make([]byte, suffixLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = suffixAlphabet[int(b)%len(suffixAlphabet)]
	}
	return string(buf), nil
}
