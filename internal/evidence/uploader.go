package evidence

import (
	"context"
	"fmt"
	"log/slog"
	"mime"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/ahmetcoskunkizilkaya/fraudwatch/internal/dto"
	"github.com/ahmetcoskunkizilkaya/fraudwatch/internal/models"
)

const (
	DefaultMaxFiles = 5
	DefaultMaxBytes = 10 << 20
)

var DefaultAllowedExts = []string{".jpg", ".jpeg", ".png", ".pdf", ".doc", ".docx"}

type Limits struct {
	MaxFiles    int
	MaxBytes    int64
	AllowedExts []string
}

// Uploader validates submitted evidence and persists the accepted files.
type Uploader struct {
	storage Storage
	limits  Limits
	allowed map[string]bool
}

func NewUploader(storage Storage, limits Limits) *Uploader {
	if limits.MaxFiles <= 0 {
		limits.MaxFiles = DefaultMaxFiles
	}
	if limits.MaxBytes <= 0 {
		limits.MaxBytes = DefaultMaxBytes
	}
	if len(limits.AllowedExts) == 0 {
		limits.AllowedExts = DefaultAllowedExts
	}
	allowed := make(map[string]bool, len(limits.AllowedExts))
	for _, ext := range limits.AllowedExts {
		allowed[strings.ToLower(ext)] = true
	}
	return &Uploader{storage: storage, limits: limits, allowed: allowed}
}

func (u *Uploader) Storage() Storage {
	return u.storage
}

// Accept walks the files in submission order. Files with a disallowed
// extension or over the size limit are skipped, and once MaxFiles have been
// accepted the remainder are skipped too. Skipped files are returned as
// rejections; only storage failures are errors.
func (u *Uploader) Accept(ctx context.Context, reportID string, files []*multipart.FileHeader) ([]models.EvidenceFile, []dto.FileRejection, error) {
	accepted := make([]models.EvidenceFile, 0, len(files))
	rejected := make([]dto.FileRejection, 0)
	seen := make(map[string]bool, len(files))

	for _, fh := range files {
		if fh == nil {
			continue
		}
		name := models.BaseName(fh.Filename)
		if name == "" {
			continue
		}

		if len(accepted) >= u.limits.MaxFiles {
			slog.Warn("evidence rejected: file limit reached", "report_id", reportID, "file", fh.Filename)
			rejected = append(rejected, dto.FileRejection{Name: fh.Filename, Reason: dto.RejectLimit})
			continue
		}
		if fh.Size > u.limits.MaxBytes {
			slog.Warn("evidence rejected: too large", "report_id", reportID, "file", fh.Filename, "size", fh.Size)
			rejected = append(rejected, dto.FileRejection{Name: fh.Filename, Reason: dto.RejectSize})
			continue
		}
		ext := strings.ToLower(filepath.Ext(name))
		if !u.allowed[ext] {
			slog.Warn("evidence rejected: unsupported type", "report_id", reportID, "file", fh.Filename)
			rejected = append(rejected, dto.FileRejection{Name: fh.Filename, Reason: dto.RejectType})
			continue
		}

		saved := models.EvidenceName(reportID, name)
		// Two uploads with the same base name would share a stored object.
		if seen[saved] {
			slog.Warn("evidence rejected: duplicate name", "report_id", reportID, "file", fh.Filename)
			rejected = append(rejected, dto.FileRejection{Name: fh.Filename, Reason: dto.RejectDuplicate})
			continue
		}
		seen[saved] = true
		if err := u.store(ctx, saved, ext, fh); err != nil {
			return nil, nil, fmt.Errorf("store evidence %s: %w", fh.Filename, err)
		}
		accepted = append(accepted, models.EvidenceFile{
			OriginalName: fh.Filename,
			SavedName:    saved,
			Size:         fh.Size,
		})
	}
	return accepted, rejected, nil
}

func (u *Uploader) store(ctx context.Context, saved, ext string, fh *multipart.FileHeader) error {
	src, err := fh.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" {
		contentType = mime.TypeByExtension(ext)
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return u.storage.Put(ctx, saved, src, fh.Size, contentType)
}
