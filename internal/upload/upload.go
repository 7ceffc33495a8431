package upload

import (
	"errors"
	"fmt"
	"io"
	"log"
	"math/rand/v2"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Errors reported for rejected uploads.
var (
	ErrFileTooLarge    = errors.New("file exceeds the maximum allowed size")
	ErrDisallowedType  = errors.New("invalid file type. Allowed types: STL, DXF, PDF, SVG, AI, DWG")
	ErrNoFiles         = errors.New("at least one file is required")
	ErrTooManyFiles    = errors.New("too many files attached")
	ErrMissingFilename = errors.New("uploaded file has no name")
)

// File extensions accepted for 3D printing and laser cutting jobs.
var allowedExtensions = map[string]bool{
	".stl": true,
	".dxf": true,
	".pdf": true,
	".svg": true,
	".ai":  true,
	".dwg": true,
}

// MIME types browsers commonly attach to the allowed formats. Acceptance is
// extension-or-MIME; file content is not verified.
var allowedMimeTypes = map[string]bool{
	"application/octet-stream": true, // STL
	"application/sla":          true, // STL
	"image/vnd.dxf":            true, // DXF
	"application/dxf":          true, // DXF
	"application/pdf":          true,
	"image/svg+xml":            true,
	"application/postscript":   true, // AI
	"application/illustrator":  true, // AI
}

// Allowed reports whether a file with the given original name and declared
// MIME type passes the upload allow-list.
func Allowed(originalName, mimeType string) bool {
	ext := strings.ToLower(filepath.Ext(originalName))
	return allowedExtensions[ext] || allowedMimeTypes[mimeType]
}

// StoredFile describes an uploaded file persisted to the upload directory.
type StoredFile struct {
	Filename     string
	OriginalName string
	Path         string
	Size         int64
	MimeType     string
}

// Saver writes multipart uploads into a configured directory under
// randomized collision-resistant filenames.
type Saver struct {
	dir     string
	maxSize int64
}

// NewSaver creates the upload directory if needed and returns a Saver.
func NewSaver(dir string, maxSize int64) (*Saver, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %s: %w", dir, err)
	}
	return &Saver{dir: dir, maxSize: maxSize}, nil
}

// Save validates and persists a single multipart file.
func (s *Saver) Save(fh *multipart.FileHeader) (StoredFile, error) {
	if fh.Filename == "" {
		return StoredFile{}, ErrMissingFilename
	}
	if fh.Size > s.maxSize {
		return StoredFile{}, ErrFileTooLarge
	}

	mimeType := fh.Header.Get("Content-Type")
	if !Allowed(fh.Filename, mimeType) {
		return StoredFile{}, ErrDisallowedType
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	name := fmt.Sprintf("files-%d-%d%s", time.Now().UnixMilli(), rand.Int64N(1_000_000_000), ext)
	path := filepath.Join(s.dir, name)

	src, err := fh.Open()
	if err != nil {
		return StoredFile{}, fmt.Errorf("failed to open uploaded file %s: %w", fh.Filename, err)
	}
	defer src.Close()

	dst, err := os.Create(path)
	if err != nil {
		return StoredFile{}, fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(path)
		return StoredFile{}, fmt.Errorf("failed to write %s: %w", path, err)
	}

	return StoredFile{
		Filename:     name,
		OriginalName: fh.Filename,
		Path:         path,
		Size:         fh.Size,
		MimeType:     mimeType,
	}, nil
}

// SaveAll persists every file or none: on the first failure, files saved so
// far are removed and the error is returned.
func (s *Saver) SaveAll(fhs []*multipart.FileHeader) ([]StoredFile, error) {
	var saved []StoredFile
	for _, fh := range fhs {
		sf, err := s.Save(fh)
		if err != nil {
			Remove(saved)
			return nil, err
		}
		saved = append(saved, sf)
	}
	return saved, nil
}

// Remove deletes stored files from disk, logging failures. Used to clean up
// after a rejected or rolled-back request.
func Remove(files []StoredFile) {
	for _, f := range files {
		if err := os.Remove(f.Path); err != nil && !os.IsNotExist(err) {
			log.Printf("failed to remove uploaded file %s: %v", f.Path, err)
		}
	}
}
