package loaders

import (
	"context"
	"fmt"
	"os"

	"srm-backend/application/ports"
	"srm-backend/domain/core/valueobjects"
)

// FileSource loads the matrix from a local file
type FileSource struct {
	path   string
	format Format
}

var _ ports.WatchableSource = (*FileSource)(nil)

// NewFileSource creates a file source; FormatAuto detects by extension
func NewFileSource(path string, format Format) *FileSource {
	if format == "" || format == FormatAuto {
		format = DetectFormat(path, "")
	}
	return &FileSource{path: path, format: format}
}

// Load reads and decodes the file
func (s *FileSource) Load(ctx context.Context) (*valueobjects.BinaryMatrix, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open matrix file: %w", err)
	}
	defer f.Close()

	matrix, err := Decode(f, s.format)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", s.path, err)
	}
	return matrix, nil
}

// Describe names the source
func (s *FileSource) Describe() string {
	return "file:" + s.path
}

// Path returns the watched file path
func (s *FileSource) Path() string {
	return s.path
}

// Format returns the resolved encoding
func (s *FileSource) Format() Format {
	return s.format
}
