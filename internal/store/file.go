package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/octobees/sentiment-dashboard/internal/entity"
)

// FileSource reads answers from a JSON array on disk.
type FileSource struct {
	path string
}

// NewFileSource returns a source for the JSON file at path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Name implements Source.
func (f *FileSource) Name() string {
	return "file:" + f.path
}

// Version implements Source. The file size is the tag, so a rewrite within
// the filesystem's mtime granularity is still noticed when the size changes.
func (f *FileSource) Version(ctx context.Context) (Version, error) {
	if err := ctx.Err(); err != nil {
		return Version{}, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	info, err := os.Stat(f.path)
	if err != nil {
		return Version{}, fmt.Errorf("%w: stat %s: %w", ErrSourceUnavailable, f.path, err)
	}
	return Version{ModTime: info.ModTime(), Tag: strconv.FormatInt(info.Size(), 10)}, nil
}

// Load implements Source.
func (f *FileSource) Load(ctx context.Context) ([]entity.Answer, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	raw, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrSourceUnavailable, f.path, err)
	}

	var answers []entity.Answer
	if err := json.Unmarshal(raw, &answers); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", ErrSourceCorrupt, f.path, err)
	}
	return answers, nil
}
