package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"SplitChart/internal/model"
)

// FileSource reads a series from a local JSON or YAML file holding an array
// of {timestamp, price} records.
type FileSource struct {
	Path string
}

// NewFileSource creates a source for path.
func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

func (f *FileSource) Name() string { return "file:" + filepath.Base(f.Path) }

func (f *FileSource) Load(ctx context.Context) ([]model.RawRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.Path, err)
	}
	return DecodeRecords(data, filepath.Ext(f.Path))
}

// DecodeRecords parses a record array; ext selects YAML (.yaml, .yml) or JSON.
func DecodeRecords(data []byte, ext string) ([]model.RawRecord, error) {
	var records []model.RawRecord
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("decode yaml records: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("decode json records: %w", err)
		}
	}
	return records, nil
}
