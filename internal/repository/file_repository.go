package repository

import (
	"context"
	"encoding/json"
	"event-catalog/internal/domain"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// catalogFile is the on-disk shape of a static catalog.
type catalogFile struct {
	Events []domain.Event `json:"events" yaml:"events"`
}

type fileRepo struct {
	path string
}

// NewFileRepository reads a YAML (.yaml/.yml) or JSON (.json) catalog. The
// file is re-read on every List so edits are picked up by the next reload.
func NewFileRepository(path string) CatalogRepository {
	return &fileRepo{path: path}
}

func (r *fileRepo) Name() string {
	return "file:" + r.path
}

func (r *fileRepo) List(ctx context.Context) ([]domain.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", r.path, err)
	}
	return decodeCatalog(r.path, data)
}

func decodeCatalog(path string, data []byte) ([]domain.Event, error) {
	var doc catalogFile

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("catalog %s: unsupported extension %q", path, ext)
	}

	if doc.Events == nil {
		doc.Events = make([]domain.Event, 0)
	}
	return doc.Events, nil
}
