package modelstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"attribgraph/internal/logger"
	"attribgraph/pkg/models"
)

// FileStore keeps the metadata record and model blob as two files under a
// base directory.
type FileStore struct {
	metaPath  string
	modelPath string
	log       *logger.Logger
}

// FileConfig configures the file store.
type FileConfig struct {
	Path          string
	MetadataName  string
	ModelBlobName string
}

// NewFileStore creates a file-backed artifact store rooted at cfg.Path.
func NewFileStore(cfg FileConfig, log *logger.Logger) (*FileStore, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("model store path is empty")
	}
	if cfg.MetadataName == "" {
		cfg.MetadataName = MetadataFilename
	}
	if cfg.ModelBlobName == "" {
		cfg.ModelBlobName = ModelFilename
	}
	return &FileStore{
		metaPath:  filepath.Join(cfg.Path, cfg.MetadataName),
		modelPath: filepath.Join(cfg.Path, cfg.ModelBlobName),
		log:       log,
	}, nil
}

// SaveModel writes the metadata record and the classifier blob.
func (s *FileStore) SaveModel(meta models.ModelMetadata, blob []byte) error {
	dir := filepath.Dir(s.modelPath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create model directory: %w", err)
		}
	}

	metaBytes, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("failed to marshal model metadata: %w", err)
	}
	if err := os.WriteFile(s.metaPath, metaBytes, 0644); err != nil {
		return fmt.Errorf("failed to write model metadata: %w", err)
	}
	if err := os.WriteFile(s.modelPath, blob, 0644); err != nil {
		return fmt.Errorf("failed to write model blob: %w", err)
	}

	s.log.Infof("Model artifact saved: %s (%d bytes)", s.modelPath, len(blob))
	return nil
}

// LoadMetadata reads and parses the metadata record.
func (s *FileStore) LoadMetadata() (*models.ModelMetadata, error) {
	data, err := os.ReadFile(s.metaPath)
	if err != nil {
		return nil, fmt.Errorf("read model metadata: %w", err)
	}
	var meta models.ModelMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("parse model metadata: %w", err)
	}
	return &meta, nil
}

// LoadModel reads the serialized classifier blob.
func (s *FileStore) LoadModel() ([]byte, error) {
	data, err := os.ReadFile(s.modelPath)
	if err != nil {
		return nil, fmt.Errorf("read model blob: %w", err)
	}
	return data, nil
}

// Close is a no-op for the file store.
func (s *FileStore) Close() error {
	return nil
}
