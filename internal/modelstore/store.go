package modelstore

import "attribgraph/pkg/models"

// Store persists and retrieves model artifacts: a metadata record plus an
// opaque serialized classifier blob. Implementations report absence or
// corruption as errors; callers downgrade those to "model absent" rather
// than failing.
type Store interface {
	SaveModel(meta models.ModelMetadata, blob []byte) error
	LoadMetadata() (*models.ModelMetadata, error)
	LoadModel() ([]byte, error)
	Close() error
}

// Default artifact resource names.
const (
	MetadataFilename = "meta_data.json"
	ModelFilename    = "model.json"
)
