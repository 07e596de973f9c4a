package models

import (
	"encoding/json"
	"time"
)

// Sentinel labels returned in place of a ranking when prediction cannot run.
const (
	LabelEmptyInput   = -1
	LabelNoModel      = -2
	LabelPredictError = -3
)

// Ranking holds the top-N labels and their probabilities as parallel slices,
// ordered by descending probability.
type Ranking struct {
	Labels []string  `json:"labels"`
	Probas []float64 `json:"probas"`
}

// Prediction is the result of one attribution call. Exactly one of Ranking
// and Sentinel is meaningful: Ranking is nil whenever Sentinel is set. On
// the wire the "label" field carries either the ranking structure or the
// bare sentinel integer.
type Prediction struct {
	Ranking   *Ranking
	Sentinel  int
	DBVersion string
}

type predictionWire struct {
	Label     json.RawMessage `json:"label"`
	DBVersion string          `json:"db_version"`
}

// MarshalJSON renders the label field as the ranking or the sentinel code.
func (p Prediction) MarshalJSON() ([]byte, error) {
	var label json.RawMessage
	var err error
	if p.Ranking != nil {
		label, err = json.Marshal(p.Ranking)
	} else {
		label, err = json.Marshal(p.Sentinel)
	}
	if err != nil {
		return nil, err
	}
	return json.Marshal(predictionWire{Label: label, DBVersion: p.DBVersion})
}

// UnmarshalJSON accepts both label shapes.
func (p *Prediction) UnmarshalJSON(data []byte) error {
	var wire predictionWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	p.DBVersion = wire.DBVersion
	p.Ranking = nil
	p.Sentinel = 0
	if len(wire.Label) == 0 || string(wire.Label) == "null" {
		return nil
	}

	var ranking Ranking
	if err := json.Unmarshal(wire.Label, &ranking); err == nil {
		p.Ranking = &ranking
		return nil
	}
	return json.Unmarshal(wire.Label, &p.Sentinel)
}

// ModelMetadata describes a persisted model artifact.
type ModelMetadata struct {
	DBVersion   string    `json:"db_version"`
	RunID       string    `json:"run_id,omitempty"`
	CreatedAt   time.Time `json:"time_metadata_created"`
	SampleCount int       `json:"sample_count,omitempty"`
	LabelCount  int       `json:"label_count,omitempty"`
	F1Score     float64   `json:"f1_score,omitempty"`
}
