package attribution

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"attribgraph/internal/classifier"
	"attribgraph/internal/logger"
	"attribgraph/internal/modelstore"
	"attribgraph/pkg/models"
)

func fittedClassifier(t *testing.T) *classifier.BernoulliNB {
	t.Helper()
	var docs, labels []string
	for i := 0; i < 20; i++ {
		docs = append(docs, "attack-pattern-T1571 malware-Fysbis")
		labels = append(labels, "aquatic-panda")
		docs = append(docs, "attack-pattern-T1190 tool-AdFind")
		labels = append(labels, "cozy-bear")
		docs = append(docs, "attack-pattern-T1059 malware-Emotet")
		labels = append(labels, "mummy-spider")
	}
	nb, err := classifier.Fit(docs, labels)
	if err != nil {
		t.Fatalf("fit: %v", err)
	}
	return nb
}

func savedStore(t *testing.T, version string) modelstore.Store {
	t.Helper()
	store, err := modelstore.NewFileStore(modelstore.FileConfig{Path: t.TempDir()}, logger.Discard())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	blob, err := fittedClassifier(t).Marshal()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	meta := models.ModelMetadata{
		DBVersion: version,
		CreatedAt: time.Now().UTC(),
	}
	if err := store.SaveModel(meta, blob); err != nil {
		t.Fatalf("save: %v", err)
	}
	return store
}

func TestPredictEmptyInputReturnsSentinelWithoutModel(t *testing.T) {
	m := New(nil, logger.Discard())

	result := m.Predict("")
	if result.Sentinel != models.LabelEmptyInput {
		t.Fatalf("expected %d, got %d", models.LabelEmptyInput, result.Sentinel)
	}
	if result.Ranking != nil {
		t.Fatalf("expected no ranking for empty input")
	}
	if result.DBVersion != models.DefaultVersion.String() {
		t.Fatalf("unexpected version %q", result.DBVersion)
	}
}

func TestPredictEmptyInputIgnoresModelState(t *testing.T) {
	m := NewWithClassifier(fittedClassifier(t), models.DefaultVersion, logger.Discard())
	if result := m.Predict(""); result.Sentinel != models.LabelEmptyInput {
		t.Fatalf("expected empty-input sentinel, got %d", result.Sentinel)
	}
}

func TestPredictWithoutArtifactReturnsNoModelSentinel(t *testing.T) {
	store, err := modelstore.NewFileStore(modelstore.FileConfig{Path: t.TempDir()}, logger.Discard())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	m := New(store, logger.Discard())
	result := m.Predict("malware-fysbis attack-pattern-t1571")
	if result.Sentinel != models.LabelNoModel {
		t.Fatalf("expected %d, got %d", models.LabelNoModel, result.Sentinel)
	}
}

func TestPredictWithCorruptBlobReturnsNoModelSentinel(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, modelstore.ModelFilename), []byte("[]"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	store, err := modelstore.NewFileStore(modelstore.FileConfig{Path: dir}, logger.Discard())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	m := New(store, logger.Discard())
	if result := m.Predict("malware-fysbis"); result.Sentinel != models.LabelNoModel {
		t.Fatalf("expected %d, got %d", models.LabelNoModel, result.Sentinel)
	}
}

func TestPredictRetriesLoadAfterFailure(t *testing.T) {
	dir := t.TempDir()
	store, err := modelstore.NewFileStore(modelstore.FileConfig{Path: dir}, logger.Discard())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	m := New(store, logger.Discard())

	if result := m.Predict("attack-pattern-T1571"); result.Sentinel != models.LabelNoModel {
		t.Fatalf("expected no-model sentinel before the artifact exists, got %d", result.Sentinel)
	}

	blob, err := fittedClassifier(t).Marshal()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	meta := models.ModelMetadata{DBVersion: "(0, 0, 2)", CreatedAt: time.Now().UTC()}
	if err := store.SaveModel(meta, blob); err != nil {
		t.Fatalf("save: %v", err)
	}

	result := m.Predict("attack-pattern-T1571 malware-Fysbis")
	if result.Ranking == nil {
		t.Fatalf("expected ranked result after artifact appeared, got sentinel %d", result.Sentinel)
	}
}

func TestPredictReturnsTopThreeRanked(t *testing.T) {
	m := New(savedStore(t, "(0, 0, 2)"), logger.Discard())

	result := m.Predict("attack-pattern-T1571 malware-Fysbis")
	if result.Ranking == nil {
		t.Fatalf("expected a ranking, got sentinel %d", result.Sentinel)
	}
	if len(result.Ranking.Labels) != 3 || len(result.Ranking.Probas) != 3 {
		t.Fatalf("expected top-3 parallel slices, got %+v", result.Ranking)
	}
	if result.Ranking.Labels[0] != "aquatic-panda" {
		t.Fatalf("expected aquatic-panda first, got %q", result.Ranking.Labels[0])
	}
	for i := 1; i < len(result.Ranking.Probas); i++ {
		if result.Ranking.Probas[i] > result.Ranking.Probas[i-1] {
			t.Fatalf("probabilities not descending: %v", result.Ranking.Probas)
		}
	}
}

func TestPredictAdoptsVersionFromMetadata(t *testing.T) {
	m := New(savedStore(t, "(0, 0, 2)"), logger.Discard())

	result := m.Predict("attack-pattern-T1190 tool-AdFind")
	if result.DBVersion != "(0, 0, 2)" {
		t.Fatalf("expected version from metadata, got %q", result.DBVersion)
	}
	if m.Version().String() != "(0, 0, 2)" {
		t.Fatalf("cached version not updated: %s", m.Version())
	}
}

func TestPredictKeepsDefaultVersionOnMalformedMetadata(t *testing.T) {
	m := New(savedStore(t, "not-a-version"), logger.Discard())

	result := m.Predict("attack-pattern-T1190")
	if result.Ranking == nil {
		t.Fatalf("model should still load with bad metadata, got sentinel %d", result.Sentinel)
	}
	if result.DBVersion != models.DefaultVersion.String() {
		t.Fatalf("expected default version, got %q", result.DBVersion)
	}
}

func TestPredictOnUnseenTokensStillRanks(t *testing.T) {
	m := New(savedStore(t, "(0, 0, 2)"), logger.Discard())

	result := m.Predict("token-nobody-trained-on")
	if result.Ranking == nil {
		t.Fatalf("expected a ranking, got sentinel %d", result.Sentinel)
	}
}
