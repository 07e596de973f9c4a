package attribution

import (
	"sort"
	"sync"

	"attribgraph/internal/classifier"
	"attribgraph/internal/logger"
	"attribgraph/internal/modelstore"
	"attribgraph/pkg/models"
)

// TopN is the number of ranked labels returned per prediction.
const TopN = 3

// Model serves ranked intrusion-set predictions from a persisted artifact.
// The artifact is loaded lazily on the first prediction and cached for the
// process lifetime; a failed load leaves the model degraded and is retried
// on the next call.
type Model struct {
	store modelstore.Store
	log   *logger.Logger

	mu        sync.Mutex
	clf       *classifier.BernoulliNB
	dbVersion models.Version
}

// New creates an unloaded attribution model over the given store.
func New(store modelstore.Store, log *logger.Logger) *Model {
	return &Model{
		store:     store,
		log:       log,
		dbVersion: models.DefaultVersion,
	}
}

// NewWithClassifier wraps an already fitted classifier, bypassing the store.
func NewWithClassifier(clf *classifier.BernoulliNB, version models.Version, log *logger.Logger) *Model {
	return &Model{clf: clf, dbVersion: version, log: log}
}

// Version returns the currently resolved artifact version.
func (m *Model) Version() models.Version {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dbVersion
}

// load reads metadata and blob from the store. Either resource being absent
// or corrupt downgrades to "no model"; the version is adopted from metadata
// only when present and parseable. Caller holds m.mu.
func (m *Model) load() *classifier.BernoulliNB {
	if m.store == nil {
		return nil
	}

	meta, err := m.store.LoadMetadata()
	if err != nil {
		m.log.Warnf("The model meta data can not be loaded: %v", err)
	} else {
		if v, err := models.ParseVersion(meta.DBVersion); err != nil {
			m.log.Warnf("The model meta data carries a malformed version %q: %v", meta.DBVersion, err)
		} else {
			m.dbVersion = v
			m.log.Infof("The model version is %s, the meta data creation time is %s", meta.DBVersion, meta.CreatedAt)
		}
	}

	blob, err := m.store.LoadModel()
	if err != nil {
		m.log.Warnf("The model blob can not be loaded: %v", err)
		return nil
	}
	clf, err := classifier.Unmarshal(blob)
	if err != nil {
		m.log.Warnf("The model blob can not be parsed: %v", err)
		return nil
	}
	m.log.Infof("The model was loaded: %d classes, %d features", len(clf.Classes), len(clf.Vocabulary))
	return clf
}

func sentinel(code int, version models.Version) models.Prediction {
	return models.Prediction{Sentinel: code, DBVersion: version.String()}
}

// Predict attributes the incident string to the TopN most likely intrusion
// sets. It never panics past this boundary: empty input, a missing model and
// inference failures all surface as sentinel-coded results.
func (m *Model) Predict(incident string) models.Prediction {
	m.mu.Lock()
	defer m.mu.Unlock()

	if incident == "" {
		predictionsTotal.WithLabelValues("empty_input").Inc()
		return sentinel(models.LabelEmptyInput, m.dbVersion)
	}

	if m.clf == nil {
		m.clf = m.load()
		if m.clf == nil {
			modelLoadsTotal.WithLabelValues("failure").Inc()
			predictionsTotal.WithLabelValues("no_model").Inc()
			return sentinel(models.LabelNoModel, m.dbVersion)
		}
		modelLoadsTotal.WithLabelValues("success").Inc()
	}

	ranking, ok := m.rank(incident)
	if !ok {
		predictionsTotal.WithLabelValues("error").Inc()
		return sentinel(models.LabelPredictError, m.dbVersion)
	}
	predictionsTotal.WithLabelValues("ok").Inc()
	return models.Prediction{Ranking: ranking, DBVersion: m.dbVersion.String()}
}

// rank computes per-class probabilities and keeps the TopN, recovering from
// any panic inside inference.
func (m *Model) rank(incident string) (ranking *models.Ranking, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			m.log.Warnf("The exception happened and the score can not be predicted for %q: %v", incident, r)
			ranking, ok = nil, false
		}
	}()

	probs := m.clf.PredictProba(incident)
	indices := make([]int, len(probs))
	for i := range indices {
		indices[i] = i
	}
	sort.SliceStable(indices, func(a, b int) bool {
		return probs[indices[a]] > probs[indices[b]]
	})

	n := TopN
	if n > len(indices) {
		n = len(indices)
	}
	out := &models.Ranking{
		Labels: make([]string, n),
		Probas: make([]float64, n),
	}
	for i := 0; i < n; i++ {
		out.Labels[i] = m.clf.Classes[indices[i]]
		out.Probas[i] = probs[indices[i]]
	}
	return out, true
}
