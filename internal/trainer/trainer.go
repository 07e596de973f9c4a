package trainer

import (
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"attribgraph/internal/classifier"
	"attribgraph/internal/logger"
	"attribgraph/internal/synth"
	"attribgraph/pkg/models"
)

// DefaultPerLabel is the number of incidents synthesized per intrusion set.
const DefaultPerLabel = 100

const testFraction = 0.2

// Trainer builds a labeled synthetic corpus from intrusion-set profiles and
// fits the attribution classifier on it.
type Trainer struct {
	profiles map[string]*models.IntrusionSet
	version  models.Version
	perLabel int
	log      *logger.Logger
}

// Result is the outcome of one training run. Model is nil when training
// failed; Version is resolved either way.
type Result struct {
	Model    *classifier.BernoulliNB
	F1Score  float64
	Version  models.Version
	Metadata models.ModelMetadata
}

// New creates a trainer over the label-keyed profiles. The version bump
// policy: a caller version strictly greater than the compiled-in baseline
// gets its micro component incremented; anything else resolves to the
// baseline unchanged.
func New(profiles map[string]*models.IntrusionSet, callerVersion models.Version, log *logger.Logger) *Trainer {
	resolved := models.DefaultVersion
	if models.DefaultVersion.Less(callerVersion) {
		resolved = callerVersion.Increment()
	}

	t := &Trainer{
		profiles: profiles,
		version:  resolved,
		perLabel: DefaultPerLabel,
		log:      log,
	}
	t.log.Infof("The number of intrusion set items %d", len(profiles))
	t.log.Infof("The data version is %s", t.version)
	return t
}

// SetPerLabel overrides the per-label incident count; values below 1 keep
// the default.
func (t *Trainer) SetPerLabel(n int) {
	if n >= 1 {
		t.perLabel = n
	}
}

// BuildCorpus synthesizes the labeled dataset: perLabel incidents per
// profile, each joined into one space-separated document. Incidents with no
// tokens become a single-space placeholder so the vectorizer never sees a
// degenerate empty document.
func (t *Trainer) BuildCorpus(rng *rand.Rand) (docs []string, labels []string, err error) {
	gen, err := synth.NewGenerator(rng)
	if err != nil {
		return nil, nil, err
	}

	for label, profile := range t.profiles {
		for i := 0; i < t.perLabel; i++ {
			doc := strings.Join(gen.Generate(profile), " ")
			if doc == "" {
				doc = " "
			}
			docs = append(docs, doc)
			labels = append(labels, label)
		}
	}
	return docs, labels, nil
}

// Retrain builds the corpus, fits the classifier and evaluates it on a
// held-out stratified split. Any failure is logged and reported as a nil
// result; Retrain never panics past its boundary.
func (t *Trainer) Retrain() *Result {
	rng := rand.New(rand.NewSource(classifier.SplitSeed))
	docs, labels, err := t.BuildCorpus(rng)
	if err != nil {
		t.log.Errorf("Failed to build incident corpus: %v", err)
		return nil
	}

	trainDocs, testDocs, trainLabels, testLabels := classifier.TrainTestSplit(docs, labels, testFraction, classifier.SplitSeed)

	model, err := classifier.Fit(trainDocs, trainLabels)
	if err != nil {
		t.log.Errorf("Training failed: %v", err)
		return nil
	}

	preds := make([]string, len(testDocs))
	for i, doc := range testDocs {
		preds[i] = model.Predict(doc)
	}
	f1 := classifier.WeightedF1(testLabels, preds)
	t.log.Infof("Training complete: %d samples, %d labels, weighted f1=%.4f", len(docs), len(t.profiles), f1)

	return &Result{
		Model:   model,
		F1Score: f1,
		Version: t.version,
		Metadata: models.ModelMetadata{
			DBVersion:   t.version.String(),
			RunID:       uuid.NewString(),
			CreatedAt:   time.Now().UTC(),
			SampleCount: len(docs),
			LabelCount:  len(t.profiles),
			F1Score:     f1,
		},
	}
}
