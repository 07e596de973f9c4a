package classifier

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
)

// BernoulliNB is a multi-class naive Bayes classifier over binary
// presence/absence token features. Documents are whitespace-tokenized; token
// counts are ignored, only presence matters.
type BernoulliNB struct {
	Classes []string `json:"classes"`
	// Vocabulary maps token -> feature index.
	Vocabulary map[string]int `json:"vocabulary"`
	// ClassLogPrior holds log P(class), indexed like Classes.
	ClassLogPrior []float64 `json:"class_log_prior"`
	// FeatureLogProb[c][f] holds log P(feature f present | class c), Laplace
	// smoothed. The complement log(1-p) is derived at prediction time.
	FeatureLogProb [][]float64 `json:"feature_log_prob"`
}

// Tokenize splits a document on single spaces, matching the training-time
// vectorizer. Empty documents yield one empty token, so a placeholder
// whitespace document stays a valid (all-absent) feature vector.
func Tokenize(doc string) []string {
	return strings.Split(doc, " ")
}

func presentFeatures(vocab map[string]int, doc string) map[int]struct{} {
	present := make(map[int]struct{})
	for _, tok := range Tokenize(doc) {
		if idx, ok := vocab[tok]; ok {
			present[idx] = struct{}{}
		}
	}
	return present
}

// Fit trains the classifier on parallel document and label slices. At least
// two distinct labels are required.
func Fit(docs []string, labels []string) (*BernoulliNB, error) {
	if len(docs) == 0 || len(docs) != len(labels) {
		return nil, fmt.Errorf("invalid training data: %d docs, %d labels", len(docs), len(labels))
	}

	classIndex := make(map[string]int)
	var classes []string
	for _, label := range labels {
		if _, ok := classIndex[label]; !ok {
			classIndex[label] = len(classes)
			classes = append(classes, label)
		}
	}
	if len(classes) < 2 {
		return nil, fmt.Errorf("need at least 2 distinct labels, got %d", len(classes))
	}
	sort.Strings(classes)
	for i, c := range classes {
		classIndex[c] = i
	}

	vocab := make(map[string]int)
	for _, doc := range docs {
		for _, tok := range Tokenize(doc) {
			if _, ok := vocab[tok]; !ok {
				vocab[tok] = len(vocab)
			}
		}
	}

	classCounts := make([]int, len(classes))
	// featureCounts[c][f] = number of class-c documents containing feature f.
	featureCounts := make([][]int, len(classes))
	for i := range featureCounts {
		featureCounts[i] = make([]int, len(vocab))
	}

	for i, doc := range docs {
		c := classIndex[labels[i]]
		classCounts[c]++
		for f := range presentFeatures(vocab, doc) {
			featureCounts[c][f]++
		}
	}

	nb := &BernoulliNB{
		Classes:        classes,
		Vocabulary:     vocab,
		ClassLogPrior:  make([]float64, len(classes)),
		FeatureLogProb: make([][]float64, len(classes)),
	}
	total := float64(len(docs))
	for c := range classes {
		nb.ClassLogPrior[c] = math.Log(float64(classCounts[c]) / total)
		nb.FeatureLogProb[c] = make([]float64, len(vocab))
		smoothedTotal := float64(classCounts[c]) + 2
		for f := 0; f < len(vocab); f++ {
			nb.FeatureLogProb[c][f] = math.Log((float64(featureCounts[c][f]) + 1) / smoothedTotal)
		}
	}
	return nb, nil
}

// logLikelihoods returns the unnormalized per-class log joint probabilities.
func (nb *BernoulliNB) logLikelihoods(doc string) []float64 {
	present := presentFeatures(nb.Vocabulary, doc)
	scores := make([]float64, len(nb.Classes))
	for c := range nb.Classes {
		score := nb.ClassLogPrior[c]
		for f := 0; f < len(nb.Vocabulary); f++ {
			logP := nb.FeatureLogProb[c][f]
			if _, ok := present[f]; ok {
				score += logP
			} else {
				// log(1 - p) from log p, numerically stable for p < 1.
				score += math.Log1p(-math.Exp(logP))
			}
		}
		scores[c] = score
	}
	return scores
}

// PredictProba returns normalized class probabilities for the document,
// indexed like Classes.
func (nb *BernoulliNB) PredictProba(doc string) []float64 {
	scores := nb.logLikelihoods(doc)

	maxScore := scores[0]
	for _, s := range scores[1:] {
		if s > maxScore {
			maxScore = s
		}
	}
	probs := make([]float64, len(scores))
	var total float64
	for i, s := range scores {
		probs[i] = math.Exp(s - maxScore)
		total += probs[i]
	}
	for i := range probs {
		probs[i] /= total
	}
	return probs
}

// Predict returns the most likely class for the document.
func (nb *BernoulliNB) Predict(doc string) string {
	scores := nb.logLikelihoods(doc)
	best := 0
	for i, s := range scores {
		if s > scores[best] {
			best = i
		}
	}
	return nb.Classes[best]
}

// Marshal serializes the fitted classifier to JSON.
func (nb *BernoulliNB) Marshal() ([]byte, error) {
	return json.Marshal(nb)
}

// Unmarshal deserializes a classifier blob. A structurally empty model
// (no classes or vocabulary) is rejected so a corrupt artifact cannot be
// served.
func Unmarshal(data []byte) (*BernoulliNB, error) {
	var nb BernoulliNB
	if err := json.Unmarshal(data, &nb); err != nil {
		return nil, err
	}
	if len(nb.Classes) == 0 || len(nb.Vocabulary) == 0 {
		return nil, fmt.Errorf("model blob holds no fitted classifier")
	}
	return &nb, nil
}
