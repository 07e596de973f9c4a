package classifier

import "math/rand"

// SplitSeed fixes the train/test shuffle so evaluation is reproducible
// across training runs.
const SplitSeed = 27

// TrainTestSplit partitions the dataset into train and test slices,
// stratified by label so each class keeps its proportion in both halves.
// testFraction is clamped to (0, 1).
func TrainTestSplit(docs, labels []string, testFraction float64, seed int64) (trainDocs, testDocs, trainLabels, testLabels []string) {
	if testFraction <= 0 || testFraction >= 1 {
		testFraction = 0.2
	}
	rng := rand.New(rand.NewSource(seed))

	byLabel := make(map[string][]int)
	var order []string
	for i, label := range labels {
		if _, ok := byLabel[label]; !ok {
			order = append(order, label)
		}
		byLabel[label] = append(byLabel[label], i)
	}

	for _, label := range order {
		indices := byLabel[label]
		rng.Shuffle(len(indices), func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})
		nTest := int(float64(len(indices)) * testFraction)
		if nTest == 0 && len(indices) > 1 {
			nTest = 1
		}
		for pos, idx := range indices {
			if pos < nTest {
				testDocs = append(testDocs, docs[idx])
				testLabels = append(testLabels, labels[idx])
			} else {
				trainDocs = append(trainDocs, docs[idx])
				trainLabels = append(trainLabels, labels[idx])
			}
		}
	}
	return trainDocs, testDocs, trainLabels, testLabels
}
