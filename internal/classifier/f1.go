package classifier

// WeightedF1 computes the per-class F1 score averaged with each class
// weighted by its support in yTrue.
func WeightedF1(yTrue, yPred []string) float64 {
	if len(yTrue) == 0 || len(yTrue) != len(yPred) {
		return 0
	}

	support := make(map[string]int)
	tp := make(map[string]int)
	fp := make(map[string]int)
	fn := make(map[string]int)
	for i := range yTrue {
		support[yTrue[i]]++
		if yTrue[i] == yPred[i] {
			tp[yTrue[i]]++
		} else {
			fn[yTrue[i]]++
			fp[yPred[i]]++
		}
	}

	var weighted float64
	for label, n := range support {
		precisionDen := tp[label] + fp[label]
		recallDen := tp[label] + fn[label]
		var precision, recall float64
		if precisionDen > 0 {
			precision = float64(tp[label]) / float64(precisionDen)
		}
		if recallDen > 0 {
			recall = float64(tp[label]) / float64(recallDen)
		}
		var f1 float64
		if precision+recall > 0 {
			f1 = 2 * precision * recall / (precision + recall)
		}
		weighted += f1 * float64(n)
	}
	return weighted / float64(len(yTrue))
}
