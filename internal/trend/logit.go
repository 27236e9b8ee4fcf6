package trend

import "math"

// scaler standardizes features to zero mean and unit variance, fit on
// training rows only.
type scaler struct {
	mean []float64
	std  []float64
}

func fitScaler(rows [][]float64) *scaler {
	nFeat := len(rows[0])
	s := &scaler{mean: make([]float64, nFeat), std: make([]float64, nFeat)}

	for _, r := range rows {
		for j, v := range r {
			s.mean[j] += v
		}
	}
	for j := range s.mean {
		s.mean[j] /= float64(len(rows))
	}

	for _, r := range rows {
		for j, v := range r {
			d := v - s.mean[j]
			s.std[j] += d * d
		}
	}
	for j := range s.std {
		s.std[j] = math.Sqrt(s.std[j] / float64(len(rows)))
		// A constant feature carries no information; leave it centered.
		if s.std[j] == 0 {
			s.std[j] = 1
		}
	}
	return s
}

func (s *scaler) transform(row []float64) []float64 {
	out := make([]float64, len(row))
	for j, v := range row {
		out[j] = (v - s.mean[j]) / s.std[j]
	}
	return out
}

// logit is a binary logistic-regression classifier fit by batch gradient
// descent. The feature space here is tiny (three standardized indicators
// over a few dozen rows), so plain full-batch descent converges fast.
type logit struct {
	weights []float64
	bias    float64
	lr      float64
	epochs  int
}

func newLogit(nFeatures int) *logit {
	return &logit{
		weights: make([]float64, nFeatures),
		lr:      0.5,
		epochs:  500,
	}
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

func (m *logit) fit(x [][]float64, y []int) {
	n := float64(len(x))
	gradW := make([]float64, len(m.weights))

	for epoch := 0; epoch < m.epochs; epoch++ {
		for j := range gradW {
			gradW[j] = 0
		}
		gradB := 0.0

		for i, row := range x {
			err := sigmoid(m.decision(row)) - float64(y[i])
			for j, v := range row {
				gradW[j] += err * v
			}
			gradB += err
		}

		for j := range m.weights {
			m.weights[j] -= m.lr * gradW[j] / n
		}
		m.bias -= m.lr * gradB / n
	}
}

func (m *logit) decision(row []float64) float64 {
	z := m.bias
	for j, v := range row {
		z += m.weights[j] * v
	}
	return z
}

// predictProba returns P(label = 1) for a single feature row.
func (m *logit) predictProba(row []float64) float64 {
	return sigmoid(m.decision(row))
}
