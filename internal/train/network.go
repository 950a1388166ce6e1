package train

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// Network is a small feed-forward regressor: one ReLU hidden layer with
// dropout, a single linear output unit, trained by minibatch SGD against
// mean-squared error.
type Network struct {
	inputs  int
	hidden  int
	dropout float64
	lr      float64

	w1 *mat.Dense // inputs x hidden
	b1 []float64
	w2 *mat.Dense // hidden x 1
	b2 float64

	rng *rand.Rand
}

// NewNetwork initializes weights with He scaling from a seeded generator,
// so repeated training runs on the same data are reproducible.
func NewNetwork(inputs, hidden int, dropout, lr float64, seed int64) *Network {
	rng := rand.New(rand.NewSource(seed))

	n := &Network{
		inputs:  inputs,
		hidden:  hidden,
		dropout: dropout,
		lr:      lr,
		b1:      make([]float64, hidden),
		rng:     rng,
	}

	w1 := make([]float64, inputs*hidden)
	scale1 := math.Sqrt(2.0 / float64(inputs))
	for i := range w1 {
		w1[i] = rng.NormFloat64() * scale1
	}
	n.w1 = mat.NewDense(inputs, hidden, w1)

	w2 := make([]float64, hidden)
	scale2 := math.Sqrt(2.0 / float64(hidden))
	for i := range w2 {
		w2[i] = rng.NormFloat64() * scale2
	}
	n.w2 = mat.NewDense(hidden, 1, w2)

	return n
}

// Fit trains on x/y for the given epoch budget, processing minibatches of
// at most batchSize rows. Row order is reshuffled each epoch from the
// network's own seeded generator.
func (n *Network) Fit(x [][]float64, y []float64, epochs, batchSize int) {
	if len(x) == 0 || batchSize <= 0 {
		return
	}

	idx := make([]int, len(x))
	for i := range idx {
		idx[i] = i
	}

	for epoch := 0; epoch < epochs; epoch++ {
		n.rng.Shuffle(len(idx), func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })

		for start := 0; start < len(idx); start += batchSize {
			end := start + batchSize
			if end > len(idx) {
				end = len(idx)
			}
			n.step(x, y, idx[start:end])
		}
	}
}

// step runs one forward/backward pass over a minibatch and applies SGD.
func (n *Network) step(x [][]float64, y []float64, batch []int) {
	m := len(batch)

	xb := mat.NewDense(m, n.inputs, nil)
	yb := make([]float64, m)
	for i, row := range batch {
		xb.SetRow(i, x[row])
		yb[i] = y[row]
	}

	// Forward: z1 = xb*w1 + b1, a1 = dropout(relu(z1)), out = a1*w2 + b2
	var z1 mat.Dense
	z1.Mul(xb, n.w1)

	a1 := mat.NewDense(m, n.hidden, nil)
	mask := mat.NewDense(m, n.hidden, nil)
	keep := 1 - n.dropout
	for i := 0; i < m; i++ {
		for j := 0; j < n.hidden; j++ {
			v := z1.At(i, j) + n.b1[j]
			if v <= 0 {
				continue
			}
			// Inverted dropout keeps inference scale-free.
			if n.dropout > 0 && n.rng.Float64() < n.dropout {
				continue
			}
			scale := 1.0
			if n.dropout > 0 {
				scale = 1 / keep
			}
			a1.Set(i, j, v*scale)
			mask.Set(i, j, scale)
		}
	}

	var out mat.Dense
	out.Mul(a1, n.w2)

	// Backward: dLoss/dOut for MSE.
	dOut := mat.NewDense(m, 1, nil)
	for i := 0; i < m; i++ {
		dOut.Set(i, 0, 2*(out.At(i, 0)+n.b2-yb[i])/float64(m))
	}

	var dW2 mat.Dense
	dW2.Mul(a1.T(), dOut)

	var dB2 float64
	for i := 0; i < m; i++ {
		dB2 += dOut.At(i, 0)
	}

	var dA1 mat.Dense
	dA1.Mul(dOut, n.w2.T())
	dA1.MulElem(&dA1, mask)

	var dW1 mat.Dense
	dW1.Mul(xb.T(), &dA1)

	dB1 := make([]float64, n.hidden)
	for j := 0; j < n.hidden; j++ {
		for i := 0; i < m; i++ {
			dB1[j] += dA1.At(i, j)
		}
	}

	// SGD update.
	n.w1.Apply(func(i, j int, v float64) float64 { return v - n.lr*dW1.At(i, j) }, n.w1)
	n.w2.Apply(func(i, j int, v float64) float64 { return v - n.lr*dW2.At(i, j) }, n.w2)
	for j := range n.b1 {
		n.b1[j] -= n.lr * dB1[j]
	}
	n.b2 -= n.lr * dB2
}

// Predict runs inference (no dropout) over x.
func (n *Network) Predict(x [][]float64) []float64 {
	out := make([]float64, len(x))
	for i, row := range x {
		out[i] = n.predictRow(row)
	}
	return out
}

func (n *Network) predictRow(row []float64) float64 {
	var sum float64
	for j := 0; j < n.hidden; j++ {
		var z float64
		for k := 0; k < n.inputs; k++ {
			z += row[k] * n.w1.At(k, j)
		}
		z += n.b1[j]
		if z > 0 {
			sum += z * n.w2.At(j, 0)
		}
	}
	return sum + n.b2
}

// Loss computes mean-squared error over x/y.
func (n *Network) Loss(x [][]float64, y []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	var ss float64
	for i, row := range x {
		d := n.predictRow(row) - y[i]
		ss += d * d
	}
	return ss / float64(len(x))
}

// Weights exports the trained parameters for persistence.
func (n *Network) Weights() (w1 [][]float64, b1 []float64, w2 []float64, b2 float64) {
	w1 = make([][]float64, n.inputs)
	for i := 0; i < n.inputs; i++ {
		w1[i] = make([]float64, n.hidden)
		for j := 0; j < n.hidden; j++ {
			w1[i][j] = n.w1.At(i, j)
		}
	}
	b1 = append([]float64(nil), n.b1...)
	w2 = make([]float64, n.hidden)
	for j := 0; j < n.hidden; j++ {
		w2[j] = n.w2.At(j, 0)
	}
	return w1, b1, w2, n.b2
}
