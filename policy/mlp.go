package policy

import (
	"errors"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/weedbox/plo8sim"
)

var (
	ErrWeightShapeMismatch = errors.New("policy: weight shapes do not match network topology")
)

type MLPOptions struct {
	HiddenSizes  []int   `json:"hidden_sizes"`
	LearningRate float64 `json:"learning_rate"`
}

func NewDefaultMLPOptions() *MLPOptions {
	return &MLPOptions{
		HiddenSizes:  []int{256, 128, 64},
		LearningRate: 0.001,
	}
}

// MLP is the fixed-topology decision network: 114 inputs, ReLU hidden
// layers, 5 softmax outputs. It implements Policy and is trained with
// per-action squared error against bootstrapped targets, optimized with
// Adam.
type MLP struct {
	options *MLPOptions
	layers  []*denseLayer
	step    int
}

type denseLayer struct {
	in, out int
	w       *mat.Dense // out×in
	b       *mat.VecDense

	// Adam moments
	mw, vw *mat.Dense
	mb, vb *mat.VecDense
}

const (
	adamBeta1   = 0.9
	adamBeta2   = 0.999
	adamEpsilon = 1e-8
)

// NewMLP builds a network with He-initialized weights drawn from r.
func NewMLP(options *MLPOptions, r *rand.Rand) *MLP {
	sizes := append([]int{InputSize}, options.HiddenSizes...)
	sizes = append(sizes, plo8sim.IntentCount)

	layers := make([]*denseLayer, 0, len(sizes)-1)
	for i := 0; i < len(sizes)-1; i++ {
		layers = append(layers, newDenseLayer(sizes[i], sizes[i+1], r))
	}

	return &MLP{options: options, layers: layers}
}

func newDenseLayer(in, out int, r *rand.Rand) *denseLayer {
	scale := math.Sqrt(2.0 / float64(in))
	weights := make([]float64, in*out)
	for i := range weights {
		weights[i] = r.NormFloat64() * scale
	}

	return &denseLayer{
		in:  in,
		out: out,
		w:   mat.NewDense(out, in, weights),
		b:   mat.NewVecDense(out, nil),
		mw:  mat.NewDense(out, in, nil),
		vw:  mat.NewDense(out, in, nil),
		mb:  mat.NewVecDense(out, nil),
		vb:  mat.NewVecDense(out, nil),
	}
}

// Probs runs a forward pass and returns the softmax action distribution.
func (m *MLP) Probs(state []float32) []float32 {
	_, _, logits := m.forward(stateVector(state))
	probs := softmax(logits)

	out := make([]float32, probs.Len())
	for i := range out {
		out[i] = float32(probs.AtVec(i))
	}
	return out
}

// forward returns per-layer pre-activations, activations (activations[0]
// is the input) and the final logits.
func (m *MLP) forward(x *mat.VecDense) (pre []*mat.VecDense, activations []*mat.VecDense, logits *mat.VecDense) {
	activations = []*mat.VecDense{x}
	a := x

	for i, layer := range m.layers {
		z := mat.NewVecDense(layer.out, nil)
		z.MulVec(layer.w, a)
		z.AddVec(z, layer.b)
		pre = append(pre, z)

		if i == len(m.layers)-1 {
			logits = z
			break
		}

		a = relu(z)
		activations = append(activations, a)
	}
	return pre, activations, logits
}

// Train performs one optimization step over a batch: for each sample the
// predicted probability of the taken action is regressed towards its
// bootstrapped target. Returns the mean squared error of the batch.
func (m *MLP) Train(states [][]float32, actions []int, targets []float32) float64 {
	batch := len(states)
	if batch == 0 {
		return 0
	}

	grads := make([]*layerGrads, len(m.layers))
	for i, layer := range m.layers {
		grads[i] = newLayerGrads(layer)
	}

	loss := 0.0
	for s := 0; s < batch; s++ {
		pre, activations, logits := m.forward(stateVector(states[s]))
		probs := softmax(logits)

		action := actions[s]
		diff := probs.AtVec(action) - float64(targets[s])
		loss += diff * diff

		// dL/dp is non-zero only at the taken action; push it back
		// through the softmax jacobian to get the logit gradient.
		gp := mat.NewVecDense(probs.Len(), nil)
		gp.SetVec(action, 2*diff/float64(batch))
		dz := softmaxBackward(probs, gp)

		for l := len(m.layers) - 1; l >= 0; l-- {
			layer := m.layers[l]
			grads[l].gw.RankOne(grads[l].gw, 1, dz, activations[l])
			grads[l].gb.AddVec(grads[l].gb, dz)

			if l == 0 {
				break
			}

			da := mat.NewVecDense(layer.in, nil)
			da.MulVec(layer.w.T(), dz)
			dz = reluBackward(da, pre[l-1])
		}
	}

	m.step++
	for i, layer := range m.layers {
		layer.applyAdam(grads[i], m.options.LearningRate, m.step)
	}

	return loss / float64(batch)
}

type layerGrads struct {
	gw *mat.Dense
	gb *mat.VecDense
}

func newLayerGrads(layer *denseLayer) *layerGrads {
	return &layerGrads{
		gw: mat.NewDense(layer.out, layer.in, nil),
		gb: mat.NewVecDense(layer.out, nil),
	}
}

func (l *denseLayer) applyAdam(g *layerGrads, lr float64, step int) {
	c1 := 1 - math.Pow(adamBeta1, float64(step))
	c2 := 1 - math.Pow(adamBeta2, float64(step))

	adamUpdate(l.w.RawMatrix().Data, l.mw.RawMatrix().Data, l.vw.RawMatrix().Data, g.gw.RawMatrix().Data, lr, c1, c2)
	adamUpdate(l.b.RawVector().Data, l.mb.RawVector().Data, l.vb.RawVector().Data, g.gb.RawVector().Data, lr, c1, c2)
}

func adamUpdate(params, m1, v1, grad []float64, lr, c1, c2 float64) {
	for i, g := range grad {
		m1[i] = adamBeta1*m1[i] + (1-adamBeta1)*g
		v1[i] = adamBeta2*v1[i] + (1-adamBeta2)*g*g
		mHat := m1[i] / c1
		vHat := v1[i] / c2
		params[i] -= lr * mHat / (math.Sqrt(vHat) + adamEpsilon)
	}
}

// Clone returns a network with the same topology and weights but fresh
// optimizer state, suitable as a target network.
func (m *MLP) Clone() *MLP {
	clone := &MLP{options: m.options}
	for _, layer := range m.layers {
		cl := newDenseLayer(layer.in, layer.out, rand.New(rand.NewSource(0)))
		cl.w.Copy(layer.w)
		cl.b.CopyVec(layer.b)
		clone.layers = append(clone.layers, cl)
	}
	return clone
}

// SyncFrom copies the weights of another network with the same topology.
func (m *MLP) SyncFrom(other *MLP) {
	for i, layer := range m.layers {
		layer.w.Copy(other.layers[i].w)
		layer.b.CopyVec(other.layers[i].b)
	}
}

// LayerWeights is the serializable form of one dense layer.
type LayerWeights struct {
	In  int       `json:"in"`
	Out int       `json:"out"`
	W   []float64 `json:"w"`
	B   []float64 `json:"b"`
}

// Weights snapshots the network parameters.
func (m *MLP) Weights() []LayerWeights {
	weights := make([]LayerWeights, 0, len(m.layers))
	for _, layer := range m.layers {
		weights = append(weights, LayerWeights{
			In:  layer.in,
			Out: layer.out,
			W:   append([]float64{}, layer.w.RawMatrix().Data...),
			B:   append([]float64{}, layer.b.RawVector().Data...),
		})
	}
	return weights
}

// SetWeights restores previously snapshotted parameters.
func (m *MLP) SetWeights(weights []LayerWeights) error {
	if len(weights) != len(m.layers) {
		return ErrWeightShapeMismatch
	}

	for i, layer := range m.layers {
		lw := weights[i]
		if lw.In != layer.in || lw.Out != layer.out ||
			len(lw.W) != layer.in*layer.out || len(lw.B) != layer.out {
			return ErrWeightShapeMismatch
		}
		copy(layer.w.RawMatrix().Data, lw.W)
		copy(layer.b.RawVector().Data, lw.B)
	}
	return nil
}

func stateVector(state []float32) *mat.VecDense {
	x := mat.NewVecDense(len(state), nil)
	for i, v := range state {
		x.SetVec(i, float64(v))
	}
	return x
}

func relu(z *mat.VecDense) *mat.VecDense {
	a := mat.NewVecDense(z.Len(), nil)
	for i := 0; i < z.Len(); i++ {
		if v := z.AtVec(i); v > 0 {
			a.SetVec(i, v)
		}
	}
	return a
}

func reluBackward(da, z *mat.VecDense) *mat.VecDense {
	dz := mat.NewVecDense(da.Len(), nil)
	for i := 0; i < da.Len(); i++ {
		if z.AtVec(i) > 0 {
			dz.SetVec(i, da.AtVec(i))
		}
	}
	return dz
}

func softmax(z *mat.VecDense) *mat.VecDense {
	max := math.Inf(-1)
	for i := 0; i < z.Len(); i++ {
		if v := z.AtVec(i); v > max {
			max = v
		}
	}

	probs := mat.NewVecDense(z.Len(), nil)
	sum := 0.0
	for i := 0; i < z.Len(); i++ {
		e := math.Exp(z.AtVec(i) - max)
		probs.SetVec(i, e)
		sum += e
	}
	for i := 0; i < probs.Len(); i++ {
		probs.SetVec(i, probs.AtVec(i)/sum)
	}
	return probs
}

// softmaxBackward maps an output-space gradient through the softmax
// jacobian: dz_i = p_i * (g_i - Σ_j g_j p_j).
func softmaxBackward(probs, gp *mat.VecDense) *mat.VecDense {
	dot := mat.Dot(gp, probs)
	dz := mat.NewVecDense(probs.Len(), nil)
	for i := 0; i < probs.Len(); i++ {
		dz.SetVec(i, probs.AtVec(i)*(gp.AtVec(i)-dot))
	}
	return dz
}
