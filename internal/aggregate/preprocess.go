package aggregate

import (
	"math"

	"github.com/imera88/datatable/internal/concurrent"

	"github.com/imera88/datatable"
)

// normCoeffs holds the (f,s) pair from spec.md §4.2.2/§4.2.6: member =
// f*v + s maps [min,max] onto [0,cBins). A constant column (min==max)
// maps every value to the bin-space midpoint, 0.5*cBins.
type normCoeffs[T datatable.ColumnFloat] struct{ f, s T }

func setNormCoeffs[T datatable.ColumnFloat](min, max T, cBins float64) normCoeffs[T] {
	eps := epsilon[T]()
	span := max - min
	if span < 0 {
		span = -span
	}
	if span > eps {
		f := T(cBins) * (1 - eps) / (max - min)
		return normCoeffs[T]{f: f, s: -f * min}
	}
	return normCoeffs[T]{f: 0, s: T(0.5 * cBins)}
}

func (c normCoeffs[T]) apply(v T) T { return c.f*v + c.s }

// pmatrix is a n_continuous x k matrix of i.i.d. standard normal
// entries, generated from an instance-scoped seeded PRNG per spec.md
// §4.2.6 and §9's replacement of the process-wide PRNG.
type pmatrix[T datatable.ColumnFloat] [][]T

func generatePMatrix[T datatable.ColumnFloat](nCont, k int, rnd *concurrent.Rand) pmatrix[T] {
	m := make(pmatrix[T], nCont)
	for i := range m {
		m[i] = make([]T, k)
		for j := range m[i] {
			m[i][j] = T(standardNormal(rnd))
		}
	}
	return m
}

// standardNormal draws one standard-normal sample via the Box-Muller
// transform, using this package's own seeded Rand rather than
// math/rand so the whole ND pipeline draws from one deterministic
// source keyed by AggregatorConfig.Seed.
func standardNormal(rnd *concurrent.Rand) float64 {
	u1 := rnd.Float64()
	if u1 <= 0 {
		u1 = 1e-300
	}
	u2 := rnd.Float64()
	return math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
}

// preprocessor turns one input row's continuous-column readings into
// the k-dimensional vector the ND loop clusters over.
type preprocessor[T datatable.ColumnFloat] struct {
	convertors []datatable.ColumnConvertor[T]
	coeffs     []normCoeffs[T]
	proj       pmatrix[T] // nil when k == len(convertors) (no projection)
	k          int
}

func newPreprocessor[T datatable.ColumnFloat](convertors []datatable.ColumnConvertor[T], maxDimensions int, rnd *concurrent.Rand) *preprocessor[T] {
	nCont := len(convertors)
	k := nCont
	if nCont > maxDimensions {
		k = maxDimensions
	}
	coeffs := make([]normCoeffs[T], nCont)
	for i, c := range convertors {
		coeffs[i] = setNormCoeffs(c.Min(), c.Max(), 1)
	}
	p := &preprocessor[T]{convertors: convertors, coeffs: coeffs, k: k}
	if k < nCont {
		p.proj = generatePMatrix[T](nCont, k, rnd)
	}
	return p
}

// row returns the preprocessed member vector for input row i. Without
// projection, a missing input dimension propagates to a NaN entry
// (arithmetic with NaN is itself NaN, so the f*v+s step needs no
// explicit missing check). With projection, missing input dimensions
// are skipped from both the sum and the divisor; a row missing every
// continuous dimension returns an all-NaN vector, which
// calculateDistance then resolves to NaN (zero considered dimensions),
// freezing it apart from every other exemplar rather than merging it
// into one.
func (p *preprocessor[T]) row(i int) []T {
	if p.proj == nil {
		out := make([]T, p.k)
		for d, c := range p.convertors {
			out[d] = p.coeffs[d].apply(c.Read(i))
		}
		return out
	}
	out := make([]T, p.k)
	nonMissing := 0
	for d, c := range p.convertors {
		v := c.Read(i)
		if isNaN(v) {
			continue
		}
		normalized := p.coeffs[d].apply(v)
		for j := 0; j < p.k; j++ {
			out[j] += p.proj[d][j] * normalized
		}
		nonMissing++
	}
	if nonMissing == 0 {
		for j := range out {
			out[j] = T(math.NaN())
		}
		return out
	}
	for j := range out {
		out[j] /= T(nonMissing)
	}
	return out
}
