package recipe

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/amesfit/amesfit/core/model"
	"github.com/amesfit/amesfit/dataset"
	"github.com/amesfit/amesfit/pkg/errors"
)

// StepPCA replaces the named numeric columns with their first k principal
// components, "pc_1" through "pc_k". Columns are centered with the
// training means before projection; normalize first with StepNormalize
// when the columns are on different scales.
type StepPCA struct {
	model.BaseEstimator
	columns  []string
	k        int
	means    []float64
	loadings *mat.Dense // p×k projection matrix
	variance []float64  // explained variance per retained component
}

// PCA creates a StepPCA retaining k components of the named columns.
func PCA(k int, columns ...string) *StepPCA {
	return &StepPCA{columns: columns, k: k}
}

func (s *StepPCA) Name() string { return "pca" }

func (s *StepPCA) Prep(tbl *dataset.Table) error {
	p := len(s.columns)
	if s.k < 1 || s.k > p {
		return errors.NewValueError("StepPCA", fmt.Sprintf("k must be in [1, %d], got %d", p, s.k))
	}
	X, err := tbl.Matrix(s.columns...)
	if err != nil {
		return err
	}
	n, _ := X.Dims()
	if n <= p {
		return errors.NewValueError("StepPCA", fmt.Sprintf("need more rows (%d) than columns (%d)", n, p))
	}

	s.means = make([]float64, p)
	for j := 0; j < p; j++ {
		var sum float64
		for i := 0; i < n; i++ {
			sum += X.At(i, j)
		}
		s.means[j] = sum / float64(n)
	}

	var pc stat.PC
	if ok := pc.PrincipalComponents(X, nil); !ok {
		return errors.NewModelError("StepPCA", "principal component decomposition failed", errors.ErrSingularMatrix)
	}

	var vectors mat.Dense
	pc.VectorsTo(&vectors)
	s.loadings = mat.NewDense(p, s.k, nil)
	for i := 0; i < p; i++ {
		for j := 0; j < s.k; j++ {
			s.loadings.Set(i, j, vectors.At(i, j))
		}
	}

	vars := pc.VarsTo(nil)
	s.variance = append([]float64(nil), vars[:s.k]...)

	s.SetFitted()
	return nil
}

func (s *StepPCA) Bake(tbl *dataset.Table) (*dataset.Table, error) {
	if !s.IsFitted() {
		return nil, errors.NewNotFittedError("StepPCA", "Bake")
	}
	X, err := tbl.Matrix(s.columns...)
	if err != nil {
		return nil, err
	}
	n, p := X.Dims()

	centered := mat.NewDense(n, p, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < p; j++ {
			centered.Set(i, j, X.At(i, j)-s.means[j])
		}
	}

	var scores mat.Dense
	scores.Mul(centered, s.loadings)

	out, err := tbl.Drop(s.columns...)
	if err != nil {
		return nil, err
	}
	for j := 0; j < s.k; j++ {
		comp := dataset.Column{
			Name:   fmt.Sprintf("pc_%d", j+1),
			Kind:   dataset.Numeric,
			Floats: make([]float64, n),
		}
		for i := 0; i < n; i++ {
			comp.Floats[i] = scores.At(i, j)
		}
		if out, err = out.WithColumn(comp); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// ExplainedVariance returns the variance of each retained component.
func (s *StepPCA) ExplainedVariance() []float64 {
	return append([]float64(nil), s.variance...)
}
