package linear

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/amesfit/amesfit/dataset"
	"github.com/amesfit/amesfit/formula"
	"github.com/amesfit/amesfit/pkg/errors"
)

// designSchema remembers how a formula fit turned a table into a design
// matrix, so prediction on new tables encodes columns identically.
type designSchema struct {
	response string
	terms    []formula.Term
	// levels holds the fit-time levels of each categorical column; the
	// first level is the reference and gets no dummy column.
	levels map[string][]string
	names  []string
}

// newDesignSchema resolves the formula against the fit table and records
// categorical levels using treatment contrasts.
func newDesignSchema(tbl *dataset.Table, f *formula.Formula) (*designSchema, error) {
	s := &designSchema{
		response: f.Response,
		terms:    f.ResolveDot(tbl.Names()),
		levels:   make(map[string][]string),
	}
	if len(s.terms) == 0 {
		return nil, errors.NewFormulaError(f.Raw, len(f.Raw), "formula selects no predictor columns")
	}

	for _, term := range s.terms {
		for _, v := range term.Variables {
			col, err := tbl.Col(v)
			if err != nil {
				return nil, err
			}
			if len(term.Variables) > 1 && col.Kind != dataset.Numeric {
				return nil, errors.NewColumnError("FitFormula", v, "interaction terms require numeric columns")
			}
			if col.Kind == dataset.String {
				if _, seen := s.levels[v]; !seen {
					s.levels[v] = col.Levels()
				}
			}
		}
	}

	// Design column names, in term order.
	for _, term := range s.terms {
		if len(term.Variables) > 1 {
			s.names = append(s.names, term.Name())
			continue
		}
		v := term.Variables[0]
		if levels, ok := s.levels[v]; ok {
			for _, level := range levels[1:] {
				s.names = append(s.names, v+"_"+level)
			}
		} else {
			s.names = append(s.names, v)
		}
	}
	return s, nil
}

// build encodes tbl into a design matrix following the fit-time schema.
// Unseen categorical levels are reported rather than silently zero-encoded.
func (s *designSchema) build(tbl *dataset.Table) (*mat.Dense, error) {
	n := tbl.Rows()
	if n == 0 {
		return nil, errors.NewModelError("designSchema.build", "empty table", errors.ErrEmptyData)
	}

	columns := make([][]float64, 0, len(s.names))
	for _, term := range s.terms {
		if len(term.Variables) > 1 {
			product := make([]float64, n)
			for i := range product {
				product[i] = 1
			}
			for _, v := range term.Variables {
				col, err := tbl.Col(v)
				if err != nil {
					return nil, err
				}
				if col.Kind != dataset.Numeric {
					return nil, errors.NewColumnError("designSchema.build", v, "interaction terms require numeric columns")
				}
				for i := 0; i < n; i++ {
					product[i] *= col.Floats[i]
				}
			}
			columns = append(columns, product)
			continue
		}

		v := term.Variables[0]
		col, err := tbl.Col(v)
		if err != nil {
			return nil, err
		}
		levels, categorical := s.levels[v]
		if categorical {
			if col.Kind != dataset.String {
				return nil, errors.NewColumnError("designSchema.build", v, "was categorical at fit time")
			}
			encoded, err := encodeTreatment(v, col.Strings, levels)
			if err != nil {
				return nil, err
			}
			columns = append(columns, encoded...)
			continue
		}
		if col.Kind != dataset.Numeric {
			return nil, errors.NewColumnError("designSchema.build", v, "was numeric at fit time")
		}
		for i := 0; i < n; i++ {
			if math.IsNaN(col.Floats[i]) {
				return nil, errors.NewColumnError("designSchema.build", v, "contains missing values")
			}
		}
		columns = append(columns, append([]float64(nil), col.Floats...))
	}

	if len(columns) == 0 {
		return nil, errors.NewModelError("designSchema.build", "design matrix has no columns", errors.ErrEmptyData)
	}
	out := mat.NewDense(n, len(columns), nil)
	for j, c := range columns {
		for i := 0; i < n; i++ {
			out.Set(i, j, c[i])
		}
	}
	return out, nil
}

// encodeTreatment one-hot encodes values against the fit-time levels,
// dropping the first (reference) level.
func encodeTreatment(column string, values, levels []string) ([][]float64, error) {
	index := make(map[string]int, len(levels))
	for i, level := range levels {
		index[level] = i
	}

	dummies := make([][]float64, len(levels)-1)
	for j := range dummies {
		dummies[j] = make([]float64, len(values))
	}
	for i, v := range values {
		li, ok := index[v]
		if !ok {
			return nil, errors.NewUnknownLevelError(column, v, levels)
		}
		if li > 0 {
			dummies[li-1][i] = 1
		}
	}
	return dummies, nil
}

// FitFormula fits a regression from a formula over a table, the second
// calling convention next to Fit on explicit matrices. String columns are
// dummy-encoded with treatment contrasts and the encoding is replayed by
// PredictTable.
func FitFormula(tbl *dataset.Table, spec string, options ...Option) (*Regression, error) {
	f, err := formula.Parse(spec)
	if err != nil {
		return nil, err
	}

	respCol, err := tbl.Col(f.Response)
	if err != nil {
		return nil, err
	}
	if respCol.Kind != dataset.Numeric {
		return nil, errors.NewColumnError("FitFormula", f.Response, "response must be numeric")
	}

	schema, err := newDesignSchema(tbl, f)
	if err != nil {
		return nil, err
	}
	X, err := schema.build(tbl)
	if err != nil {
		return nil, err
	}
	y, err := tbl.Vector(f.Response)
	if err != nil {
		return nil, err
	}

	r := NewRegression(options...)
	r.schema = schema
	r.featureNames = append([]string(nil), schema.names...)
	if err := r.Fit(X, y); err != nil {
		return nil, err
	}
	return r, nil
}

// PredictTable predicts on a table using the schema captured by FitFormula.
func (r *Regression) PredictTable(tbl *dataset.Table) (mat.Matrix, error) {
	if !r.IsFitted() {
		return nil, errors.NewNotFittedError("Regression", "PredictTable")
	}
	if r.schema == nil {
		return nil, errors.NewValueError("Regression.PredictTable", "model was not fitted from a formula; use Predict")
	}
	X, err := r.schema.build(tbl)
	if err != nil {
		return nil, err
	}
	return r.Predict(X)
}

// Response returns the response column name of a formula fit, or "".
func (r *Regression) Response() string {
	if r.schema == nil {
		return ""
	}
	return r.schema.response
}
