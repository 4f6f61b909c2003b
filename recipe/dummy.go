package recipe

import (
	"fmt"
	"sort"

	"github.com/amesfit/amesfit/core/model"
	"github.com/amesfit/amesfit/dataset"
	"github.com/amesfit/amesfit/pkg/errors"
)

// StepDummy one-hot encodes the named string columns with treatment
// contrasts: levels are fixed at prep time, sorted, and the first level is
// the reference with no indicator column. A level at bake time that was
// never seen during prep is an UnknownLevelError; pool rare and novel
// levels first with StepOther when that is not acceptable.
type StepDummy struct {
	model.BaseEstimator
	columns []string
	levels  map[string][]string
}

// Dummy creates a StepDummy over the named columns.
func Dummy(columns ...string) *StepDummy {
	return &StepDummy{columns: columns}
}

func (s *StepDummy) Name() string { return "dummy" }

func (s *StepDummy) Prep(tbl *dataset.Table) error {
	s.levels = make(map[string][]string, len(s.columns))
	for _, name := range s.columns {
		col, err := tbl.Col(name)
		if err != nil {
			return err
		}
		if col.Kind != dataset.String {
			return errors.NewColumnError("StepDummy", name, "not a string column")
		}
		levels := col.Levels()
		if len(levels) < 2 {
			return errors.NewColumnError("StepDummy", name, fmt.Sprintf("needs at least 2 levels, found %d", len(levels)))
		}
		s.levels[name] = levels
	}
	s.SetFitted()
	return nil
}

func (s *StepDummy) Bake(tbl *dataset.Table) (*dataset.Table, error) {
	if !s.IsFitted() {
		return nil, errors.NewNotFittedError("StepDummy", "Bake")
	}
	out := tbl
	for _, name := range s.columns {
		col, err := out.Col(name)
		if err != nil {
			return nil, err
		}
		if col.Kind != dataset.String {
			return nil, errors.NewColumnError("StepDummy", name, "not a string column")
		}

		levels := s.levels[name]
		index := make(map[string]int, len(levels))
		for i, level := range levels {
			index[level] = i
		}

		dummies := make([]dataset.Column, len(levels)-1)
		for j, level := range levels[1:] {
			dummies[j] = dataset.Column{
				Name:   name + "_" + level,
				Kind:   dataset.Numeric,
				Floats: make([]float64, col.Len()),
			}
		}
		for i, v := range col.Strings {
			li, ok := index[v]
			if !ok {
				return nil, errors.NewUnknownLevelError(name, v, levels)
			}
			if li > 0 {
				dummies[li-1].Floats[i] = 1
			}
		}

		if out, err = out.Drop(name); err != nil {
			return nil, err
		}
		for _, d := range dummies {
			if out, err = out.WithColumn(d); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

// Levels returns the prep-time levels of a column, reference level first.
func (s *StepDummy) Levels(column string) []string {
	return append([]string(nil), s.levels[column]...)
}

// StepOther pools infrequent levels of the named string columns into a
// single "other" level. A level is kept when its training share is at
// least threshold. Bake maps any level outside the kept set, including
// levels never seen in training, to "other".
type StepOther struct {
	model.BaseEstimator
	columns   []string
	threshold float64
	kept      map[string]map[string]struct{}
}

// OtherLevel is the pooled level name StepOther produces.
const OtherLevel = "other"

// Other creates a StepOther with the given frequency threshold in (0, 1).
func Other(threshold float64, columns ...string) *StepOther {
	return &StepOther{columns: columns, threshold: threshold}
}

func (s *StepOther) Name() string { return "other" }

func (s *StepOther) Prep(tbl *dataset.Table) error {
	if s.threshold <= 0 || s.threshold >= 1 {
		return errors.NewValueError("StepOther", fmt.Sprintf("threshold must be in (0, 1), got %g", s.threshold))
	}
	s.kept = make(map[string]map[string]struct{}, len(s.columns))
	for _, name := range s.columns {
		col, err := tbl.Col(name)
		if err != nil {
			return err
		}
		if col.Kind != dataset.String {
			return errors.NewColumnError("StepOther", name, "not a string column")
		}

		counts := make(map[string]int)
		for _, v := range col.Strings {
			counts[v]++
		}
		kept := make(map[string]struct{})
		minCount := s.threshold * float64(col.Len())
		for level, c := range counts {
			if float64(c) >= minCount {
				kept[level] = struct{}{}
			}
		}
		s.kept[name] = kept
	}
	s.SetFitted()
	return nil
}

func (s *StepOther) Bake(tbl *dataset.Table) (*dataset.Table, error) {
	if !s.IsFitted() {
		return nil, errors.NewNotFittedError("StepOther", "Bake")
	}
	out := tbl
	for _, name := range s.columns {
		col, err := out.Col(name)
		if err != nil {
			return nil, err
		}
		if col.Kind != dataset.String {
			return nil, errors.NewColumnError("StepOther", name, "not a string column")
		}

		kept := s.kept[name]
		pooled := dataset.Column{Name: name, Kind: dataset.String, Strings: make([]string, col.Len())}
		for i, v := range col.Strings {
			if _, ok := kept[v]; ok {
				pooled.Strings[i] = v
			} else {
				pooled.Strings[i] = OtherLevel
			}
		}
		if out, err = out.WithColumn(pooled); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// KeptLevels returns the sorted levels a column keeps after pooling.
func (s *StepOther) KeptLevels(column string) []string {
	kept := make([]string, 0, len(s.kept[column]))
	for level := range s.kept[column] {
		kept = append(kept, level)
	}
	sort.Strings(kept)
	return kept
}
