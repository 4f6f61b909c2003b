// Package split provides seeded train/test partitioning, quantile-stratified
// partitioning, and v-fold cross-validation folds.
package split

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/amesfit/amesfit/pkg/errors"
)

// Split holds the row indices of a single train/test partition. The two
// sets are disjoint and together cover every row exactly once.
type Split struct {
	Train []int
	Test  []int
}

// InitialSplit shuffles n rows with the given seed and assigns the first
// prop share to the training set.
func InitialSplit(n int, prop float64, seed uint64) (*Split, error) {
	if n <= 1 {
		return nil, errors.NewValueError("InitialSplit", fmt.Sprintf("need at least 2 rows, got %d", n))
	}
	if prop <= 0 || prop >= 1 {
		return nil, errors.NewValueError("InitialSplit", fmt.Sprintf("proportion must be in (0, 1), got %g", prop))
	}

	indices := shuffled(n, seed)
	nTrain := int(math.Round(prop * float64(n)))
	if nTrain == 0 {
		nTrain = 1
	}
	if nTrain == n {
		nTrain = n - 1
	}

	s := &Split{
		Train: append([]int(nil), indices[:nTrain]...),
		Test:  append([]int(nil), indices[nTrain:]...),
	}
	sort.Ints(s.Train)
	sort.Ints(s.Test)
	return s, nil
}

// StratifiedSplit bins y into breaks quantile strata, splits every stratum
// at the same proportion, and merges the per-stratum assignments. This
// keeps the distribution of y close to identical across the two partitions.
func StratifiedSplit(y []float64, prop float64, breaks int, seed uint64) (*Split, error) {
	n := len(y)
	if n <= 1 {
		return nil, errors.NewValueError("StratifiedSplit", fmt.Sprintf("need at least 2 rows, got %d", n))
	}
	if prop <= 0 || prop >= 1 {
		return nil, errors.NewValueError("StratifiedSplit", fmt.Sprintf("proportion must be in (0, 1), got %g", prop))
	}
	if breaks < 2 {
		return nil, errors.NewValueError("StratifiedSplit", fmt.Sprintf("need at least 2 strata, got %d", breaks))
	}

	strata := assignStrata(y, breaks)

	// Group row indices per stratum, then split each group with its own
	// deterministic substream so results do not depend on stratum order.
	groups := make([][]int, breaks)
	for i, s := range strata {
		groups[s] = append(groups[s], i)
	}

	out := &Split{}
	for s, rows := range groups {
		if len(rows) == 0 {
			continue
		}
		if len(rows) < breaks {
			errors.Warn(errors.Newf("stratum %d has only %d rows; the split proportion is approximate there", s, len(rows)))
		}
		perm := shuffled(len(rows), seed+uint64(s)+1)
		nTrain := int(math.Round(prop * float64(len(rows))))
		if nTrain == len(rows) && len(rows) > 1 {
			nTrain = len(rows) - 1
		}
		for i, p := range perm {
			if i < nTrain {
				out.Train = append(out.Train, rows[p])
			} else {
				out.Test = append(out.Test, rows[p])
			}
		}
	}
	sort.Ints(out.Train)
	sort.Ints(out.Test)
	return out, nil
}

// Fold is one train/assessment pair of a v-fold cross-validation.
type Fold struct {
	Train []int
	Test  []int
}

// VFold shuffles n rows and deals them into v folds of near-equal size.
// Each row appears in exactly one assessment set.
func VFold(n, v int, seed uint64) ([]Fold, error) {
	if v < 2 {
		return nil, errors.NewValueError("VFold", fmt.Sprintf("need at least 2 folds, got %d", v))
	}
	if n < v {
		return nil, errors.NewValueError("VFold", fmt.Sprintf("cannot make %d folds from %d rows", v, n))
	}

	indices := shuffled(n, seed)

	folds := make([]Fold, v)
	foldSize := n / v
	remainder := n % v

	cursor := 0
	for f := 0; f < v; f++ {
		size := foldSize
		if f < remainder {
			size++
		}
		test := append([]int(nil), indices[cursor:cursor+size]...)
		train := make([]int, 0, n-size)
		train = append(train, indices[:cursor]...)
		train = append(train, indices[cursor+size:]...)
		sort.Ints(test)
		sort.Ints(train)
		folds[f] = Fold{Train: train, Test: test}
		cursor += size
	}
	return folds, nil
}

// assignStrata maps every value of y to a quantile bin in [0, breaks).
func assignStrata(y []float64, breaks int) []int {
	sorted := append([]float64(nil), y...)
	sort.Float64s(sorted)

	cuts := make([]float64, breaks-1)
	for b := 1; b < breaks; b++ {
		cuts[b-1] = stat.Quantile(float64(b)/float64(breaks), stat.Empirical, sorted, nil)
	}

	strata := make([]int, len(y))
	for i, v := range y {
		s := 0
		for s < len(cuts) && v > cuts[s] {
			s++
		}
		strata[i] = s
	}
	return strata
}

// shuffled returns a permutation of [0, n) from a PCG stream seeded twice
// with seed, matching the seeding convention used elsewhere in the module.
func shuffled(n int, seed uint64) []int {
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	r := rand.New(rand.NewPCG(seed, seed))
	r.Shuffle(n, func(i, j int) {
		indices[i], indices[j] = indices[j], indices[i]
	})
	return indices
}
