package recipe

import (
	"fmt"
	"math"
	"testing"

	"github.com/amesfit/amesfit/dataset"
	"github.com/amesfit/amesfit/pkg/errors"
)

const tol = 1e-9

func trainTable(t *testing.T) *dataset.Table {
	t.Helper()
	tbl, err := dataset.NewTable(
		dataset.Column{Name: "area", Kind: dataset.Numeric, Floats: []float64{10, 20, 30, 40, 50, 60, 70, 80}},
		dataset.Column{Name: "year", Kind: dataset.Numeric, Floats: []float64{1950, 1960, 1970, 1980, 1990, 2000, 2010, 2020}},
		dataset.Column{Name: "hood", Kind: dataset.String, Strings: []string{"a", "a", "a", "b", "b", "b", "c", "a"}},
	)
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	return tbl
}

func TestRecipePrepBakeConsistency(t *testing.T) {
	train := trainTable(t)
	rec := New(Normalize("area"), Dummy("hood"))

	baked, err := rec.Prep(train)
	if err != nil {
		t.Fatalf("Prep: %v", err)
	}
	area, err := baked.Col("area")
	if err != nil {
		t.Fatalf("Col: %v", err)
	}
	if math.Abs(area.Mean()) > tol {
		t.Errorf("normalized train mean = %g, want 0", area.Mean())
	}

	// New data is scaled with the training statistics, not its own.
	fresh, _ := dataset.NewTable(
		dataset.Column{Name: "area", Kind: dataset.Numeric, Floats: []float64{45}},
		dataset.Column{Name: "year", Kind: dataset.Numeric, Floats: []float64{1985}},
		dataset.Column{Name: "hood", Kind: dataset.String, Strings: []string{"b"}},
	)
	bakedFresh, err := rec.Bake(fresh)
	if err != nil {
		t.Fatalf("Bake: %v", err)
	}
	freshArea, _ := bakedFresh.Col("area")
	// Train mean is 45, so the centered value is exactly 0.
	if math.Abs(freshArea.Floats[0]) > tol {
		t.Errorf("baked value = %g, want 0 (train mean is 45)", freshArea.Floats[0])
	}
	if !bakedFresh.Has("hood_b") || !bakedFresh.Has("hood_c") || bakedFresh.Has("hood") {
		t.Errorf("dummy columns wrong: %v", bakedFresh.Names())
	}
	hb, _ := bakedFresh.Col("hood_b")
	if hb.Floats[0] != 1 {
		t.Errorf("hood_b = %g, want 1", hb.Floats[0])
	}
}

func TestRecipeBakeBeforePrep(t *testing.T) {
	rec := New(Normalize("area"))
	var nfe *errors.NotFittedError
	if _, err := rec.Bake(trainTable(t)); !errors.As(err, &nfe) {
		t.Errorf("Bake() error = %v, want NotFittedError", err)
	}
}

func TestStepLog(t *testing.T) {
	tbl, _ := dataset.NewTable(
		dataset.Column{Name: "v", Kind: dataset.Numeric, Floats: []float64{1, math.E, math.E * math.E}},
	)
	rec := New(Log("v"))
	baked, err := rec.Prep(tbl)
	if err != nil {
		t.Fatalf("Prep: %v", err)
	}
	v, _ := baked.Col("v")
	for i, want := range []float64{0, 1, 2} {
		if math.Abs(v.Floats[i]-want) > tol {
			t.Errorf("log v[%d] = %g, want %g", i, v.Floats[i], want)
		}
	}

	neg, _ := dataset.NewTable(
		dataset.Column{Name: "v", Kind: dataset.Numeric, Floats: []float64{-1}},
	)
	if _, err := rec.Bake(neg); err == nil {
		t.Errorf("Bake() accepted a negative value for log")
	}
}

func TestNumericStepsRejectStringColumns(t *testing.T) {
	train := trainTable(t)
	steps := []Step{
		Log("hood"),
		Normalize("hood"),
		Interact([2]string{"hood", "area"}),
		NaturalSpline("hood", 3),
	}
	for _, s := range steps {
		var ve *errors.ValueError
		if err := s.Prep(train); !errors.As(err, &ve) {
			t.Errorf("%s.Prep() on a string column = %v, want ValueError", s.Name(), err)
		}
	}
}

func TestStepDummyUnknownLevel(t *testing.T) {
	train := trainTable(t)
	rec := New(Dummy("hood"))
	if _, err := rec.Prep(train); err != nil {
		t.Fatalf("Prep: %v", err)
	}

	novel, _ := dataset.NewTable(
		dataset.Column{Name: "area", Kind: dataset.Numeric, Floats: []float64{1}},
		dataset.Column{Name: "year", Kind: dataset.Numeric, Floats: []float64{2000}},
		dataset.Column{Name: "hood", Kind: dataset.String, Strings: []string{"zzz"}},
	)
	var ule *errors.UnknownLevelError
	if _, err := rec.Bake(novel); !errors.As(err, &ule) {
		t.Fatalf("Bake() error = %v, want UnknownLevelError", err)
	}
}

func TestStepOtherPoolsRareAndNovelLevels(t *testing.T) {
	train := trainTable(t)
	// "c" appears once out of 8 rows; threshold 0.25 pools it.
	rec := New(Other(0.25, "hood"), Dummy("hood"))
	baked, err := rec.Prep(train)
	if err != nil {
		t.Fatalf("Prep: %v", err)
	}
	if !baked.Has("hood_b") || !baked.Has("hood_other") {
		t.Errorf("pooled dummy columns wrong: %v", baked.Names())
	}

	// A novel level at bake time lands in "other" instead of erroring.
	novel, _ := dataset.NewTable(
		dataset.Column{Name: "area", Kind: dataset.Numeric, Floats: []float64{1}},
		dataset.Column{Name: "year", Kind: dataset.Numeric, Floats: []float64{2000}},
		dataset.Column{Name: "hood", Kind: dataset.String, Strings: []string{"zzz"}},
	)
	bakedNovel, err := rec.Bake(novel)
	if err != nil {
		t.Fatalf("Bake: %v", err)
	}
	other, _ := bakedNovel.Col("hood_other")
	if other.Floats[0] != 1 {
		t.Errorf("hood_other = %g, want 1", other.Floats[0])
	}
}

func TestStepInteract(t *testing.T) {
	train := trainTable(t)
	rec := New(Interact([2]string{"area", "year"}))
	baked, err := rec.Prep(train)
	if err != nil {
		t.Fatalf("Prep: %v", err)
	}
	prod, err := baked.Col("area_x_year")
	if err != nil {
		t.Fatalf("Col: %v", err)
	}
	if got, want := prod.Floats[0], 10.0*1950.0; math.Abs(got-want) > tol {
		t.Errorf("area_x_year[0] = %g, want %g", got, want)
	}
}

func TestStepNaturalSpline(t *testing.T) {
	floats := make([]float64, 50)
	for i := range floats {
		floats[i] = float64(i)
	}
	tbl, _ := dataset.NewTable(
		dataset.Column{Name: "x", Kind: dataset.Numeric, Floats: floats},
	)

	step := NaturalSpline("x", 4)
	rec := New(step)
	baked, err := rec.Prep(tbl)
	if err != nil {
		t.Fatalf("Prep: %v", err)
	}

	if baked.Has("x") {
		t.Errorf("original column should be replaced, have %v", baked.Names())
	}
	for _, name := range []string{"x_ns_1", "x_ns_2", "x_ns_3", "x_ns_4"} {
		if !baked.Has(name) {
			t.Fatalf("missing basis column %q, have %v", name, baked.Names())
		}
	}
	if got := len(step.Knots()); got != 5 {
		t.Errorf("len(Knots()) = %d, want 5 (df+1)", got)
	}

	// The first basis function is the identity.
	b1, _ := baked.Col("x_ns_1")
	for i := range floats {
		if math.Abs(b1.Floats[i]-floats[i]) > tol {
			t.Fatalf("x_ns_1[%d] = %g, want %g", i, b1.Floats[i], floats[i])
		}
	}

	// Beyond the upper boundary the basis is linear: second differences
	// of each basis function vanish out there.
	far, _ := dataset.NewTable(
		dataset.Column{Name: "x", Kind: dataset.Numeric, Floats: []float64{60, 70, 80}},
	)
	bakedFar, err := rec.Bake(far)
	if err != nil {
		t.Fatalf("Bake: %v", err)
	}
	for j := 1; j <= 4; j++ {
		col, _ := bakedFar.Col(fmt.Sprintf("x_ns_%d", j))
		second := col.Floats[2] - 2*col.Floats[1] + col.Floats[0]
		if math.Abs(second) > 1e-6 {
			t.Errorf("basis %d is not linear beyond the boundary: second difference %g", j, second)
		}
	}

	// A constant column cannot support a spline basis.
	flat, _ := dataset.NewTable(
		dataset.Column{Name: "x", Kind: dataset.Numeric, Floats: []float64{5, 5, 5, 5}},
	)
	if _, err := New(NaturalSpline("x", 3)).Prep(flat); err == nil {
		t.Errorf("Prep() accepted a constant column")
	}
}

func TestStepPCA(t *testing.T) {
	// Two correlated columns plus an independent one.
	n := 30
	a := make([]float64, n)
	b := make([]float64, n)
	c := make([]float64, n)
	for i := 0; i < n; i++ {
		a[i] = float64(i)
		b[i] = 2*float64(i) + math.Sin(float64(i))
		c[i] = math.Cos(float64(3 * i))
	}
	tbl, _ := dataset.NewTable(
		dataset.Column{Name: "a", Kind: dataset.Numeric, Floats: a},
		dataset.Column{Name: "b", Kind: dataset.Numeric, Floats: b},
		dataset.Column{Name: "c", Kind: dataset.Numeric, Floats: c},
	)

	step := PCA(2, "a", "b", "c")
	rec := New(step)
	baked, err := rec.Prep(tbl)
	if err != nil {
		t.Fatalf("Prep: %v", err)
	}

	for _, name := range []string{"pc_1", "pc_2"} {
		if !baked.Has(name) {
			t.Fatalf("missing component column %q, have %v", name, baked.Names())
		}
	}
	for _, name := range []string{"a", "b", "c"} {
		if baked.Has(name) {
			t.Errorf("source column %q should be dropped", name)
		}
	}

	// Scores are centered and components come in decreasing variance.
	pc1, _ := baked.Col("pc_1")
	if math.Abs(pc1.Mean()) > 1e-8 {
		t.Errorf("pc_1 mean = %g, want 0", pc1.Mean())
	}
	vars := step.ExplainedVariance()
	if len(vars) != 2 || vars[0] < vars[1] {
		t.Errorf("ExplainedVariance() = %v, want 2 decreasing values", vars)
	}

	// k larger than the column count is rejected.
	if _, err := New(PCA(5, "a", "b")).Prep(tbl); err == nil {
		t.Errorf("Prep() accepted k > p")
	}
}
