package plots

import (
	"os"
	"path/filepath"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/amesfit/amesfit/dataset"
)

func numCol(name string, vals ...float64) *dataset.Column {
	return &dataset.Column{Name: name, Kind: dataset.Numeric, Floats: vals}
}

func assertPNG(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("plot file missing: %v", err)
	}
	if info.Size() == 0 {
		t.Fatalf("plot file %s is empty", path)
	}
}

func TestHistogram(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hist.png")
	col := numCol("sale_price", 100, 120, 130, 130, 150, 180, 200, 250, 400)
	if err := Histogram(col, 5, "Sale price", path); err != nil {
		t.Fatalf("Histogram: %v", err)
	}
	assertPNG(t, path)

	strCol := &dataset.Column{Name: "hood", Kind: dataset.String, Strings: []string{"a"}}
	if err := Histogram(strCol, 5, "", path); err == nil {
		t.Errorf("Histogram() accepted a string column")
	}
}

func TestScatterWithFitLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scatter.png")
	x := numCol("area", 1, 2, 3, 4, 5)
	y := numCol("price", 3, 5, 7, 9, 11)
	if err := Scatter(x, y, &FitLine{Intercept: 1, Slope: 2}, "Price vs area", path); err != nil {
		t.Fatalf("Scatter: %v", err)
	}
	assertPNG(t, path)

	short := numCol("price", 1, 2)
	if err := Scatter(x, short, nil, "", path); err == nil {
		t.Errorf("Scatter() accepted mismatched lengths")
	}
}

func TestPredictedVsActual(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pva.png")
	actual := numCol("price", 3, 5, 7, 9)
	pred := mat.NewDense(4, 1, []float64{3.1, 4.8, 7.2, 8.9})
	if err := PredictedVsActual(actual, pred, "Predicted vs actual", path); err != nil {
		t.Fatalf("PredictedVsActual: %v", err)
	}
	assertPNG(t, path)

	bad := mat.NewDense(4, 2, nil)
	if err := PredictedVsActual(actual, bad, "", path); err == nil {
		t.Errorf("PredictedVsActual() accepted a two-column matrix")
	}
}
