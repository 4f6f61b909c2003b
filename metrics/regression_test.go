package metrics

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestMSE(t *testing.T) {
	tests := []struct {
		name    string
		yTrue   *mat.VecDense
		yPred   *mat.VecDense
		want    float64
		wantErr bool
	}{
		{
			name:  "perfect prediction",
			yTrue: mat.NewVecDense(5, []float64{1, 2, 3, 4, 5}),
			yPred: mat.NewVecDense(5, []float64{1, 2, 3, 4, 5}),
			want:  0,
		},
		{
			name:  "constant half-unit error",
			yTrue: mat.NewVecDense(4, []float64{1, 2, 3, 4}),
			yPred: mat.NewVecDense(4, []float64{1.5, 2.5, 2.5, 3.5}),
			want:  0.25,
		},
		{
			name:    "dimension mismatch",
			yTrue:   mat.NewVecDense(3, []float64{1, 2, 3}),
			yPred:   mat.NewVecDense(2, []float64{1, 2}),
			wantErr: true,
		},
		{
			name:    "empty vectors",
			yTrue:   &mat.VecDense{},
			yPred:   &mat.VecDense{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MSE(tt.yTrue, tt.yPred)
			if (err != nil) != tt.wantErr {
				t.Fatalf("MSE() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && math.Abs(got-tt.want) > 1e-10 {
				t.Errorf("MSE() = %g, want %g", got, tt.want)
			}
		})
	}
}

func TestRMSE(t *testing.T) {
	yTrue := mat.NewVecDense(4, []float64{1, 2, 3, 4})
	yPred := mat.NewVecDense(4, []float64{1.5, 2.5, 2.5, 3.5})

	got, err := RMSE(yTrue, yPred)
	if err != nil {
		t.Fatalf("RMSE: %v", err)
	}
	if math.Abs(got-0.5) > 1e-10 {
		t.Errorf("RMSE() = %g, want 0.5", got)
	}
}

func TestMAE(t *testing.T) {
	yTrue := mat.NewVecDense(3, []float64{10, 20, 30})
	yPred := mat.NewVecDense(3, []float64{12, 18, 33})

	got, err := MAE(yTrue, yPred)
	if err != nil {
		t.Fatalf("MAE: %v", err)
	}
	if math.Abs(got-7.0/3.0) > 1e-10 {
		t.Errorf("MAE() = %g, want %g", got, 7.0/3.0)
	}
}

func TestR2(t *testing.T) {
	yTrue := mat.NewVecDense(5, []float64{2, 4, 5, 4, 5})
	yPred := mat.NewVecDense(5, []float64{2.8, 3.4, 4, 4.6, 5.2})

	got, err := R2(yTrue, yPred)
	if err != nil {
		t.Fatalf("R2: %v", err)
	}
	if math.Abs(got-0.6) > 1e-10 {
		t.Errorf("R2() = %g, want 0.6", got)
	}

	flat := mat.NewVecDense(3, []float64{4, 4, 4})
	if _, err := R2(flat, flat); err == nil {
		t.Errorf("R2() accepted a constant yTrue")
	}
}

func TestMAPE(t *testing.T) {
	yTrue := mat.NewVecDense(3, []float64{100, 0, 200})
	yPred := mat.NewVecDense(3, []float64{110, 5, 180})

	got, err := MAPE(yTrue, yPred)
	if err != nil {
		t.Fatalf("MAPE: %v", err)
	}
	// Zero-valued row is skipped: mean of 10% and 10%.
	if math.Abs(got-10) > 1e-10 {
		t.Errorf("MAPE() = %g, want 10", got)
	}

	zeros := mat.NewVecDense(2, []float64{0, 0})
	if _, err := MAPE(zeros, zeros); err == nil {
		t.Errorf("MAPE() accepted all-zero yTrue")
	}
}

func TestColumnVec(t *testing.T) {
	m := mat.NewDense(3, 1, []float64{1, 2, 3})
	v, err := ColumnVec(m)
	if err != nil {
		t.Fatalf("ColumnVec: %v", err)
	}
	if v.Len() != 3 || v.AtVec(2) != 3 {
		t.Errorf("ColumnVec() = %v", mat.Formatted(v))
	}

	wide := mat.NewDense(2, 2, []float64{1, 2, 3, 4})
	if _, err := ColumnVec(wide); err == nil {
		t.Errorf("ColumnVec() accepted a two-column matrix")
	}
}
