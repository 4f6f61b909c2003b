// Package metrics provides the regression error metrics the workflow
// reports on held-out data.
package metrics

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/amesfit/amesfit/pkg/errors"
)

func validate(op string, yTrue, yPred *mat.VecDense) (int, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError(op, "empty vector")
	}
	if yPred.Len() != n {
		return 0, errors.NewDimensionError(op, n, yPred.Len(), 0)
	}
	return n, nil
}

// MSE returns the mean squared error.
func MSE(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := validate("MSE", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	var sum float64
	for i := 0; i < n; i++ {
		diff := yTrue.AtVec(i) - yPred.AtVec(i)
		sum += diff * diff
	}
	return sum / float64(n), nil
}

// RMSE returns the root mean squared error.
func RMSE(yTrue, yPred *mat.VecDense) (float64, error) {
	mse, err := MSE(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// MAE returns the mean absolute error.
func MAE(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := validate("MAE", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	var sum float64
	for i := 0; i < n; i++ {
		sum += math.Abs(yTrue.AtVec(i) - yPred.AtVec(i))
	}
	return sum / float64(n), nil
}

// R2 returns the coefficient of determination.
func R2(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := validate("R2", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	var yMean float64
	for i := 0; i < n; i++ {
		yMean += yTrue.AtVec(i)
	}
	yMean /= float64(n)

	var tss, rss float64
	for i := 0; i < n; i++ {
		dev := yTrue.AtVec(i) - yMean
		resid := yTrue.AtVec(i) - yPred.AtVec(i)
		tss += dev * dev
		rss += resid * resid
	}
	if tss == 0 {
		return 0, errors.NewValueError("R2", "no variance in yTrue")
	}
	return 1 - rss/tss, nil
}

// MAPE returns the mean absolute percentage error over the rows where
// yTrue is nonzero.
func MAPE(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := validate("MAPE", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	var sum float64
	valid := 0
	for i := 0; i < n; i++ {
		yt := yTrue.AtVec(i)
		if yt == 0 {
			continue
		}
		sum += math.Abs(yt-yPred.AtVec(i)) / math.Abs(yt)
		valid++
	}
	if valid == 0 {
		return 0, errors.NewValueError("MAPE", "all yTrue values are zero")
	}
	return sum / float64(valid) * 100, nil
}

// ColumnVec converts an n×1 matrix, as returned by Predict, into a vector.
func ColumnVec(m mat.Matrix) (*mat.VecDense, error) {
	r, c := m.Dims()
	if c != 1 {
		return nil, errors.NewValueError("ColumnVec", "matrix must have exactly one column")
	}
	v := mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		v.SetVec(i, m.At(i, 0))
	}
	return v, nil
}
