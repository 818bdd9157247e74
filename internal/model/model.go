// Package model trains the money-line and over/under classifiers on the
// assembled feature table.
package model

import (
	"errors"
	"fmt"
	"math"

	"github.com/rewired-gh/nbafuse/internal/models"
)

// ErrTooFewRows is returned when the table cannot fill both the training and
// the hold-out split.
var ErrTooFewRows = errors.New("too few labelled rows to train")

// Spec names a classifier, its target column and the columns it must not see.
type Spec struct {
	Name    string
	Target  string
	Exclude []string
}

var (
	MoneyLine = Spec{
		Name:    "ml",
		Target:  models.ColHomeTeamWin,
		Exclude: []string{models.ColScore, models.ColOU, models.ColOUCover},
	}
	OverUnder = Spec{
		Name:    "ou",
		Target:  models.ColOUCover,
		Exclude: []string{models.ColScore, models.ColHomeTeamWin},
	}
)

// Specs lists the classifiers trained by the train stage.
var Specs = []Spec{MoneyLine, OverUnder}

// Config holds training hyperparameters.
type Config struct {
	Epochs       int
	LearningRate float64
	L2           float64
	HoldOut      float64
}

// Classifier is a binary logistic regression over standardised features.
type Classifier struct {
	Name      string    `json:"name"`
	Target    string    `json:"target"`
	Features  []string  `json:"features"`
	Mean      []float64 `json:"mean"`
	Scale     []float64 `json:"scale"`
	Weights   []float64 `json:"weights"`
	Bias      float64   `json:"bias"`
	Precision float64   `json:"precision"`
	TrainRows int       `json:"train_rows"`
	TestRows  int       `json:"test_rows"`
}

// Train fits spec on t. The last HoldOut fraction of rows (the most recent
// games) is kept aside to measure precision. Rows without a target are ignored.
func Train(t *models.Table, spec Spec, cfg Config) (*Classifier, error) {
	if t.Index(spec.Target) < 0 {
		return nil, fmt.Errorf("target %q not in table", spec.Target)
	}
	features := t.NumericColumns(append([]string{spec.Target}, spec.Exclude...)...)
	if len(features) == 0 {
		return nil, fmt.Errorf("no feature columns left for %s", spec.Name)
	}
	x, err := t.Matrix(features)
	if err != nil {
		return nil, err
	}
	target := t.Index(spec.Target)

	var xs [][]float64
	var ys []float64
	for r := range x {
		y := t.Float(r, target)
		if math.IsNaN(y) {
			continue
		}
		xs = append(xs, x[r])
		ys = append(ys, y)
	}

	test := int(math.Round(float64(len(xs)) * cfg.HoldOut))
	train := len(xs) - test
	if train < 2 || (cfg.HoldOut > 0 && test < 1) {
		return nil, fmt.Errorf("%w: %d rows for %s", ErrTooFewRows, len(xs), spec.Name)
	}

	c := &Classifier{
		Name:      spec.Name,
		Target:    spec.Target,
		Features:  features,
		TrainRows: train,
		TestRows:  test,
	}
	c.Mean, c.Scale = moments(xs[:train])
	trainX := make([][]float64, train)
	for i := range trainX {
		trainX[i] = c.standardize(xs[i])
	}
	c.fit(trainX, ys[:train], cfg)

	if test > 0 {
		c.Precision = c.precision(xs[train:], ys[train:])
	}
	return c, nil
}

// standardize scales x with the training moments. Missing values map to the mean.
func (c *Classifier) standardize(x []float64) []float64 {
	out := make([]float64, len(x))
	for j, v := range x {
		if math.IsNaN(v) {
			continue
		}
		out[j] = (v - c.Mean[j]) / c.Scale[j]
	}
	return out
}

func (c *Classifier) fit(xs [][]float64, ys []float64, cfg Config) {
	c.Weights = make([]float64, len(c.Features))
	grad := make([]float64, len(c.Weights))
	n := float64(len(xs))

	for epoch := 0; epoch < cfg.Epochs; epoch++ {
		for j := range grad {
			grad[j] = 0
		}
		var gradBias float64
		for i, x := range xs {
			diff := sigmoid(c.linear(x)) - ys[i]
			for j, v := range x {
				grad[j] += diff * v
			}
			gradBias += diff
		}
		for j := range c.Weights {
			c.Weights[j] -= cfg.LearningRate * (grad[j]/n + cfg.L2*c.Weights[j])
		}
		c.Bias -= cfg.LearningRate * gradBias / n
	}
}

func (c *Classifier) linear(x []float64) float64 {
	z := c.Bias
	for j, w := range c.Weights {
		z += w * x[j]
	}
	return z
}

func (c *Classifier) precision(xs [][]float64, ys []float64) float64 {
	var tp, fp int
	for i, x := range xs {
		if c.PredictProba(x)[1] < 0.5 {
			continue
		}
		if ys[i] == 1 {
			tp++
		} else {
			fp++
		}
	}
	if tp+fp == 0 {
		return 0
	}
	return float64(tp) / float64(tp+fp)
}

// PredictProba returns the probabilities of class 0 and class 1 for raw
// feature values in c.Features order.
func (c *Classifier) PredictProba(x []float64) [2]float64 {
	p := sigmoid(c.linear(c.standardize(x)))
	return [2]float64{1 - p, p}
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}
