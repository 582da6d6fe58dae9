package sab

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewData(t *testing.T) {
	alpha := []float64{0.1, 0.5, 1.0}
	beta := []float64{-2, 0, 2}
	values := []float64{
		0.0, 0.1, 0.2,
		0.3, 0.4, 0.5,
		0.6, 0.7, 0.8,
	}

	d, err := NewData(alpha, beta, values, 293.15, 4.2, 12.0, 5.0)
	require.NoError(t, err)
	require.Equal(t, 0.5, d.At(1, 2))
	require.Equal(t, alpha, d.AlphaGrid())
	require.Equal(t, 12.0, d.ElementMassAMU())
	require.Equal(t, 5.0, d.SuggestedEmax())
}

func TestNewDataErrors(t *testing.T) {
	alpha := []float64{0.1, 0.5}
	beta := []float64{-2, 0, 2}
	values := make([]float64, 6)

	table := []struct {
		name   string
		alpha  []float64
		beta   []float64
		values []float64
		want   error
	}{
		{"short alpha grid", []float64{0.1}, beta, values, ErrBadGrid},
		{"non-increasing alpha", []float64{0.5, 0.5}, beta, values, ErrBadGrid},
		{"negative alpha", []float64{-0.1, 0.5}, beta, values, ErrBadGrid},
		{"nan beta", alpha, []float64{math.NaN(), 0, 2}, values, ErrBadGrid},
		{"wrong value count", alpha, beta, make([]float64, 5), ErrBadShape},
		{"negative S", alpha, beta, []float64{0, 0, 0, 0, 0, -1}, ErrBadValue},
		{"inf S", alpha, beta, []float64{0, 0, 0, 0, 0, math.Inf(1)}, ErrBadValue},
	}

	for _, test := range table {
		_, err := NewData(test.alpha, test.beta, test.values, 293.15, 4.2, 12.0, 0)
		if !errors.Is(err, test.want) {
			t.Errorf("%s: got %v, want %v", test.name, err, test.want)
		}
	}
}

func TestNewVDOS(t *testing.T) {
	// Two-entry grid describes a regular grid over the density points.
	v, err := NewVDOS([]float64{0.001, 0.1}, []float64{0, 0.5, 1, 0.5}, 293.15, 4.2, 12.0)
	require.NoError(t, err)
	require.Len(t, v.Density(), 4)

	// Full grid must match the density point for point.
	_, err = NewVDOS([]float64{0.001, 0.01, 0.1}, []float64{0, 0.5, 1, 0.5}, 293.15, 4.2, 12.0)
	require.True(t, errors.Is(err, ErrBadShape))

	_, err = NewVDOS([]float64{0.001, 0.01, 0.1, 0.2}, []float64{0, 0.5, 1, 0.5}, 293.15, 4.2, 12.0)
	require.NoError(t, err)
}

func TestNewVDOSErrors(t *testing.T) {
	table := []struct {
		name    string
		egrid   []float64
		density []float64
		want    error
	}{
		{"non-positive grid start", []float64{0, 0.1}, []float64{1, 1}, ErrBadGrid},
		{"non-increasing grid", []float64{0.1, 0.1}, []float64{1, 1}, ErrBadGrid},
		{"short density", []float64{0.001, 0.1}, []float64{1}, ErrBadShape},
		{"negative density", []float64{0.001, 0.1}, []float64{1, -1}, ErrBadValue},
	}

	for _, test := range table {
		_, err := NewVDOS(test.egrid, test.density, 293.15, 4.2, 12.0)
		if !errors.Is(err, test.want) {
			t.Errorf("%s: got %v, want %v", test.name, err, test.want)
		}
	}
}
