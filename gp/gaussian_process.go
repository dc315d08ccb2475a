package gp

import (
	"fmt"
	"math"
	"sync"

	"gonum.org/v1/gonum/mat"
)

//////
// Const, vars, types.
//////

// Config holds the kernel hyperparameters of a GaussianProcess.
type Config struct {
	// LengthScale is the RBF kernel width.
	// Larger values = smoother interpolation
	// Smaller values = more local influence
	LengthScale float64 `yaml:"length_scale"`

	// SignalVariance is the prior variance of the function, k(x, x).
	SignalVariance float64 `yaml:"signal_variance"`

	// Noise is the observation noise variance added to the kernel diagonal.
	// Keep it above zero to factorize duplicate inputs.
	Noise float64 `yaml:"noise"`
}

// GaussianProcess is a zero-mean Gaussian process regressor with an RBF
// kernel. The posterior is kept up to date on every Update by a Cholesky
// factorization of the kernel matrix.
//
// Memory usage:
// - O(n^2) for the factorization where n is the number of observations
// - Update costs O(n^3), fine for the tens of points it is meant for
type GaussianProcess struct {
	// mu protects access to all fields
	mu sync.RWMutex

	config Config

	// x stores the input points; every point has the same dimension
	x [][]float64

	// y stores the observed values at each point in x
	y []float64

	// chol is the factorization of K + noise·I, nil when not fitted
	chol *mat.Cholesky

	// alpha is (K + noise·I)^-1 y
	alpha *mat.VecDense
}

//////
// Methods.
//////

// RBFKernel implements the Radial Basis Function kernel.
//
// Mathematical formula:
//
//	k(x1, x2) = signalVariance · exp(-sum((x1 - x2)^2) / (2 · lengthScale^2))
//
// Important notes:
// - Panics if input vectors have different lengths
// - Returns SignalVariance for identical points
func (gp *GaussianProcess) RBFKernel(x1, x2 []float64) float64 {
	gp.mu.RLock()
	config := gp.config
	gp.mu.RUnlock()

	return rbf(config, x1, x2)
}

// Update adds an observation and refits the model.
//
// Parameters:
// - x: Input point; copied, so the caller may reuse the slice
// - y: Observed value at x
//
// Returns:
// - error: ErrDimensionMismatch, or ErrNotPositiveDefinite if the new kernel
//   matrix cannot be factorized. The observation is kept either way.
func (gp *GaussianProcess) Update(x []float64, y float64) error {
	gp.mu.Lock()
	defer gp.mu.Unlock()

	if len(gp.x) > 0 && len(x) != len(gp.x[0]) {
		return fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(x), len(gp.x[0]))
	}

	// Create deep copy of input to prevent external modifications
	newX := make([]float64, len(x))
	copy(newX, x)

	gp.x = append(gp.x, newX)
	gp.y = append(gp.y, y)

	return gp.fit()
}

// Predict returns the posterior mean and variance at x.
//
// Returns:
// - mean, variance: (0, SignalVariance) when there are no observations
// - error: ErrDimensionMismatch or ErrNotFitted
//
// Important notes:
// - Variance is clamped at 0 against round-off
// - O(n^2) per call where n is the number of observations
func (gp *GaussianProcess) Predict(x []float64) (mean, variance float64, err error) {
	gp.mu.RLock()
	defer gp.mu.RUnlock()

	// Handle case with no observations
	if len(gp.x) == 0 {
		return 0, gp.config.SignalVariance, nil
	}

	if len(x) != len(gp.x[0]) {
		return 0, 0, fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(x), len(gp.x[0]))
	}

	if gp.chol == nil {
		return 0, 0, ErrNotFitted
	}

	kStar := mat.NewVecDense(len(gp.x), nil)
	for i := range gp.x {
		kStar.SetVec(i, rbf(gp.config, x, gp.x[i]))
	}

	mean = mat.Dot(kStar, gp.alpha)

	var w mat.VecDense
	if err := gp.chol.SolveVecTo(&w, kStar); err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrNotFitted, err)
	}

	variance = rbf(gp.config, x, x) - mat.Dot(kStar, &w)

	return mean, math.Max(variance, 0), nil
}

// Len returns the number of observations.
func (gp *GaussianProcess) Len() int {
	gp.mu.RLock()
	defer gp.mu.RUnlock()

	return len(gp.y)
}

// Best returns the largest observed value, or -Inf without observations.
func (gp *GaussianProcess) Best() float64 {
	gp.mu.RLock()
	defer gp.mu.RUnlock()

	best := math.Inf(-1)
	for _, v := range gp.y {
		best = math.Max(best, v)
	}

	return best
}

// SetLengthScale changes the kernel width and refits the model.
func (gp *GaussianProcess) SetLengthScale(lengthScale float64) error {
	gp.mu.Lock()
	defer gp.mu.Unlock()

	gp.config.LengthScale = lengthScale

	return gp.fit()
}

// GetLengthScale returns the current kernel width.
func (gp *GaussianProcess) GetLengthScale() float64 {
	gp.mu.RLock()
	defer gp.mu.RUnlock()

	return gp.config.LengthScale
}

// fit factorizes K + noise·I and solves for alpha. Callers hold the write
// lock.
func (gp *GaussianProcess) fit() error {
	gp.chol, gp.alpha = nil, nil

	n := len(gp.x)
	if n == 0 {
		return nil
	}

	k := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			v := rbf(gp.config, gp.x[i], gp.x[j])
			if i == j {
				v += gp.config.Noise
			}

			k.SetSym(i, j, v)
		}
	}

	var chol mat.Cholesky
	if ok := chol.Factorize(k); !ok {
		return fmt.Errorf("%w: %d observations", ErrNotPositiveDefinite, n)
	}

	var alpha mat.VecDense
	if err := chol.SolveVecTo(&alpha, mat.NewVecDense(n, append([]float64(nil), gp.y...))); err != nil {
		return fmt.Errorf("%w: %v", ErrNotPositiveDefinite, err)
	}

	gp.chol, gp.alpha = &chol, &alpha

	return nil
}

//////
// Helper functions.
//////

func rbf(config Config, x1, x2 []float64) float64 {
	if len(x1) != len(x2) {
		panic("input vectors must have the same length")
	}

	var sum float64

	for i := range x1 {
		diff := x1[i] - x2[i]

		sum += diff * diff
	}

	return config.SignalVariance * math.Exp(-sum/(2*config.LengthScale*config.LengthScale))
}

//////
// Factory.
//////

// DefaultConfig returns kernel hyperparameters suited to inputs of unit
// scale.
func DefaultConfig() Config {
	return Config{
		LengthScale:    1.0,
		SignalVariance: 1.0,
		Noise:          1e-6,
	}
}

// New creates an empty GaussianProcess.
//
// Best practices:
// - Create new instance for each regression task
// - Scale LengthScale to the spacing of the inputs
func New(config Config) *GaussianProcess {
	return &GaussianProcess{
		config: config,
	}
}
