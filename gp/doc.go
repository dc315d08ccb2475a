// Package gp provides a small Gaussian process regressor and the textbook
// acquisition functions used in Bayesian optimization: Upper Confidence
// Bound (UCB), Probability of Improvement (PI), Expected Improvement (EI) and
// Thompson Sampling.
//
// It exists to illustrate how a posterior mean and variance turn into a
// score for the next point to evaluate. There is no optimization loop:
// BestCandidate scores a caller-supplied set of candidates once.
//
// All acquisition functions follow the maximization convention: higher
// values are more promising.
//
// # Usage
//
//	model := gp.New(gp.DefaultConfig())
//
//	for i, x := range xs {
//	    if err := model.Update([]float64{x}, ys[i]); err != nil {
//	        return err
//	    }
//	}
//
//	params := gp.AcquisitionParams{Xi: 0.01, BestSoFar: model.Best()}
//	idx, score, err := model.BestCandidate(gp.Grid(0, 10, 200), gp.ExpectedImprovement, params)
//
// # Thread Safety
//
// GaussianProcess guards its observations and factorization with a
// RWMutex: Predict takes the read lock, Update and SetLengthScale the write
// lock.
package gp
