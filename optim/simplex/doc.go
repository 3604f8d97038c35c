// Package simplex solves optim problems with gonum's dense simplex method
// (gonum.org/v1/gonum/optimize/convex/lp) and a depth-first branch and bound
// over binary variables.
//
// Every Problem is rewritten into the standard form
//
//	minimize cᵀy  subject to  A·y = b,  y ≥ 0
//
// by shifting finite lower bounds, mirroring upper-bounded variables,
// splitting free ones and adding slack columns. Linearly dependent rows are
// removed before the call (gonum requires full row rank); an inconsistent
// dependent row proves infeasibility on its own.
//
// The solver targets the small and medium models used for consistency
// testing; it is dense and makes no attempt at warm starts.
package simplex
