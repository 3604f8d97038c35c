// Package optim describes linear and mixed-integer optimisation problems
// independently of any concrete solver.
//
// A Problem holds continuous and binary variables with bounds, named linear
// constraints Lower ≤ Σ a·x ≤ Upper, and one linear objective with a
// direction. Formulation code builds a Problem and hands it to a Solver; the
// translation into a concrete backend happens in exactly one place
// (see optim/simplex). Tests can substitute optim/optimtest to feed canned
// statuses and primal values into the formulation logic.
//
// # Status contract
//
// Solvers report every outcome through Solution.Status: Optimal, Infeasible,
// Unbounded or Other. The error return of Solve is only used for invalid
// input or context cancellation.
//
// # Editing between solves
//
// Iterative algorithms adjust a Problem between solves: SetLower on a target
// variable, AddConstraint / RemoveConstraint for cuts, SetCoefficient to couple
// a sink into a balance row. Clone gives each goroutine a private copy.
package optim
