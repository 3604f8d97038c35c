package optim

import (
	"fmt"
	"math"
	"sort"
)

// Inf is positive infinity, used for unbounded variable and constraint sides.
var Inf = math.Inf(1)

// VarKind distinguishes continuous from binary decision variables.
type VarKind int

const (
	// Continuous variables take any real value within their bounds.
	Continuous VarKind = iota
	// Binary variables take 0 or 1; their bounds must lie within [0, 1].
	Binary
)

func (k VarKind) String() string {
	if k == Binary {
		return "binary"
	}

	return "continuous"
}

// Direction is the optimisation sense of the objective.
type Direction int

const (
	// Minimize the objective.
	Minimize Direction = iota
	// Maximize the objective.
	Maximize
)

func (d Direction) String() string {
	if d == Maximize {
		return "max"
	}

	return "min"
}

// Variable is one decision variable.
type Variable struct {
	Name  string
	Lower float64
	Upper float64
	Kind  VarKind
}

// Term is coef·x[Var].
type Term struct {
	Var  int
	Coef float64
}

// Expr is a sparse linear expression Σ coef·x.
type Expr []Term

// Constraint bounds a linear expression: Lower ≤ Expr ≤ Upper.
// Either side may be infinite; Lower == Upper is an equality.
type Constraint struct {
	Name  string
	Expr  Expr
	Lower float64
	Upper float64
}

// Objective is the single linear objective with its direction.
type Objective struct {
	Expr      Expr
	Direction Direction
}

// Problem is a solver-agnostic LP/MILP description.
//
// A Problem is a plain data container: solvers only read it, callers edit it
// between solves (variable bounds, cuts, coefficients). It is not safe for
// concurrent mutation; use Clone to hand a private copy to each goroutine.
type Problem struct {
	name     string
	vars     []Variable
	varIndex map[string]int
	cons     []Constraint
	conIndex map[string]int
	obj      Objective
}

// NewProblem returns an empty problem with a minimisation objective of 0.
func NewProblem(name string) *Problem {
	return &Problem{
		name:     name,
		varIndex: make(map[string]int),
		conIndex: make(map[string]int),
	}
}

// Name returns the problem name given at construction.
func (p *Problem) Name() string { return p.name }

// NumVariables returns the number of variables.
func (p *Problem) NumVariables() int { return len(p.vars) }

// NumConstraints returns the number of constraints.
func (p *Problem) NumConstraints() int { return len(p.cons) }

// AddVariable appends a variable and returns its index.
//
// Binary variables must have bounds within [0, 1]. Bounds may be infinite
// for continuous variables but never NaN, and lower must not exceed upper.
func (p *Problem) AddVariable(name string, lower, upper float64, kind VarKind) (int, error) {
	if name == "" {
		return 0, problemErrorf(opAddVariable, ErrEmptyName)
	}
	if _, dup := p.varIndex[name]; dup {
		return 0, problemErrorf(opAddVariable, fmt.Errorf("%q: %w", name, ErrDuplicateName))
	}
	if err := checkBounds(lower, upper, kind); err != nil {
		return 0, problemErrorf(opAddVariable, fmt.Errorf("%q: %w", name, err))
	}
	p.vars = append(p.vars, Variable{Name: name, Lower: lower, Upper: upper, Kind: kind})
	idx := len(p.vars) - 1
	p.varIndex[name] = idx

	return idx, nil
}

// Variable returns a copy of variable i.
func (p *Problem) Variable(i int) (Variable, error) {
	if i < 0 || i >= len(p.vars) {
		return Variable{}, problemErrorf(opVariable, fmt.Errorf("index %d: %w", i, ErrUnknownVariable))
	}

	return p.vars[i], nil
}

// Variables returns a copy of all variables in index order.
func (p *Problem) Variables() []Variable {
	out := make([]Variable, len(p.vars))
	copy(out, p.vars)

	return out
}

// VarIndex looks up a variable by name.
func (p *Problem) VarIndex(name string) (int, bool) {
	i, ok := p.varIndex[name]

	return i, ok
}

// SetBounds replaces the bounds of variable i.
func (p *Problem) SetBounds(i int, lower, upper float64) error {
	if i < 0 || i >= len(p.vars) {
		return problemErrorf(opSetBounds, fmt.Errorf("index %d: %w", i, ErrUnknownVariable))
	}
	if err := checkBounds(lower, upper, p.vars[i].Kind); err != nil {
		return problemErrorf(opSetBounds, fmt.Errorf("%q: %w", p.vars[i].Name, err))
	}
	p.vars[i].Lower, p.vars[i].Upper = lower, upper

	return nil
}

// SetLower replaces only the lower bound of variable i.
func (p *Problem) SetLower(i int, lower float64) error {
	if i < 0 || i >= len(p.vars) {
		return problemErrorf(opSetBounds, fmt.Errorf("index %d: %w", i, ErrUnknownVariable))
	}

	return p.SetBounds(i, lower, p.vars[i].Upper)
}

// AddConstraint appends Lower ≤ expr ≤ Upper under a unique name.
// Terms on the same variable are merged; zero coefficients are dropped.
func (p *Problem) AddConstraint(name string, expr Expr, lower, upper float64) error {
	if name == "" {
		return problemErrorf(opAddConstraint, ErrEmptyName)
	}
	if _, dup := p.conIndex[name]; dup {
		return problemErrorf(opAddConstraint, fmt.Errorf("%q: %w", name, ErrDuplicateName))
	}
	if math.IsNaN(lower) || math.IsNaN(upper) || lower > upper {
		return problemErrorf(opAddConstraint, fmt.Errorf("%q [%g, %g]: %w", name, lower, upper, ErrInvalidBounds))
	}
	merged, err := p.normalize(expr)
	if err != nil {
		return problemErrorf(opAddConstraint, fmt.Errorf("%q: %w", name, err))
	}
	p.cons = append(p.cons, Constraint{Name: name, Expr: merged, Lower: lower, Upper: upper})
	p.conIndex[name] = len(p.cons) - 1

	return nil
}

// RemoveConstraint deletes a constraint by name. Order of the remaining
// constraints is preserved.
func (p *Problem) RemoveConstraint(name string) error {
	i, ok := p.conIndex[name]
	if !ok {
		return problemErrorf(opRemoveConstraint, fmt.Errorf("%q: %w", name, ErrUnknownConstraint))
	}
	p.cons = append(p.cons[:i], p.cons[i+1:]...)
	delete(p.conIndex, name)
	for j := i; j < len(p.cons); j++ {
		p.conIndex[p.cons[j].Name] = j
	}

	return nil
}

// Constraint returns a copy of the named constraint.
func (p *Problem) Constraint(name string) (Constraint, bool) {
	i, ok := p.conIndex[name]
	if !ok {
		return Constraint{}, false
	}
	c := p.cons[i]
	c.Expr = append(Expr(nil), c.Expr...)

	return c, true
}

// Constraints returns copies of all constraints in insertion order.
func (p *Problem) Constraints() []Constraint {
	out := make([]Constraint, len(p.cons))
	for i, c := range p.cons {
		c.Expr = append(Expr(nil), c.Expr...)
		out[i] = c
	}

	return out
}

// SetCoefficient sets the coefficient of variable v in the named constraint.
// A zero coefficient removes the term.
func (p *Problem) SetCoefficient(name string, v int, coef float64) error {
	i, ok := p.conIndex[name]
	if !ok {
		return problemErrorf(opSetCoefficient, fmt.Errorf("%q: %w", name, ErrUnknownConstraint))
	}
	if v < 0 || v >= len(p.vars) {
		return problemErrorf(opSetCoefficient, fmt.Errorf("index %d: %w", v, ErrUnknownVariable))
	}
	if math.IsNaN(coef) || math.IsInf(coef, 0) {
		return problemErrorf(opSetCoefficient, ErrNaNInf)
	}
	expr := p.cons[i].Expr
	for k := range expr {
		if expr[k].Var != v {
			continue
		}
		if coef == 0 {
			p.cons[i].Expr = append(expr[:k:k], expr[k+1:]...)
		} else {
			expr[k].Coef = coef
		}

		return nil
	}
	if coef != 0 {
		p.cons[i].Expr = append(expr, Term{Var: v, Coef: coef})
	}

	return nil
}

// SetObjective replaces the objective.
func (p *Problem) SetObjective(expr Expr, dir Direction) error {
	merged, err := p.normalize(expr)
	if err != nil {
		return problemErrorf(opSetObjective, err)
	}
	p.obj = Objective{Expr: merged, Direction: dir}

	return nil
}

// Objective returns a copy of the objective.
func (p *Problem) Objective() Objective {
	return Objective{Expr: append(Expr(nil), p.obj.Expr...), Direction: p.obj.Direction}
}

// HasIntegers reports whether any variable is binary.
func (p *Problem) HasIntegers() bool {
	for _, v := range p.vars {
		if v.Kind == Binary {
			return true
		}
	}

	return false
}

// Clone returns a deep copy that shares no mutable state with p.
func (p *Problem) Clone() *Problem {
	q := &Problem{
		name:     p.name,
		vars:     append([]Variable(nil), p.vars...),
		varIndex: make(map[string]int, len(p.varIndex)),
		cons:     make([]Constraint, len(p.cons)),
		conIndex: make(map[string]int, len(p.conIndex)),
		obj:      p.Objective(),
	}
	for k, v := range p.varIndex {
		q.varIndex[k] = v
	}
	for i, c := range p.cons {
		c.Expr = append(Expr(nil), c.Expr...)
		q.cons[i] = c
		q.conIndex[c.Name] = i
	}

	return q
}

// Eval returns Σ coef·x[var] for the given primal vector.
func (e Expr) Eval(x []float64) float64 {
	var s float64
	for _, t := range e {
		s += t.Coef * x[t.Var]
	}

	return s
}

// Sum builds Σ 1·x[v] over the given variable indices.
func Sum(vars ...int) Expr {
	e := make(Expr, len(vars))
	for i, v := range vars {
		e[i] = Term{Var: v, Coef: 1}
	}

	return e
}

// normalize validates indices and coefficients, merges duplicates, drops
// zeros and sorts by variable index so equal problems compare equal.
func (p *Problem) normalize(expr Expr) (Expr, error) {
	acc := make(map[int]float64, len(expr))
	for _, t := range expr {
		if t.Var < 0 || t.Var >= len(p.vars) {
			return nil, fmt.Errorf("index %d: %w", t.Var, ErrUnknownVariable)
		}
		if math.IsNaN(t.Coef) || math.IsInf(t.Coef, 0) {
			return nil, ErrNaNInf
		}
		acc[t.Var] += t.Coef
	}
	out := make(Expr, 0, len(acc))
	for v, c := range acc {
		if c != 0 {
			out = append(out, Term{Var: v, Coef: c})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Var < out[j].Var })

	return out, nil
}

// checkBounds validates a bound pair for the given variable kind.
func checkBounds(lower, upper float64, kind VarKind) error {
	if math.IsNaN(lower) || math.IsNaN(upper) || lower > upper {
		return fmt.Errorf("[%g, %g]: %w", lower, upper, ErrInvalidBounds)
	}
	if math.IsInf(lower, 1) || math.IsInf(upper, -1) {
		return fmt.Errorf("[%g, %g]: %w", lower, upper, ErrInvalidBounds)
	}
	if kind == Binary && (lower < 0 || upper > 1) {
		return fmt.Errorf("binary [%g, %g]: %w", lower, upper, ErrInvalidBounds)
	}

	return nil
}
