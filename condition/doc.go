// Package condition reports how well conditioned a model's stoichiometric
// matrix is: the spread of its coefficients, its rank, the number of
// conserved metabolite pools and the degrees of freedom of the flux space.
package condition
