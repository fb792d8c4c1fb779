// Package diffusion simulates 2D heat/mass diffusion on a rectangular grid.
//
// The field is advanced with an explicit finite-difference scheme over the
// 5-point Laplacian stencil:
//
//	delta[i][j] = (right + left - 2*c) + (bottom + top - 2*c)
//	field[i][j] += Rate * delta[i][j]
//
// All deltas of an iteration are computed from the unmodified field before
// any cell is written.
//
// # Boundaries
//
// Each of the four edges is either [Dirichlet] (the ghost cell across the
// edge holds the configured value) or [Neumann] (the ghost cell is the
// reflected interior neighbour shifted by twice the configured flux,
// minus on the left/top edges and plus on the right/bottom edges).
//
// On an axis of width 1 both ghosts are taken directly from the boundary
// values regardless of mode. Neumann boundaries are not supported on such
// axes.
//
// # Stability
//
// The scheme is conditionally stable. For grid spacings dx and dy a rate r
// must satisfy
//
//	r * (1/dx² + 1/dy²) <= 0.5
//
// which for unit spacing allows r <= 0.25. [Grid.Step] never checks this;
// use [MaxStableRate] or [IsStable] when picking parameters.
//
// # Thread Safety
//
// A Grid is not safe for concurrent use. Setting [Config.Workers] lets a
// single Step call spread each iteration over several goroutines.
package diffusion
