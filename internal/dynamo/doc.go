// Package dynamo provides the core primitives shared by the slope field
// generator, the trajectory integrators and the renderers.
//
// The package defines the fundamental types for ordinary differential
// equations:
//
//   - [State]: vector representing the dependent variables
//   - [Scalar]: right-hand side of a scalar ODE, dy/dt = g(y, t)
//   - [Planar]: a 2D vector field (t, y) -> (dt, dy) used for arrows
//   - [System]: right-hand side of a vector ODE, dY/dt = f(t, Y)
//
// # Example
//
//	g := dynamo.Scalar(func(y, t float64) float64 { return 1 - math.Sin(y) })
//	df, _ := field.Generate(bounds, 20, 20, g.Planar())
//	sol, _ := integrators.Solve(g, 1.8, times, integrators.DefaultOptions())
package dynamo
