// Package experiment runs a configured scenario end to end: it samples the
// direction field, integrates trajectories, solves the symbolic problems and
// assembles the resulting plot.Figure. Every panel is computed before any
// rendering happens.
package experiment

import (
	"context"
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/slopefield/internal/analysis"
	"github.com/san-kum/slopefield/internal/config"
	"github.com/san-kum/slopefield/internal/dynamo"
	"github.com/san-kum/slopefield/internal/field"
	"github.com/san-kum/slopefield/internal/integrators"
	"github.com/san-kum/slopefield/internal/ivp"
	"github.com/san-kum/slopefield/internal/plot"
	"github.com/san-kum/slopefield/internal/symbolic"
)

type Runner struct {
	Logger *slog.Logger
	// Warnings keeps integrator warnings on for diverging trajectories,
	// which are otherwise integrated quietly.
	Warnings bool
}

func New(logger *slog.Logger) *Runner {
	return &Runner{Logger: logger}
}

type Trajectory struct {
	Label    string
	Y0       float64
	Regime   analysis.Regime
	Window   float64
	Solution *integrators.Solution
}

type FieldResult struct {
	ODE          ivp.ODE
	Autonomous   bool
	Field        *field.DirectionField
	Equilibria   []analysis.Equilibrium
	Trajectories []Trajectory
}

type IVPResult struct {
	Config   config.IVPConfig
	General  *ivp.GeneralSolution
	Solution *ivp.ParticularSolution
	X, Y     []float64
}

type Result struct {
	Config *config.Config
	Field  *FieldResult
	IVPs   []IVPResult
	Figure *plot.Figure
}

func (r *Runner) Run(ctx context.Context, cfg *config.Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	res := &Result{Config: cfg}
	if cfg.Field != nil {
		fr, err := r.RunField(ctx, cfg.Field)
		if err != nil {
			return nil, err
		}
		res.Field = fr
	}
	for _, p := range cfg.IVPs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		ir, err := r.RunIVP(p)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p.Label, err)
		}
		res.IVPs = append(res.IVPs, *ir)
	}
	res.Figure = res.buildFigure()
	return res, nil
}

func (r *Runner) options(fc *config.FieldConfig) integrators.Options {
	opts := integrators.DefaultOptions()
	opts.Method = fc.Method
	opts.Tolerance = fc.Tolerance
	if r.Logger != nil {
		opts.Logger = r.Logger
	}
	return opts
}

// RunField samples the direction field, locates equilibria when the
// equation is autonomous, and integrates every configured trajectory over
// the window its regime calls for.
func (r *Runner) RunField(ctx context.Context, fc *config.FieldConfig) (*FieldResult, error) {
	ode, err := fc.ODE()
	if err != nil {
		return nil, err
	}
	rhs, err := ode.Scalar()
	if err != nil {
		return nil, err
	}
	g := dynamo.Scalar(rhs)

	b := dynamo.Bounds{TMin: fc.Bounds.TMin, TMax: fc.Bounds.TMax, YMin: fc.Bounds.YMin, YMax: fc.Bounds.YMax}
	df, err := field.Generate(b, fc.Resolution.NT, fc.Resolution.NY, g.Planar())
	if err != nil {
		return nil, err
	}

	fr := &FieldResult{
		ODE:        ode,
		Autonomous: !symbolic.Has(ode.RHS, ode.Indep),
		Field:      df,
	}
	if fr.Autonomous {
		eqs, err := analysis.FindEquilibria(g.Autonomous(), fc.Equilibria.Min, fc.Equilibria.Max, fc.Equilibria.Samples)
		if err != nil {
			return nil, err
		}
		fr.Equilibria = eqs
	}

	opts := r.options(fc)
	for _, tc := range fc.Trajectories {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		tr, err := r.trajectory(fr, fc, tc, g, opts)
		if err != nil {
			return nil, err
		}
		fr.Trajectories = append(fr.Trajectories, tr)
	}
	return fr, nil
}

func (r *Runner) trajectory(fr *FieldResult, fc *config.FieldConfig, tc config.TrajectoryConfig, g dynamo.Scalar, opts integrators.Options) (Trajectory, error) {
	y0, err := config.ParseValue(tc.Y0)
	if err != nil {
		return Trajectory{}, err
	}

	regime := analysis.Bounded
	switch {
	case tc.Regime != "":
		if regime, err = analysis.ParseRegime(tc.Regime); err != nil {
			return Trajectory{}, err
		}
	case fr.Autonomous:
		regime = analysis.Classify(g.Autonomous(), y0, fr.Equilibria)
	}

	window := tc.Window
	if window == 0 {
		window = analysis.Window(regime, fc.Time.Short, fc.Time.Long)
	}
	times := floats.Span(make([]float64, fc.Time.Samples), fc.Time.Start, fc.Time.Start+window)

	if regime == analysis.Diverging && !r.Warnings {
		opts = opts.Quiet()
	}
	sol, err := integrators.Solve(g, y0, times, opts)
	if err != nil {
		return Trajectory{}, fmt.Errorf("trajectory %s: %w", tc.Y0, err)
	}

	label := tc.Label
	if label == "" {
		label = fmt.Sprintf("%s(%g) = %s", fr.ODE.Dep, fc.Time.Start, tc.Y0)
	}
	return Trajectory{Label: label, Y0: y0, Regime: regime, Window: window, Solution: sol}, nil
}

// RunIVP solves one problem in closed form and samples it on its grid.
// Without an initial condition the constant is fixed to the configured
// value, or zero.
func (r *Runner) RunIVP(p config.IVPConfig) (*IVPResult, error) {
	ode, err := p.ODE()
	if err != nil {
		return nil, err
	}
	gen, err := ivp.Dsolve(ode)
	if err != nil {
		return nil, err
	}

	var c symbolic.Expr = symbolic.N(0)
	switch {
	case p.Initial != nil:
		ic, err := p.Initial.Condition()
		if err != nil {
			return nil, err
		}
		if c, err = gen.SolveConstant(ic); err != nil {
			return nil, err
		}
	case p.Constant != "":
		if c, err = symbolic.Parse(p.Constant); err != nil {
			return nil, err
		}
	}

	sol, err := gen.Particular(c)
	if err != nil {
		return nil, err
	}
	x := floats.Span(make([]float64, p.Grid.N), p.Grid.From, p.Grid.To)
	y, err := sol.Sample(x)
	if err != nil {
		return nil, err
	}
	return &IVPResult{Config: p, General: gen, Solution: sol, X: x, Y: y}, nil
}

func (res *Result) buildFigure() *plot.Figure {
	cfg := res.Config
	fig := plot.NewFigure(cfg.Title, cfg.Layout.Rows, cfg.Layout.Cols)

	if fr := res.Field; fr != nil {
		fc := cfg.Field
		title := cfg.Title
		if title == "" {
			title = fr.ODE.String()
		}
		ax := fig.Add(title)
		ax.XLabel, ax.YLabel = fr.ODE.Indep, fr.ODE.Dep
		ax.SetXLim(fc.Bounds.TMin, fc.Bounds.TMax)
		ax.SetYLim(fc.Bounds.YMin, fc.Bounds.YMax)
		for _, a := range fr.Field.Arrows() {
			ax.Quiver(plot.Arrow{X: a.T, Y: a.Y, U: a.U, V: a.V})
		}
		if fc.Equilibria.Show {
			for _, e := range fr.Equilibria {
				label := fmt.Sprintf("%s = %.4g (%s)", fr.ODE.Dep, e.Value, e.Stability)
				ax.AxHLine(e.Value, label, e.Stability != analysis.Stable)
			}
		}
		for _, tr := range fr.Trajectories {
			ax.Plot(plot.Line{Label: tr.Label, X: tr.Solution.Times, Y: tr.Solution.Values(), Width: 3})
			for _, w := range tr.Solution.Warnings {
				ax.Note(fmt.Sprintf("%s: stopped at %s=%.4g", tr.Label, fr.ODE.Indep, w.Time))
			}
		}
	}

	for _, ir := range res.IVPs {
		title := ir.Config.Title
		if title == "" {
			title = ir.Solution.ODE.String()
		}
		ax := fig.Add(title)
		ode := ir.Solution.ODE
		ax.XLabel = ode.Indep
		ax.YLabel = fmt.Sprintf("%s(%s)", ode.Dep, ode.Indep)
		ax.Grid = true
		ax.Plot(plot.Line{Label: ir.Config.Label, X: ir.X, Y: ir.Y, Width: 1.5})
		ax.Note(ir.Solution.String())
	}
	return fig
}

// Warnings collects the integrator warnings of every trajectory.
func (res *Result) Warnings() []integrators.Warning {
	if res.Field == nil {
		return nil
	}
	var out []integrators.Warning
	for _, tr := range res.Field.Trajectories {
		out = append(out, tr.Solution.Warnings...)
	}
	return out
}
