package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/slopefield/internal/analysis"
	"github.com/san-kum/slopefield/internal/integrators"
	"github.com/san-kum/slopefield/internal/ivp"
	"github.com/san-kum/slopefield/internal/symbolic"
)

const (
	DefaultMethod             = integrators.DefaultMethod
	DefaultTolerance          = 1e-8
	DefaultResolution         = 20
	DefaultSamples            = 1000
	DefaultGridPoints         = 100
	DefaultEquilibriumSamples = 400
	DefaultIndep              = "t"
	DefaultDep                = "y"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config describes one figure: a direction field with trajectories, a set
// of symbolic initial value problems, or both.
type Config struct {
	Name   string       `yaml:"name"`
	Title  string       `yaml:"title,omitempty"`
	Field  *FieldConfig `yaml:"field,omitempty"`
	IVPs   []IVPConfig  `yaml:"ivps,omitempty"`
	Layout LayoutConfig `yaml:"layout"`
}

type FieldConfig struct {
	Indep        string             `yaml:"indep"`
	Dep          string             `yaml:"dep"`
	RHS          string             `yaml:"rhs"`
	Bounds       BoundsConfig       `yaml:"bounds"`
	Resolution   ResolutionConfig   `yaml:"resolution"`
	Method       string             `yaml:"method"`
	Tolerance    float64            `yaml:"tolerance"`
	Time         TimeConfig         `yaml:"time"`
	Trajectories []TrajectoryConfig `yaml:"trajectories"`
	Equilibria   EquilibriaConfig   `yaml:"equilibria"`
}

type BoundsConfig struct {
	TMin float64 `yaml:"t_min"`
	TMax float64 `yaml:"t_max"`
	YMin float64 `yaml:"y_min"`
	YMax float64 `yaml:"y_max"`
}

type ResolutionConfig struct {
	NT int `yaml:"nt"`
	NY int `yaml:"ny"`
}

// TimeConfig sets the integration windows. Trajectories start at Start and
// run for Short or Long depending on their regime.
type TimeConfig struct {
	Start   float64 `yaml:"start"`
	Short   float64 `yaml:"short"`
	Long    float64 `yaml:"long"`
	Samples int     `yaml:"samples"`
}

// TrajectoryConfig is one initial value. Regime and Window override the
// automatic classification when set.
type TrajectoryConfig struct {
	Y0     string  `yaml:"y0"`
	Label  string  `yaml:"label,omitempty"`
	Regime string  `yaml:"regime,omitempty"`
	Window float64 `yaml:"window,omitempty"`
}

type EquilibriaConfig struct {
	Show    bool    `yaml:"show"`
	Min     float64 `yaml:"min,omitempty"`
	Max     float64 `yaml:"max,omitempty"`
	Samples int     `yaml:"samples,omitempty"`
}

type IVPConfig struct {
	Label   string         `yaml:"label"`
	Title   string         `yaml:"title,omitempty"`
	Indep   string         `yaml:"indep"`
	Dep     string         `yaml:"dep"`
	RHS     string         `yaml:"rhs"`
	Initial *InitialConfig `yaml:"initial,omitempty"`
	// Constant fixes C1 when there is no initial condition.
	Constant string     `yaml:"constant,omitempty"`
	Grid     GridConfig `yaml:"grid"`
}

type InitialConfig struct {
	At    string `yaml:"at"`
	Value string `yaml:"value"`
}

type GridConfig struct {
	From float64 `yaml:"from"`
	To   float64 `yaml:"to"`
	N    int     `yaml:"n"`
}

type LayoutConfig struct {
	Rows int `yaml:"rows"`
	Cols int `yaml:"cols"`
}

func DefaultConfig() *Config {
	return GetPreset("field", "sine")
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ApplyDefaults fills zero values.
func (c *Config) ApplyDefaults() {
	if f := c.Field; f != nil {
		if f.Indep == "" {
			f.Indep = DefaultIndep
		}
		if f.Dep == "" {
			f.Dep = DefaultDep
		}
		if f.Method == "" {
			f.Method = DefaultMethod
		}
		if f.Tolerance == 0 {
			f.Tolerance = DefaultTolerance
		}
		if f.Resolution.NT == 0 {
			f.Resolution.NT = DefaultResolution
		}
		if f.Resolution.NY == 0 {
			f.Resolution.NY = DefaultResolution
		}
		if f.Time.Samples == 0 {
			f.Time.Samples = DefaultSamples
		}
		if f.Time.Short == 0 {
			f.Time.Short = f.Time.Long
		}
		if f.Equilibria.Min == 0 && f.Equilibria.Max == 0 {
			f.Equilibria.Min, f.Equilibria.Max = f.Bounds.YMin, f.Bounds.YMax
		}
		if f.Equilibria.Samples == 0 {
			f.Equilibria.Samples = DefaultEquilibriumSamples
		}
	}
	for i := range c.IVPs {
		p := &c.IVPs[i]
		if p.Indep == "" {
			p.Indep = "x"
		}
		if p.Dep == "" {
			p.Dep = DefaultDep
		}
		if p.Grid.N == 0 {
			p.Grid.N = DefaultGridPoints
		}
	}
	if c.Layout.Rows == 0 || c.Layout.Cols == 0 {
		c.Layout.Rows, c.Layout.Cols = autoLayout(c.Panels())
	}
}

// Panels is the number of plot panels the config produces.
func (c *Config) Panels() int {
	n := len(c.IVPs)
	if c.Field != nil {
		n++
	}
	return n
}

func autoLayout(n int) (rows, cols int) {
	switch {
	case n <= 1:
		return 1, 1
	case n <= 3:
		return 1, n
	}
	cols = 3
	return (n + cols - 1) / cols, cols
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}

// Validate checks that every expression parses and every range is usable.
func (c *Config) Validate() error {
	if c.Name == "" {
		return invalid("missing name")
	}
	if c.Field == nil && len(c.IVPs) == 0 {
		return invalid("%s: nothing to plot", c.Name)
	}
	if c.Layout.Rows*c.Layout.Cols < c.Panels() {
		return invalid("%s: layout %dx%d too small for %d panels", c.Name, c.Layout.Rows, c.Layout.Cols, c.Panels())
	}
	if c.Field != nil {
		if err := c.Field.validate(); err != nil {
			return fmt.Errorf("%s: field: %w", c.Name, err)
		}
	}
	for i := range c.IVPs {
		if err := c.IVPs[i].validate(); err != nil {
			return fmt.Errorf("%s: ivp %d: %w", c.Name, i, err)
		}
	}
	return nil
}

func (f *FieldConfig) validate() error {
	if _, err := f.ODE(); err != nil {
		return invalid("%v", err)
	}
	b := f.Bounds
	if !(b.TMin < b.TMax) || !(b.YMin < b.YMax) {
		return invalid("empty bounds %+v", b)
	}
	if f.Resolution.NT < 1 || f.Resolution.NY < 1 {
		return invalid("resolution %dx%d", f.Resolution.NT, f.Resolution.NY)
	}
	if _, err := integrators.New(f.Method); err != nil {
		return invalid("%v", err)
	}
	if f.Tolerance <= 0 {
		return invalid("tolerance %g", f.Tolerance)
	}
	if f.Time.Short <= 0 || f.Time.Long <= 0 || f.Time.Samples < 2 {
		return invalid("time windows %+v", f.Time)
	}
	if !(f.Equilibria.Min < f.Equilibria.Max) || f.Equilibria.Samples < 3 {
		return invalid("equilibrium search %+v", f.Equilibria)
	}
	for _, tr := range f.Trajectories {
		if _, err := ParseValue(tr.Y0); err != nil {
			return invalid("y0 %q: %v", tr.Y0, err)
		}
		if tr.Regime != "" {
			if _, err := analysis.ParseRegime(tr.Regime); err != nil {
				return invalid("%v", err)
			}
		}
		if tr.Window < 0 {
			return invalid("negative window %g", tr.Window)
		}
	}
	return nil
}

// ODE parses the field's right-hand side.
func (f *FieldConfig) ODE() (ivp.ODE, error) {
	return ivp.ParseODE(f.Indep, f.Dep, f.RHS)
}

func (p *IVPConfig) validate() error {
	if _, err := p.ODE(); err != nil {
		return invalid("%v", err)
	}
	if !(p.Grid.From < p.Grid.To) || p.Grid.N < 2 {
		return invalid("grid %+v", p.Grid)
	}
	if p.Initial != nil {
		if _, err := p.Initial.Condition(); err != nil {
			return invalid("%v", err)
		}
	}
	if p.Constant != "" {
		if p.Initial != nil {
			return invalid("both an initial condition and a constant")
		}
		if _, err := symbolic.Parse(p.Constant); err != nil {
			return invalid("constant %q: %v", p.Constant, err)
		}
	}
	return nil
}

func (p *IVPConfig) ODE() (ivp.ODE, error) {
	return ivp.ParseODE(p.Indep, p.Dep, p.RHS)
}

// Condition parses both sides of the initial condition.
func (ic *InitialConfig) Condition() (ivp.InitialCondition, error) {
	at, err := symbolic.Parse(ic.At)
	if err != nil {
		return ivp.InitialCondition{}, err
	}
	value, err := symbolic.Parse(ic.Value)
	if err != nil {
		return ivp.InitialCondition{}, err
	}
	if len(symbolic.FreeSymbols(at)) > 0 || len(symbolic.FreeSymbols(value)) > 0 {
		return ivp.InitialCondition{}, fmt.Errorf("initial condition (%s, %s) must be constant", ic.At, ic.Value)
	}
	return ivp.InitialCondition{At: at, Value: value}, nil
}

// ParseValue evaluates a constant expression such as "pi/2".
func ParseValue(s string) (float64, error) {
	e, err := symbolic.Parse(s)
	if err != nil {
		return 0, err
	}
	return symbolic.Float(e, nil)
}
