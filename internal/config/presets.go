package config

import "sort"

const (
	KindField = "field"
	KindIVP   = "ivp"
)

var Presets = map[string]map[string]*Config{
	KindField: {
		"sine": {
			Name: "sine", Title: "dy/dx = 1 - sin(y)",
			Field: &FieldConfig{
				Indep: "x", Dep: "y", RHS: "1 - sin(y)",
				Bounds:     BoundsConfig{TMin: -10, TMax: 10, YMin: -10, YMax: 10},
				Resolution: ResolutionConfig{NT: 20, NY: 20},
				Time:       TimeConfig{Start: -10, Short: 20, Long: 20, Samples: 1000},
				Trajectories: []TrajectoryConfig{
					{Y0: "1.8"}, {Y0: "pi/2"}, {Y0: "-4.5"},
				},
			},
		},
		"cubic": {
			Name: "cubic", Title: "dy/dt = y(y - 2)(y + 1)",
			Field: &FieldConfig{
				Indep: "t", Dep: "y", RHS: "y*(y - 2)*(y + 1)",
				Bounds:     BoundsConfig{TMin: 0, TMax: 6, YMin: -3, YMax: 4},
				Resolution: ResolutionConfig{NT: 24, NY: 21},
				Time:       TimeConfig{Start: 0, Short: 1, Long: 25, Samples: 500},
				Trajectories: []TrajectoryConfig{
					{Y0: "-1.2"}, {Y0: "-1"}, {Y0: "-0.5"}, {Y0: "0"},
					{Y0: "0.5"}, {Y0: "1.5"}, {Y0: "2"}, {Y0: "2.2"},
				},
				Equilibria: EquilibriaConfig{Show: true},
			},
		},
		"logistic": {
			Name: "logistic", Title: "dy/dt = y(1 - y)",
			Field: &FieldConfig{
				Indep: "t", Dep: "y", RHS: "y*(1 - y)",
				Bounds:     BoundsConfig{TMin: 0, TMax: 8, YMin: -1, YMax: 2},
				Resolution: ResolutionConfig{NT: 24, NY: 15},
				Time:       TimeConfig{Start: 0, Short: 2, Long: 10, Samples: 400},
				Trajectories: []TrajectoryConfig{
					{Y0: "-0.1"}, {Y0: "0"}, {Y0: "0.2"}, {Y0: "0.5"}, {Y0: "1"}, {Y0: "1.5"},
				},
				Equilibria: EquilibriaConfig{Show: true},
			},
		},
	},
	KindIVP: {
		"textbook": {
			Name: "textbook", Title: "Closed-form initial value problems",
			Layout: LayoutConfig{Rows: 2, Cols: 3},
			IVPs: []IVPConfig{
				{
					Label: "a", Title: "(a) dx/dt = t³, x(1) = 2",
					Indep: "t", Dep: "x", RHS: "t^3",
					Initial: &InitialConfig{At: "1", Value: "2"},
					Grid:    GridConfig{From: 0.1, To: 3, N: 100},
				},
				{
					Label: "b", Title: "(b) dy/dx = xe^x",
					Indep: "x", Dep: "y", RHS: "x*exp(x)",
					Constant: "0",
					Grid:     GridConfig{From: -1, To: 2, N: 100},
				},
				{
					Label: "c", Title: "(c) dy/dx = sin x, y(π/2) = 3",
					Indep: "x", Dep: "y", RHS: "sin(x)",
					Initial: &InitialConfig{At: "pi/2", Value: "3"},
					Grid:    GridConfig{From: 0, To: 6.283185307179586, N: 100},
				},
				{
					Label: "d", Title: "(d) (1 + x)dy - dx = 0  =>  dy/dx = 1/(1+x)",
					Indep: "x", Dep: "y", RHS: "1/(1 + x)",
					Constant: "0",
					Grid:     GridConfig{From: -0.9, To: 3, N: 100},
				},
				{
					Label: "e", Title: "(e) dx/dt = 2t + 1/t, x(1) = 2",
					Indep: "t", Dep: "x", RHS: "2*t + 1/t",
					Initial: &InitialConfig{At: "1", Value: "2"},
					Grid:    GridConfig{From: 0.1, To: 3, N: 100},
				},
				{
					Label: "f", Title: "(f) dy/dx = x ln x and y(1) = 3",
					Indep: "x", Dep: "y", RHS: "x*ln(x)",
					Initial: &InitialConfig{At: "1", Value: "3"},
					Grid:    GridConfig{From: 0.1, To: 3, N: 100},
				},
			},
		},
		"linear": {
			Name: "linear", Title: "Linear first-order equations",
			Layout: LayoutConfig{Rows: 2, Cols: 2},
			IVPs: []IVPConfig{
				{
					Label: "growth", Title: "dy/dx = y + x, y(0) = 0",
					Indep: "x", Dep: "y", RHS: "y + x",
					Initial: &InitialConfig{At: "0", Value: "0"},
					Grid:    GridConfig{From: 0, To: 2, N: 100},
				},
				{
					Label: "decay", Title: "dy/dx = -2y, y(0) = 3",
					Indep: "x", Dep: "y", RHS: "-2*y",
					Initial: &InitialConfig{At: "0", Value: "3"},
					Grid:    GridConfig{From: 0, To: 3, N: 100},
				},
				{
					Label: "gaussian", Title: "dy/dx = x²y, y(0) = 1",
					Indep: "x", Dep: "y", RHS: "x^2*y",
					Initial: &InitialConfig{At: "0", Value: "1"},
					Grid:    GridConfig{From: -1.5, To: 1.5, N: 100},
				},
				{
					Label: "periodic", Title: "dy/dx = cos(x)y, y(0) = 1",
					Indep: "x", Dep: "y", RHS: "cos(x)*y",
					Initial: &InitialConfig{At: "0", Value: "1"},
					Grid:    GridConfig{From: 0, To: 12.566370614359172, N: 100},
				},
			},
		},
	},
}

// GetPreset returns a defaulted copy of the named preset, or nil.
func GetPreset(kind, preset string) *Config {
	kindPresets, ok := Presets[kind]
	if !ok {
		return nil
	}
	cfg, ok := kindPresets[preset]
	if !ok {
		return nil
	}
	c := cfg.Clone()
	c.ApplyDefaults()
	return c
}

func ListPresets(kind string) []string {
	kindPresets, ok := Presets[kind]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(kindPresets))
	for name := range kindPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Kinds lists the preset families.
func Kinds() []string {
	kinds := make([]string, 0, len(Presets))
	for k := range Presets {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	if c.Field != nil {
		f := *c.Field
		f.Trajectories = append([]TrajectoryConfig(nil), c.Field.Trajectories...)
		out.Field = &f
	}
	if c.IVPs != nil {
		out.IVPs = make([]IVPConfig, len(c.IVPs))
		for i, p := range c.IVPs {
			if p.Initial != nil {
				ic := *p.Initial
				p.Initial = &ic
			}
			out.IVPs[i] = p
		}
	}
	return &out
}
