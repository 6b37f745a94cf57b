package main

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/slopefield/internal/config"
	"github.com/san-kum/slopefield/internal/experiment"
	"github.com/san-kum/slopefield/internal/export"
	"github.com/san-kum/slopefield/internal/integrators"
	"github.com/san-kum/slopefield/internal/viz"
)

var (
	configFile string
	method     string
	svgPath    string
	pngDir     string
	show       bool
	warnings   bool
	width      int
	height     int
	theme      string
)

// main registers the commands and exits with status 1 when one returns an
// error.
func main() {
	rootCmd := &cobra.Command{
		Use:          "slopefield",
		Short:        "direction fields, trajectories and closed-form IVP solutions",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "scenario file (yaml), overrides the preset")
	rootCmd.PersistentFlags().StringVar(&method, "method", integrators.DefaultMethod, "integration method")
	rootCmd.PersistentFlags().BoolVar(&warnings, "warnings", false, "log integrator warnings for diverging trajectories too")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list built-in scenarios",
		RunE:  listScenarios,
	}

	fieldCmd := &cobra.Command{
		Use:   "field [scenario]",
		Short: "direction field with trajectories",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runField,
	}

	solveCmd := &cobra.Command{
		Use:   "solve [scenario]",
		Short: "solve initial value problems in closed form",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSolve,
	}

	for _, cmd := range []*cobra.Command{fieldCmd, solveCmd} {
		cmd.Flags().StringVar(&svgPath, "svg", "", "write the figure as SVG")
		cmd.Flags().StringVar(&pngDir, "png", "", "write one PNG per panel into this directory")
		cmd.Flags().BoolVar(&show, "show", false, "open the interactive viewer")
		cmd.Flags().IntVar(&width, "width", 56, "terminal panel width")
		cmd.Flags().IntVar(&height, "height", 14, "terminal panel height")
		cmd.Flags().StringVar(&theme, "theme", viz.Themes[0].Name, "color theme ("+strings.Join(viz.ThemeNames(), ", ")+")")
	}

	equilibriaCmd := &cobra.Command{
		Use:   "equilibria [scenario]",
		Short: "equilibria of an autonomous equation and the regime of each initial value",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runEquilibria,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [scenario]",
		Short: "write sampled curves to stdout as CSV",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := runScenario(cmd, "", args)
			if err != nil {
				return err
			}
			return export.WriteCSV(os.Stdout, res.Figure)
		},
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [scenario]",
		Short: "write sampled curves to stdout as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := runScenario(cmd, "", args)
			if err != nil {
				return err
			}
			return export.WriteJSON(os.Stdout, res.Figure)
		},
	}

	rootCmd.AddCommand(listCmd, fieldCmd, solveCmd, equilibriaCmd, exportCSVCmd, exportJSONCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func listScenarios(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KIND\tNAME\tTITLE")
	for _, s := range experiment.Scenarios() {
		fmt.Fprintf(w, "%s\t%s\t%s\n", s.Kind, s.Name, s.Title)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\nmethods: %s\n", strings.Join(integrators.Methods(), ", "))
	return nil
}

// resolve picks the scenario for a command. kind narrows the preset lookup;
// an empty kind searches field presets first, then ivp presets.
func resolve(kind string, args []string) (*config.Config, error) {
	name := ""
	if len(args) > 0 {
		name = args[0]
	}
	if kind != "" || configFile != "" {
		if kind == "" {
			kind = config.KindField
		}
		return experiment.Resolve(kind, name, configFile)
	}
	if name == "" {
		return experiment.Resolve(config.KindField, "", "")
	}
	for _, k := range config.Kinds() {
		if cfg := config.GetPreset(k, name); cfg != nil {
			return cfg, nil
		}
	}
	return nil, fmt.Errorf("unknown scenario: %s (see slopefield list)", name)
}

func runScenario(cmd *cobra.Command, kind string, args []string) (*experiment.Result, error) {
	cfg, err := resolve(kind, args)
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("method") && cfg.Field != nil {
		cfg.Field.Method = method
	}

	runner := experiment.New(slog.New(slog.NewTextHandler(os.Stderr, nil)))
	runner.Warnings = warnings
	return runner.Run(context.Background(), cfg)
}

func runField(cmd *cobra.Command, args []string) error {
	res, err := runScenario(cmd, config.KindField, args)
	if err != nil {
		return err
	}

	if fr := res.Field; fr != nil {
		fc := res.Config.Field
		fmt.Printf("equation: %s\n", fr.ODE)
		fmt.Printf("grid: %dx%d on %s in [%g, %g], %s in [%g, %g]\n",
			fc.Resolution.NT, fc.Resolution.NY,
			fr.ODE.Indep, fc.Bounds.TMin, fc.Bounds.TMax,
			fr.ODE.Dep, fc.Bounds.YMin, fc.Bounds.YMax)
		fmt.Printf("method: %s\n", fc.Method)
		fmt.Println("\ntrajectories:")
		for _, tr := range fr.Trajectories {
			values := tr.Solution.Values()
			fmt.Printf("  %-20s %-10s window %-6g end %s\n", tr.Label, tr.Regime, tr.Window, lastFinite(values))
		}
		if n := len(res.Warnings()); n > 0 {
			fmt.Printf("\n%d trajectories stopped early\n", n)
		}
		fmt.Println()
	}
	return output(res)
}

func runSolve(cmd *cobra.Command, args []string) error {
	res, err := runScenario(cmd, config.KindIVP, args)
	if err != nil {
		return err
	}

	for _, ir := range res.IVPs {
		title := ir.Config.Title
		if title == "" {
			title = ir.Config.Label
		}
		fmt.Printf("%s\n", title)
		fmt.Printf("  general:    %s\n", ir.General)
		fmt.Printf("  constant:   %s = %s\n", ir.General.Constant, ir.Solution.Constant)
		fmt.Printf("  particular: %s\n", ir.Solution)
	}
	fmt.Println()
	return output(res)
}

func runEquilibria(cmd *cobra.Command, args []string) error {
	res, err := runScenario(cmd, config.KindField, args)
	if err != nil {
		return err
	}
	fr := res.Field
	if fr == nil {
		return fmt.Errorf("scenario %q has no direction field", res.Config.Name)
	}

	fmt.Printf("equation: %s\n\n", fr.ODE)
	if !fr.Autonomous {
		fmt.Printf("%s depends on %s; no equilibria\n", fr.ODE.RHS, fr.ODE.Indep)
	} else if len(fr.Equilibria) == 0 {
		fmt.Println("no equilibria in range")
	} else {
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "VALUE\tSTABILITY")
		for _, e := range fr.Equilibria {
			fmt.Fprintf(w, "%.6g\t%s\n", e.Value, e.Stability)
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}

	if len(fr.Trajectories) == 0 {
		return nil
	}
	fmt.Println()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s(%g)\tREGIME\tWINDOW\n", strings.ToUpper(fr.ODE.Dep), res.Config.Field.Time.Start)
	for _, tr := range fr.Trajectories {
		fmt.Fprintf(w, "%g\t%s\t%g\n", tr.Y0, tr.Regime, tr.Window)
	}
	return w.Flush()
}

// output writes the requested files, then either opens the viewer or
// prints the figure to the terminal.
func output(res *experiment.Result) error {
	fig := res.Figure
	if svgPath != "" {
		if err := export.WriteSVG(svgPath, fig, 480, 400); err != nil {
			return fmt.Errorf("failed to write svg: %w", err)
		}
		fmt.Printf("wrote %s\n", svgPath)
	}
	if pngDir != "" {
		paths, err := export.WritePNGs(pngDir, fig, 640, 480)
		if err != nil {
			return fmt.Errorf("failed to write png: %w", err)
		}
		for _, p := range paths {
			fmt.Printf("wrote %s\n", p)
		}
	}

	t := viz.GetTheme(theme)
	if show {
		return viz.Show(fig, t)
	}
	fmt.Println(viz.RenderFigure(fig, width, height, viz.NewStyles(t)))
	return nil
}

func lastFinite(values []float64) string {
	for i := len(values) - 1; i >= 0; i-- {
		if !math.IsNaN(values[i]) && !math.IsInf(values[i], 0) {
			if i == len(values)-1 {
				return fmt.Sprintf("%.6g", values[i])
			}
			return fmt.Sprintf("%.6g (stopped)", values[i])
		}
	}
	return "NaN"
}
