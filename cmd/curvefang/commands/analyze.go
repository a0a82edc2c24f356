// Package commands implements CLI command handlers for curvefang.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/curvefang/pkg/analysis"
	"github.com/Sumatoshi-tech/curvefang/pkg/config"
	"github.com/Sumatoshi-tech/curvefang/pkg/curve"
	"github.com/Sumatoshi-tech/curvefang/pkg/export"
)

// AnalyzeCommand holds configuration for the single-curve analyze command.
type AnalyzeCommand struct {
	a          int64
	b          int64
	configPath string
	bound      float64
	step       float64
	maxPrime   int64
	plotPath   string
	noColor    bool
}

// NewAnalyzeCommand creates the analyze command.
func NewAnalyzeCommand() *cobra.Command {
	ac := &AnalyzeCommand{}

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze a single curve y² = x³ + ax + b",
		Long: "Search the curve for integer rational points, approximate L(E, 1)\n" +
			"by a truncated Euler product, and report the BSD-consistency verdict.",
		RunE: ac.run,
	}

	cmd.Flags().Int64VarP(&ac.a, "a", "a", 0, "Curve coefficient a")
	cmd.Flags().Int64VarP(&ac.b, "b", "b", 0, "Curve coefficient b")
	cmd.Flags().StringVar(&ac.configPath, "config", "", "Config file path (YAML)")
	cmd.Flags().Float64Var(&ac.bound, "bound", 0, "Point search bound (0 = config default)")
	cmd.Flags().Float64Var(&ac.step, "step", 0, "Point search x step (0 = config default)")
	cmd.Flags().Int64Var(&ac.maxPrime, "max-prime", 0, "Euler product truncation (0 = config default)")
	cmd.Flags().StringVar(&ac.plotPath, "plot", "", "Write an HTML curve plot to this path")
	cmd.Flags().BoolVar(&ac.noColor, "no-color", false, "Disable colored output")

	return cmd
}

func (ac *AnalyzeCommand) run(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(ac.configPath)
	if err != nil {
		return err
	}

	if ac.bound > 0 {
		cfg.Search.Bound = ac.bound
	}

	if ac.step > 0 {
		cfg.Search.Step = ac.step
	}

	if ac.maxPrime > 0 {
		cfg.LFunc.MaxPrime = ac.maxPrime
	}

	validateErr := cfg.Validate()
	if validateErr != nil {
		return validateErr
	}

	analyzer, err := analysis.NewAnalyzer(cfg.AnalysisConfig())
	if err != nil {
		return err
	}

	params := curve.Params{A: ac.a, B: ac.b}
	result := analyzer.Analyze(cmd.Context(), params)

	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Curve: y² = x³ %+dx %+d\n\n", params.A, params.B)
	export.PointTable(out, result.Points)
	fmt.Fprintf(out, "\nRank estimate: %d\n", result.RankEstimate)
	fmt.Fprintf(out, "L(1) ≈ %.9f (primes ≤ %d: %d used)\n", result.LValue, cfg.LFunc.MaxPrime, result.PrimesUsed)
	fmt.Fprintf(out, "Verdict: %s\n", result.Verdict)

	if result.Error != "" {
		fmt.Fprintf(out, "Error: %s\n", result.Error)
	}

	if ac.plotPath == "" {
		return nil
	}

	file, createErr := os.Create(ac.plotPath)
	if createErr != nil {
		return fmt.Errorf("create plot file: %w", createErr)
	}
	defer file.Close()

	plotErr := export.WriteCurvePlot(file, params, result.Points, cfg.Search.Bound)
	if plotErr != nil {
		return plotErr
	}

	fmt.Fprintf(out, "\nPlot written to %s\n", ac.plotPath)

	return nil
}
