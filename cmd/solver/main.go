// Command solver builds a problem and an algorithm by name, runs one search
// and prints the results:
//
//	solver <Problem> [problem params...] -- <Algorithm> [algorithm params...]
//
// For example: solver TSP 20 10 0 -- HillClimbing 1.0
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/copyleftdev/localsearch/internal/catalog"
	"github.com/copyleftdev/localsearch/internal/config"
	"github.com/copyleftdev/localsearch/internal/logging"
	"github.com/copyleftdev/localsearch/internal/optimization"
)

type options struct {
	logLevel  string
	logFormat string
	timeout   time.Duration
	quiet     bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "solver [flags] <Problem> [params...] -- <Algorithm> [params...]",
		Short: "Solve an optimization problem with a local-search algorithm",
		Long: `Solver builds the named problem and algorithm from the registry, runs one
search and prints the best configuration found.

Problem and algorithm default to SEARCH_PROBLEM and SEARCH_ALGORITHM.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, opts)
		},
	}

	// Flags go before the problem name; everything after it is passed
	// through, so negative parameters such as seeds are not read as flags.
	cmd.Flags().SetInterspersed(false)
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error); defaults to LOG_LEVEL")
	cmd.Flags().StringVar(&opts.logFormat, "log-format", "text", "Log format (json, text)")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "Stop the search after this long (0 disables)")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "Do not log search progress")

	return cmd
}

func run(cmd *cobra.Command, args []string, opts *options) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	level := opts.logLevel
	if level == "" {
		level = cfg.Logging.Level
	}
	logger, err := logging.NewLogger(&logging.Config{
		Level:  level,
		Format: opts.logFormat,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	problemName, problemParams, algorithmName, algorithmParams := splitArgs(args, cmd.ArgsLenAtDash())
	if problemName == "" {
		problemName, problemParams = cfg.Search.Problem, cfg.Search.ProblemParams
	}
	if algorithmName == "" {
		algorithmName, algorithmParams = cfg.Search.Algorithm, cfg.Search.AlgorithmParams
	}

	registry := catalog.Default(optimization.WithLogger(logger))

	problem, err := registry.NewProblem(problemName, problemParams)
	if err != nil {
		logger.Error("The problem can't be built", map[string]interface{}{"problem": problemName, "error": err.Error()})
		return err
	}
	algorithm, err := registry.NewAlgorithm(algorithmName, algorithmParams)
	if err != nil {
		logger.Error("The algorithm can't be built", map[string]interface{}{"algorithm": algorithmName, "error": err.Error()})
		return err
	}

	algorithm.SetProblem(problem)
	if !opts.quiet {
		algorithm.SetReporter(logging.NewProgressLogger(logger, problemName+"/"+algorithmName))
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.timeout)
		defer cancel()
	}

	searchErr := algorithm.Search(ctx)
	if searchErr != nil && ctx.Err() == nil {
		return searchErr
	}
	if searchErr != nil {
		logger.Warn("Search stopped before reaching a local optimum", map[string]interface{}{"error": searchErr.Error()})
	}

	printResults(cmd.OutOrStdout(), algorithm.Stats(), algorithm.BestSolution())
	return nil
}

// splitArgs separates "<Problem> [params] -- <Algorithm> [params]". dash is
// the number of args before a "--" consumed by flag parsing, or -1. Once flag
// parsing has stopped at the problem name the "--" stays in args.
func splitArgs(args []string, dash int) (string, []string, string, []string) {
	problemArgs, algorithmArgs := args, []string(nil)
	if dash >= 0 {
		problemArgs, algorithmArgs = args[:dash], args[dash:]
	} else {
		for i, arg := range args {
			if arg == "--" {
				problemArgs, algorithmArgs = args[:i], args[i+1:]
				break
			}
		}
	}

	var problemName, algorithmName string
	var problemParams, algorithmParams []string
	if len(problemArgs) > 0 {
		problemName, problemParams = problemArgs[0], problemArgs[1:]
	}
	if len(algorithmArgs) > 0 {
		algorithmName, algorithmParams = algorithmArgs[0], algorithmArgs[1:]
	}
	return problemName, problemParams, algorithmName, algorithmParams
}

func printResults(w io.Writer, stats optimization.Stats, best *optimization.Candidate) {
	fmt.Fprintln(w, "\nRESULTS:")
	fmt.Fprintf(w, "Best score: %g\n", stats.BestScore)
	fmt.Fprintf(w, "Number of evaluations: %d\n", stats.Evaluations)
	fmt.Fprintf(w, "Iterations: %d\n", stats.Iterations)
	fmt.Fprintf(w, "Converged: %t\n", stats.Converged)
	fmt.Fprintf(w, "Search time: %s\n", stats.Elapsed.Round(time.Microsecond))
	if best != nil {
		values := best.Values()
		parts := make([]string, len(values))
		for i, v := range values {
			parts[i] = fmt.Sprint(v)
		}
		fmt.Fprintf(w, "Best configuration: [%s]\n", strings.Join(parts, " "))
	}
}
