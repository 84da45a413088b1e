package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"brainstem/internal/config"
	"brainstem/internal/contracts"
	"brainstem/internal/decision"
	"brainstem/internal/judgement"
	"brainstem/internal/learning"
	"brainstem/internal/orchestrator"
	"brainstem/internal/provider"
	"brainstem/internal/retrieval"
	"brainstem/internal/store"
	"brainstem/internal/vector"
)

var version = "0.1.0"

var (
	configPath  string
	workspaceID string
	actorID     string
	verbose     bool
	asJSON      bool
	outcome     string
	feedback    string
	comment     string

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "brainstem",
	Short: "brainstem - governed decision pipeline for agent actions",
	Long: `brainstem turns a raw user intent into a governed, auditable decision.

Every request flows through four stages: retrieval assembles a cited
context bundle, judgement evaluates policy, risk and priority, decision
plans the action and resolves the execution mode, and learning folds the
outcome back into reviewable memory updates and policy suggestions.

Nothing executes here: tool calls leave the pipeline as drafts.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var runCmd = &cobra.Command{
	Use:   "run [intent]",
	Short: "Run one intent through the pipeline",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		s, err := store.Open(cfg.Database.Path)
		if err != nil {
			return err
		}
		defer s.Close()

		o := buildPipeline(cfg, s)
		rawIntent := strings.Join(args, " ")

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		var result orchestrator.PipelineResult
		if outcome == "" {
			result, err = o.Run(ctx, rawIntent, workspaceID, actorID)
		} else {
			result, err = o.RunWithSignal(ctx, rawIntent, workspaceID, actorID, learning.ExecutionSignal{
				Result:   outcome,
				Feedback: feedback,
				Comment:  comment,
			})
		}
		if err != nil {
			return err
		}
		return printResult(result)
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the demo dataset into the database",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		s, err := store.Open(cfg.Database.Path)
		if err != nil {
			return err
		}
		defer s.Close()

		embedder := vector.NewHashEmbedder(cfg.Retrieval.Vector.Dimensions)
		err = s.Seed(func(text string) []float32 {
			v, embedErr := embedder.Embed(context.Background(), text)
			if embedErr != nil {
				return nil
			}
			return v
		})
		if err != nil {
			return err
		}
		fmt.Printf("Seeded demo dataset into %s\n", s.Path())
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("brainstem %s\n", version)
	},
}

// buildPipeline wires the stage engines against one store.
func buildPipeline(cfg *config.Config, s *store.Store) *orchestrator.Orchestrator {
	embedder := vector.NewHashEmbedder(cfg.Retrieval.Vector.Dimensions)
	re := retrieval.NewEngine(
		cfg.Retrieval,
		store.DefaultScopeRegistry(),
		s, s, s,
		vector.NewIndex(s, embedder),
		provider.DefaultRegistry(),
		logger,
	)
	return orchestrator.New(re,
		judgement.NewEngine(cfg.Judgement, logger),
		decision.NewEngine(logger),
		learning.NewEngine(logger),
		s, logger)
}

// printResult renders the pipeline output for the terminal, or as JSON
// with --json.
func printResult(result orchestrator.PipelineResult) error {
	if asJSON {
		data, err := json.MarshalIndent(map[string]any{
			"request_id":      result.RequestID,
			"context_bundle":  result.Bundle,
			"judgement":       result.Judgement,
			"decision_packet": result.Decision,
			"learning_report": result.Learning,
		}, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	d := result.Decision
	fmt.Println(d.Response.UserMessage)
	fmt.Println()
	for _, block := range d.Response.UIBlocks {
		fmt.Printf("[%s] %s\n%s\n\n", block.BlockType, block.Title, block.Content)
	}
	fmt.Printf("mode: %s  risk: %s (%.2f)  priority: %.2f  quality: %.2f\n",
		d.ExecutionMode,
		result.Judgement.Risk.Level, result.Judgement.Risk.Score,
		result.Judgement.Priority.Score,
		result.Learning.EvalMetrics.QualityScore)
	if d.ExecutionMode == contracts.ModeNeedsApproval {
		fmt.Printf("approvers: %v\n", d.Execution.ApprovalsRequired)
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "brainstem.yaml", "path to config file")
	rootCmd.PersistentFlags().StringVar(&workspaceID, "workspace", "w1", "workspace id")
	rootCmd.PersistentFlags().StringVar(&actorID, "actor", "u1", "actor id")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	runCmd.Flags().BoolVar(&asJSON, "json", false, "emit the full pipeline output as JSON")
	runCmd.Flags().StringVar(&outcome, "outcome", "", "execution outcome to learn from (approved|auto_executed|rejected|failed|pending)")
	runCmd.Flags().StringVar(&feedback, "feedback", "", "user feedback on the outcome (approve|reject|edit)")
	runCmd.Flags().StringVar(&comment, "comment", "", "free-text feedback comment")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
