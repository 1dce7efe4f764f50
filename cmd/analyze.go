package cmd

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/user/shieldagent/pkg/analyzer"
	"github.com/user/shieldagent/pkg/catalog"
	"github.com/user/shieldagent/pkg/config"
	"github.com/user/shieldagent/pkg/oracle"
	"github.com/user/shieldagent/pkg/remediation"
	"github.com/user/shieldagent/pkg/risk"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [documents...]",
	Short: "Analyze documents against SOC 2 controls and score the result",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringP("scan-type", "s", "", "Scan type: quick (8 controls) or full (entire catalog)")
	analyzeCmd.Flags().StringP("provider", "p", "", "AI provider override (gemini, openai, anthropic)")
	analyzeCmd.Flags().StringP("model", "m", "", "Model name override")
	analyzeCmd.Flags().String("org", "Organization", "Organization name for the remediation plan")
	analyzeCmd.Flags().Int("weeks", 12, "Target weeks to complete remediation")
	analyzeCmd.Flags().Bool("plan", false, "Generate and print a remediation plan")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	log, err := newLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	providerName, _ := cmd.Flags().GetString("provider")
	if providerName == "" {
		providerName = cfg.SelectedProvider
	}
	modelName, _ := cmd.Flags().GetString("model")
	if modelName == "" {
		modelName = cfg.SelectedModel
	}
	apiKey := cfg.GetAPIKey(providerName)
	if apiKey == "" {
		return fmt.Errorf("no API key for provider %q, run 'shieldagent config set-key'", providerName)
	}

	scanFlag, _ := cmd.Flags().GetString("scan-type")
	if scanFlag == "" {
		scanFlag = cfg.DefaultScanType
	}
	scanType := catalog.ParseScanType(scanFlag)
	controls := catalog.ForScanType(scanType)

	ctx := context.Background()
	provider, err := oracle.New(ctx, providerName, apiKey, modelName)
	if err != nil {
		return fmt.Errorf("failed to initialize provider: %w", err)
	}

	fmt.Printf("Analyzing %d documents against %d controls (%s scan)...\n\n", len(args), len(controls), scanType)

	orchestrator := analyzer.NewOrchestrator(provider, log)
	results, err := orchestrator.AnalyzeDocuments(ctx, args, controls, func(current, total int, controlID string) {
		fmt.Printf("  [%d/%d] Evaluating %s...\n", current+1, total, controlID)
	})
	if err != nil {
		return err
	}

	printResults(results)

	score := risk.New().Calculate(results.Controls)
	printScore(score)

	wantPlan, _ := cmd.Flags().GetBool("plan")
	if wantPlan {
		org, _ := cmd.Flags().GetString("org")
		weeks, _ := cmd.Flags().GetInt("weeks")
		tracker := remediation.NewTracker(log)
		plan := tracker.CreatePlanFromAnalysis(uuid.NewString(), results.Controls, org, weeks)
		printPlan(plan)
	}
	return nil
}

func printResults(results *analyzer.Results) {
	fmt.Println("\nControl Results:")
	for _, item := range results.EvidenceItems {
		fmt.Printf("  [%s] %s (confidence %.2f): %s\n",
			strings.ToUpper(string(item.Status)), item.ControlID, item.Confidence, item.Summary)
	}
	s := results.Summary
	fmt.Printf("\nSummary: %d controls, %d passing, %d failing, %d need review, %d errors\n",
		s.TotalControls, s.Passing, s.Failing, s.NeedsReview, s.Errors)
}

func printScore(score risk.Score) {
	fmt.Printf("\nRisk Assessment:\n")
	fmt.Printf("  Overall Score:    %.1f/100 (%s risk)\n", score.OverallScore, score.RiskLevel)
	fmt.Printf("  Compliance:       %.1f%%\n", score.CompliancePercentage)
	fmt.Printf("  Audit Readiness:  %s\n", score.AuditReadiness)
	fmt.Printf("  Gaps:             %d (%d critical)\n", score.GapCount, len(score.CriticalGaps))
	fmt.Printf("  Est. Remediation: %d hours\n", score.EstimatedRemediationHours)

	names := make([]string, 0, len(score.CategoryScores))
	for name := range score.CategoryScores {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Println("\n  Category Scores:")
	for _, name := range names {
		fmt.Printf("    %-22s %.1f\n", name, score.CategoryScores[name])
	}

	fmt.Println("\n  Recommendations:")
	for i, rec := range score.Recommendations {
		fmt.Printf("    %d. %s\n", i+1, rec)
	}
}

func printPlan(plan *remediation.Plan) {
	fmt.Printf("\nRemediation Plan %s (%d tasks, %d hours total):\n",
		plan.ID, plan.TotalTasks(), plan.TotalEstimatedHours())
	for _, task := range plan.Tasks {
		fmt.Printf("  [%s] %s: %s (due %s, %dh)\n",
			task.Priority, task.ControlID, task.ControlTitle,
			task.DueDate.Format("2006-01-02"), task.EstimatedHours)
		for _, item := range task.ActionItems {
			fmt.Printf("      - %s (%dh)\n", item.Action, item.Hours)
		}
	}
	fmt.Printf("  Target completion: %s\n", plan.TargetCompletionDate.Format("2006-01-02"))
}
