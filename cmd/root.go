package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:   "shieldagent",
	Short: "AI-Powered SOC 2 Compliance Gap Analysis",
	Long: `ShieldAgent analyzes organizational documents against the SOC 2 Trust
Service Criteria using a generative-AI model, scores the resulting compliance
posture, and turns identified gaps into a prioritized remediation plan.`,
}

var DebugMode bool

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&DebugMode, "debug", false, "Enable debug logging")
}

// newLogger builds the process logger. API keys and model settings may come
// from a local .env file.
func newLogger() (*zap.Logger, error) {
	_ = godotenv.Load()
	if DebugMode {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
