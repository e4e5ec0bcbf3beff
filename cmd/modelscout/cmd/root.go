// Package cmd implements the modelscout CLI commands.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/agentstation/modelscout/pkg/catalogs"
	"github.com/agentstation/modelscout/pkg/errors"
	"github.com/agentstation/modelscout/pkg/logging"
)

var (
	configFile string
	verbose    bool
	quiet      bool
	outputFmt  string

	// Version information set by main.
	Version = "dev"
	// Commit is the git commit hash.
	Commit = "unknown"
	// Date is the build date.
	Date = "unknown"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "modelscout",
	Short: "Model discovery and hardware compatibility CLI",
	Long: `Modelscout searches public model catalogs (Hugging Face, Ollama,
Google AI), merges and filters the results, and judges how well each model
variant fits a given hardware profile.

Source API tokens (HF_TOKEN, GEMINI_API_KEY) raise per-source rate limits
and may be set in the environment or a .env file.`,
}

// Execute adds all child commands to the root command and runs it.
func Execute(version, commit, date string) {
	Version = version
	Commit = commit
	Date = date

	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if errors.IsCanceled(err) {
			// Interrupted by the user; nothing went wrong.
			os.Exit(130)
		}
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is $HOME/.modelscout.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "only log warnings and errors")
	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", "table", "output format (table, json, yaml)")

	rootCmd.PersistentFlags().StringSlice("sources", []string{"huggingface", "ollama"}, "source catalogs to query")
	rootCmd.PersistentFlags().Float64("vram", 0, "available GPU memory in GiB for compatibility analysis")
	rootCmd.PersistentFlags().Float64("ram", 16, "available system memory in GiB for compatibility analysis")
	rootCmd.PersistentFlags().String("gpu-class", "unknown", "GPU tier (high-end, mid-range, low-end, integrated, unknown)")
	rootCmd.PersistentFlags().String("cpu-class", "mainstream", "CPU tier (high-end, mainstream, low-power, unknown)")
	rootCmd.PersistentFlags().String("weights", "", "YAML file overriding recommendation scoring weights")

	for _, flag := range []string{"sources", "vram", "ram", "gpu-class", "cpu-class", "weights"} {
		if err := viper.BindPFlag(flag, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
			panic(fmt.Sprintf("failed to bind %s flag: %v", flag, err))
		}
	}
}

// initConfig reads in the config file and environment variables if set.
func initConfig() {
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".modelscout")
	}

	// .env files load before viper's env binding so tokens in them are seen.
	loadEnvFiles()

	viper.SetEnvPrefix("MODELSCOUT")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	bindTokens()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	configureLogging()
}

// configureLogging sets the log level from flags and environment.
func configureLogging() {
	level := "info"
	if verbose {
		level = "debug"
	}
	if quiet {
		level = "warn"
	}
	if envLevel := os.Getenv("LOG_LEVEL"); envLevel != "" {
		level = envLevel
	}
	logging.Configure(level, os.Getenv("LOG_FORMAT"))
}

// loadEnvFiles loads environment variables from .env files, later files
// taking precedence.
func loadEnvFiles() {
	for _, envFile := range []string{".env", ".env.local"} {
		if err := godotenv.Load(envFile); err == nil && verbose {
			fmt.Fprintf(os.Stderr, "Loaded %s\n", envFile)
		}
	}
}

// bindTokens binds the source token environment variables so viper sees
// them whether or not they appear in the config file.
func bindTokens() {
	for _, key := range []string{"HF_TOKEN", "GEMINI_API_KEY"} {
		_ = viper.BindEnv(strings.ToLower(key), key)
	}
}

// sourceTokens assembles the per-source token map from the environment.
func sourceTokens() map[string]string {
	tokens := make(map[string]string)
	if token := viper.GetString("hf_token"); token != "" {
		tokens[string(catalogs.SourceHuggingFace)] = token
	}
	if token := viper.GetString("gemini_api_key"); token != "" {
		tokens[string(catalogs.SourceGoogleAI)] = token
	}
	return tokens
}

// callerIdentity names the quota bucket for CLI invocations.
func callerIdentity() string {
	if user := os.Getenv("USER"); user != "" {
		return "cli:" + user
	}
	return "cli"
}
