package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/Rorical/RoriAgent/internal/app"
	"github.com/Rorical/RoriAgent/internal/config"
	"github.com/Rorical/RoriAgent/internal/logger"
)

var (
	configPath string
	logLevel   string
	logConsole bool
)

var rootCmd = &cobra.Command{
	Use:   "roriagent",
	Short: "A terminal chat agent with tools and human-in-the-loop",
	Long: `RoriAgent is a terminal chat agent. The model may call tools such as weather lookup
and web search, or pause and ask a human expert before it answers.`,
	Run: func(cmd *cobra.Command, args []string) {
		// Default behavior: run the chat application
		cfg, err := loadConfig()
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		if err := runChat(cfg); err != nil {
			log.Fatalf("Application error: %v", err)
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Printf("Command execution error: %v", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $HOME/.roriagent/config.json)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&logConsole, "log-console", false, "also write logs to stderr")

	// Add subcommands
	rootCmd.AddCommand(profileCmd)
}

func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadConfigFrom(configPath)
	}
	return config.LoadConfig()
}

func newLogger(cfg *config.Config) (*logger.Logger, error) {
	level := cfg.Logging.Level
	if logLevel != "" {
		level = logLevel
	}
	return logger.New(logger.Config{
		Level:   level,
		File:    cfg.Logging.File,
		Console: logConsole,
		Pretty:  true,
	})
}

func runChat(cfg *config.Config) error {
	l, err := newLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer l.Close()

	application, err := app.NewApplication(cfg, l.GetZerolog())
	if err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}
	defer application.Stop()

	return application.Start()
}
