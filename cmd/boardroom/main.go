package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/alienxp03/boardroom/internal/config"
	"github.com/alienxp03/boardroom/internal/engine"
	"github.com/alienxp03/boardroom/internal/persona"
	"github.com/alienxp03/boardroom/internal/provider"
	"github.com/alienxp03/boardroom/internal/storage"
	"github.com/alienxp03/boardroom/web/handlers"
)

var version = "0.1.0"

var (
	cfgPath   string
	debug     bool
	appConfig *config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "boardroom",
	Short: "AI executive boardroom simulator",
	Long: `boardroom runs a simulated executive meeting where AI personas
(CFO, CTO, CIO, CDO) respond to your messages.

An orchestrator model decides on each message which executive should
speak, raise a hand, or stay silent.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfgPath != "" {
			appConfig, err = config.LoadFrom(cfgPath)
		} else {
			appConfig, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		level := slog.LevelInfo
		if debug {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "Config file path (default: ~/.boardroom/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(personasCmd)
	rootCmd.AddCommand(providersCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)

	serveCmd.Flags().IntVar(&servePort, "port", 8183, "Server port")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the boardroom web server",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cmd.Flags().Changed("port") && appConfig != nil && appConfig.Server.Port != 0 {
			servePort = appConfig.Server.Port
		}

		registry, err := appConfig.CreateRegistry()
		if err != nil {
			return fmt.Errorf("failed to initialize provider registry: %w", err)
		}

		store := storage.NewMemoryStorage()
		defer store.Close()

		eng := engine.New(store, registry, appConfig.EngineOptions())

		fmt.Printf("\nStarting boardroom server on http://localhost:%d\n\n", servePort)
		fmt.Println("Available endpoints:")
		fmt.Printf("  POST http://localhost:%d/api/sessions               - Create session\n", servePort)
		fmt.Printf("  POST http://localhost:%d/api/sessions/:id/messages  - Send a message\n", servePort)
		fmt.Printf("  GET  http://localhost:%d/api/sessions/:id/turns     - View transcript\n", servePort)
		fmt.Println("\nPress Ctrl+C to stop the server")

		return startWebServer(eng, registry, servePort)
	},
}

var personasCmd = &cobra.Command{
	Use:     "personas",
	Short:   "List the executive personas",
	Aliases: []string{"persona"},
	Run: func(cmd *cobra.Command, args []string) {
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tROLE\tDESCRIPTION")
		for _, p := range persona.List() {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.ID, p.Name, p.Role, p.Description)
		}
		w.Flush()
	},
}

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List configured providers",
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := appConfig.CreateRegistry()
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tDISPLAY\tAVAILABLE")
		for _, p := range registry.List() {
			fmt.Fprintf(w, "%s\t%s\t%t\n", p.Name(), p.DisplayName(), p.Available())
		}
		return w.Flush()
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("Config file: %s\n\n", config.DefaultConfigPath())

		if appConfig != nil {
			fmt.Println("Current settings:")
			fmt.Printf("  Server port: %d\n", appConfig.Server.Port)
			fmt.Printf("  Provider: %s\n", appConfig.Provider.Name)
			if appConfig.Provider.Model != "" {
				fmt.Printf("  Model: %s\n", appConfig.Provider.Model)
			}
			fmt.Printf("  Decision temperature: %.2f\n", appConfig.Engine.DecisionTemperature)
			fmt.Printf("  Reply temperature: %.2f\n", appConfig.Engine.ReplyTemperature)
			fmt.Printf("  Max reply tokens: %d\n", appConfig.Engine.MaxReplyTokens)
			fmt.Printf("  History window: %d\n", appConfig.Engine.HistoryWindow)
		}
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create example config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.DefaultConfigPath()
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists at %s", path)
		}

		example := config.GenerateExample()
		if err := os.MkdirAll(fmt.Sprintf("%s/.boardroom", os.Getenv("HOME")), 0755); err != nil {
			return err
		}
		if err := os.WriteFile(path, []byte(example), 0644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}

		fmt.Printf("Created example config at %s\n", path)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("boardroom %s\n", version)
	},
}

func startWebServer(eng *engine.Engine, registry *provider.Registry, port int) error {
	h := handlers.New(eng, registry)

	addr := fmt.Sprintf(":%d", port)
	server := &http.Server{
		Addr:    addr,
		Handler: h.Router(),
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		<-sigCh
		fmt.Println("\nShutting down...")
		server.Close()
	}()

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
