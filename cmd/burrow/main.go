package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cuemby/burrow/pkg/api"
	"github.com/cuemby/burrow/pkg/config"
	"github.com/cuemby/burrow/pkg/kube"
	"github.com/cuemby/burrow/pkg/log"
)

var (
	// Version information (set via ldflags during build)
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "burrow",
	Short: "Burrow - ephemeral blockchain devnet control plane",
	Long: `Burrow provisions, inspects, proxies to, and tears down ephemeral
blockchain devnet environments inside a Kubernetes cluster. Each devnet is a
tenant-owned namespace holding a fixed set of pods, configmaps, claims, and
services synthesized from a declarative configuration.`,
	Version: Version,
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"Burrow version %s\nCommit: %s\nBuilt: %s\n",
		Version, Commit, BuildTime,
	))

	// Global flags
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("log-json", false, "Output logs in JSON format")

	// Initialize logging before command execution
	cobra.OnInitialize(initLogging)

	rootCmd.AddCommand(serverCmd)
}

func initLogging() {
	logLevel, _ := rootCmd.PersistentFlags().GetString("log-level")
	logJSON, _ := rootCmd.PersistentFlags().GetBool("log-json")

	log.Init(log.Config{
		Level:      log.Level(logLevel),
		JSONOutput: logJSON,
	})
}

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the devnet control-plane API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		configPath, _ := cmd.Flags().GetString("config")
		kubeconfig, _ := cmd.Flags().GetString("kubeconfig")

		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		clientset, err := kube.NewClientset(kubeconfig)
		if err != nil {
			return err
		}

		manager := kube.NewManager(clientset)
		server := api.NewServer(cfg, manager, Version)

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return server.Start(ctx, addr)
	},
}

func init() {
	serverCmd.Flags().String("addr", ":8477", "Address to listen on")
	serverCmd.Flags().String("config", "burrow.yaml", "Path to the startup configuration file")
	serverCmd.Flags().String("kubeconfig", "", "Path to a kubeconfig file (in-cluster config is used when unset)")
}
