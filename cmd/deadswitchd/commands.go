package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/danmuck/deadswitch/internal/config"
	"github.com/danmuck/deadswitch/internal/logging"
	"github.com/spf13/cobra"
)

const defaultConfigPath = "cmd/deadswitchd/config.toml"

func newRootCmd() *cobra.Command {
	var configPath string
	root := &cobra.Command{
		Use:           "deadswitchd",
		Short:         "Dead-man's-switch custodial wallet host",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to config.toml")

	root.AddCommand(newServeCmd(&configPath))
	root.AddCommand(newTokenCmd(&configPath))
	root.AddCommand(newConfigCmd(&configPath))
	return root
}

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the wallet HTTP host until SIGINT/SIGTERM",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logging.ConfigureRuntime()
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			app, err := build(ctx, cfg)
			if err != nil {
				return err
			}
			return app.server.Run(ctx)
		},
	}
}

func newTokenCmd(configPath *string) *cobra.Command {
	token := &cobra.Command{
		Use:   "token",
		Short: "Caller token utilities",
	}
	var subject string
	issue := &cobra.Command{
		Use:   "issue",
		Short: "Mint an HS256 bearer token for an identity",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			id, err := config.ParseIdentity(subject)
			if err != nil {
				return fmt.Errorf("subject: %w", err)
			}
			tok, err := jwtFor(cfg).Issue(id)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	issue.Flags().StringVar(&subject, "subject", "", "identity address the token authenticates")
	_ = issue.MarkFlagRequired("subject")
	token.AddCommand(issue)
	return token
}

func newConfigCmd(configPath *string) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Config template and validation",
	}
	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write an example config",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.WriteTemplate(*configPath, force); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", *configPath)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config")

	validate := &cobra.Command{
		Use:   "validate",
		Short: "Load and validate the config",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := config.Load(*configPath); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "valid %s\n", *configPath)
			return nil
		},
	}
	cfgCmd.AddCommand(initCmd, validate)
	return cfgCmd
}
