package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/libris/internal"
	pkgconfig "github.com/starford/libris/pkg/config"
)

// loadConfig reads the config file and applies command-line overrides.
// A positional file argument wins over --file, which wins over catalog.path.
func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadOptional(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if file := cmd.String("file"); file != "" {
		cfg.Catalog.Path = file
	}
	if file := cmd.Args().First(); file != "" {
		cfg.Catalog.Path = file
	}
	return cfg, nil
}

func serve(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := internal.Run(ctx, internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func load(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return fmt.Errorf("load: expected exactly one file argument")
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return internal.RunLoad(ctx, cfg.Catalog.Path, internal.WithConfig(cfg))
}

func shell(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return internal.RunShell(ctx, internal.WithConfig(cfg))
}

func mcp(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return internal.RunMCP(ctx, internal.WithConfig(cfg))
}

func main() {
	cmd := &cli.Command{
		Name:   "libris",
		Usage:  "In-memory book catalog with file loading, REST API, MCP tools and an interactive shell",
		Action: serve,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
			&cli.StringFlag{
				Name:    "file",
				Aliases: []string{"f"},
				Usage:   "Catalog file to load at startup",
				Sources: cli.EnvVars("LIBRIS_FILE"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP API (default)",
				Action: serve,
			},
			{
				Name:      "load",
				Usage:     "Load a catalog file and report skipped lines",
				ArgsUsage: "<file>",
				Action:    load,
			},
			{
				Name:      "shell",
				Usage:     "Run the interactive menu",
				ArgsUsage: "[file]",
				Action:    shell,
			},
			{
				Name:      "mcp",
				Usage:     "Serve MCP tools over stdio",
				ArgsUsage: "[file]",
				Action:    mcp,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
