package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mtbell/tasklight/internal/config"
	"github.com/mtbell/tasklight/internal/database"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// NewSettingsCmd creates the settings command with list, get and set subcommands.
func NewSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Manage runtime settings",
		Long:  "List or update runtime settings such as the rate limit and CORS origins. Stored in database.",
	}
	cmd.AddCommand(newSettingsListCmd())
	cmd.AddCommand(newSettingsGetCmd())
	cmd.AddCommand(newSettingsSetCmd())
	return cmd
}

func withSettingsRepo(fn func(ctx context.Context, repo *database.SettingsRepository) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close database: %v\n", err)
		}
	}()

	return fn(context.Background(), database.NewSettingsRepository(db))
}

func newSettingsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all runtime settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSettingsRepo(func(ctx context.Context, repo *database.SettingsRepository) error {
				settings, err := repo.List(ctx)
				if err != nil {
					return fmt.Errorf("failed to list settings: %w", err)
				}

				if len(settings) == 0 {
					fmt.Println("No settings stored. Use 'settings set' to add one.")
					return nil
				}

				out, err := yaml.Marshal(settings)
				if err != nil {
					return fmt.Errorf("failed to encode settings: %w", err)
				}
				fmt.Print(string(out))
				return nil
			})
		},
	}
}

func newSettingsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print a single setting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSettingsRepo(func(ctx context.Context, repo *database.SettingsRepository) error {
				value, err := repo.Get(ctx, args[0])
				if errors.Is(err, database.ErrNotFound) {
					return fmt.Errorf("setting %q is not stored", args[0])
				}
				if err != nil {
					return fmt.Errorf("failed to get setting: %w", err)
				}
				fmt.Println(value)
				return nil
			})
		},
	}
}

func newSettingsSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a runtime setting",
		Long:  "Set a runtime setting, e.g. 'settings set ratelimit.rate 100-M'. Takes effect on server restart.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := strings.TrimSpace(args[0])
			if key == "" {
				return fmt.Errorf("key must not be empty")
			}
			return withSettingsRepo(func(ctx context.Context, repo *database.SettingsRepository) error {
				if err := repo.Set(ctx, key, args[1]); err != nil {
					return fmt.Errorf("failed to set setting: %w", err)
				}
				fmt.Println("Setting updated.")
				return nil
			})
		},
	}
}
