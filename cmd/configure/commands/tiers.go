package commands

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/stuapp/suggest-api/internal/config"
	"github.com/stuapp/suggest-api/internal/database"
	"github.com/stuapp/suggest-api/internal/models"
)

// NewTiersCmd creates the tiers configuration command with show, set and
// unset subcommands.
func NewTiersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tiers",
		Short: "Manage per-tier daily request limits",
		Long:  "Show or update the daily AI request limits stored in the database. Stored limits override compiled defaults.",
	}
	cmd.AddCommand(newTiersShowCmd())
	cmd.AddCommand(newTiersSetCmd())
	cmd.AddCommand(newTiersUnsetCmd())
	return cmd
}

func openTierLimitRepo() (*database.TierLimitRepository, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}
	closeDB := func() {
		if err := db.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close database: %v\n", err)
		}
	}
	return database.NewTierLimitRepository(db), closeDB, nil
}

func parseTier(raw string) (models.SubscriptionTier, error) {
	tier := models.SubscriptionTier(strings.TrimSpace(strings.ToLower(raw)))
	if !models.ValidTier(tier) {
		return "", fmt.Errorf("unknown tier %q (valid: free, premium, premium_plus)", raw)
	}
	return tier, nil
}

func newTiersShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show effective daily limits",
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, closeDB, err := openTierLimitRepo()
			if err != nil {
				return err
			}
			defer closeDB()

			overrides, err := repo.GetAll(context.Background())
			if err != nil {
				return fmt.Errorf("get tier limits: %w", err)
			}

			tiers := make([]models.SubscriptionTier, 0, len(models.DefaultDailyLimits))
			for tier := range models.DefaultDailyLimits {
				tiers = append(tiers, tier)
			}
			sort.Slice(tiers, func(i, j int) bool {
				return models.DefaultDailyLimits[tiers[i]] < models.DefaultDailyLimits[tiers[j]]
			})

			fmt.Println("Daily request limits:")
			for _, tier := range tiers {
				limit := models.DefaultDailyLimits[tier]
				source := "default"
				if override, ok := overrides[tier]; ok {
					limit = override
					source = "database"
				}
				if limit == models.UnlimitedDailyLimit {
					fmt.Printf("  %-13s unlimited (%s)\n", tier, source)
				} else {
					fmt.Printf("  %-13s %d (%s)\n", tier, limit, source)
				}
			}
			return nil
		},
	}
}

func newTiersSetCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "set <tier>",
		Short: "Set a daily limit override for a tier",
		Long:  "Store a daily request limit for a tier in the database. A limit of 0 means unlimited.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tier, err := parseTier(args[0])
			if err != nil {
				return err
			}
			if limit < 0 {
				return fmt.Errorf("--limit must be >= 0 (0 means unlimited)")
			}

			repo, closeDB, err := openTierLimitRepo()
			if err != nil {
				return err
			}
			defer closeDB()

			if err := repo.Set(context.Background(), tier, limit); err != nil {
				return fmt.Errorf("set tier limit: %w", err)
			}
			fmt.Printf("Daily limit for %s set to %d.\n", tier, limit)
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", -1, "Daily request limit, 0 for unlimited (required)")
	_ = cmd.MarkFlagRequired("limit")
	return cmd
}

func newTiersUnsetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unset <tier>",
		Short: "Remove a tier's database override",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tier, err := parseTier(args[0])
			if err != nil {
				return err
			}

			repo, closeDB, err := openTierLimitRepo()
			if err != nil {
				return err
			}
			defer closeDB()

			if err := repo.Delete(context.Background(), tier); err != nil {
				return fmt.Errorf("delete tier limit: %w", err)
			}
			fmt.Printf("Override for %s removed; compiled default applies.\n", tier)
			return nil
		},
	}
}
