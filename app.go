package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"abena-car-sales/config"
	"abena-car-sales/database"
	"abena-car-sales/services"
)

// app holds the services shared by the serve and chat commands
type app struct {
	cfg          *config.Config
	inventory    *services.Inventory
	store        *services.Store
	upstream     *services.UpstreamClient
	conversation *services.Conversation
}

func newApp(ctx context.Context, cfg *config.Config, pacer services.Pacer) (*app, error) {
	inv, err := loadInventory(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("loading inventory: %w", err)
	}

	a := &app{
		cfg:       cfg,
		inventory: inv,
		store:     services.NewStore(),
		upstream:  services.NewUpstreamClient(cfg),
	}

	var completer services.Completer = a.upstream
	if cfg.CompletionURL != "" {
		log.Printf("Using completion endpoint %s", cfg.CompletionURL)
		completer = services.NewEndpointClient(cfg.CompletionURL, cfg.CompletionAPIKey)
	}

	a.conversation = services.NewConversation(services.ConversationDeps{
		Inventory:    inv,
		Store:        a.store,
		Completer:    completer,
		Renderer:     &services.Renderer{Pacer: pacer},
		Narrator:     services.LogNarrator{},
		BookingEmail: cfg.BookingEmail,
		AutoNarrate:  cfg.AutoNarrate,
	})
	return a, nil
}

// loadInventory reads the stock from the configured source
func loadInventory(ctx context.Context, cfg *config.Config) (*services.Inventory, error) {
	switch cfg.InventorySource {
	case "yaml":
		log.Printf("Loading inventory from %s", cfg.InventoryFile)
		return services.LoadInventoryYAML(cfg.InventoryFile)
	case "postgres":
		db, err := database.Connect(cfg)
		if err != nil {
			return nil, err
		}
		defer db.Close()
		return services.LoadInventoryDB(ctx, db)
	default:
		return services.DefaultInventory(), nil
	}
}

func newInventoryCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "inventory",
		Short: "Print the cars Abena can sell",
		RunE: func(cmd *cobra.Command, args []string) error {
			inv, err := loadInventory(cmd.Context(), config.Load())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(inv.All())
			}
			fmt.Fprintln(out, inv.Listing())
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print full records as JSON")
	return cmd
}
