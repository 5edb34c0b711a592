package main

import (
	"context"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/avoronin/photobattle/internal/config"
	"github.com/avoronin/photobattle/internal/storage"
	"github.com/avoronin/photobattle/internal/storage/memory"
	redisstorage "github.com/avoronin/photobattle/internal/storage/redis"
)

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print the all-time player leaderboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			return stats(cmd.Context())
		},
	}
}

func stats(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	var store storage.Storage
	switch cfg.StorageType {
	case config.StorageTypeRedis:
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.RedisURL
		redisStore, err := redisstorage.New(redisCfg)
		if err != nil {
			return err
		}
		defer redisStore.Close()
		store = redisStore
	default:
		// Memory storage is empty in a fresh process; still valid for
		// exercising the command locally
		store = memory.New()
	}

	players, err := store.ListPlayersByEfficiency(ctx)
	if err != nil {
		return err
	}
	if len(players) == 0 {
		fmt.Println("no players yet")
		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Player", "Games", "Wins", "Efficiency"})
	for _, p := range players {
		table.Append([]string{
			p.DisplayName(),
			fmt.Sprintf("%d", p.TotalGames),
			fmt.Sprintf("%d", p.Wins),
			fmt.Sprintf("%.0f%%", p.Efficiency*100),
		})
	}
	table.Render()
	return nil
}
