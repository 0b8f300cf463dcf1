// Package main manages the known-wallet sets used by trigger scoring.
//
// Usage:
//
//	wallets -config config.yaml add insider <address>...
//	wallets -config config.yaml list smart_money
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"solana-pool-sentinel/internal/config"
	"solana-pool-sentinel/internal/solana"
	"solana-pool-sentinel/internal/storage"
	"solana-pool-sentinel/internal/storage/redis"
)

var setAliases = map[string]string{
	"insider":     storage.InsiderWallets,
	"smart_money": storage.SmartMoneyWallets,
}

func main() {
	configPath := flag.String("config", os.Getenv("SENTINEL_CONFIG"), "Path to YAML config file")
	redisURL := flag.String("redis-url", "", "Redis URL (overrides config)")
	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	if len(args) < 2 {
		usage()
		os.Exit(2)
	}
	cmd, set := args[0], resolveSet(args[1])
	if set == "" {
		fmt.Fprintf(os.Stderr, "unknown wallet set %q\n", args[1])
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if *redisURL != "" {
		cfg.Redis.URL = *redisURL
	}
	if cfg.Redis.URL == "" {
		fmt.Fprintln(os.Stderr, "redis url is required (REDIS_URL or -redis-url)")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := redis.NewClient(ctx, cfg.Redis.URL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect redis: %v\n", err)
		os.Exit(1)
	}
	defer client.Close()

	if err := run(ctx, redis.NewWalletSets(client), cmd, set, args[2:]); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, sets storage.WalletSets, cmd, set string, addresses []string) error {
	switch cmd {
	case "add":
		valid, err := validAddresses(addresses)
		if err != nil {
			return err
		}
		if err := sets.Add(ctx, set, valid...); err != nil {
			return fmt.Errorf("add to %s: %w", set, err)
		}
		fmt.Printf("added %d wallet(s) to %s\n", len(valid), set)
		return nil

	case "list":
		members, err := sets.Members(ctx, set)
		if err != nil {
			return fmt.Errorf("list %s: %w", set, err)
		}
		for _, m := range members {
			fmt.Println(m)
		}
		return nil

	default:
		return fmt.Errorf("unknown command %q (want add or list)", cmd)
	}
}

// validAddresses trims addresses and rejects anything that is not an
// on-curve wallet key.
func validAddresses(addresses []string) ([]string, error) {
	if len(addresses) == 0 {
		return nil, fmt.Errorf("no addresses given")
	}
	out := make([]string, 0, len(addresses))
	for _, a := range addresses {
		a = strings.TrimSpace(a)
		if !solana.IsWalletAddress(a) {
			return nil, fmt.Errorf("%q is not a wallet address", a)
		}
		out = append(out, a)
	}
	return out, nil
}

func resolveSet(name string) string {
	if set, ok := setAliases[name]; ok {
		return set
	}
	if name == storage.InsiderWallets || name == storage.SmartMoneyWallets {
		return name
	}
	return ""
}

func usage() {
	fmt.Fprintf(os.Stderr, "usage: %s [flags] add|list insider|smart_money [address...]\n", os.Args[0])
	flag.PrintDefaults()
}
