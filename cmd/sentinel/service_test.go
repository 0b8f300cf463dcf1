package main

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-pool-sentinel/internal/config"
	"solana-pool-sentinel/internal/discovery"
	"solana-pool-sentinel/internal/notify"
)

func TestResolveLayout(t *testing.T) {
	l, err := resolveLayout(config.DiscoveryConfig{})
	require.NoError(t, err)
	assert.Equal(t, discovery.RaydiumInitialize2V1, l)

	_, err = resolveLayout(config.DiscoveryConfig{Layout: "orca/v9"})
	assert.Error(t, err)

	l, err = resolveLayout(config.DiscoveryConfig{
		Layout:  discovery.RaydiumInitialize2V1.Version,
		Offsets: &config.OffsetsConfig{LP: 0, MintA: 1, MintB: 2, TokenAccountA: 3, TokenAccountB: 4, MinKeys: 5},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, l.MintA)
	assert.Equal(t, 5, l.MinKeys)

	_, err = resolveLayout(config.DiscoveryConfig{
		Offsets: &config.OffsetsConfig{LP: 0, MintA: 0, MintB: 2, TokenAccountA: 3, TokenAccountB: 4, MinKeys: 5},
	})
	assert.Error(t, err)
}

func TestNewNotifier(t *testing.T) {
	n, err := newNotifier(config.TelegramConfig{}, zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, &notify.Log{}, n)

	n, err = newNotifier(config.TelegramConfig{Enabled: true, BotToken: "123:abc", ChatID: "42"}, zerolog.Nop())
	require.NoError(t, err)
	assert.Len(t, n, 2)
}

func TestNewServiceInMemory(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Solana.RPCURL = "http://127.0.0.1:1"
	cfg.General.UseMemory = true

	stores, cleanup, err := createStores(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	defer cleanup()

	svc, err := newService(context.Background(), cfg, stores, zerolog.Nop())
	require.NoError(t, err)
	defer svc.close()

	assert.Nil(t, svc.ws, "poll mode opens no websocket")
	assert.Equal(t, discovery.RaydiumInitialize2V1.Version, svc.layout.Version)
	assert.NotNil(t, svc.engine)
	assert.NotNil(t, svc.positions)
}
