package main

import (
	"context"
	"fmt"

	"github.com/danmuck/deadswitch/internal/auth"
	"github.com/danmuck/deadswitch/internal/clock"
	"github.com/danmuck/deadswitch/internal/config"
	"github.com/danmuck/deadswitch/internal/custody"
	"github.com/danmuck/deadswitch/internal/events"
	"github.com/danmuck/deadswitch/internal/server"
	"github.com/danmuck/deadswitch/internal/vault"
	"github.com/rs/zerolog/log"
)

type app struct {
	wallet *custody.Wallet
	vault  *vault.Memory
	events *events.MemorySink
	server *server.Server
}

func jwtFor(cfg config.Config) auth.JWT {
	return auth.JWT{
		Secret: []byte(cfg.Auth.JWTSecret),
		Issuer: cfg.Auth.JWTIssuer,
		TTL:    cfg.TokenTTL(),
	}
}

// build wires config into a wallet host. Configured heirs are registered by
// the owner, as the owner would after construction.
func build(ctx context.Context, cfg config.Config) (*app, error) {
	v := vault.NewMemory(cfg.AccountAddress())
	for _, bal := range cfg.VaultBalances() {
		if err := v.Deposit(bal.Asset, v.Account(), bal.Amount); err != nil {
			return nil, fmt.Errorf("seed vault: %w", err)
		}
	}

	mem := events.NewMemorySink()
	sink := events.Fanout{mem, events.LogSink{Logger: log.Logger}, events.MetricsSink{}}

	custodyCfg := cfg.CustodyConfig()
	w, err := custody.New(custodyCfg, custody.Host{Clock: clock.System{}, Vault: v, Sink: sink})
	if err != nil {
		return nil, err
	}
	for _, heir := range cfg.HeirAddresses() {
		if err := w.AddHeir(ctx, custodyCfg.Owner, heir); err != nil {
			return nil, fmt.Errorf("register heir %s: %w", heir.Hex(), err)
		}
	}

	var validators auth.Chain
	if len(cfg.StaticTokens()) > 0 {
		validators = append(validators, auth.StaticTokens(cfg.StaticTokens()))
	}
	if cfg.Auth.JWTSecret != "" {
		validators = append(validators, jwtFor(cfg))
	}

	srv, err := server.New(server.Options{
		Name:        cfg.Name,
		Addr:        cfg.Addr,
		CorsOrigins: cfg.CorsOrigins,
		Wallet:      w,
		Validator:   validators,
		Assets:      cfg.AssetTable(),
		Events:      mem,
	})
	if err != nil {
		return nil, err
	}
	return &app{wallet: w, vault: v, events: mem, server: srv}, nil
}
