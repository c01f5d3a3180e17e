// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"

	"triggerhappy/internal/api"
	"triggerhappy/internal/config"
	"triggerhappy/internal/logger"
	"triggerhappy/internal/metrics"
	"triggerhappy/internal/network"
	"triggerhappy/internal/services/cluster"
	"triggerhappy/internal/services/events"
	"triggerhappy/internal/services/gameroom"
	"triggerhappy/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration:\n%v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped with errors")
	}
	log.Info().Msg("server stopped")
}

func run(cfg config.ServerConfig, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg, err := metrics.New(cfg.ServiceName)
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}

	health := cluster.NewHealthAggregator()
	fanout := session.NewFanout()
	factories := []gameroom.ObserverFactory{fanout.ForRoom}

	// 1. Optional NATS mirror of every match.
	if cfg.NatsURL != "" {
		nc, err := events.Connect(cfg.NatsURL, cfg.ServiceName, log)
		if err != nil {
			return fmt.Errorf("nats: %w", err)
		}
		defer nc.Drain()
		factories = append(factories, events.NewPublisher(nc, cfg.NatsSubjectPrefix, log).ForRoom)
		health.AddCheck("nats", func() error {
			if !nc.IsConnected() {
				return errors.New("not connected")
			}
			return nil
		})
		log.Info().Str("url", cfg.NatsURL).Msg("publishing match events to nats")
	}

	// 2. Rooms.
	rooms, err := gameroom.NewRoomManager(gameroom.ManagerConfig{
		Defaults:  cfg.Game,
		Tick:      cfg.TickInterval,
		CacheSize: cfg.MatchCacheSize,
		Observers: gameroom.CombineFactories(factories...),
		Metrics:   reg,
		Logger:    log,
	})
	if err != nil {
		return fmt.Errorf("room manager: %w", err)
	}
	go rooms.Run(ctx)

	// 3. Websocket transport.
	ws := network.NewServer(session.NewGameHandler(rooms, fanout, log), network.ServerOptions{
		RateLimit:      cfg.ClientRateLimit,
		Burst:          cfg.ClientRateBurst,
		AllowedOrigins: cfg.AllowedOrigins,
		Logger:         log,
	})
	go ws.Run(ctx)

	health.AddCheck("rooms", func() error {
		c, cancel := context.WithTimeout(ctx, time.Second)
		defer cancel()
		rooms.Rooms(c)
		return c.Err()
	})

	// 4. HTTP.
	router := api.NewRouter(api.Deps{
		Rooms:          rooms,
		Health:         health,
		WebSocket:      ws.HandleWS,
		Metrics:        reg.Snapshot,
		AllowedOrigins: cfg.AllowedOrigins,
		Logger:         log,
	})
	httpServer := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.ListenAddr).Msg("listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// 5. Service registration.
	var deregister func() error
	if cfg.ConsulAddr != "" {
		deregister, err = register(cfg, log)
		if err != nil {
			log.Error().Err(err).Msg("consul registration failed, continuing unregistered")
		}
	}

	var result *multierror.Error
	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown requested")
	case err := <-serveErr:
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("http server: %w", err))
		}
	}
	stop()

	if deregister != nil {
		if err := deregister(); err != nil {
			result = multierror.Append(result, err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		result = multierror.Append(result, fmt.Errorf("http shutdown: %w", err))
	}
	if err := <-serveErr; err != nil {
		result = multierror.Append(result, err)
	}
	return result.ErrorOrNil()
}

func register(cfg config.ServerConfig, log zerolog.Logger) (func() error, error) {
	_, portStr, err := net.SplitHostPort(cfg.ListenAddr)
	if err != nil {
		return nil, fmt.Errorf("listen address %q: %w", cfg.ListenAddr, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("listen port %q: %w", portStr, err)
	}

	client, err := cluster.NewConsulClient(cfg.ConsulAddr, log)
	if err != nil {
		return nil, err
	}
	return cluster.Register(client, cluster.Registration{
		ServiceName: cfg.ServiceName,
		Host:        cfg.AdvertisedHost,
		Port:        port,
		Tags:        []string{"websocket", "game"},
	}, log)
}
