package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"minifignet/internal/catalog"
	"minifignet/internal/config"
	"minifignet/internal/crafting"
	"minifignet/internal/database"
	"minifignet/internal/database/postgres"
	"minifignet/internal/friendship"
	"minifignet/internal/handler"
	"minifignet/internal/inventory"
	"minifignet/internal/logger"
	"minifignet/internal/messaging"
	"minifignet/internal/server"
	"minifignet/internal/user"
	"minifignet/internal/votes"
)

const (
	dbMaxConnections = 25
	dbMaxIdleTime    = 5 * time.Minute
	dbMaxLifetime    = 30 * time.Minute

	shutdownTimeout = 10 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Init(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	pool, err := database.NewPool(cfg.GetDBConnString(), dbMaxConnections, dbMaxIdleTime, dbMaxLifetime)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	cat, err := catalog.NewLoader().Load(cfg.CatalogDir)
	if err != nil {
		slog.Error("Failed to load catalog", "error", err, "dir", cfg.CatalogDir)
		os.Exit(1)
	}
	slog.Info("Catalog loaded", "items", cat.ItemCount(), "dir", cfg.CatalogDir)

	handler.InitValidator()

	inventoryRepo := postgres.NewInventoryRepository(pool)
	profileRepo := postgres.NewProfileRepository(pool)
	friendshipRepo := postgres.NewFriendshipRepository(pool)
	messageRepo := postgres.NewMessageRepository(pool)
	userRepo := postgres.NewUserRepository(pool)

	inventoryService := inventory.NewService(inventoryRepo, cat)
	craftingService := crafting.NewService(inventoryRepo, inventoryService, cat)
	votesService := votes.NewService(profileRepo)
	friendshipService := friendship.NewService(friendshipRepo)
	userService := user.NewService(userRepo, inventoryService, cat)
	messagingService := messaging.NewService(messageRepo, userRepo, friendshipService, inventoryService, cat)

	srv := server.NewServer(cfg.Port, cfg.APIKey, nil, pool, server.Services{
		User:       userService,
		Inventory:  inventoryService,
		Crafting:   craftingService,
		Votes:      votesService,
		Friendship: friendshipService,
		Messaging:  messagingService,
	})

	go func() {
		if err := srv.Start(); err != nil {
			slog.Error("Server stopped", "error", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	slog.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Stop(ctx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
	}
}
