package main

import (
	"context"
	"fmt"
	"os"

	"github.com/iksoll/VelvetCake/config"
	"github.com/iksoll/VelvetCake/internal/cleanup"
	"github.com/iksoll/VelvetCake/internal/repository"
	"github.com/iksoll/VelvetCake/pkg/database"
	"github.com/iksoll/VelvetCake/pkg/logger"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	isDev := os.Getenv("ENV") == "development"
	if err := logger.Init(isDev); err != nil {
		panic(err)
	}
	defer logger.Sync()

	log := logger.L()
	cfg := config.Load(log)

	db := database.ConnectDB(&cfg.DB.Config, log)
	defer database.CloseDB(db, log)

	repos := repository.New(db)
	cleanupSvc := cleanup.NewCleanupService(repos.Cart, cfg.Cleanup.CartTTL, log)

	ctx := context.Background()

	task := "all"
	if len(os.Args) > 1 {
		task = os.Args[1]
	}

	switch task {
	case "carts":
		n, err := cleanupSvc.CleanupStaleCarts(ctx)
		if err != nil {
			log.Fatal("Очистка корзин не удалась", zap.Error(err))
		}
		log.Info("Очистка корзин завершена", zap.Int64("deleted", n))
	case "all":
		if err := cleanupSvc.RunFullCleanup(ctx); err != nil {
			log.Fatal("Полная очистка не удалась", zap.Error(err))
		}
	default:
		fmt.Println("Usage: go run cmd/cleanup/main.go [carts|all]")
		fmt.Println("  carts - delete cart items older than CART_TTL")
		fmt.Println("  all   - run full cleanup (default)")
		os.Exit(1)
	}

	log.Info("cleanup completed successfully")
}
