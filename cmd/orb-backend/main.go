package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/Luizhcrs/orb/internal/config"
	"github.com/Luizhcrs/orb/internal/database"
	"github.com/Luizhcrs/orb/internal/handler"
	"github.com/Luizhcrs/orb/internal/repository"
	"github.com/Luizhcrs/orb/internal/router"
	"github.com/Luizhcrs/orb/internal/secret"
	"github.com/Luizhcrs/orb/internal/service"
)

func main() {
	// .env 可选，桌面安装包通常用它携带凭证
	if err := godotenv.Load(); err == nil {
		log.Println("Environment loaded from .env")
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		if _, err := os.Stat("./configs/config.yaml"); err == nil {
			configPath = "./configs/config.yaml"
		}
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化数据库
	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to init database: %v", err)
	}
	defer db.Close()
	log.Printf("Database ready: %s", cfg.Database.Path)

	// 初始化加密器
	cipher, err := secret.NewCipher(cfg.Database.KeyPath())
	if err != nil {
		log.Fatalf("Failed to init cipher: %v", err)
	}

	// Redis 可选，未配置时缓存只在进程内
	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.GetAddr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
		log.Printf("Redis cache enabled: %s", cfg.Redis.GetAddr())
	}

	// 初始化各层
	repos := repository.NewRepositories(db.DB)
	services := service.NewServices(cfg, repos, cipher, redisClient)
	handlers := handler.NewHandlers(services)

	r := router.SetupRouter(cfg, handlers)

	srv := &http.Server{
		Addr:         cfg.Server.GetAddr(),
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		log.Printf("Server starting on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
