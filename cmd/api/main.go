package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"catalog-browser/internal/client"
	"catalog-browser/internal/config"
	"catalog-browser/internal/database"
	"catalog-browser/internal/handlers"
	"catalog-browser/internal/repository"
	"catalog-browser/internal/routes"
	"catalog-browser/internal/session"
	"catalog-browser/internal/view"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.LoadConfig()

	if cfg.LogLevel == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	api := client.New(cfg.APIBaseURL, cfg.HTTPTimeout)
	log.Println("🔗 Catalog API:", api.BaseURL())

	var (
		src         view.Source = api
		mongoClient *mongo.Client
		mirror      *handlers.MirrorHandler
	)
	if cfg.MirrorEnabled() {
		mc, err := database.Connect(ctx, cfg.MongoURI)
		if err != nil {
			log.Fatalf("❌ MongoDB: %v", err)
		}
		mongoClient = mc
		repo := repository.NewCatalogRepository(mc.Database(cfg.MongoDB))
		mirror = handlers.NewMirrorHandler(api, repo)
		log.Println("✅ MongoDB mirror enabled:", cfg.MongoDB)

		if cfg.CatalogSource == config.SourceMongo {
			src = repo
			log.Println("📦 Serving catalog from the MongoDB mirror")
		}
	}

	sessions := session.NewStore(cfg.SessionTTL)
	defer sessions.Close()

	router := gin.Default()
	routes.RegisterRoutes(router, routes.Deps{
		Catalog: handlers.NewCatalogHandler(src),
		Browse:  handlers.NewBrowseHandler(src, sessions),
		Mirror:  mirror,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Println("🚀 Server running on port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("❌ Server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("🛑 Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("⚠️ Server shutdown: %v", err)
	}
	if mongoClient != nil {
		if err := mongoClient.Disconnect(shutdownCtx); err != nil {
			log.Printf("⚠️ MongoDB disconnect: %v", err)
		}
	}
}
