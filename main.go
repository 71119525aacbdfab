package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql"

	"SAC-backend/internal/accounts"
	"SAC-backend/internal/assets"
	"SAC-backend/internal/checkouts"
	"SAC-backend/internal/history"
	"SAC-backend/internal/platform/auth"
	"SAC-backend/internal/platform/db"
)

func main() {
	cfg, err := db.LoadConfig("config/config.yaml")
	if err != nil {
		panic(err)
	}

	mode := cfg.Mode
	log.Printf("[INFO] mode:%s\n", mode)

	if cfg.Mode != "dev" && cfg.Mode != "release" {
		fmt.Println("Usage: go run main.go [dev|release]")
		return
	}

	conn, err := db.Connect(cfg.DB)
	if err != nil {
		panic(err)
	}
	defer conn.Close()

	log.Printf("[INFO] connected to DB: %s", cfg.DB.DBName)

	if err := db.EnsureSchema(context.Background(), conn); err != nil {
		log.Fatalf("[ERROR] schema bootstrap failed: %v", err)
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	_ = r.SetTrustedProxies(nil)

	if mode == "dev" {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     []string{"http://localhost:3000"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowCredentials: true,
		}))
	}

	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	accountSvc := accounts.NewService(conn)

	// /api/v1 — everything past login/signup requires a session token;
	// destructive operations additionally require the admin role.
	api := r.Group("/api/v1")
	accounts.RegisterAuthRoutes(api, accountSvc)

	authed := api.Group("", auth.RequireAuth(auth.JWTSecret()))
	admin := authed.Group("", auth.RequireRole("admin"))

	assets.RegisterRoutes(authed, admin, assets.NewService(conn))
	checkouts.RegisterRoutes(authed, checkouts.NewService(conn))
	accounts.RegisterRoutes(authed, admin, accountSvc)
	history.RegisterRoutes(authed, history.NewService(conn))

	srv := &http.Server{
		Addr:    ":8443",
		Handler: r,
	}

	go func() {
		if mode == "dev" {
			log.Println("[INFO] listening on http://0.0.0.0:8443")
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatal(err)
			}
			return
		}

		certFile := fmt.Sprintf("config/tls/release/%s", cfg.Certificate.Cert)
		keyFile := fmt.Sprintf("config/tls/release/%s", cfg.Certificate.Key)
		log.Println("[INFO] listening on https://0.0.0.0:8443")
		if err := srv.ListenAndServeTLS(certFile, keyFile); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit
	log.Println("[INFO] shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal(err)
	}
}
