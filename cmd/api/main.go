package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/minhaz23-oss/fbLogin/internal/config"
	"github.com/minhaz23-oss/fbLogin/internal/infrastructure/dynamo"
	"github.com/minhaz23-oss/fbLogin/internal/infrastructure/facebook"
	"github.com/minhaz23-oss/fbLogin/internal/infrastructure/google"
	"github.com/minhaz23-oss/fbLogin/internal/infrastructure/identity"
	jwtinfra "github.com/minhaz23-oss/fbLogin/internal/infrastructure/jwt"
	"github.com/minhaz23-oss/fbLogin/internal/infrastructure/smtp"
	"github.com/minhaz23-oss/fbLogin/internal/pkg/clock"
	transporthttp "github.com/minhaz23-oss/fbLogin/internal/transport/http"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient := dynamo.NewClient(cfg)
	dynamo.Bootstrap(context.Background(), dynamoClient, cfg.DynamoTables)

	accountRepo := dynamo.NewAccountRepo(dynamoClient, cfg.DynamoTables.Accounts)

	// Identity provider (optional — graceful fallback if JWT keys are missing).
	var idp *identity.Provider
	if p, err := jwtinfra.NewProvider(cfg); err == nil {
		idp = identity.NewProvider(accountRepo, p)
	} else {
		log.Printf("WARN: JWT provider not available, sessions disabled: %v", err)
	}

	deps := &transporthttp.Deps{
		UserRepo:         dynamo.NewUserRepo(dynamoClient, cfg.DynamoTables.Users),
		VerificationRepo: dynamo.NewVerificationRepo(dynamoClient, cfg.DynamoTables.Verifications),
		Mailer:           smtp.NewMailer(cfg),
		Google:           google.NewVerifier(cfg.GoogleClientID),
		Facebook:         facebook.NewVerifier(),
		Clock:            clock.System(),
	}
	if idp != nil {
		deps.Identity = idp
	}

	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s)", cfg.AppPort, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
