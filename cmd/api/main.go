package main

import (
	"errors"
	"log"
	"net/http"
	"os"
	"time"

	adapthttp "caltrack/internal/adapter/http"
	"caltrack/internal/adapter/mysql"
	"caltrack/internal/app"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on environment")
	}

	addr := ":" + env("PORT", "8080")

	dsn := os.Getenv("DATABASE_DSN")
	if dsn == "" {
		log.Fatal("DATABASE_DSN is required")
	}

	// A missing signing secret is a fatal configuration error.
	tokens, err := app.NewTokenService(os.Getenv("JWT_SECRET"))
	if err != nil {
		log.Fatalf("token service: %v", err)
	}

	db, err := mysql.Open(dsn)
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	defer func() { _ = db.Close() }()

	authSvc := app.NewAuthService(db, db, tokens)
	dailySvc := app.NewDailyService(db, db, db, db, db, db)
	profileSvc := app.NewProfileService(db)

	h := adapthttp.New(authSvc, dailySvc, profileSvc, tokens).Handler()

	srv := &http.Server{
		Addr:         addr,
		Handler:      h,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	log.Printf("listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
