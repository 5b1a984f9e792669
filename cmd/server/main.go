package main

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"github.com/lukasmw/devreg/internal/api"
	"github.com/lukasmw/devreg/internal/db"
	"github.com/lukasmw/devreg/internal/store"
)

func main() {
	// Optional .env overlay; flags still win over the environment.
	_ = godotenv.Load()

	dbPath := flag.String("db", envOr("DEVREG_DB", "devreg.sqlite3"), "path to SQLite database file")
	addr := flag.String("addr", envOr("DEVREG_ADDR", ":8080"), "listen address")
	jwtSecret := flag.String("jwt-secret", os.Getenv("DEVREG_JWT_SECRET"), "JWT signing key (auto-generated if empty)")
	flag.Parse()

	if *jwtSecret == "" {
		secret, err := randomSecret()
		if err != nil {
			log.Fatalf("Failed to generate JWT secret: %v", err)
		}
		*jwtSecret = secret
		log.Println("JWT secret auto-generated (tokens will be invalidated on restart)")
	}

	database, err := db.Open(*dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer database.Close()

	// Idempotent: creates missing tables and applies migrations.
	if err := db.Migrate(database); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	if err := seedAccounts(database); err != nil {
		log.Fatalf("Failed to seed default accounts: %v", err)
	}

	handler := api.LoggingMiddleware(api.NewRouter(database, *jwtSecret))

	fmt.Printf("Server listening on %s\n", *addr)
	if err := http.ListenAndServe(*addr, handler); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// seedAccounts ensures the built-in "user" and "admin" accounts exist.
// Seed passwords come from the environment; when unset, random passwords
// are generated and printed once, since they cannot be recovered later.
func seedAccounts(database *sql.DB) error {
	userPassword := os.Getenv("DEVREG_USER_PASSWORD")
	adminPassword := os.Getenv("DEVREG_ADMIN_PASSWORD")

	for name, pw := range map[string]*string{"user": &userPassword, "admin": &adminPassword} {
		if *pw != "" {
			continue
		}
		generated, err := randomSecret()
		if err != nil {
			return fmt.Errorf("generating %s password: %w", name, err)
		}
		*pw = generated
		if _, err := store.GetUserByUsername(context.Background(), database, name); err != nil {
			fmt.Printf("Generated password for %q account: %s\n", name, generated)
		}
	}

	userHash, err := bcrypt.GenerateFromPassword([]byte(userPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing user password: %w", err)
	}
	adminHash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing admin password: %w", err)
	}

	return store.BootstrapDefaults(context.Background(), database, string(userHash), string(adminHash))
}

// envOr returns the environment variable's value or a fallback.
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// randomSecret creates a random hex string.
func randomSecret() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
