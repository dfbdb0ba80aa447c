// Package main creates a user account directly in the database.
// Useful for seeding local environments:
//
//	go run ./cmd/createuser -email dev@example.com -password secret -name "Dev User"
package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/talentbridge/backend/config"
	"github.com/talentbridge/backend/pkg/database"
	"github.com/talentbridge/backend/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	email := flag.String("email", "", "user email (required)")
	password := flag.String("password", "", "plain password (required)")
	name := flag.String("name", "", "full name")
	flag.Parse()

	if *email == "" || *password == "" {
		log.Fatal("usage: createuser -email <email> -password <password> [-name <full name>]")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), zap.NewNop())
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer pool.Close()

	hash, err := utils.HashPassword(*password)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	const q = `
		INSERT INTO users (email, password_hash, full_name, is_verified)
		VALUES ($1, $2, $3, TRUE)
		RETURNING id`
	var id uuid.UUID
	if err := pool.QueryRow(ctx, q, *email, hash, *name).Scan(&id); err != nil {
		log.Fatalf("insert user: %v", err)
	}

	fmt.Printf("created user %s (%s)\n", id, *email)
}
