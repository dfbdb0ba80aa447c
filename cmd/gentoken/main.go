// Package main mints a session token for local API testing.
//
//	go run ./cmd/gentoken -user <uuid> -email dev@example.com
//	curl -H "Authorization: Bearer $TOKEN" localhost:8080/pages
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/talentbridge/backend/config"
	"github.com/talentbridge/backend/internal/auth"
)

func main() {
	userFlag := flag.String("user", "", "user ID (required)")
	email := flag.String("email", "", "user email")
	flag.Parse()

	if *userFlag == "" {
		log.Fatal("usage: gentoken -user <uuid> [-email <email>]")
	}
	userID, err := uuid.Parse(*userFlag)
	if err != nil {
		log.Fatalf("invalid user id: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpireHours)
	token, err := jwtService.Generate(userID, *email)
	if err != nil {
		log.Fatalf("generate token: %v", err)
	}

	fmt.Println(token)
}
