package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/coursebay/lms-backend/config"
	"github.com/coursebay/lms-backend/internal/domain/entity"
	"github.com/coursebay/lms-backend/internal/domain/repository"
	"github.com/coursebay/lms-backend/internal/infrastructure/mongodb"
	"github.com/coursebay/lms-backend/pkg/helpers"
	"github.com/coursebay/lms-backend/pkg/media"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	ctx := context.Background()
	client, db, err := mongodb.Connect(ctx, cfg.MongoURI, cfg.MongoDB, cfg.MongoTimeout)
	if err != nil {
		log.Fatalf("failed to connect to mongodb: %v", err)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()
	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		log.Fatalf("failed to ensure indexes: %v", err)
	}

	users := mongodb.NewUserRepository(db)

	email := "admin@coursebay.dev"
	password := "password123"

	if existing, err := users.GetByEmail(ctx, email); err == nil {
		fmt.Printf("admin already present: id=%s email=%s\n", existing.ID.Hex(), existing.Email)
		return
	} else if !errors.Is(err, repository.ErrNotFound) {
		log.Fatalf("failed to look up admin: %v", err)
	}

	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	admin := &entity.User{
		FullName: "platform admin",
		Email:    email,
		Password: hash,
		Role:     entity.RoleAdmin,
		Avatar:   media.Asset{PublicID: email, SecureURL: email},
	}
	if err := users.Create(ctx, admin); err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}
	fmt.Printf("seeded admin: id=%s email=%s password=%s\n", admin.ID.Hex(), email, password)
}
