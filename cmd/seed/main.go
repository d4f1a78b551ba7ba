// seed crea la cuenta del super-admin a partir de SUPER_ADMIN_EMAIL, SUPER_ADMIN_PASSWORD
// y SUPER_ADMIN_NAME. Aplica las migraciones pendientes. Si el usuario ya existe no lo modifica.
//
// Uso: go run ./cmd/seed
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/vendofy-api/internal/domain/entity"
	"github.com/jhoicas/vendofy-api/internal/infrastructure/postgres"
	"github.com/jhoicas/vendofy-api/pkg/config"
	"github.com/jhoicas/vendofy-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Component("seed")
	if len(cfg.SuperAdmin.Password) < 8 {
		log.Fatal().Msg("SUPER_ADMIN_PASSWORD debe tener al menos 8 caracteres")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if _, err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	users := postgres.NewUserRepository(pool)
	existing, err := users.GetByEmail(ctx, cfg.SuperAdmin.Email)
	if err != nil {
		log.Fatal().Err(err).Msg("buscar super-admin")
	}
	if existing != nil {
		log.Info().Str("email", existing.Email).Str("id", existing.ID).Msg("el super-admin ya existe, nada que hacer")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.SuperAdmin.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal().Err(err).Msg("hash de password")
	}
	now := time.Now().UTC()
	u := &entity.User{
		ID:           uuid.New().String(),
		Name:         cfg.SuperAdmin.Name,
		Email:        cfg.SuperAdmin.Email,
		PasswordHash: string(hash),
		Role:         entity.RoleAdmin,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := users.Create(ctx, u); err != nil {
		log.Fatal().Err(err).Msg("crear super-admin")
	}
	log.Info().Str("email", u.Email).Str("id", u.ID).Msg("super-admin creado")
}
