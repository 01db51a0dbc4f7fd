// Command seed creates the bootstrap accounts if they do not exist:
// one team leader, one assistant, one technical officer. Passwords
// come from SEED_PASSWORD (default "password"; change it after first
// login).
package main

import (
	"context"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	mongoopts "go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"solarline/solar-portal-backend/internal/config"
	"solarline/solar-portal-backend/internal/users"
	"solarline/solar-portal-backend/pkg/workflow"
)

func main() {
	cfg, err := config.LoadConfig("config.json")
	if err != nil {
		panic(err)
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, mongoopts.Client().ApplyURI(cfg.Database.URI))
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer client.Disconnect(ctx)

	repo, err := users.NewRepository(ctx, client.Database(cfg.Database.Name))
	if err != nil {
		logger.Fatal("Failed to initialize users repository", zap.Error(err))
	}

	password := os.Getenv("SEED_PASSWORD")
	if password == "" {
		password = "password"
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logger.Fatal("Failed to hash password", zap.Error(err))
	}

	seeds := []users.User{
		{Name: "Team Leader", Email: "admin@solar.com", Role: workflow.RoleTeamLeader, Phone: "+1234567890"},
		{Name: "Assistant User", Email: "assistant@solar.com", Role: workflow.RoleAssistant, Phone: "+1234567891"},
		{Name: "Technical Officer", Email: "technical@solar.com", Role: workflow.RoleTechnicalOfficer, Phone: "+1234567892"},
	}

	for _, seed := range seeds {
		existing, err := repo.FindByEmail(ctx, seed.Email)
		if err != nil {
			logger.Fatal("Failed to check user", zap.String("email", seed.Email), zap.Error(err))
		}
		if existing != nil {
			logger.Info("User already exists", zap.String("email", seed.Email))
			continue
		}

		seed.Password = string(hash)
		if err := repo.Create(ctx, &seed); err != nil {
			logger.Fatal("Failed to create user", zap.String("email", seed.Email), zap.Error(err))
		}
		logger.Info("Created user", zap.String("email", seed.Email), zap.String("role", string(seed.Role)))
	}

	logger.Info("Initial setup completed")
}
