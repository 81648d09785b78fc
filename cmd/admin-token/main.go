// Command admin-token mints a JWT for service-to-service and operator use.
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"prop-vault.backend/internal/config"
	"prop-vault.backend/internal/domain/entities"
	"prop-vault.backend/pkg/jwt"
)

func main() {
	userID := flag.String("user", "", "user id (uuid); random when empty")
	email := flag.String("email", "ops@propvault.io", "token email claim")
	role := flag.String("role", entities.RoleAdmin, "token role claim")
	expiry := flag.Duration("expiry", 24*time.Hour, "token lifetime")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()

	id := uuid.New()
	if *userID != "" {
		parsed, err := uuid.Parse(*userID)
		if err != nil {
			log.Fatalf("invalid user id: %v", err)
		}
		id = parsed
	}

	svc := jwt.NewJWTService(cfg.JWT.Secret, *expiry)
	token, err := svc.GenerateToken(id, *email, *role)
	if err != nil {
		log.Fatalf("generate token: %v", err)
	}

	fmt.Println(token)
}
