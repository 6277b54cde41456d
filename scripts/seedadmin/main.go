// Command seedadmin creates the first super admin account. The portal has no
// open signup for administrators, so a fresh deployment needs one seeded row
// before the manage-admins screens become reachable.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/braioemmanuel-hub/regi-learn-suite/internal/models"
	"github.com/braioemmanuel-hub/regi-learn-suite/internal/repository"
	"github.com/braioemmanuel-hub/regi-learn-suite/pkg/config"
	"github.com/braioemmanuel-hub/regi-learn-suite/pkg/database"
)

func main() {
	var (
		email    string
		password string
		timeout  time.Duration
	)

	flag.StringVar(&email, "email", "", "super admin email address")
	flag.StringVar(&password, "password", "", "super admin password (min 8 chars)")
	flag.DurationVar(&timeout, "timeout", 10*time.Second, "database operation timeout")
	flag.Parse()

	if email == "" || len(password) < 8 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer db.Close() //nolint:errcheck

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	users := repository.NewUserRepository(db)

	exists, err := users.ExistsByEmail(ctx, email)
	if err != nil {
		log.Fatalf("failed to check existing account: %v", err)
	}
	if exists {
		log.Fatalf("an account already exists for %s", email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:        email,
		PasswordHash: string(hash),
		Active:       true,
	}
	if err := users.Create(ctx, user, models.RoleSuperAdmin); err != nil {
		log.Fatalf("failed to create super admin: %v", err)
	}

	fmt.Printf("super admin created: %s (%s)\n", user.Email, user.ID)
}
