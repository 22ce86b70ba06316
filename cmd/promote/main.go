// Command promote grants the admin role to a user of the hosted identity
// provider. It is used to bootstrap the first back-office admin.
//
// Usage:
//
//	promote --user=<uuid>
//
// Running servers pick the change up once their role cache entry expires.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/catering-backend/internal/adapter/postgres"
	"github.com/heartmarshall/catering-backend/internal/adapter/postgres/role"
	"github.com/heartmarshall/catering-backend/internal/config"
	"github.com/heartmarshall/catering-backend/internal/domain"
)

func main() {
	rawID := flag.String("user", "", "identity provider user id to promote to admin")
	flag.Parse()

	userID, err := uuid.Parse(*rawID)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Usage: promote --user=<uuid>")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database, "catering-promote")
	if err != nil {
		log.Fatalf("connect to database: %v", err)
	}
	defer pool.Close()

	roles := role.New(pool)

	already, err := roles.IsAdmin(ctx, userID)
	if err != nil {
		log.Fatalf("check role: %v", err)
	}
	if already {
		fmt.Printf("User %s is already admin.\n", userID)
		return
	}

	if err := roles.Grant(ctx, userID, domain.UserRoleAdmin); err != nil {
		log.Fatalf("grant role: %v", err)
	}

	fmt.Printf("User %s promoted to admin.\n", userID)
}
