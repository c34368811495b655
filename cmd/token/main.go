// Command token prints an admin bearer token for the /api/admin routes.
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/BruksfildServices01/termin-notifier/internal/config"
	"github.com/BruksfildServices01/termin-notifier/internal/middleware"
)

func main() {
	subject := flag.String("sub", "ops", "token subject")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	cfg := config.Load()

	tok, err := middleware.IssueToken(cfg.JWTSecret, *subject, middleware.RoleAdmin, *ttl)
	if err != nil {
		log.Fatalf("sign token: %v", err)
	}
	fmt.Println(tok)
}
