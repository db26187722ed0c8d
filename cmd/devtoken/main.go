// Command devtoken prints a signed caller token for local development.
//
//	devtoken -role owner -org <uuid> [-user <uuid>] [-outlets <uuid,uuid>]
package main

import (
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/ledgerlens-backend/internal/auth"
	"github.com/heartmarshall/ledgerlens-backend/internal/config"
	"github.com/heartmarshall/ledgerlens-backend/internal/domain"
)

func main() {
	role := flag.String("role", string(domain.RoleOwner), "caller role")
	org := flag.String("org", "", "organization id (required)")
	user := flag.String("user", "", "user id (random when empty)")
	outlets := flag.String("outlets", "", "comma separated outlet ids")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	orgID, err := uuid.Parse(*org)
	if err != nil {
		log.Fatalf("invalid -org: %v", err)
	}

	userID := uuid.New()
	if *user != "" {
		if userID, err = uuid.Parse(*user); err != nil {
			log.Fatalf("invalid -user: %v", err)
		}
	}

	caller := domain.Caller{UserID: userID, Role: domain.Role(*role), OrgID: orgID}
	if !caller.Role.IsValid() {
		log.Fatalf("invalid -role %q", *role)
	}
	for _, s := range strings.Split(*outlets, ",") {
		if s = strings.TrimSpace(s); s == "" {
			continue
		}
		id, err := uuid.Parse(s)
		if err != nil {
			log.Fatalf("invalid outlet id %q: %v", s, err)
		}
		caller.OutletAccess = append(caller.OutletAccess, id)
	}

	token, err := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTTL).GenerateAccessToken(caller)
	if err != nil {
		log.Fatalf("sign token: %v", err)
	}
	fmt.Println(token)
}
