// Command devtoken mints a bearer token for local testing of the journal API.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/reeljournal/reeljournal/pkg/auth"
	"github.com/reeljournal/reeljournal/pkg/config"
)

func main() {
	var (
		subject = flag.String("sub", "", "Identity ID to put in the token")
		name    = flag.String("name", "", "Display name")
		ttl     = flag.Duration("ttl", 0, "Token lifetime (defaults to auth.token_duration)")
		secret  = flag.Bool("new-secret", false, "Print a fresh random signing secret and exit")
	)
	flag.Parse()

	if *secret {
		fmt.Println(auth.GenerateSecret())
		return
	}

	if err := config.LoadDotEnv(); err != nil {
		fail(err)
	}
	cfg := config.NewJournalConfig()
	if err := config.LoadServiceConfig("journal", cfg); err != nil {
		fail(err)
	}

	lifetime := cfg.Auth.TokenDuration
	if *ttl > 0 {
		lifetime = *ttl
	}

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, lifetime)
	token, expires, err := tokens.Issue(*subject, *name)
	if err != nil {
		fail(err)
	}

	fmt.Println(token)
	fmt.Fprintf(os.Stderr, "expires %s\n", expires.Format(time.RFC3339))
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "devtoken: %v\n", err)
	os.Exit(1)
}
