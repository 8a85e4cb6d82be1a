package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/subcommands"
	"github.com/rpggio/costwatch/internal/transport"
)

type apiKeyCmd struct {
	tenant      string
	token       string
	description string
}

func (*apiKeyCmd) Name() string     { return "apikey" }
func (*apiKeyCmd) Synopsis() string { return "register a bearer API key for a tenant" }
func (*apiKeyCmd) Usage() string {
	return `costctl apikey -token <secret> [-tenant <id>] [-desc <text>]

  Stores the SHA-256 hash of the token. The token itself is not kept.
`
}

func (c *apiKeyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.tenant, "tenant", "", "Tenant ID (defaults to the configured auth tenant).")
	f.StringVar(&c.token, "token", "", "Bearer token to register.")
	f.StringVar(&c.description, "desc", "", "Free-form description.")
}

func (c *apiKeyCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.token == "" {
		fmt.Fprintln(os.Stderr, "apikey: -token is required")
		return subcommands.ExitUsageError
	}
	e, err := openEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer e.Close()

	tenantID := e.tenantOr(c.tenant)
	if err := e.app.APIKeys.Add(ctx, tenantID, c.token, c.description); err != nil {
		fmt.Fprintf(os.Stderr, "Error adding API key: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("api key registered for tenant %s\n", tenantID)
	return subcommands.ExitSuccess
}

type tokenCmd struct {
	tenant string
	ttl    time.Duration
}

func (*tokenCmd) Name() string     { return "token" }
func (*tokenCmd) Synopsis() string { return "issue a signed JWT for a tenant" }
func (*tokenCmd) Usage() string {
	return `costctl token [-tenant <id>] [-ttl <duration>]

  Signs with auth.jwt_secret (COSTWATCH_AUTH_JWT_SECRET) using HS256.
`
}

func (c *tokenCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.tenant, "tenant", "", "Tenant ID (defaults to the configured auth tenant).")
	f.DurationVar(&c.ttl, "ttl", 24*time.Hour, "Token lifetime.")
}

func (c *tokenCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	e, err := openEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer e.Close()

	if e.cfg.Auth.JWTSecret == "" {
		fmt.Fprintln(os.Stderr, "token: auth.jwt_secret is not configured")
		return subcommands.ExitFailure
	}
	token, err := transport.NewJWTResolver(e.cfg.Auth.JWTSecret).IssueToken(e.tenantOr(c.tenant), c.ttl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error issuing token: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Println(token)
	return subcommands.ExitSuccess
}
