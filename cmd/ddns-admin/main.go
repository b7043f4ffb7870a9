// Package main provides the provisioning CLI for the DDNS endpoint.
//
// Users are provisioned out-of-band with this tool; the HTTP endpoint
// itself never creates or modifies credentials.
//
//	ddns-admin set-token <user> [token]   provision a user, printing the token
//	ddns-admin rm <user>                  remove a user and its cached state
//	ddns-admin list                       list provisioned users
package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/sipico/ddns-endpoint/internal/config"
	"github.com/sipico/ddns-endpoint/internal/storage"
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: %s <set-token|rm|list> [args]\n", os.Args[0])
}

// generateToken generates a random credential as a hex string.
func generateToken() (string, error) {
	// 32 random bytes (256 bits) for a secure token
	token := make([]byte, 32)
	if _, err := rand.Read(token); err != nil {
		return "", err
	}
	return hex.EncodeToString(token), nil
}

func run(args []string) error {
	if len(args) < 1 {
		usage()
		return fmt.Errorf("missing command")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	store, err := storage.New(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open database %s: %w", cfg.DatabasePath, err)
	}
	defer func() {
		//nolint:errcheck
		store.Close()
	}()

	ctx := context.Background()

	switch args[0] {
	case "set-token":
		if len(args) < 2 {
			return fmt.Errorf("usage: set-token <user> [token]")
		}
		user := args[1]
		token := ""
		if len(args) > 2 {
			token = args[2]
		} else {
			token, err = generateToken()
			if err != nil {
				return fmt.Errorf("failed to generate token: %w", err)
			}
		}
		if err := store.SetToken(ctx, user, token); err != nil {
			return fmt.Errorf("failed to store token: %w", err)
		}
		fmt.Printf("%s\t%s\n", user, token)
		return nil

	case "rm":
		if len(args) < 2 {
			return fmt.Errorf("usage: rm <user>")
		}
		if err := store.DeleteUser(ctx, args[1]); err != nil {
			return fmt.Errorf("failed to remove user: %w", err)
		}
		fmt.Printf("removed %s\n", args[1])
		return nil

	case "list":
		users, err := store.ListUsers(ctx)
		if err != nil {
			return fmt.Errorf("failed to list users: %w", err)
		}
		for _, u := range users {
			ip := u.CurrentIP
			if ip == "" {
				ip = "-"
			}
			recordID := u.RecordID
			if recordID == "" {
				recordID = "-"
			}
			fmt.Printf("%s\t%s\t%s\n", u.User, ip, recordID)
		}
		return nil

	default:
		usage()
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
