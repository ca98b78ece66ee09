//go:build ignore

// Generates random secrets for JWT signing and API key auth.
// Run with: go run scripts/generate_keys.go
package main

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"os"
)

func randomKey(bytes int) string {
	buf := make([]byte, bytes)
	if _, err := rand.Read(buf); err != nil {
		fmt.Fprintf(os.Stderr, "reading random bytes: %v\n", err)
		os.Exit(1)
	}
	return base64.StdEncoding.EncodeToString(buf)
}

func main() {
	fmt.Println("Add these to your .env file:")
	fmt.Println()
	fmt.Println("# JWT signing secrets (256-bit)")
	fmt.Printf("JWT_SECRET_KEY=%s\n", randomKey(32))
	fmt.Printf("JWT_REFRESH_SECRET_KEY=%s\n", randomKey(32))
	fmt.Println()
	fmt.Println("# API key (optional, for API key authentication)")
	fmt.Printf("API_KEYS=%s\n", randomKey(24))
	fmt.Println()
	fmt.Println("Keep these out of version control and use distinct keys per environment.")
}
