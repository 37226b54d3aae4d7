// Command keygen prints fresh secrets for a PixFlow deployment. Run it once,
// copy the values into the environment, and never rotate ENCRYPTION_KEY while
// encrypted credentials exist.
package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"

	"pixflow/internal/vault"
)

func main() {
	encryptionKey, err := vault.GenerateKey()
	if err != nil {
		log.Fatalf("generate encryption key: %v", err)
	}

	jwtSecret := make([]byte, 32)
	if _, err := rand.Read(jwtSecret); err != nil {
		log.Fatalf("generate jwt secret: %v", err)
	}

	fmt.Println("# Add these to your deployment environment:")
	fmt.Printf("JWT_SECRET=%s\n", hex.EncodeToString(jwtSecret))
	fmt.Printf("ENCRYPTION_KEY=%s\n", encryptionKey)
}
