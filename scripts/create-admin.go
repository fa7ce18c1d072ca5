package main

import (
	"fmt"
	"os"

	"github.com/orderdesk/intake-server-go/internal/util"
)

func main() {
	if len(os.Args) < 4 {
		fmt.Fprintf(os.Stderr, "Usage: go run scripts/create-admin.go <username> <email> <password>\n")
		os.Exit(1)
	}

	username, email, password := os.Args[1], os.Args[2], os.Args[3]

	if ok, reason := util.ValidatePassword(password); !ok {
		fmt.Fprintf(os.Stderr, "Error: %s\n", reason)
		os.Exit(1)
	}

	hash, err := util.HashPassword(password)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Run the following against the application database:")
	fmt.Println()
	fmt.Printf("INSERT INTO admin_users (username, email, password_hash, is_active)\nVALUES ('%s', '%s', '%s', TRUE);\n", username, email, hash)
}
