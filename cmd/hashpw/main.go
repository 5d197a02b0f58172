// Command hashpw prints a bcrypt hash for ADMIN_PASSWORD_HASH.
package main

import (
	"fmt"
	"io"
	"os"

	"backend-teamugly/internal/auth"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) != 1 || args[0] == "" {
		fmt.Fprintln(stderr, "usage: hashpw <password>")
		return 2
	}
	hash, err := auth.HashPassword(args[0])
	if err != nil {
		fmt.Fprintf(stderr, "hash error: %v\n", err)
		return 1
	}
	fmt.Fprintln(stdout, string(hash))
	return 0
}
