// Command hashpassword imprime el hash bcrypt para AUTH_PASSWORD_HASH.
//
//	go run ./cmd/hashpassword 'mi-contraseña'
package main

import (
	"fmt"
	"os"

	"github.com/jhoicas/steel-billing/internal/application/auth"
)

func main() {
	if len(os.Args) != 2 || os.Args[1] == "" {
		fmt.Fprintln(os.Stderr, "uso: hashpassword <contraseña>")
		os.Exit(2)
	}
	hash, err := auth.HashPassword(os.Args[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	fmt.Println(hash)
}
