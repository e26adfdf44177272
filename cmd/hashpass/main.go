package main

import (
	"fmt"
	"os"

	"github.com/sisexp/api/internal/auth"
)

// hashpass imprime el hash argon2id de una contraseña, para cargar usuarios
// a mano en la tabla usuario.
func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "uso: hashpass <contraseña>")
		os.Exit(1)
	}

	hash, err := auth.Hash(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "error de hash: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(hash)
}
