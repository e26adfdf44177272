package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/sisexp/api/internal/auth"
	"github.com/sisexp/api/internal/db"
	"github.com/sisexp/api/internal/repo"
	"github.com/sisexp/api/internal/util"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	_ = godotenv.Load()

	ctx := context.Background()

	dsn := strings.TrimSpace(os.Getenv("DB_DSN"))
	if dsn == "" {
		log.Fatal().Msg("defina DB_DSN")
	}

	pool, err := db.NewPool(ctx, dsn, 1)
	if err != nil {
		log.Fatal().Err(err).Msg("no se pudo conectar a la base")
	}
	defer pool.Close()

	queries := repo.New(pool)

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "create":
		if err := runCreate(ctx, queries, args); err != nil {
			log.Fatal().Err(err).Msg("no se pudo crear el usuario")
		}
	case "list":
		if err := runList(ctx, queries); err != nil {
			log.Fatal().Err(err).Msg("no se pudo listar usuarios")
		}
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usuario CLI")
	fmt.Fprintln(os.Stderr, "uso:")
	fmt.Fprintln(os.Stderr, "  usuario create -nombre Ana -apellido Paz -username apaz -pass secreto [-rol usuario|admin]")
	fmt.Fprintln(os.Stderr, "  usuario list")
}

func runCreate(ctx context.Context, queries *repo.Queries, args []string) error {
	fs := flag.NewFlagSet("create", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var (
		nombre   = fs.String("nombre", "", "nombre")
		apellido = fs.String("apellido", "", "apellido")
		username = fs.String("username", "", "usuario de ingreso")
		pass     = fs.String("pass", "", "contraseña en texto plano; se guarda como hash argon2id")
		rol      = fs.String("rol", string(repo.RolUsuario), "admin o usuario")
	)

	if err := fs.Parse(args); err != nil {
		return err
	}

	params, err := buildParams(*nombre, *apellido, *username, *pass, *rol)
	if err != nil {
		return err
	}

	usuario, err := queries.InsertUsuario(ctx, params)
	if err != nil {
		if errors.Is(err, repo.ErrDuplicateUsername) {
			return fmt.Errorf("el username %q ya existe", params.Username)
		}
		return err
	}

	output, _ := json.MarshalIndent(repo.UsuarioResumen{
		ID:       usuario.ID,
		Nombre:   usuario.Nombre,
		Apellido: usuario.Apellido,
		Username: usuario.Username,
		Rol:      usuario.Rol,
	}, "", "  ")
	fmt.Println(string(output))
	return nil
}

// buildParams valida los flags y calcula el hash de la contraseña.
func buildParams(nombre, apellido, username, pass, rol string) (repo.InsertUsuarioParams, error) {
	if err := util.Obligatorios(
		util.Campo{Nombre: "nombre", Valor: nombre},
		util.Campo{Nombre: "apellido", Valor: apellido},
		util.Campo{Nombre: "username", Valor: username},
		util.Campo{Nombre: "pass", Valor: pass},
	); err != nil {
		return repo.InsertUsuarioParams{}, err
	}

	r := repo.Rol(strings.ToLower(strings.TrimSpace(rol)))
	if !r.Valid() {
		return repo.InsertUsuarioParams{}, fmt.Errorf("rol inválido %q: use admin o usuario", rol)
	}

	hash, err := auth.Hash(pass)
	if err != nil {
		return repo.InsertUsuarioParams{}, fmt.Errorf("hash: %w", err)
	}

	return repo.InsertUsuarioParams{
		Nombre:   nombre,
		Apellido: apellido,
		Username: username,
		PassHash: hash,
		Rol:      r,
	}, nil
}

func runList(ctx context.Context, queries *repo.Queries) error {
	usuarios, err := queries.ListUsuarios(ctx)
	if err != nil {
		return err
	}

	if len(usuarios) == 0 {
		fmt.Println("no hay usuarios cargados")
		return nil
	}

	encoded, _ := json.MarshalIndent(usuarios, "", "  ")
	fmt.Println(string(encoded))
	return nil
}
