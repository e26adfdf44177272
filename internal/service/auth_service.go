package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/sisexp/api/internal/auth"
	"github.com/sisexp/api/internal/repo"
)

var (
	// ErrInvalidCredentials indica usuario inexistente o contraseña incorrecta.
	ErrInvalidCredentials = errors.New("credenciales inválidas")
	// ErrNoSession indica que no hay sesión activa para el token recibido.
	ErrNoSession = errors.New("sesión inexistente")
)

// dummyPassHash usa los mismos parámetros que auth.Hash; un username
// inexistente cuesta lo mismo que una contraseña incorrecta.
const dummyPassHash = "$argon2id$v=19$m=65536,t=3,p=1$c29tZXNhbHRzb21lc2FsdA$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

type authRepository interface {
	GetUsuarioByUsername(ctx context.Context, username string) (repo.Usuario, error)
	InsertUsuarioIfMissing(ctx context.Context, arg repo.InsertUsuarioParams) (bool, error)
}

type redisCommander interface {
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// AuthService concentra login, logout y resolución de sesiones.
type AuthService struct {
	repo   authRepository
	redis  redisCommander
	signer *auth.SessionSigner
	ttl    time.Duration
}

// NewAuthService crea el servicio con la clave y el TTL inyectados desde config.
func NewAuthService(r *repo.Queries, redisClient *redis.Client, signer *auth.SessionSigner, ttl time.Duration) *AuthService {
	return &AuthService{repo: r, redis: redisClient, signer: signer, ttl: ttl}
}

// Session es el estado del servidor asociado a la cookie.
type Session struct {
	UsuarioID int64    `json:"usuario_id"`
	Username  string   `json:"username"`
	Nombre    string   `json:"nombre"`
	Apellido  string   `json:"apellido"`
	Rol       repo.Rol `json:"rol"`
}

// Perfil es el resumen del usuario que ve el cliente.
type Perfil struct {
	ID       int64    `json:"id"`
	Nombre   string   `json:"nombre"`
	Apellido string   `json:"apellido"`
	Username string   `json:"username"`
	Rol      repo.Rol `json:"rol"`
}

// Perfil devuelve la vista pública de la sesión.
func (s *Session) Perfil() Perfil {
	return Perfil{ID: s.UsuarioID, Nombre: s.Nombre, Apellido: s.Apellido, Username: s.Username, Rol: s.Rol}
}

// LoginResult contiene el token de la cookie y el perfil autenticado.
type LoginResult struct {
	Token   string
	Expires time.Time
	Perfil  Perfil
}

// Login valida credenciales y abre una sesión nueva.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.repo.GetUsuarioByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			_, _ = auth.Verify(password, dummyPassHash)
			log.Warn().Str("username", username).Msg("login: usuario no encontrado")
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	ok, err := auth.Verify(password, user.PassHash)
	if err != nil {
		log.Warn().Err(err).Str("username", user.Username).Msg("login: hash ilegible")
		return nil, ErrInvalidCredentials
	}
	if !ok {
		log.Warn().Str("username", user.Username).Msg("login: contraseña inválida")
		return nil, ErrInvalidCredentials
	}

	sess := Session{
		UsuarioID: user.ID,
		Username:  user.Username,
		Nombre:    user.Nombre,
		Apellido:  user.Apellido,
		Rol:       user.Rol,
	}
	payload, err := json.Marshal(sess)
	if err != nil {
		return nil, err
	}

	sessionID := auth.NewSessionID()
	expires := time.Now().UTC().Add(s.ttl)
	if err := s.redis.Set(ctx, auth.SessionKey(sessionID), payload, s.ttl).Err(); err != nil {
		return nil, fmt.Errorf("guardar sesión: %w", err)
	}

	token, err := s.signer.Sign(sessionID, user.ID, expires)
	if err != nil {
		_ = s.redis.Del(ctx, auth.SessionKey(sessionID)).Err()
		return nil, err
	}

	return &LoginResult{Token: token, Expires: expires, Perfil: sess.Perfil()}, nil
}

// Logout destruye la sesión del token. Un token ausente o inválido no es error.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return nil
	}
	claims, err := s.signer.Parse(token)
	if err != nil {
		return nil
	}
	return s.redis.Del(ctx, auth.SessionKey(claims.ID)).Err()
}

// Session resuelve el token de la cookie contra el store.
func (s *AuthService) Session(ctx context.Context, token string) (*Session, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ErrNoSession
	}
	claims, err := s.signer.Parse(token)
	if err != nil {
		return nil, ErrNoSession
	}

	raw, err := s.redis.Get(ctx, auth.SessionKey(claims.ID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNoSession
		}
		return nil, err
	}

	var sess Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, fmt.Errorf("sesión corrupta: %w", err)
	}
	if userID, err := claims.UserID(); err != nil || userID != sess.UsuarioID {
		log.Warn().Str("session_user", claims.Subject).Int64("usuario_id", sess.UsuarioID).Msg("sesión con usuario distinto al del token")
		return nil, ErrNoSession
	}
	return &sess, nil
}

// EnsureAdmin crea el usuario admin si falta. Corre una vez al arrancar; los
// errores se registran y no detienen el proceso.
func (s *AuthService) EnsureAdmin(ctx context.Context, password string) {
	hash, err := auth.Hash(password)
	if err != nil {
		log.Error().Err(err).Msg("no se pudo crear admin")
		return
	}

	created, err := s.repo.InsertUsuarioIfMissing(ctx, repo.InsertUsuarioParams{
		Nombre:   "Admin",
		Apellido: "User",
		Username: AdminUsername,
		PassHash: hash,
		Rol:      repo.RolAdmin,
	})
	if err != nil {
		log.Error().Err(err).Msg("no se pudo crear admin")
		return
	}
	if created {
		log.Info().Msg("usuario admin creado")
	}
}
