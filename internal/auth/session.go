package auth

import (
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidSessionToken indica cookie de sesión mal firmada, vencida o malformada.
var ErrInvalidSessionToken = errors.New("token de sesión inválido")

// SessionClaims viaja en la cookie; ID es el identificador de la sesión en el store.
type SessionClaims struct {
	jwt.RegisteredClaims
}

// UserID devuelve el id numérico del usuario de la sesión.
func (c *SessionClaims) UserID() (int64, error) {
	return strconv.ParseInt(c.Subject, 10, 64)
}

// SessionSigner firma y valida el token de la cookie de sesión (HS256).
type SessionSigner struct {
	secret []byte
}

// NewSessionSigner crea el firmador con la clave del proceso.
func NewSessionSigner(secret string) *SessionSigner {
	return &SessionSigner{secret: []byte(secret)}
}

// Sign emite el token para la sesión sessionID del usuario userID.
func (s *SessionSigner) Sign(sessionID string, userID int64, expires time.Time) (string, error) {
	now := time.Now().UTC()
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID,
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Parse verifica firma y vencimiento.
func (s *SessionSigner) Parse(token string) (*SessionClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	parsed, err := parser.ParseWithClaims(token, &SessionClaims{}, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidSessionToken
	}

	claims, ok := parsed.Claims.(*SessionClaims)
	if !ok || !parsed.Valid || claims.ID == "" {
		return nil, ErrInvalidSessionToken
	}
	return claims, nil
}

// NewSessionID genera un identificador opaco de sesión.
func NewSessionID() string {
	return uuid.NewString()
}

// SessionKey arma la clave del store; guarda el hash, no el id en claro.
func SessionKey(sessionID string) string {
	sum := sha256.Sum256([]byte(sessionID))
	return "sesion:" + base64.RawURLEncoding.EncodeToString(sum[:])
}
