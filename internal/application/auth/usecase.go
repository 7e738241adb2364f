// Package auth autentica al operador único configurado en el entorno.
package auth

import (
	"context"
	"crypto/subtle"

	"github.com/jhoicas/steel-billing/internal/application/dto"
	"github.com/jhoicas/steel-billing/internal/domain"
	"github.com/jhoicas/steel-billing/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// Credentials operador autorizado: usuario y hash bcrypt de su contraseña.
type Credentials struct {
	Username     string
	PasswordHash string
}

// AuthUseCase caso de uso de login.
type AuthUseCase struct {
	creds  Credentials
	jwtCfg JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(creds Credentials, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{creds: creds, jwtCfg: jwtCfg}
}

// Enabled indica si la API exige token (hay secreto JWT configurado).
func (uc *AuthUseCase) Enabled() bool { return uc.jwtCfg.Secret != "" }

// Login verifica usuario/contraseña y genera el JWT.
// Devuelve domain.ErrUnauthorized ante credenciales incorrectas o auth deshabilitada.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	if !uc.Enabled() || uc.creds.PasswordHash == "" {
		return nil, domain.ErrUnauthorized
	}
	userOK := subtle.ConstantTimeCompare([]byte(in.Username), []byte(uc.creds.Username)) == 1
	// Se compara el hash siempre para no revelar por tiempo si el usuario existe.
	passErr := bcrypt.CompareHashAndPassword([]byte(uc.creds.PasswordHash), []byte(in.Password))
	if !userOK || passErr != nil {
		return nil, domain.ErrUnauthorized
	}
	token, exp, err := jwt.Generate(uc.jwtCfg.Secret, uc.creds.Username, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{Token: token, ExpiresAt: exp}, nil
}

// HashPassword genera el hash bcrypt para AUTH_PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
