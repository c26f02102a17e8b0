package auth

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/cfdi-api/internal/application/dto"
	"github.com/jhoicas/cfdi-api/internal/domain"
	"github.com/jhoicas/cfdi-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase login demo contra el usuario configurado por env (sandbox).
// El password configurado se hashea con bcrypt al construir el caso de uso,
// así el login siempre compara contra hash y nunca contra texto plano.
type AuthUseCase struct {
	demoUser     string
	demoPassHash []byte
	jwtCfg       JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(demoUser, demoPass string, jwtCfg JWTConfig) (*AuthUseCase, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(demoPass), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &AuthUseCase{demoUser: demoUser, demoPassHash: hash, jwtCfg: jwtCfg}, nil
}

// Login verifica username/password contra las credenciales demo y genera el JWT.
// Retorna domain.ErrUnauthorized ante credenciales inválidas.
func (uc *AuthUseCase) Login(in dto.LoginRequest) (*dto.LoginResponse, error) {
	if in.Username != uc.demoUser {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword(uc.demoPassHash, []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, in.Username, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{Token: token, TokenType: "bearer"}, nil
}
