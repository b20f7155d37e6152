package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Manufactura-api/internal/application/auth"
	"github.com/jhoicas/Manufactura-api/internal/application/dto"
	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/infrastructure/memory"
	"github.com/jhoicas/Manufactura-api/pkg/jwt"
)

const testSecret = "secreto-de-prueba"

func newUseCase() *auth.AuthUseCase {
	store := memory.NewStore()
	return auth.NewAuthUseCase(store.Users(), auth.JWTConfig{
		Secret:     testSecret,
		ExpMinutes: 60,
		Issuer:     "manufactura-api-test",
	})
}

func TestRegisterUser(t *testing.T) {
	uc := newUseCase()

	user, err := uc.RegisterUser(dto.RegisterRequest{
		Email:     "operario@taller.co",
		Password:  "clave-segura",
		CompanyID: "co-1",
		Name:      "Pedro",
	})
	require.NoError(t, err)
	assert.Equal(t, "operario@taller.co", user.Email)
	assert.Equal(t, entity.RoleOperario, user.Role, "rol por defecto")
	assert.Equal(t, "active", user.Status)

	// Email repetido.
	_, err = uc.RegisterUser(dto.RegisterRequest{
		Email: "operario@taller.co", Password: "otra", CompanyID: "co-1",
	})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestRegisterUser_CamposObligatorios(t *testing.T) {
	uc := newUseCase()
	_, err := uc.RegisterUser(dto.RegisterRequest{Email: "a@b.co", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLogin_TokenConClaims(t *testing.T) {
	uc := newUseCase()
	_, err := uc.RegisterUser(dto.RegisterRequest{
		Email: "jefa@taller.co", Password: "clave-segura", CompanyID: "co-1", Role: entity.RoleSupervisor,
	})
	require.NoError(t, err)

	resp, err := uc.Login(dto.LoginRequest{Email: "jefa@taller.co", Password: "clave-segura"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)

	userID, companyID, role, err := jwt.Parse(testSecret, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, userID)
	assert.Equal(t, "co-1", companyID)
	assert.Equal(t, entity.RoleSupervisor, role)
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	uc := newUseCase()
	_, err := uc.RegisterUser(dto.RegisterRequest{
		Email: "x@taller.co", Password: "clave-segura", CompanyID: "co-1",
	})
	require.NoError(t, err)

	_, err = uc.Login(dto.LoginRequest{Email: "x@taller.co", Password: "equivocada"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Login(dto.LoginRequest{Email: "nadie@taller.co", Password: "clave"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
