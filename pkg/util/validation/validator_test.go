package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type registerPayload struct {
	Name     string `json:"nombre_completo" validate:"required"`
	Email    string `json:"correo" validate:"required,snackemail"`
	Password string `json:"contrasena" validate:"required,min=6"`
}

func TestIsAllowedEmail(t *testing.T) {
	assert.True(t, IsAllowedEmail("ana@gmail.com"))
	assert.True(t, IsAllowedEmail("luis@outlook.com"))
	assert.False(t, IsAllowedEmail("ana@company.com"))
	assert.False(t, IsAllowedEmail("ana maria@gmail.com"))
	assert.False(t, IsAllowedEmail("ana@gmail.com.co"))
}

func TestStruct_MessagesUseJSONNames(t *testing.T) {
	v := New()

	err := v.Struct(registerPayload{Email: "ana@gmail.com", Password: "secret1"})
	require.Error(t, err)
	assert.Equal(t, "nombre_completo es obligatorio", Message(err))

	err = v.Struct(registerPayload{Name: "Ana", Email: "ana@corp.io", Password: "secret1"})
	require.Error(t, err)
	assert.Contains(t, Message(err), "gmail.com")

	err = v.Struct(registerPayload{Name: "Ana", Email: "ana@gmail.com", Password: "abc"})
	require.Error(t, err)
	assert.Equal(t, "contrasena debe tener al menos 6 caracteres", Message(err))

	assert.NoError(t, v.Struct(registerPayload{Name: "Ana", Email: "ana@gmail.com", Password: "secret1"}))
}
