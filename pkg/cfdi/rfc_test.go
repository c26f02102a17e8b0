package cfdi_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/cfdi-api/pkg/cfdi"
)

func TestValidateRFC(t *testing.T) {
	valid := []string{
		"EKU9003173C9",   // persona moral (3 letras)
		"XAXX010101000",  // genérico nacional (4 letras)
		"XEXX010101000",  // genérico extranjero
		"GODE561231GR8",  // persona física
		" eku9003173c9 ", // minúsculas y espacios se toleran
	}
	for _, rfc := range valid {
		assert.NoError(t, cfdi.ValidateRFC(rfc), "RFC %q debe ser válido", rfc)
	}

	invalid := []string{
		"",
		"X",
		"EKU900317",      // sin homoclave
		"EKU90031730C99", // demasiado largo
		"1234567890123",  // sin letras iniciales
		"EKU-9003173C9",  // caracteres fuera del patrón
	}
	for _, rfc := range invalid {
		assert.Error(t, cfdi.ValidateRFC(rfc), "RFC %q debe rechazarse", rfc)
	}
}

func TestValidatePostalCode(t *testing.T) {
	assert.NoError(t, cfdi.ValidatePostalCode("06500"))
	assert.NoError(t, cfdi.ValidatePostalCode("00001"))

	for _, cp := range []string{"", "123", "123456", "ABCDE", "0650O"} {
		assert.Error(t, cfdi.ValidatePostalCode(cp), "CP %q debe rechazarse", cp)
	}
}

func TestNormalizeText(t *testing.T) {
	cases := map[string]string{
		"José  Pérez":              "Jose Perez",
		"Ñoño Compañía":            "Nono Compania",
		"  espacios   múltiples  ": "espacios multiples",
		"SIN CAMBIOS":              "SIN CAMBIOS",
		"":                         "",
	}
	for in, want := range cases {
		assert.Equal(t, want, cfdi.NormalizeText(in))
	}
}

func TestIsValidCancelReason(t *testing.T) {
	for _, motivo := range []string{"01", "02", "03", "04"} {
		assert.True(t, cfdi.IsValidCancelReason(motivo))
	}
	for _, motivo := range []string{"", "00", "05", "1", "99"} {
		assert.False(t, cfdi.IsValidCancelReason(motivo))
	}
}
