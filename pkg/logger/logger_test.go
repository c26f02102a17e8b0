package logger_test

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/cfdi-api/pkg/logger"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"debug":  zerolog.DebugLevel,
		"info":   zerolog.InfoLevel,
		"WARN":   zerolog.WarnLevel, // mayúsculas se toleran
		" error": zerolog.ErrorLevel,
		"":       zerolog.InfoLevel, // vacío cae a info
		"basura": zerolog.InfoLevel, // no reconocido cae a info
	}
	for in, want := range cases {
		assert.Equal(t, want, logger.ParseLevel(in), "nivel para %q", in)
	}
}

// El nivel configurado filtra eventos y el servicio queda como campo fijo.
func TestNew_NivelYCampoService(t *testing.T) {
	l := logger.New(logger.Config{Env: "production", Level: "warn", Service: "cfdi-api"})

	var buf bytes.Buffer
	zl := l.Zerolog().Output(&buf)

	zl.Info().Msg("suprimido")
	assert.Empty(t, buf.String(), "info no debe emitirse con nivel warn")

	zl.Warn().Msg("visible")
	out := buf.String()
	assert.Contains(t, out, `"service":"cfdi-api"`)
	assert.Contains(t, out, "visible")
}
