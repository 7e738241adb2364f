package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/jhoicas/steel-billing/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComponent_AgregaCampo(t *testing.T) {
	var buf bytes.Buffer
	l := logger.NewWithWriter(&buf, "info").Component("billing")

	l.Info().Str("invoice_number", "INV-2026-001").Msg("factura creada")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "billing", entry["component"])
	assert.Equal(t, "INV-2026-001", entry["invoice_number"])
	assert.Equal(t, "factura creada", entry["message"])
}

func TestNivel_FiltraDebug(t *testing.T) {
	var buf bytes.Buffer
	l := logger.NewWithWriter(&buf, "warn")

	l.Debug().Msg("no debe aparecer")
	l.Info().Msg("tampoco")

	assert.Empty(t, buf.String())
}
