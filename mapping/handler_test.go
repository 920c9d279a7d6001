package mapping

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumberHandler_ImpliedDecimalRoundTrip(t *testing.T) {
	h := NumberHandler{DecimalPlaces: 2}
	v, err := h.Parse("12345")
	require.NoError(t, err)
	assert.InDelta(t, 123.45, v.(float64), 0.0001)

	text, err := h.Format(v)
	require.NoError(t, err)
	assert.Equal(t, "12345", text)
}

func TestDateHandler_RoundTrip(t *testing.T) {
	h := DateHandler{Layout: "2006-01-02"}
	v, err := h.Parse("2026-08-01")
	require.NoError(t, err)
	tm := v.(time.Time)
	assert.Equal(t, 2026, tm.Year())

	text, err := h.Format(tm)
	require.NoError(t, err)
	assert.Equal(t, "2026-08-01", text)
}

func TestHandlerRegistry_LookupFallsBackToIdentity(t *testing.T) {
	r := NewHandlerRegistry()
	h := r.Lookup("unknownType", "")
	text, err := h.Format("raw")
	require.NoError(t, err)
	assert.Equal(t, "raw", text)
}

func TestHandlerRegistry_NamedHandlerOverridesDefault(t *testing.T) {
	r := NewHandlerRegistry()
	RegisterBuiltins(r)
	RegisterDateHandler(r, "iso", "2006-01-02")
	RegisterDateHandler(r, "us", "01/02/2006")

	iso := r.Lookup("date", "iso")
	us := r.Lookup("date", "us")
	assert.NotEqual(t, iso, us)
}
