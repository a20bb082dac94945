package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapWords(t *testing.T) {
	assert.Equal(t, []string{"uno dos", "tres cuatro"}, WrapWords("uno dos tres cuatro", 8, 2))
	assert.Equal(t, []string{"uno dos", "tres", "cuatro"}, WrapWords("uno dos tres cuatro", 8, 0))
	assert.Equal(t, []string{"supercalifragilístico", "sí"}, WrapWords("supercalifragilístico sí", 5, 2))
	assert.Empty(t, WrapWords("   ", 10, 2))
	assert.Equal(t, []string{"áéíóú ñ"}, WrapWords("áéíóú ñ", 7, 2))
}

func TestColors(t *testing.T) {
	assert.Equal(t, "#007439", Darken(ColorPrimary, 0.7))
	assert.Equal(t, "rgb(1,2,3)", Darken("rgb(1,2,3)", 0.7))
	assert.Equal(t, "rgba(180, 6, 16, 0.9)", RGBA(ColorDanger, 0.8, 0.9))
	assert.Equal(t, "rgba(0, 166, 81, 0.25)", RGBA(ColorPrimary, 1, 0.25))
}

func TestTrackingColor(t *testing.T) {
	assert.Equal(t, "#16a085", trackingColor(nil, "Servicios Públicos"))
	assert.Equal(t, "#5dade2", trackingColor(nil, "SEGURIDAD"))
	assert.Equal(t, ColorNeutral, trackingColor(nil, "Otro"))
	assert.Equal(t, "#111111", trackingColor(map[string]string{"seguridad publica": "#111111"}, "Seguridad Pública"))
	assert.Equal(t, "#222222", trackingColor(map[string]string{"Salud": "#222222"}, "Salud"))
}

func TestApprovalColors(t *testing.T) {
	main, track := approvalColors(nil, " Muy Efectivo ")
	assert.Equal(t, "#05ae1e", main)
	assert.Equal(t, "#0a340b", track)

	main, track = approvalColors(nil, "Otro")
	assert.Equal(t, ColorPrimary, main)
	assert.Equal(t, "rgba(0, 166, 81, 0.25)", track)
}

func TestMediumDonutColor(t *testing.T) {
	assert.Equal(t, ColorPrimary, mediumDonutColor(nil, "Muy seguro"))
	assert.Equal(t, ColorDanger, mediumDonutColor(nil, "Inseguro"))
	assert.Equal(t, ColorNeutral, mediumDonutColor(nil, "No sabe"))
}

func TestCanvasByName(t *testing.T) {
	assert.Equal(t, Tall, CanvasByName(" TALL "))
	assert.Equal(t, Wide, CanvasByName("wide"))
	assert.Equal(t, Wide, CanvasByName(""))
	assert.True(t, Tall.IsTall())
	assert.Equal(t, Wide, Canvas{}.orDefault())
}
