package placeimage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveBundledImage(t *testing.T) {
	r, err := New("https://cdn.example.com/places/")
	require.NoError(t, err)

	assert.Equal(t, "chirripo.jpg", r.Resolve("fotos_predeterminadas/chirripo.jpg"))
	assert.Equal(t, "chirripo.jpg", r.Resolve("./Fotos_Predeterminadas/chirripo.jpg"))
	assert.Equal(t, "https://cdn.example.com/places/chirripo.jpg", r.URL("fotos_predeterminadas/chirripo.jpg"))
}

func TestResolveFallsBackToPlaceholder(t *testing.T) {
	r, err := New("")
	require.NoError(t, err)

	assert.Equal(t, r.Placeholder(), r.Resolve("fotos_predeterminadas/unknown.jpg"))
	assert.Equal(t, r.Placeholder(), r.Resolve(""))
	assert.Equal(t, "/assets/"+r.Placeholder(), r.URL(""))

	_, ok := r.Lookup("nope.jpg")
	assert.False(t, ok)
}

func TestURLPassesThroughAbsolute(t *testing.T) {
	r, err := New("https://cdn.example.com")
	require.NoError(t, err)
	assert.Equal(t, "https://img.example.org/a.jpg", r.URL("https://img.example.org/a.jpg"))
}

func TestFromYAMLRequiresPlaceholder(t *testing.T) {
	_, err := FromYAML([]byte("images: {}\n"), "")
	assert.Error(t, err)
}
