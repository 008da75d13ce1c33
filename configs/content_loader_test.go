package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadPageContentDefault(t *testing.T) {
	content, err := ReadPageContent("")
	require.NoError(t, err)

	names := make([]string, 0, len(content.Navbar.Links))
	for _, l := range content.Navbar.Links {
		names = append(names, l.Name)
	}
	assert.Equal(t, []string{"Home", "About", "Guide", "Predict"}, names)
	assert.Len(t, content.Hero.Stats, 3)
	assert.Len(t, content.Guide.Steps, 3)
	assert.Equal(t, "Sales Prediction", content.Demo.FormTitle)
	assert.NotEmpty(t, content.Footer.Copyright)

	// ボタンは表示文言とリンク先の両方を持つ
	assert.Equal(t, CTA{Label: "Try live forecast", Href: "#predict"}, content.Hero.PrimaryCTA)
	assert.Equal(t, "#guide", content.Hero.SecondaryCTA.Href)
	assert.NotEmpty(t, content.Hero.SecondaryCTA.Label)
	assert.Equal(t, CTA{Label: "Start with a forecast", Href: "#predict"}, content.CTA.Button)
}

func TestReadPageContentOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "content.yaml")
	yamlText := `
navbar:
  links:
    - name: "Start"
      href: "#home"
hero:
  badge: "Pilot"
`
	require.NoError(t, os.WriteFile(path, []byte(yamlText), 0o644))

	content, err := ReadPageContent(path)
	require.NoError(t, err)
	assert.Equal(t, "Start", content.Navbar.Links[0].Name)
	assert.Equal(t, "Pilot", content.Hero.Badge)
}

func TestReadPageContentErrors(t *testing.T) {
	_, err := ReadPageContent(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(path, []byte("hero:\n  badge: x\n"), 0o644))
	_, err = ReadPageContent(path)
	assert.Error(t, err)
}

func TestLoadPageContentCaches(t *testing.T) {
	first, err := LoadPageContent("")
	require.NoError(t, err)
	second, err := LoadPageContent("/does/not/matter")
	require.NoError(t, err)
	assert.Same(t, first, second)
}
