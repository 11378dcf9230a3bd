package seo

import (
	"bytes"
	"html/template"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHead_AttachIsIdempotentByID(t *testing.T) {
	h := NewHead()

	require.NoError(t, h.Attach("schema-physician", map[string]string{"name": "A"}))
	require.NoError(t, h.Attach("schema-org", map[string]string{"name": "Org"}))
	require.NoError(t, h.Attach("schema-physician", map[string]string{"name": "B"}))

	scripts := h.Scripts()
	require.Len(t, scripts, 2)
	assert.Equal(t, "schema-physician", scripts[0].ID)
	assert.Equal(t, template.JS(`{"name":"B"}`), scripts[0].Content)
	assert.Equal(t, JSONLDType, scripts[0].Type)
	assert.Equal(t, "schema-org", scripts[1].ID)
}

func TestHead_AttachErrors(t *testing.T) {
	h := NewHead()
	assert.Error(t, h.Attach("", map[string]string{}))
	assert.Error(t, h.Attach("bad", func() {}))
	assert.Empty(t, h.Scripts())
}

func TestHead_ScriptsIsACopy(t *testing.T) {
	h := NewHead()
	require.NoError(t, h.Attach("a", 1))

	scripts := h.Scripts()
	scripts[0].ID = "changed"
	assert.Equal(t, "a", h.Scripts()[0].ID)
}

func TestHead_RendersSafelyInTemplate(t *testing.T) {
	h := NewHead()
	require.NoError(t, h.Attach("schema-physician", map[string]string{"name": "</script><b>x</b>"}))

	tmpl := template.Must(template.New("head").Parse(
		`{{range .}}<script type="application/ld+json" id="{{.ID}}">{{.Content}}</script>{{end}}`))

	var buf bytes.Buffer
	require.NoError(t, tmpl.Execute(&buf, h.Scripts()))

	out := buf.String()
	assert.Equal(t, 1, strings.Count(out, "</script>"))
	assert.Contains(t, out, `\u003c/script\u003e`)
}
