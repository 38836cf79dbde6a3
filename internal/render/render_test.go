package render

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dimk00z/woocommerce-orders-sender/internal/model"
)

func TestRender_EscapesNamesButKeepsContent(t *testing.T) {
	r, err := Parse(`<p>{{.first_name}} {{.last_name}} #{{.id}}</p>{{.email_message}}`)
	require.NoError(t, err)

	out, err := r.Render(model.EmailFields{
		FirstName:    "<Ann>",
		LastName:     "Lee",
		ID:           "42",
		EmailMessage: "<ul><li>Workbook</li></ul>",
	})
	require.NoError(t, err)
	assert.Equal(t, `<p>&lt;Ann&gt; Lee #42</p><ul><li>Workbook</li></ul>`, out)
}

func TestNew_DefaultTemplate(t *testing.T) {
	r, err := New("")
	require.NoError(t, err)

	out, err := r.Render(model.EmailFields{FirstName: "Ann", ID: "7", EmailMessage: "<b>items</b>"})
	require.NoError(t, err)
	assert.Contains(t, out, "Ann")
	assert.Contains(t, out, "#7")
	assert.Contains(t, out, "<b>items</b>")
}

func TestNew_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tmpl.html")
	require.NoError(t, os.WriteFile(path, []byte(`Order {{.id}}`), 0o644))

	r, err := New(path)
	require.NoError(t, err)

	out, err := r.Render(model.EmailFields{ID: "9"})
	require.NoError(t, err)
	assert.Equal(t, "Order 9", out)
}

func TestNew_Errors(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing.html"))
	assert.Error(t, err)

	_, err = Parse(`{{.id`)
	assert.Error(t, err)
}
