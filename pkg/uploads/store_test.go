package uploads

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStore_Save(t *testing.T) {
	store, err := NewStore(t.TempDir(), "")
	require.NoError(t, err)

	up, err := store.Save(bytes.NewReader(pngBytes))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(up.URL, "/files/"))

	pdf := []byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\ntrailer\n<<>>\n%%EOF\n")
	up, err = store.Save(bytes.NewReader(pdf))
	require.NoError(t, err)
	require.Equal(t, "application/pdf", up.ContentType)
	require.True(t, strings.HasSuffix(up.Filename, ".pdf"))

	_, err = store.Save(strings.NewReader("<html><body>hi</body></html>"))
	require.ErrorIs(t, err, ErrUnsupportedType)

	_, err = store.Save(bytes.NewReader(nil))
	require.ErrorIs(t, err, ErrEmptyFile)
}
