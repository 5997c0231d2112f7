package converter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateFile(t *testing.T) {
	dir := t.TempDir()

	notPDF := filepath.Join(dir, "doc.txt")
	require.NoError(t, os.WriteFile(notPDF, []byte("text"), 0o640))

	emptyPDF := filepath.Join(dir, "empty.pdf")
	require.NoError(t, os.WriteFile(emptyPDF, nil, 0o640))

	bigPDF := filepath.Join(dir, "big.pdf")
	require.NoError(t, os.WriteFile(bigPDF, make([]byte, 2048), 0o640))

	garbagePDF := filepath.Join(dir, "garbage.pdf")
	require.NoError(t, os.WriteFile(garbagePDF, []byte("not a pdf at all"), 0o640))

	v := NewValidator(1024)

	tests := []struct {
		name    string
		path    string
		errPart string
	}{
		{name: "empty path", path: "", errPart: "path cannot be empty"},
		{name: "missing file", path: filepath.Join(dir, "absent.pdf"), errPart: "does not exist"},
		{name: "directory", path: dir, errPart: "directory"},
		{name: "wrong extension", path: notPDF, errPart: "not a PDF"},
		{name: "empty file", path: emptyPDF, errPart: "empty"},
		{name: "too large", path: bigPDF, errPart: "too large"},
		{name: "unparseable", path: garbagePDF, errPart: "invalid PDF"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateFile(tt.path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errPart)
		})
	}
}

func TestIsValidPDF(t *testing.T) {
	v := NewValidator(1024)
	assert.False(t, v.IsValidPDF(filepath.Join(t.TempDir(), "absent.pdf")))
}
