package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Delimited(t *testing.T) {
	t.Run("parses standard CSV", func(t *testing.T) {
		csv := `entity,account,value
ACME,1000,100.50
ACME,1001,200.00`

		out, err := Parse([]byte(csv), "facts.csv", DefaultConfig())
		require.NoError(t, err)

		assert.Equal(t, FileTypeDelimited, out.FileType)
		assert.Equal(t, ',', out.Delimiter)
		require.Len(t, out.Table, 3)
		assert.Equal(t, "entity", out.Table[0][0].String())
		assert.Equal(t, "200.00", out.Table[2][2].String())
	})

	t.Run("parses semicolon-delimited with decimal commas", func(t *testing.T) {
		csv := "entidade;conta;valor\nACME;1000;100,50\nACME;1001;2.000,00\n"

		out, err := Parse([]byte(csv), "factos.csv", DefaultConfig())
		require.NoError(t, err)

		assert.Equal(t, ';', out.Delimiter)
		require.Len(t, out.Table, 3)
		assert.Equal(t, "100,50", out.Table[1][2].String())
	})

	t.Run("honors forced delimiter", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.AutoDetectDelimiter = false
		cfg.Delimiter = '|'

		out, err := Parse([]byte("a|b,c\n1|2,3\n"), "facts.txt", cfg)
		require.NoError(t, err)
		require.Len(t, out.Table, 2)
		assert.Len(t, out.Table[0], 2)
		assert.Equal(t, "b,c", out.Table[0][1].String())
	})

	t.Run("skips empty rows", func(t *testing.T) {
		csv := "a,b\n1,2\n,\n3,4\n"

		out, err := Parse([]byte(csv), "facts.csv", DefaultConfig())
		require.NoError(t, err)
		assert.Len(t, out.Table, 3)
	})

	t.Run("keeps empty rows when configured", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.SkipEmptyRows = false

		out, err := Parse([]byte("a,b\n,\n1,2\n"), "facts.csv", cfg)
		require.NoError(t, err)
		assert.Len(t, out.Table, 3)
		assert.True(t, out.Table[1][0].IsBlank())
	})

	t.Run("caps rows at MaxRows", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.MaxRows = 2

		out, err := Parse([]byte("a,b\n1,2\n3,4\n5,6\n"), "facts.csv", cfg)
		require.NoError(t, err)
		assert.Len(t, out.Table, 2)
	})

	t.Run("trims whitespace in fields", func(t *testing.T) {
		out, err := Parse([]byte("a, b \n 1 ,2\n"), "facts.csv", DefaultConfig())
		require.NoError(t, err)
		assert.Equal(t, "b", out.Table[0][1].String())
		assert.Equal(t, "1", out.Table[1][0].String())
	})

	t.Run("ragged rows are preserved as-is", func(t *testing.T) {
		out, err := Parse([]byte("a,b,c\n1,2\n1,2,3,4\n"), "facts.csv", DefaultConfig())
		require.NoError(t, err)
		require.Len(t, out.Table, 3)
		assert.Len(t, out.Table[1], 2)
		assert.Len(t, out.Table[2], 4)
	})
}

func TestParse_Dispatch(t *testing.T) {
	t.Run("empty file", func(t *testing.T) {
		_, err := Parse(nil, "facts.csv", DefaultConfig())
		assert.ErrorIs(t, err, ErrEmptyFile)
	})

	t.Run("unknown extension with delimited content", func(t *testing.T) {
		out, err := Parse([]byte("a,b,c\n1,2,3\n"), "export.dat", DefaultConfig())
		require.NoError(t, err)
		assert.Equal(t, FileTypeDelimited, out.FileType)
	})

	t.Run("unknown extension with opaque bytes", func(t *testing.T) {
		_, err := Parse([]byte{0x00, 0x01, 0x02, 0x03}, "export.dat", DefaultConfig())
		assert.ErrorIs(t, err, ErrUnsupportedFileType)
	})

	t.Run("corrupt workbook surfaces a parse error", func(t *testing.T) {
		// ZIP signature without a valid archive behind it.
		_, err := Parse([]byte{0x50, 0x4B, 0x00, 0x00}, "export.dat", DefaultConfig())
		assert.Error(t, err)
	})
}
