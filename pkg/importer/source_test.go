package importer

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadTable(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		format Format
		header []string
		rows   [][]string
	}{
		{
			name:   "plain",
			input:  "anggota,nama\n1,Budi\n2,Citra\n",
			header: []string{"anggota", "nama"},
			rows:   [][]string{{"1", "Budi"}, {"2", "Citra"}},
		},
		{
			name:   "bom stripped",
			input:  "\xEF\xBB\xBFanggota,nama\n1,Budi\n",
			header: []string{"anggota", "nama"},
			rows:   [][]string{{"1", "Budi"}},
		},
		{
			name:   "semicolon",
			input:  "anggota;nama\n1;Budi, S.H.\n",
			format: Format{Delimiter: ";"},
			header: []string{"anggota", "nama"},
			rows:   [][]string{{"1", "Budi, S.H."}},
		},
		{
			name:   "ragged rows",
			input:  "anggota,nama,fraksi\n1,Budi\n2,Citra,PKB,extra\n",
			header: []string{"anggota", "nama", "fraksi"},
			rows:   [][]string{{"1", "Budi"}, {"2", "Citra", "PKB", "extra"}},
		},
		{
			name:   "quoted multiline",
			input:  "anggota,organisasi\n1,\"1. Partai A\n2. Partai B\"\n",
			header: []string{"anggota", "organisasi"},
			rows:   [][]string{{"1", "1. Partai A\n2. Partai B"}},
		},
		{
			name:   "windows-1252",
			input:  "anggota,nama\n1,Andr\xe9\n",
			format: Format{Encoding: "windows-1252"},
			header: []string{"anggota", "nama"},
			rows:   [][]string{{"1", "André"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl, err := ReadTable(strings.NewReader(tt.input), tt.format)
			require.NoError(t, err)
			assert.Equal(t, tt.header, tbl.Header)
			assert.Equal(t, tt.rows, tbl.Rows)
		})
	}
}

func TestReadTable_Errors(t *testing.T) {
	_, err := ReadTable(strings.NewReader(""), Format{})
	assert.ErrorIs(t, err, ErrEmptySource)

	_, err = ReadTable(strings.NewReader("a,b\n1,2\n"), Format{Encoding: "klingon"})
	assert.ErrorContains(t, err, "unsupported encoding")
}

func TestReadFile_Missing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "nope.csv"), Format{})
	if !errors.Is(err, ErrSourceNotFound) {
		t.Fatalf("err = %v, want ErrSourceNotFound", err)
	}
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dpr.csv")
	require.NoError(t, os.WriteFile(path, []byte("anggota\n7\n"), 0o644))

	tbl, err := ReadFile(path, Format{Encoding: "UTF-8"})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"7"}}, tbl.Rows)
}
