package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestXLSX(t *testing.T) {
	data, err := XLSX(Table{
		Sheet:   "Candidates",
		Columns: []string{"ID", "Name"},
		Rows: [][]interface{}{
			{1, "Ivan Petrov"},
			{2, "Maria Bykova"},
		},
	})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Candidates")
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"ID", "Name"},
		{"1", "Ivan Petrov"},
		{"2", "Maria Bykova"},
	}, rows)
}

func TestXLSXEmpty(t *testing.T) {
	data, err := XLSX(Table{Columns: []string{"ID"}})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Sheet1")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
