package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestGenerateLeadExport(t *testing.T) {
	leads := sample()
	nfd := "2024-05-10"
	leads[0].NFD = &nfd

	data, err := GenerateLeadExport(Build(leads, Criteria{Date: "2024-05-01"}))
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Leads", "Summary"}, f.GetSheetList())

	rows, err := f.GetRows("Leads")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, LeadExportHeader, rows[0])
	assert.Equal(t, "Client 1", rows[1][2])
	assert.Equal(t, "Asha", rows[1][7])
	assert.Equal(t, "2024-05-10", rows[1][9])
	assert.Equal(t, "Client 4", rows[3][2])

	summary, err := f.GetRows("Summary")
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Employee", "Leads"},
		{"Asha", "2"},
		{"Ravi", "1"},
		{"Total", "3"},
	}, summary)
}

func TestGenerateLeadExport_Empty(t *testing.T) {
	data, err := GenerateLeadExport(Build(nil, Criteria{}))
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Leads")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
