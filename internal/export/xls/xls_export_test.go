package xlsexport

import (
	"testing"

	"gaportal/internal/model"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExportVisitors(t *testing.T) {
	buf, err := New().ExportVisitors([]model.Visitor{
		{Name: "Budi", Origin: "PT Maju", PersonToMeet: "Sari", Purpose: "Audit", CheckIn: "2026-10-16 09:00:00"},
		{Name: "Ani", MeetWith: "Joko", Purpose: "Interview", CheckIn: "2026-10-16 10:00:00", CheckOut: "2026-10-16 11:00:00"},
	})
	require.NoError(t, err)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Visitors")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, visitorHeaders, rows[0])
	require.Equal(t, "Sari", rows[1][2])
	require.Equal(t, "Checked In", rows[1][6])
	require.Equal(t, "Checked Out", rows[2][6])
}

func TestExportNoVisitors(t *testing.T) {
	buf, err := New().ExportVisitors(nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Visitors")
	require.NoError(t, err)
	require.Len(t, rows, 1)
}
