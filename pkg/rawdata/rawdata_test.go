package rawdata

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/amjd/pkg/errors"
	"github.com/agentstation/amjd/pkg/status"
	"github.com/agentstation/amjd/pkg/table"
)

const raw = "key,label,calendar,Y,M,D,UT_time,JD_UT,AM_day_float,source_group\n" +
	"R1,,gregorian,2025,10,9,,2460958.5,739292,nasa\n" +
	"R2,Second,julian,2025,10,9,06:00:00,,,\n" +
	"R3,Third,gregorian,2025,,9,,2460958.5,,\n" +
	"R4,Fourth,aztec,2025,1,1,,,,\n" +
	"R5,Fifth,gregorian,2025,10,20,,2460958.5,,\n"

func process(t *testing.T, csv string) *Result {
	t.Helper()
	tbl, err := table.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	res, err := ProcessTable(context.Background(), tbl)
	require.NoError(t, err)
	return res
}

func TestProcessTable(t *testing.T) {
	res := process(t, raw)
	require.Len(t, res.Rows, 5)
	assert.Equal(t, []string{"AM_day_float", "source_group"}, res.Extras)

	r1 := res.Rows[0]
	assert.Equal(t, "R1", r1.Label)
	assert.Equal(t, status.OK, r1.Status)
	assert.InDelta(t, 0, *r1.DeltaJD, 1e-9)
	assert.Equal(t, "nasa", r1.Extra["source_group"])

	r2 := res.Rows[1]
	require.NotNil(t, r2.JDCalc)
	assert.Equal(t, 2460971.5, *r2.JDCalc)
	assert.Nil(t, r2.DeltaJD)
	assert.Equal(t, status.NA, r2.Status)

	assert.Equal(t, errIncompleteDate, res.Rows[2].Error)
	assert.Contains(t, res.Rows[3].Error, "unsupported calendar system")
	assert.Equal(t, status.Fail, res.Rows[4].Status)
	assert.Equal(t, 2, res.Errors())
}

func TestFractionalDayIsFlagged(t *testing.T) {
	res := process(t, "key,label,calendar,Y,M,D,UT_time,JD_UT\n"+
		"F1,,gregorian,2025,10,9.5,,2460958.5\n")
	require.Len(t, res.Rows, 1)
	assert.Nil(t, res.Rows[0].Day)
	assert.Nil(t, res.Rows[0].JDCalc)
	assert.Equal(t, errIncompleteDate, res.Rows[0].Error)
	assert.Equal(t, 1, res.Errors())
}

func TestWriteAddsSourceGroup(t *testing.T) {
	res := process(t, "key,label,calendar,Y,M,D,UT_time,JD_UT,notes\nR1,x,gregorian,2000,1,1,,2451545.5,hello\n")
	header := res.Header()
	assert.Equal(t, "notes", header[12])
	assert.Equal(t, "source_group", header[len(header)-1])

	path := OutputPath(filepath.Join(t.TempDir(), "AMJD_RAW_DATA.csv"))
	require.NoError(t, Write(path, res))

	back, err := table.Read(path)
	require.NoError(t, err)
	assert.Equal(t, header, back.Header)
	assert.Equal(t, "hello", back.Rows[0].Get("notes"))
	assert.Equal(t, "2451545.5", back.Rows[0].Get("JD_UT_calc"))
	assert.Equal(t, "OK", back.Rows[0].Get("status_JD"))
	assert.Empty(t, back.Rows[0].Get("source_group"))
}

func TestRequiresColumns(t *testing.T) {
	tbl, err := table.Parse(strings.NewReader("key,label,calendar\nR1,x,gregorian\n"))
	require.NoError(t, err)
	_, err = ProcessTable(context.Background(), tbl)
	assert.True(t, errors.IsMissingColumns(err))
}
