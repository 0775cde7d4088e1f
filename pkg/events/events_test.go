package events

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestRecordSetGet(t *testing.T) {
	r := New("EV1")
	assert.False(t, r.IsSet(FieldLabel))
	assert.False(t, r.IsSet(FieldRawPresent))
	assert.False(t, r.IsSet(FieldTopoSolarSites))

	require.NoError(t, r.Set(FieldLabel, "Eclipse"))
	require.NoError(t, r.Set(FieldJDUT, 2460958.5))
	require.NoError(t, r.Set(FieldRawPresent, true))
	require.NoError(t, r.Add(FieldTopoSolarSites, 2))

	assert.Equal(t, "Eclipse", r.Get(FieldLabel))
	assert.Equal(t, 2460958.5, r.Get(FieldJDUT))
	assert.Equal(t, true, r.Get(FieldRawPresent))
	assert.Equal(t, 2, r.Get(FieldTopoSolarSites))
	assert.Equal(t, "EV1", r.Get(FieldKey))

	assert.Error(t, r.Set(FieldJDUT, "2460958.5"))
	assert.Error(t, r.Set(FieldLabel, 3))
	assert.Error(t, r.Set(FieldKey, "other"))
	assert.Error(t, r.Add(FieldLabel, 1))
}

func TestRecordCells(t *testing.T) {
	r := New("EV1")
	require.NoError(t, r.Set(FieldJDUT, 2460958.5))
	require.NoError(t, r.Add(FieldTopoLunarVisible, 1))

	cells := r.Cells()
	require.Len(t, cells, len(Columns))
	assert.Equal(t, "EV1", cells[0])
	assert.Equal(t, "2460958.5", r.Cell(FieldJDUT))
	assert.Equal(t, "False", r.Cell(FieldRawPresent))
	assert.Equal(t, "0", r.Cell(FieldTopoSolarSites))
	assert.Equal(t, "1", r.Cell(FieldTopoLunarVisible))
	assert.Empty(t, r.Cell(FieldLabel))
}

func TestIndexOrdering(t *testing.T) {
	x := NewIndex()
	_, created := x.GetOrCreate("b")
	assert.True(t, created)
	x.GetOrCreate("a")
	rec, created := x.GetOrCreate("b")
	assert.False(t, created)
	assert.Equal(t, "b", rec.Key)

	assert.Equal(t, []string{"a", "b"}, x.Keys())
	assert.Equal(t, 2, x.Len())

	require.NoError(t, rec.Set(FieldKind, "Volcano"))
	assert.Len(t, x.Filter("volcano"), 1)
	assert.Len(t, x.Filter(""), 2)
}

func TestWriteReadIndex(t *testing.T) {
	x := NewIndex()
	a, _ := x.GetOrCreate("SE_2017")
	require.NoError(t, a.Set(FieldLabel, "Great American"))
	require.NoError(t, a.Set(FieldJDUT, 2457987.2674))
	require.NoError(t, a.Set(FieldJDUTSource, "master_validated"))
	require.NoError(t, a.Add(FieldTopoSolarSites, 3))
	require.NoError(t, a.Add(FieldTopoSolarVisible, 1))
	b, _ := x.GetOrCreate("VOL_1")
	require.NoError(t, b.Set(FieldKind, "volcano"))
	require.NoError(t, b.Set(FieldRawPresent, true))

	path := filepath.Join(t.TempDir(), "out", "AMJD_EVENT_INDEX.csv")
	require.NoError(t, WriteIndex(path, x))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "key,label,kind,calendar,civil_date,julian_date,jd_ut,")

	back, err := ReadIndex(path)
	require.NoError(t, err)
	if diff := cmp.Diff(x.Records(), back.Records()); diff != "" {
		t.Errorf("index mismatch (-want +got):\n%s", diff)
	}
}

func TestReadIndexDuplicateKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "idx.csv")
	require.NoError(t, os.WriteFile(path, []byte("key,label\nA,x\nA,y\n"), 0o644))
	_, err := ReadIndex(path)
	assert.Error(t, err)
}

func TestFromRowSkipsBadNumbers(t *testing.T) {
	r := FromRow(map[string]string{"key": "K", "jd_ut": "n/a", "label": "L", "topo_solar_sites": "4"})
	assert.Nil(t, r.JDUT)
	assert.Equal(t, ptr("L"), r.Label)
	assert.Equal(t, 4, r.TopoSolarSites)
}
