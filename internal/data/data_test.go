package data

import (
    "bytes"
    "errors"
    "strings"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestRequireReportsEveryMissingColumn(t *testing.T) {
    tbl := NewTable([]string{"sex", "height"}, nil)
    err := tbl.Require(ColAge, ColHeight, ColWeight)
    require.Error(t, err)

    var se *SchemaError
    require.True(t, errors.As(err, &se))
    assert.Equal(t, []string{"age", "weight"}, se.Missing)
    assert.True(t, errors.Is(err, ErrSchema))
    assert.Contains(t, err.Error(), "age, weight")
}

func TestReadSemicolonCSV(t *testing.T) {
    in := "age;sex;diagnosi\n61;1;SR\n;0;AFIB\n"
    tbl, err := Read(strings.NewReader(in), ReadOptions{})
    require.NoError(t, err)
    require.Equal(t, 2, tbl.Len())
    assert.Equal(t, "61", tbl.Get(0, ColAge))
    assert.Equal(t, "", tbl.Get(1, ColAge))
    assert.Equal(t, "AFIB", tbl.Get(1, ColDiagnosis))
    assert.Equal(t, "", tbl.Get(0, "absent"))
}

func TestReadLatin1(t *testing.T) {
    // "unauffällig" with ä encoded as 0xE4
    in := []byte("report\nunauff\xe4llig\n")
    tbl, err := Read(bytes.NewReader(in), ReadOptions{Latin1: true})
    require.NoError(t, err)
    assert.Equal(t, "unauffällig", tbl.Get(0, ColReport))
}

func TestReadEmpty(t *testing.T) {
    _, err := Read(strings.NewReader(""), ReadOptions{})
    require.Error(t, err)
}

func TestWriteRoundTripsCells(t *testing.T) {
    tbl := NewTable([]string{"a", "b"}, [][]string{{"1", "x;y"}})
    var buf bytes.Buffer
    require.NoError(t, Write(&buf, tbl, 0))
    back, err := Read(&buf, ReadOptions{})
    require.NoError(t, err)
    assert.Equal(t, "x;y", back.Get(0, "b"))
}

func TestLabelVocabulary(t *testing.T) {
    assert.Equal(t, 0, LabelOf("SR"))
    assert.Equal(t, 0, LabelOf("STACH"))
    assert.Equal(t, 0, LabelOf("SBRAD"))
    assert.Equal(t, 9, LabelOf("TRIGU"))
    assert.Equal(t, NoLabel, LabelOf("1AVB"))

    assert.Equal(t, "Atrial Fibrillation", LabelName(1))
    assert.Equal(t, "12", LabelName(12))
    assert.Equal(t, "NSR", ShortLabel(0))
    assert.Equal(t, "PSVT", ShortLabel(8))
    assert.Len(t, Labels(), NumClasses)
}

func TestGenerateSyntheticIsSeeded(t *testing.T) {
    a := GenerateSynthetic(50, 0.1, 7)
    b := GenerateSynthetic(50, 0.1, 7)
    assert.Equal(t, a.Rows, b.Rows)
    require.NoError(t, a.Require(ColAge, ColHeight, ColWeight, ColSex, ColHeartAxis, ColPacemaker, ColDiagnosis))
    for i := 0; i < a.Len(); i++ {
        assert.NotEqual(t, NoLabel, LabelOf(a.Get(i, ColDiagnosis)))
    }
}
