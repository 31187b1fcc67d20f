package milvus

import (
	"testing"
	"time"

	"github.com/milvus-io/milvus-sdk-go/v2/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchema(t *testing.T) {
	schema := Schema(DefaultCollectionConfig(6))

	assert.Equal(t, DefaultCollectionName, schema.CollectionName)
	require.Len(t, schema.Fields, 5)
	assert.True(t, schema.Fields[0].PrimaryKey)
	assert.Equal(t, entity.FieldTypeFloatVector, schema.Fields[1].DataType)
	assert.Equal(t, "6", schema.Fields[1].TypeParams["dim"])
}

func TestColumns(t *testing.T) {
	tOrigin := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cols := Columns([]*WindowData{
		{SampleID: "a", Embedding: []float32{0.1, 0.2}, Level: "l1", TOrigin: tOrigin, Steps: 3},
		{SampleID: "b", Embedding: []float32{0.3, 0.4}, Level: "l1", TOrigin: tOrigin, Steps: 3},
	})
	require.Len(t, cols, 5)

	for _, col := range cols {
		assert.Equal(t, 2, col.Len(), col.Name())
	}

	vec, ok := cols[1].(*entity.ColumnFloatVector)
	require.True(t, ok)
	assert.Equal(t, 2, vec.Dim())

	ts, ok := cols[3].(*entity.ColumnInt64)
	require.True(t, ok)
	v, err := ts.ValueByIdx(0)
	require.NoError(t, err)
	assert.Equal(t, tOrigin.Unix(), v)
}

func TestLevelFilter(t *testing.T) {
	assert.Equal(t, `level == "l1"`, LevelFilter("l1"))
}
