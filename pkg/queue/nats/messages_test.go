package nats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tunogya/lagcast/pkg/model"
)

func TestSampleBatchRoundTrip(t *testing.T) {
	tOrigin := time.Date(2024, 1, 1, 4, 0, 0, 0, time.UTC)
	sample := model.NewSample("l1", 4, tOrigin, []int{1, 5}, []float64{4, 0}, []float64{5})

	data, err := Encode(SampleBatchMsg{
		Level:   "l1",
		Lags:    []int{1, 5},
		Steps:   1,
		Samples: []*model.Sample{sample},
	})
	require.NoError(t, err)

	msg, err := DecodeSampleBatch(data)
	require.NoError(t, err)
	assert.Equal(t, "l1", msg.Level)
	require.Len(t, msg.Samples, 1)
	assert.Equal(t, sample.SampleID, msg.Samples[0].SampleID)
	assert.Equal(t, []float64{4, 0}, msg.Samples[0].Inputs)
	assert.True(t, tOrigin.Equal(msg.Samples[0].TOrigin))
}

func TestDecodeErrors(t *testing.T) {
	_, err := DecodeObservationBatch([]byte("{"))
	assert.Error(t, err)

	_, err = DecodeSampleBatch([]byte("not json"))
	assert.Error(t, err)

	msg, err := DecodeObservationBatch([]byte(`{"observations":[{"level":"a","value":1.5}]}`))
	require.NoError(t, err)
	require.Len(t, msg.Observations, 1)
	assert.Equal(t, 1.5, msg.Observations[0].Value)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "lagcast", cfg.StreamName)
	assert.ElementsMatch(t, []string{SubjectObservationWrite, SubjectSampleWrite}, Subjects)
}
