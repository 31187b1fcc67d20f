package nats

import (
	"encoding/json"

	"github.com/tunogya/lagcast/pkg/model"
)

// Subject constants
const (
	SubjectObservationWrite = "lagcast.observations.write"
	SubjectSampleWrite      = "lagcast.samples.write"
)

// Subjects lists every subject carried by the stream
var Subjects = []string{SubjectObservationWrite, SubjectSampleWrite}

// ObservationBatchMsg represents a batch observation write request
type ObservationBatchMsg struct {
	Observations []model.Observation `json:"observations"`
}

// SampleBatchMsg represents a batch of samples built from one level
type SampleBatchMsg struct {
	Level   string          `json:"level"`
	Lags    []int           `json:"lags"`
	Steps   int             `json:"steps"`
	Samples []*model.Sample `json:"samples"`
}

// Encode serializes a message to JSON bytes
func Encode(v any) ([]byte, error) {
	return json.Marshal(v)
}

// DecodeObservationBatch deserializes an ObservationBatchMsg from JSON bytes
func DecodeObservationBatch(data []byte) (*ObservationBatchMsg, error) {
	var msg ObservationBatchMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// DecodeSampleBatch deserializes a SampleBatchMsg from JSON bytes
func DecodeSampleBatch(data []byte) (*SampleBatchMsg, error) {
	var msg SampleBatchMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
