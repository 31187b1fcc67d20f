package lags

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDense(t *testing.T) {
	spec, err := Dense(3)
	require.NoError(t, err)

	assert.Equal(t, KindCount, spec.Kind())
	assert.Equal(t, []int{1, 2, 3}, spec.Values())
	assert.Equal(t, 3, spec.Len())
	assert.Equal(t, 3, spec.Max())
	assert.Equal(t, "3", spec.String())

	_, err = Dense(0)
	assert.ErrorIs(t, err, ErrInvalidLag)
}

func TestOffsets(t *testing.T) {
	spec, err := Offsets(5, 1, 5)
	require.NoError(t, err)

	assert.Equal(t, KindOffsets, spec.Kind())
	assert.Equal(t, []int{1, 5}, spec.Values())
	assert.Equal(t, 2, spec.Len())
	assert.Equal(t, 5, spec.Max())
	assert.Equal(t, "1,5", spec.String())

	// Values returns a copy
	v := spec.Values()
	v[0] = 99
	assert.Equal(t, []int{1, 5}, spec.Values())
}

func TestOffsetsRejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		offsets []int
	}{
		{"empty", nil},
		{"zero", []int{0, 1}},
		{"negative", []int{-2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Offsets(tt.offsets...)
			assert.ErrorIs(t, err, ErrInvalidLag)
		})
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []int
		wantErr  bool
	}{
		{"dense", "3", []int{1, 2, 3}, false},
		{"list", "1,5", []int{1, 5}, false},
		{"list with spaces", " 2, 1 ,4 ", []int{1, 2, 4}, false},
		{"trailing comma", "1,2,", []int{1, 2}, false},
		{"zero", "0", nil, true},
		{"negative", "-1", nil, true},
		{"empty", "", nil, true},
		{"garbage", "abc", nil, true},
		{"garbage in list", "1,x", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := Parse(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, spec.Values())
		})
	}
}

func TestZeroSpec(t *testing.T) {
	var spec Spec
	assert.True(t, spec.IsZero())
	assert.Equal(t, 0, spec.Max())

	dense, _ := Dense(2)
	assert.False(t, dense.IsZero())
}
