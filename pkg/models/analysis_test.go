package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewScoreBounds(t *testing.T) {
	for _, value := range []int{0, 1, 50, 99, 100} {
		score, err := NewScore(value)
		require.NoError(t, err)
		assert.Equal(t, value, score.Value())
	}

	for _, value := range []int{-1, 101, 1000} {
		_, err := NewScore(value)
		assert.ErrorIs(t, err, ErrScoreOutOfRange, "value %d should be rejected", value)
	}
}

func TestMustScorePanicsOnInvalid(t *testing.T) {
	assert.Panics(t, func() { MustScore(101) })
	assert.NotPanics(t, func() { MustScore(100) })
}

func TestScoreBuckets(t *testing.T) {
	tests := []struct {
		value     int
		excellent bool
		good      bool
		fair      bool
		poor      bool
	}{
		{95, true, true, true, false},
		{90, true, true, true, false},
		{89, false, true, true, false},
		{70, false, true, true, false},
		{69, false, false, true, false},
		{50, false, false, true, false},
		{49, false, false, false, true},
		{0, false, false, false, true},
	}

	for _, tt := range tests {
		score := MustScore(tt.value)
		assert.Equal(t, tt.excellent, score.IsExcellent(), "IsExcellent(%d)", tt.value)
		assert.Equal(t, tt.good, score.IsGood(), "IsGood(%d)", tt.value)
		assert.Equal(t, tt.fair, score.IsFair(), "IsFair(%d)", tt.value)
		assert.Equal(t, tt.poor, score.IsPoor(), "IsPoor(%d)", tt.value)
	}
}

func TestScoreMarshalsAsBareNumber(t *testing.T) {
	data, err := json.Marshal(MustScore(88))
	require.NoError(t, err)
	assert.Equal(t, "88", string(data))

	wrapped := struct {
		TotalScore Score `json:"totalScore"`
	}{TotalScore: MustScore(42)}

	data, err = json.Marshal(wrapped)
	require.NoError(t, err)
	assert.JSONEq(t, `{"totalScore":42}`, string(data))
}

func TestScoreUnmarshalAcceptsLegacyEncodings(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"bare number", `87`, 87},
		{"underscore object", `{"_value": 87}`, 87},
		{"plain object", `{"value": 87}`, 87},
		{"underscore wins over plain", `{"_value": 87, "value": 3}`, 87},
		{"float truncates", `87.9`, 87},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var score Score
			require.NoError(t, json.Unmarshal([]byte(tt.input), &score))
			assert.Equal(t, tt.want, score.Value())
		})
	}
}

func TestScoreUnmarshalRejectsInvalidEncodings(t *testing.T) {
	for _, input := range []string{`150`, `-1`, `{"_value": 150}`, `{}`, `"high"`, `[87]`} {
		var score Score
		assert.Error(t, json.Unmarshal([]byte(input), &score), "input %s", input)
	}
}
