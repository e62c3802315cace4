package period

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatMonthKey(t *testing.T) {
	tests := []struct {
		year, month int
		want        string
	}{
		{2025, 1, "2025-01"},
		{2025, 12, "2025-12"},
		{999, 3, "0999-03"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatMonthKey(tt.year, tt.month))
	}
}

func TestParseMonthKey(t *testing.T) {
	m, err := ParseMonthKey("2025-03")
	require.NoError(t, err)
	assert.Equal(t, Month{Year: 2025, Month: time.March}, m)
	assert.Equal(t, "2025-03", m.String())
}

func TestParseMonthKey_Invalid(t *testing.T) {
	for _, key := range []string{"", "2025", "abcd-01", "2025-xx", "2025-13", "2025-00"} {
		_, err := ParseMonthKey(key)
		assert.Error(t, err, "ParseMonthKey(%q)", key)
	}
}

func TestOfAndStart(t *testing.T) {
	m := Of(time.Date(2024, 2, 29, 15, 0, 0, 0, time.UTC))
	assert.Equal(t, Month{Year: 2024, Month: time.February}, m)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), m.Start())
}

func TestBeforeAndNext(t *testing.T) {
	dec := Month{Year: 2024, Month: time.December}
	jan := dec.Next()

	assert.Equal(t, Month{Year: 2025, Month: time.January}, jan)
	assert.True(t, dec.Before(jan))
	assert.False(t, jan.Before(dec))
	assert.False(t, jan.Before(jan))
	assert.True(t, Month{Year: 2025, Month: time.January}.Before(Month{Year: 2025, Month: time.February}))
}

func TestMonthJSON(t *testing.T) {
	type row struct {
		Month Month `json:"month"`
	}
	data, err := json.Marshal(row{Month: Month{Year: 2025, Month: time.April}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"month":"2025-04"}`, string(data))

	var got row
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, Month{Year: 2025, Month: time.April}, got.Month)

	assert.Error(t, json.Unmarshal([]byte(`{"month":"2025-13"}`), &got))
}
