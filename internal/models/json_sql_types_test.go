package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateJSON(t *testing.T) {
	var in struct {
		Start Date `json:"startDate"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"startDate":"2025-06-05"}`), &in))
	assert.Equal(t, time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC), in.Start.Time)

	out, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"startDate":"2025-06-05"}`, string(out))

	require.NoError(t, json.Unmarshal([]byte(`{"startDate":"2025-06-05T21:30:00Z"}`), &in))
	assert.Equal(t, "2025-06-05", in.Start.String())

	require.NoError(t, json.Unmarshal([]byte(`{"startDate":null}`), &in))
	assert.True(t, in.Start.IsZero())
	out, _ = json.Marshal(in)
	assert.JSONEq(t, `{"startDate":null}`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`{"startDate":"05/06/2025"}`), &in))
}

func TestDateScanAndValue(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan(time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2025-06-05", d.String())

	require.NoError(t, d.Scan([]byte("2025-01-31")))
	assert.Equal(t, "2025-01-31", d.String())

	require.NoError(t, d.Scan(nil))
	assert.True(t, d.IsZero())
	v, err := d.Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	assert.Error(t, d.Scan(42))
}

func TestPromoterPatchIsEmpty(t *testing.T) {
	assert.True(t, PromoterPatch{}.IsEmpty())
	n := 5
	assert.False(t, PromoterPatch{LeafletsCount: &n}.IsEmpty())
}
