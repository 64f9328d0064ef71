package docid

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUUID(t *testing.T) {
	u1 := NewUUID()
	u2 := NewUUID()

	assert.False(t, u1.IsZero())
	assert.Len(t, u1.String(), 36)
	assert.False(t, u1.Equal(u2))
}

func TestParseUUID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{
			name:  "canonical",
			input: "550e8400-e29b-41d4-a716-446655440000",
			want:  "550e8400-e29b-41d4-a716-446655440000",
		},
		{
			name:  "uppercase is normalized",
			input: "550E8400-E29B-41D4-A716-446655440000",
			want:  "550e8400-e29b-41d4-a716-446655440000",
		},
		{
			name:    "garbage",
			input:   "not-a-uuid",
			wantErr: true,
		},
		{
			name:    "empty",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := ParseUUID(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, u.String())
		})
	}

	assert.Panics(t, func() { MustParseUUID("nope") })
}

func TestUUID_GetID(t *testing.T) {
	var zero UUID
	assert.Empty(t, zero.GetID())

	u := MustParseUUID("550e8400-e29b-41d4-a716-446655440000")
	assert.Equal(t, "550e8400-e29b-41d4-a716-446655440000", u.GetID())
}

func TestUUID_JSON(t *testing.T) {
	type order struct {
		ID     UUID   `json:"id"`
		Status string `json:"status"`
	}

	in := order{ID: MustParseUUID("550e8400-e29b-41d4-a716-446655440000"), Status: "open"}
	data, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"550e8400-e29b-41d4-a716-446655440000","status":"open"}`, string(data))

	var out order
	require.NoError(t, json.Unmarshal(data, &out))
	assert.True(t, in.ID.Equal(out.ID))

	var zero UUID
	data, err = json.Marshal(zero)
	require.NoError(t, err)
	assert.Equal(t, "null", string(data))

	var fromNull UUID
	require.NoError(t, json.Unmarshal([]byte("null"), &fromNull))
	assert.True(t, fromNull.IsZero())

	var bad UUID
	assert.Error(t, json.Unmarshal([]byte("123"), &bad))
}
