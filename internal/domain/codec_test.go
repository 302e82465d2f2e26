package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"calories/internal/domain"
)

func TestEncodeActivities_WireShape(t *testing.T) {
	data, err := domain.EncodeActivities([]domain.Activity{rice("a"), run("b")})
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"id":"a","category":1,"name":"Rice","calories":300},
		{"id":"b","category":2,"name":"Run","calories":200}
	]`, string(data))
}

func TestEncodeActivities_NilIsEmptyArray(t *testing.T) {
	data, err := domain.EncodeActivities(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestDecodeActivities(t *testing.T) {
	got, err := domain.DecodeActivities([]byte(`[{"id":"a","category":1,"name":"Rice","calories":300}]`))
	require.NoError(t, err)
	assert.Equal(t, []domain.Activity{rice("a")}, got)
}

func TestDecodeActivities_Empty(t *testing.T) {
	got, err := domain.DecodeActivities(nil)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDecodeActivities_Malformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"truncated", `[{"id":"a","category":1`},
		{"not an array", `{"id":"a"}`},
		{"wrong field type", `[{"id":"a","category":"food","name":"Rice","calories":300}]`},
		{"missing id", `[{"category":1,"name":"Rice","calories":300}]`},
		{"unknown category", `[{"id":"a","category":7,"name":"Rice","calories":300}]`},
		{"calories above bound", `[{"id":"a","category":1,"name":"Rice","calories":1e308}]`},
		{"negative calories", `[{"id":"a","category":1,"name":"Rice","calories":-5}]`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := domain.DecodeActivities([]byte(tc.data))
			assert.ErrorIs(t, err, domain.ErrMalformedActivities)
		})
	}
}
