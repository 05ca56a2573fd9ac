package schemas

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `{
	"type": "object",
	"required": ["name", "count"],
	"properties": {
		"name": {"type": "string", "minLength": 1},
		"count": {"type": "integer", "minimum": 0}
	}
}`

func TestValidateJSONString_Valid(t *testing.T) {
	err := ValidateJSONString(testSchema, `{"name": "kitchen", "count": 3}`)
	assert.NoError(t, err)
}

func TestValidateJSONString_MissingField(t *testing.T) {
	err := ValidateJSONString(testSchema, `{"name": "kitchen"}`)
	require.Error(t, err)

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.NotEmpty(t, ve.Errors)
}

func TestValidateJSONString_WrongType(t *testing.T) {
	err := ValidateJSONString(testSchema, `{"name": "kitchen", "count": "three"}`)
	require.Error(t, err)

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "count", ve.Errors[0].Field)
}

func TestValidateJSONString_BadSchema(t *testing.T) {
	err := ValidateJSONString(`{"type": ["broken"`, `{}`)
	require.Error(t, err)

	var le *SchemaLoadError
	assert.True(t, errors.As(err, &le))
}
