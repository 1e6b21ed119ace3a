package types

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateURLResponseJSONTags(t *testing.T) {
	response := CreateURLResponse{
		LongURL:  "https://example.com",
		ShortURL: "https://sho.rt/abc123",
	}

	jsonData, err := json.Marshal(response)
	require.NoError(t, err, "Failed to marshal CreateURLResponse")

	var unmarshaled map[string]interface{}
	err = json.Unmarshal(jsonData, &unmarshaled)
	require.NoError(t, err, "Failed to unmarshal JSON")

	for _, key := range []string{"long_url", "short_url"} {
		_, ok := unmarshaled[key]
		assert.True(t, ok, "Expected JSON key %q not found", key)
	}
}

func TestErrorResponseOmitsEmptyError(t *testing.T) {
	jsonData, err := json.Marshal(ErrorResponse{Message: "Short code not found"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"message":"Short code not found"}`, string(jsonData))

	jsonData, err = json.Marshal(ErrorResponse{Message: "Internal Server Error", Error: "boom"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"message":"Internal Server Error","error":"boom"}`, string(jsonData))
}

func TestCreateURLRequestValidationTag(t *testing.T) {
	field, ok := reflect.TypeOf(CreateURLRequest{}).FieldByName("URL")
	require.True(t, ok, "URL field not found in CreateURLRequest struct")

	// presence only, no URL format check
	assert.Equal(t, "required", field.Tag.Get("validate"))
	assert.Equal(t, "url", field.Tag.Get("json"))
}

func TestURLMappingStorageTags(t *testing.T) {
	field, ok := reflect.TypeOf(URLMapping{}).FieldByName("ShortCode")
	require.True(t, ok)
	assert.Equal(t, "_id", field.Tag.Get("bson"), "short code must be the document key")
	assert.Equal(t, "short_code", field.Tag.Get("json"))
}
