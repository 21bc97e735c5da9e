package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAssetJSON(t *testing.T) {
	parsed, ok := ParseAssetJSON(`{"symbol": "TSLA", "name": "Tesla, Inc.", "type": "stock"}`)
	require.True(t, ok)
	assert.Equal(t, "TSLA", parsed.Symbol)
	assert.Equal(t, "Tesla, Inc.", parsed.Name)
	assert.Equal(t, "stock", parsed.Type)
}

func TestParseAssetJSONCodeFence(t *testing.T) {
	reply := "```json\n{\"symbol\": \"DOGE\", \"name\": \"Dogecoin\", \"type\": \"crypto\"}\n```"
	parsed, ok := ParseAssetJSON(reply)
	require.True(t, ok)
	assert.Equal(t, "DOGE", parsed.Symbol)
}

func TestParseAssetJSONSurroundingProse(t *testing.T) {
	reply := `Sure! Here is the instrument: {"symbol": "EURUSD", "name": "Euro / US Dollar", "type": "forex"} Hope that helps.`
	parsed, ok := ParseAssetJSON(reply)
	require.True(t, ok)
	assert.Equal(t, "EURUSD", parsed.Symbol)
}

func TestParseAssetJSONRejects(t *testing.T) {
	cases := map[string]string{
		"no json":        "I could not identify an instrument.",
		"empty symbol":   `{"symbol": "", "name": "x", "type": "stock"}`,
		"unknown symbol": `{"symbol": "UNKNOWN", "name": "", "type": "stock"}`,
		"null symbol":    `{"symbol": "NULL", "name": "", "type": "stock"}`,
		"broken json":    `{"symbol": "TSLA"`,
	}
	for name, reply := range cases {
		_, ok := ParseAssetJSON(reply)
		assert.False(t, ok, name)
	}
}
