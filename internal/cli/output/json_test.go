package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type toolEntry struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func TestPrintJSON(t *testing.T) {
	data := toolEntry{Name: "get-story", Description: "Get a Shortcut story by ID"}

	var buf bytes.Buffer
	err := PrintJSON(&buf, data)
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, `"name": "get-story"`)
	assert.Contains(t, output, `"description": "Get a Shortcut story by ID"`)
}

func TestPrintJSONArray(t *testing.T) {
	data := []toolEntry{
		{Name: "get-story"},
		{Name: "search-stories"},
	}

	var buf bytes.Buffer
	err := PrintJSON(&buf, data)
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, `"name": "get-story"`)
	assert.Contains(t, output, `"name": "search-stories"`)
}
