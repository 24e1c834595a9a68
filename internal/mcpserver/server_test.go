package mcpserver

import (
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultCarriesErrorFlag(t *testing.T) {
	res := result("another appointment already exists between 09:15 and 09:45", true)

	require.True(t, res.IsError)
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	assert.Equal(t, "text", text.Type)
	assert.Equal(t, "another appointment already exists between 09:15 and 09:45", text.Text)
}

func TestResultPlainText(t *testing.T) {
	res := result("ok", false)

	require.False(t, res.IsError)
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	assert.Equal(t, "ok", text.Text)
}

func TestStringArg(t *testing.T) {
	var req mcp.CallToolRequest
	req.Params.Arguments = map[string]interface{}{
		"dentistName": "Smith",
		"count":       3,
	}

	assert.Equal(t, "Smith", stringArg(req, "dentistName"))
	assert.Equal(t, "", stringArg(req, "count"))
	assert.Equal(t, "", stringArg(req, "missing"))
}

func TestNewServer(t *testing.T) {
	require.NotNil(t, NewServer(&Toolset{}, "test"))
}
