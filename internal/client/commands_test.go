package client

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blindbid/internal/server"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		line     string
		wantType server.MessageType
		wantData string
	}{
		{"new", server.MessageTypeNewGame, `{"sessionId":"s1"}`},
		{"/newgame", server.MessageTypeNewGame, `{"sessionId":"s1"}`},
		{"join", server.MessageTypeJoin, `{"sessionId":"s1"}`},
		{"bot", server.MessageTypeAddBot, `{"sessionId":"s1"}`},
		{"  START ", server.MessageTypeStartGame, `{"sessionId":"s1"}`},
		{"pick 4", server.MessageTypeSelectSecret, `{"sessionId":"s1","number":4}`},
		{"3", server.MessageTypeSelectSecret, `{"sessionId":"s1","number":3}`},
		{"raise", server.MessageTypeAuctionAction, `{"sessionId":"s1","action":"raise"}`},
		{"r", server.MessageTypeAuctionAction, `{"sessionId":"s1","action":"raise"}`},
		{"pass", server.MessageTypeAuctionAction, `{"sessionId":"s1","action":"pass"}`},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			msg, err := ParseLine(tt.line, "s1")
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, msg.Type)
			assert.JSONEq(t, tt.wantData, string(msg.Data))
		})
	}
}

func TestParseLineErrors(t *testing.T) {
	_, err := ParseLine("   ", "s1")
	require.ErrorIs(t, err, ErrEmptyLine)

	_, err = ParseLine("fold", "s1")
	require.ErrorIs(t, err, ErrUnknownCommand)

	_, err = ParseLine("join", "")
	require.ErrorIs(t, err, ErrNoSession)

	_, err = ParseLine("pick", "s1")
	require.Error(t, err)

	_, err = ParseLine("pick two", "s1")
	require.Error(t, err)
}

func TestFormatNotice(t *testing.T) {
	n := server.NoticeData{
		Handle: "h1",
		Text:   "Round 2. Pick your secret number (1-6).",
		Choices: []server.Choice{
			{Label: "1 ×", Value: "1", Disabled: true},
			{Label: "2", Value: "2"},
		},
	}

	out := FormatNotice(n, false)
	assert.Contains(t, out, "[private]")
	assert.Contains(t, out, "Round 2.")
	assert.Contains(t, out, "[2]")
	assert.Contains(t, out, "1 ×")
	assert.NotContains(t, out, "[1 ×]")

	n.SessionID = "room"
	out = FormatNotice(n, true)
	assert.True(t, strings.Contains(out, "[room] (updated)"), out)
}

func TestFormatError(t *testing.T) {
	out := FormatError(server.ErrorData{Code: "malformed_command", Message: "bad"})
	assert.Contains(t, out, "malformed_command")
}

func TestLoadClientConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "client.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`
server {
  url = "http://example.test:9000"
}

player {
  name    = "alice"
  session = "table-7"
}

ui {}
`), 0o600))

	cfg, err := LoadClientConfig(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "http://example.test:9000", cfg.Server.URL)
	assert.Equal(t, "table-7", cfg.Player.Session)
	assert.Equal(t, "warn", cfg.UI.LogLevel)
	assert.Equal(t, 10, cfg.Server.ConnectTimeout)
}

func TestDefaultClientConfigNeedsName(t *testing.T) {
	cfg, err := LoadClientConfig(filepath.Join(t.TempDir(), "missing.hcl"))
	require.NoError(t, err)
	require.Error(t, cfg.Validate())

	cfg.Player.Name = "bob"
	require.NoError(t, cfg.Validate())
}

func TestParseLineProducesValidJSON(t *testing.T) {
	msg, err := ParseLine("pick 6", "s1")
	require.NoError(t, err)

	var data server.SelectSecretData
	require.NoError(t, json.Unmarshal(msg.Data, &data))
	assert.Equal(t, 6, data.Number)
}
