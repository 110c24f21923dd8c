package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"w3intel/internal/domain/community"
	"w3intel/internal/domain/insight"
)

var testNow = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

type fixedRand int

func (r fixedRand) Intn(n int) int { return int(r) % n }

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	cmd := NewRootCmd(WithClock(func() time.Time { return testNow }), WithRand(fixedRand(7)))
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestQueryCommand(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantType insight.ChartType
		wantLen  int
	}{
		{"trending", []string{"query", "-o", "json", "what", "is", "trending"}, insight.ChartBar, 5},
		{"sentiment", []string{"query", "--output", "json", "community", "sentiment"}, insight.ChartPie, 3},
		{"engagement", []string{"query", "-o", "json", "activity"}, insight.ChartBar, 7},
		{"no words", []string{"query", "-o", "json"}, insight.ChartText, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := run(t, tt.args...)
			require.NoError(t, err)

			var payload insight.Payload
			require.NoError(t, json.Unmarshal([]byte(out), &payload))
			assert.Equal(t, tt.wantType, payload.Type)
			assert.Len(t, payload.ChartData, tt.wantLen)
		})
	}
}

func TestQueryCommand_Text(t *testing.T) {
	out, _, err := run(t, "query", "top", "topics")
	require.NoError(t, err)

	assert.Contains(t, out, "Top Trending Topics")
	assert.Contains(t, out, "Ethereum Layer 2 Solutions")
	assert.Contains(t, out, "SHARE")

	out, _, err = run(t, "query", "weather")
	require.NoError(t, err)
	assert.Contains(t, out, `Your query: "weather"`)
}

func TestTopicsCommand(t *testing.T) {
	tests := []struct {
		timeframe string
		want      int
	}{
		{"24h", 4},
		{"week", 8},
		{"month", 8},
	}

	for _, tt := range tests {
		t.Run(tt.timeframe, func(t *testing.T) {
			out, _, err := run(t, "topics", "-o", "json", "--timeframe", tt.timeframe)
			require.NoError(t, err)

			var topics []community.Topic
			require.NoError(t, json.Unmarshal([]byte(out), &topics))
			assert.Len(t, topics, tt.want)
		})
	}

	_, _, err := run(t, "topics", "--timeframe", "year")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported time frame")
}

func TestTopicCommand(t *testing.T) {
	out, _, err := run(t, "topic", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "NFT Market Recovery")
	assert.Contains(t, out, "Users discussing (3)")
	assert.Contains(t, out, "nft_collector")

	_, _, err = run(t, "topic", "42")
	require.Error(t, err)
	assert.True(t, errors.Is(err, community.ErrNotFound))
}

func TestUserCommand(t *testing.T) {
	out, _, err := run(t, "user", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "layer2_dev")
	assert.Contains(t, out, "Highly respected member with excellent reputation.")

	out, _, err = run(t, "user", "1", "--engagement", "-o", "json")
	require.NoError(t, err)
	var summary insight.EngagementSummary
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.Equal(t, "1", summary.UserID)
	assert.Equal(t, 3, summary.ConversationCount)

	_, _, err = run(t, "user", "42", "-e")
	assert.True(t, errors.Is(err, community.ErrNotFound))
}

func TestOutputFlagValidation(t *testing.T) {
	_, _, err := run(t, "topics", "-o", "yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported output format")
}

func TestFixturesFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "community.yaml")
	data := `
topics:
  - id: "a"
    title: DeFi Yields
    mentions: 10
    sentiment: 0.9
    trend: 1
    participants: 1
    age: 1h
    tags: [DeFi]
users:
  - id: "u"
    username: solo
    address: "0x0"
    joinedAt: 2024-01-01
participants:
  "a": ["u", "ghost"]
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	out, stderr, err := run(t, "--fixtures", path, "topics", "-o", "json")
	require.NoError(t, err)

	var topics []community.Topic
	require.NoError(t, json.Unmarshal([]byte(out), &topics))
	require.Len(t, topics, 1)
	assert.Equal(t, "DeFi Yields", topics[0].Title)
	assert.Contains(t, stderr, "unknown user ghost")

	_, _, err = run(t, "--fixtures", filepath.Join(t.TempDir(), "missing.yaml"), "topics")
	require.Error(t, err)
}
