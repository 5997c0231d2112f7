package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarizeTruncatesContent(t *testing.T) {
	var gotPrompt string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req Request
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		gotPrompt = req.Messages[0].Content

		_ = json.NewEncoder(w).Encode(Response{
			Choices: []Choice{{Message: Message{Role: "assistant", Content: "short summary"}}},
		})
	}))
	defer server.Close()

	s := NewSummarizer(NewClient(server.URL, "key", "model", 5*time.Second))

	long := strings.Repeat("word ", 2000) // 10000 chars, well past the budget
	summary, err := s.Summarize(context.Background(), long, 500)
	require.NoError(t, err)
	assert.Equal(t, "short summary", summary)

	assert.Contains(t, gotPrompt, "concise summary")
	assert.NotContains(t, gotPrompt, long, "full content must not be embedded")
	assert.Contains(t, gotPrompt, long[:MaxSummaryContentLength])
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		n     int
		want  string
		valid bool
	}{
		{name: "shorter than budget", in: "abc", n: 10, want: "abc"},
		{name: "exact budget", in: "abcd", n: 4, want: "abcd"},
		{name: "simple cut", in: "abcdef", n: 3, want: "abc"},
		{name: "does not split multibyte rune", in: "aä", n: 2, want: "a"},
		{name: "empty", in: "", n: 4, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncate(tt.in, tt.n)
			assert.Equal(t, tt.want, got)
			assert.True(t, utf8.ValidString(got))
		})
	}
}
