package prompt

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bash-zoo/select/internal/payload"
)

func TestVisibleRows(t *testing.T) {
	tests := []struct {
		n    int
		want int
	}{
		{0, 10},
		{1, 10},
		{9, 10},
		{10, 10},
		{11, 11},
		{15, 15},
		{20, 20},
		{21, 20},
		{500, 20},
	}

	for _, tt := range tests {
		got := VisibleRows(tt.n, DefaultMinRows, DefaultMaxRows)
		assert.Equal(t, tt.want, got, "VisibleRows(%d)", tt.n)
	}
}

func TestVisibleRows_MatchesFormula(t *testing.T) {
	for n := 0; n <= 50; n++ {
		want := max(10, min(n, 20))
		assert.Equal(t, want, VisibleRows(n, 10, 20), "n=%d", n)
	}
}

func TestNewConfig(t *testing.T) {
	req, err := payload.Parse(`{"title":"Pick","choices":[{"name":"a"},{"name":"b","message":"B"}]}`)
	require.NoError(t, err)

	in := strings.NewReader("")
	var out bytes.Buffer
	cfg := NewConfig(req, in, &out)

	assert.Equal(t, "Pick", cfg.Title)
	assert.Equal(t, DefaultHint, cfg.Hint)
	assert.Equal(t, 10, cfg.Limit)
	assert.Same(t, in, cfg.In)
	assert.Same(t, &out, cfg.Out)

	require.Len(t, cfg.Choices, 2)
	assert.Equal(t, "a", cfg.Choices[0].Message, "missing message displays the name")
	assert.Equal(t, "a", cfg.Choices[0].Value)
	assert.Equal(t, "B", cfg.Choices[1].Message)
	assert.Equal(t, "b", cfg.Choices[1].Value)
}
