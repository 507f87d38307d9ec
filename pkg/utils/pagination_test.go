package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClampPage(t *testing.T) {
	page, limit := ClampPage(0, 0, 12)
	assert.Equal(t, 1, page)
	assert.Equal(t, 12, limit)

	page, limit = ClampPage(-3, 1000, 12)
	assert.Equal(t, 1, page)
	assert.Equal(t, MaxLimit, limit)

	page, limit = ClampPage(4, 25, 12)
	assert.Equal(t, 4, page)
	assert.Equal(t, 25, limit)
}

func TestNewPageEnvelopeMiddlePage(t *testing.T) {
	env := NewPageEnvelope([]string{"a"}, 50, 3, 10)

	assert.Equal(t, int64(50), env.TotalDocs)
	assert.Equal(t, int64(5), env.TotalPages)
	assert.True(t, env.HasPrevPage)
	assert.True(t, env.HasNextPage)
	require.NotNil(t, env.PrevPage)
	require.NotNil(t, env.NextPage)
	assert.Equal(t, 2, *env.PrevPage)
	assert.Equal(t, 4, *env.NextPage)
}

func TestNewPageEnvelopeBoundaries(t *testing.T) {
	first := NewPageEnvelope(nil, 25, 1, 10)
	assert.False(t, first.HasPrevPage)
	assert.Nil(t, first.PrevPage)
	assert.True(t, first.HasNextPage)

	last := NewPageEnvelope(nil, 25, 3, 10)
	assert.True(t, last.HasPrevPage)
	assert.False(t, last.HasNextPage)
	assert.Nil(t, last.NextPage)

	empty := NewPageEnvelope(nil, 0, 1, 10)
	assert.Equal(t, int64(0), empty.TotalPages)
	assert.False(t, empty.HasNextPage)
}
