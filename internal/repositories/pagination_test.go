package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePage_Overflow(t *testing.T) {
	// 30 записей по 12 -> 3 страницы
	page, offset := ResolvePage(30, PageRequest{Page: 5, Limit: 12}, OverflowEmptyPage)
	assert.Equal(t, 5, page)
	assert.Equal(t, 36, offset)

	page, offset = ResolvePage(30, PageRequest{Page: 5, Limit: 12}, OverflowLastPage)
	assert.Equal(t, 3, page)
	assert.Equal(t, 24, offset)

	page, offset = ResolvePage(0, PageRequest{Page: 0}, OverflowLastPage)
	assert.Equal(t, 1, page)
	assert.Equal(t, 0, offset)
}

func TestResolvePage_HugePageDoesNotOverflowOffset(t *testing.T) {
	page, offset := ResolvePage(5, PageRequest{Page: 1 << 62, Limit: 12}, OverflowEmptyPage)
	assert.Equal(t, 1<<62, page)
	assert.Equal(t, 12, offset)
	assert.GreaterOrEqual(t, int64(offset), int64(5))

	page, offset = ResolvePage(5, PageRequest{Page: 1 << 62, Limit: 12}, OverflowLastPage)
	assert.Equal(t, 1, page)
	assert.Zero(t, offset)
}

func TestNewPageMeta(t *testing.T) {
	meta := NewPageMeta(30, 2, 12, 12)

	assert.Equal(t, int64(30), meta.Count)
	assert.Equal(t, 3, meta.Pages)
	assert.Equal(t, 3, meta.Last)
	assert.Equal(t, int64(13), meta.From)
	assert.Equal(t, int64(24), meta.To)
	assert.Equal(t, 12, meta.In)
	require.NotNil(t, meta.Prev)
	require.NotNil(t, meta.Next)
	assert.Equal(t, 1, *meta.Prev)
	assert.Equal(t, 3, *meta.Next)
}

func TestNewPageMeta_LastAndEmptyPages(t *testing.T) {
	last := NewPageMeta(30, 3, 12, 6)
	assert.Equal(t, int64(25), last.From)
	assert.Equal(t, int64(30), last.To)
	assert.Nil(t, last.Next)

	empty := NewPageMeta(30, 7, 12, 0)
	assert.Equal(t, int64(0), empty.From)
	assert.Equal(t, 0, empty.In)
	require.NotNil(t, empty.Prev)
	assert.Equal(t, 3, *empty.Prev)
	assert.Nil(t, empty.Next)

	none := NewPageMeta(0, 1, 12, 0)
	assert.Equal(t, 1, none.Pages)
	assert.Nil(t, none.Prev)
	assert.Nil(t, none.Next)
}
