package utils

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFilterFromQuery(t *testing.T) {
	values, err := url.ParseQuery("limit=25&page=3&search=hitachi&sort=name:asc,created_at:desc&filter[status]=active")
	require.NoError(t, err)

	filter := ParseFilterFromQuery(values)

	assert.Equal(t, 25, filter.Limit)
	assert.Equal(t, 3, filter.Page)
	assert.Equal(t, "hitachi", filter.Search)
	assert.Equal(t, map[string]string{"name": "asc", "created_at": "desc"}, filter.Sort)
	assert.Equal(t, "active", filter.Filter["status"])
}

func TestParseFilterFromQuery_ЗначенияПоУмолчанию(t *testing.T) {
	filter := ParseFilterFromQuery(url.Values{})

	assert.Equal(t, DefaultLimit, filter.Limit)
	assert.Equal(t, 1, filter.Page)
	assert.Empty(t, filter.Search)
	assert.Empty(t, filter.Sort)
	assert.Empty(t, filter.Filter)
}

func TestParseFilterFromQuery_КривойВвод(t *testing.T) {
	values, err := url.ParseQuery("limit=9999&page=-1&sort=name:sideways")
	require.NoError(t, err)

	filter := ParseFilterFromQuery(values)

	// Лимит прижимается к потолку, мусорные значения игнорируются.
	assert.Equal(t, MaxLimit, filter.Limit)
	assert.Equal(t, 1, filter.Page)
	assert.Empty(t, filter.Sort)
}

func TestParseUint64Slice(t *testing.T) {
	ids, err := ParseUint64Slice([]string{"1", " 2 ", "", "3"})
	require.NoError(t, err)
	assert.Equal(t, []uint64{1, 2, 3}, ids)

	_, err = ParseUint64Slice([]string{"1", "abc"})
	assert.Error(t, err)
}
