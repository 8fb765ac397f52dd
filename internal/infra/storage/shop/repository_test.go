package shop

import (
	"context"
	"testing"

	"github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectShopQuery(t *testing.T) {
	query, args, err := selectShopQuery(squirrel.Eq{"api_key_n8n": "key-1"}).ToSql()
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT id, name, slug, COALESCE(timezone, ''), api_key_n8n, webhook_url, webhook_enabled, created_at "+
			"FROM shops WHERE api_key_n8n = $1",
		query)
	assert.Equal(t, []interface{}{"key-1"}, args)
}

func TestGetByAPIKey_EmptyKeyIsNotFound(t *testing.T) {
	// пустой ключ не должен доходить до базы
	shop, err := NewRepository(nil).GetByAPIKey(context.Background(), "")
	assert.Nil(t, shop)
	assert.ErrorIs(t, err, ErrShopNotFound)
}
