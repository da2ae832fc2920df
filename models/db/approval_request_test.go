package dbmodels

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMetadataScan(t *testing.T) {
	t.Run(`jsonb как []byte`, func(t *testing.T) {
		var m Metadata
		require.Nil(t, m.Scan([]byte(`{"order_id":"ord-1"}`)))
		require.Equal(t, "ord-1", m["order_id"])
	})

	t.Run(`jsonb как string`, func(t *testing.T) {
		var m Metadata
		require.Nil(t, m.Scan(`{"order_id":"ord-2"}`))
		require.Equal(t, "ord-2", m["order_id"])
	})

	t.Run(`nil значение`, func(t *testing.T) {
		var m Metadata
		require.Nil(t, m.Scan(nil))
		require.Nil(t, m)
	})

	t.Run(`неподдерживаемый тип`, func(t *testing.T) {
		var m Metadata
		require.NotNil(t, m.Scan(42))
	})
}

func TestMetadataValue(t *testing.T) {
	var m Metadata
	value, err := m.Value()
	require.Nil(t, err)
	require.Equal(t, "{}", value)

	m = Metadata{"order_id": "ord-1"}
	value, err = m.Value()
	require.Nil(t, err)
	require.Equal(t, `{"order_id":"ord-1"}`, value)
}
