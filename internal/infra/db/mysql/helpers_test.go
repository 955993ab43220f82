package mysql

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringOrDash(t *testing.T) {
	assert.Equal(t, "-", stringOrDash(""))
	assert.Equal(t, "-", stringOrDash("  \t"))
	assert.Equal(t, "checklist-scan", stringOrDash("checklist-scan"))
}

func TestConnectRejectsMalformedDSN(t *testing.T) {
	_, err := Connect(context.Background(), "no-slash-here")
	require.Error(t, err)
}

func TestSchemaCoversRepositoryTables(t *testing.T) {
	require.Len(t, schema, 2)
	for i, table := range []string{"sow_kv_store", "sow_scan_errors"} {
		assert.True(t, strings.HasPrefix(schema[i], "CREATE TABLE IF NOT EXISTS "+table+" "), table)
	}
}
