package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/ideabox-backend/internal/platform/logger"
)

func TestNewPostgresServiceRejectsBadDSN(t *testing.T) {
	_, err := NewPostgresService("  ", logger.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing DATABASE_URL")

	_, err = NewPostgresService("postgres://user:pw@host:notaport/db", logger.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid DATABASE_URL")
}
