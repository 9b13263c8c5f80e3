package persistence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Settlers/internal/shared/serverconfig"
	"Settlers/internal/world/infra/persistence/memory"
)

func TestOpenJournal_默认使用内存(t *testing.T) {
	repo, closeFn, err := OpenJournal(context.Background(), serverconfig.Config{}, nil)
	require.NoError(t, err)
	assert.IsType(t, &memory.JournalRepository{}, repo)
	assert.NoError(t, closeFn(context.Background()))
}

func TestOpenJournal_未知后端(t *testing.T) {
	conf := serverconfig.Config{Journal: serverconfig.JournalConfig{Backend: "redis"}}
	_, _, err := OpenJournal(context.Background(), conf, nil)
	assert.ErrorContains(t, err, "redis")
}
