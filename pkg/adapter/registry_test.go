package adapter

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnknownAdapterError_Error(t *testing.T) {
	err := &UnknownAdapterError{Type: "fake_db", Available: []string{"postgres", "redshift"}}

	assert.Equal(t,
		`unknown adapter type "fake_db" (available: postgres, redshift); check target.type in shiftsql.yaml`,
		err.Error())
}

func TestRegister(t *testing.T) {
	Register("Test_Adapter_Internal", func(_ *slog.Logger) Adapter { return nil })

	assert.True(t, IsRegistered("test_adapter_internal"))
	assert.True(t, IsRegistered("TEST_ADAPTER_INTERNAL"), "lookups ignore case")

	factory, ok := Get("test_adapter_internal")
	assert.True(t, ok)
	assert.NotNil(t, factory)
	assert.Contains(t, ListAdapters(), "test_adapter_internal")
}

func TestRegisterPanics(t *testing.T) {
	Register("test_adapter_dup", func(_ *slog.Logger) Adapter { return nil })

	assert.Panics(t, func() {
		Register("test_adapter_dup", func(_ *slog.Logger) Adapter { return nil })
	}, "duplicate name")
	assert.Panics(t, func() { Register("test_adapter_nil", nil) }, "nil factory")
	assert.False(t, IsRegistered("test_adapter_nil"))
}

func TestNewAdapter_EmptyType(t *testing.T) {
	_, err := NewAdapter(Config{}, nil)
	require.Error(t, err)
	assert.Equal(t, "adapter type not specified", err.Error())
}
