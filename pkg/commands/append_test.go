package commands

import (
	"testing"

	"github.com/leapstack-labs/shiftsql/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlterTableAppend(t *testing.T) {
	target := core.NewRelationKey("sales", "")
	source := core.NewRelationKey("sales_staging", "stage")

	tests := []struct {
		name        string
		fill, extra bool
		want        string
	}{
		{"plain", false, false, "ALTER TABLE sales APPEND FROM stage.sales_staging"},
		{"fill target", true, false, "ALTER TABLE sales APPEND FROM stage.sales_staging FILLTARGET"},
		{"ignore extra", false, true, "ALTER TABLE sales APPEND FROM stage.sales_staging IGNOREEXTRA"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, err := NewAlterTableAppend(AppendOptions{Target: target, Source: source, FillTarget: tt.fill, IgnoreExtra: tt.extra})
			require.NoError(t, err)
			assert.Equal(t, tt.want, mustRender(t, cmd))
		})
	}
}

func TestAlterTableAppendRejectsBothFlags(t *testing.T) {
	_, err := NewAlterTableAppend(AppendOptions{
		Target:      core.NewRelationKey("a", ""),
		Source:      core.NewRelationKey("b", ""),
		FillTarget:  true,
		IgnoreExtra: true,
	})
	require.ErrorIs(t, err, core.ErrIncompatibleOption)
	assert.Contains(t, err.Error(), `cannot be used with "fill_target"`)
}
