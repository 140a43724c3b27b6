package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	c, err := NewConfig()
	require.NoError(t, err)
	assert.Equal(t, DefaultHeader, c.Header)
	assert.GreaterOrEqual(t, c.Workers, 1)
	assert.False(t, c.Manifest)
	assert.False(t, c.Records)
	assert.Empty(t, c.SchemaPkg)

	for _, f := range AllFeatures {
		assert.Equal(t, f.Default, c.FeatureEnabled(f.Name), f.Name)
	}
}

func TestConfigOptionError(t *testing.T) {
	c, err := NewConfig(WithPackage("models"), WithWorkers(-1))
	require.Error(t, err)
	assert.Nil(t, c)
	assert.True(t, IsConfigError(err))
}

func TestFeatureByName(t *testing.T) {
	for _, f := range AllFeatures {
		got, ok := FeatureByName(f.Name)
		require.True(t, ok, f.Name)
		assert.Equal(t, f, got)
	}
	_, ok := FeatureByName("entql")
	assert.False(t, ok)
}

func TestFeatureStage(t *testing.T) {
	tests := []struct {
		stage    FeatureStage
		expected string
	}{
		{Experimental, "experimental"},
		{Alpha, "alpha"},
		{Beta, "beta"},
		{Stable, "stable"},
		{FeatureStage(0), "unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.stage.String())
	}
}
