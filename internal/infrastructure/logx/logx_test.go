package logx

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew_Level(t *testing.T) {
	l, err := New("prod", "WARN")
	require.NoError(t, err)
	require.False(t, l.Core().Enabled(zap.InfoLevel))
	require.True(t, l.Core().Enabled(zap.WarnLevel))

	l, err = New("local", "debug")
	require.NoError(t, err)
	require.True(t, l.Core().Enabled(zap.DebugLevel))
}

func TestNew_BadLevel(t *testing.T) {
	_, err := New("prod", "chatty")
	require.Error(t, err)
}

func TestFor(t *testing.T) {
	require.NotNil(t, For("notion"))
	require.Same(t, L(), L())
}
