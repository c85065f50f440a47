package featureflag

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFeatureFlag(t *testing.T) {
	f := New([]string{string(FlagValidateFrames)})

	t.Run("is set", func(t *testing.T) {
		require.True(t, f.IsSet(FlagValidateFrames))
		require.False(t, f.IsSet(FlagDebugStream))
	})

	t.Run("run if enabled", func(t *testing.T) {
		var validate bool
		f.IfSet(FlagValidateFrames, func() {
			validate = true
		})
		require.True(t, validate)

		var stream bool
		f.IfSet(FlagDebugStream, func() {
			stream = true
		})
		require.False(t, stream)
	})

	t.Run("run if disabled", func(t *testing.T) {
		var validate bool
		f.IfNotSet(FlagValidateFrames, func() {
			validate = true
		})
		require.False(t, validate)

		var selfCheck bool
		f.IfNotSet(FlagSelfCheck, func() {
			selfCheck = true
		})
		require.True(t, selfCheck)
	})
}
