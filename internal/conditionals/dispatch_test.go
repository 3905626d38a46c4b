package conditionals

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestConditional_LogsRouting(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	cfg := DefaultConfig()
	cfg.Logger = zap.New(core)
	e := NewEngine(cfg)

	fx := routineFixtures()[4]
	_, _, err := e.Conditional(xs, fx.feat, fx.kern, fx.f, Options{FullCov: true})
	require.NoError(t, err)

	start := logs.FilterMessage("conditional").All()
	require.Len(t, start, 1)
	fields := start[0].ContextMap()
	assert.Equal(t, "mixed_shared", fields["routine"])
	assert.Equal(t, "mixed_kernel_shared", fields["feature"])
	assert.Equal(t, true, fields["full_cov"])

	done := logs.FilterMessage("conditional done").All()
	require.Len(t, done, 1)
	assert.Equal(t, zapcore.DebugLevel, done[0].Level)
}

func TestConditional_SilentByDefault(t *testing.T) {
	e := NewEngine(Config{Jitter: 1e-6})
	fx := routineFixtures()[0]

	mean, cov, err := e.Conditional(xs, fx.feat, fx.kern, fx.f, Options{})
	require.NoError(t, err)
	assert.Equal(t, xs.Dim(0), mean.Dim(0))
	assert.Equal(t, mean.Shape(), cov.Shape())
	assert.Equal(t, 1e-6, e.Config().Jitter)
}
