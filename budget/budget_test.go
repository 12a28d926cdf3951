package budget

import (
	"testing"
	"time"

	"github.com/filesdsl/filesdsl/fdslerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnbounded(t *testing.T) {
	b := Unbounded()
	assert.NoError(t, b.Check("anything"))
	time.Sleep(2 * time.Millisecond)
	assert.NoError(t, b.Check("anything"))
}

func TestNew(t *testing.T) {
	t.Run("has not expired immediately", func(t *testing.T) {
		b := New(time.Hour)
		assert.NoError(t, b.Check("phase"))
	})

	t.Run("expires after the timeout elapses", func(t *testing.T) {
		b := New(time.Millisecond)
		time.Sleep(5 * time.Millisecond)

		err := b.Check("evaluator loop")
		require.Error(t, err)

		var te *fdslerr.TimeoutError
		require.ErrorAs(t, err, &te)
		assert.Equal(t, "evaluator loop", te.Phase)
		assert.Greater(t, te.ElapsedS, 0.0)
	})
}

func TestCheck_NilBudget(t *testing.T) {
	var b *Budget
	assert.NoError(t, b.Check("phase"))
}

func TestElapsed(t *testing.T) {
	t.Run("nil budget reports zero", func(t *testing.T) {
		var b *Budget
		assert.Equal(t, time.Duration(0), b.Elapsed())
	})

	t.Run("bounded budget reports time since construction", func(t *testing.T) {
		b := New(time.Hour)
		time.Sleep(2 * time.Millisecond)
		assert.Greater(t, b.Elapsed(), time.Duration(0))
	})
}
