package events_test

import (
	"testing"

	"github.com/routegraph/routegraph/core/events"
	"github.com/routegraph/routegraph/core/testenv"
)

var makeAR = testenv.MakeAR

func TestOnCancel(t *testing.T) {
	assert, _ := makeAR(t)

	nA, nB, nC := 0, 0, 0
	fA := func() { nA++ }
	fB := func() { nB++ }
	fC := func() { nC++ }

	emitter := events.NewEmitter()
	cancelA := emitter.On(1, fA)
	emitter.On(1, fB)
	cancelC := emitter.Once(2, fC)

	emitter.Emit(1)
	assert.Equal(1, nA)
	assert.Equal(1, nB)

	cancelA.Close()
	emitter.Emit(1)
	assert.Equal(1, nA)
	assert.Equal(2, nB)

	emitter.Emit(2)
	emitter.Emit(2)
	assert.Equal(1, nC)

	cancelC.Close()
	emitter.Emit(2)
	assert.Equal(1, nC)
}
