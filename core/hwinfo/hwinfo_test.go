package hwinfo_test

import (
	"testing"

	"github.com/routegraph/routegraph/core/hwinfo"
	"github.com/routegraph/routegraph/core/testenv"
)

var makeAR = testenv.MakeAR

func TestByNumaSocket(t *testing.T) {
	assert, _ := makeAR(t)

	cores := hwinfo.Cores{
		{ID: 0, NumaSocket: 0},
		{ID: 1, NumaSocket: 0},
		{ID: 2, NumaSocket: 1},
		{ID: 3, NumaSocket: 1},
	}

	byNuma := cores.ByNumaSocket()
	assert.Len(byNuma, 2)
	assert.Len(byNuma[0], 2)
	assert.Len(byNuma[1], 2)
	assert.Equal(1, cores.MaxNumaSocket())

	byID := cores.ByID()
	assert.Equal(1, byID[3].NumaSocket)
}

func TestDefault(t *testing.T) {
	assert, _ := makeAR(t)

	cores := hwinfo.Default.Cores()
	assert.NotEmpty(cores)
	for _, core := range cores {
		assert.GreaterOrEqual(core.NumaSocket, 0)
	}
}
