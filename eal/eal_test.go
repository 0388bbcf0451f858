package eal_test

import (
	"sort"
	"testing"

	"github.com/routegraph/routegraph/core/hwinfo"
	"github.com/routegraph/routegraph/core/testenv"
	"github.com/routegraph/routegraph/eal"
)

var makeAR = testenv.MakeAR

func TestInit(t *testing.T) {
	assert, require := makeAR(t)

	cores := hwinfo.Default.Cores()
	if len(cores) < 2 {
		t.Skip("needs at least two CPU cores")
	}
	ids := make([]int, 0, len(cores))
	for id := range cores.ByID() {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	// Main defaults to the lowest allowed core even with explicit workers.
	require.NoError(eal.Init(eal.Config{Workers: []int{ids[1]}}))
	assert.Equal(ids[0], eal.MainLCore().ID())
	require.Len(eal.Workers(), 1)
	assert.Equal(ids[1], eal.Workers()[0].ID())

	provider := eal.Provider{}
	assert.True(provider.IsMain(ids[0]))
	assert.False(provider.IsUsable(ids[0]))
	assert.True(provider.IsUsable(ids[1]))

	assert.Error(eal.Init(eal.Config{}))
}

func TestLCore(t *testing.T) {
	assert, _ := makeAR(t)

	var lc eal.LCore
	assert.False(lc.Valid())
	assert.Equal("invalid", lc.String())

	lc = eal.LCoreFromID(4)
	assert.True(lc.Valid())
	assert.Equal(4, lc.ID())
	assert.Equal("4", lc.String())

	assert.False(eal.LCoreFromID(-1).Valid())
	assert.False(eal.LCoreFromID(eal.MaxLCoreID + 1).Valid())
}

func TestRemoteLaunch(t *testing.T) {
	assert, _ := makeAR(t)

	lc := eal.LCoreFromID(0)
	assert.False(lc.IsBusy())
	assert.Equal(0, lc.Wait())

	started := make(chan struct{})
	release := make(chan struct{})
	ok := lc.RemoteLaunch(func() int {
		close(started)
		<-release
		return 66
	})
	assert.True(ok)

	<-started
	assert.True(lc.IsBusy())
	assert.False(lc.RemoteLaunch(func() int { return 0 }))

	close(release)
	assert.Equal(66, lc.Wait())
	assert.False(lc.IsBusy())
}
