package ethport_test

import (
	"testing"

	"github.com/routegraph/routegraph/core/testenv"
	"github.com/routegraph/routegraph/ethport"
)

var makeAR = testenv.MakeAR

func TestPortTable(t *testing.T) {
	assert, require := makeAR(t)

	p0, e := ethport.New(ethport.Config{Name: "uplink", RxQueues: 2, TxQueues: 4})
	require.NoError(e)
	defer p0.Close()
	p1, e := ethport.New(ethport.Config{Name: "lan"})
	require.NoError(e)

	assert.Equal(uint16(0), p0.ID())
	assert.Equal(uint16(1), p1.ID())
	assert.Equal(2, p0.RxQueues())
	assert.Equal(4, p0.TxQueues())
	assert.Equal(ethport.DefaultRxQueues, p1.RxQueues())
	assert.Equal(ethport.DefaultMTU, p1.MTU())

	_, e = ethport.New(ethport.Config{Name: "uplink"})
	assert.Error(e)

	assert.Same(p0, ethport.FromID(0))
	assert.Same(p1, ethport.Find("lan"))
	assert.Nil(ethport.FromID(ethport.MaxEthPorts))
	assert.Len(ethport.List(), 2)

	// closing releases the ID for reuse
	require.NoError(p1.Close())
	assert.Nil(ethport.FromID(1))
	p2, e := ethport.New(ethport.Config{Name: "dmz"})
	require.NoError(e)
	defer p2.Close()
	assert.Equal(uint16(1), p2.ID())
}

func TestProvider(t *testing.T) {
	assert, require := makeAR(t)

	port, e := ethport.New(ethport.Config{Name: "wan", RxQueues: 3, TxQueues: 8})
	require.NoError(e)
	defer port.Close()

	var provider ethport.Provider
	rx, ok := provider.RxQueueCount(port.ID())
	assert.True(ok)
	assert.Equal(3, rx)
	tx, ok := provider.TxQueueCount(port.ID())
	assert.True(ok)
	assert.Equal(8, tx)

	_, ok = provider.RxQueueCount(9999)
	assert.False(ok)

	assert.Equal([]uint16{port.ID()}, provider.Ports())
}
