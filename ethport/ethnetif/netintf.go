// Package ethnetif inspects kernel network interfaces via netlink and ethtool.
package ethnetif

import (
	"fmt"
	"net"

	"github.com/pkg/math"
	"github.com/routegraph/routegraph/core/logging"
	"github.com/safchain/ethtool"
	"github.com/vishvananda/netlink"
	"go.uber.org/zap"
)

var logger = logging.New("ethnetif")

// etht is an ethtool instance.
// This is assigned when ByName() is invoked for the first time.
var etht *ethtool.Ethtool

// NetIntf controls a network interface via netlink and ethtool.
type NetIntf struct {
	*netlink.LinkAttrs
	Link   netlink.Link
	logger *zap.Logger
}

func (n *NetIntf) save(link netlink.Link) {
	n.Link = link
	n.LinkAttrs = link.Attrs()
	n.logger = logger.With(
		zap.Int("ifindex", n.Index),
		zap.String("ifname", n.Name),
	)
}

// Refresh refreshes netlink information stored in this struct.
func (n *NetIntf) Refresh() {
	link, e := netlink.LinkByIndex(n.Index)
	if e != nil {
		n.logger.Warn("refresh error", zap.Error(e))
		return
	}
	n.save(link)
}

// EnsureLinkUp brings up the link.
func (n *NetIntf) EnsureLinkUp() error {
	if n.Flags&net.FlagUp != 0 {
		return nil
	}
	if e := netlink.LinkSetUp(n.Link); e != nil {
		n.logger.Error("netlink.LinkSetUp error", zap.Error(e))
		return fmt.Errorf("netlink.LinkSetUp(%s): %w", n.Name, e)
	}
	n.logger.Info("brought up the interface")
	n.Refresh()
	return nil
}

// Channels reports usable rx and tx queue counts derived from ethtool channel counts.
// Combined channels count toward both directions.
func (n *NetIntf) Channels() (rx, tx int, e error) {
	channels, e := etht.GetChannels(n.Name)
	if e != nil {
		n.logger.Debug("ethtool.GetChannels error", zap.Error(e))
		return 0, 0, e
	}
	rx = math.MaxInt(int(channels.RxCount), int(channels.CombinedCount))
	tx = math.MaxInt(int(channels.TxCount), int(channels.CombinedCount))
	return rx, tx, nil
}

// ByName locates a kernel network interface by name.
func ByName(name string) (*NetIntf, error) {
	if etht == nil {
		var e error
		if etht, e = ethtool.NewEthtool(); e != nil {
			return nil, fmt.Errorf("ethtool.NewEthtool: %w", e)
		}
	}

	link, e := netlink.LinkByName(name)
	if e != nil {
		return nil, fmt.Errorf("netlink.LinkByName(%s): %w", name, e)
	}
	n := &NetIntf{}
	n.save(link)
	return n, nil
}
