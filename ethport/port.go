// Package ethport manages administrative records of Ethernet ports.
//
// The core only needs each port's identity and configured queue counts;
// device-level queue setup and start/stop belong to the driver layer.
package ethport

import (
	"errors"
	"fmt"
	"net"

	"github.com/routegraph/routegraph/core/logging"
	"github.com/routegraph/routegraph/ethport/ethnetif"
	"go.uber.org/zap"
)

var logger = logging.New("ethport")

// MaxEthPorts is the maximum number of ports.
const MaxEthPorts = 32

// Limits and defaults.
const (
	DefaultRxQueues = 1
	DefaultTxQueues = 1
	DefaultMTU      = 1500
)

var portTable [MaxEthPorts]*Port

// Config contains Port creation arguments.
type Config struct {
	// Name is a unique port name.
	Name string `json:"name"`

	// Netif optionally names a kernel network interface backing this port.
	// When set, queue counts and MAC address default from the interface.
	Netif string `json:"netif,omitempty"`

	RxQueues int `json:"rxQueues,omitempty"`
	TxQueues int `json:"txQueues,omitempty"`
	MTU      int `json:"mtu,omitempty"`
}

func (cfg *Config) applyDefaults() {
	if cfg.RxQueues <= 0 {
		cfg.RxQueues = DefaultRxQueues
	}
	if cfg.TxQueues <= 0 {
		cfg.TxQueues = DefaultTxQueues
	}
	if cfg.MTU <= 0 {
		cfg.MTU = DefaultMTU
	}
}

// Port is an administrative record of an Ethernet port.
type Port struct {
	id       uint16
	name     string
	rxQueues int
	txQueues int
	mtu      int
	macAddr  net.HardwareAddr
	logger   *zap.Logger
}

// New creates a Port from cfg, assigning the lowest free port ID.
func New(cfg Config) (*Port, error) {
	if cfg.Name == "" {
		return nil, errors.New("port name is required")
	}
	if Find(cfg.Name) != nil {
		return nil, fmt.Errorf("port %q already exists", cfg.Name)
	}

	if cfg.Netif != "" {
		n, e := ethnetif.ByName(cfg.Netif)
		if e != nil {
			return nil, fmt.Errorf("netif %s: %w", cfg.Netif, e)
		}
		if e := n.EnsureLinkUp(); e != nil {
			return nil, e
		}
		if rx, tx, e := n.Channels(); e == nil {
			if cfg.RxQueues <= 0 {
				cfg.RxQueues = rx
			}
			if cfg.TxQueues <= 0 {
				cfg.TxQueues = tx
			}
		}
		cfg.applyDefaults()
		port, e := insert(cfg)
		if e != nil {
			return nil, e
		}
		port.macAddr = n.HardwareAddr
		return port, nil
	}

	cfg.applyDefaults()
	return insert(cfg)
}

func insert(cfg Config) (*Port, error) {
	for id := range portTable {
		if portTable[id] != nil {
			continue
		}
		port := &Port{
			id:       uint16(id),
			name:     cfg.Name,
			rxQueues: cfg.RxQueues,
			txQueues: cfg.TxQueues,
			mtu:      cfg.MTU,
		}
		port.logger = logger.With(
			zap.Uint16("port", port.id),
			zap.String("name", port.name),
		)
		portTable[id] = port
		port.logger.Info("port created",
			zap.Int("rx-queues", port.rxQueues),
			zap.Int("tx-queues", port.txQueues),
		)
		return port, nil
	}
	return nil, errors.New("no free port ID")
}

// FromID returns the Port with the given ID, or nil.
func FromID(id uint16) *Port {
	if int(id) >= len(portTable) {
		return nil
	}
	return portTable[id]
}

// Find locates a Port by name.
func Find(name string) *Port {
	for _, port := range portTable {
		if port != nil && port.name == name {
			return port
		}
	}
	return nil
}

// List returns all ports in ascending ID order.
func List() (list []*Port) {
	for _, port := range portTable {
		if port != nil {
			list = append(list, port)
		}
	}
	return list
}

// ID returns the port ID.
func (port *Port) ID() uint16 {
	return port.id
}

// Name returns the port name.
func (port *Port) Name() string {
	return port.name
}

// RxQueues returns the number of configured rx-queues.
func (port *Port) RxQueues() int {
	return port.rxQueues
}

// TxQueues returns the number of configured tx-queues.
func (port *Port) TxQueues() int {
	return port.txQueues
}

// MTU returns the configured MTU.
func (port *Port) MTU() int {
	return port.mtu
}

// MacAddr returns the port MAC address, if known.
func (port *Port) MacAddr() net.HardwareAddr {
	return port.macAddr
}

// Close removes the port record and releases its ID.
func (port *Port) Close() error {
	portTable[port.id] = nil
	port.logger.Info("port closed")
	return nil
}

// Provider exposes port facts consumed by queue assignment validation.
type Provider struct{}

// Ports enumerates configured port IDs in ascending order.
func (Provider) Ports() (list []uint16) {
	for _, port := range List() {
		list = append(list, port.ID())
	}
	return list
}

// RxQueueCount returns the number of configured rx-queues of a port.
func (Provider) RxQueueCount(id uint16) (int, bool) {
	port := FromID(id)
	if port == nil {
		return 0, false
	}
	return port.rxQueues, true
}

// TxQueueCount returns the number of configured tx-queues of a port.
func (Provider) TxQueueCount(id uint16) (int, bool) {
	port := FromID(id)
	if port == nil {
		return 0, false
	}
	return port.txQueues, true
}
