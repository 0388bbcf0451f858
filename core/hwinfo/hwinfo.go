// Package hwinfo gathers hardware information.
package hwinfo

import (
	"github.com/routegraph/routegraph/core/logging"
)

var logger = logging.New("hwinfo")

// CoreInfo describes a logical CPU core.
type CoreInfo struct {
	// ID is the logical core ID.
	ID int
	// NumaSocket is the NUMA socket of the core.
	NumaSocket int
}

// Cores contains information about CPU cores.
type Cores []CoreInfo

// ByNumaSocket classifies cores as map[NumaSocket]Cores.
func (cores Cores) ByNumaSocket() (m map[int]Cores) {
	m = map[int]Cores{}
	for _, core := range cores {
		m[core.NumaSocket] = append(m[core.NumaSocket], core)
	}
	return m
}

// ByID converts to map[ID]CoreInfo.
func (cores Cores) ByID() (m map[int]CoreInfo) {
	m = map[int]CoreInfo{}
	for _, core := range cores {
		m[core.ID] = core
	}
	return m
}

// MaxNumaSocket determines the maximum NUMA socket.
func (cores Cores) MaxNumaSocket() int {
	maxSocket := -1
	for _, core := range cores {
		if core.NumaSocket > maxSocket {
			maxSocket = core.NumaSocket
		}
	}
	return maxSocket
}

// Provider provides information about hardware.
type Provider interface {
	// Cores provides information about CPU cores available to this process.
	Cores() Cores
}

// Default is the default Provider implementation.
var Default Provider = &procinfoProvider{}
