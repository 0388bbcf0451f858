package eal

import (
	"errors"
	"fmt"
	"sort"

	"github.com/routegraph/routegraph/core/hwinfo"
	"github.com/routegraph/routegraph/core/logging"
	"go.uber.org/zap"
)

var logger = logging.New("eal")

// Config selects the logical cores used by the process.
type Config struct {
	// Main is the logical core reserved for control operations.
	// Default is the lowest-numbered allowed core.
	Main int `json:"main,omitempty"`

	// Workers are the logical cores available to dataplane threads.
	// Default is every allowed core except Main.
	Workers []int `json:"workers,omitempty"`
}

var (
	mainLCore LCore
	workers   []LCore
	usable    [MaxLCoreID + 1]bool
	numaOf    [MaxLCoreID + 1]int
)

// Init validates cfg against hardware information and records the lcore layout.
// It must be invoked exactly once before launching any thread.
func Init(cfg Config) error {
	if mainLCore.Valid() {
		return errors.New("eal.Init called twice")
	}

	cores := hwinfo.Default.Cores()
	if len(cores) == 0 {
		return errors.New("no usable CPU cores")
	}
	byID := cores.ByID()
	for _, core := range cores {
		if core.ID <= MaxLCoreID {
			numaOf[core.ID] = core.NumaSocket
		}
	}

	ids := make([]int, 0, len(cores))
	for id := range byID {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	main := cfg.Main
	if cfg.Main == 0 {
		main = ids[0]
	}
	if _, ok := byID[main]; !ok || main > MaxLCoreID {
		return fmt.Errorf("main lcore %d is not an allowed CPU", main)
	}
	mainLCore = LCoreFromID(main)

	workerIDs := cfg.Workers
	if len(workerIDs) == 0 {
		for _, id := range ids {
			if id != main {
				workerIDs = append(workerIDs, id)
			}
		}
	}
	for _, id := range workerIDs {
		if _, ok := byID[id]; !ok || id > MaxLCoreID {
			return fmt.Errorf("worker lcore %d is not an allowed CPU", id)
		}
		if id == main {
			return fmt.Errorf("worker lcore %d overlaps with main lcore", id)
		}
		usable[id] = true
		workers = append(workers, LCoreFromID(id))
	}
	if len(workers) == 0 {
		return errors.New("no worker lcores")
	}

	logger.Info("lcores initialized",
		mainLCore.ZapField("main"),
		zap.Ints("workers", workerIDs),
	)
	return nil
}

// MainLCore returns the lcore reserved for control operations.
func MainLCore() LCore {
	return mainLCore
}

// Workers returns lcores available to dataplane threads.
func Workers() []LCore {
	return workers
}

// Provider exposes CPU facts consumed by queue assignment validation.
type Provider struct{}

// IsMain reports whether cpu is the control lcore.
func (Provider) IsMain(cpu int) bool {
	return mainLCore.Valid() && mainLCore.ID() == cpu
}

// IsUsable reports whether cpu is online and allowed for dataplane work.
func (Provider) IsUsable(cpu int) bool {
	return cpu >= 0 && cpu <= MaxLCoreID && usable[cpu]
}
