package system

import (
	"fmt"
	"os"
	"runtime"

	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

// Stats is a snapshot of host and process resource usage.
type Stats struct {
	HostTotalMB  uint64
	HostUsedPct  float64
	ProcessRSSMB uint64
	ProcessCPU   float64 // percent since process start
	Goroutines   int
	HeapAllocMB  uint64
}

const mb = 1024 * 1024

// Snapshot collects Stats. Host or process figures that cannot be read stay zero
// and the first such error is returned together with the partial snapshot.
func Snapshot() (Stats, error) {
	var s Stats
	var firstErr error

	if vm, err := mem.VirtualMemory(); err == nil {
		s.HostTotalMB = vm.Total / mb
		s.HostUsedPct = vm.UsedPercent
	} else {
		firstErr = fmt.Errorf("host memory: %w", err)
	}

	if p, err := process.NewProcess(int32(os.Getpid())); err == nil {
		if info, err := p.MemoryInfo(); err == nil {
			s.ProcessRSSMB = info.RSS / mb
		} else if firstErr == nil {
			firstErr = fmt.Errorf("process memory: %w", err)
		}
		if cpu, err := p.CPUPercent(); err == nil {
			s.ProcessCPU = cpu
		} else if firstErr == nil {
			firstErr = fmt.Errorf("process cpu: %w", err)
		}
	} else if firstErr == nil {
		firstErr = fmt.Errorf("process: %w", err)
	}

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	s.HeapAllocMB = ms.HeapAlloc / mb
	s.Goroutines = runtime.NumGoroutine()

	return s, firstErr
}

func (s Stats) String() string {
	return fmt.Sprintf("RAM хоста: %d MB (%.1f%%) | RSS: %d MB | Heap: %d MB | CPU: %.1f%% | Goroutines: %d",
		s.HostTotalMB, s.HostUsedPct, s.ProcessRSSMB, s.HeapAllocMB, s.ProcessCPU, s.Goroutines)
}
