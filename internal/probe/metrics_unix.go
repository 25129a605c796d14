//go:build !windows

package probe

import (
	gopsproc "github.com/shirou/gopsutil/v4/process"
)

type treeSample struct {
	cpuPercent float64
	rssBytes   uint64
}

// treeStats sums CPU% and RSS across the leader and every descendant at
// any depth. Each process's CPU% is gopsutil's CPUPercent, its CPU time
// averaged over that process's whole lifetime, not a short recent
// sample. Grounded on provisr's internal/metrics use of
// gopsutil's per-PID CPUPercent/MemoryInfo, generalized here from a single
// PID to a whole process tree.
func treeStats(pid int) (treeSample, error) {
	leader, err := gopsproc.NewProcess(int32(pid))
	if err != nil {
		return treeSample{}, err
	}

	procs := append([]*gopsproc.Process{leader}, descendantProcesses(leader)...)

	var total treeSample
	for _, proc := range procs {
		if cpu, err := proc.CPUPercent(); err == nil {
			total.cpuPercent += cpu
		}
		if mem, err := proc.MemoryInfo(); err == nil && mem != nil {
			total.rssBytes += mem.RSS
		}
	}
	return total, nil
}

// descendantProcesses walks the full tree rooted at proc, not just its
// direct children, since gopsutil's own Children() only goes one level
// deep.
func descendantProcesses(proc *gopsproc.Process) []*gopsproc.Process {
	children, err := proc.Children()
	if err != nil {
		return nil
	}
	out := make([]*gopsproc.Process, 0, len(children))
	for _, child := range children {
		out = append(out, child)
		out = append(out, descendantProcesses(child)...)
	}
	return out
}

// leaderUser returns the effective username of the leader process, or ""
// if it cannot be determined.
func leaderUser(pid int) string {
	proc, err := gopsproc.NewProcess(int32(pid))
	if err != nil {
		return ""
	}
	u, err := proc.Username()
	if err != nil {
		return ""
	}
	return u
}

// DescendantPIDs enumerates the full process tree rooted at pid, at any
// depth, used by the Stop Controller's best-effort signal-everything walk.
func DescendantPIDs(pid int) ([]int, error) {
	leader, err := gopsproc.NewProcess(int32(pid))
	if err != nil {
		return nil, err
	}
	procs := descendantProcesses(leader)
	out := make([]int, 0, len(procs))
	for _, p := range procs {
		out = append(out, int(p.Pid))
	}
	return out, nil
}
