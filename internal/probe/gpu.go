package probe

import (
	"bufio"
	"context"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// gpuAttribution cross-references pid (and, best-effort, its descendants)
// against `nvidia-smi`'s compute-apps listing, reporting total used memory
// and the device indices any of those processes hold memory on. No NVML
// Go binding appears anywhere in the retrieval pack, so this shells out to
// nvidia-smi instead. Absence of nvidia-smi, or any failure running it, is
// not an error: it simply means no GPU data.
func gpuAttribution(leaderPID int) (memBytes uint64, gpuIDs []int, err error) {
	pids := map[int]bool{leaderPID: true}
	if children, cerr := DescendantPIDs(leaderPID); cerr == nil {
		for _, c := range children {
			pids[c] = true
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, "nvidia-smi",
		"--query-compute-apps=pid,gpu_uuid,used_memory",
		"--format=csv,noheader,nounits")
	out, runErr := cmd.Output()
	if runErr != nil {
		return 0, nil, nil // nvidia-smi absent or no GPU: not an error
	}

	uuidToIndex := gpuIndexByUUID(ctx)

	seenIndices := make(map[int]bool)
	scanner := bufio.NewScanner(strings.NewReader(string(out)))
	for scanner.Scan() {
		fields := strings.Split(scanner.Text(), ",")
		if len(fields) < 3 {
			continue
		}
		pidField := strings.TrimSpace(fields[0])
		pid, perr := strconv.Atoi(pidField)
		if perr != nil || !pids[pid] {
			continue
		}
		uuid := strings.TrimSpace(fields[1])
		usedMB, merr := strconv.ParseUint(strings.TrimSpace(fields[2]), 10, 64)
		if merr == nil {
			memBytes += usedMB * 1024 * 1024
		}
		if idx, ok := uuidToIndex[uuid]; ok {
			seenIndices[idx] = true
		}
	}

	for idx := range seenIndices {
		gpuIDs = append(gpuIDs, idx)
	}
	return memBytes, gpuIDs, nil
}

// gpuIndexByUUID maps each device's UUID to its device index, so
// gpuAttribution can report real device indices rather than an arbitrary
// count. A failed or absent nvidia-smi call yields an empty map, which
// just means no index can be attributed.
func gpuIndexByUUID(ctx context.Context) map[string]int {
	cmd := exec.CommandContext(ctx, "nvidia-smi", "--query-gpu=index,uuid", "--format=csv,noheader")
	out, err := cmd.Output()
	if err != nil {
		return nil
	}

	m := make(map[string]int)
	scanner := bufio.NewScanner(strings.NewReader(string(out)))
	for scanner.Scan() {
		fields := strings.Split(scanner.Text(), ",")
		if len(fields) < 2 {
			continue
		}
		idx, perr := strconv.Atoi(strings.TrimSpace(fields[0]))
		if perr != nil {
			continue
		}
		m[strings.TrimSpace(fields[1])] = idx
	}
	return m
}
