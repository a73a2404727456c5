package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/load"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/process"
)

func (t *Terminal) handlePs(args []string) (string, int) {
	procs, err := process.Processes()
	if err != nil {
		return fmt.Sprintf("ps: %v", err), 1
	}

	lines := []string{fmt.Sprintf("%6s %-20s %6s %6s", "PID", "NAME", "CPU%", "MEM%")}
	for _, p := range procs {
		name, err := p.Name()
		if err != nil {
			// Processes that vanished or deny access are skipped.
			continue
		}
		cpu, _ := p.CPUPercent()
		memPct, _ := p.MemoryPercent()
		lines = append(lines, fmt.Sprintf("%6d %-20s %6.1f %6.1f", p.Pid, name, cpu, memPct))
	}
	return strings.Join(lines, "\n"), 0
}

func (t *Terminal) handleTop(args []string) (string, int) {
	procs, err := process.Processes()
	if err != nil {
		return fmt.Sprintf("top: %v", err), 1
	}

	type procStat struct {
		pid   int32
		name  string
		cpu   float64
		memMB float64
	}

	var stats []procStat
	for _, p := range procs {
		name, err := p.Name()
		if err != nil {
			continue
		}
		cpu, _ := p.CPUPercent()
		var memMB float64
		if mi, err := p.MemoryInfo(); err == nil && mi != nil {
			memMB = float64(mi.RSS) / 1024 / 1024
		}
		stats = append(stats, procStat{pid: p.Pid, name: name, cpu: cpu, memMB: memMB})
	}

	sort.Slice(stats, func(i, j int) bool { return stats[i].cpu > stats[j].cpu })
	if len(stats) > 10 {
		stats = stats[:10]
	}

	lines := []string{"PID    NAME                 CPU%   MEM(MB)"}
	for _, s := range stats {
		lines = append(lines, fmt.Sprintf("%6d %-20s %6.1f %8.1f", s.pid, s.name, s.cpu, s.memMB))
	}
	return strings.Join(lines, "\n"), 0
}

func (t *Terminal) handleKill(args []string) (string, int) {
	if len(args) == 0 {
		return "kill: missing operand", 1
	}

	pid, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Sprintf("kill: %s: invalid process ID", args[0]), 1
	}

	p, err := process.NewProcess(int32(pid))
	if err != nil {
		return fmt.Sprintf("kill: %s: No such process", args[0]), 1
	}
	if err := p.Terminate(); err != nil {
		if os.IsPermission(err) {
			return fmt.Sprintf("kill: %s: Permission denied", args[0]), 1
		}
		return fmt.Sprintf("kill: %s: %v", args[0], err), 1
	}
	return "", 0
}

func (t *Terminal) handleDf(args []string) (string, int) {
	partitions, err := disk.Partitions(false)
	if err != nil {
		return fmt.Sprintf("df: %v", err), 1
	}

	lines := []string{"Filesystem     1K-blocks     Used Available Use% Mounted on"}
	for _, part := range partitions {
		usage, err := disk.Usage(part.Mountpoint)
		if err != nil {
			continue
		}
		total := usage.Total / 1024
		used := usage.Used / 1024
		avail := usage.Free / 1024
		var pct float64
		if total > 0 {
			pct = float64(used) / float64(total) * 100
		}
		lines = append(lines, fmt.Sprintf("%-15s %8d %8d %8d %4.0f%% %s",
			part.Device, total, used, avail, pct, part.Mountpoint))
	}
	return strings.Join(lines, "\n"), 0
}

func (t *Terminal) handleDu(args []string) (string, int) {
	path := "."
	if len(args) > 0 {
		path = args[0]
	}
	root := t.resolve(path)

	if _, err := os.Stat(root); err != nil {
		return fmt.Sprintf("du: %s: No such file or directory", path), 1
	}

	var total int64
	filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if info, err := d.Info(); err == nil {
			total += info.Size()
		}
		return nil
	})

	return fmt.Sprintf("%.1fM\t%s", float64(total)/(1024*1024), path), 0
}

func (t *Terminal) handleFree(args []string) (string, int) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return fmt.Sprintf("free: %v", err), 1
	}
	swap, err := mem.SwapMemory()
	if err != nil {
		return fmt.Sprintf("free: %v", err), 1
	}

	lines := []string{
		"              total        used        free      shared  buff/cache   available",
		fmt.Sprintf("Mem:    %11d %11d %11d %11d %11d %11d",
			vm.Total, vm.Used, vm.Free, vm.Shared, vm.Buffers+vm.Cached, vm.Available),
		fmt.Sprintf("Swap:   %11d %11d %11d %11d %11d %11d",
			swap.Total, swap.Used, swap.Free, uint64(0), uint64(0), swap.Free),
	}
	return strings.Join(lines, "\n"), 0
}

func (t *Terminal) handleUptime(args []string) (string, int) {
	bootTime, err := host.BootTime()
	if err != nil {
		return fmt.Sprintf("uptime: %v", err), 1
	}

	up := time.Since(time.Unix(int64(bootTime), 0))
	days := int(up.Hours()) / 24
	hours := int(up.Hours()) % 24
	minutes := int(up.Minutes()) % 60

	// Load averages are unavailable on some platforms; report zeros there.
	load1, load5, load15 := 0.0, 0.0, 0.0
	if avg, err := load.Avg(); err == nil {
		load1, load5, load15 = avg.Load1, avg.Load5, avg.Load15
	}

	return fmt.Sprintf("up %d days, %02d:%02d, load average: %.2f, %.2f, %.2f",
		days, hours, minutes, load1, load5, load15), 0
}
