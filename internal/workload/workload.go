// Package workload reads the two-file text format of a simulation run.
//
// The processes file has one "id, priority, quota" line per process. The files
// file has the strategy code (1 contiguous, 2 linked, 3 indexed), the block
// count, the number n of preloaded files, n "name, start, size" lines and then
// one "process, kind, name[, size]" line per operation, kind being 0 for
// create and 1 for delete. Blank lines and lines starting with '#' are
// ignored.
package workload

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	alloc "github.com/lance6716/file-allocation-demo"
	"github.com/lance6716/file-allocation-demo/internal/config"
)

type line struct {
	no     int
	fields []string
}

func readLines(r io.Reader) ([]line, error) {
	var lines []line
	scanner := bufio.NewScanner(r)
	no := 0
	for scanner.Scan() {
		no++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Split(text, ",")
		for i := range fields {
			fields[i] = strings.TrimSpace(fields[i])
		}
		lines = append(lines, line{no: no, fields: fields})
	}
	return lines, errors.WithStack(scanner.Err())
}

func (l line) intField(i int, what string) (int, error) {
	if i >= len(l.fields) {
		return 0, errors.Errorf("line %d: missing %s", l.no, what)
	}
	n, err := strconv.Atoi(l.fields[i])
	if err != nil {
		return 0, errors.Errorf("line %d: invalid %s: %q", l.no, what, l.fields[i])
	}
	return n, nil
}

func (l line) expectFields(lo, hi int) error {
	if len(l.fields) < lo || len(l.fields) > hi {
		return errors.Errorf("line %d: expected %d to %d fields, got %d", l.no, lo, hi, len(l.fields))
	}
	return nil
}

// ParseProcesses reads a processes file.
func ParseProcesses(r io.Reader) ([]config.ProcessConfig, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, err
	}

	procs := make([]config.ProcessConfig, 0, len(lines))
	for _, l := range lines {
		if err := l.expectFields(3, 3); err != nil {
			return nil, err
		}
		var p config.ProcessConfig
		if p.ID, err = l.intField(0, "process id"); err != nil {
			return nil, err
		}
		if p.Priority, err = l.intField(1, "priority"); err != nil {
			return nil, err
		}
		if p.Quota, err = l.intField(2, "quota"); err != nil {
			return nil, err
		}
		procs = append(procs, p)
	}
	return procs, nil
}

// ParseFiles reads a files file.
func ParseFiles(r io.Reader) (config.DiskConfig, []config.OperationConfig, error) {
	var disk config.DiskConfig
	lines, err := readLines(r)
	if err != nil {
		return disk, nil, err
	}
	if len(lines) < 3 {
		return disk, nil, errors.Errorf("expected strategy, block count and preload count, got %d lines", len(lines))
	}

	strategy, err := lines[0].intField(0, "allocation strategy")
	if err != nil {
		return disk, nil, err
	}
	disk.Strategy = alloc.AllocationStrategy(strategy)
	if disk.BlockCount, err = lines[1].intField(0, "block count"); err != nil {
		return disk, nil, err
	}
	preloadCnt, err := lines[2].intField(0, "preloaded file count")
	if err != nil {
		return disk, nil, err
	}
	if preloadCnt < 0 || 3+preloadCnt > len(lines) {
		return disk, nil, errors.Errorf("line %d: %d preloaded files announced, %d lines left",
			lines[2].no, preloadCnt, len(lines)-3)
	}

	for _, l := range lines[3 : 3+preloadCnt] {
		if err := l.expectFields(3, 3); err != nil {
			return disk, nil, err
		}
		p := config.PreloadConfig{Name: l.fields[0]}
		if p.Start, err = l.intField(1, "start block"); err != nil {
			return disk, nil, err
		}
		if p.Size, err = l.intField(2, "size"); err != nil {
			return disk, nil, err
		}
		disk.Preload = append(disk.Preload, p)
	}

	var ops []config.OperationConfig
	for _, l := range lines[3+preloadCnt:] {
		if err := l.expectFields(3, 4); err != nil {
			return disk, nil, err
		}
		op := config.OperationConfig{File: l.fields[2]}
		if op.Process, err = l.intField(0, "process id"); err != nil {
			return disk, nil, err
		}
		kind, err := l.intField(1, "operation kind")
		if err != nil {
			return disk, nil, err
		}
		op.Kind = alloc.OperationKind(kind)
		if len(l.fields) == 4 && l.fields[3] != "" {
			if op.Size, err = l.intField(3, "size"); err != nil {
				return disk, nil, err
			}
		}
		ops = append(ops, op)
	}
	return disk, ops, nil
}

// Load reads both files into a validated Config with default logging settings.
func Load(processesPath, filesPath string) (*config.Config, error) {
	cfg := &config.Config{}

	f, err := os.Open(processesPath)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	cfg.Processes, err = ParseProcesses(f)
	_ = f.Close()
	if err != nil {
		return nil, errors.Wrapf(err, "processes file %s", processesPath)
	}

	f, err = os.Open(filesPath)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	cfg.Disk, cfg.Operations, err = ParseFiles(f)
	_ = f.Close()
	if err != nil {
		return nil, errors.Wrapf(err, "files file %s", filesPath)
	}

	config.ApplyDefaults(cfg)
	if err := config.Validate(cfg); err != nil {
		return nil, errors.Wrap(err, "workload validation failed")
	}
	return cfg, nil
}
