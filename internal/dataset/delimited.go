package dataset

import (
	"bufio"
	"fmt"
	"os"
	"runtime"
	"sort"
	"strings"
	"sync"
)

type indexedLine struct {
	n    int
	line string
}

type indexedRow struct {
	n   int
	row Row
}

// LoadDelimited reads a header-first text file split on delim, such as the
// pipe separated exports produced by appraisal districts. Cells are not
// quoted. Row order follows line order.
func LoadDelimited(path string, delim rune) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: open %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024) // allow very long lines

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("dataset: read %s: %w", path, err)
		}
		return nil, fmt.Errorf("dataset: file %s is empty", path)
	}
	sep := string(delim)
	header := cleanHeader(strings.Split(scanner.Text(), sep))

	// Pipeline: producer (I/O) -> workers (parsing) -> collector
	linesCh := make(chan indexedLine, 4096)
	rowsCh := make(chan indexedRow, 4096)

	workers := runtime.NumCPU()
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for l := range linesCh {
				rowsCh <- indexedRow{n: l.n, row: zipRow(header, strings.Split(l.line, sep))}
			}
		}()
	}

	var collected []indexedRow
	done := make(chan struct{})
	go func() {
		for r := range rowsCh {
			collected = append(collected, r)
		}
		close(done)
	}()

	n := 0
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		linesCh <- indexedLine{n: n, line: line}
		n++
	}
	close(linesCh)
	wg.Wait()
	close(rowsCh)
	<-done

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("dataset: read %s: %w", path, err)
	}

	sort.Slice(collected, func(i, j int) bool { return collected[i].n < collected[j].n })
	rows := make([]Row, len(collected))
	for i, r := range collected {
		rows[i] = r.row
	}
	return rows, nil
}
