// Package gridio reads and writes grids in the plain-text ASCII map
// format ('.' free, '#' blocked) used by the CBS reference implementation's
// own demo program, one row per line.
package gridio

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/elektrokombinacija/mapf-cbs/internal/grid"
)

// Read parses an ASCII grid from r, one non-empty line per row.
func Read(r io.Reader) (*grid.Grid, error) {
	var rows []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if line == "" {
			continue
		}
		rows = append(rows, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return grid.Parse(rows)
}

// ReadFile opens path and parses it as an ASCII grid.
func ReadFile(path string) (*grid.Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}

// Write renders g back to its ASCII form, one row per line.
func Write(w io.Writer, g *grid.Grid) error {
	bw := bufio.NewWriter(w)
	for _, row := range g.Rows() {
		if _, err := bw.WriteString(row); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}
