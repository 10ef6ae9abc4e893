package pointcloud

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// WriteASC writes the cloud as a CloudCompare-compatible .asc text
// file: one "X Y Z" line per sample, "#" comment header.
func WriteASC(c *Cloud, path string) error {
	if err := c.Validate(); err != nil {
		return fmt.Errorf("asc export: %w", err)
	}
	if c.Len() == 0 {
		return fmt.Errorf("asc export: %w", ErrEmptyCloud)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("asc export: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "# Exported points\n")
	fmt.Fprintf(w, "# Format: X Y Z\n")
	for i := 0; i < c.Len(); i++ {
		fmt.Fprintf(w, "%.6f %.6f %.6f\n", c.X[i], c.Y[i], c.Z[i])
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("asc export: %w", err)
	}
	return nil
}

// ReadASC parses an .asc point file. Lines starting with "#" and blank
// lines are skipped; the first three whitespace-separated fields of
// each remaining line are taken as X, Y, Z and any trailing columns
// (intensity, classification) are ignored.
func ReadASC(r io.Reader) (*Cloud, error) {
	c := &Cloud{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 3 {
			return nil, fmt.Errorf("asc line %d: expected at least 3 columns, got %d", lineNo, len(fields))
		}
		var coords [3]float64
		for j := 0; j < 3; j++ {
			v, err := strconv.ParseFloat(fields[j], 64)
			if err != nil {
				return nil, fmt.Errorf("asc line %d column %d: %w", lineNo, j+1, err)
			}
			coords[j] = v
		}
		c.Append(coords[0], coords[1], coords[2])
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("asc read: %w", err)
	}
	if c.Len() == 0 {
		return nil, fmt.Errorf("asc read: %w", ErrEmptyCloud)
	}
	return c, nil
}

// ReadASCFile opens and parses an .asc point file from disk.
func ReadASCFile(path string) (*Cloud, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("asc read: %w", err)
	}
	defer f.Close()
	return ReadASC(f)
}
