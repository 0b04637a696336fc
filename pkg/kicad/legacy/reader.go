package legacy

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// ReadLines reads a legacy library, dropping blank lines and comment lines
// (lines starting with '#'). Trailing carriage returns are removed.
func ReadLines(r io.Reader) ([]string, error) {
	var lines []string

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read legacy library: %w", err)
	}

	return lines, nil
}

// ReadFile reads the lines of a legacy library file
func ReadFile(filename string) ([]string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return ReadLines(file)
}

// SplitDefinitions cuts the lines of a legacy library into one slice per
// DEF ... ENDDEF block. Lines outside any block are dropped. A block that
// is not closed by ENDDEF runs to the end of the input.
func SplitDefinitions(lines []string) [][]string {
	var blocks [][]string
	var cur []string
	inside := false

	for _, line := range lines {
		first := firstField(line)
		switch {
		case first == "DEF":
			if inside {
				blocks = append(blocks, cur)
			}
			cur = []string{line}
			inside = true
		case first == "ENDDEF":
			if inside {
				cur = append(cur, line)
				blocks = append(blocks, cur)
				cur = nil
				inside = false
			}
		case inside:
			cur = append(cur, line)
		}
	}
	if inside {
		blocks = append(blocks, cur)
	}

	return blocks
}

func firstField(line string) string {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
