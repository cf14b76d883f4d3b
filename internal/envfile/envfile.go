package envfile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	kerrors "github.com/PolarWolf314/totara/internal/errors"
)

// Entry is a single NAME=VALUE pair parsed from a definition file.
type Entry struct {
	Name  string
	Value string
}

// File holds the result of scanning a definition file.
type File struct {
	// Entries are the well-formed pairs, in file order.
	Entries []Entry

	// Malformed counts non-comment, non-blank lines that did not yield a
	// usable pair. These are skipped without an error.
	Malformed int
}

// Parse scans line-oriented NAME=VALUE text.
//
// Blank lines and lines starting with # are ignored. Each remaining line is
// split on the first '=' and both sides are trimmed; lines where either side
// ends up empty, or that contain no '=' at all, are counted as malformed and
// skipped.
func Parse(r io.Reader) (*File, error) {
	file := &File{}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		idx := strings.IndexByte(line, '=')
		if idx < 0 {
			file.Malformed++
			continue
		}

		name := strings.TrimSpace(line[:idx])
		value := strings.TrimSpace(line[idx+1:])
		if name == "" || value == "" {
			file.Malformed++
			continue
		}

		file.Entries = append(file.Entries, Entry{Name: name, Value: value})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning definition file: %w", err)
	}

	return file, nil
}

// Load opens and parses the definition file at path.
// Returns ErrEnvFileNotFound if the file does not exist.
func Load(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", kerrors.ErrEnvFileNotFound, path)
		}
		return nil, fmt.Errorf("opening definition file: %w", err)
	}
	defer f.Close()

	return Parse(f)
}
