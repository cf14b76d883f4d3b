package envfile

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	kerrors "github.com/PolarWolf314/totara/internal/errors"
)

func TestParse_WellFormed(t *testing.T) {
	input := "DB_URI=postgres://x\nAPI_KEY=abc123\n"

	file, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(file.Entries) != 2 {
		t.Fatalf("Expected 2 entries, got: %d", len(file.Entries))
	}
	if file.Entries[0].Name != "DB_URI" || file.Entries[0].Value != "postgres://x" {
		t.Errorf("Unexpected first entry: %+v", file.Entries[0])
	}
	if file.Entries[1].Name != "API_KEY" || file.Entries[1].Value != "abc123" {
		t.Errorf("Unexpected second entry: %+v", file.Entries[1])
	}
	if file.Malformed != 0 {
		t.Errorf("Expected 0 malformed lines, got: %d", file.Malformed)
	}
}

func TestParse_SkipsCommentsAndBlanks(t *testing.T) {
	input := "# leading comment\n\nNAME=value\n\n# trailing comment\n"

	file, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(file.Entries) != 1 {
		t.Fatalf("Expected 1 entry, got: %d", len(file.Entries))
	}
	if file.Malformed != 0 {
		t.Errorf("Comments and blanks must not count as malformed, got: %d", file.Malformed)
	}
}

func TestParse_SplitsOnFirstEquals(t *testing.T) {
	file, err := Parse(strings.NewReader("CONN=key=value;other=thing\n"))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(file.Entries) != 1 {
		t.Fatalf("Expected 1 entry, got: %d", len(file.Entries))
	}
	if file.Entries[0].Value != "key=value;other=thing" {
		t.Errorf("Value must keep everything after the first '=', got: %q", file.Entries[0].Value)
	}
}

func TestParse_TrimsNameAndValue(t *testing.T) {
	file, err := Parse(strings.NewReader("  SPACED  =  padded value  \n"))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(file.Entries) != 1 {
		t.Fatalf("Expected 1 entry, got: %d", len(file.Entries))
	}
	if file.Entries[0].Name != "SPACED" {
		t.Errorf("Expected trimmed name, got: %q", file.Entries[0].Name)
	}
	if file.Entries[0].Value != "padded value" {
		t.Errorf("Expected trimmed value, got: %q", file.Entries[0].Value)
	}
}

func TestParse_MalformedLinesSkipped(t *testing.T) {
	input := "NO_EQUALS_SIGN\n=missing-name\nMISSING_VALUE=\nOK=yes\n   =   \n"

	file, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(file.Entries) != 1 {
		t.Fatalf("Expected 1 entry, got: %d", len(file.Entries))
	}
	if file.Entries[0].Name != "OK" {
		t.Errorf("Expected surviving entry OK, got: %q", file.Entries[0].Name)
	}
	if file.Malformed != 4 {
		t.Errorf("Expected 4 malformed lines, got: %d", file.Malformed)
	}
}

func TestParse_MixedFile(t *testing.T) {
	// One valid line, a blank, a comment, and a line with no '=' must yield
	// exactly one entry.
	input := "DB_URI=postgres://x\n\n# comment\nBAD_LINE\n"

	file, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(file.Entries) != 1 {
		t.Fatalf("Expected exactly 1 entry, got: %d", len(file.Entries))
	}
	if file.Entries[0].Name != "DB_URI" || file.Entries[0].Value != "postgres://x" {
		t.Errorf("Unexpected entry: %+v", file.Entries[0])
	}
	if file.Malformed != 1 {
		t.Errorf("Expected 1 malformed line, got: %d", file.Malformed)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.env"))
	if err == nil {
		t.Fatal("Expected an error for a missing file")
	}
	if !errors.Is(err, kerrors.ErrEnvFileNotFound) {
		t.Errorf("Expected ErrEnvFileNotFound, got: %v", err)
	}
}

func TestLoad_ReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("TEST=value\n"), 0600); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	file, err := Load(path)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(file.Entries) != 1 || file.Entries[0].Name != "TEST" {
		t.Errorf("Unexpected parse result: %+v", file)
	}
}
