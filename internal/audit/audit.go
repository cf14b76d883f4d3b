package audit

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/PolarWolf314/totara/internal/configs"
)

// Entry represents a single audit log entry.
type Entry struct {
	Timestamp string `json:"ts"` // RFC3339 with microseconds.
	Operation string `json:"op"` // Operation name.

	// Optional fields depending on operation.
	Store       string `json:"store,omitempty"`        // Sink used for push.
	Repo        string `json:"repo,omitempty"`         // Target repository.
	File        string `json:"file,omitempty"`         // Definition file pushed.
	Uploaded    int    `json:"uploaded,omitempty"`     // Secrets uploaded.
	Failed      int    `json:"failed,omitempty"`       // Secrets that failed.
	Malformed   int    `json:"malformed,omitempty"`    // Lines skipped as malformed.
	ProjectName string `json:"project_name,omitempty"` // For init.
	ProjectUUID string `json:"project_uuid,omitempty"` // For init.
}

// Log appends an entry to the audit log.
// If logging fails it is silently skipped; a push should not fail because
// its audit trail could not be written. Secret values never appear here.
func Log(entry Entry) {
	if entry.Timestamp == "" {
		entry.Timestamp = time.Now().UTC().Format("2006-01-02T15:04:05.000000Z")
	}

	logPath := LogPath()
	if logPath == "" {
		// Project not initialized, skip logging.
		return
	}

	// #nosec G306 -- the audit log holds no secret material.
	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return
	}
	defer f.Close()

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}

	_, _ = f.Write(append(data, '\n'))
}

// LogPath returns the path to the audit log file.
// Returns empty string if the project is not initialized.
func LogPath() string {
	projectPath := configs.ProjectTotaraSettings.ProjectPath
	if projectPath == "" {
		return ""
	}
	return filepath.Join(projectPath, ".totara", "audit.jsonl")
}
