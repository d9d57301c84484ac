package mapper

import (
	"fmt"

	"kbbridge/internal/model"
	"kbbridge/internal/remote"
)

// remoteDocumentStatus maps the remote parse-status vocabulary onto the
// local lifecycle states. UNSTART means uploaded remotely but never parsed.
var remoteDocumentStatus = map[string]model.DocumentStatus{
	"UNSTART": model.DocumentStatusUploaded,
	"RUNNING": model.DocumentStatusProcessing,
	"CANCEL":  model.DocumentStatusPending,
	"DONE":    model.DocumentStatusCompleted,
	"FAIL":    model.DocumentStatusFailed,
}

// ApplyDocument copies document payload fields onto a local document.
// ChunkCount is deliberately left alone: it records how many chunks were
// reconciled locally and is only written by the chunk sync commit.
func ApplyDocument(p remote.Payload, d *model.Document) Outcome {
	var o Outcome
	setRemoteID(p, &o, &d.RemoteID)
	setString(p, &o, &d.Name, "Name", "name")
	setString(p, &o, &d.Filename, "Filename", "filename", "location")
	setString(p, &o, &d.Type, "Type", "type")
	setInt64(p, &o, &d.Size, "Size", "size")
	setFloatPtr(p, &o, &d.Progress, "Progress", "progress")
	setString(p, &o, &d.ProgressMsg, "ProgressMsg", "progress_msg", "progressMsg")

	if key, v, ok := lookup(p, "status", "parse_status", "run"); ok {
		s, isStr := v.(string)
		if !isStr {
			o.skip(key, fmt.Sprintf("expected string, got %T", v))
		} else if mapped, known := remoteDocumentStatus[s]; known {
			d.Status = mapped
			o.applied("Status")
		} else {
			o.skip(key, "unknown remote status "+s)
		}
	}
	return o
}
