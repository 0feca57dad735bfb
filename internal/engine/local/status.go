package local

import (
	"regexp"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/hdiniz/ariactl/internal/engine"
)

// aria2 console status lines look like:
//
//	[#2089b0 400.0KiB/33.2MiB(1%) CN:1 DL:115.7KiB ETA:4m51s]
//	[#2089b0 33.2MiB/33.2MiB(100%) CN:0 SD:4 UL:12KiB]
//	[#2089b0 128KiB/0B CN:8 DL:0B]
//
// The percent group and the trailing key:value fields are all optional;
// during the magnet metadata phase the total is 0B and no percent is shown.
var (
	statusLineRE = regexp.MustCompile(`\[#([0-9a-zA-Z]+)\s+([\d.]+[KMGTP]?i?B)/([\d.]+[KMGTP]?i?B)(?:\((?:[\d.]+)%\))?((?:\s+[A-Z]+:[^\s\]]+)*)\]`)
	statusKVRE   = regexp.MustCompile(`([A-Z]+):([^\s\]]+)`)
)

// ParseStatusLine extracts a Status snapshot from one line of aria2 console
// output. The second return value is false for lines that are not status
// lines; malformed size tokens also reject the line rather than producing a
// half-filled snapshot.
func ParseStatusLine(line string) (engine.Status, bool) {
	m := statusLineRE.FindStringSubmatch(line)
	if m == nil {
		return engine.Status{}, false
	}

	completed, err := humanize.ParseBytes(m[2])
	if err != nil {
		return engine.Status{}, false
	}

	total, err := humanize.ParseBytes(m[3])
	if err != nil {
		return engine.Status{}, false
	}

	st := engine.Status{
		GID:       m[1],
		Completed: completed,
		Total:     total,
	}

	for _, kv := range statusKVRE.FindAllStringSubmatch(m[4], -1) {
		switch kv[1] {
		case "CN":
			if n, err := strconv.Atoi(kv[2]); err == nil {
				st.Connections = n
			}
		case "SD":
			if n, err := strconv.Atoi(kv[2]); err == nil {
				st.Seeders = n
			}
		case "DL":
			if n, err := humanize.ParseBytes(kv[2]); err == nil {
				st.Speed = n
			}
		case "UL":
			if n, err := humanize.ParseBytes(kv[2]); err == nil {
				st.UploadSpeed = n
			}
		case "ETA":
			if d, err := time.ParseDuration(kv[2]); err == nil {
				st.ETA = d
			}
		}
	}

	return st, true
}
