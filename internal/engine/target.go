package engine

import (
	"fmt"
	"os"
	"strings"
)

// TargetKind discriminates the three input shapes aria2 accepts from us.
type TargetKind string

const (
	KindMagnet      TargetKind = "magnet"
	KindURL         TargetKind = "url"
	KindTorrentFile TargetKind = "torrent"
)

// Target is a classified download input.
type Target struct {
	Input string
	Kind  TargetKind
}

// ClassifyTarget decides how an input should be handed to aria2: magnet
// links and HTTP(S) URLs are passed through as URIs, an existing local file
// is treated as a .torrent. Anything else is an InvalidTargetError.
func ClassifyTarget(input string) (Target, error) {
	input = strings.TrimSpace(input)

	switch {
	case input == "":
		return Target{}, &InvalidTargetError{Input: input, Reason: "empty input"}
	case strings.HasPrefix(input, "magnet:"):
		return Target{Input: input, Kind: KindMagnet}, nil
	case strings.HasPrefix(input, "http://"), strings.HasPrefix(input, "https://"):
		return Target{Input: input, Kind: KindURL}, nil
	}

	info, err := os.Stat(input)
	if err != nil {
		if os.IsNotExist(err) {
			return Target{}, &InvalidTargetError{
				Input:  input,
				Reason: "must be a magnet link, an http(s) URL or an existing .torrent file",
			}
		}

		return Target{}, fmt.Errorf("failed to stat input file: %w", err)
	}

	if info.IsDir() {
		return Target{}, &InvalidTargetError{Input: input, Reason: "input is a directory, not a torrent file"}
	}

	return Target{Input: input, Kind: KindTorrentFile}, nil
}
