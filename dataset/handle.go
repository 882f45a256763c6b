package dataset

import (
	"fmt"
	"strconv"
	"strings"
)

// Handle identifies a Kaggle dataset, optionally pinned to a version.
// Version 0 means "whatever is current".
type Handle struct {
	Owner   string
	Dataset string
	Version int
}

// ParseHandle accepts "owner/dataset" or "owner/dataset/versions/N"
func ParseHandle(s string) (Handle, error) {
	parts := strings.Split(strings.Trim(s, "/"), "/")

	switch len(parts) {
	case 2:
	case 4:
		if parts[2] != "versions" {
			return Handle{}, fmt.Errorf("invalid dataset handle %q: expected owner/dataset/versions/N", s)
		}
	default:
		return Handle{}, fmt.Errorf("invalid dataset handle %q: expected owner/dataset[/versions/N]", s)
	}

	h := Handle{Owner: parts[0], Dataset: parts[1]}
	if h.Owner == "" || h.Dataset == "" {
		return Handle{}, fmt.Errorf("invalid dataset handle %q: empty owner or dataset", s)
	}

	if len(parts) == 4 {
		v, err := strconv.Atoi(parts[3])
		if err != nil || v <= 0 {
			return Handle{}, fmt.Errorf("invalid dataset handle %q: bad version %q", s, parts[3])
		}
		h.Version = v
	}

	return h, nil
}

func (h Handle) String() string {
	if h.Version > 0 {
		return fmt.Sprintf("%s/%s/versions/%d", h.Owner, h.Dataset, h.Version)
	}
	return h.Owner + "/" + h.Dataset
}
