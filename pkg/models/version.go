package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is a (major, minor, micro) database/model version triple.
type Version struct {
	Major int
	Minor int
	Micro int
}

// DefaultVersion is the baseline version compiled into the code.
var DefaultVersion = Version{0, 0, 1}

// ParseVersion parses a "(major, minor, micro)" string.
func ParseVersion(raw string) (Version, error) {
	trimmed := strings.TrimSpace(raw)
	trimmed = strings.TrimPrefix(trimmed, "(")
	trimmed = strings.TrimSuffix(trimmed, ")")
	parts := strings.Split(trimmed, ",")
	if len(parts) != 3 {
		return Version{}, fmt.Errorf("malformed version %q: want 3 components, got %d", raw, len(parts))
	}

	nums := make([]int, 3)
	for i, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return Version{}, fmt.Errorf("malformed version %q: %w", raw, err)
		}
		nums[i] = n
	}
	return Version{Major: nums[0], Minor: nums[1], Micro: nums[2]}, nil
}

// String renders the version in "(major, minor, micro)" form.
func (v Version) String() string {
	return fmt.Sprintf("(%d, %d, %d)", v.Major, v.Minor, v.Micro)
}

// Increment returns a copy with the micro component bumped. Major and minor
// never change here.
func (v Version) Increment() Version {
	return Version{Major: v.Major, Minor: v.Minor, Micro: v.Micro + 1}
}

// Less reports whether v precedes other in semantic order.
func (v Version) Less(other Version) bool {
	if v.Major != other.Major {
		return v.Major < other.Major
	}
	if v.Minor != other.Minor {
		return v.Minor < other.Minor
	}
	return v.Micro < other.Micro
}

// IncrementVersionString parses, bumps the micro component and re-renders a
// version string. The error is explicit: a malformed version is a
// configuration problem the caller must handle.
func IncrementVersionString(raw string) (string, error) {
	v, err := ParseVersion(raw)
	if err != nil {
		return "", err
	}
	return v.Increment().String(), nil
}
