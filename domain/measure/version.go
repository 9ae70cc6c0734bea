package measure

import (
	"database/sql/driver"
	"fmt"
	"strconv"
	"strings"
	"time"

	"ethnicityfacts/domain/core"
)

// Version is a major.minor edition number such as "1.0"
type Version struct {
	Major int
	Minor int
}

// InitialVersion is the version of a measure's first page
var InitialVersion = Version{Major: 1, Minor: 0}

// UpdateKind selects how a new version is numbered
type UpdateKind string

const (
	MinorUpdate UpdateKind = "minor"
	MajorUpdate UpdateKind = "major"
)

// ParseVersion parses "major.minor"
func ParseVersion(s string) (Version, error) {
	major, minor, ok := strings.Cut(strings.TrimSpace(s), ".")
	if !ok {
		return Version{}, fmt.Errorf("%w: version %q is not major.minor", core.ErrInvalidInput, s)
	}
	maj, err := strconv.Atoi(major)
	if err != nil || maj < 1 {
		return Version{}, fmt.Errorf("%w: bad major version in %q", core.ErrInvalidInput, s)
	}
	mnr, err := strconv.Atoi(minor)
	if err != nil || mnr < 0 {
		return Version{}, fmt.Errorf("%w: bad minor version in %q", core.ErrInvalidInput, s)
	}
	return Version{Major: maj, Minor: mnr}, nil
}

// ParseUpdateKind validates "minor" or "major"
func ParseUpdateKind(s string) (UpdateKind, error) {
	switch k := UpdateKind(strings.ToLower(s)); k {
	case MinorUpdate, MajorUpdate:
		return k, nil
	}
	return "", fmt.Errorf("%w: update kind must be minor or major, got %q", core.ErrInvalidInput, s)
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// NextMinor returns the next minor edition, 1.2 -> 1.3
func (v Version) NextMinor() Version {
	return Version{Major: v.Major, Minor: v.Minor + 1}
}

// NextMajor returns the next major edition, 1.2 -> 2.0
func (v Version) NextMajor() Version {
	return Version{Major: v.Major + 1}
}

// Next numbers the version following v for the given kind of update
func (v Version) Next(kind UpdateKind) Version {
	if kind == MajorUpdate {
		return v.NextMajor()
	}
	return v.NextMinor()
}

// IsMinorUpdate reports whether v is a minor edition (x.y with y > 0)
func (v Version) IsMinorUpdate() bool {
	return v.Minor > 0
}

// IsMajorUpdate reports whether v is a later major edition (x.0 with x > 1)
func (v Version) IsMajorUpdate() bool {
	return v.Minor == 0 && v.Major > 1
}

// Less orders versions numerically, so 1.10 sorts after 1.9
func (v Version) Less(other Version) bool {
	if v.Major != other.Major {
		return v.Major < other.Major
	}
	return v.Minor < other.Minor
}

// Value stores a version as its "major.minor" text
func (v Version) Value() (driver.Value, error) {
	return v.String(), nil
}

// Scan reads a version stored as text
func (v *Version) Scan(src interface{}) error {
	var s string
	switch t := src.(type) {
	case string:
		s = t
	case []byte:
		s = string(t)
	default:
		return fmt.Errorf("cannot scan %T into Version", src)
	}
	parsed, err := ParseVersion(s)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// MarshalText lets versions appear as "1.0" in JSON
func (v Version) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText parses "1.0" from JSON
func (v *Version) UnmarshalText(text []byte) error {
	parsed, err := ParseVersion(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// NewVersion starts the next edition of a published version as a draft copy
func (v *MeasureVersion) NewVersion(kind UpdateKind, user string, now time.Time) (*MeasureVersion, error) {
	if !v.IsPublished() {
		return nil, fmt.Errorf("%w: %s is %s", core.ErrNotPublished, v.Version, v.Status)
	}
	return &MeasureVersion{
		ID:          core.NewID(),
		MeasureID:   v.MeasureID,
		Version:     v.Version.Next(kind),
		Title:       v.Title,
		Summary:     v.Summary,
		Description: v.Description,
		Status:      StatusDraft,
		CreatedBy:   user,
		UpdatedBy:   user,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}
