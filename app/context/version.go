package context

import (
	"fmt"
	"regexp"
	"runtime"
	"runtime/debug"
	"strconv"
	"strings"
)

// The semantic version of the application, used when no VCS information is
// available.
const version = "0.1.0"

var (
	// Output of `git describe --tags --dirty`, set at build time with
	// -ldflags "-X go.hackfix.me/hoard/app/context.vcsVersion=..."
	vcsVersion string

	versionRx = regexp.MustCompile(`^v?(0|[1-9]\d*)\.(0|[1-9]\d*)\.(0|[1-9]\d*)`)
	shaRx     = regexp.MustCompile(`^g[0-9a-f]{6,}$`)
)

// VersionInfo stores app version information.
type VersionInfo struct {
	Semantic    string
	Commit      string
	TagDistance int // number of commits since the latest tag
	Dirty       bool
	goInfo      string
}

// GetVersion returns the app version. The VCS version set at build time has
// precedence over the VCS information embedded by the Go toolchain.
func GetVersion() *VersionInfo {
	vi := &VersionInfo{
		goInfo: fmt.Sprintf("%s, %s/%s", runtime.Version(), runtime.GOOS, runtime.GOARCH),
	}

	if vcsVersion != "" {
		vi.parseDescribe(vcsVersion)
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		vi.fromBuildSettings(bi.Settings)
	}
	if vi.Semantic == "" {
		vi.Semantic = version
	}

	return vi
}

// String returns the full version information.
func (vi *VersionInfo) String() string {
	if vi.Commit == "" {
		return fmt.Sprintf("v%s (%s)", vi.Semantic, vi.goInfo)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "v%s (commit/%s", vi.Semantic, vi.Commit)
	if vi.TagDistance > 0 {
		fmt.Fprintf(&sb, "-%d", vi.TagDistance)
	}
	if vi.Dirty {
		sb.WriteString("-dirty")
	}
	fmt.Fprintf(&sb, ", %s)", vi.goInfo)

	return sb.String()
}

// parseDescribe parses the output of `git describe`, e.g.
// v1.2.3-4-gabcdef0-dirty.
func (vi *VersionInfo) parseDescribe(desc string) {
	verParts := []string{}
	for _, part := range strings.Split(desc, "-") {
		switch {
		case shaRx.MatchString(part):
			vi.Commit = strings.TrimPrefix(part, "g")
		case part == "dirty":
			vi.Dirty = true
		default:
			if distance, err := strconv.Atoi(part); err == nil {
				vi.TagDistance = distance
				continue
			}
			verParts = append(verParts, part)
		}
	}

	ver := strings.Join(verParts, "-")
	if versionRx.MatchString(ver) {
		vi.Semantic = strings.TrimPrefix(ver, "v")
	} else if vi.Commit == "" {
		vi.Commit = ver
	}
}

func (vi *VersionInfo) fromBuildSettings(settings []debug.BuildSetting) {
	for _, s := range settings {
		switch s.Key {
		case "vcs.revision":
			if vi.Commit == "" {
				vi.Commit = s.Value[:min(len(s.Value), 10)]
			}
		case "vcs.modified":
			if s.Value == "true" {
				vi.Dirty = true
			}
		}
	}
}
