// Package version holds the build version of the settings cycler and checks
// version constraints declared by bindings files.
package version

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Set at build time with -ldflags "-X settingscycler/internal/version.Version=...".
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// ProductName is printed in front of version strings.
const ProductName = "Settings Cycler"

// Info is the parsed build information.
type Info struct {
	Version   string          `json:"version"`
	GitCommit string          `json:"gitCommit"`
	BuildDate string          `json:"buildDate"`
	GoVersion string          `json:"goVersion"`
	Platform  string          `json:"platform"`
	SemVer    *semver.Version `json:"-"`
}

// GetVersion returns the raw version string.
func GetVersion() string {
	return Version
}

func parse() (*semver.Version, error) {
	sv, err := semver.NewVersion(Version)
	if err != nil {
		return nil, fmt.Errorf("invalid semantic version '%s': %w", Version, err)
	}
	return sv, nil
}

// ValidateVersion reports whether Version is a semantic version.
func ValidateVersion() error {
	_, err := parse()
	return err
}

// GetInfo returns the build information with the parsed version.
func GetInfo() (*Info, error) {
	sv, err := parse()
	if err != nil {
		return nil, err
	}
	return &Info{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
		SemVer:    sv,
	}, nil
}

// GetBaseVersion returns major.minor.patch, or Version unchanged if it does not parse.
func GetBaseVersion() string {
	sv, err := parse()
	if err != nil {
		return Version
	}
	return fmt.Sprintf("%d.%d.%d", sv.Major(), sv.Minor(), sv.Patch())
}

// GetBuildMetadata returns the part of the version after "+".
func GetBuildMetadata() string {
	sv, err := parse()
	if err != nil {
		return ""
	}
	return sv.Metadata()
}

// IsPrerelease reports whether Version carries a prerelease tag.
func IsPrerelease() bool {
	sv, err := parse()
	return err == nil && sv.Prerelease() != ""
}

// IsDevelopment reports whether the binary was built without release ldflags.
func IsDevelopment() bool {
	return GitCommit == "unknown" || BuildDate == "unknown"
}

// GetFormattedVersion returns the one-line banner, e.g.
// "Settings Cycler v1.0.0, commit abcdef1, built 2026-01-02".
func GetFormattedVersion() string {
	if err := ValidateVersion(); err != nil {
		return fmt.Sprintf("%s v%s (invalid version)", ProductName, Version)
	}

	parts := []string{fmt.Sprintf("%s v%s", ProductName, Version)}
	if GitCommit != "unknown" && GitCommit != "" {
		commit := GitCommit
		if len(commit) > 7 {
			commit = commit[:7]
		}
		parts = append(parts, "commit "+commit)
	}
	if BuildDate != "unknown" && BuildDate != "" {
		parts = append(parts, "built "+BuildDate)
	}
	return strings.Join(parts, ", ")
}

// GetDetailedVersion returns multi-line build details for `cycler version --verbose`.
func GetDetailedVersion() string {
	info, err := GetInfo()
	if err != nil {
		return fmt.Sprintf("%s v%s (error: %v)", ProductName, Version, err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s v%s\n", ProductName, info.Version)
	fmt.Fprintf(&b, "Git Commit: %s\n", info.GitCommit)
	fmt.Fprintf(&b, "Build Date: %s\n", info.BuildDate)
	if meta := info.SemVer.Metadata(); meta != "" {
		fmt.Fprintf(&b, "Build Metadata: %s\n", meta)
	}
	switch {
	case IsDevelopment():
		b.WriteString("Channel: development\n")
	case IsPrerelease():
		b.WriteString("Channel: prerelease\n")
	default:
		b.WriteString("Channel: release\n")
	}
	fmt.Fprintf(&b, "Go Version: %s\n", info.GoVersion)
	fmt.Fprintf(&b, "Platform: %s", info.Platform)
	return b.String()
}

// Satisfies reports whether the running version meets constraint, e.g. ">= 0.1.0".
// Prerelease builds only match constraints that name a prerelease.
func Satisfies(constraint string) (bool, error) {
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return false, fmt.Errorf("invalid version constraint '%s': %w", constraint, err)
	}
	sv, err := parse()
	if err != nil {
		return false, err
	}
	return c.Check(sv), nil
}

// SetBuildInfo overrides the build variables, for tests.
func SetBuildInfo(version, gitCommit, buildDate string) {
	Version = version
	GitCommit = gitCommit
	BuildDate = buildDate
}
