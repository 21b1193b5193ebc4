// Package deps reports whether the external tools and assets kslingo shells
// out to are present.
package deps

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Requirement defines an external dependency kslingo relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Path        string
	Detail      string
}

// AudioRequirements lists the binaries audio rendering needs. ffprobe is only
// required when output verification is enabled.
func AudioRequirements(ffmpeg, ffprobe string, verify bool) []Requirement {
	return []Requirement{
		{Name: "FFmpeg", Command: ffmpeg, Description: "Mixes silence, speech and the end marker"},
		{Name: "FFprobe", Command: ffprobe, Description: "Verifies rendered files", Optional: !verify},
	}
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		resolved, err := exec.LookPath(cmd)
		if err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		status.Path = resolved
		results = append(results, status)
	}
	return results
}

// CheckAsset reports on an optional file asset. An empty path is available
// with fallback as its detail.
func CheckAsset(name, path, description, fallback string) Status {
	status := Status{
		Name:        name,
		Command:     path,
		Description: description,
		Optional:    true,
	}
	path = strings.TrimSpace(path)
	if path == "" {
		status.Available = true
		status.Detail = fallback
		return status
	}
	info, err := os.Stat(path)
	switch {
	case err != nil:
		status.Detail = fmt.Sprintf("file %q not readable: %v", path, err)
	case info.IsDir():
		status.Detail = fmt.Sprintf("%q is a directory", path)
	default:
		status.Available = true
		status.Path = path
	}
	return status
}

// Missing returns the required dependencies that are unavailable.
func Missing(statuses []Status) []Status {
	var missing []Status
	for _, status := range statuses {
		if !status.Available && !status.Optional {
			missing = append(missing, status)
		}
	}
	return missing
}
