// Package osinfo describes the host operating system for crash reports.
package osinfo

import (
	"runtime"
	"strings"

	"github.com/shirou/gopsutil/v3/host"
)

// Describe returns a one-line, human-readable description of the running
// operating system, e.g. "ubuntu 24.04 (Linux 6.8.0-45-generic) [x86_64]".
// It never fails: missing details are left out.
func Describe() string {
	return describe()
}

// fallback is used when the platform offers nothing better.
func fallback() string {
	return runtime.GOOS + " [" + runtime.GOARCH + "]"
}

// distro returns the platform name and version reported by gopsutil, or ""
// when the platform cannot be identified.
func distro() string {
	platform, _, version, err := host.PlatformInformation()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(platform + " " + version)
}

// compose joins the known parts as "distro (kernel) [machine]".
func compose(distro, kernel, machine string) string {
	var sb strings.Builder
	switch {
	case distro != "" && kernel != "":
		sb.WriteString(distro + " (" + kernel + ")")
	case distro != "":
		sb.WriteString(distro)
	case kernel != "":
		sb.WriteString(kernel)
	default:
		return fallback()
	}
	if machine != "" {
		sb.WriteString(" [" + machine + "]")
	}
	return sb.String()
}
