//go:build !unix

package osinfo

import (
	"runtime"

	"github.com/shirou/gopsutil/v3/host"
)

func describe() string {
	info, err := host.Info()
	if err != nil {
		return fallback()
	}
	kernel := info.OS
	if info.KernelVersion != "" {
		kernel += " " + info.KernelVersion
	}
	machine := info.KernelArch
	if machine == "" {
		machine = runtime.GOARCH
	}
	return compose(distro(), kernel, machine)
}
