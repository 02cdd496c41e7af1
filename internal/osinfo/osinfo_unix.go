//go:build unix

package osinfo

import (
	"strings"

	"golang.org/x/sys/unix"
)

func describe() string {
	var uts unix.Utsname
	if err := unix.Uname(&uts); err != nil {
		return compose(distro(), "", "")
	}

	sysname := unix.ByteSliceToString(uts.Sysname[:])
	release := unix.ByteSliceToString(uts.Release[:])
	machine := unix.ByteSliceToString(uts.Machine[:])

	return compose(distro(), strings.TrimSpace(sysname+" "+release), machine)
}
