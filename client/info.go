package client

import (
	"runtime"

	"github.com/samber/lo"
	"github.com/shirou/gopsutil/host"

	"github.com/wtaylor/mumble-telegram-bot/control"
)

const clientReleaseName = "mumble-telegram-bot:0.0.1"

// clientVersionNumber packs 1.5.18 as major<<16 | minor<<8 | patch, the
// protocol's 32-bit version encoding.
const clientVersionNumber = uint32(1<<16 | 5<<8 | 18)

// clientVersion builds the identity packet sent as the first handshake step.
// The OS fields come from host probing; if that fails we still identify with
// the compile-time platform rather than aborting the connect.
func clientVersion() *control.Version {
	osName := runtime.GOOS
	osVersion := "unknown"
	if info, err := host.Info(); err == nil {
		osName = info.Platform
		osVersion = info.PlatformVersion
	}

	return &control.Version{
		Version:   lo.ToPtr(clientVersionNumber),
		Release:   lo.ToPtr(clientReleaseName),
		OS:        lo.ToPtr(osName),
		OSVersion: lo.ToPtr(osVersion),
	}
}
