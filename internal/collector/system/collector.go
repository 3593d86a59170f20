// Package system
package system

import (
	"context"

	"github.com/shirou/gopsutil/v4/host"
)

type HostInfo struct {
	Hostname      string `json:"hostname"`
	OS            string `json:"os"`
	Platform      string `json:"platform"`
	KernelVersion string `json:"kernel_version"`
	Arch          string `json:"arch"`
	UptimeSeconds uint64 `json:"uptime_seconds"`
}

type infoFunc func(ctx context.Context) (*host.InfoStat, error)

type Collector struct {
	info      infoFunc
	osRelease string
}

func NewCollector() *Collector {
	return &Collector{info: host.InfoWithContext, osRelease: osReleasePath}
}

// Collect gathers host facts. It falls back to the hostname and
// /etc/os-release when the platform query fails.
func (c *Collector) Collect(ctx context.Context) (HostInfo, error) {
	stat, err := c.info(ctx)
	if err != nil {
		return fallbackInfo(c.osRelease), err
	}

	return HostInfo{
		Hostname:      stat.Hostname,
		OS:            stat.OS,
		Platform:      stat.Platform + " " + stat.PlatformVersion,
		KernelVersion: stat.KernelVersion,
		Arch:          stat.KernelArch,
		UptimeSeconds: stat.Uptime,
	}, nil
}
