// Package sysinfo describes the machine a benchmark runs on. Only the
// worker count feeds the harness; the strings are passed through to
// reports untouched.
package sysinfo

import (
	"context"
	"os"
	"runtime"
	"strings"

	"github.com/klauspost/cpuid/v2"
	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/host"
	"github.com/tklauser/numcpus"
)

// Info is the machine description attached to benchmark records.
type Info struct {
	Workers  int    `json:"workers"`
	CPUModel string `json:"cpu_model"`
	OS       string `json:"os_info"`
	Hostname string `json:"hostname"`
}

// Provider supplies machine information.
type Provider interface {
	Info(ctx context.Context) (Info, error)
}

// Host inspects the current machine.
type Host struct{}

// Info never fails: every field falls back to what the Go runtime knows.
func (Host) Info(ctx context.Context) (Info, error) {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}

	return Info{
		Workers:  Workers(),
		CPUModel: cpuModel(ctx),
		OS:       osInfo(ctx),
		Hostname: hostname,
	}, nil
}

// Static is a fixed Provider.
type Static Info

func (s Static) Info(context.Context) (Info, error) { return Info(s), nil }

// Workers returns the number of online logical CPUs.
func Workers() int {
	n, err := numcpus.GetOnline()
	if err != nil || n < 1 {
		return runtime.NumCPU()
	}

	return n
}

func cpuModel(ctx context.Context) string {
	infos, err := cpu.InfoWithContext(ctx)
	if err == nil {
		for _, info := range infos {
			if model := strings.TrimSpace(info.ModelName); model != "" {
				return model
			}
		}
	}

	if brand := strings.TrimSpace(cpuid.CPU.BrandName); brand != "" {
		return brand
	}

	return runtime.GOARCH
}

func osInfo(ctx context.Context) string {
	info, err := host.InfoWithContext(ctx)
	if err != nil {
		return runtime.GOOS
	}

	desc := strings.TrimSpace(info.Platform + " " + info.PlatformVersion)
	if desc == "" {
		return info.OS
	}

	return desc
}
