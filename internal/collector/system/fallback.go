package system

import (
	"bufio"
	"os"
	"runtime"
	"strings"
)

const osReleasePath = "/etc/os-release"

// fallbackInfo builds what it can without gopsutil: the hostname, the
// platform from an os-release file, and the build target.
func fallbackInfo(osRelease string) HostInfo {
	info := HostInfo{
		Hostname: "unknown",
		OS:       runtime.GOOS,
		Arch:     runtime.GOARCH,
	}
	if name, err := os.Hostname(); err == nil {
		info.Hostname = name
	}

	release := readOSRelease(osRelease)
	info.Platform = strings.TrimSpace(release["ID"] + " " + release["VERSION_ID"])

	return info
}

func readOSRelease(path string) map[string]string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	fields := make(map[string]string)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		key, value, ok := strings.Cut(scanner.Text(), "=")
		if !ok || strings.HasPrefix(key, "#") {
			continue
		}
		fields[key] = strings.Trim(value, `"'`)
	}

	return fields
}
