package network

import "regexp"

// Matches both the legacy net-tools form ("inet addr:10.0.1.22  Bcast:...")
// and the current one ("inet 10.0.1.22  netmask ...").
var inetAddr = regexp.MustCompile(`\binet (?:addr:)?(\S+)`)

func parseInetAddr(lines []string) (string, bool) {
	for _, line := range lines {
		if m := inetAddr.FindStringSubmatch(line); m != nil {
			return m[1], true
		}
	}
	return "", false
}
