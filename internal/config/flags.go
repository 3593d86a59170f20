package config

import (
	"github.com/spf13/pflag"
)

// Flags holds the command-line options. Only flags the user actually set
// override values from the config file and the environment.
type Flags struct {
	ConfigPath string
	PrintID    bool

	set *pflag.FlagSet

	serverURL       string
	tick            string
	dataDir         string
	identityBackend string
	iface           string
	logLevel        string
	logFormat       string
}

func NewFlags(name string) *Flags {
	f := &Flags{set: pflag.NewFlagSet(name, pflag.ContinueOnError)}
	f.set.Usage = func() {}

	f.set.StringVarP(&f.ConfigPath, "config", "c", "", "config file (yaml, toml or json)")
	f.set.BoolVar(&f.PrintID, "print-id", false, "print the stored device id and exit")
	f.set.StringVarP(&f.serverURL, "server", "s", DefaultServerURL, "server base URL")
	f.set.StringVarP(&f.tick, "tick", "t", "10", "seconds (or Go duration) to sleep in the main loop")
	f.set.StringVar(&f.dataDir, "data-dir", "", "existing writable directory holding the device id")
	f.set.StringVar(&f.identityBackend, "identity-backend", BackendFile, "identity storage backend: file or sqlite")
	f.set.StringVar(&f.iface, "interface", DefaultInterface, "network interface reported in heartbeats")
	f.set.StringVar(&f.logLevel, "log-level", "info", "log level: debug, info, warn, error")
	f.set.StringVar(&f.logFormat, "log-format", "text", "log format: text or json")

	return f
}

func (f *Flags) Parse(args []string) error {
	return f.set.Parse(args)
}

func (f *Flags) Usage() string {
	return f.set.FlagUsages()
}

func (f *Flags) Apply(c *Config) error {
	strs := map[string]struct {
		dst *string
		val string
	}{
		"server":           {&c.ServerURL, f.serverURL},
		"data-dir":         {&c.DataDir, f.dataDir},
		"identity-backend": {&c.IdentityBackend, f.identityBackend},
		"interface":        {&c.Interface, f.iface},
		"log-level":        {&c.LogLevel, f.logLevel},
		"log-format":       {&c.LogFormat, f.logFormat},
	}
	for name, s := range strs {
		if f.set.Changed(name) {
			*s.dst = s.val
		}
	}

	if f.set.Changed("tick") {
		d, err := ParseDuration(f.tick)
		if err != nil {
			return err
		}
		c.Tick = Duration(d)
	}

	return nil
}
