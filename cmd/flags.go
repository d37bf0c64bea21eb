package cmd

import (
	"github.com/spf13/pflag"
)

// defaultSize is the mount-wide reported size (bytes) assigned to any entry
// that does not set "size" explicitly, matching the original program's
// DEFAULT_SIZE of 10 KiB.
const defaultSize = 10 * 1024

// flags holds the values bound to rootCmd's flag set. Unlike the teacher's
// viper-backed cfg.Config, this system's flag surface is small enough to
// bind directly with pflag and read back as plain fields.
type flags struct {
	configFile  string
	debug       bool
	logFile     string
	size        int64
	metricsAddr string
}

func bindFlags(fs *pflag.FlagSet, f *flags) {
	fs.StringVarP(&f.configFile, "config", "c", "", "path to the configuration file (required)")
	fs.BoolVarP(&f.debug, "debug", "d", false, "enable debugging output on startup")
	fs.StringVarP(&f.logFile, "log", "l", "", "append log records to the given file")
	fs.Int64VarP(&f.size, "size", "s", defaultSize, "default reported size in bytes for entries that don't set one")
	fs.StringVar(&f.metricsAddr, "metrics-addr", "", "address to serve Prometheus metrics on (disabled if empty)")
}
