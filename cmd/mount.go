package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/jacobsa/fuse"
	"github.com/jacobsa/timeutil"

	"github.com/Smattr/execfs/internal/config"
	"github.com/Smattr/execfs/internal/entry"
	execfs "github.com/Smattr/execfs/internal/fs"
	"github.com/Smattr/execfs/internal/logger"
	"github.com/Smattr/execfs/internal/metrics"
	"github.com/Smattr/execfs/internal/mount"
	"github.com/Smattr/execfs/internal/pipeio"
)

// splitFuseArgs mirrors the original program's parse_args: it scans argv
// left to right for the first occurrence of "-f"/"--fuse" and splits there.
// Everything before the split goes to this program's own flag set;
// everything after is handed verbatim to the bridge's mount-option parser
// (internal/mount). A "-?"/"--help" or "-v"/"--version" token encountered
// before that split short-circuits the scan, matching getopt_long's
// immediate-exit behavior for those options.
func splitFuseArgs(argv []string) (ours, fuseTail []string, action string) {
	for i, tok := range argv {
		switch tok {
		case "-?", "--help":
			return nil, nil, "help"
		case "-v", "--version":
			return nil, nil, "version"
		case "-f", "--fuse":
			return argv[:i], argv[i+1:], ""
		}
	}
	return argv, nil, ""
}

// registerSIGINTHandler arranges for SIGINT to trigger an unmount of
// mountPoint, so the process can be torn down by Ctrl-C the way the original
// program's foreground FUSE loop was.
func registerSIGINTHandler(log *logger.Logger, mountPoint string) {
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt)

	go func() {
		for range signalChan {
			log.Info("received SIGINT, attempting to unmount")
			if err := fuse.Unmount(mountPoint); err != nil {
				log.Error("failed to unmount in response to SIGINT", "error", err)
				continue
			}
			log.Info("unmounted in response to SIGINT")
			return
		}
	}()
}

// runMount implements the flag-validated body of rootCmd: load the
// configuration, mint a logger and clock, build the entry table and
// callback surface, and mount it at the point named in fuseTail.
func runMount(f *flags, fuseTail []string) error {
	if f.configFile == "" {
		return fmt.Errorf("-c/--config is required")
	}

	minLevel := logger.LevelWarning
	if f.debug {
		minLevel = logger.LevelDebug
	}

	var log *logger.Logger
	if f.logFile != "" {
		var err error
		log, err = logger.Open(f.logFile, minLevel)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
	} else {
		log = logger.New(os.Stderr, minLevel)
	}

	entries, err := config.Load(f.configFile)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	table := entry.NewTable(entries)

	args, err := mount.Parse(fuseTail)
	if err != nil {
		return fmt.Errorf("parsing fuse arguments: %w", err)
	}

	if cur, max, rerr := pipeio.DescriptorLimit(); rerr == nil {
		log.Debug("descriptor limit", "soft", cur, "hard", max)
		if want := uint64(len(entries))*2 + 16; cur < want {
			log.Warn("soft descriptor limit may be too low for this many entries", "soft", cur, "entries", len(entries))
		}
	}

	var reg *metrics.Registry
	if f.metricsAddr != "" {
		reg = metrics.NewRegistry()
		if err := reg.Serve(f.metricsAddr); err != nil {
			return fmt.Errorf("serving metrics: %w", err)
		}
		defer reg.Shutdown(context.Background())
	}

	server, err := execfs.NewServer(&execfs.ServerConfig{
		Clock:       timeutil.RealClock(),
		Table:       table,
		Uid:         uint32(os.Geteuid()),
		Gid:         uint32(os.Getegid()),
		DefaultSize: f.size,
		Logger:      log,
		Metrics:     reg,
	})
	if err != nil {
		return fmt.Errorf("building file system: %w", err)
	}

	log.Info("mounting", "mount_point", args.MountPoint)
	mfs, err := fuse.Mount(args.MountPoint, server, &args.Config)
	if err != nil {
		return fmt.Errorf("mount: %w", err)
	}

	registerSIGINTHandler(log, mfs.Dir())

	if err := mfs.Join(context.Background()); err != nil {
		return fmt.Errorf("serving file system: %w", err)
	}

	return nil
}
