package main

import (
	"flag"
	"os"

	"github.com/pkg/profile"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hailam/chesscore/internal/attacks"
	"github.com/hailam/chesscore/internal/engine"
	"github.com/hailam/chesscore/internal/storage"
	"github.com/hailam/chesscore/internal/uci"
)

var (
	cpuprofile = flag.String("cpuprofile", "", "write a cpu profile into this directory")
	logLevel   = flag.String("log-level", "info", "log level (trace, debug, info, warn, error)")
	sliders    = flag.String("sliders", "auto", "sliding attack strategy (auto, magic, ray)")
	dataDir    = flag.String("data", "", "directory for persisted options (default: platform data dir)")
	noStore    = flag.Bool("no-store", false, "do not load or persist options")
)

func main() {
	flag.Parse()

	// stdout carries the protocol, logs go to stderr
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	level, err := zerolog.ParseLevel(*logLevel)
	if err != nil {
		log.Fatal().Err(err).Msg("bad log level")
	}
	zerolog.SetGlobalLevel(level)

	if profilePath := *cpuprofile; profilePath != "" || os.Getenv("CPUPROFILE") != "" {
		if profilePath == "" {
			profilePath = os.Getenv("CPUPROFILE")
		}
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(profilePath), profile.Quiet).Stop()
		log.Info().Str("dir", profilePath).Msg("cpu profiling enabled")
	}

	if err := attacks.Use(*sliders); err != nil {
		log.Fatal().Err(err).Msg("select slider strategy")
	}
	log.Debug().Str("sliders", attacks.Strategy()).Msg("attack tables ready")

	opts := engine.DefaultOptions()
	var store *storage.Store
	if !*noStore {
		store = openStore()
		if store != nil {
			defer store.Close()
			if saved, found, err := store.LoadOptions(); err != nil {
				log.Warn().Err(err).Msg("using default options")
			} else if found {
				opts = saved
				log.Info().Msg("loaded saved options")
			}
		}
	}

	eng := engine.NewContext(opts, log.Logger)

	var optionStore uci.OptionStore
	if store != nil {
		optionStore = store
	}
	protocol := uci.New(eng, optionStore, os.Stdout, log.Logger)
	if err := protocol.Run(os.Stdin); err != nil {
		log.Error().Err(err).Msg("uci loop")
	}
}

// openStore opens the option database, returning nil when it is not
// available. The engine runs fine without it.
func openStore() *storage.Store {
	dir := *dataDir
	if dir == "" {
		var err error
		if dir, err = storage.DatabaseDir(); err != nil {
			log.Warn().Err(err).Msg("no data directory, options will not persist")
			return nil
		}
	}

	store, err := storage.Open(dir, log.Logger)
	if err != nil {
		log.Warn().Err(err).Msg("options will not persist")
		return nil
	}
	if first, err := store.IsFirstLaunch(); err == nil && first {
		log.Info().Str("dir", dir).Msg("created option store")
		if err := store.MarkFirstLaunchComplete(); err != nil {
			log.Warn().Err(err).Msg("mark first launch")
		}
	}
	return store
}
