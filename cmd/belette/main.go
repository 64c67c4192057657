package main

import (
	"flag"
	"log"
	"os"
	"runtime/pprof"

	"github.com/bftjoe/Belette-fork/internal/engine"
	"github.com/bftjoe/Belette-fork/internal/storage"
	"github.com/bftjoe/Belette-fork/internal/uci"
)

var (
	hashMB     = flag.Int("hash", 0, "transposition table size in MB (0 = use saved setting)")
	noStore    = flag.Bool("no-store", false, "do not persist options and search statistics")
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
)

func main() {
	flag.Parse()

	profilePath := *cpuprofile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
	}

	var store *storage.Storage
	if !*noStore {
		s, err := storage.OpenDefault()
		if err != nil {
			log.Printf("Warning: persistent storage unavailable: %v", err)
		} else {
			store = s
			defer store.Close()
		}
	}

	size := *hashMB
	if size <= 0 {
		size = storage.DefaultOptions().HashMB
		if store != nil {
			if opts, err := store.LoadOptions(); err == nil {
				size = opts.HashMB
			}
		}
	}

	eng := engine.NewEngine(size)

	protocol := uci.New(eng, store)
	protocol.Run(os.Stdin)
}
