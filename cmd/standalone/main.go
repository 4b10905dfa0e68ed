//go:build !libretro && !ios

package main

import (
	"flag"
	"log"

	"github.com/user-none/eblitui/standalone"
	"github.com/user-none/emami/adapter"
)

func main() {
	romPath := flag.String("rom", "", "path to kickstart ROM (opens UI if not provided)")
	regionFlag := flag.String("region", "auto", "region: auto, ntsc, or pal")
	flag.Parse()

	factory := &adapter.Factory{}

	if *romPath != "" {
		if err := standalone.RunDirect(factory, *romPath, *regionFlag, nil); err != nil {
			log.Fatal(err)
		}
		return
	}

	if err := standalone.Run(factory); err != nil {
		log.Fatal(err)
	}
}
