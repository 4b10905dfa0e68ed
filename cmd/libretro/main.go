package main

import (
	libretro "github.com/user-none/eblitui/libretro"
	"github.com/user-none/emami/adapter"
)

func init() {
	libretro.RegisterFactory(&adapter.Factory{}, []libretro.RetropadMapping{
		{RetroID: libretro.JoypadB, BitID: 4}, // Fire
	})
}

func main() {}
