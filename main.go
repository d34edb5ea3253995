//go:build !(js && wasm)

package main

import (
	"fmt"
	"os"

	"github.com/voxelsplace/aseio/internal/logger"
	"github.com/voxelsplace/aseio/utils"
)

func usage() {
	fmt.Println("Usage: asetool <command> [args]")
	fmt.Println("Commands:")
	fmt.Println("  info input.aseprite                          (print a JSON summary of a sprite)")
	fmt.Println("  roundtrip input.aseprite output.aseprite     (decode and re-encode as a 32-bit sprite)")
	fmt.Println("  sprite2glb input.aseprite output.glb         (greedy-mesh every frame into a .glb)")
	fmt.Println("  pack output.asepack input1.aseprite [input2.aseprite ...]   (bundle sprites into a pack)")
	fmt.Println("  unpack input.asepack output_dir              (write every pack entry into a directory)")
	fmt.Println("  pack2glb input.asepack output.glb            (one .glb node per pack entry)")
	fmt.Println("  update input.aseprite updates.json output.aseprite  (apply layer/frame edits)")
	fmt.Println("  gennoise <percentage> <frames> <layers> <size> <output.aseprite>  (random noise sprite)")
	fmt.Println("  config                                       (write the default config file)")
}

func fail(err error) {
	fmt.Println("Error:", err)
	os.Exit(1)
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	configPath := getConfigPath()
	cfg, err := loadConfig(configPath)
	if err != nil {
		fail(err)
	}
	if cfg.Verbose {
		logger.SetLogger(logger.NewStdLogger(os.Stderr, "asetool: "))
	}

	switch os.Args[1] {
	case "info":
		if len(os.Args) != 3 {
			usage()
			os.Exit(1)
		}
		if err := utils.RunInfo(os.Args[2], os.Stdout); err != nil {
			fail(err)
		}
		return
	case "roundtrip":
		if len(os.Args) != 4 {
			usage()
			os.Exit(1)
		}
		if err := utils.RunRoundtrip(os.Args[2], os.Args[3], cfg.encodeOptions()); err != nil {
			fail(err)
		}
	case "sprite2glb":
		if len(os.Args) != 4 {
			usage()
			os.Exit(1)
		}
		if err := utils.RunSprite2GLB(os.Args[2], os.Args[3]); err != nil {
			fail(err)
		}
	case "pack":
		if len(os.Args) < 4 {
			usage()
			os.Exit(1)
		}
		comp, err := cfg.packCompression()
		if err != nil {
			fail(err)
		}
		if err := utils.CreatePack(os.Args[3:], os.Args[2], comp); err != nil {
			fail(err)
		}
	case "unpack":
		if len(os.Args) != 4 {
			usage()
			os.Exit(1)
		}
		if err := utils.UnpackToDir(os.Args[2], os.Args[3]); err != nil {
			fail(err)
		}
	case "pack2glb":
		if len(os.Args) != 4 {
			usage()
			os.Exit(1)
		}
		if err := utils.RunPack2GLB(os.Args[2], os.Args[3]); err != nil {
			fail(err)
		}
	case "update":
		if len(os.Args) != 5 {
			usage()
			os.Exit(1)
		}
		updates, err := os.ReadFile(os.Args[3])
		if err != nil {
			fail(err)
		}
		if err := utils.RunUpdateSprite(updates, os.Args[2], os.Args[4]); err != nil {
			fail(err)
		}
	case "gennoise":
		if len(os.Args) != 7 {
			usage()
			os.Exit(1)
		}
		var perc float64
		var frames, layers, size int
		if _, err := fmt.Sscan(os.Args[2], &perc); err != nil {
			fail(err)
		}
		if _, err := fmt.Sscan(os.Args[3], &frames); err != nil {
			fail(err)
		}
		if _, err := fmt.Sscan(os.Args[4], &layers); err != nil {
			fail(err)
		}
		if _, err := fmt.Sscan(os.Args[5], &size); err != nil {
			fail(err)
		}
		if err := utils.RunGenerateNoiseSprite(perc, frames, layers, size, os.Args[6]); err != nil {
			fail(err)
		}
	case "config":
		if err := saveConfig(configPath, cfg); err != nil {
			fail(err)
		}
		fmt.Println("Config written to", configPath)
		return
	default:
		usage()
		os.Exit(1)
	}

	fmt.Println("Operation completed!")
}
