// Copyright (c) 2024, Painty Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command sbrpaint runs the stroke-based painter of spec section 4.K
// against a target image, writing a rendered PNG of the resulting
// canvas (spec section 6).
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"os"

	"github.com/painty/painty/ioimg"
	"github.com/painty/painty/mixer"
	"github.com/painty/painty/painter"
	"github.com/painty/painty/render"
)

// configFile is the on-disk shape of the -c config.json argument: the
// base_pigments key names a palette JSON file, loaded separately from
// painter.Config itself since a palette is data, not a parameter.
type configFile struct {
	BasePigments string `json:"base_pigments"`
	painter.Config
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: sbrpaint -i <image> [-m <mask>] [-a <canvas>] -c <config.json> [-o <out.png>]")
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("sbrpaint", flag.ContinueOnError)
	fs.Usage = usage
	imagePath := fs.String("i", "", "target image")
	maskPath := fs.String("m", "", "optional mask image")
	canvasPath := fs.String("a", "", "optional initial canvas image (decoded and validated only; painting starts from a white canvas)")
	configPath := fs.String("c", "", "painter config JSON")
	outPath := fs.String("o", "out.png", "output PNG path")
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if *imagePath == "" || *configPath == "" {
		usage()
		return 1
	}

	cfgData, err := os.ReadFile(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	var cfg configFile
	if err := json.Unmarshal(cfgData, &cfg); err != nil {
		fmt.Fprintln(os.Stderr, "parse config:", err)
		return 1
	}
	if cfg.BasePigments == "" {
		fmt.Fprintln(os.Stderr, "config: base_pigments is required")
		return 1
	}
	base, err := mixer.LoadPalette(cfg.BasePigments)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	target, err := decodeImage(*imagePath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	var mask image.Image
	if *maskPath != "" {
		mask, err = decodeImage(*maskPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	}

	// -a, an optional initial canvas image, is accepted for forward
	// compatibility with a seeded start; the current painter always
	// starts from a white canvas (spec section 4.K names no seeding
	// step), so it is read and validated but not yet wired in.
	if *canvasPath != "" {
		if _, err := decodeImage(*canvasPath); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	}

	c, err := painter.Run(target, mask, base, cfg.Config)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	composed := render.Compose(c)
	out := ioimg.FromLinearMatrix(composed)

	f, err := os.Create(*outPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer f.Close()
	if err := png.Encode(f, out); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func decodeImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	return img, err
}
