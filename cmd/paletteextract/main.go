// Copyright (c) 2024, Painty Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command paletteextract runs the Aharoni palette-extraction pipeline of
// spec section 4.H against an input image and a base-pigment palette,
// writing the mixed result as palette JSON (spec section 6).
package main

import (
	"flag"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/painty/painty/ioimg"
	"github.com/painty/painty/mixer"
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage: paletteextract -b <basepigments.json> -i <image> -n <count> [-o <palette.json>]")
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("paletteextract", flag.ContinueOnError)
	fs.Usage = usage
	basePath := fs.String("b", "", "base pigments palette JSON")
	imagePath := fs.String("i", "", "input image")
	count := fs.Int("n", 0, "number of colors to extract")
	outPath := fs.String("o", "", "output palette JSON (default stdout)")
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if *basePath == "" || *imagePath == "" || *count <= 0 {
		usage()
		return 1
	}

	base, err := mixer.LoadPalette(*basePath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	f, err := os.Open(*imagePath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	img, _, err := image.Decode(f)
	f.Close()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	bounds := img.Bounds()
	linear := ioimg.ToLinearMatrix(img, bounds.Dy(), bounds.Dx())
	palette, err := mixer.MixPaletteFromImage(linear, base, *count)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if *outPath == "" {
		data, err := palette.MarshalJSON()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		os.Stdout.Write(data)
		fmt.Println()
		return 0
	}
	if err := mixer.SavePalette(*outPath, palette); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
