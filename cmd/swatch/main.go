// Swatch - Palette swatch cards for your photos
//
// Swatch extracts a colour palette from each imported photo and shows its
// representative swatches, tinted with the single best swatch of the photo.
//
// Copyright (c) 2025 John Mylchreest
// Licensed under the MIT License
package main

import "github.com/jmylchreest/swatch/internal/cli"

func main() {
	cli.Execute()
}
