// Command asm assembles CRISP-32 source into a flat binary image.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/crisp32vm/crisp32/internal/obslog"
	"github.com/crisp32vm/crisp32/pkg/asm"
	"github.com/crisp32vm/crisp32/pkg/vm"
)

func main() {
	logger := obslog.New(os.Stderr)

	loadAddr := flag.Uint("base", vm.DefaultLoadAddress, "load address the image is linked against")
	maxSize := flag.Uint("max-size", uint(asm.MaxOutputSize), "reject images larger than this many bytes")
	flag.Parse()

	args := flag.Args()
	if len(args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: asm [-base addr] [-max-size n] <input.asm> <output.bin>")
		os.Exit(2)
	}
	inPath, outPath := args[0], args[1]

	in, err := os.Open(inPath)
	if err != nil {
		logger.Error("open input", "path", inPath, "err", err)
		os.Exit(1)
	}
	defer in.Close()

	res, err := asm.Assemble(in, uint32(*loadAddr), uint32(*maxSize))
	if err != nil {
		logger.Error("assemble", "path", inPath, "err", err)
		os.Exit(1)
	}

	if err := os.WriteFile(outPath, res.Image, 0o644); err != nil {
		logger.Error("write output", "path", outPath, "err", err)
		os.Exit(1)
	}

	fmt.Printf("Assembled %s into %s: %d bytes, %d instructions, %d symbols, loaded at 0x%08x.\n",
		inPath, outPath, len(res.Image), res.Instructions, res.Symbols, *loadAddr)
}
