// Command interp assembles and runs CRISP-32 source in one step, without
// producing an intermediate binary image. Handy for quick iteration on a
// single source file.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/crisp32vm/crisp32/internal/obslog"
	"github.com/crisp32vm/crisp32/pkg/asm"
	"github.com/crisp32vm/crisp32/pkg/vm"
)

func main() {
	logger := obslog.New(os.Stderr)

	loadAddr := flag.Uint("base", vm.DefaultLoadAddress, "address to load and link the image at")
	memSize := flag.Int("mem", vm.DefaultMemorySize, "physical memory size in bytes")
	debug := flag.Bool("d", false, "pause after every instruction")
	verbose := flag.Bool("v", false, "trace interrupt dispatches and faults")
	flag.Parse()

	args := flag.Args()
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: interp [-d] [-v] [-base addr] [-mem n] <source.asm>")
		os.Exit(2)
	}

	fp, err := os.Open(args[0])
	if err != nil {
		logger.Error("open source", "path", args[0], "err", err)
		os.Exit(1)
	}
	defer fp.Close()

	res, err := asm.Assemble(fp, uint32(*loadAddr), uint32(*memSize))
	if err != nil {
		logger.Error("assemble", "err", err)
		os.Exit(1)
	}

	machine := vm.New(*memSize)
	if err := machine.LoadImage(res.Image, uint32(*loadAddr)); err != nil {
		logger.Error("load image", "err", err)
		os.Exit(1)
	}
	machine.Running = true
	if *verbose {
		machine.Trace = func(format string, args ...any) {
			logger.Info(fmt.Sprintf(format, args...))
		}
	}

	steps := 0
	for {
		if *debug {
			fmt.Fprintf(os.Stderr, "vm: paused at step %d, pc=0x%08x...\n", steps, machine.PC)
			fmt.Scanln()
		}
		if err := machine.Step(); err != nil {
			if errors.Is(err, vm.ErrHalted) {
				break
			}
			logger.Error("step", "err", err)
			os.Exit(1)
		}
		steps++
	}

	logger.Info("halted", "steps", steps)
	fmt.Printf("pc = 0x%08x\n", machine.PC)
	for i := 0; i < vm.NumRegisters; i++ {
		fmt.Printf("%-4s = 0x%08x\n", asm.RegisterName(byte(i)), machine.Regs[i])
	}
}
