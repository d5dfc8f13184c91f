// Command vm runs a CRISP-32 binary image, optionally single-stepping it
// under an interactive raw-terminal debugger.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/crisp32vm/crisp32/internal/obslog"
	"github.com/crisp32vm/crisp32/pkg/asm"
	"github.com/crisp32vm/crisp32/pkg/vm"
)

func main() {
	logger := obslog.New(os.Stderr)

	loadAddr := flag.Uint("base", vm.DefaultLoadAddress, "address to load the image at")
	memSize := flag.Int("mem", vm.DefaultMemorySize, "physical memory size in bytes")
	debug := flag.Bool("d", false, "single-step under the interactive debugger")
	verbose := flag.Bool("v", false, "trace interrupt dispatches and faults")
	maxSteps := flag.Int("max-steps", 0, "stop after this many instructions (0 = unbounded)")
	flag.Parse()

	args := flag.Args()
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: vm [-d] [-v] [-base addr] [-mem n] <image.bin>")
		os.Exit(2)
	}

	image, err := os.ReadFile(args[0])
	if err != nil {
		logger.Error("read image", "path", args[0], "err", err)
		os.Exit(1)
	}

	machine := vm.New(*memSize)
	if err := machine.LoadImage(image, uint32(*loadAddr)); err != nil {
		logger.Error("load image", "err", err)
		os.Exit(1)
	}
	machine.Running = true

	if *verbose {
		machine.Trace = func(format string, args ...any) {
			logger.Info(fmt.Sprintf(format, args...))
		}
	}

	var dbg *debugger
	if *debug {
		dbg, err = newDebugger()
		if err != nil {
			logger.Error("start debugger", "err", err)
			os.Exit(1)
		}
		defer dbg.Close()
	}

	steps := 0
	for {
		if *maxSteps > 0 && steps >= *maxSteps {
			break
		}
		if dbg != nil {
			fmt.Printf("\r\npc=0x%08x %s\r\n(s)tep (c)ontinue (q)uit> ", machine.PC, machine.String())
			switch dbg.await() {
			case 'c':
				dbg.Close()
				dbg = nil
			case 'q':
				return
			}
		}

		if err := machine.Step(); err != nil {
			if errors.Is(err, vm.ErrHalted) {
				break
			}
			logger.Error("step", "err", err)
			if dbg != nil {
				dbg.Close()
			}
			os.Exit(1)
		}
		steps++
	}

	logger.Info("halted", "steps", steps)
	printRegisterDump(machine)
}

// printRegisterDump writes the spec-mandated halt report (register dump and
// PC) to stdout, by ABI name, four registers per line.
func printRegisterDump(machine *vm.VM) {
	fmt.Printf("pc   = 0x%08x\n", machine.PC)
	for i := 0; i < vm.NumRegisters; i++ {
		fmt.Printf("%-4s = 0x%08x", asm.RegisterName(byte(i)), machine.Regs[i])
		if i%4 == 3 {
			fmt.Println()
		} else {
			fmt.Print("  ")
		}
	}
	if vm.NumRegisters%4 != 0 {
		fmt.Println()
	}
}

// debugger puts stdin into raw mode so single keypresses (s/c/q) drive the
// step loop without waiting on a newline.
type debugger struct {
	fd       int
	oldState *term.State
}

func newDebugger() (*debugger, error) {
	fd := int(os.Stdin.Fd())
	old, err := term.MakeRaw(fd)
	if err != nil {
		return nil, err
	}
	return &debugger{fd: fd, oldState: old}, nil
}

func (d *debugger) await() byte {
	buf := make([]byte, 1)
	if _, err := os.Stdin.Read(buf); err != nil {
		return 'q'
	}
	return buf[0]
}

func (d *debugger) Close() {
	if d.oldState != nil {
		term.Restore(d.fd, d.oldState)
		d.oldState = nil
	}
}
