// Command um loads and executes a Universal Machine program image.
package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"um32/pkg/disasm"
	"um32/pkg/hostio"
	"um32/pkg/loader"
	"um32/pkg/trace"
	"um32/pkg/um"
)

func main() {
	log.SetFlags(0)
	if err := newRootCmd().Execute(); err != nil {
		log.Fatal(err)
	}
}

func newRootCmd() *cobra.Command {
	var debug bool
	var timing bool

	root := &cobra.Command{
		Use:   "um [image]",
		Short: "run a Universal Machine program image",
		Long: "um executes a Universal Machine program image: a flat sequence of\n" +
			"32-bit big-endian words read from a file, or from standard input\n" +
			"if no path is given.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMachine(args, debug, timing)
		},
	}
	root.Flags().BoolVarP(&debug, "debug", "d", false, "dump instruction, registers, and segments after every instruction")
	root.Flags().BoolVarP(&timing, "time", "t", false, "print total wall time to stderr after the machine halts")

	root.AddCommand(newDisasmCmd())
	return root
}

func newDisasmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "disasm [image]",
		Short: "disassemble a program image without executing it",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			words, err := loadImage(args)
			if err != nil {
				return err
			}
			fmt.Print(disasm.Program(words))
			return nil
		},
	}
}

func runMachine(args []string, debug, timing bool) error {
	words, err := loadImage(args)
	if err != nil {
		return err
	}

	device, err := hostio.New(os.Stdin, os.Stdout)
	if err != nil {
		return fmt.Errorf("um: cannot set up terminal I/O: %w", err)
	}
	defer device.Close()

	machine := um.New(words, device)
	if debug {
		machine.SetTracer(trace.New(os.Stderr))
	}

	start := time.Now()
	runErr := machine.Run()
	elapsed := time.Since(start)

	if timing {
		fmt.Fprintf(os.Stderr, "um: wall time: %s\n", elapsed)
	}

	return runErr
}

func loadImage(args []string) ([]uint32, error) {
	if len(args) == 0 {
		return loader.Load(os.Stdin)
	}
	f, err := os.Open(args[0])
	if err != nil {
		return nil, fmt.Errorf("um: cannot open image: %w", err)
	}
	defer f.Close()
	return loader.Load(f)
}
