package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/hexaflex/chip8/arch"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd builds the command tree.
func newRootCmd() *cobra.Command {
	var origin int
	var output string

	rootCmd := &cobra.Command{
		Use:          "chip8-dis [program file]",
		Short:        "Disassemble a CHIP-8 program",
		Version:      Version(),
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			rom, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			if len(rom) > arch.ProgramCapacity {
				return errors.Errorf("%s: %d bytes exceeds the available %d bytes", args[0], len(rom), arch.ProgramCapacity)
			}

			w, close, err := makeWriter(output, cmd.OutOrStdout())
			if err != nil {
				return err
			}

			defer close()

			return disassemble(w, rom, origin)
		},
	}
	rootCmd.Flags().IntVar(&origin, "origin", arch.EntryPoint, "Address at which the program is loaded")
	rootCmd.Flags().StringVar(&output, "out", "", "File path to write output to. Leave empty to use stdout.")

	wordCmd := &cobra.Command{
		Use:   "word [hex words...]",
		Short: "Disassemble individual instruction words",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, arg := range args {
				word, err := strconv.ParseUint(arg, 16, 16)
				if err != nil {
					return errors.Wrapf(err, "invalid instruction word %q", arg)
				}

				fmt.Fprintf(cmd.OutOrStdout(), "%04x  %s\n", word, arch.Disassemble(uint16(word)))
			}
			return nil
		},
	}

	rootCmd.AddCommand(wordCmd)
	return rootCmd
}

// disassemble writes one line per instruction word in rom, prefixed
// with its address. A trailing odd byte is written as a data byte.
func disassemble(w io.Writer, rom []byte, origin int) error {
	for i := 0; i < len(rom); i += arch.InstructionSize {
		addr := (origin + i) & arch.AddressMask

		var err error
		if i+1 < len(rom) {
			word := uint16(rom[i])<<8 | uint16(rom[i+1])
			_, err = fmt.Fprintf(w, "%03x  %04x  %s\n", addr, word, arch.Disassemble(word))
		} else {
			_, err = fmt.Fprintf(w, "%03x  %02x    DB %#02x\n", addr, rom[i], rom[i])
		}

		if err != nil {
			return err
		}
	}
	return nil
}

// makeWriter creates an output writer and a cleanup function for it.
// An empty path selects stdout.
func makeWriter(path string, stdout io.Writer) (io.Writer, func(), error) {
	if path == "" {
		return stdout, func() {}, nil
	}

	if dir, _ := filepath.Split(path); dir != "" {
		if err := os.MkdirAll(dir, 0744); err != nil {
			return nil, nil, err
		}
	}

	fd, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}

	return fd, func() { fd.Close() }, nil
}
