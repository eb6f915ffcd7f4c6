package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/hexaflex/chip8/devices/fffe/cpu"
)

// Config defines program configuration.
type Config struct {
	Program              string        // Path to the program file to load.
	Clock                int           // Instructions executed per second.
	Seed                 int64         // Random seed for RND. Zero picks a time-based seed.
	HoldTime             time.Duration // How long a key stays down after the terminal reported it.
	Debug                bool          // Start paused?
	Mute                 bool          // Disable audio output?
	ShiftUsesVY          bool          // 8XY6/8XYE shift VY into VX.
	LoadStoreIncrementsI bool          // FX55/FX65 advance I.
}

// parseArgs parses command line arguments as applicable.
//
// If an error occurred, this exits the program with an appropriate message.
// When version information is requested, it is printed to stdout and the program ends cleanly.
func parseArgs() *Config {
	var c Config
	c.Clock = cpu.DefaultFrequency
	c.HoldTime = DefaultHoldTime

	flag.Usage = func() {
		fmt.Printf("%s [options] <program file>\n", os.Args[0])
		flag.PrintDefaults()
	}

	flag.BoolVar(&c.Debug, "debug", c.Debug, "Start with execution paused.")
	flag.IntVar(&c.Clock, "clock", c.Clock, "Number of instructions executed per second.")
	flag.Int64Var(&c.Seed, "seed", c.Seed, "Random seed for the RND instruction. 0 selects a time-based seed.")
	flag.DurationVar(&c.HoldTime, "hold", c.HoldTime, "Time a key stays pressed after the last key event.")
	flag.BoolVar(&c.Mute, "mute", c.Mute, "Disable sound output.")
	flag.BoolVar(&c.ShiftUsesVY, "shift-vy", c.ShiftUsesVY, "Shift instructions read VY instead of VX.")
	flag.BoolVar(&c.LoadStoreIncrementsI, "memory-increments-i", c.LoadStoreIncrementsI, "Register load/store instructions advance I.")

	version := flag.Bool("version", false, "Display version information.")
	flag.Parse()

	if *version {
		fmt.Println(Version())
		os.Exit(0)
	}

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(1)
	}

	c.Program = flag.Arg(0)
	return &c
}
