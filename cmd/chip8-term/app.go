package main

import (
	"fmt"
	"log"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"
	"github.com/rivo/tview"

	"github.com/hexaflex/chip8/arch"
	"github.com/hexaflex/chip8/devices/fffe/beep"
	"github.com/hexaflex/chip8/devices/fffe/clock"
	"github.com/hexaflex/chip8/devices/fffe/cpu"
)

// App defines application context.
type App struct {
	config    *Config         // Application configuration.
	app       *tview.Application
	registers *tview.TextView // Machine state panel.
	logs      *tview.TextView // Log output panel.
	machine   *cpu.CPU        // Interpreter with program to be run.
	cpu       *cpu.Controller // Throttles program execution.
	screen    *screen         // Display peripheral.
	keys      *keyLatch       // Keypad peripheral.
	clock     *clock.Device   // 60 Hz timer peripheral.
	done      chan struct{}   // Stops the cycle ticker.
}

// NewApp creates a new application instance using the given configuration.
func NewApp(config *Config) *App {
	var a App
	a.config = config
	a.done = make(chan struct{})
	a.screen = newScreen()
	a.keys = newKeyLatch(config.HoldTime)
	a.clock = clock.New()

	a.machine = cpu.New(nil)
	a.machine.SetQuirks(cpu.Quirks{
		ShiftUsesVY:          config.ShiftUsesVY,
		LoadStoreIncrementsI: config.LoadStoreIncrementsI,
	})

	if config.Seed != 0 {
		a.machine.SetRand(rand.New(rand.NewSource(config.Seed)))
	}

	a.machine.Connect(a.keys)
	a.machine.Connect(a.clock)
	a.machine.Connect(a.screen)
	a.machine.Connect(beep.New(config.Mute))

	a.cpu = cpu.NewController(a.machine, config.Clock)
	a.buildUI()
	return &a
}

// buildUI lays out the display, the register panel and the log panel.
func (a *App) buildUI() {
	a.app = tview.NewApplication()

	display := newDisplayBox(a.screen)

	a.registers = tview.NewTextView().SetDynamicColors(true)
	a.registers.SetTitle("Machine").SetBorder(true)

	a.logs = tview.NewTextView()
	a.logs.SetTitle("Log").SetBorder(true)
	a.logs.ScrollToEnd()

	top := tview.NewFlex().
		AddItem(display, arch.DisplayWidth+2, 0, false).
		AddItem(a.registers, 0, 1, false)

	root := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(top, arch.DisplayHeight/2+2, 0, false).
		AddItem(a.logs, 0, 1, false)

	a.app.SetRoot(root, true)
	a.app.SetInputCapture(a.handleKey)
}

// newDisplayBox returns a bordered box which renders s inside its border.
func newDisplayBox(s *screen) *tview.Box {
	box := tview.NewBox().SetDrawFunc(s.Draw)
	box.SetBorder(true).SetTitle(AppName)
	return box
}

// Run runs the application and does not return until it is finished
// or an error occured during initialization.
func (a *App) Run() error {
	log.SetOutput(a.logs)
	defer log.SetOutput(os.Stderr)

	log.Println(Version())
	log.Println("keys: 1234/qwer/asdf/zxcv keypad, F2 run/stop, F3 step, F5 reload, ESC exit")

	if err := a.machine.Startup(); err != nil {
		return err
	}

	defer a.dispose()

	if err := a.loadProgram(); err != nil {
		return err
	}

	if !a.config.Debug {
		a.cpu.Start()
	}

	go a.tick()
	return a.app.Run()
}

// tick schedules machine updates on the ui goroutine, which owns the machine.
func (a *App) tick() {
	ticker := time.NewTicker(time.Second / arch.TimerFrequency)
	defer ticker.Stop()

	for {
		select {
		case <-a.done:
			return
		case <-ticker.C:
			a.app.QueueUpdateDraw(a.update)
		}
	}
}

// update advances the machine and refreshes the register panel.
func (a *App) update() {
	if err := a.cpu.Advance(); err != nil {
		log.Println(err)
	}

	a.clock.Pause(!a.cpu.Running())
	a.machine.Update()
	a.registers.SetText(a.status())
}

// dispose stops the ticker and shuts the machine down.
func (a *App) dispose() {
	close(a.done)
	a.cpu.Stop()

	if err := a.machine.Shutdown(); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
}

func (a *App) handleKey(event *tcell.EventKey) *tcell.EventKey {
	var err error

	switch event.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		a.app.Stop()
		return nil
	case tcell.KeyF2:
		a.cpu.ToggleRun()
		return nil
	case tcell.KeyF3:
		err = a.cpu.Step()
	case tcell.KeyF5:
		err = a.loadProgram()
	case tcell.KeyRune:
		if !a.keys.Press(event.Rune()) {
			return event
		}
	default:
		return event
	}

	if err != nil {
		log.Println(err)
	}

	a.clock.Pause(!a.cpu.Running())
	a.machine.Update()
	a.registers.SetText(a.status())
	return nil
}

// loadProgram loads the current program from disk and resets the machine.
func (a *App) loadProgram() error {
	log.Println("loading", a.config.Program)

	data, err := os.ReadFile(a.config.Program)
	if err != nil {
		return err
	}

	a.machine.Reset()
	a.screen.Clear()

	if err := a.machine.LoadProgram(data); err != nil {
		return errors.Wrapf(err, "%s", a.config.Program)
	}

	if a.cpu.Running() {
		a.cpu.Start()
	}
	return nil
}

// status renders the machine state for the register panel.
func (a *App) status() string {
	m := a.machine
	word := uint16(m.Memory().U16(m.PC()))

	var sb strings.Builder

	state := "[red]stopped[-]"
	if a.cpu.Running() {
		state = "[green]running[-]"
	}

	fmt.Fprintf(&sb, "%s  %.0f Hz  faults %d\n\n", state, a.cpu.Frequency(), a.cpu.Faults())
	fmt.Fprintf(&sb, "PC %03x  [yellow]%04x %s[-]\n", m.PC(), word, tview.Escape(arch.Disassemble(word)))
	fmt.Fprintf(&sb, "I  %03x  SP %d\n", m.I(), m.SP())
	fmt.Fprintf(&sb, "DT %02x   ST %02x\n\n", m.DelayTimer(), m.SoundTimer())

	for n := 0; n < arch.RegisterCount; n++ {
		fmt.Fprintf(&sb, "%s %02x", arch.RegisterName(n), m.V(n))
		if n%4 == 3 {
			sb.WriteString("\n")
		} else {
			sb.WriteString("  ")
		}
	}

	sb.WriteString("\nkeys ")
	for key := 0; key < arch.KeyCount; key++ {
		if m.Key(key) {
			fmt.Fprintf(&sb, "%X", key)
		} else {
			sb.WriteString(".")
		}
	}

	return sb.String()
}
