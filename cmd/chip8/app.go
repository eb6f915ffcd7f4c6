package main

import (
	"fmt"
	"image/png"
	"log"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/go-gl/gl/v4.2-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/pkg/errors"

	"github.com/hexaflex/chip8/arch"
	"github.com/hexaflex/chip8/devices/fffe/beep"
	"github.com/hexaflex/chip8/devices/fffe/clock"
	"github.com/hexaflex/chip8/devices/fffe/cpu"
	"github.com/hexaflex/chip8/devices/fffe/kp16"
	"github.com/hexaflex/chip8/devices/fffe/mdi"
)

// App defines application context.
type App struct {
	config       *Config         // Application configuration.
	window       *glfw.Window    // OpenGL/GLFW context.
	machine      *cpu.CPU        // Interpreter with program to be run.
	cpu          *cpu.Controller // Throttles program execution.
	display      *mdi.Device     // Display peripheral.
	keypad       *kp16.Device    // Hex keypad peripheral.
	clock        *clock.Device   // 60 Hz timer peripheral.
	buzzer       *beep.Device    // Sound timer peripheral.
	titleUpdated time.Time       // Value used to periodically update window title.
	lastRendered time.Time       // Last time a frame was rendered.
}

// NewApp creates a new application instance using the given configuration.
func NewApp(config *Config) *App {
	var a App
	a.config = config
	a.display = mdi.New()
	a.keypad = kp16.New()
	a.clock = clock.New()
	a.buzzer = beep.New(config.Mute)

	a.machine = cpu.New(a.printTrace)
	a.machine.SetQuirks(cpu.Quirks{
		ShiftUsesVY:          config.ShiftUsesVY,
		LoadStoreIncrementsI: config.LoadStoreIncrementsI,
	})

	if config.Seed != 0 {
		a.machine.SetRand(rand.New(rand.NewSource(config.Seed)))
	}

	// Input and timers are applied before the display and buzzer observe the machine.
	a.machine.Connect(a.keypad)
	a.machine.Connect(a.clock)
	a.machine.Connect(a.display)
	a.machine.Connect(a.buzzer)

	a.cpu = cpu.NewController(a.machine, config.Clock)
	return &a
}

// Run runs the application and does not return until it is finished
// or an error occured during initialization.
func (a *App) Run() error {
	if err := a.initGL(); err != nil {
		return err
	}

	defer a.dispose()

	log.Println(Version())
	printHelp()

	if err := a.machine.Startup(); err != nil {
		return err
	}

	a.keypad.DetectGamepad()

	if err := a.loadProgram(); err != nil {
		return err
	}

	if !a.config.Debug {
		a.cpu.Start()
	}

	for !a.window.ShouldClose() {
		a.mainLoop()
	}

	return nil
}

// mainLoop performs all main loop operations.
func (a *App) mainLoop() {
	if err := a.cpu.Advance(); err != nil {
		log.Println(err)
	}

	// Timers only run along with the program.
	a.clock.Pause(!a.cpu.Running())
	a.machine.Update()

	// Periodically render display contents.
	if time.Since(a.lastRendered) >= time.Second/60 {
		a.lastRendered = time.Now()
		gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
		a.display.Draw()
		a.window.SwapBuffers()
	}

	// Periodically update the window title to show the current cpu clock frequency.
	if time.Since(a.titleUpdated) >= time.Second*2 {
		a.titleUpdated = time.Now()
		freq := prettyFrequency(a.cpu.Frequency())
		a.window.SetTitle(fmt.Sprintf("%s %s - %s - %d faults", AppName, AppVersion, freq, a.cpu.Faults()))
	}

	glfw.PollEvents()
	time.Sleep(time.Millisecond)
}

// dispose ensures openGL/GLFW and other resources are cleaned up.
func (a *App) dispose() {
	a.cpu.Stop()

	if err := a.machine.Shutdown(); err != nil {
		log.Println(err)
	}

	if a.window != nil {
		a.window.Destroy()
		a.window = nil
	}

	glfw.Terminate()
}

func (a *App) keyCallback(_ *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if a.keypad.HandleKey(key, action) || action != glfw.Press {
		return
	}

	var err error

	switch key {
	case glfw.KeyEscape:
		a.window.SetShouldClose(true)
	case glfw.KeyF1:
		printHelp()
	case glfw.KeyF2:
		a.cpu.ToggleRun()
	case glfw.KeyF3:
		err = a.cpu.Step()
	case glfw.KeyF4:
		a.config.PrintTrace = !a.config.PrintTrace
	case glfw.KeyF5:
		err = a.loadProgram()
	case glfw.KeyF12:
		err = a.screenshot()
	}

	if err != nil {
		log.Println(err)
	}
}

// initGL initializes GLFW and openGL.
func (a *App) initGL() error {
	err := glfw.Init()
	if err != nil {
		return errors.Wrapf(err, "glfw.Init failed")
	}

	glfw.WindowHint(glfw.Resizable, glfw.False)
	glfw.WindowHint(glfw.Visible, glfw.True)
	glfw.WindowHint(glfw.Focused, glfw.True)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 2)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	var monitor *glfw.Monitor

	width := mdi.DisplayWidth * a.config.ScaleFactor
	height := mdi.DisplayHeight * a.config.ScaleFactor

	if a.config.Fullscreen {
		monitor = glfw.GetPrimaryMonitor()
		mode := monitor.GetVideoMode()

		width = mode.Width
		height = mode.Height

		glfw.WindowHint(glfw.Decorated, glfw.False)
		glfw.WindowHint(glfw.Maximized, glfw.True)
	} else {
		glfw.WindowHint(glfw.Decorated, glfw.True)
		glfw.WindowHint(glfw.Maximized, glfw.False)
	}

	a.window, err = glfw.CreateWindow(width, height, AppName, monitor, nil)
	if err != nil {
		a.dispose()
		return errors.Wrapf(err, "glfw.CreateWindow failed")
	}

	a.window.MakeContextCurrent()
	a.window.SetKeyCallback(a.keyCallback)

	glfw.SwapInterval(0)

	err = gl.Init()
	if err != nil {
		a.dispose()
		return errors.Wrapf(err, "gl.Init failed")
	}

	gl.Disable(gl.DEPTH_TEST)
	gl.ClearColor(0, 0, 0, 1.0)
	return nil
}

// loadProgram loads the current program from disk and resets the machine.
// Execution resumes if the program was running.
func (a *App) loadProgram() error {
	log.Println("loading", a.config.Program)

	data, err := os.ReadFile(a.config.Program)
	if err != nil {
		return err
	}

	a.machine.Reset()
	a.display.Clear()

	if err := a.machine.LoadProgram(data); err != nil {
		return errors.Wrapf(err, "%s", a.config.Program)
	}

	if a.cpu.Running() {
		a.cpu.Start()
	}
	return nil
}

// screenshot writes the display contents to a PNG file in the working directory.
func (a *App) screenshot() error {
	name := fmt.Sprintf("%s-%s.png", AppName, time.Now().Format("20060102-150405"))

	fd, err := os.Create(name)
	if err != nil {
		return err
	}

	defer fd.Close()

	if err := png.Encode(fd, a.display.Image(a.config.ScaleFactor)); err != nil {
		return errors.Wrapf(err, "failed to encode %s", name)
	}

	log.Println("saved", name)
	return nil
}

// printTrace prints instruction trace data. This can be toggled
// on off through a.config.PrintTrace.
func (a *App) printTrace(i *cpu.Instruction) {
	if !a.config.PrintTrace {
		return
	}

	var sb strings.Builder
	sb.Grow(120)

	fmt.Fprintf(&sb, "%03x %04x  %s", i.IP, i.Word, i)
	pad(&sb, 32)

	for n := 0; n < arch.RegisterCount; n++ {
		fmt.Fprintf(&sb, " %02x", a.machine.V(n))
	}

	fmt.Fprintf(&sb, "  I=%03x SP=%d", a.machine.I(), a.machine.SP())
	fmt.Println(sb.String())
}

// printHelp writes a short overview of supported shortcut keys to stdout.
func printHelp() {
	var sb strings.Builder
	sb.WriteString("shortcut keys:\n")
	sb.WriteString(" 1234/QWER/ASDF/ZXCV  Hex keypad 123C/456D/789E/A0BF.\n")
	sb.WriteString(" ESC      Exit the program.\n")
	sb.WriteString(" F1       Display this help.\n")
	sb.WriteString(" F2       Start/Stop program execution.\n")
	sb.WriteString(" F3       Perform a single execution step.\n")
	sb.WriteString(" F4       Enable/Disable debug trace output.\n")
	sb.WriteString(" F5       (re)load the program from disk and reset the machine.\n")
	sb.WriteString(" F12      Save a screenshot.")
	log.Println(sb.String())
}

// pad padds sb with spaces until it reaches the given size.
var pad = func() func(*strings.Builder, int) {
	set := strings.Repeat(" ", 80)
	return func(sb *strings.Builder, size int) {
		if sb.Len() >= size {
			return
		}
		if size > len(set) {
			size = len(set)
		}
		if size < sb.Len() {
			size = sb.Len()
		}
		sb.WriteString(set[:size-sb.Len()])
	}
}()

// prettyFrequency returns a human-readable version of the given clock frequency in herz.
func prettyFrequency(v float64) string {
	switch {
	case v >= 1e6:
		return fmt.Sprintf("%.2f MHz", v/1e6)
	case v >= 1e3:
		return fmt.Sprintf("%.2f KHz", v/1e3)
	default:
		return fmt.Sprintf("%.2f Hz", v)
	}
}
