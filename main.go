package main

import (
	"errors"
	"flag"
	"image/color"
	"log"
	"os"
	"runtime"

	"github.com/tuboc/chip8vm/emulator"
	"github.com/tuboc/chip8vm/frontend"
)

var filename = flag.String("f", "", "chip8 image file path")
var stepMode = flag.Bool("s", false, "start with stepMode")
var scale = flag.Int("scale", 16, "pixels per chip8 cell")
var hz = flag.Int("hz", frontend.DefaultHz, "instructions per second")
var timers = flag.Bool("timers", false, "decrement delay and sound timers at 60Hz")
var strict = flag.Bool("strict", false, "fail on keypad and timer instructions instead of ignoring them")
var termMode = flag.Bool("term", false, "render in the terminal instead of an SDL window")
var trace = flag.Bool("trace", false, "log every executed instruction")

func init() {
	runtime.LockOSThread()
}

func checkError(s string, e error) {
	if e != nil {
		log.Fatalf("%s: %v", s, e)
	}
}

func main() {
	flag.Parse()

	cfg := emulator.DefaultConfig()
	cfg.CellWidth = *scale
	cfg.CellHeight = *scale
	cfg.OnColor = color.RGBA{R: 0, G: 255, B: 0, A: 255}
	cfg.StrictKeypadTimer = *strict
	c := emulator.New(cfg)

	f, err := os.Open(*filename)
	checkError("Open", err)
	err = c.Load(f)
	f.Close()
	checkError("Load", err)

	var d frontend.Display
	if *termMode {
		d, err = frontend.NewTerminal(os.Stdin, os.Stdout)
	} else {
		d, err = frontend.NewSDL("Chip-8 Emulator", *scale, *scale)
	}
	checkError("Display", err)

	err = frontend.Run(c, d, frontend.RunOptions{
		Hz:       *hz,
		Timers:   *timers,
		StepMode: *stepMode,
		Trace:    *trace,
	})
	d.Close()

	if err != nil {
		for _, h := range c.History() {
			log.Println(h)
		}
		var execErr *emulator.ExecError
		if errors.As(err, &execErr) {
			log.Fatalf("execution stopped: %v (%s)", err, emulator.Disassemble(execErr.Opcode))
		}
		log.Fatalf("execution stopped: %v", err)
	}
}
