// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Command pwrap runs a cartridge through the protocol as a driver would:
// it loads the image, powers the machine, runs frames and answers every
// signal and break until each command completes.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"code.hybscloud.com/pwrap"
	"code.hybscloud.com/pwrap/romload"
	"code.hybscloud.com/pwrap/snes"
)

var buttonIDs = map[string]int32{
	"B": 0, "Y": 1, "SELECT": 2, "START": 3,
	"UP": 4, "DOWN": 5, "LEFT": 6, "RIGHT": 7,
	"A": 8, "X": 9, "L": 10, "R": 11,
}

type driver struct {
	p    *pwrap.Protocol
	log  *zap.Logger
	brks map[uint32]bool
	held map[int32]bool

	trace     bool
	frames    int
	scanlines int
	samples   int
	breaks    int
}

type options struct {
	rom      string
	frames   int
	brk      string
	trace    bool
	scanline bool
	audio    bool
	pad      string
	state    string
	verbose  bool
}

func parseFlags(args []string) (options, error) {
	var o options
	fs := flag.NewFlagSet("pwrap", flag.ContinueOnError)
	fs.StringVar(&o.rom, "rom", "", "cartridge image or archive")
	fs.IntVar(&o.frames, "frames", 60, "frames to run")
	fs.StringVar(&o.brk, "break", "", "comma separated execution breakpoints, hex bus addresses")
	fs.BoolVar(&o.trace, "trace", false, "print every executed instruction")
	fs.BoolVar(&o.scanline, "scanline", false, "stop at every scanline")
	fs.BoolVar(&o.audio, "audio", false, "receive audio flushes")
	fs.StringVar(&o.pad, "pad", "", "comma separated buttons held on port 0, e.g. A,START")
	fs.StringVar(&o.state, "state", "", "write a state snapshot here after the last frame")
	fs.BoolVar(&o.verbose, "v", false, "debug logging")
	err := fs.Parse(args)
	return o, err
}

func main() {
	o, err := parseFlags(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}
	cfg := zap.NewDevelopmentConfig()
	if !o.verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	log, err := cfg.Build()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	err = run(log, o)
	if err != nil {
		log.Error("pwrap", zap.Error(err))
	}
	_ = log.Sync()
	if err != nil {
		os.Exit(1)
	}
}

// run drives one session. The protocol is closed before it returns.
func run(log *zap.Logger, o options) error {
	if o.rom == "" {
		return errors.New("no cartridge: -rom is required")
	}
	d := &driver{log: log, trace: o.trace}
	var err error
	if d.brks, err = parseBreaks(o.brk); err != nil {
		return fmt.Errorf("bad -break: %w", err)
	}
	if d.held, err = parsePad(o.pad); err != nil {
		return fmt.Errorf("bad -pad: %w", err)
	}

	img, err := romload.Load(o.rom)
	if err != nil {
		return fmt.Errorf("load cartridge: %w", err)
	}
	log.Info("cartridge", zap.String("name", img.Name), zap.Int("size", len(img.Data)), zap.Bool("copier", img.CopierHeader))

	sys, err := snes.New(log.Named("snes"))
	if err != nil {
		return fmt.Errorf("create machine: %w", err)
	}
	d.p = pwrap.New(sys, pwrap.WithLogger(log.Named("pwrap")))
	defer d.p.Close()

	d.p.CopyIn(0, []byte(img.Name))
	d.p.Stash(1, img.Data)
	d.complete(pwrap.CmdInit{Ports: [2]pwrap.Device{pwrap.DeviceJoypad, pwrap.DeviceNone}})
	d.complete(pwrap.CmdLoadCartridgeNormal{})
	if !d.p.Comm().OK {
		return fmt.Errorf("cartridge rejected: %s", img.Name)
	}
	d.p.Stash(1, nil)
	d.complete(pwrap.CmdPower{})

	if len(d.brks) > 0 {
		d.p.Dispatch(pwrap.StateHook{Kind: pwrap.HookExec, Enable: true})
	}
	d.p.Dispatch(pwrap.EnableTrace{Enable: o.trace})
	d.p.Dispatch(pwrap.EnableScanline{Enable: o.scanline})
	d.p.Dispatch(pwrap.EnableAudio{Enable: o.audio})

	for range o.frames {
		d.complete(pwrap.CmdRun{})
	}

	d.p.Dispatch(pwrap.PeekCPURegs{})
	c := d.p.Comm()
	log.Info("done",
		zap.Int("frames", d.frames),
		zap.Int("breaks", d.breaks),
		zap.Int("scanlines", d.scanlines),
		zap.Int("samples", d.samples),
		zap.Uint32("region", c.Region),
		zap.Uint32("mapper", c.Mapper),
		zap.String("pc", fmt.Sprintf("%06X", c.CPURegs.PC)))

	if o.state != "" {
		d.complete(pwrap.CmdSerialize{})
		if !c.OK {
			return errors.New("serialize failed")
		}
		if err := os.WriteFile(o.state, c.Buf[0].Bytes(), 0o644); err != nil {
			return fmt.Errorf("write state: %w", err)
		}
	}
	return nil
}

// complete dispatches a command and services the engine until it completes.
func (d *driver) complete(req pwrap.Request) {
	d.p.Dispatch(req)
	for c := d.p.Comm(); c.Status == pwrap.StatusSuspended; {
		d.service(c)
		d.p.Dispatch(pwrap.Resume{})
	}
}

// service answers one suspension.
func (d *driver) service(c *pwrap.Comm) {
	switch c.Reason {
	case pwrap.MsgSigInputState:
		c.Input.State = 0
		if c.Input.Port == 0 && c.Input.Index == 0 && d.held[c.Input.ID] {
			c.Input.State = 1
		}
	case pwrap.MsgSigVideoRefresh:
		d.frames++
	case pwrap.MsgSigAudioFlush:
		d.samples += c.Buf[0].Len() / 2
	case pwrap.MsgSigTraceCallback:
		fmt.Println(c.Trace)
	case pwrap.MsgBrkScanlineStart:
		d.scanlines++
	case pwrap.MsgBrkHookExec:
		if !d.brks[c.Hook.Addr] {
			return
		}
		d.breaks++
		d.p.Dispatch(pwrap.PeekCPURegs{})
		r := c.CPURegs
		d.log.Info("breakpoint",
			zap.String("pc", fmt.Sprintf("%06X", r.PC)),
			zap.String("a", fmt.Sprintf("%04X", r.A)),
			zap.String("x", fmt.Sprintf("%04X", r.X)),
			zap.String("y", fmt.Sprintf("%04X", r.Y)),
			zap.String("s", fmt.Sprintf("%04X", r.S)),
			zap.Uint16("v", r.V))
	}
}

func parseBreaks(s string) (map[uint32]bool, error) {
	brks := map[uint32]bool{}
	for _, f := range strings.Split(s, ",") {
		f = strings.TrimPrefix(strings.TrimSpace(f), "$")
		if f == "" {
			continue
		}
		v, err := strconv.ParseUint(f, 16, 24)
		if err != nil {
			return nil, err
		}
		brks[uint32(v)] = true
	}
	return brks, nil
}

func parsePad(s string) (map[int32]bool, error) {
	held := map[int32]bool{}
	for _, f := range strings.Split(s, ",") {
		f = strings.ToUpper(strings.TrimSpace(f))
		if f == "" {
			continue
		}
		id, ok := buttonIDs[f]
		if !ok {
			return nil, fmt.Errorf("unknown button %q", f)
		}
		held[id] = true
	}
	return held, nil
}
