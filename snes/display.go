// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package snes

import (
	"encoding/binary"

	"code.hybscloud.com/pwrap"
)

// BackdropNone turns the backdrop override off.
const BackdropNone = 0xFFFFFFFF

// SetLayerEnables implements pwrap.Display.
// Only the backdrop is drawn, so the layers are recorded and not applied.
func (s *System) SetLayerEnables(l pwrap.LayerEnables) { s.layers = l }

// SetBackdropColor implements pwrap.Display. color is XRGB8888;
// BackdropNone restores palette entry 0.
func (s *System) SetBackdropColor(color uint32) { s.backdrop = color }

// Frame returns the last rendered frame: ScreenWidth*ScreenHeight pixels,
// XRGB8888 little-endian. It is overwritten by the next frame.
func (s *System) Frame() []byte { return s.frame }

func (s *System) render() {
	px := s.backdropPixel()
	for i := 0; i < len(s.frame); i += 4 {
		binary.LittleEndian.PutUint32(s.frame[i:], px)
	}
}

func (s *System) backdropPixel() uint32 {
	blank, brightness := s.io.inidisp()
	if blank {
		return 0xFF000000
	}
	if s.backdrop != BackdropNone {
		return 0xFF000000 | s.backdrop&0xFFFFFF
	}
	c := uint32(s.CGRAM[0]) | uint32(s.CGRAM[1])<<8
	scale := func(v uint32) uint32 {
		v = v<<3 | v>>2
		return v * uint32(brightness) / 15
	}
	r, g, b := scale(c&0x1F), scale(c>>5&0x1F), scale(c>>10&0x1F)
	return 0xFF000000 | r<<16 | g<<8 | b
}
