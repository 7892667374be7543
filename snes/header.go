// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package snes

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"
)

// headerOffset is where the LoROM header starts in the image.
const headerOffset = 0x7FB0

// Header is the cartridge header at $FFB0 followed by the vector tables.
type Header struct {
	MakerCode          uint16
	GameCode           uint32
	Fixed1             [7]byte
	ExpansionRAMSize   byte
	SpecialVersion     byte
	CartridgeSubType   byte
	Title              [21]byte
	MapMode            byte
	CartridgeType      byte
	ROMSize            byte
	RAMSize            byte
	DestinationCode    byte
	Fixed2             byte
	MaskROMVersion     byte
	ComplementCheckSum uint16
	CheckSum           uint16

	NativeVectors   NativeVectors
	EmulatedVectors EmulatedVectors
}

// NativeVectors is the interrupt vector table used in native mode.
type NativeVectors struct {
	Unused1 [4]byte
	COP     uint16
	BRK     uint16
	ABORT   uint16
	NMI     uint16
	Unused2 uint16
	IRQ     uint16
}

// EmulatedVectors is the interrupt vector table used in emulation mode.
type EmulatedVectors struct {
	Unused1 [4]byte
	COP     uint16
	Unused2 uint16
	ABORT   uint16
	NMI     uint16
	RESET   uint16
	IRQBRK  uint16
}

// Region is the video standard of a cartridge.
type Region uint32

const (
	RegionNTSC Region = iota
	RegionPAL
)

// Mapper is the cartridge memory map.
type Mapper uint32

const (
	MapperLoROM Mapper = iota
	MapperHiROM
	MapperExLoROM
	MapperExHiROM
)

// ParseHeader reads the LoROM header of rom.
func ParseHeader(rom []byte) (h Header, err error) {
	if len(rom) < 0x8000 {
		return h, fmt.Errorf("ROM file not big enough to contain SNES header")
	}
	r := bytes.NewReader(rom[headerOffset : headerOffset+0x50])
	if err = binary.Read(r, binary.LittleEndian, &h); err != nil {
		return h, fmt.Errorf("error reading SNES header: %w", err)
	}
	return h, nil
}

// TitleString returns the title without padding.
func (h *Header) TitleString() string {
	return strings.TrimRight(string(h.Title[:]), " \x00")
}

// Region decodes the destination code.
func (h *Header) Region() Region {
	if h.DestinationCode >= 0x02 && h.DestinationCode <= 0x0C {
		return RegionPAL
	}
	return RegionNTSC
}

// Mapper decodes the map mode byte.
func (h *Header) Mapper() Mapper {
	switch h.MapMode & 0x0F {
	case 0x01:
		return MapperHiROM
	case 0x02:
		return MapperExLoROM
	case 0x05:
		return MapperExHiROM
	}
	return MapperLoROM
}

func (h *Header) resetVector() uint16 { return h.EmulatedVectors.RESET }
