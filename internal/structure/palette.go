package structure

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Team：结构所属阵营
type Team string

const (
	TeamNone      Team = "NONE"
	TeamWardens   Team = "WARDENS"
	TeamColonials Team = "COLONIALS"
)

// Color：RGBA，A 取值 [0,1]
type Color struct {
	R, G, B uint8
	A       float64
}

// CSS：不透明时输出 #rrggbb，否则输出 rgba()
func (c Color) CSS() string {
	if c.A >= 1 {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return "rgba(" + strconv.Itoa(int(c.R)) + "," + strconv.Itoa(int(c.G)) + "," + strconv.Itoa(int(c.B)) + "," + strconv.FormatFloat(c.A, 'f', -1, 64) + ")"
}

func (c Color) String() string { return c.CSS() }

func (c Color) MarshalJSON() ([]byte, error) { return json.Marshal(c.CSS()) }

var (
	NeutralIcon  = Color{0xdd, 0xdd, 0xdd, 1}
	WardenIcon   = Color{0x28, 0x78, 0xbf, 1}
	ColonialIcon = Color{0x4d, 0x7e, 0x30, 1}
	ScorchedIcon = Color{0xe7, 0x4c, 0x3c, 1}

	NeutralSector  = Color{221, 221, 221, 0.2}
	WardenSector   = Color{36, 86, 130, 0.3}
	ColonialSector = Color{81, 108, 75, 0.3}

	SectorStroke = Color{32, 32, 32, 0.5}
)

// IconColor：阵营图标色，未知阵营按中立处理
func IconColor(t Team) Color {
	switch t {
	case TeamWardens:
		return WardenIcon
	case TeamColonials:
		return ColonialIcon
	}
	return NeutralIcon
}

// SectorColor：领地填充色（半透明）
func SectorColor(t Team) Color {
	switch t {
	case TeamWardens:
		return WardenSector
	case TeamColonials:
		return ColonialSector
	}
	return NeutralSector
}
