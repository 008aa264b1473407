// 包 structure：结构类型与标志位解码，产出显示名、阵营色与图层分组
package structure

import (
	"strings"
	"sync"
	"unicode"

	"github.com/paulmach/orb"

	"war-map/internal/logger"
	"war-map/internal/metrics"
	"war-map/internal/topology"
)

// Flags：结构标志位；仅 bit0 与 bit4 有定义，其余保留
type Flags uint32

const (
	FlagVictoryPoint Flags = 0x01
	FlagScorched     Flags = 0x10
)

func (f Flags) VictoryPoint() bool { return f&FlagVictoryPoint != 0 }
func (f Flags) Scorched() bool     { return f&FlagScorched != 0 }

// Structure：数据源上报的单个结构（局部坐标）
type Structure struct {
	Local orb.Point
	Type  Type
	Team  Team
	Flags Flags
}

// Classified：解码后的结构，坐标已换算为全局
type Classified struct {
	Hex          topology.HexID `json:"hex"`
	Global       orb.Point      `json:"position"`
	Type         Type           `json:"type"`
	Team         Team           `json:"team"`
	Flags        Flags          `json:"flags"`
	Label        string         `json:"label"`
	TeamColor    Color          `json:"team_color"`
	IconColor    Color          `json:"icon_color"`
	Group        string         `json:"group"`
	VictoryPoint bool           `json:"victory_point"`
	Scorched     bool           `json:"scorched"`
}

const (
	UnknownLabel      = "Unknown Structure"
	VictoryPointLabel = "Victory Point"
	scorchedPrefix    = "Scorched "
)

var friendlyNames = func() map[Type]string {
	m := make(map[Type]string, len(typeNames))
	for t, n := range typeNames {
		m[t] = FriendlyName(n)
	}
	return m
}()

// FriendlyName：枚举名转显示名（"RocketSiteWithRocket" → "Rocket Site With Rocket"，"TownBase1" → "Town Base 1"）
func FriendlyName(enum string) string {
	var b strings.Builder
	rs := []rune(enum)
	for i, r := range rs {
		if i > 0 && (unicode.IsUpper(r) || unicode.IsDigit(r)) && !(unicode.IsDigit(r) && unicode.IsDigit(rs[i-1])) {
			b.WriteRune(' ')
		}
		b.WriteRune(r)
	}
	words := strings.Fields(b.String())
	for i, w := range words {
		wr := []rune(strings.ToLower(w))
		wr[0] = unicode.ToUpper(wr[0])
		words[i] = string(wr)
	}
	return strings.Join(words, " ")
}

// Label：类型显示名，未知编码返回 UnknownLabel
func Label(t Type) string {
	if n, ok := friendlyNames[t]; ok {
		return n
	}
	return UnknownLabel
}

var warnedTypes sync.Map

// 文档注释：结构分类
// 背景：胜利点标志覆盖类型名，焦土标志追加前缀，两者可叠加（"Scorched Victory Point"）。
// 约束：总是成功；未知类型使用兜底名与 Other 分组，同一编码仅告警一次。
func Classify(hex topology.HexID, global orb.Point, s Structure) Classified {
	label := Label(s.Type)
	if !s.Type.Known() {
		metrics.UnknownTypesTotal.Inc()
		if _, seen := warnedTypes.LoadOrStore(s.Type, struct{}{}); !seen {
			logger.L().Warn("structure_unknown_type", "type", uint32(s.Type), "hex", hex)
		}
	}
	vp, scorched := s.Flags.VictoryPoint(), s.Flags.Scorched()
	if vp {
		label = VictoryPointLabel
	}
	if scorched {
		label = scorchedPrefix + label
	}
	icon := IconColor(s.Team)
	if scorched {
		icon = ScorchedIcon
	}
	return Classified{
		Hex:          hex,
		Global:       global,
		Type:         s.Type,
		Team:         s.Team,
		Flags:        s.Flags,
		Label:        label,
		TeamColor:    IconColor(s.Team),
		IconColor:    icon,
		Group:        LayerGroup(s.Type),
		VictoryPoint: vp,
		Scorched:     scorched,
	}
}
