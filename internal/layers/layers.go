// 包 layers：把快照与可见性状态组合为按 z 序排列的 GeoJSON 图层
package layers

import (
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"war-map/internal/refresh"
	"war-map/internal/sector"
	"war-map/internal/structure"
	"war-map/internal/topology"
	"war-map/internal/visibility"
	"war-map/internal/warapi"
)

const (
	ZStructures = 40
	ZHexOverlay = 90
	ZLabels     = 90
	ZHexNames   = 91
	ZSectors    = 92
)

const (
	TitleHexOverlay = "Hexagon"
	TitleHexNames   = "Hex Names"
	TitleSectors    = "Hex Sectors"
)

// Layer：一个可渲染图层；MinZoom/MaxZoom 为 0 表示不限
type Layer struct {
	Title    string                     `json:"title"`
	Group    string                     `json:"group,omitempty"`
	ZIndex   int                        `json:"z_index"`
	MinZoom  float64                    `json:"min_zoom,omitempty"`
	MaxZoom  float64                    `json:"max_zoom,omitempty"`
	Opacity  float64                    `json:"opacity"`
	Features *geojson.FeatureCollection `json:"features"`
}

// GroupStates：分组状态来源（visibility.State 实现之）
type GroupStates interface {
	Get(group string) (visibility.GroupState, bool)
}

// 文档注释：组合图层
// 背景：结构按分组各成一层，隐藏的分组不出图层；覆盖层、名称层、领地层与地名层不受分组开关影响。
// 约束：纯函数，不修改快照；输出按 ZIndex 升序，同 z 保持生成顺序；nil 快照返回 nil。
func Compose(snap *refresh.Snapshot, states GroupStates) []Layer {
	if snap == nil {
		return nil
	}
	var out []Layer
	out = append(out, hexOverlay(snap), hexNames(snap), Layer{
		Title: TitleSectors, ZIndex: ZSectors, Opacity: 1, Features: SectorCollection(snap, ""),
	})

	visible := func(g string) bool {
		st, ok := states.Get(g)
		return ok && st.Visible
	}
	byGroup := refresh.Filter(snap, visible)
	for _, g := range structure.AllGroups() {
		items, ok := byGroup[g]
		if !ok {
			continue
		}
		st, _ := states.Get(g)
		fc := geojson.NewFeatureCollection()
		for _, it := range items {
			fc.Append(structureFeature(it))
		}
		out = append(out, Layer{Title: g, Group: g, ZIndex: ZStructures, Opacity: st.Opacity, Features: fc})
	}

	out = append(out, labelLayer(snap, warapi.MarkerMajor, 5), labelLayer(snap, warapi.MarkerMinor, 6))
	sort.SliceStable(out, func(i, j int) bool { return out[i].ZIndex < out[j].ZIndex })
	return out
}

func hexOverlay(snap *refresh.Snapshot) Layer {
	fc := geojson.NewFeatureCollection()
	for _, h := range snap.Hexes {
		f := geojson.NewFeature(orb.Polygon{h.Boundary})
		f.Properties["id"] = string(h.ID)
		f.Properties["stroke"] = "#444"
		f.Properties["stroke-width"] = 2
		fc.Append(f)
	}
	return Layer{Title: TitleHexOverlay, ZIndex: ZHexOverlay, Opacity: 1, Features: fc}
}

func hexNames(snap *refresh.Snapshot) Layer {
	fc := geojson.NewFeatureCollection()
	for _, h := range snap.Hexes {
		f := geojson.NewFeature(h.Center)
		f.Properties["id"] = string(h.ID)
		f.Properties["name"] = h.Name
		fc.Append(f)
	}
	return Layer{Title: TitleHexNames, ZIndex: ZHexNames, MaxZoom: 6, Opacity: 1, Features: fc}
}

func labelLayer(snap *refresh.Snapshot, class warapi.MarkerType, minZoom float64) Layer {
	fc := geojson.NewFeatureCollection()
	for _, l := range snap.Labels {
		if l.Class != class {
			continue
		}
		f := geojson.NewFeature(l.Global)
		f.Properties["name"] = l.Text
		f.Properties["hex"] = string(l.Hex)
		f.Properties["class"] = string(l.Class)
		fc.Append(f)
	}
	return Layer{Title: string(class) + " Regions", ZIndex: ZLabels, MinZoom: minZoom, MaxZoom: 7, Opacity: 1, Features: fc}
}

func structureFeature(it structure.Classified) *geojson.Feature {
	f := geojson.NewFeature(it.Global)
	f.Properties["hex"] = string(it.Hex)
	f.Properties["label"] = it.Label
	f.Properties["type"] = uint32(it.Type)
	f.Properties["team"] = string(it.Team)
	f.Properties["group"] = it.Group
	f.Properties["color"] = it.IconColor.CSS()
	f.Properties["victory_point"] = it.VictoryPoint
	f.Properties["scorched"] = it.Scorched
	return f
}

// SectorCollection：领地要素集合；hex 为空时包含全部六边形（按六边形标识排序）
func SectorCollection(snap *refresh.Snapshot, hex topology.HexID) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	ids := make([]topology.HexID, 0, len(snap.Sectors))
	for id := range snap.Sectors {
		if hex == "" || id == hex {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		for _, p := range snap.Sectors[id] {
			fc.Append(sectorFeature(id, p))
		}
	}
	return fc
}

func sectorFeature(hex topology.HexID, p sector.Polygon) *geojson.Feature {
	f := geojson.NewFeature(p.Geometry)
	f.Properties["hex"] = string(hex)
	f.Properties["team"] = string(p.Team)
	f.Properties["fill"] = p.Color.CSS()
	f.Properties["stroke"] = structure.SectorStroke.CSS()
	f.Properties["site"] = p.Site
	return f
}
