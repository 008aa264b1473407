// 包 coords：把各六边形上报的局部坐标换算到统一的全局渲染坐标
package coords

import (
	"math"

	"github.com/paulmach/orb"

	"war-map/internal/topology"
)

// 文档注释：单个六边形的局部坐标标定参数
// 背景：数据源按六边形各自上报坐标，原点与轴向只在本六边形内有意义；标定值属于世界布局数据，由配置提供。
// 约束：Origin 为映射到六边形中心的局部点；ScaleX/ScaleY 可为负以翻转轴向；Rotation 为弧度。
type Calibration struct {
	Origin   orb.Point `yaml:"origin"`
	ScaleX   float64   `yaml:"scale_x"`
	ScaleY   float64   `yaml:"scale_y"`
	Rotation float64   `yaml:"rotation"`
}

// DefaultCalibration：数据源默认的局部空间为覆盖六边形包围盒的 [0,1]² 且 y 轴向下
func DefaultCalibration(size float64) Calibration {
	return Calibration{
		Origin: orb.Point{0.5, 0.5},
		ScaleX: 2 * size,
		ScaleY: -math.Sqrt(3) * size,
	}
}

// Matrix：center + R·S·(local − origin)
func (c Calibration) Matrix(center orb.Point) Affine {
	return Translate(-c.Origin[0], -c.Origin[1]).
		Then(Scale(c.ScaleX, c.ScaleY)).
		Then(Rotate(c.Rotation)).
		Then(Translate(center[0], center[1]))
}

// 文档注释：坐标归一化器
// 背景：每个六边形预先计算一个仿射矩阵；查询期只读，可被多个刷新任务并发使用。
// 约束：变换本身为纯函数且对任意有限输入不报错；仅未注册的六边形返回 ErrUnknownHex。
type Normalizer struct {
	topo *topology.Topology
	m    map[topology.HexID]Affine
}

// NewNormalizer：未在 overrides 中出现的六边形使用 def
func NewNormalizer(topo *topology.Topology, def Calibration, overrides map[topology.HexID]Calibration) *Normalizer {
	n := &Normalizer{topo: topo, m: make(map[topology.HexID]Affine, topo.Len())}
	for _, tile := range topo.Tiles() {
		c := def
		if o, ok := overrides[tile.ID]; ok {
			c = o
		}
		n.m[tile.ID] = c.Matrix(tile.Center)
	}
	return n
}

// Normalize：局部坐标 → 全局坐标
func (n *Normalizer) Normalize(id topology.HexID, local orb.Point) (orb.Point, error) {
	m, ok := n.m[id]
	if !ok {
		// 走一次注册表以得到带标识的统一错误
		_, err := n.topo.Center(id)
		return orb.Point{}, err
	}
	return m.Apply(local), nil
}
