package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/paulmach/orb"
	"gopkg.in/yaml.v3"

	"war-map/internal/coords"
	"war-map/internal/topology"
)

// HexEntry：单个六边形的覆盖项，均可省略
type HexEntry struct {
	Center      *orb.Point          `yaml:"center"`
	Calibration *coords.Calibration `yaml:"calibration"`
}

// 文档注释：标定文件
// 背景：世界布局（六边形中心）与各六边形局部坐标标定属于数据而非代码；未提供文件时使用内置布局与默认标定。
// 示例：
//
//	hex_size: 256
//	default: {origin: [0.5, 0.5], scale_x: 512, scale_y: -443.4, rotation: 0}
//	hexes:
//	  DeadLandsHex:
//	    center: [0, 0]
//	    calibration: {origin: [0.5, 0.5], scale_x: 512, scale_y: -443.4}
type CalibrationFile struct {
	HexSize float64                     `yaml:"hex_size"`
	Default *coords.Calibration         `yaml:"default"`
	Hexes   map[topology.HexID]HexEntry `yaml:"hexes"`
}

// LoadCalibration：path 为空时返回空文件（全部默认）
func LoadCalibration(path string) (*CalibrationFile, error) {
	if path == "" {
		return &CalibrationFile{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read calibration file: %w", err)
	}
	return ParseCalibration(data)
}

func ParseCalibration(data []byte) (*CalibrationFile, error) {
	var f CalibrationFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse calibration file: %w", err)
	}
	return &f, nil
}

// 文档注释：构建拓扑与归一化器
// 约束：文件中的 hex_size 优先于 size；文件引用未注册的六边形返回 ErrUnknownHex；
// 缩放为 0 或任一参数非有限时返回错误，避免整片六边形塌缩为一点。
func (f *CalibrationFile) Build(size float64) (*topology.Topology, *coords.Normalizer, error) {
	if f.HexSize > 0 {
		size = f.HexSize
	}
	tiles := topology.DefaultTiles(size)
	index := make(map[topology.HexID]int, len(tiles))
	for i, t := range tiles {
		index[t.ID] = i
	}
	overrides := make(map[topology.HexID]coords.Calibration)
	for id, e := range f.Hexes {
		i, ok := index[id]
		if !ok {
			return nil, nil, fmt.Errorf("calibration: %w: %q", topology.ErrUnknownHex, id)
		}
		if e.Center != nil {
			tiles[i].Center = *e.Center
		}
		if e.Calibration != nil {
			if err := validate(*e.Calibration); err != nil {
				return nil, nil, fmt.Errorf("calibration %s: %w", id, err)
			}
			overrides[id] = *e.Calibration
		}
	}
	topo, err := topology.New(tiles, size)
	if err != nil {
		return nil, nil, err
	}
	def := coords.DefaultCalibration(size)
	if f.Default != nil {
		if err := validate(*f.Default); err != nil {
			return nil, nil, fmt.Errorf("calibration default: %w", err)
		}
		def = *f.Default
	}
	return topo, coords.NewNormalizer(topo, def, overrides), nil
}

var errDegenerate = errors.New("degenerate calibration")

func validate(c coords.Calibration) error {
	for _, v := range []float64{c.Origin[0], c.Origin[1], c.ScaleX, c.ScaleY, c.Rotation} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errDegenerate
		}
	}
	if c.ScaleX == 0 || c.ScaleY == 0 {
		return errDegenerate
	}
	return nil
}
