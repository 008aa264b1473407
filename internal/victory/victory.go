// 包 victory：胜利点统计
package victory

import "war-map/internal/structure"

// Summary：各阵营持有的胜利点数量；Required 为扣除焦土后取胜所需数量
type Summary struct {
	Warden   int `json:"warden"`
	Colonial int `json:"colonial"`
	Scorched int `json:"scorched"`
	Required int `json:"required"`
}

// 文档注释：按胜利点结构汇总
// 约束：焦土的胜利点单独计数，不计入任一阵营；中立未焦土的胜利点不计数。
// Required = requiredTowns − Scorched。
func Summarize(requiredTowns int, items []structure.Classified) Summary {
	var s Summary
	for _, it := range items {
		if !it.VictoryPoint {
			continue
		}
		switch {
		case it.Scorched:
			s.Scorched++
		case it.Team == structure.TeamWardens:
			s.Warden++
		case it.Team == structure.TeamColonials:
			s.Colonial++
		}
	}
	s.Required = requiredTowns - s.Scorched
	return s
}

// Leader：领先阵营，持平时为 TeamNone
func (s Summary) Leader() structure.Team {
	switch {
	case s.Warden > s.Colonial:
		return structure.TeamWardens
	case s.Colonial > s.Warden:
		return structure.TeamColonials
	}
	return structure.TeamNone
}
