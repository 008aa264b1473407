package sector

import "war-map/internal/structure"

// SitesFrom：从已分类结构中挑出参与领地划分的基地，保持输入顺序
func SitesFrom(items []structure.Classified) []Site {
	var sites []Site
	for _, it := range items {
		if !structure.IsSectorBase(it.Type) {
			continue
		}
		sites = append(sites, Site{Pos: it.Global, Team: it.Team, Color: structure.SectorColor(it.Team)})
	}
	return sites
}
