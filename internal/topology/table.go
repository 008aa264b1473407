package topology

// 静态六边形表：标识、显示名与轴向坐标（平顶布局，q 为列、r 为斜行）
// 顺序即 AllHexIDs 的输出顺序
var defaultTable = []struct {
	id   HexID
	name string
	q, r int
}{
	{"BasinSionnachHex", "Basin Sionnach", 0, -3},
	{"ReachingTrailHex", "Reaching Trail", 0, -2},
	{"CallahansPassageHex", "Callahans Passage", 0, -1},
	{"DeadLandsHex", "Deadlands", 0, 0},
	{"UmbralWildwoodHex", "Umbral Wildwood", 0, 1},
	{"GreatMarchHex", "Great March", 0, 2},
	{"KalokaiHex", "Kalokai", 0, 3},

	{"SpeakingWoodsHex", "Speaking Woods", -1, -2},
	{"MooringCountyHex", "Mooring County", -1, -1},
	{"LinnMercyHex", "Linn of Mercy", -1, 0},
	{"LochMorHex", "Loch Mor", -1, 1},
	{"HeartlandsHex", "Heartlands", -1, 2},
	{"RedRiverHex", "Red River", -1, 3},

	{"CallumsCapeHex", "Callums Cape", -2, -1},
	{"StonecradleHex", "Stonecradle", -2, 0},
	{"KingsCageHex", "Kings Cage", -2, 1},
	{"SableportHex", "Sableport", -2, 2},
	{"AshFieldsHex", "Ash Fields", -2, 3},

	{"NevishLineHex", "Nevish Line", -3, 0},
	{"FarranacCoastHex", "Farranac Coast", -3, 1},
	{"WestgateHex", "Westgate", -3, 2},
	{"OriginHex", "Origin", -3, 3},

	{"HowlCountyHex", "Howl County", 1, -3},
	{"ViperPitHex", "Viper Pit", 1, -2},
	{"MarbanHollow", "Marban Hollow", 1, -1},
	{"DrownedValeHex", "Drowned Vale", 1, 0},
	{"ShackledChasmHex", "Shackled Chasm", 1, 1},
	{"AcrithiaHex", "Acrithia", 1, 2},

	{"ClansheadValleyHex", "Clanshead Valley", 2, -3},
	{"WeatheredExpanseHex", "Weathered Expanse", 2, -2},
	{"MorgensCrossingHex", "Morgens Crossing", 2, -1},
	{"EndlessShoreHex", "Endless Shore", 2, 0},
	{"AllodsBightHex", "Allods Bight", 2, 1},

	{"GodcroftsHex", "Godcrofts", 3, -3},
	{"TempestIslandHex", "Tempest Island", 3, -2},
	{"TheFingersHex", "The Fingers", 3, -1},
	{"TerminusHex", "Terminus", 3, 0},

	{"OarbreakerHex", "Oarbreaker", -4, 1},
	{"FishermansRowHex", "Fishermans Row", -4, 2},
	{"StemaLandingHex", "Stema Landing", -4, 3},
	{"StlicanShelfHex", "Stlican Shelf", -3, -1},
	{"ReaversPassHex", "Reavers Pass", 4, -3},
	{"ClahstraHex", "Clahstra", 4, -2},
}
