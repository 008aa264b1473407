package structure

// Type：数据源的结构类型编码（iconType）
type Type uint32

// 已知类型编码；注释中的版本号为数据源引入或移除该类型的更新
const (
	StaticBase1           Type = 5 // 移除于 Update 46
	StaticBase2           Type = 6
	StaticBase3           Type = 7
	ForwardBase1          Type = 8
	ForwardBase2          Type = 9  // 移除于 Update 50
	ForwardBase3          Type = 10 // 移除于 Update 50
	Hospital              Type = 11
	VehicleFactory        Type = 12
	Armory                Type = 13
	SupplyStation         Type = 14
	Workshop              Type = 15
	ManufacturingPlant    Type = 16
	Refinery              Type = 17
	Shipyard              Type = 18
	TechCenter            Type = 19
	SalvageField          Type = 20
	ComponentField        Type = 21
	FuelField             Type = 22
	SulfurField           Type = 23
	WorldMapTent          Type = 24
	TravelTent            Type = 25
	TrainingArea          Type = 26
	SpecialBaseKeep       Type = 27
	ObservationTower      Type = 28
	Fort                  Type = 29
	TroopShip             Type = 30
	SulfurMine            Type = 32
	StorageFacility       Type = 33
	Factory               Type = 34
	GarrisonStation       Type = 35
	AmmoFactory           Type = 36
	RocketSite            Type = 37
	SalvageMine           Type = 38
	ConstructionYard      Type = 39
	ComponentMine         Type = 40
	OilWell               Type = 41 // 移除于 Update 50
	RelicBase1            Type = 45
	RelicBase2            Type = 46
	RelicBase3            Type = 47
	MassProductionFactory Type = 51
	Seaport               Type = 52
	CoastalGun            Type = 53
	SoulFactory           Type = 54
	TownBase1             Type = 56
	TownBase2             Type = 57
	TownBase3             Type = 58
	StormCannon           Type = 59
	IntelCenter           Type = 60
	CoalField             Type = 61
	OilField              Type = 62
	RocketTarget          Type = 70
	RocketGroundZero      Type = 71
	RocketSiteWithRocket  Type = 72
	FacilityMineOilRig    Type = 75
	WeatherStation        Type = 83
	MortarHouse           Type = 84
)

var typeNames = map[Type]string{
	StaticBase1:           "StaticBase1",
	StaticBase2:           "StaticBase2",
	StaticBase3:           "StaticBase3",
	ForwardBase1:          "ForwardBase1",
	ForwardBase2:          "ForwardBase2",
	ForwardBase3:          "ForwardBase3",
	Hospital:              "Hospital",
	VehicleFactory:        "VehicleFactory",
	Armory:                "Armory",
	SupplyStation:         "SupplyStation",
	Workshop:              "Workshop",
	ManufacturingPlant:    "ManufacturingPlant",
	Refinery:              "Refinery",
	Shipyard:              "Shipyard",
	TechCenter:            "TechCenter",
	SalvageField:          "SalvageField",
	ComponentField:        "ComponentField",
	FuelField:             "FuelField",
	SulfurField:           "SulfurField",
	WorldMapTent:          "WorldMapTent",
	TravelTent:            "TravelTent",
	TrainingArea:          "TrainingArea",
	SpecialBaseKeep:       "SpecialBaseKeep",
	ObservationTower:      "ObservationTower",
	Fort:                  "Fort",
	TroopShip:             "TroopShip",
	SulfurMine:            "SulfurMine",
	StorageFacility:       "StorageFacility",
	Factory:               "Factory",
	GarrisonStation:       "GarrisonStation",
	AmmoFactory:           "AmmoFactory",
	RocketSite:            "RocketSite",
	SalvageMine:           "SalvageMine",
	ConstructionYard:      "ConstructionYard",
	ComponentMine:         "ComponentMine",
	OilWell:               "OilWell",
	RelicBase1:            "RelicBase1",
	RelicBase2:            "RelicBase2",
	RelicBase3:            "RelicBase3",
	MassProductionFactory: "MassProductionFactory",
	Seaport:               "Seaport",
	CoastalGun:            "CoastalGun",
	SoulFactory:           "SoulFactory",
	TownBase1:             "TownBase1",
	TownBase2:             "TownBase2",
	TownBase3:             "TownBase3",
	StormCannon:           "StormCannon",
	IntelCenter:           "IntelCenter",
	CoalField:             "CoalField",
	OilField:              "OilField",
	RocketTarget:          "RocketTarget",
	RocketGroundZero:      "RocketGroundZero",
	RocketSiteWithRocket:  "RocketSiteWithRocket",
	FacilityMineOilRig:    "FacilityMineOilRig",
	WeatherStation:        "WeatherStation",
	MortarHouse:           "MortarHouse",
}

// String：枚举名，未知编码返回空串
func (t Type) String() string { return typeNames[t] }

// Known：编码是否在类型表中
func (t Type) Known() bool {
	_, ok := typeNames[t]
	return ok
}

// 图层分组：多对一，未收录的类型归入 GroupOther
const GroupOther = "Other"

var typeGroups = map[Type]string{
	CoalField:      "Fields",
	OilField:       "Fields",
	FuelField:      "Fields",
	SalvageField:   "Fields",
	ComponentField: "Fields",
	SulfurField:    "Fields",

	SalvageMine:   "Mines",
	SulfurMine:    "Mines",
	ComponentMine: "Mines",
	OilWell:       "Mines",

	StorageFacility: "Storage",
	Seaport:         "Storage",

	Refinery: "Refinery",

	Factory:               "Factory",
	MassProductionFactory: "Factory",

	VehicleFactory: "Garage",
	Shipyard:       "Garage",

	Hospital:       "Hospital",
	TechCenter:     "Tech Center",
	StormCannon:    "Storm Cannon",
	IntelCenter:    "Intelligence Center",
	WeatherStation: "Weather Station",

	RocketGroundZero:     "Rocket",
	RocketSite:           "Rocket",
	RocketSiteWithRocket: "Rocket",
	RocketTarget:         "Rocket",

	RelicBase1: "Relic Base",
	RelicBase2: "Relic Base",
	RelicBase3: "Relic Base",

	SpecialBaseKeep: "Keep",

	TownBase1: "Town Base",
	TownBase2: "Town Base",
	TownBase3: "Town Base",
}

// Groups：全部命名分组（不含 Other），顺序稳定
var Groups = []string{
	"Fields", "Mines", "Storage", "Refinery", "Factory", "Garage", "Hospital",
	"Tech Center", "Storm Cannon", "Intelligence Center", "Weather Station",
	"Rocket", "Relic Base", "Keep", "Town Base",
}

// AllGroups：命名分组加 Other，作为可见性默认分组
func AllGroups() []string {
	return append(append(make([]string, 0, len(Groups)+1), Groups...), GroupOther)
}

// LayerGroup：类型所属图层分组
func LayerGroup(t Type) string {
	if g, ok := typeGroups[t]; ok {
		return g
	}
	return GroupOther
}

// IsSectorBase：参与领地划分的基地类型
func IsSectorBase(t Type) bool {
	switch t {
	case TownBase1, TownBase2, TownBase3, RelicBase1, RelicBase2, RelicBase3:
		return true
	}
	return false
}
