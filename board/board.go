package board

// Version 棋盘数据版本号。服务端和展示层必须使用同一份数据，
// 版本号在握手消息里下发，客户端不一致时应拒绝进入。
const Version = 2

// Kind 格子类型
type Kind string

const (
	KindCorner   Kind = "corner"
	KindProperty Kind = "property"
	KindStation  Kind = "station"
	KindUtility  Kind = "utility"
	KindTax      Kind = "tax"
	KindChance   Kind = "chance"
	KindChest    Kind = "chest"
)

// 特殊格子的固定位置
const (
	Size             = 40
	GoIndex          = 0
	JailIndex        = 10
	FreeParkingIndex = 20
	GoToJailIndex    = 30
)

// MaxImprovement 单格最高建筑等级（等级 5 相当于酒店）
const MaxImprovement = 5

// BaseStationRent 拥有一个车站时的基础租金，每多一个车站翻倍
const BaseStationRent = 25

// Tile 棋盘格子的静态描述。Rent 按建筑等级 0-5 索引；
// 对 tax 类型 Amount 是税额，其余字段为零值。
type Tile struct {
	Index           int    `json:"index"`
	Name            string `json:"name"`
	Kind            Kind   `json:"kind"`
	Group           string `json:"group,omitempty"`
	Price           int    `json:"price,omitempty"`
	Rent            [6]int `json:"rent,omitempty"`
	ImprovementCost int    `json:"improvement_cost,omitempty"`
	Amount          int    `json:"amount,omitempty"`
}

// Ownable 是否是可以被玩家买下的格子
func (t Tile) Ownable() bool {
	switch t.Kind {
	case KindProperty, KindStation, KindUtility:
		return true
	}
	return false
}

var tiles = [Size]Tile{
	{Index: 0, Name: "Go", Kind: KindCorner},
	{Index: 1, Name: "Mediterranean Avenue", Kind: KindProperty, Group: "brown", Price: 60, Rent: [6]int{2, 10, 30, 90, 160, 250}, ImprovementCost: 50},
	{Index: 2, Name: "Community Chest", Kind: KindChest},
	{Index: 3, Name: "Baltic Avenue", Kind: KindProperty, Group: "brown", Price: 60, Rent: [6]int{4, 20, 60, 180, 320, 450}, ImprovementCost: 50},
	{Index: 4, Name: "Income Tax", Kind: KindTax, Amount: 200},
	{Index: 5, Name: "Reading Railroad", Kind: KindStation, Group: "station", Price: 200},
	{Index: 6, Name: "Oriental Avenue", Kind: KindProperty, Group: "lightblue", Price: 100, Rent: [6]int{6, 30, 90, 270, 400, 550}, ImprovementCost: 50},
	{Index: 7, Name: "Chance", Kind: KindChance},
	{Index: 8, Name: "Vermont Avenue", Kind: KindProperty, Group: "lightblue", Price: 100, Rent: [6]int{6, 30, 90, 270, 400, 550}, ImprovementCost: 50},
	{Index: 9, Name: "Connecticut Avenue", Kind: KindProperty, Group: "lightblue", Price: 120, Rent: [6]int{8, 40, 100, 300, 450, 600}, ImprovementCost: 50},
	{Index: 10, Name: "Jail", Kind: KindCorner},
	{Index: 11, Name: "St. Charles Place", Kind: KindProperty, Group: "pink", Price: 140, Rent: [6]int{10, 50, 150, 450, 625, 750}, ImprovementCost: 100},
	{Index: 12, Name: "Electric Company", Kind: KindUtility, Group: "utility", Price: 150},
	{Index: 13, Name: "States Avenue", Kind: KindProperty, Group: "pink", Price: 140, Rent: [6]int{10, 50, 150, 450, 625, 750}, ImprovementCost: 100},
	{Index: 14, Name: "Virginia Avenue", Kind: KindProperty, Group: "pink", Price: 160, Rent: [6]int{12, 60, 180, 500, 700, 900}, ImprovementCost: 100},
	{Index: 15, Name: "Pennsylvania Railroad", Kind: KindStation, Group: "station", Price: 200},
	{Index: 16, Name: "St. James Place", Kind: KindProperty, Group: "orange", Price: 180, Rent: [6]int{14, 70, 200, 550, 750, 950}, ImprovementCost: 100},
	{Index: 17, Name: "Community Chest", Kind: KindChest},
	{Index: 18, Name: "Tennessee Avenue", Kind: KindProperty, Group: "orange", Price: 180, Rent: [6]int{14, 70, 200, 550, 750, 950}, ImprovementCost: 100},
	{Index: 19, Name: "New York Avenue", Kind: KindProperty, Group: "orange", Price: 200, Rent: [6]int{16, 80, 220, 600, 800, 1000}, ImprovementCost: 100},
	{Index: 20, Name: "Free Parking", Kind: KindCorner},
	{Index: 21, Name: "Kentucky Avenue", Kind: KindProperty, Group: "red", Price: 220, Rent: [6]int{18, 90, 250, 700, 875, 1050}, ImprovementCost: 150},
	{Index: 22, Name: "Chance", Kind: KindChance},
	{Index: 23, Name: "Indiana Avenue", Kind: KindProperty, Group: "red", Price: 220, Rent: [6]int{18, 90, 250, 700, 875, 1050}, ImprovementCost: 150},
	{Index: 24, Name: "Illinois Avenue", Kind: KindProperty, Group: "red", Price: 240, Rent: [6]int{20, 100, 300, 750, 925, 1100}, ImprovementCost: 150},
	{Index: 25, Name: "B. & O. Railroad", Kind: KindStation, Group: "station", Price: 200},
	{Index: 26, Name: "Atlantic Avenue", Kind: KindProperty, Group: "yellow", Price: 260, Rent: [6]int{22, 110, 330, 800, 975, 1150}, ImprovementCost: 150},
	{Index: 27, Name: "Ventnor Avenue", Kind: KindProperty, Group: "yellow", Price: 260, Rent: [6]int{22, 110, 330, 800, 975, 1150}, ImprovementCost: 150},
	{Index: 28, Name: "Water Works", Kind: KindUtility, Group: "utility", Price: 150},
	{Index: 29, Name: "Marvin Gardens", Kind: KindProperty, Group: "yellow", Price: 280, Rent: [6]int{24, 120, 360, 850, 1025, 1200}, ImprovementCost: 150},
	{Index: 30, Name: "Go To Jail", Kind: KindCorner},
	{Index: 31, Name: "Pacific Avenue", Kind: KindProperty, Group: "green", Price: 300, Rent: [6]int{26, 130, 390, 900, 1100, 1275}, ImprovementCost: 200},
	{Index: 32, Name: "North Carolina Avenue", Kind: KindProperty, Group: "green", Price: 300, Rent: [6]int{26, 130, 390, 900, 1100, 1275}, ImprovementCost: 200},
	{Index: 33, Name: "Community Chest", Kind: KindChest},
	{Index: 34, Name: "Pennsylvania Avenue", Kind: KindProperty, Group: "green", Price: 320, Rent: [6]int{28, 150, 450, 1000, 1200, 1400}, ImprovementCost: 200},
	{Index: 35, Name: "Short Line", Kind: KindStation, Group: "station", Price: 200},
	{Index: 36, Name: "Chance", Kind: KindChance},
	{Index: 37, Name: "Park Place", Kind: KindProperty, Group: "darkblue", Price: 350, Rent: [6]int{35, 175, 500, 1100, 1300, 1500}, ImprovementCost: 200},
	{Index: 38, Name: "Luxury Tax", Kind: KindTax, Amount: 100},
	{Index: 39, Name: "Boardwalk", Kind: KindProperty, Group: "darkblue", Price: 400, Rent: [6]int{50, 200, 600, 1400, 1700, 2000}, ImprovementCost: 200},
}

// Get 按位置取格子，位置按棋盘大小取模
func Get(pos int) Tile {
	return tiles[((pos%Size)+Size)%Size]
}

// Tiles 返回整张棋盘的副本
func Tiles() []Tile {
	out := make([]Tile, Size)
	copy(out, tiles[:])
	return out
}

// GroupTiles 返回某个颜色组的全部格子位置
func GroupTiles(group string) []int {
	var out []int
	for _, t := range tiles {
		if t.Group == group && t.Kind == KindProperty {
			out = append(out, t.Index)
		}
	}
	return out
}
