package game

// Player 单个玩家的经济与位置状态。字段只在房间的动作串行化下被修改，
// 引擎内部不加锁。
type Player struct {
	ID         string
	Name       string
	Color      string
	Cash       int
	Position   int
	Owned      []int
	Jailed     bool
	JailRounds int
	Bankrupt   bool
}

func (p *Player) owns(tile int) bool {
	for _, t := range p.Owned {
		if t == tile {
			return true
		}
	}
	return false
}

func (p *Player) addTile(tile int) {
	if !p.owns(tile) {
		p.Owned = append(p.Owned, tile)
	}
}

// PlayerView 对外快照
type PlayerView struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Color      string `json:"color"`
	Money      int    `json:"money"`
	Position   int    `json:"position"`
	Owned      []int  `json:"owned"`
	Jailed     bool   `json:"jailed"`
	JailRounds int    `json:"jailRounds"`
	Bankrupt   bool   `json:"bankrupt"`
}

func (p *Player) view() PlayerView {
	owned := make([]int, len(p.Owned))
	copy(owned, p.Owned)
	return PlayerView{
		ID:         p.ID,
		Name:       p.Name,
		Color:      p.Color,
		Money:      p.Cash,
		Position:   p.Position,
		Owned:      owned,
		Jailed:     p.Jailed,
		JailRounds: p.JailRounds,
		Bankrupt:   p.Bankrupt,
	}
}
