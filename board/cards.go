package board

// CardAction 卡片效果类型
type CardAction string

const (
	CardMoney      CardAction = "money"
	CardMove       CardAction = "move"
	CardJail       CardAction = "jail"
	CardPayAll     CardAction = "payAllPlayers"
	CardCollectAll CardAction = "collectFromAllPlayers"
)

// Card 机会/宝箱卡。Amount 对 money 卡可以为负；Target 只对 move 卡有效。
type Card struct {
	Text   string     `json:"text"`
	Action CardAction `json:"action"`
	Amount int        `json:"amount,omitempty"`
	Target int        `json:"target,omitempty"`
}

// DeckKind 牌堆类型
type DeckKind string

const (
	DeckChance DeckKind = "chance"
	DeckChest  DeckKind = "chest"
)

// 两个牌堆都是固定的，抽牌是独立均匀抽样（有放回），牌堆不会耗尽。
var chanceDeck = []Card{
	{Text: "Advance to Go", Action: CardMove, Target: GoIndex},
	{Text: "Advance to Illinois Avenue", Action: CardMove, Target: 24},
	{Text: "Advance to Boardwalk", Action: CardMove, Target: 39},
	{Text: "Go directly to Jail", Action: CardJail},
	{Text: "Bank pays you dividend of $50", Action: CardMoney, Amount: 50},
	{Text: "Speeding fine, pay $15", Action: CardMoney, Amount: -15},
	{Text: "You have been elected chairman of the board, pay each player $50", Action: CardPayAll, Amount: 50},
	{Text: "Your building loan matures, collect $150", Action: CardMoney, Amount: 150},
}

var chestDeck = []Card{
	{Text: "Advance to Go", Action: CardMove, Target: GoIndex},
	{Text: "Bank error in your favor, collect $200", Action: CardMoney, Amount: 200},
	{Text: "Doctor's fee, pay $50", Action: CardMoney, Amount: -50},
	{Text: "Go directly to Jail", Action: CardJail},
	{Text: "It is your birthday, collect $10 from every player", Action: CardCollectAll, Amount: 10},
	{Text: "Income tax refund, collect $20", Action: CardMoney, Amount: 20},
	{Text: "Hospital fees, pay $100", Action: CardMoney, Amount: -100},
	{Text: "Grand opera night, collect $50 from every player", Action: CardCollectAll, Amount: 50},
}

// Deck 返回指定牌堆的副本
func Deck(kind DeckKind) []Card {
	var src []Card
	if kind == DeckChance {
		src = chanceDeck
	} else {
		src = chestDeck
	}
	out := make([]Card, len(src))
	copy(out, src)
	return out
}

// DeckSize 指定牌堆的张数
func DeckSize(kind DeckKind) int {
	if kind == DeckChance {
		return len(chanceDeck)
	}
	return len(chestDeck)
}

// DrawCard 按下标取牌，供引擎用自己的随机源抽取
func DrawCard(kind DeckKind, idx int) Card {
	if kind == DeckChance {
		return chanceDeck[((idx%len(chanceDeck))+len(chanceDeck))%len(chanceDeck)]
	}
	return chestDeck[((idx%len(chestDeck))+len(chestDeck))%len(chestDeck)]
}
