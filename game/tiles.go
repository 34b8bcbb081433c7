package game

import (
	"github.com/wfunc/monopoly/board"
)

// resolveTile 结算行动者落点格的效果。diceTotal 用于公用事业租金，
// 卡片移动触发时传 0 走固定基数。返回 true 表示发出了买地报价，
// 回合交接要等答复。
func (g *Game) resolveTile(p *Player, diceTotal int) bool {
	tile := board.Get(p.Position)

	switch tile.Kind {
	case board.KindCorner:
		return false

	case board.KindTax:
		g.transferOrBankrupt(p, nil, tile.Amount)
		return false

	case board.KindChance:
		return g.drawCard(p, board.DeckChance)

	case board.KindChest:
		return g.drawCard(p, board.DeckChest)
	}

	// 可购格
	ownerID, owned := g.ownership[tile.Index]
	if !owned {
		if p.Cash >= tile.Price {
			g.pendingTile = tile.Index
			g.notifier.Target(p.ID, EvtPurchaseOffer, PurchaseOfferEvent{
				Tile:  tile.Index,
				Name:  tile.Name,
				Price: tile.Price,
			})
			return true
		}
		return false
	}
	if ownerID == p.ID {
		return false
	}

	owner := g.playerByID(ownerID)
	rent := g.Rent(tile.Index, diceTotal)
	paid := g.transferOrBankrupt(p, owner, rent)
	g.notifier.Broadcast(EvtRentPaid, RentPaidEvent{
		FromID: p.ID,
		ToID:   ownerID,
		Tile:   tile.Index,
		Amount: paid,
	})
	return false
}

// drawCard 有放回地均匀抽一张牌并应用效果。move 卡重新进入移动
// 流程（含过起点奖励）并再结算新落点。
func (g *Game) drawCard(p *Player, deck board.DeckKind) bool {
	card := board.DrawCard(deck, g.draw(board.DeckSize(deck)))
	g.notifier.Broadcast(EvtCardDrawn, CardDrawnEvent{PlayerID: p.ID, Deck: string(deck), Card: card})

	switch card.Action {
	case board.CardMoney:
		if card.Amount >= 0 {
			p.Cash += card.Amount
			g.notifyMoney(p)
		} else {
			g.transferOrBankrupt(p, nil, -card.Amount)
		}

	case board.CardMove:
		steps := (card.Target - p.Position + board.Size) % board.Size
		if g.moveBy(p, steps) {
			return false
		}
		return g.resolveTile(p, 0)

	case board.CardJail:
		g.sendToJail(p, JailReasonCard)

	case board.CardPayAll:
		for _, other := range g.players {
			if other == p || other.Bankrupt {
				continue
			}
			g.transferOrBankrupt(p, other, card.Amount)
			if p.Bankrupt || g.status != StatusPlaying {
				break
			}
		}

	case board.CardCollectAll:
		for _, other := range g.players {
			if other == p || other.Bankrupt {
				continue
			}
			g.transferOrBankrupt(other, p, card.Amount)
			if g.status != StatusPlaying {
				break
			}
		}
	}
	return false
}
