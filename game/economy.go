package game

import (
	"github.com/wfunc/monopoly/board"
)

// Rent 计算某格当前应付租金。车站按拥有数量翻倍，公用事业按
// 骰子点数乘系数，普通地产查建筑等级租金表。
func (g *Game) Rent(tileIndex, diceTotal int) int {
	tile := board.Get(tileIndex)
	ownerID, owned := g.ownership[tileIndex]
	if !owned {
		return 0
	}
	owner := g.playerByID(ownerID)

	switch tile.Kind {
	case board.KindStation:
		count := 0
		for _, t := range owner.Owned {
			if board.Get(t).Kind == board.KindStation {
				count++
			}
		}
		if count == 0 {
			return 0
		}
		return board.BaseStationRent << (count - 1)

	case board.KindUtility:
		basis := diceTotal
		if basis <= 0 {
			basis = FallbackDiceBasis
		}
		return basis * g.cfg.UtilityMultiplier

	default:
		return tile.Rent[g.improvements[tileIndex]]
	}
}

// BuyProperty 答复买地报价：只在行动者正站在无主可购格、报价挂起、
// 现金足够时有效。
func (g *Game) BuyProperty(actorID string) error {
	p, err := g.requireActor(actorID)
	if err != nil {
		return err
	}
	if g.phase != PhaseAwaitDecision || g.pendingTile != p.Position {
		return ErrNoPendingPurchase
	}
	tile := board.Get(p.Position)
	if _, taken := g.ownership[tile.Index]; taken {
		return ErrTileOwned
	}
	if p.Cash < tile.Price {
		return ErrInsufficientFunds
	}

	p.Cash -= tile.Price
	g.ownership[tile.Index] = p.ID
	p.addTile(tile.Index)
	g.notifier.Broadcast(EvtPropertyBought, PropertyBoughtEvent{
		PlayerID: p.ID,
		Tile:     tile.Index,
		Price:    tile.Price,
		Money:    p.Cash,
	})
	g.finishDecision(p)
	return nil
}

// Upgrade 加盖建筑。要求行动者拥有该颜色组的全部地块（垄断门槛），
// 等级未达上限且现金足够，每次只升一级。不消耗回合。
func (g *Game) Upgrade(actorID string, tileIndex int) error {
	p, err := g.requireActor(actorID)
	if err != nil {
		return err
	}
	tile := board.Get(tileIndex)
	if tile.Kind != board.KindProperty {
		return ErrNotImprovable
	}
	if g.ownership[tileIndex] != p.ID {
		return ErrNotOwner
	}
	for _, t := range board.GroupTiles(tile.Group) {
		if g.ownership[t] != p.ID {
			return ErrNoMonopoly
		}
	}
	level := g.improvements[tileIndex]
	if level >= board.MaxImprovement {
		return ErrMaxImprovement
	}
	if p.Cash < tile.ImprovementCost {
		return ErrInsufficientFunds
	}

	p.Cash -= tile.ImprovementCost
	g.improvements[tileIndex] = level + 1
	g.notifier.Broadcast(EvtPropertyUpgraded, PropertyUpgradedEvent{
		PlayerID: p.ID,
		Tile:     tileIndex,
		Level:    level + 1,
		Money:    p.Cash,
	})
	return nil
}

// PayBail 主动交保释金出狱。不消耗回合，交完仍可掷骰。
func (g *Game) PayBail(actorID string) error {
	p, err := g.requireActor(actorID)
	if err != nil {
		return err
	}
	if !p.Jailed {
		return ErrNotJailed
	}
	if g.phase != PhaseAwaitRoll {
		return ErrDecisionPending
	}
	if p.Cash < g.cfg.BailAmount {
		return ErrInsufficientFunds
	}

	p.Cash -= g.cfg.BailAmount
	g.notifyMoney(p)
	g.releaseFromJail(p, JailReasonBail)
	return nil
}

// transferOrBankrupt 强制支付。to 为 nil 表示付给银行。
// 现金不足时把剩余现金全部付出并触发破产清算，返回实际支付额。
func (g *Game) transferOrBankrupt(from, to *Player, amount int) int {
	if amount <= 0 {
		return 0
	}
	if from.Cash >= amount {
		from.Cash -= amount
		g.notifyMoney(from)
		if to != nil {
			to.Cash += amount
			g.notifyMoney(to)
		}
		return amount
	}

	paid := from.Cash
	from.Cash = 0
	g.notifyMoney(from)
	if to != nil && paid > 0 {
		to.Cash += paid
		g.notifyMoney(to)
	}
	g.resolveBankruptcy(from, to)
	return paid
}
