package game

// resolveBankruptcy 破产清算：标记破产、拆光建筑、地块转给债权人
// 或回到银行、剩余现金（正常情况下已是零）也一并转移。
// 清算后检查是否只剩一个未破产玩家。
func (g *Game) resolveBankruptcy(debtor *Player, creditor *Player) {
	if debtor.Bankrupt {
		return
	}
	debtor.Bankrupt = true
	debtor.Jailed = false
	debtor.JailRounds = 0

	for _, t := range debtor.Owned {
		delete(g.improvements, t)
		if creditor != nil {
			g.ownership[t] = creditor.ID
			creditor.addTile(t)
		} else {
			delete(g.ownership, t)
		}
	}
	debtor.Owned = nil

	if debtor.Cash > 0 {
		if creditor != nil {
			creditor.Cash += debtor.Cash
			g.notifyMoney(creditor)
		}
		debtor.Cash = 0
		g.notifyMoney(debtor)
	}

	evt := PlayerBankruptEvent{PlayerID: debtor.ID}
	if creditor != nil {
		evt.CreditorID = creditor.ID
	}
	g.notifier.Broadcast(EvtPlayerBankrupt, evt)

	g.checkWin()
}

// checkWin 恰好剩一个未破产玩家时终局。状态只会从 PLAYING 进入
// FINISHED 一次，之后所有修改动作都被拒绝。
func (g *Game) checkWin() {
	if g.status != StatusPlaying || len(g.players) < 2 {
		return
	}
	var last *Player
	alive := 0
	for _, p := range g.players {
		if !p.Bankrupt {
			alive++
			last = p
		}
	}
	if alive != 1 {
		return
	}
	g.status = StatusFinished
	g.winner = last.ID
	g.notifier.Broadcast(EvtGameOver, GameOverEvent{WinnerID: last.ID})
}
