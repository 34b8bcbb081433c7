package game

// RollDice 当前行动者掷骰。监狱内外走不同的子状态机；
// 非监狱掷骰后移动并结算落点格，双数（未入狱时）获得加掷。
func (g *Game) RollDice(actorID string) error {
	p, err := g.requireActor(actorID)
	if err != nil {
		return err
	}
	if g.phase != PhaseAwaitRoll {
		return ErrDecisionPending
	}

	d1, d2 := g.dice()
	total := d1 + d2
	doubles := d1 == d2
	g.notifier.Broadcast(EvtDiceResult, DiceResultEvent{PlayerID: p.ID, Die1: d1, Die2: d2, Total: total})

	if p.Jailed {
		g.rollInJail(p, d1, d2)
		return nil
	}

	if doubles {
		g.doublesStreak++
	} else {
		g.doublesStreak = 0
	}
	if g.cfg.TripleDoublesToJail && g.doublesStreak >= 3 {
		g.sendToJail(p, JailReasonTripleDoubles)
		g.advanceTurn()
		return nil
	}

	g.landAfterRoll(p, total, doubles)
	return nil
}

// rollInJail 监狱子状态机：双数立即释放并移动；第三次失败强制交保释金
// （交不起则破产给银行）；其余情况留在监狱，回合结束。
func (g *Game) rollInJail(p *Player, d1, d2 int) {
	if d1 == d2 {
		g.releaseFromJail(p, JailReasonDoubles)
		g.landAfterRoll(p, d1+d2, false)
		return
	}

	p.JailRounds++
	if p.JailRounds < 3 {
		g.notifier.Broadcast(EvtJail, JailEvent{PlayerID: p.ID, Entered: true, Reason: JailReasonHeld, Rounds: p.JailRounds})
		g.advanceTurn()
		return
	}

	g.transferOrBankrupt(p, nil, g.cfg.BailAmount)
	if p.Bankrupt {
		if g.status == StatusPlaying {
			g.advanceTurn()
		}
		return
	}
	g.releaseFromJail(p, JailReasonForcedBail)
	g.landAfterRoll(p, d1+d2, false)
}

func (g *Game) releaseFromJail(p *Player, reason string) {
	p.Jailed = false
	p.JailRounds = 0
	g.notifier.Broadcast(EvtJail, JailEvent{PlayerID: p.ID, Entered: false, Reason: reason})
}

// landAfterRoll 移动、结算落点，然后决定回合去向：
// 挂起买地报价、授予加掷、或交接给下一个玩家。
func (g *Game) landAfterRoll(p *Player, total int, doubles bool) {
	if g.moveBy(p, total) {
		// 直接入狱格，双数也救不了
		g.advanceTurn()
		return
	}
	pending := g.resolveTile(p, total)
	if g.status != StatusPlaying {
		return
	}
	if p.Bankrupt || p.Jailed {
		g.advanceTurn()
		return
	}
	if pending {
		g.phase = PhaseAwaitDecision
		g.extraRoll = doubles
		return
	}
	if doubles {
		g.grantExtraRoll()
		return
	}
	g.advanceTurn()
}

// grantExtraRoll 同一行动者再掷一次，倒计时窗口重新开始
func (g *Game) grantExtraRoll() {
	g.phase = PhaseAwaitRoll
	g.extraRoll = false
	g.pendingTile = -1
	g.generation++
}

// finishDecision 买地报价已答复，按是否欠加掷决定回合去向
func (g *Game) finishDecision(p *Player) {
	g.pendingTile = -1
	if g.extraRoll && !p.Bankrupt && !p.Jailed {
		g.grantExtraRoll()
		return
	}
	g.advanceTurn()
}

// EndTurn 行动者主动结束：拒绝买地报价或放弃行动。
// 报价挂起时视为拒绝，之后仍兑现欠下的加掷。
func (g *Game) EndTurn(actorID string) error {
	p, err := g.requireActor(actorID)
	if err != nil {
		return err
	}
	if g.phase == PhaseAwaitDecision {
		g.finishDecision(p)
		return nil
	}
	g.advanceTurn()
	return nil
}

// ForcePass 回合计时器到点，视同行动者结束了回合。
// 调用方（房间层）负责校验代数，过期的回调不应走到这里。
func (g *Game) ForcePass() {
	if g.status != StatusPlaying {
		return
	}
	g.advanceTurn()
}
