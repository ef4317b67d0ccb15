package game

import "fmt"

// Player tracks the resources of a single participant. Block allowances are
// indexed by round within the current phase, starting at round 1.
type Player struct {
	ID                int     `json:"id"`
	Color             string  `json:"color"`
	APPerRound        int     `json:"apPerRound"`
	BlockDistribution [][]int `json:"blockDistribution"`
	NumKnights        int     `json:"numKnights"`
	AP                int     `json:"ap"`
	NumBlocks         []int   `json:"numBlocks"`
	Points            int     `json:"points"`
}

// PlayerInfo is the part of a player that ending a turn can change.
type PlayerInfo struct {
	Points    int   `json:"points"`
	AP        int   `json:"ap"`
	NumBlocks []int `json:"numBlocks"`
}

func NewPlayer(id int, color string, numKnights, apPerRound int, blockDistribution [][]int) *Player {
	return &Player{
		ID:                id,
		Color:             color,
		APPerRound:        apPerRound,
		BlockDistribution: blockDistribution,
		NumKnights:        numKnights,
		AP:                apPerRound,
		NumBlocks:         append([]int(nil), blockDistribution[0]...),
	}
}

func (p *Player) Copy() *Player {
	cp := *p
	cp.NumBlocks = append([]int(nil), p.NumBlocks...)
	// the schedule is never mutated, sharing it between copies is fine
	return &cp
}

func (p *Player) Info() PlayerInfo {
	return PlayerInfo{Points: p.Points, AP: p.AP, NumBlocks: append([]int(nil), p.NumBlocks...)}
}

func (p *Player) ResetAttributesTo(info PlayerInfo) {
	p.Points = info.Points
	p.AP = info.AP
	p.NumBlocks = append(p.NumBlocks[:0], info.NumBlocks...)
}

func (p *Player) AddPoints(points int) {
	p.Points += points
}

func (p *Player) blocksLeft(round int) int {
	if round < 1 || round > len(p.NumBlocks) {
		return 0
	}
	return p.NumBlocks[round-1]
}

func (p *Player) CanPlaceBlock(round int) bool {
	return p.blocksLeft(round) >= 1 && p.AP >= 1
}

func (p *Player) PlaceBlock(round int) {
	p.NumBlocks[round-1]--
	p.AP--
}

func (p *Player) PlaceBlockUndo(round int) {
	p.NumBlocks[round-1]++
	p.AP++
}

func (p *Player) CanPlaceKnight() bool {
	return p.NumKnights >= 1 && p.AP >= 2
}

func (p *Player) PlaceKnight() {
	p.NumKnights--
	p.AP -= 2
}

func (p *Player) PlaceKnightUndo() {
	p.NumKnights++
	p.AP += 2
}

func (p *Player) CanMoveKnight() bool {
	return p.AP >= 1
}

func (p *Player) MoveKnight() {
	p.AP--
}

func (p *Player) MoveKnightUndo() {
	p.AP++
}

// EndTurn converts the unused action points into points.
func (p *Player) EndTurn() {
	p.Points += p.AP
	p.AP = 0
}

// EndRound refills the action points and carries the blocks left over from
// oldRound forward, topping later rounds up to MaxBlocksPerRound. Whatever
// does not fit is lost.
func (p *Player) EndRound(oldRound int) {
	p.AP = p.APPerRound
	if oldRound < 1 || oldRound > len(p.NumBlocks) {
		return
	}
	left := p.NumBlocks[oldRound-1]
	for i := oldRound; left > 0 && i < len(p.NumBlocks); i++ {
		for left > 0 && p.NumBlocks[i] < MaxBlocksPerRound {
			p.NumBlocks[i]++
			left--
		}
	}
	p.NumBlocks[oldRound-1] = 0
}

// EndPhase loads the block schedule of the phase following oldPhase.
func (p *Player) EndPhase(oldPhase int) {
	if oldPhase < len(p.BlockDistribution) {
		p.NumBlocks = append([]int(nil), p.BlockDistribution[oldPhase]...)
	}
}

func (p *Player) String() string {
	return fmt.Sprintf("ID: %d\tPoints: %d\tAP: %d\tKnights: %d\tBlocks: %v", p.ID, p.Points, p.AP, p.NumKnights, p.NumBlocks)
}
