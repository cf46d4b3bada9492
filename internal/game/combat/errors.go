package combat

import "errors"

var (
	ErrNotAwaitingMove     = errors.New("combat: battle is not awaiting a move")
	ErrSlotOutOfRange      = errors.New("combat: move slot out of range")
	ErrMoveUnusable        = errors.New("combat: move is not usable")
	ErrIllegalTarget       = errors.New("combat: illegal target")
	ErrBattleOver          = errors.New("combat: battle is over")
	ErrRosterSize          = errors.New("combat: each roster must hold exactly 3 units")
	ErrInvalidUnit         = errors.New("combat: invalid unit")
	ErrInvalidConfig       = errors.New("combat: invalid config")
	ErrSnapshotPhase       = errors.New("combat: snapshots are only taken between turns")
	ErrSourceNotRestorable = errors.New("combat: random source cannot be snapshotted")
	ErrUnknownDefinition   = errors.New("combat: unknown definition")
	ErrTurnLimit           = errors.New("combat: turn limit reached")
)
