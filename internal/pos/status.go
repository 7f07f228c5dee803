package pos

type HeldStatus string

const (
	HeldStatusHeld      HeldStatus = "held"
	HeldStatusCompleted HeldStatus = "completed"
	HeldStatusDeleted   HeldStatus = "deleted"
)

// completed hanya lewat checkout sukses dari cart hasil resume;
// deleted hanya lewat penghapusan eksplisit.
var heldNext = map[HeldStatus]map[HeldStatus]bool{
	HeldStatusHeld:      {HeldStatusCompleted: true, HeldStatusDeleted: true},
	HeldStatusCompleted: {},
	HeldStatusDeleted:   {},
}

func CanTransitionHeld(from, to HeldStatus) bool {
	return heldNext[from][to]
}

type ShiftState string

const (
	ShiftOpen   ShiftState = "open"
	ShiftClosed ShiftState = "closed" // terminal untuk instance shift itu
)

type SyncStatus string

const (
	SyncPending SyncStatus = "pending"
	SyncSynced  SyncStatus = "synced"
	SyncError   SyncStatus = "error"
)

// Status charge dari gateway. Hanya ChargeSettled yang berarti lunas.
const (
	ChargePending   = "pending"
	ChargeSettled   = "settlement"
	ChargeExpired   = "expire"
	ChargeCancelled = "cancel"
	ChargeDenied    = "deny"
)
