package auth

const (
	PositionOwner    = "owner"
	PositionManager  = "manager"
	PositionStaff    = "staff"
	PositionParttime = "parttime"
)

var Positions = []string{PositionOwner, PositionManager, PositionStaff, PositionParttime}

func ValidPosition(position string) bool {
	for _, candidate := range Positions {
		if position == candidate {
			return true
		}
	}
	return false
}

// CanManageUsers reports whether a position may delete users or send
// manual broadcasts for its company.
func CanManageUsers(position string) bool {
	return position == PositionOwner || position == PositionManager
}
