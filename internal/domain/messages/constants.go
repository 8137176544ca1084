package messages

const (
	TypeSystem    = "system"
	TypeBroadcast = "broadcast"
	TypeDirect    = "direct"
)
