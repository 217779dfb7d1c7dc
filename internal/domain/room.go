package domain

import "fmt"

// PrivateRoomID returns the broadcast room for a direct conversation between
// two users. The ids are ordered numerically before joining so that both
// participants compute the same identifier regardless of who initiates:
// PrivateRoomID(10, 2) == PrivateRoomID(2, 10) == "2_10". A lexical sort
// would misorder multi-digit ids ("10_2"), so the numeric comparison here is
// deliberate.
func PrivateRoomID(a, b int64) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("%d_%d", a, b)
}

// GroupRoomID returns the broadcast room for a group chat. The "group_"
// prefix keeps group rooms in a namespace disjoint from private room ids,
// which always contain an underscore between two numbers.
func GroupRoomID(groupID int64) string {
	return fmt.Sprintf("group_%d", groupID)
}
