package cache

// IIpCache remembers the last public address seen by a group and how often
// the lookup has failed in a row.
type IIpCache interface {
	// Check stores addr and reports whether it differs from the previous one.
	Check(addr string) bool
	IncreaseFailedTimes()
	ResetFailedTimes()
	GetFailedTimes() int
	GetTimes() int
	GetAddr() string
}
