// Package pool holds the *dns.Msg scratch-buffer pool cache/snapshot.go
// uses while walking every live entry to build a diagnostic dump: one
// throwaway *dns.Msg per entry would otherwise churn the allocator on
// every /debug/snapshot request.
package pool

import (
	"sync"

	"github.com/miekg/dns"
)

var msgPool = sync.Pool{
	New: func() interface{} {
		return new(dns.Msg)
	},
}

// GetMsg returns a *dns.Msg from the pool.
// The caller MUST call ReleaseMsg after use.
// The returned msg is always zeroed: it is either fresh from New or
// was cleared by ReleaseMsg before going back into the pool.
func GetMsg() *dns.Msg {
	return msgPool.Get().(*dns.Msg)
}

// ReleaseMsg returns a *dns.Msg to the pool.
// After calling ReleaseMsg, the caller MUST NOT access the msg.
func ReleaseMsg(m *dns.Msg) {
	// Zero the struct to avoid holding references to old data.
	*m = dns.Msg{}
	msgPool.Put(m)
}
