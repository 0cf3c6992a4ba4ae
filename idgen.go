package asyncio

import "sync/atomic"

// idSeq hands out unique, monotonically increasing frame ids, mirroring
// generate_id() in the reference implementation. It is package-global
// because promise ids are not scoped to any one engine: plain generators
// exist happily without ever touching an Engine.
var idSeq atomic.Uint64

func nextID() uint64 {
	return idSeq.Add(1)
}
