package connmgr

import (
	"sync"
	"sync/atomic"

	"github.com/dep2p/go-mmst/pkg/types"
)

// fakeConn 测试用连接
type fakeConn struct {
	done   chan struct{}
	once   sync.Once
	closes atomic.Int32
}

func newFakeConn() *fakeConn {
	return &fakeConn{done: make(chan struct{})}
}

func (c *fakeConn) Done() <-chan struct{} { return c.done }

func (c *fakeConn) Close() error {
	c.closes.Add(1)
	c.once.Do(func() { close(c.done) })
	return nil
}

func (c *fakeConn) closed() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

func pid(b ...byte) types.PeerID {
	return types.PeerID(b)
}
