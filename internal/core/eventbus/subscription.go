package eventbus

import (
	"reflect"
	"sync"
)

// ============================================================================
// Subscription 实现
// ============================================================================

// Subscription 订阅
type Subscription struct {
	bus       *Bus
	typ       reflect.Type
	out       chan interface{}
	closeOnce sync.Once
}

// Out 返回事件通道
//
// 订阅关闭或总线关闭后通道被关闭。
func (s *Subscription) Out() <-chan interface{} {
	return s.out
}

// Close 取消订阅，可重复调用
func (s *Subscription) Close() error {
	if s.bus.removeSub(s) {
		s.closeOut()
	}
	return nil
}

// closeOut 关闭输出通道
//
// 调用时订阅必须已从节点移除，保证 emit 不会再写入。
func (s *Subscription) closeOut() {
	s.closeOnce.Do(func() {
		close(s.out)
	})
}

// ============================================================================
// Emitter 实现
// ============================================================================

// Emitter 事件发射器
type Emitter struct {
	bus       *Bus
	node      *node
	typ       reflect.Type
	mu        sync.RWMutex
	closed    bool
}

// Emit 发射事件
//
// 接受事件值或其指针，指针会被解引用后投递。
func (e *Emitter) Emit(event interface{}) error {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.closed {
		return ErrEmitterClosed
	}

	v := reflect.ValueOf(event)
	if !v.IsValid() {
		return ErrInvalidEventType
	}
	if v.Kind() == reflect.Ptr && v.Type().Elem() == e.typ {
		if v.IsNil() {
			return ErrInvalidEventType
		}
		event = v.Elem().Interface()
	} else if v.Type() != e.typ {
		return ErrInvalidEventType
	}

	e.node.emit(event)
	return nil
}

// Close 关闭发射器，引用计数归零时尝试删除节点
func (e *Emitter) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	e.closed = true

	if e.node.nEmitters.Add(-1) == 0 {
		e.bus.tryDropNode(e.typ)
	}
	return nil
}
