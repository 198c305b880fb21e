// Package eventbus 实现进程内事件总线
//
// 拓扑引擎通过事件总线通知上层无法建立任何连接等情况，
// 调用方按事件类型订阅，无需持有引擎引用。
//
// # 快速开始
//
//	bus := eventbus.NewBus()
//
//	sub, _ := bus.Subscribe(new(types.EvtNoPeersReachable))
//	defer sub.Close()
//
//	go func() {
//	    for evt := range sub.Out() {
//	        e := evt.(types.EvtNoPeersReachable)
//	        // 处理事件
//	    }
//	}()
//
//	em, _ := bus.Emitter(new(types.EvtNoPeersReachable))
//	defer em.Close()
//	em.Emit(types.EvtNoPeersReachable{...})
//
// # 投递语义
//
//   - 事件按值类型路由，发射指针时自动解引用
//   - 订阅缓冲区满时丢弃事件并周期性告警，发射方从不阻塞
//   - 有状态发射器（Stateful）让新订阅者立即收到最后一个事件
//   - Close 后所有订阅通道被关闭，新的订阅和发射器返回 ErrClosed
//
// # 并发安全
//
// 节点表由 sync.RWMutex 保护，每个类型节点有独立锁，
// 发射器引用计数使用 atomic.Int32。
package eventbus
