// Package connmgr 实现拓扑层的连接登记表与连接门控
//
// # 核心功能
//
// 1. 已连接集合 - Registry
//   - 以 PeerID 为键登记连接，集合大小不超过 MaxPeers
//   - 容量检查与插入在同一把锁内完成
//   - 每条连接有一个关闭监听，关闭时从集合移除
//   - 关闭的连接可重连（ReconnectEligible），或集合因此变空时触发新的运行周期
//
// 2. 远端标记 - Far
//   - 同一时刻最多一条连接带远端标记
//   - 远端连接关闭时标记自动清除
//
// 3. 入站准入 - HandleIncoming
//   - 被阻止的节点或已满时立即关闭连接，不登记、不触发
//   - 接受的入站连接不可重连：关闭后只有在集合变空时才触发
//
// 4. 连接门控 - Gater
//   - BlockPeer/UnblockPeer 维护节点黑名单
//   - InterceptPeerDial: 拨号前拦截
//   - InterceptAccept: 接受前拦截
//
// # 快速开始
//
//	reg, err := connmgr.NewRegistry(connmgr.DefaultConfig(),
//	    connmgr.WithTrigger(func() { _ = sched.Enqueue(job) }),
//	    connmgr.WithGater(connmgr.NewGater()),
//	)
//	if err != nil {
//	    return err
//	}
//	defer reg.Close()
//
//	if ok := reg.TryAdd(id, conn, interfaces.AddOptions{ReconnectEligible: true}); !ok {
//	    conn.Close()
//	}
//
// # 并发安全
//
// 关闭监听在独立 goroutine 中运行，可能在任意时刻修改集合。
// Registry 的全部方法都是并发安全的。Close 只停止监听，不关闭已登记的连接。
package connmgr
