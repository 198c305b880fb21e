// Package mmst 实现 MMST 覆盖网络拓扑维护
//
// MMST 决定一个节点应当与哪些对等节点保持连接：优先连接标识空间中
// XOR 距离最近的节点，并以一定概率保留一条到远端节点的冗余连接，
// 使覆盖网络直径小且不易分区。
//
// 发现与传输不在本库范围内，由嵌入方通过 Lookup 与 Connector 提供。
//
// # 快速开始
//
//	overlay, err := mmst.Start(ctx, selfID,
//	    mmst.LookupFunc(dht.FindPeers),
//	    mmst.ConnectFunc(transport.Dial),
//	    mmst.WithPreset(mmst.PresetNameServer),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer overlay.Close()
//
//	// 传输层收到入站连接时
//	if err := overlay.HandleIncoming(remoteID, conn); err != nil {
//	    // 连接已被关闭
//	}
//
// # 运行周期
//
// 每个周期：抽样 → 连接最近的未连接节点 → 以 PercentFar 的概率连接最远的未连接节点。
// 周期在启动、Run()、可重连连接关闭、连接集合变空时排队执行，同一时刻只执行一个。
//
// # 事件
//
// 近邻阶段遍历完样本仍未建立连接时发出 EvtNoPeersReachable：
//
//	sub, _ := overlay.Subscribe(new(mmst.EvtNoPeersReachable))
//	for evt := range sub.Out() {
//	    e := evt.(mmst.EvtNoPeersReachable)
//	    ...
//	}
//
// # 日志
//
// 通过环境变量 MMST_LOG_LEVEL 按子系统设置级别，例如
// MMST_LOG_LEVEL=core/topology=debug,info。
package mmst
