// Package topology 实现 MMST 拓扑维护引擎
//
// 引擎决定连接哪些节点以及何时重新评估，使连接图保持连通、
// 直径小并能承受节点流失。发现与传输由嵌入方通过
// interfaces.Lookup 与 interfaces.Connector 提供。
//
// # 运行周期
//
// 每个周期依次经过五个阶段，任何阶段都可能提前结束：
//
//	Guard       已销毁或已满时直接结束，不抽样、无副作用
//	Sample      抽样，得到由近及远的候选
//	NearConnect 按顺序拨号，首个成功即停止；全部失败时发出 EvtNoPeersReachable
//	FarDecision 已有远端连接、已满或随机数 r > PercentFar 时结束
//	FarConnect  反向（由远及近）拨号，首个成功者标记为远端连接
//
// 每个周期最多新增一条近邻连接和一条远端连接，
// 拓扑通过连接关闭触发的后续周期逐步收敛。
//
// # 调度
//
// 周期在单飞队列中按先进先出执行，整体超时为 QueueTimeout。
// 触发来源：启动、Run()、可重连连接关闭、集合变空。
//
// # 销毁
//
// Close 立即生效且不可逆。进行中的周期在下一个检查点
// （抽样前后、每次拨号前后、近邻与远端阶段之间）退出，不再产生副作用。
// 已建立的连接不会被关闭。
package topology
