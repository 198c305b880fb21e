// Package types 定义 MMST 的公共数据结构
//
// 这是整个系统的最底层包，不依赖任何其他 mmst 内部包。
// 所有类型都是纯值类型，用于在各模块间传递数据。
//
// # 文件组织
//
//   - peerid.go   - PeerID 节点标识
//   - distance.go - XOR 距离度量与比较
//   - events.go   - 拓扑事件（EvtNoPeersReachable）
//   - errors.go   - 公共错误定义
//
// # 标识空间
//
// PeerID 是定长字节序列，长度由嵌入方决定（常见为 32 字节）。
// 同一网络内的所有 PeerID 必须等长，XOR 距离只在等长标识之间有定义：
//
//	d, err := types.XORDistance(self, other)
//	if err != nil {
//	    // 长度不一致属于配置错误
//	}
package types
