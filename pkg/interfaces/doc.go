// Package interfaces 定义 MMST 的公共接口
//
// 采用扁平命名，一个接口文件对应一个实现目录：
//
// # 外部协作者
//
// 拓扑层本身不实现发现和传输，由嵌入方提供：
//   - topology.go  - Lookup（候选节点发现）、Connector（拨号）、Connection（连接句柄）
//
// # Core Layer 接口
//
//   - topology.go  - Topology 拓扑引擎（internal/core/topology）
//   - connmgr.go   - ConnRegistry 连接登记表、ConnGater 连接门控（internal/core/connmgr）
//   - eventbus.go  - 事件总线（internal/core/eventbus）
//
// # 依赖规则
//
// pkg/interfaces 只依赖 pkg/types，不依赖任何 internal 包。
package interfaces
