// Package metrics 提供拓扑层的监控指标
//
// # 组成
//
//   - Reporter: 拓扑引擎上报事件的接口
//   - PrometheusReporter: 导出到 Prometheus 的实现
//   - CycleCounter: 进程内计数，供快照使用
//   - TopologyCollector: 生成 TopologySnapshot，可周期性输出到日志
//
// # 快速开始
//
//	counter := metrics.NewCycleCounter()
//	prom, err := metrics.NewPrometheusReporter(prometheus.NewRegistry(), "mmst")
//	if err != nil {
//	    return err
//	}
//	reporter := metrics.Multi(counter, prom)
//
//	reporter.CycleStarted()
//	reporter.ConnectAttempt(metrics.PhaseNear, metrics.ResultSuccess)
//
// # 指标
//
//	mmst_cycles_started_total                  开始执行的运行周期
//	mmst_cycles_total{outcome}                 运行周期结束方式
//	mmst_connect_attempts_total{phase,result}  拨号尝试
//	mmst_no_peers_reachable_total              近邻阶段全部失败
//	mmst_incoming_rejected_total{reason}       拒绝的入站连接
//	mmst_connected_peers                       当前连接数
//	mmst_far_connection                        是否存在远端连接
//	mmst_sample_size                           样本大小分布
package metrics
