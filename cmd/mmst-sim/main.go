// Package main 提供 mmst-sim 命令行入口
//
// 在内存中模拟 N 个节点组成的 MMST 覆盖网络，观察拓扑收敛、
// 连通分量数量以及连接流失后的恢复。
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dep2p/go-mmst"
	"github.com/dep2p/go-mmst/config"
	"github.com/dep2p/go-mmst/pkg/lib/log"
)

var logger = log.Logger("mmst/cmd")

// ═══════════════════════════════════════════════════════════════════════════
// 命令行参数
// ═══════════════════════════════════════════════════════════════════════════
var (
	// ─────────────────────────────────────────────────────────────────────
	// 网络规模
	// ─────────────────────────────────────────────────────────────────────
	nodes = flag.Int("nodes", 32, "模拟节点数")
	idLen = flag.Int("id-len", 8, "节点 ID 字节数")
	seed  = flag.Uint64("seed", 0, "随机种子（0 = 随机）")

	// ─────────────────────────────────────────────────────────────────────
	// 拓扑参数（覆盖配置文件）
	// ─────────────────────────────────────────────────────────────────────
	configFile = flag.String("config", "", "配置文件路径")
	preset     = flag.String("preset", "desktop", "预设配置 (minimal/mobile/desktop/server)")
	maxPeers   = flag.Int("max-peers", 0, "最大连接数（0 = 使用配置）")
	sampleSize = flag.Int("sample-size", 0, "样本大小（0 = 使用配置）")
	percentFar = flag.Float64("percent-far", -1, "远端连接概率（<0 = 使用配置）")

	// ─────────────────────────────────────────────────────────────────────
	// 模拟行为
	// ─────────────────────────────────────────────────────────────────────
	dialLatency = flag.Duration("dial-latency", 5*time.Millisecond, "模拟拨号延迟")
	dialFail    = flag.Float64("dial-fail", 0, "拨号失败概率 [0,1]")
	churn       = flag.Duration("churn", 0, "随机断开一条连接的间隔（0 = 不断开）")
	report      = flag.Duration("report", 2*time.Second, "输出拓扑统计的间隔")
	duration    = flag.Duration("duration", 0, "运行时长（0 = 直到 Ctrl+C）")

	// ─────────────────────────────────────────────────────────────────────
	// 输出
	// ─────────────────────────────────────────────────────────────────────
	metricsAddr = flag.String("metrics-addr", "", "Prometheus 指标监听地址，如 :9100")
	logLevel    = flag.String("log-level", "warn", "日志级别 (debug/info/warn/error)")
	showVersion = flag.Bool("version", false, "显示版本信息")
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	flag.Parse()

	if *showVersion {
		fmt.Println(mmst.VersionInfo())
		return nil
	}
	if lvl, ok := log.ParseLevel(*logLevel); ok {
		log.SetLevel(lvl)
	}

	cfg, err := buildConfig()
	if err != nil {
		return fmt.Errorf("配置错误: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	if *duration > 0 {
		var stop context.CancelFunc
		ctx, stop = context.WithTimeout(ctx, *duration)
		defer stop()
	}

	// 只导出第一个节点的指标
	var reg prometheus.Registerer
	if *metricsAddr != "" {
		r := prometheus.NewRegistry()
		reg = r
		go serveMetrics(*metricsAddr, r)
	}

	fmt.Printf("📦 %s\n", mmst.VersionInfo())
	fmt.Printf("模拟 %d 个节点：maxPeers=%d sampleSize=%d percentFar=%.2f\n",
		*nodes, cfg.Topology.MaxPeers, cfg.Topology.SampleSize, cfg.Topology.PercentFar)

	sim := newSimulation(simParams{
		size:        *nodes,
		idLen:       *idLen,
		seed:        *seed,
		dialLatency: *dialLatency,
		dialFail:    *dialFail,
	})
	if err := sim.start(ctx, cfg, reg); err != nil {
		return err
	}
	defer sim.close()

	var churnC <-chan time.Time
	if *churn > 0 {
		t := time.NewTicker(*churn)
		defer t.Stop()
		churnC = t.C
	}
	reportT := time.NewTicker(*report)
	defer reportT.Stop()

	for {
		select {
		case <-ctx.Done():
			printStats(sim.stats())
			fmt.Println("正在关闭...")
			return nil
		case <-churnC:
			sim.dropRandom()
		case <-reportT.C:
			printStats(sim.stats())
		}
	}
}

// buildConfig 构建配置
//
// 优先级：命令行参数 > 预设 > 配置文件 > 默认值。
func buildConfig() (*config.Config, error) {
	cfg := config.NewConfig()
	if *configFile != "" {
		loaded, err := config.LoadFile(*configFile)
		if err != nil {
			return nil, fmt.Errorf("加载配置文件失败: %w", err)
		}
		cfg = loaded
	}
	if err := config.ApplyPreset(cfg, *preset); err != nil {
		return nil, err
	}
	if *maxPeers > 0 {
		cfg.Topology.MaxPeers = *maxPeers
	}
	if *sampleSize > 0 {
		cfg.Topology.SampleSize = *sampleSize
	}
	if *percentFar >= 0 {
		cfg.Topology.PercentFar = *percentFar
	}
	return cfg, cfg.Validate()
}

// serveMetrics 启动指标 HTTP 服务
func serveMetrics(addr string, reg *prometheus.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	logger.Info("指标服务已启动", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("指标服务退出", "err", err)
	}
}

// printStats 打印拓扑统计
func printStats(s simStats) {
	fmt.Printf("[%s] 连接 %d 条 | 平均度 %.2f | 孤立节点 %d | 连通分量 %d | 远端连接 %d | 无可达事件 %d | 放弃周期 %d\n",
		time.Now().Format("15:04:05"),
		s.edges, s.avgDegree, s.isolated, s.components, s.farLinks, s.noPeers, s.abandoned)
}
