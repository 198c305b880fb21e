// Package sampler 实现拓扑周期的候选节点抽样
//
// 一次抽样由三个条件竞争结束：
//   - 发现源关闭通道（包括出错，视为完成）
//   - 累计候选数达到 SampleSize
//   - LookupTimeout 到期
//
// 先满足者结束收集，之后发现源的产出不再读取。
// 收集结果多于 SampleSize 时随机抽取 SampleSize 个，
// 最后按到自身的 XOR 距离升序稳定排序（最近者在前）。
//
// 收集阶段丢弃自身 ID、重复 ID 和长度不一致的 ID。
// 发现失败或没有候选时返回空样本，不返回错误。
//
// # 使用示例
//
//	s, err := sampler.New(self, sampler.DefaultConfig(), sampler.WithClock(clk))
//	if err != nil {
//	    return err
//	}
//	sample := s.Sample(ctx, lookup)
//	for _, id := range sample {
//	    // 由近及远
//	}
package sampler
