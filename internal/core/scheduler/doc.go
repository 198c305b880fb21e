// Package scheduler 实现单飞（single-flight）运行队列
//
// 任意时刻最多执行一个任务，其余请求按先进先出排队。
// 每个任务带有整体超时 QueueTimeout：超时后任务被放弃，
// 其 context 被取消，调度器立即开始下一个任务。
// 被放弃的任务不会被强制中断，它在检查 context 后自行退出。
//
// # 使用示例
//
//	s, err := scheduler.New(scheduler.Config{QueueTimeout: 3 * time.Second})
//	if err != nil {
//	    return err
//	}
//	_ = s.Start(ctx)
//	defer s.Close()
//
//	_ = s.Enqueue(func(ctx context.Context) {
//	    // 在 ctx.Done() 之前完成
//	})
//
// Close 之后排队中的任务被丢弃，Enqueue 返回 ErrSchedulerClosed。
package scheduler
