package scheduler

import "errors"

var (
	// ErrSchedulerClosed 调度器已关闭
	ErrSchedulerClosed = errors.New("scheduler: closed")

	// ErrInvalidConfig 配置无效
	ErrInvalidConfig = errors.New("scheduler: invalid config")

	// ErrNilJob 任务为空
	ErrNilJob = errors.New("scheduler: nil job")
)
