package sampler

import "errors"

var (
	// ErrInvalidConfig 配置无效
	ErrInvalidConfig = errors.New("sampler: invalid config")

	// ErrEmptySelf 自身 ID 为空
	ErrEmptySelf = errors.New("sampler: empty self id")
)
