package types

import "errors"

// ============================================================================
//                              错误定义
// ============================================================================

var (
	// ErrInvalidRange 区间非法（Lower > Upper）
	ErrInvalidRange = errors.New("invalid service range")

	// ErrInvalidScope 可见性范围非法
	ErrInvalidScope = errors.New("invalid scope")

	// ErrRangeOverlap 与既有区间部分重叠
	ErrRangeOverlap = errors.New("service range overlaps existing range")

	// ErrDuplicatePublication 相同 (端口, 键, 节点) 的发布已存在
	ErrDuplicatePublication = errors.New("duplicate publication")

	// ErrQuotaExceeded 本地发布数量达到上限
	ErrQuotaExceeded = errors.New("local publication limit reached")

	// ErrResumeInvalid 枚举游标记住的位置已不存在
	ErrResumeInvalid = errors.New("dump resume position no longer exists")

	// ErrClosed 组件已关闭
	ErrClosed = errors.New("nametable closed")
)
