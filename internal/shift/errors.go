package shift

import "errors"

// ── 核心引擎业务错误 ──

var (
	ErrInvalidWallClock  = errors.New("时间格式无效，应为 HH:mm")
	ErrInvalidPolicy     = errors.New("合规策略配置无效")
	ErrEmployeeNotFound  = errors.New("当班员工不存在")
	ErrInvalidTransition = errors.New("当前状态不允许该操作")
	ErrTimeOrder         = errors.New("结束时间不能早于开始时间")
	ErrCoverageConflict  = errors.New("顶岗记录冲突")
	ErrNothingToUndo     = errors.New("没有可撤销的操作")
	ErrInvalidInput      = errors.New("参数无效")
)
