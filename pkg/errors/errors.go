package errors

import "errors"

// ErrOptimisticLock 乐观锁冲突：记录已被其他操作修改
var ErrOptimisticLock = errors.New("数据已被其他操作修改，请刷新后重试")

// ErrLockTimeout 分布式锁获取超时：同一教师月份的计算正在进行，可稍后重试
var ErrLockTimeout = errors.New("获取计算锁超时，请稍后重试")

// ErrManualOverride 目标考勤记录已人工改判，自动导入不得覆盖
var ErrManualOverride = errors.New("考勤记录已人工改判，自动导入不覆盖")

// ── 配置缺失（宁可报错也不默默按零扣款） ──

var (
	// ErrNoActiveTiming 没有启用的考勤时段配置
	ErrNoActiveTiming = errors.New("未找到启用的考勤时段配置")
	// ErrNoSalaryConfig 日期不在任何薪资配置的生效区间内
	ErrNoSalaryConfig = errors.New("该日期没有生效的薪资配置")
	// ErrNoMatchingRule 考勤状态没有对应的启用扣款规则
	ErrNoMatchingRule = errors.New("该考勤状态没有启用的扣款规则")
)
