package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"jiaoxin/backend/internal/model"
	pkgerrors "jiaoxin/backend/pkg/errors"
)

// ════════════════════════════════════════════════════════════
// 扣款规则引擎测试
// ════════════════════════════════════════════════════════════

func engineWithDefaultRules(maxLateCount int) *deductionEngine {
	return newDeductionEngine([]model.AttendanceRule{
		{RuleName: "缺勤扣全天", RuleType: "absent", DeductionType: "full_day"},
		{RuleName: "半天扣半天", RuleType: "half_day", DeductionType: "half_day"},
		{RuleName: "迟到扣日薪一成", RuleType: "late_coming", DeductionType: "percentage", DeductionValue: 10, MaxLateCount: maxLateCount},
		{RuleName: "早退扣二十元", RuleType: "early_departure", DeductionType: "fixed_amount", DeductionValue: 20},
	})
}

// 容忍次数内不扣款，超出容忍的那一次起扣
func TestDeductionEngine_LateTolerance(t *testing.T) {
	engine := engineWithDefaultRules(3)
	perDay := 200.0

	// 第 1~3 次迟到在容忍内，不扣款也不给原因
	for lateCount := 1; lateCount <= 3; lateCount++ {
		amount, reason, err := engine.DeductFor("late", lateCount, perDay)
		if err != nil {
			t.Fatalf("第 %d 次迟到计算应成功: %v", lateCount, err)
		}
		if amount != 0 {
			t.Errorf("第 %d 次迟到在容忍内，期望扣款 0，实际=%.2f", lateCount, amount)
		}
		if reason != "" {
			t.Errorf("容忍内不应给出扣款原因，实际=%q", reason)
		}
	}

	// 第 4 次超出容忍，按日薪 10% 扣 20 元
	amount, reason, err := engine.DeductFor("late", 4, perDay)
	if err != nil {
		t.Fatalf("第 4 次迟到计算应成功: %v", err)
	}
	if amount != 20 {
		t.Errorf("期望扣款 20，实际=%.2f", amount)
	}
	if !strings.Contains(reason, "第 4 次迟到") || !strings.Contains(reason, "容忍 3 次") {
		t.Errorf("扣款原因应包含次数与容忍说明，实际=%q", reason)
	}
}

func TestDeductionEngine_AmountByStatus(t *testing.T) {
	engine := engineWithDefaultRules(0)
	perDay := 300.0

	tests := []struct {
		name       string
		status     string
		lateCount  int
		wantAmount float64
	}{
		{name: "正常不扣款", status: "present", wantAmount: 0},
		{name: "缺勤扣全天", status: "absent", wantAmount: 300},
		{name: "半天扣半天", status: "half_day", wantAmount: 150},
		{name: "迟到扣一成日薪", status: "late", lateCount: 1, wantAmount: 30},
		{name: "早退扣固定金额", status: "early_departure", wantAmount: 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount, _, err := engine.DeductFor(tt.status, tt.lateCount, perDay)
			if err != nil {
				t.Fatalf("DeductFor 应成功: %v", err)
			}
			if amount != tt.wantAmount {
				t.Errorf("期望扣款 %.2f，实际=%.2f", tt.wantAmount, amount)
			}
		})
	}
}

func TestDeductionEngine_PercentageRounding(t *testing.T) {
	engine := newDeductionEngine([]model.AttendanceRule{
		{RuleName: "迟到扣一成", RuleType: "late_coming", DeductionType: "percentage", DeductionValue: 10, MaxLateCount: 0},
	})
	amount, _, err := engine.DeductFor("late", 1, 333.33)
	if err != nil {
		t.Fatalf("DeductFor 应成功: %v", err)
	}
	if amount != 33.33 {
		t.Errorf("期望扣款 33.33，实际=%.2f", amount)
	}
}

// 缺少对应规则时必须报错，不允许默默按零扣款
func TestDeductionEngine_MissingRule(t *testing.T) {
	engine := newDeductionEngine(nil)

	for _, status := range []string{"absent", "half_day", "late", "early_departure"} {
		_, _, err := engine.DeductFor(status, 5, 200)
		if !errors.Is(err, pkgerrors.ErrNoMatchingRule) {
			t.Errorf("状态 %s 无规则时期望 ErrNoMatchingRule，实际: %v", status, err)
		}
	}

	// present 不依赖规则
	amount, _, err := engine.DeductFor("present", 0, 200)
	if err != nil || amount != 0 {
		t.Errorf("present 应返回 0 且无错误，实际 amount=%.2f err=%v", amount, err)
	}
}

func TestDeductionEngine_UnknownStatus(t *testing.T) {
	engine := engineWithDefaultRules(0)
	if _, _, err := engine.DeductFor("vacation", 0, 200); err == nil {
		t.Fatal("未知状态应返回错误")
	}
}

func TestDeductionEngine_InvalidDeductionType(t *testing.T) {
	engine := newDeductionEngine([]model.AttendanceRule{
		{RuleName: "坏规则", RuleType: "absent", DeductionType: "double_day"},
	})
	if _, _, err := engine.DeductFor("absent", 0, 200); err == nil {
		t.Fatal("无效扣款类型应返回错误")
	}
}

// ════════════════════════════════════════════════════════════
// 工作日历与日薪折算测试
// ════════════════════════════════════════════════════════════

func TestWorkingDaysInMonth(t *testing.T) {
	// 2026 年 3 月共 31 天：4 个周六 + 5 个周日 = 22 个工作日
	if got := workingDaysInMonth(2026, 3, nil); got != 22 {
		t.Errorf("期望 2026-03 工作日 22 天，实际=%d", got)
	}

	// 工作日假日扣减
	holidays := buildHolidaySet([]model.Holiday{
		{HolidayDate: utcDate(2026, time.March, 5), Name: "校庆"},
	})
	if got := workingDaysInMonth(2026, 3, holidays); got != 21 {
		t.Errorf("周四放假后期望 21 天，实际=%d", got)
	}

	// 周末假日不重复扣减
	holidays = buildHolidaySet([]model.Holiday{
		{HolidayDate: utcDate(2026, time.March, 7), Name: "周六假日"},
	})
	if got := workingDaysInMonth(2026, 3, holidays); got != 22 {
		t.Errorf("周六假日不应重复扣减，期望 22 天，实际=%d", got)
	}
}

func TestIsWorkingDay(t *testing.T) {
	holidays := buildHolidaySet([]model.Holiday{
		{HolidayDate: utcDate(2026, time.March, 4), Name: "假日"},
	})

	if isWorkingDay(utcDate(2026, time.March, 7), holidays) {
		t.Error("周六不应算工作日")
	}
	if isWorkingDay(utcDate(2026, time.March, 8), holidays) {
		t.Error("周日不应算工作日")
	}
	if isWorkingDay(utcDate(2026, time.March, 4), holidays) {
		t.Error("假日不应算工作日")
	}
	if !isWorkingDay(utcDate(2026, time.March, 3), holidays) {
		t.Error("普通周二应算工作日")
	}
}

func TestMonthSpan(t *testing.T) {
	start, end := monthSpan(2026, 2)
	if !start.Equal(utcDate(2026, time.February, 1)) {
		t.Errorf("期望月初 2026-02-01，实际=%s", start.Format("2006-01-02"))
	}
	if !end.Equal(utcDate(2026, time.February, 28)) {
		t.Errorf("期望月末 2026-02-28，实际=%s", end.Format("2006-01-02"))
	}
}

func TestPerDayPay(t *testing.T) {
	// 配置了日薪直接用配置值
	cfg := &model.TeacherSalaryConfig{BasicMonthlySalary: 6600, PerDaySalary: 280}
	if got := perDayPay(cfg, 22); got != 280 {
		t.Errorf("期望日薪 280，实际=%.2f", got)
	}

	// 未配置日薪按 基本工资/当月工作日 折算
	cfg = &model.TeacherSalaryConfig{BasicMonthlySalary: 6600}
	if got := perDayPay(cfg, 22); got != 300 {
		t.Errorf("期望日薪 300，实际=%.2f", got)
	}

	// 折算保留两位小数
	cfg = &model.TeacherSalaryConfig{BasicMonthlySalary: 7000}
	if got := perDayPay(cfg, 22); got != 318.18 {
		t.Errorf("期望日薪 318.18，实际=%.2f", got)
	}

	// 工作日为 0 不除零
	if got := perDayPay(cfg, 0); got != 0 {
		t.Errorf("工作日为 0 期望日薪 0，实际=%.2f", got)
	}
}

func TestResolveConfigFor(t *testing.T) {
	feb28 := utcDate(2026, time.February, 28)
	configs := []model.TeacherSalaryConfig{
		{ConfigID: "cfg-new", BasicMonthlySalary: 8000, EffectiveFrom: utcDate(2026, time.March, 1)},
		{ConfigID: "cfg-old", BasicMonthlySalary: 6000, EffectiveFrom: utcDate(2026, time.January, 1), EffectiveTo: &feb28},
	}

	got, err := resolveConfigFor(configs, utcDate(2026, time.February, 15))
	if err != nil {
		t.Fatalf("2 月中旬应命中旧配置: %v", err)
	}
	if got.ConfigID != "cfg-old" {
		t.Errorf("期望 cfg-old，实际=%s", got.ConfigID)
	}

	got, err = resolveConfigFor(configs, utcDate(2026, time.March, 10))
	if err != nil {
		t.Fatalf("3 月应命中新配置: %v", err)
	}
	if got.ConfigID != "cfg-new" {
		t.Errorf("期望 cfg-new，实际=%s", got.ConfigID)
	}

	// 区间边界按闭区间处理
	got, err = resolveConfigFor(configs, feb28)
	if err != nil || got.ConfigID != "cfg-old" {
		t.Errorf("2 月末应命中 cfg-old，实际=%v err=%v", got, err)
	}

	if _, err := resolveConfigFor(configs, utcDate(2025, time.December, 31)); !errors.Is(err, pkgerrors.ErrNoSalaryConfig) {
		t.Errorf("无覆盖配置期望 ErrNoSalaryConfig，实际: %v", err)
	}
}

func TestHeadlineConfig(t *testing.T) {
	monthStart, monthEnd := monthSpan(2026, 3)

	// 覆盖月末的配置优先
	feb28 := utcDate(2026, time.February, 28)
	configs := []model.TeacherSalaryConfig{
		{ConfigID: "cfg-old", EffectiveFrom: utcDate(2026, time.January, 1), EffectiveTo: &feb28},
		{ConfigID: "cfg-new", EffectiveFrom: utcDate(2026, time.March, 1)},
	}
	got, err := headlineConfig(configs, monthStart, monthEnd)
	if err != nil {
		t.Fatalf("headlineConfig 应成功: %v", err)
	}
	if got.ConfigID != "cfg-new" {
		t.Errorf("期望取覆盖月末的 cfg-new，实际=%s", got.ConfigID)
	}

	// 月中离职：配置在 3 月 15 日关闭且无后续配置，回退取最近一条
	mar15 := utcDate(2026, time.March, 15)
	configs = []model.TeacherSalaryConfig{
		{ConfigID: "cfg-closed", EffectiveFrom: utcDate(2026, time.January, 1), EffectiveTo: &mar15},
	}
	got, err = headlineConfig(configs, monthStart, monthEnd)
	if err != nil {
		t.Fatalf("月中关闭的配置仍应可作为头部展示: %v", err)
	}
	if got.ConfigID != "cfg-closed" {
		t.Errorf("期望 cfg-closed，实际=%s", got.ConfigID)
	}

	// 与当月无交集
	dec31 := utcDate(2025, time.December, 31)
	configs = []model.TeacherSalaryConfig{
		{ConfigID: "cfg-gone", EffectiveFrom: utcDate(2025, time.June, 1), EffectiveTo: &dec31},
	}
	if _, err := headlineConfig(configs, monthStart, monthEnd); !errors.Is(err, pkgerrors.ErrNoSalaryConfig) {
		t.Errorf("期望 ErrNoSalaryConfig，实际: %v", err)
	}
}
