package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"jiaoxin/backend/internal/dto"
	"jiaoxin/backend/internal/model"
)

// ════════════════════════════════════════════════════════════
// 扣款规则维护测试
// ════════════════════════════════════════════════════════════

func setupTestRuleService() (RuleService, *mockRepos) {
	repo, m := newMockRepos()
	svc := NewRuleService(repo, zap.NewNop())
	return svc, m
}

func TestRuleService_Create(t *testing.T) {
	svc, m := setupTestRuleService()

	resp, err := svc.Create(context.Background(), &dto.CreateRuleRequest{
		RuleName: "迟到扣日薪一成", RuleType: "late_coming",
		DeductionType: "percentage", DeductionValue: 10, MaxLateCount: 3,
	}, "admin-1")
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if resp.IsActive {
		t.Error("未指定启用时新规则应为停用状态")
	}
	if resp.MaxLateCount != 3 {
		t.Errorf("期望容忍 3 次，实际=%d", resp.MaxLateCount)
	}
	if len(m.rule.rules) != 1 {
		t.Errorf("期望 1 条规则，实际=%d", len(m.rule.rules))
	}
}

func TestRuleService_Create_ValueValidation(t *testing.T) {
	svc, _ := setupTestRuleService()

	tests := []struct {
		name          string
		deductionType string
		value         float64
		wantErr       bool
	}{
		{name: "百分比为零", deductionType: "percentage", value: 0, wantErr: true},
		{name: "百分比超过 100", deductionType: "percentage", value: 150, wantErr: true},
		{name: "固定金额为负", deductionType: "fixed_amount", value: -5, wantErr: true},
		{name: "全天扣款不取数值", deductionType: "full_day", value: 0, wantErr: false},
		{name: "半天扣款不取数值", deductionType: "half_day", value: 0, wantErr: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), &dto.CreateRuleRequest{
				RuleName: "规则", RuleType: "absent",
				DeductionType: tt.deductionType, DeductionValue: tt.value,
			}, "admin-1")
			if tt.wantErr && !errors.Is(err, ErrRuleValueInvalid) {
				t.Errorf("期望 ErrRuleValueInvalid，实际: %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("应成功: %v", err)
			}
		})
	}
}

// 创建即启用只替换同类型的启用规则，其他类型不受影响
func TestRuleService_Create_WithActivate(t *testing.T) {
	svc, m := setupTestRuleService()
	seedDefaultRules(m, 3)
	oldLate := m.rule.rules["rule-late"]
	oldAbsent := m.rule.rules["rule-absent"]

	resp, err := svc.Create(context.Background(), &dto.CreateRuleRequest{
		RuleName: "迟到扣两成", RuleType: "late_coming",
		DeductionType: "percentage", DeductionValue: 20, MaxLateCount: 2, Activate: true,
	}, "admin-1")
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if !resp.IsActive {
		t.Error("新规则应为启用状态")
	}
	if oldLate.IsActive {
		t.Error("同类型旧规则应被停用")
	}
	if !oldAbsent.IsActive {
		t.Error("其他类型规则不应受影响")
	}

	got, err := m.rule.GetActiveByType(context.Background(), "late_coming")
	if err != nil {
		t.Fatalf("应有启用中的迟到规则: %v", err)
	}
	if got.DeductionValue != 20 {
		t.Errorf("启用规则应为新规则，实际 value=%.0f", got.DeductionValue)
	}
}

func TestRuleService_Activate_SwapByType(t *testing.T) {
	svc, m := setupTestRuleService()
	seedDefaultRules(m, 3)
	m.rule.rules["rule-late-2"] = &model.AttendanceRule{
		RuleID: "rule-late-2", RuleName: "迟到扣五元", RuleType: "late_coming",
		DeductionType: "fixed_amount", DeductionValue: 5, MaxLateCount: 5,
	}

	resp, err := svc.Activate(context.Background(), "rule-late-2", "admin-1")
	if err != nil {
		t.Fatalf("Activate 应成功: %v", err)
	}
	if !resp.IsActive {
		t.Error("目标规则应被启用")
	}
	if m.rule.rules["rule-late"].IsActive {
		t.Error("同类型原启用规则应被停用")
	}
	if !m.rule.rules["rule-absent"].IsActive {
		t.Error("其他类型规则不应受影响")
	}

	if _, err := svc.Activate(context.Background(), "nonexistent", "admin-1"); !errors.Is(err, ErrRuleNotFound) {
		t.Errorf("期望 ErrRuleNotFound，实际: %v", err)
	}
}

func TestRuleService_Update(t *testing.T) {
	svc, m := setupTestRuleService()
	seedDefaultRules(m, 3)

	maxLate := 5
	resp, err := svc.Update(context.Background(), "rule-late", &dto.UpdateRuleRequest{
		MaxLateCount: &maxLate,
	}, "admin-1")
	if err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}
	if resp.MaxLateCount != 5 {
		t.Errorf("期望容忍 5 次，实际=%d", resp.MaxLateCount)
	}

	// 更新后的组合仍需通过数值校验
	badValue := 200.0
	if _, err := svc.Update(context.Background(), "rule-late", &dto.UpdateRuleRequest{
		DeductionValue: &badValue,
	}, "admin-1"); !errors.Is(err, ErrRuleValueInvalid) {
		t.Errorf("期望 ErrRuleValueInvalid，实际: %v", err)
	}

	if _, err := svc.Update(context.Background(), "nonexistent", &dto.UpdateRuleRequest{}, "admin-1"); !errors.Is(err, ErrRuleNotFound) {
		t.Errorf("期望 ErrRuleNotFound，实际: %v", err)
	}
}

func TestRuleService_Delete(t *testing.T) {
	svc, m := setupTestRuleService()
	seedDefaultRules(m, 3)
	m.rule.rules["rule-spare"] = &model.AttendanceRule{
		RuleID: "rule-spare", RuleName: "备用规则", RuleType: "absent",
		DeductionType: "full_day",
	}

	// 启用中的规则不可删除
	if err := svc.Delete(context.Background(), "rule-absent"); !errors.Is(err, ErrRuleActive) {
		t.Errorf("期望 ErrRuleActive，实际: %v", err)
	}

	if err := svc.Delete(context.Background(), "rule-spare"); err != nil {
		t.Fatalf("删除停用规则应成功: %v", err)
	}
	if _, ok := m.rule.rules["rule-spare"]; ok {
		t.Error("删除后不应再查到规则")
	}

	if err := svc.Delete(context.Background(), "rule-spare"); !errors.Is(err, ErrRuleNotFound) {
		t.Errorf("期望 ErrRuleNotFound，实际: %v", err)
	}
}
