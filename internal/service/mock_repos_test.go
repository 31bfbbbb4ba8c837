package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"

	"jiaoxin/backend/config"
	"jiaoxin/backend/internal/model"
	"jiaoxin/backend/internal/repository"
	pkgerrors "jiaoxin/backend/pkg/errors"
)

// ── Mock TeacherRepository ──
// 导入批次的协程池会并发查教师，互斥锁保护

type mockTeacherRepo struct {
	mu       sync.Mutex
	teachers map[string]*model.Teacher // key: teacher_id
}

func newMockTeacherRepo() *mockTeacherRepo {
	return &mockTeacherRepo{teachers: make(map[string]*model.Teacher)}
}

func (m *mockTeacherRepo) Create(_ context.Context, teacher *model.Teacher) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if teacher.TeacherID == "" {
		teacher.TeacherID = "teacher-" + teacher.EmployeeNo
	}
	m.teachers[teacher.TeacherID] = teacher
	return nil
}

func (m *mockTeacherRepo) GetByID(_ context.Context, id string) (*model.Teacher, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.teachers[id]; ok {
		return t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTeacherRepo) GetByEmployeeNo(_ context.Context, employeeNo string) (*model.Teacher, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.teachers {
		if t.EmployeeNo == employeeNo {
			return t, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTeacherRepo) GetByName(_ context.Context, name string) (*model.Teacher, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.teachers {
		if t.Name == name {
			return t, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTeacherRepo) List(_ context.Context, keyword string, offset, limit int) ([]model.Teacher, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var all []model.Teacher
	for _, t := range m.teachers {
		if keyword != "" && !strings.Contains(t.Name, keyword) && !strings.Contains(t.EmployeeNo, keyword) {
			continue
		}
		all = append(all, *t)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].EmployeeNo < all[j].EmployeeNo })
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockTeacherRepo) Update(_ context.Context, teacher *model.Teacher) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.teachers[teacher.TeacherID] = teacher
	return nil
}

func (m *mockTeacherRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.teachers, id)
	return nil
}

// ── Mock SalaryConfigRepository ──

type mockSalaryConfigRepo struct {
	mu        sync.Mutex
	configs   []*model.TeacherSalaryConfig
	idCounter int
}

func newMockSalaryConfigRepo() *mockSalaryConfigRepo {
	return &mockSalaryConfigRepo{}
}

func (m *mockSalaryConfigRepo) Create(_ context.Context, cfg *model.TeacherSalaryConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if cfg.ConfigID == "" {
		m.idCounter++
		cfg.ConfigID = fmt.Sprintf("cfg-%d", m.idCounter)
	}
	m.configs = append(m.configs, cfg)
	return nil
}

func (m *mockSalaryConfigRepo) GetByID(_ context.Context, id string) (*model.TeacherSalaryConfig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.configs {
		if c.ConfigID == id {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSalaryConfigRepo) GetActiveByTeacher(_ context.Context, teacherID string) (*model.TeacherSalaryConfig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.configs {
		if c.TeacherID == teacherID && c.IsActive {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSalaryConfigRepo) GetByTeacherAndDate(_ context.Context, teacherID string, date time.Time) (*model.TeacherSalaryConfig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.configs {
		if c.TeacherID == teacherID && c.Covers(date) {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSalaryConfigRepo) ListByTeacher(_ context.Context, teacherID string) ([]model.TeacherSalaryConfig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.TeacherSalaryConfig
	for _, c := range m.configs {
		if c.TeacherID == teacherID {
			result = append(result, *c)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].EffectiveFrom.After(result[j].EffectiveFrom) })
	return result, nil
}

func (m *mockSalaryConfigRepo) CloseActive(_ context.Context, teacherID string, endDate time.Time, updatedBy *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.configs {
		if c.TeacherID == teacherID && c.IsActive {
			c.IsActive = false
			end := endDate
			c.EffectiveTo = &end
			c.UpdatedBy = updatedBy
		}
	}
	return nil
}

// ── Mock SchoolTimingRepository ──

type mockTimingRepo struct {
	timings map[string]*model.SchoolTiming
}

func newMockTimingRepo() *mockTimingRepo {
	return &mockTimingRepo{timings: make(map[string]*model.SchoolTiming)}
}

func (m *mockTimingRepo) Create(_ context.Context, timing *model.SchoolTiming) error {
	if timing.TimingID == "" {
		timing.TimingID = "timing-" + timing.TimingName
	}
	m.timings[timing.TimingID] = timing
	return nil
}

func (m *mockTimingRepo) GetByID(_ context.Context, id string) (*model.SchoolTiming, error) {
	if t, ok := m.timings[id]; ok {
		return t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTimingRepo) GetActive(_ context.Context) (*model.SchoolTiming, error) {
	for _, t := range m.timings {
		if t.IsActive {
			return t, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTimingRepo) List(_ context.Context) ([]model.SchoolTiming, error) {
	var result []model.SchoolTiming
	for _, t := range m.timings {
		result = append(result, *t)
	}
	return result, nil
}

func (m *mockTimingRepo) Update(_ context.Context, timing *model.SchoolTiming) error {
	m.timings[timing.TimingID] = timing
	return nil
}

func (m *mockTimingRepo) ClearActive(_ context.Context) error {
	for _, t := range m.timings {
		t.IsActive = false
	}
	return nil
}

func (m *mockTimingRepo) Delete(_ context.Context, id string) error {
	delete(m.timings, id)
	return nil
}

// ── Mock AttendanceRuleRepository ──

type mockRuleRepo struct {
	rules     map[string]*model.AttendanceRule
	idCounter int
}

func newMockRuleRepo() *mockRuleRepo {
	return &mockRuleRepo{rules: make(map[string]*model.AttendanceRule)}
}

func (m *mockRuleRepo) Create(_ context.Context, rule *model.AttendanceRule) error {
	if rule.RuleID == "" {
		m.idCounter++
		rule.RuleID = fmt.Sprintf("rule-%d", m.idCounter)
	}
	m.rules[rule.RuleID] = rule
	return nil
}

func (m *mockRuleRepo) GetByID(_ context.Context, id string) (*model.AttendanceRule, error) {
	if r, ok := m.rules[id]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRuleRepo) GetActiveByType(_ context.Context, ruleType string) (*model.AttendanceRule, error) {
	for _, r := range m.rules {
		if r.RuleType == ruleType && r.IsActive {
			return r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRuleRepo) ListActive(_ context.Context) ([]model.AttendanceRule, error) {
	var result []model.AttendanceRule
	for _, r := range m.rules {
		if r.IsActive {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (m *mockRuleRepo) List(_ context.Context) ([]model.AttendanceRule, error) {
	var result []model.AttendanceRule
	for _, r := range m.rules {
		result = append(result, *r)
	}
	return result, nil
}

func (m *mockRuleRepo) Update(_ context.Context, rule *model.AttendanceRule) error {
	m.rules[rule.RuleID] = rule
	return nil
}

func (m *mockRuleRepo) ClearActiveByType(_ context.Context, ruleType string) error {
	for _, r := range m.rules {
		if r.RuleType == ruleType {
			r.IsActive = false
		}
	}
	return nil
}

func (m *mockRuleRepo) Delete(_ context.Context, id string) error {
	delete(m.rules, id)
	return nil
}

// ── Mock AttendanceRecordRepository ──
// 键为 (teacher_id, 日期)。Upsert 对人工改判的记录返回 ErrManualOverride，
// 与真实实现的 ON CONFLICT ... WHERE NOT is_manual_override 行为一致。

type mockAttendanceRepo struct {
	mu        sync.Mutex
	records   map[string]*model.AttendanceRecord // key: teacherID|2006-01-02
	idCounter int
}

func newMockAttendanceRepo() *mockAttendanceRepo {
	return &mockAttendanceRepo{records: make(map[string]*model.AttendanceRecord)}
}

func attKey(teacherID string, date time.Time) string {
	return teacherID + "|" + date.Format("2006-01-02")
}

func (m *mockAttendanceRepo) Upsert(_ context.Context, rec *model.AttendanceRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := attKey(rec.TeacherID, rec.AttDate)
	existing, ok := m.records[key]
	if !ok {
		m.idCounter++
		if rec.RecordID == "" {
			rec.RecordID = fmt.Sprintf("rec-%d", m.idCounter)
		}
		cp := *rec
		m.records[key] = &cp
		return nil
	}
	if existing.IsManualOverride {
		return pkgerrors.ErrManualOverride
	}
	existing.CheckInTime = rec.CheckInTime
	existing.CheckOutTime = rec.CheckOutTime
	existing.TotalHours = rec.TotalHours
	existing.Status = rec.Status
	existing.LateMinutes = rec.LateMinutes
	existing.EarlyDepartureMinutes = rec.EarlyDepartureMinutes
	existing.DeductionAmount = rec.DeductionAmount
	existing.DeductionReason = rec.DeductionReason
	existing.UploadBatchID = rec.UploadBatchID
	existing.UpdatedBy = rec.UpdatedBy
	return nil
}

func (m *mockAttendanceRepo) GetByTeacherAndDate(_ context.Context, teacherID string, date time.Time) (*model.AttendanceRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if rec, ok := m.records[attKey(teacherID, date)]; ok {
		cp := *rec
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAttendanceRepo) ListByTeacherAndRange(_ context.Context, teacherID string, from, to time.Time) ([]model.AttendanceRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.AttendanceRecord
	for _, rec := range m.records {
		if rec.TeacherID == teacherID && !rec.AttDate.Before(from) && !rec.AttDate.After(to) {
			result = append(result, *rec)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].AttDate.Before(result[j].AttDate) })
	return result, nil
}

func (m *mockAttendanceRepo) List(_ context.Context, teacherID string, from, to time.Time, offset, limit int) ([]model.AttendanceRecord, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var all []model.AttendanceRecord
	for _, rec := range m.records {
		if teacherID != "" && rec.TeacherID != teacherID {
			continue
		}
		if !from.IsZero() && rec.AttDate.Before(from) {
			continue
		}
		if !to.IsZero() && rec.AttDate.After(to) {
			continue
		}
		all = append(all, *rec)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].AttDate.After(all[j].AttDate) })
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockAttendanceRepo) CountLateInRange(_ context.Context, teacherID string, from, to time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, rec := range m.records {
		if rec.TeacherID == teacherID && rec.Status == "late" &&
			!rec.AttDate.Before(from) && !rec.AttDate.After(to) {
			n++
		}
	}
	return n, nil
}

func (m *mockAttendanceRepo) Update(_ context.Context, rec *model.AttendanceRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *rec
	m.records[attKey(rec.TeacherID, rec.AttDate)] = &cp
	return nil
}

// ── Mock UploadBatchRepository ──

type mockUploadBatchRepo struct {
	mu        sync.Mutex
	batches   map[string]*model.UploadBatch
	idCounter int
}

func newMockUploadBatchRepo() *mockUploadBatchRepo {
	return &mockUploadBatchRepo{batches: make(map[string]*model.UploadBatch)}
}

func (m *mockUploadBatchRepo) Create(_ context.Context, batch *model.UploadBatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if batch.BatchID == "" {
		m.idCounter++
		batch.BatchID = fmt.Sprintf("batch-%d", m.idCounter)
	}
	cp := *batch
	m.batches[batch.BatchID] = &cp
	return nil
}

func (m *mockUploadBatchRepo) GetByID(_ context.Context, id string) (*model.UploadBatch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if b, ok := m.batches[id]; ok {
		cp := *b
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUploadBatchRepo) List(_ context.Context, offset, limit int) ([]model.UploadBatch, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var all []model.UploadBatch
	for _, b := range m.batches {
		all = append(all, *b)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].BatchID > all[j].BatchID })
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockUploadBatchRepo) Finalize(_ context.Context, batch *model.UploadBatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *batch
	m.batches[batch.BatchID] = &cp
	return nil
}

// ── Mock SalaryCalculationRepository ──

type mockCalculationRepo struct {
	calcs     map[string]*model.SalaryCalculation // key: calculation_id
	idCounter int
}

func newMockCalculationRepo() *mockCalculationRepo {
	return &mockCalculationRepo{calcs: make(map[string]*model.SalaryCalculation)}
}

func (m *mockCalculationRepo) Create(_ context.Context, calc *model.SalaryCalculation) error {
	if calc.CalculationID == "" {
		m.idCounter++
		calc.CalculationID = fmt.Sprintf("calc-%d", m.idCounter)
	}
	calc.CreatedAt = time.Now()
	cp := *calc
	m.calcs[calc.CalculationID] = &cp
	return nil
}

func (m *mockCalculationRepo) GetByID(_ context.Context, id string) (*model.SalaryCalculation, error) {
	if c, ok := m.calcs[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCalculationRepo) GetByPeriod(_ context.Context, teacherID string, month, year int) (*model.SalaryCalculation, error) {
	for _, c := range m.calcs {
		if c.TeacherID == teacherID && c.Month == month && c.Year == year {
			cp := *c
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCalculationRepo) List(_ context.Context, teacherID string, month, year, offset, limit int) ([]model.SalaryCalculation, int64, error) {
	var all []model.SalaryCalculation
	for _, c := range m.calcs {
		if teacherID != "" && c.TeacherID != teacherID {
			continue
		}
		if month > 0 && c.Month != month {
			continue
		}
		if year > 0 && c.Year != year {
			continue
		}
		all = append(all, *c)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CalculationID < all[j].CalculationID })
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockCalculationRepo) ListByPeriod(_ context.Context, month, year int) ([]model.SalaryCalculation, error) {
	var result []model.SalaryCalculation
	for _, c := range m.calcs {
		if c.Month == month && c.Year == year {
			result = append(result, *c)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CalculationID < result[j].CalculationID })
	return result, nil
}

func (m *mockCalculationRepo) Update(_ context.Context, calc *model.SalaryCalculation) error {
	if _, ok := m.calcs[calc.CalculationID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *calc
	m.calcs[calc.CalculationID] = &cp
	return nil
}

// ── Mock HolidayRepository ──

type mockHolidayRepo struct {
	holidays map[string]*model.Holiday // key: 2006-01-02
}

func newMockHolidayRepo() *mockHolidayRepo {
	return &mockHolidayRepo{holidays: make(map[string]*model.Holiday)}
}

func (m *mockHolidayRepo) Create(_ context.Context, holiday *model.Holiday) error {
	key := holiday.HolidayDate.Format("2006-01-02")
	if holiday.HolidayID == "" {
		holiday.HolidayID = "holiday-" + key
	}
	m.holidays[key] = holiday
	return nil
}

func (m *mockHolidayRepo) BatchUpsert(_ context.Context, holidays []model.Holiday) error {
	for i := range holidays {
		h := holidays[i]
		key := h.HolidayDate.Format("2006-01-02")
		if h.HolidayID == "" {
			h.HolidayID = "holiday-" + key
		}
		m.holidays[key] = &h
	}
	return nil
}

func (m *mockHolidayRepo) ListByRange(_ context.Context, from, to time.Time) ([]model.Holiday, error) {
	var result []model.Holiday
	for _, h := range m.holidays {
		if !h.HolidayDate.Before(from) && !h.HolidayDate.After(to) {
			result = append(result, *h)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].HolidayDate.Before(result[j].HolidayDate) })
	return result, nil
}

func (m *mockHolidayRepo) List(_ context.Context, year int) ([]model.Holiday, error) {
	var result []model.Holiday
	for _, h := range m.holidays {
		if year > 0 && h.HolidayDate.Year() != year {
			continue
		}
		result = append(result, *h)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].HolidayDate.Before(result[j].HolidayDate) })
	return result, nil
}

func (m *mockHolidayRepo) Delete(_ context.Context, id string) error {
	for key, h := range m.holidays {
		if h.HolidayID == id {
			delete(m.holidays, key)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

// ── Mock DeviceRepository ──

type mockDeviceRepo struct {
	devices map[string]*model.Device // key: device_id
}

func newMockDeviceRepo() *mockDeviceRepo {
	return &mockDeviceRepo{devices: make(map[string]*model.Device)}
}

func (m *mockDeviceRepo) Create(_ context.Context, device *model.Device) error {
	if device.DeviceID == "" {
		device.DeviceID = "dev-" + device.SerialNo
	}
	m.devices[device.DeviceID] = device
	return nil
}

func (m *mockDeviceRepo) GetByID(_ context.Context, id string) (*model.Device, error) {
	if d, ok := m.devices[id]; ok {
		return d, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDeviceRepo) GetBySerial(_ context.Context, serialNo string) (*model.Device, error) {
	for _, d := range m.devices {
		if d.SerialNo == serialNo {
			return d, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDeviceRepo) List(_ context.Context) ([]model.Device, error) {
	var result []model.Device
	for _, d := range m.devices {
		result = append(result, *d)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].SerialNo < result[j].SerialNo })
	return result, nil
}

func (m *mockDeviceRepo) Update(_ context.Context, device *model.Device) error {
	m.devices[device.DeviceID] = device
	return nil
}

func (m *mockDeviceRepo) TouchLastSeen(_ context.Context, id string, at time.Time) error {
	if d, ok := m.devices[id]; ok {
		d.LastSeenAt = &at
		return nil
	}
	return gorm.ErrRecordNotFound
}

func (m *mockDeviceRepo) Delete(_ context.Context, id string) error {
	delete(m.devices, id)
	return nil
}

// ── Mock AdminUserRepository ──

type mockAdminUserRepo struct {
	users map[string]*model.AdminUser // key: user_id
}

func newMockAdminUserRepo() *mockAdminUserRepo {
	return &mockAdminUserRepo{users: make(map[string]*model.AdminUser)}
}

func (m *mockAdminUserRepo) Create(_ context.Context, user *model.AdminUser) error {
	if user.UserID == "" {
		user.UserID = "admin-" + user.Username
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockAdminUserRepo) GetByID(_ context.Context, id string) (*model.AdminUser, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAdminUserRepo) GetByUsername(_ context.Context, username string) (*model.AdminUser, error) {
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAdminUserRepo) Update(_ context.Context, user *model.AdminUser) error {
	m.users[user.UserID] = user
	return nil
}

// ── 测试公共辅助 ──

// mockRepos 全部 mock 的聚合，测试按需取用具体字段
type mockRepos struct {
	teacher      *mockTeacherRepo
	salaryConfig *mockSalaryConfigRepo
	timing       *mockTimingRepo
	rule         *mockRuleRepo
	attendance   *mockAttendanceRepo
	uploadBatch  *mockUploadBatchRepo
	calculation  *mockCalculationRepo
	holiday      *mockHolidayRepo
	device       *mockDeviceRepo
	adminUser    *mockAdminUserRepo
}

// newMockRepos 构建 mock 注入的 Repository 聚合。
// db 为 nil，BeginTx 返回 nil 事务，服务按 tx != nil 跳过提交
func newMockRepos() (*repository.Repository, *mockRepos) {
	m := &mockRepos{
		teacher:      newMockTeacherRepo(),
		salaryConfig: newMockSalaryConfigRepo(),
		timing:       newMockTimingRepo(),
		rule:         newMockRuleRepo(),
		attendance:   newMockAttendanceRepo(),
		uploadBatch:  newMockUploadBatchRepo(),
		calculation:  newMockCalculationRepo(),
		holiday:      newMockHolidayRepo(),
		device:       newMockDeviceRepo(),
		adminUser:    newMockAdminUserRepo(),
	}
	repo := &repository.Repository{
		Teacher:      m.teacher,
		SalaryConfig: m.salaryConfig,
		Timing:       m.timing,
		Rule:         m.rule,
		Attendance:   m.attendance,
		UploadBatch:  m.uploadBatch,
		Calculation:  m.calculation,
		Holiday:      m.holiday,
		Device:       m.device,
		AdminUser:    m.adminUser,
	}
	return repo, m
}

// testConfig 单测用配置，取值与生产默认一致
func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:    8080,
			BaseURL: "http://localhost:8080",
		},
		Auth: config.AuthConfig{
			JWTSecret:               "test-secret-key-for-unit-testing-2026",
			AccessTokenTTL:          15 * time.Minute,
			RefreshTokenTTLDefault:  24 * time.Hour,
			RefreshTokenTTLRemember: 7 * 24 * time.Hour,
		},
		Attendance: config.AttendanceConfig{
			DayEndTime:    "16:00",
			HalfDayHours:  4.0,
			ImportWorkers: 4,
			BatchTimeout:  10 * time.Second,
			MaxUploadSize: 10 << 20,
		},
		Salary: config.SalaryConfig{
			LockTTL:     30 * time.Second,
			LockWait:    5 * time.Second,
			CalcTimeout: 30 * time.Second,
		},
	}
}

// seedTeacher 预置一名在职教师
func seedTeacher(m *mockRepos, id, name, employeeNo string) *model.Teacher {
	t := &model.Teacher{TeacherID: id, Name: name, EmployeeNo: employeeNo, Status: "active"}
	m.teacher.teachers[id] = t
	return t
}

// seedActiveTiming 预置启用的考勤时段
func seedActiveTiming(m *mockRepos, arrival, departure string, graceMinutes int) *model.SchoolTiming {
	t := &model.SchoolTiming{
		TimingID:           "timing-default",
		TimingName:         "标准作息",
		ArrivalTime:        arrival,
		DepartureTime:      departure,
		GracePeriodMinutes: graceMinutes,
		IsActive:           true,
	}
	m.timing.timings[t.TimingID] = t
	return t
}

// seedDefaultRules 预置四类启用规则：
// 缺勤扣全天、半天扣半天、迟到超容忍扣 10% 日薪、早退扣固定 20 元
func seedDefaultRules(m *mockRepos, maxLateCount int) {
	rules := []*model.AttendanceRule{
		{RuleID: "rule-absent", RuleName: "缺勤扣全天", RuleType: "absent", DeductionType: "full_day", IsActive: true},
		{RuleID: "rule-half", RuleName: "半天扣半天", RuleType: "half_day", DeductionType: "half_day", IsActive: true},
		{RuleID: "rule-late", RuleName: "迟到扣日薪一成", RuleType: "late_coming", DeductionType: "percentage", DeductionValue: 10, MaxLateCount: maxLateCount, IsActive: true},
		{RuleID: "rule-early", RuleName: "早退扣二十元", RuleType: "early_departure", DeductionType: "fixed_amount", DeductionValue: 20, IsActive: true},
	}
	for _, r := range rules {
		m.rule.rules[r.RuleID] = r
	}
}

// seedSalaryConfig 预置教师薪资配置（EffectiveTo 为 nil 表示当前生效）
func seedSalaryConfig(m *mockRepos, teacherID string, basic, perDay float64, from time.Time) *model.TeacherSalaryConfig {
	m.salaryConfig.idCounter++
	cfg := &model.TeacherSalaryConfig{
		ConfigID:           fmt.Sprintf("cfg-%d", m.salaryConfig.idCounter),
		TeacherID:          teacherID,
		BasicMonthlySalary: basic,
		PerDaySalary:       perDay,
		EffectiveFrom:      from,
		IsActive:           true,
	}
	m.salaryConfig.configs = append(m.salaryConfig.configs, cfg)
	return cfg
}

// utcDate 构造 UTC 零点的纯日期（与 date 列口徑一致）
func utcDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// clockAt 构造某日某时刻的时间戳
func clockAt(date time.Time, hour, minute int) *time.Time {
	t := time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, time.UTC)
	return &t
}
