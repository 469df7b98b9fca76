package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"smart-class-flow/backend/internal/model"
	"smart-class-flow/backend/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoEntries    = errors.New("暂无可导出的课程安排")
	ErrExportGenerateFail = errors.New("生成导出文件失败")
)

// ExportService 导出业务接口
//
// 设计说明：
//   - 课程安排导出为 Excel (.xlsx) 与 iCalendar (.ics) 两种格式
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
//   - 课程安排读取是公开的，导出不走角色策略
type ExportService interface {
	// ExportTimetableXLSX 导出课程安排为 Excel
	ExportTimetableXLSX(ctx context.Context) (*bytes.Buffer, string, error)
	// ExportTimetableICS 导出课程安排为 iCalendar 周历
	ExportTimetableICS(ctx context.Context) (*bytes.Buffer, string, error)
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
// ExportTimetableXLSX — 导出课程安排为 Excel
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - 单 Sheet "Timetable"
//   - 列：Day / Start / End / Course / Faculty / Room / Semester / Year
//   - 行按星期 + 开始时间排序（复用列表查询的排序）

func (s *exportService) ExportTimetableXLSX(ctx context.Context) (*bytes.Buffer, string, error) {
	entries, err := s.loadEntries(ctx)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Timetable"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Day", "Start", "End", "Course", "Faculty", "Room", "Semester", "Year"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			s.logger.Error("写入表头失败", zap.Error(err))
			return nil, "", ErrExportGenerateFail
		}
	}

	for row, e := range entries {
		values := []interface{}{
			e.DayOfWeek,
			e.StartTime,
			e.EndTime,
			courseLabel(&e),
			facultyLabel(&e),
			roomLabel(&e),
			e.Semester,
			e.AcademicYear,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				s.logger.Error("写入单元格失败", zap.Error(err))
				return nil, "", ErrExportGenerateFail
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		s.logger.Error("序列化 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("timetable_%s.xlsx", time.Now().Format("20060102"))
	return buf, filename, nil
}

// ═══════════════════════════════════════════════════════════
// ExportTimetableICS — 导出课程安排为 iCalendar
// ═══════════════════════════════════════════════════════════
//
// 每条安排生成一个每周重复的 VEVENT：
//   - DTSTART/DTEND 取下一次该星期对应的日期 + 时段
//   - RRULE FREQ=WEEKLY;BYDAY=<星期>

func (s *exportService) ExportTimetableICS(ctx context.Context) (*bytes.Buffer, string, error) {
	entries, err := s.loadEntries(ctx)
	if err != nil {
		return nil, "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//smart-class-flow//timetable//EN")

	now := time.Now()
	for i := range entries {
		e := &entries[i]

		start, end, err := entrySlotTimes(e, now)
		if err != nil {
			// 单条时段异常不应中断整个导出
			s.logger.Warn("跳过无效时段的安排", zap.String("entry_id", e.EntryID), zap.Error(err))
			continue
		}

		evt := cal.AddEvent(e.EntryID + "@smart-class-flow")
		evt.SetCreatedTime(now)
		evt.SetDtStampTime(now)
		evt.SetStartAt(start)
		evt.SetEndAt(end)
		evt.SetSummary(courseLabel(e))
		evt.SetLocation(roomLabel(e))
		if e.Faculty != nil {
			evt.SetDescription("Faculty: " + e.Faculty.Name)
		}
		evt.AddRrule("FREQ=WEEKLY;BYDAY=" + icsByDay(e.DayOfWeek))
	}

	buf := bytes.NewBufferString(cal.Serialize())
	filename := fmt.Sprintf("timetable_%s.ics", now.Format("20060102"))
	return buf, filename, nil
}

// ── 内部辅助方法 ──

func (s *exportService) loadEntries(ctx context.Context) ([]model.TimetableEntry, error) {
	entries, err := s.repo.Timetable.List(ctx, repository.TimetableFilter{})
	if err != nil {
		s.logger.Error("查询课程安排失败", zap.Error(err))
		return nil, err
	}
	if len(entries) == 0 {
		return nil, ErrExportNoEntries
	}
	return entries, nil
}

// entrySlotTimes 计算安排下一次发生的起止时刻
func entrySlotTimes(e *model.TimetableEntry, now time.Time) (time.Time, time.Time, error) {
	start, err := parseClock(e.StartTime)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := parseClock(e.EndTime)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	target, ok := weekdayOf(e.DayOfWeek)
	if !ok {
		return time.Time{}, time.Time{}, ErrInvalidDayOfWeek
	}

	days := (int(target) - int(now.Weekday()) + 7) % 7
	date := now.AddDate(0, 0, days)

	s := time.Date(date.Year(), date.Month(), date.Day(), start.Hour(), start.Minute(), 0, 0, now.Location())
	t := time.Date(date.Year(), date.Month(), date.Day(), end.Hour(), end.Minute(), 0, 0, now.Location())
	return s, t, nil
}

func weekdayOf(day string) (time.Weekday, bool) {
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		if wd.String() == day {
			return wd, true
		}
	}
	return time.Sunday, false
}

// icsByDay RFC 5545 BYDAY 两字母缩写（英文星期名前两位大写恰好一致）
func icsByDay(day string) string {
	if len(day) < 2 {
		return "MO"
	}
	return strings.ToUpper(day[:2])
}

func courseLabel(e *model.TimetableEntry) string {
	if e.Course == nil {
		return e.CourseID
	}
	return e.Course.Code + " " + e.Course.Name
}

func facultyLabel(e *model.TimetableEntry) string {
	if e.Faculty == nil {
		return ""
	}
	return e.Faculty.Name
}

func roomLabel(e *model.TimetableEntry) string {
	if e.Classroom == nil {
		return ""
	}
	return e.Classroom.Name
}
