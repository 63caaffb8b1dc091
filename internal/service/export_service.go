package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"studio-booking/internal/model"
	"studio-booking/internal/repository"
)

// ── 导出模块业务错误 ──

var ErrExportGenerateFail = errors.New("生成 Excel 文件失败")

// exportPageSize 导出时分批读取预约
const exportPageSize = 500

// ExportService 导出业务接口
//
// 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
type ExportService interface {
	// ExportBookings 导出全部预约为 Excel，含用户与房间信息
	ExportBookings(ctx context.Context) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	rules  *ScheduleRules
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, rules *ScheduleRules, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, rules: rules, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// ExportBookings 导出预约为 Excel
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - Sheet "预约"
//   - 表头：ID | 日期 | 开始 | 结束 | 房间 | 用户 | 邮箱 | 状态 | 备注
//   - 时间按业务时区显示

func (s *exportService) ExportBookings(ctx context.Context) (*bytes.Buffer, string, error) {
	// 1. 分批读取
	var bookings []model.Booking
	for offset := 0; ; offset += exportPageSize {
		page, err := s.repo.Booking.List(ctx, offset, exportPageSize)
		if err != nil {
			s.logger.Error("查询预约失败", zap.Error(err))
			return nil, "", err
		}
		bookings = append(bookings, page...)
		if len(page) < exportPageSize {
			break
		}
	}

	// 2. 生成 Excel
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "预约"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(sheetName, "A", "A", 8)
	f.SetColWidth(sheetName, "B", "D", 12)
	f.SetColWidth(sheetName, "E", "G", 24)
	f.SetColWidth(sheetName, "H", "H", 12)
	f.SetColWidth(sheetName, "I", "I", 40)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	headers := []string{"ID", "日期", "开始", "结束", "房间", "用户", "邮箱", "状态", "备注"}
	for i, h := range headers {
		f.SetCellValue(sheetName, cell(colName(i), 1), h)
	}
	f.SetCellStyle(sheetName, "A1", cell(colName(len(headers)-1), 1), headerStyle)

	loc := s.rules.Location()
	row := 2
	for _, b := range bookings {
		start := b.StartTime.In(loc)
		end := b.EndTime.In(loc)

		roomName, userName, email, notes := "-", "-", "-", ""
		if b.Room != nil {
			roomName = b.Room.Name
		}
		if b.User != nil {
			userName = b.User.FullName
			email = b.User.Email
		}
		if b.Notes != nil {
			notes = *b.Notes
		}

		values := []any{b.ID, start.Format("2006-01-02"), start.Format("15:04"), end.Format("15:04"),
			roomName, userName, email, b.Status, notes}
		for i, v := range values {
			f.SetCellValue(sheetName, cell(colName(i), row), v)
		}
		row++
	}

	// 3. 写入 buffer
	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	s.logger.Info("导出预约", zap.Int("count", len(bookings)))
	return buf, "bookings.xlsx", nil
}

// ── 辅助函数 ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
