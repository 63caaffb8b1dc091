package service

import (
	"time"

	"go.uber.org/zap"

	"studio-booking/config"
	"studio-booking/internal/repository"
	"studio-booking/pkg/jwt"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth     AuthService
	User     UserService
	Room     RoomService
	Booking  BookingService
	Class    ClassService
	Student  StudentService
	Export   ExportService
	Calendar CalendarService
}

// NewService 创建 Service 聚合
// blacklist 可为 nil（未配置 Redis 时登出仅由客户端丢弃 Token）
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	blacklist TokenBlacklist,
	logger *zap.Logger,
) *Service {
	rules := NewScheduleRules(&cfg.Schedule)
	return &Service{
		Auth:     NewAuthService(repo, jwtMgr, blacklist, logger),
		User:     NewUserService(repo, logger),
		Room:     NewRoomService(repo, logger),
		Booking:  NewBookingService(repo, rules, time.Now, logger),
		Class:    NewClassService(repo, rules, logger),
		Student:  NewStudentService(repo, logger),
		Export:   NewExportService(repo, rules, logger),
		Calendar: NewCalendarService(repo, rules, cfg.Auth.Issuer, logger),
	}
}
