package handler

import (
	"studio-booking/config"
	"studio-booking/internal/service"
)

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth    *AuthHandler
	User    *UserHandler
	Room    *RoomHandler
	Booking *BookingHandler
	Class   *ClassHandler
	Student *StudentHandler
	Export  *ExportHandler
	System  *SystemHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(cfg *config.Config, svc *service.Service) *Handler {
	pg := Paging{Default: cfg.Schedule.DefaultListLimit, Max: cfg.Schedule.MaxListLimit}
	return &Handler{
		Auth:    NewAuthHandler(svc.Auth),
		User:    NewUserHandler(svc.User, pg),
		Room:    NewRoomHandler(svc.Room, pg),
		Booking: NewBookingHandler(svc.Booking, svc.Calendar, pg),
		Class:   NewClassHandler(svc.Class, pg),
		Student: NewStudentHandler(svc.Student, pg),
		Export:  NewExportHandler(svc.Export),
		System:  NewSystemHandler(cfg.Bootstrap.AdminEmail),
	}
}
