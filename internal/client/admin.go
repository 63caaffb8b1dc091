package client

import (
	"context"
	"fmt"
	"net/http"

	"studio-booking/internal/dto"
)

// ── 用户 ──

// Users 全部用户
func (c *Client) Users(ctx context.Context, skip, limit int) ([]dto.UserResponse, error) {
	return call[[]dto.UserResponse](ctx, c, http.MethodGet, "/admin/users"+listQuery(skip, limit), nil)
}

// User 用户详情
func (c *Client) User(ctx context.Context, id int64) (*dto.UserResponse, error) {
	u, err := call[dto.UserResponse](ctx, c, http.MethodGet, fmt.Sprintf("/admin/users/%d", id), nil)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateUser 更新用户
func (c *Client) UpdateUser(ctx context.Context, id int64, req *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	u, err := call[dto.UserResponse](ctx, c, http.MethodPut, fmt.Sprintf("/admin/users/%d", id), req)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// ── 预约 ──

// AllBookings 全部预约
func (c *Client) AllBookings(ctx context.Context, skip, limit int) ([]dto.BookingResponse, error) {
	return call[[]dto.BookingResponse](ctx, c, http.MethodGet, "/admin/bookings"+listQuery(skip, limit), nil)
}

// ExportBookings 下载预约 Excel
func (c *Client) ExportBookings(ctx context.Context) ([]byte, error) {
	return c.raw(ctx, "/admin/bookings/export")
}

// ── 房间 ──

// AdminRooms 全部房间（含停用）
func (c *Client) AdminRooms(ctx context.Context) ([]dto.RoomResponse, error) {
	return call[[]dto.RoomResponse](ctx, c, http.MethodGet, "/admin/rooms", nil)
}

// CreateRoom 创建房间
func (c *Client) CreateRoom(ctx context.Context, req *dto.CreateRoomRequest) (*dto.RoomResponse, error) {
	r, err := call[dto.RoomResponse](ctx, c, http.MethodPost, "/admin/rooms", req)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// UpdateRoom 更新房间
func (c *Client) UpdateRoom(ctx context.Context, id int64, req *dto.UpdateRoomRequest) (*dto.RoomResponse, error) {
	r, err := call[dto.RoomResponse](ctx, c, http.MethodPut, fmt.Sprintf("/admin/rooms/%d", id), req)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// DeleteRoom 停用房间
func (c *Client) DeleteRoom(ctx context.Context, id int64) error {
	done, err := c.begin(fmt.Sprintf("room:delete:%d", id))
	if err != nil {
		return err
	}
	defer done()

	_, err = call[struct{}](ctx, c, http.MethodDelete, fmt.Sprintf("/admin/rooms/%d", id), nil)
	return err
}

// ── 学员 ──

// Students 全部启用学员
func (c *Client) Students(ctx context.Context) ([]dto.StudentResponse, error) {
	return call[[]dto.StudentResponse](ctx, c, http.MethodGet, "/students/", nil)
}

// Student 学员详情
func (c *Client) Student(ctx context.Context, id int64) (*dto.StudentResponse, error) {
	s, err := call[dto.StudentResponse](ctx, c, http.MethodGet, fmt.Sprintf("/students/%d", id), nil)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// StudentsByRoom 房间学员
func (c *Client) StudentsByRoom(ctx context.Context, roomID int64) ([]dto.StudentResponse, error) {
	return call[[]dto.StudentResponse](ctx, c, http.MethodGet, fmt.Sprintf("/students/room/%d", roomID), nil)
}

// CreateStudent 创建学员
func (c *Client) CreateStudent(ctx context.Context, req *dto.CreateStudentRequest) (*dto.StudentResponse, error) {
	s, err := call[dto.StudentResponse](ctx, c, http.MethodPost, "/students/", req)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// UpdateStudent 更新学员
func (c *Client) UpdateStudent(ctx context.Context, id int64, req *dto.UpdateStudentRequest) (*dto.StudentResponse, error) {
	s, err := call[dto.StudentResponse](ctx, c, http.MethodPut, fmt.Sprintf("/students/%d", id), req)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// DeleteStudent 停用学员
func (c *Client) DeleteStudent(ctx context.Context, id int64) error {
	done, err := c.begin(fmt.Sprintf("student:delete:%d", id))
	if err != nil {
		return err
	}
	defer done()

	_, err = call[struct{}](ctx, c, http.MethodDelete, fmt.Sprintf("/students/%d", id), nil)
	return err
}
