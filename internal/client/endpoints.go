package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"studio-booking/internal/dto"
)

// ────────────────────── 认证 ──────────────────────

// Login 表单登录，成功后保存 Token
func (c *Client) Login(ctx context.Context, email, password string) (*dto.TokenResponse, error) {
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	req, err := c.newRequest(ctx, http.MethodPost, "/auth/login", strings.NewReader(form.Encode()), "application/x-www-form-urlencoded")
	if err != nil {
		return nil, err
	}
	req.Header.Del("Authorization")

	raw, err := c.send(req)
	if err != nil {
		return nil, err
	}
	tok, err := decodeData[dto.TokenResponse](raw)
	if err != nil {
		return nil, err
	}
	if err := c.tokens.Save(tok.AccessToken); err != nil {
		return nil, fmt.Errorf("保存 Token 失败: %w", err)
	}
	return &tok, nil
}

// Register 注册新用户
func (c *Client) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error) {
	u, err := call[dto.UserResponse](ctx, c, http.MethodPost, "/auth/register", req)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Logout 通知服务端吊销 Token 并清除本地 Token
// 服务端失败时本地 Token 仍会被清除
func (c *Client) Logout(ctx context.Context) error {
	token, err := c.tokens.Load()
	if err != nil {
		return fmt.Errorf("读取 Token 失败: %w", err)
	}
	var callErr error
	if token != "" {
		_, callErr = call[struct{}](ctx, c, http.MethodPost, "/auth/logout", nil)
	}
	if err := c.tokens.Clear(); err != nil {
		return fmt.Errorf("清除 Token 失败: %w", err)
	}
	return callErr
}

// Me 当前用户
func (c *Client) Me(ctx context.Context) (*dto.UserResponse, error) {
	u, err := call[dto.UserResponse](ctx, c, http.MethodGet, "/auth/me", nil)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// MyClasses 当前用户的固定课表
func (c *Client) MyClasses(ctx context.Context) ([]dto.StudentResponse, error) {
	return call[[]dto.StudentResponse](ctx, c, http.MethodGet, "/auth/me/classes", nil)
}

// ────────────────────── 房间 ──────────────────────

// Rooms 启用中的房间
func (c *Client) Rooms(ctx context.Context) ([]dto.RoomResponse, error) {
	return call[[]dto.RoomResponse](ctx, c, http.MethodGet, "/rooms/", nil)
}

// Room 房间详情
func (c *Client) Room(ctx context.Context, id int64) (*dto.RoomResponse, error) {
	r, err := call[dto.RoomResponse](ctx, c, http.MethodGet, fmt.Sprintf("/rooms/%d", id), nil)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// ────────────────────── 预约 ──────────────────────

// MyBookings 我的预约
func (c *Client) MyBookings(ctx context.Context, skip, limit int) ([]dto.BookingResponse, error) {
	return call[[]dto.BookingResponse](ctx, c, http.MethodGet, "/bookings/my-bookings"+listQuery(skip, limit), nil)
}

// MyCalendar 我的预约 iCalendar 订阅内容
func (c *Client) MyCalendar(ctx context.Context) ([]byte, error) {
	return c.raw(ctx, "/bookings/my-bookings.ics")
}

// AvailableSlots 房间某日可预约时段；duration<=0 时使用服务端默认值
func (c *Client) AvailableSlots(ctx context.Context, roomID int64, date string, duration int) ([]dto.SlotResponse, error) {
	q := url.Values{}
	q.Set("room_id", fmt.Sprint(roomID))
	q.Set("date", date)
	if duration > 0 {
		q.Set("duration", fmt.Sprint(duration))
	}
	return call[[]dto.SlotResponse](ctx, c, http.MethodGet, "/bookings/available-slots?"+q.Encode(), nil)
}

// CreateBooking 创建预约；同一房间同一开始时间的请求进行中时返回 ErrRequestInFlight
func (c *Client) CreateBooking(ctx context.Context, req *dto.CreateBookingRequest) (*dto.BookingResponse, error) {
	done, err := c.begin(fmt.Sprintf("book:%d:%s", req.RoomID, req.StartTime))
	if err != nil {
		return nil, err
	}
	defer done()

	b, err := call[dto.BookingResponse](ctx, c, http.MethodPost, "/bookings/", req)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// UpdateBooking 修改预约
func (c *Client) UpdateBooking(ctx context.Context, id int64, req *dto.UpdateBookingRequest) (*dto.BookingResponse, error) {
	done, err := c.begin(fmt.Sprintf("booking:%d", id))
	if err != nil {
		return nil, err
	}
	defer done()

	b, err := call[dto.BookingResponse](ctx, c, http.MethodPut, fmt.Sprintf("/bookings/%d", id), req)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// CancelBooking 取消预约；同一预约的取消进行中时返回 ErrRequestInFlight
func (c *Client) CancelBooking(ctx context.Context, id int64) error {
	done, err := c.begin(CancelKey(id))
	if err != nil {
		return err
	}
	defer done()

	_, err = call[struct{}](ctx, c, http.MethodDelete, fmt.Sprintf("/bookings/%d", id), nil)
	return err
}

// CancelKey 取消预约使用的去重 key
func CancelKey(id int64) string {
	return fmt.Sprintf("cancel:%d", id)
}

// ────────────────────── 课程 ──────────────────────

// ClassesByRoom 房间课程；startDate/endDate 为空时不限制
func (c *Client) ClassesByRoom(ctx context.Context, roomID int64, startDate, endDate string) ([]dto.ClassResponse, error) {
	q := url.Values{}
	if startDate != "" {
		q.Set("start_date", startDate)
	}
	if endDate != "" {
		q.Set("end_date", endDate)
	}
	path := fmt.Sprintf("/classes/room/%d", roomID)
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	return call[[]dto.ClassResponse](ctx, c, http.MethodGet, path, nil)
}

// Classes 全部课程（管理员）
func (c *Client) Classes(ctx context.Context) ([]dto.ClassResponse, error) {
	return call[[]dto.ClassResponse](ctx, c, http.MethodGet, "/classes/", nil)
}

// Class 课程详情（管理员）
func (c *Client) Class(ctx context.Context, id int64) (*dto.ClassResponse, error) {
	cl, err := call[dto.ClassResponse](ctx, c, http.MethodGet, fmt.Sprintf("/classes/%d", id), nil)
	if err != nil {
		return nil, err
	}
	return &cl, nil
}

// CreateClass 创建课程（管理员）
func (c *Client) CreateClass(ctx context.Context, req *dto.CreateClassRequest) (*dto.ClassResponse, error) {
	cl, err := call[dto.ClassResponse](ctx, c, http.MethodPost, "/classes/", req)
	if err != nil {
		return nil, err
	}
	return &cl, nil
}

// UpdateClass 更新课程（管理员）
func (c *Client) UpdateClass(ctx context.Context, id int64, req *dto.UpdateClassRequest) (*dto.ClassResponse, error) {
	cl, err := call[dto.ClassResponse](ctx, c, http.MethodPut, fmt.Sprintf("/classes/%d", id), req)
	if err != nil {
		return nil, err
	}
	return &cl, nil
}

// DeleteClass 删除课程（管理员）
func (c *Client) DeleteClass(ctx context.Context, id int64) error {
	done, err := c.begin(fmt.Sprintf("class:delete:%d", id))
	if err != nil {
		return err
	}
	defer done()

	_, err = call[struct{}](ctx, c, http.MethodDelete, fmt.Sprintf("/classes/%d", id), nil)
	return err
}
