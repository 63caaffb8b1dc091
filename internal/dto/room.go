package dto

// ── 房间模块 DTO ──

// CreateRoomRequest 创建房间请求
type CreateRoomRequest struct {
	Name        string  `json:"name"        binding:"required,min=1,max=100"`
	Description *string `json:"description"`
	Capacity    int     `json:"capacity"    binding:"omitempty,min=1,max=100"`
	Equipment   *string `json:"equipment"`
}

// UpdateRoomRequest 更新房间请求
type UpdateRoomRequest struct {
	Name        *string `json:"name"        binding:"omitempty,min=1,max=100"`
	Description *string `json:"description"`
	Capacity    *int    `json:"capacity"    binding:"omitempty,min=1,max=100"`
	Equipment   *string `json:"equipment"`
	IsActive    *bool   `json:"is_active"`
}

// RoomResponse 房间信息响应
type RoomResponse struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Capacity    int     `json:"capacity"`
	Equipment   *string `json:"equipment"`
	IsActive    bool    `json:"is_active"`
}

// EmptyRoomForm 房间表单初始值（取消编辑时复位）
func EmptyRoomForm() CreateRoomRequest {
	return CreateRoomRequest{Capacity: 1}
}
