package dto

// ── 列表请求 ──

// ListRequest 通用 skip/limit 分页参数
type ListRequest struct {
	Skip  int `form:"skip"  binding:"omitempty,min=0"`
	Limit int `form:"limit" binding:"omitempty,min=1,max=1000"`
}

// GetLimit 获取每页数量（含默认值与上限）
func (p *ListRequest) GetLimit(def, max int) int {
	if p.Limit <= 0 {
		return def
	}
	if max > 0 && p.Limit > max {
		return max
	}
	return p.Limit
}

// GetSkip 获取偏移量
func (p *ListRequest) GetSkip() int {
	if p.Skip < 0 {
		return 0
	}
	return p.Skip
}

// WelcomeResponse 根路径说明
type WelcomeResponse struct {
	Message    string `json:"message"`
	Docs       string `json:"docs"`
	AdminEmail string `json:"admin_email"`
}
