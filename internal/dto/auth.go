package dto

// ── 认证模块 DTO ──

// LoginRequest 登录请求
// 同时支持 JSON {email,password} 与表单 {username,password}
type LoginRequest struct {
	Email    string `json:"email"    form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Email    string  `json:"email"     binding:"required,email"`
	Password string  `json:"password"  binding:"required,min=6,max=72"`
	FullName string  `json:"full_name" binding:"required,min=1,max=100"`
	Phone    *string `json:"phone"     binding:"omitempty,max=30"`
}

// TokenResponse 登录成功响应
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"` // 秒
}
