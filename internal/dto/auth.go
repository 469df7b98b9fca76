package dto

// ── 认证模块 DTO ──

// RegisterRequest 注册请求
type RegisterRequest struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	Name     string `json:"name"     binding:"omitempty,max=100"` // 可选显示名，缺省回退为邮箱
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshTokenRequest 刷新 Token 请求
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// TokenResponse 登录/刷新响应
type TokenResponse struct {
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	ExpiresIn    int             `json:"expires_in"` // Access Token 有效期（秒）
	Profile      ProfileResponse `json:"profile"`
}

// IdentityResponse 当前登录身份响应
type IdentityResponse struct {
	ID        string           `json:"id"`
	Email     string           `json:"email"`
	CreatedAt string           `json:"created_at"`
	Profile   *ProfileResponse `json:"profile,omitempty"`
}
