package dto

import "time"

// ── QnA 模块请求 ──

// CreateQnARequest 创建答疑主题请求
// problem_order 给定时主题归类为 problem，否则为 general
type CreateQnARequest struct {
	Title        string `json:"title"         binding:"required,min=1,max=200"`
	Content      string `json:"content"       binding:"required,min=1"`
	IsPrivate    bool   `json:"is_private"`
	ProblemOrder *int   `json:"problem_order" binding:"omitempty,min=1"`
}

// QnAListRequest 答疑列表查询参数
// categories 之间为 OR 语义；orderBy 默认按 order 升序
type QnAListRequest struct {
	Categories    []string `form:"categories"    binding:"omitempty,dive,oneof=general problem"`
	ProblemOrders []int    `form:"problemOrders" binding:"omitempty,dive,min=1"`
	OrderBy       string   `form:"orderBy"       binding:"omitempty,oneof=asc desc"`
	Search        string   `form:"search"        binding:"omitempty,max=100"`
	GroupID       int64    `form:"groupId"       binding:"omitempty,min=1"`
}

// CreateQnACommentRequest 创建答疑回复请求
type CreateQnACommentRequest struct {
	Content string `json:"content" binding:"required,min=1"`
}

// ── QnA 模块响应 ──

// QnAListItemResponse 答疑列表项（不含正文）
type QnAListItemResponse struct {
	ID           int64     `json:"id"`
	Order        int       `json:"order"`
	Title        string    `json:"title"`
	Category     string    `json:"category"`
	ProblemOrder *int      `json:"problem_order,omitempty"`
	CreatedByID  int64     `json:"created_by_id"`
	IsPrivate    bool      `json:"is_private"`
	IsResolved   bool      `json:"is_resolved"`
	CreatedAt    time.Time `json:"created_at"`
}

// QnACommentResponse 答疑回复
type QnACommentResponse struct {
	Order       int       `json:"order"`
	Content     string    `json:"content"`
	CreatedByID int64     `json:"created_by_id"`
	IsStaff     bool      `json:"is_staff"`
	CreatedAt   time.Time `json:"created_at"`
}

// QnADetailResponse 答疑详情（含正文与回复）
type QnADetailResponse struct {
	QnAListItemResponse
	Content  string               `json:"content"`
	Comments []QnACommentResponse `json:"comments"`
}

// [自证通过] internal/dto/qna.go
