package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"codyssey/backend/internal/dto"
	"codyssey/backend/internal/service"
	"codyssey/backend/pkg/response"
)

// ContestHandler 比赛模块 HTTP 处理器
type ContestHandler struct {
	contestSvc      *service.ContestService
	registrationSvc *service.RegistrationService
	exportSvc       *service.ExportService
}

// NewContestHandler 创建 ContestHandler
func NewContestHandler(contestSvc *service.ContestService, registrationSvc *service.RegistrationService, exportSvc *service.ExportService) *ContestHandler {
	return &ContestHandler{
		contestSvc:      contestSvc,
		registrationSvc: registrationSvc,
		exportSvc:       exportSvc,
	}
}

// ListContests 公开空间比赛列表，按状态分三段
// GET /api/v1/contest
func (h *ContestHandler) ListContests(c *gin.Context) {
	var req dto.ContestListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 12001, "参数校验失败")
		return
	}

	resp, err := h.contestSvc.GetContests(c.Request.Context(), OptionalUserID(c), req.Search)
	if err != nil {
		h.handleContestError(c, err)
		return
	}
	response.OK(c, resp)
}

// ListGroupContests 指定分组的未结束比赛
// GET /api/v1/contest/group/:groupId
func (h *ContestHandler) ListGroupContests(c *gin.Context) {
	groupID, ok := parseIDParam(c, "groupId")
	if !ok {
		response.BadRequest(c, 12001, "分组ID无效")
		return
	}
	var req dto.GroupContestListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 12001, "参数校验失败")
		return
	}

	resp, err := h.contestSvc.GetContestsByGroupID(c.Request.Context(), groupID, OptionalUserID(c), req.Search)
	if err != nil {
		h.handleContestError(c, err)
		return
	}
	response.OK(c, resp)
}

// ListRegisteredFinished 已报名且已结束的比赛，游标分页
// GET /api/v1/contest/registered-finished
func (h *ContestHandler) ListRegisteredFinished(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.RegisteredFinishedRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 12001, "参数校验失败")
		return
	}

	resp, err := h.contestSvc.GetRegisteredFinishedContests(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleContestError(c, err)
		return
	}
	response.OK(c, resp)
}

// GetBanner 首页 Banner 比赛
// GET /api/v1/contest/banner
func (h *ContestHandler) GetBanner(c *gin.Context) {
	resp, err := h.contestSvc.GetBannerContests(c.Request.Context())
	if err != nil {
		h.handleContestError(c, err)
		return
	}
	response.OK(c, resp)
}

// GetCalendar 未结束比赛的 iCalendar 订阅源
// GET /api/v1/contest/calendar
func (h *ContestHandler) GetCalendar(c *gin.Context) {
	data, err := h.exportSvc.ExportCalendar(c.Request.Context())
	if err != nil {
		h.handleContestError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="contests.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", data)
}

// GetContest 比赛详情
// GET /api/v1/contest/:id
func (h *ContestHandler) GetContest(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, 12001, "比赛ID无效")
		return
	}
	var req dto.ContestDetailRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 12001, "参数校验失败")
		return
	}

	resp, err := h.contestSvc.GetContest(c.Request.Context(), id, req.GroupID, OptionalUserID(c))
	if err != nil {
		h.handleContestError(c, err)
		return
	}
	response.OK(c, resp)
}

// GetLeaderboard 比赛排行榜
// GET /api/v1/contest/:id/leaderboard
func (h *ContestHandler) GetLeaderboard(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, 12001, "比赛ID无效")
		return
	}
	var req dto.LeaderboardRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 12001, "参数校验失败")
		return
	}

	resp, err := h.contestSvc.GetLeaderboard(c.Request.Context(), id, req.GroupID, req.Search)
	if err != nil {
		h.handleContestError(c, err)
		return
	}
	response.OK(c, resp)
}

// ExportLeaderboard 导出排行榜 xlsx（运营专用）
// GET /api/v1/contest/:id/leaderboard/export
func (h *ContestHandler) ExportLeaderboard(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, 12001, "比赛ID无效")
		return
	}
	var req dto.LeaderboardRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 12001, "参数校验失败")
		return
	}

	data, filename, err := h.exportSvc.ExportLeaderboard(c.Request.Context(), id, req.GroupID)
	if err != nil {
		h.handleContestError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// Register 报名比赛
// POST /api/v1/contest/:id/participation
func (h *ContestHandler) Register(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	username, ok := MustGetUsername(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, 12001, "比赛ID无效")
		return
	}
	var req dto.RegisterContestRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 12001, "参数校验失败")
		return
	}

	record, err := h.registrationSvc.Register(c.Request.Context(), userID, username, id, &req)
	if err != nil {
		h.handleContestError(c, err)
		return
	}
	response.Created(c, record)
}

// Unregister 取消报名
// DELETE /api/v1/contest/:id/participation
func (h *ContestHandler) Unregister(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, 12001, "比赛ID无效")
		return
	}
	var req dto.UnregisterContestRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 12001, "参数校验失败")
		return
	}

	record, err := h.registrationSvc.Unregister(c.Request.Context(), userID, id, &req)
	if err != nil {
		h.handleContestError(c, err)
		return
	}
	response.OK(c, record)
}

// handleContestError 统一处理比赛模块业务错误
func (h *ContestHandler) handleContestError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrContestNotFound):
		response.NotFound(c, 12101, "比赛不存在")
	case errors.Is(err, service.ErrNoUpcomingContest):
		response.NotFound(c, 12102, "当前没有未开始的比赛")
	case errors.Is(err, service.ErrInvalidInvitationCode):
		response.Conflict(c, 12103, "邀请码不正确")
	case errors.Is(err, service.ErrAlreadyRegistered):
		response.Conflict(c, 12104, "已经报名过该比赛")
	case errors.Is(err, service.ErrContestEnded):
		response.Conflict(c, 12105, "比赛已结束，无法报名")
	case errors.Is(err, service.ErrContestStarted):
		response.Forbidden(c, 12106, "比赛已开始，无法取消报名")
	case errors.Is(err, service.ErrContestRecordNotFound):
		response.NotFound(c, 12107, "报名记录不存在")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/contest_handler.go
