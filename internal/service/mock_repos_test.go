package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"

	"codyssey/backend/internal/model"
	"codyssey/backend/internal/repository"
)

// fixedClock 固定时刻的时钟
type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

// ── 内存版比赛 Repository ──

type mockContestRepo struct {
	mu       sync.Mutex
	contests map[int64]model.Contest
	records  *mockContestRecordRepo // 报名最多排行需要
}

func newMockContestRepo(contests ...model.Contest) *mockContestRepo {
	m := &mockContestRepo{contests: make(map[int64]model.Contest)}
	for _, c := range contests {
		m.contests[c.ID] = c
	}
	return m
}

func (m *mockContestRepo) match(c model.Contest, q repository.ContestQuery) bool {
	if c.GroupID != q.GroupID || !c.IsVisible {
		return false
	}
	if q.Status != "" && c.StatusAt(q.Now) != q.Status {
		return false
	}
	if q.NotFinished && !c.EndTime.After(q.Now) {
		return false
	}
	if q.Search != "" && !strings.Contains(strings.ToLower(c.Title), strings.ToLower(q.Search)) {
		return false
	}
	if q.IDs != nil {
		found := false
		for _, id := range q.IDs {
			if id == c.ID {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if q.AfterID > 0 && c.ID <= q.AfterID {
		return false
	}
	return true
}

func (m *mockContestRepo) List(_ context.Context, q repository.ContestQuery) ([]model.Contest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []model.Contest
	for _, c := range m.contests {
		if m.match(c, q) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if q.OrderByID {
			return out[i].ID < out[j].ID
		}
		if !out[i].StartTime.Equal(out[j].StartTime) {
			return out[i].StartTime.Before(out[j].StartTime)
		}
		return out[i].ID < out[j].ID
	})
	if q.Take > 0 && len(out) > q.Take {
		out = out[:q.Take]
	}
	return out, nil
}

func (m *mockContestRepo) Count(_ context.Context, q repository.ContestQuery) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	q.AfterID = 0
	q.Take = 0
	var total int64
	for _, c := range m.contests {
		if m.match(c, q) {
			total++
		}
	}
	return total, nil
}

func (m *mockContestRepo) Get(_ context.Context, id, groupID int64) (*model.Contest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.contests[id]
	if !ok || c.GroupID != groupID {
		return nil, gorm.ErrRecordNotFound
	}
	return &c, nil
}

func (m *mockContestRepo) GetVisible(ctx context.Context, id, groupID int64) (*model.Contest, error) {
	c, err := m.Get(ctx, id, groupID)
	if err != nil {
		return nil, err
	}
	if !c.IsVisible {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (m *mockContestRepo) ExistsVisible(ctx context.Context, id, groupID int64) (bool, error) {
	if _, err := m.GetVisible(ctx, id, groupID); err != nil {
		return false, nil
	}
	return true, nil
}

func (m *mockContestRepo) upcoming(groupID int64, now time.Time) []model.Contest {
	var out []model.Contest
	for _, c := range m.contests {
		if c.GroupID == groupID && c.IsVisible && c.StartTime.After(now) {
			out = append(out, c)
		}
	}
	return out
}

func (m *mockContestRepo) FastestUpcoming(_ context.Context, groupID int64, now time.Time) (*model.Contest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	candidates := m.upcoming(groupID, now)
	if len(candidates) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	sort.Slice(candidates, func(i, j int) bool {
		if !candidates[i].StartTime.Equal(candidates[j].StartTime) {
			return candidates[i].StartTime.Before(candidates[j].StartTime)
		}
		return candidates[i].ID < candidates[j].ID
	})
	return &candidates[0], nil
}

func (m *mockContestRepo) MostRegisteredUpcoming(_ context.Context, groupID int64, now time.Time) (*model.Contest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	candidates := m.upcoming(groupID, now)
	if len(candidates) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	counts := make(map[int64]int64)
	if m.records != nil {
		for _, r := range m.records.records {
			counts[r.ContestID]++
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		if counts[candidates[i].ID] != counts[candidates[j].ID] {
			return counts[candidates[i].ID] > counts[candidates[j].ID]
		}
		return candidates[i].ID < candidates[j].ID
	})
	return &candidates[0], nil
}

// ── 内存版报名记录 Repository ──

type mockContestRecordRepo struct {
	mu      sync.Mutex
	nextID  int64
	records []model.ContestRecord
}

func newMockContestRecordRepo() *mockContestRecordRepo {
	return &mockContestRecordRepo{nextID: 1}
}

// Create 模拟 (contest_id, user_id) 唯一约束，
// 冲突时返回 gorm.ErrDuplicatedKey，与 TranslateError 行为一致
func (m *mockContestRecordRepo) Create(_ context.Context, record *model.ContestRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, r := range m.records {
		if r.ContestID == record.ContestID && r.UserID == record.UserID {
			return gorm.ErrDuplicatedKey
		}
	}
	record.ID = m.nextID
	m.nextID++
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}
	m.records = append(m.records, *record)
	return nil
}

func (m *mockContestRecordRepo) GetByContestAndUser(_ context.Context, contestID, userID int64) (*model.ContestRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, r := range m.records {
		if r.ContestID == contestID && r.UserID == userID {
			rec := r
			return &rec, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockContestRecordRepo) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, r := range m.records {
		if r.ID == id {
			m.records = append(m.records[:i], m.records[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *mockContestRecordRepo) ListContestIDsByUser(_ context.Context, userID int64) ([]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var ids []int64
	for _, r := range m.records {
		if r.UserID == userID {
			ids = append(ids, r.ContestID)
		}
	}
	return ids, nil
}

func (m *mockContestRecordRepo) CountByContest(_ context.Context, contestID int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var count int64
	for _, r := range m.records {
		if r.ContestID == contestID {
			count++
		}
	}
	return count, nil
}

func (m *mockContestRecordRepo) CountByContestIDs(_ context.Context, contestIDs []int64) (map[int64]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	counts := make(map[int64]int64, len(contestIDs))
	for _, id := range contestIDs {
		for _, r := range m.records {
			if r.ContestID == id {
				counts[id]++
			}
		}
	}
	return counts, nil
}

func (m *mockContestRecordRepo) ListByContest(_ context.Context, contestID int64) ([]model.ContestRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []model.ContestRecord
	for _, r := range m.records {
		if r.ContestID == contestID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.TotalPenalty != b.TotalPenalty {
			return a.TotalPenalty < b.TotalPenalty
		}
		switch {
		case a.LastAcceptedTime == nil && b.LastAcceptedTime != nil:
			return false
		case a.LastAcceptedTime != nil && b.LastAcceptedTime == nil:
			return true
		case a.LastAcceptedTime != nil && b.LastAcceptedTime != nil &&
			!a.LastAcceptedTime.Equal(*b.LastAcceptedTime):
			return a.LastAcceptedTime.Before(*b.LastAcceptedTime)
		}
		return a.UserID < b.UserID
	})
	return out, nil
}

// ── 内存版答疑 Repository ──

type mockQnARepo struct {
	mu       sync.Mutex
	nextID   int64
	qnas     []model.ContestQnA
	comments []model.ContestQnAComment
}

func newMockQnARepo() *mockQnARepo {
	return &mockQnARepo{nextID: 1}
}

func (m *mockQnARepo) Create(_ context.Context, qna *model.ContestQnA) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	maxOrder := 0
	for _, q := range m.qnas {
		if q.ContestID == qna.ContestID && q.Order > maxOrder {
			maxOrder = q.Order
		}
	}
	qna.ID = m.nextID
	m.nextID++
	qna.Order = maxOrder + 1
	if qna.CreatedAt.IsZero() {
		qna.CreatedAt = time.Now()
	}
	m.qnas = append(m.qnas, *qna)
	return nil
}

func (m *mockQnARepo) GetByOrder(_ context.Context, contestID int64, order int) (*model.ContestQnA, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, q := range m.qnas {
		if q.ContestID == contestID && q.Order == order {
			qna := q
			qna.Comments = m.commentsOf(q.ID)
			return &qna, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockQnARepo) commentsOf(qnaID int64) []model.ContestQnAComment {
	var out []model.ContestQnAComment
	for _, c := range m.comments {
		if c.ContestQnAID == qnaID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

func (m *mockQnARepo) List(_ context.Context, q repository.QnAQuery) ([]model.ContestQnA, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []model.ContestQnA
	for _, qna := range m.qnas {
		if qna.ContestID != q.ContestID {
			continue
		}
		if len(q.Categories) > 0 && !matchCategory(qna, q) {
			continue
		}
		if q.PublicOnly && qna.IsPrivate {
			continue
		}
		if q.ViewerID != nil && qna.IsPrivate && qna.CreatedByID != *q.ViewerID {
			continue
		}
		if q.Search != "" &&
			!strings.Contains(strings.ToLower(qna.Title), strings.ToLower(q.Search)) &&
			!strings.Contains(strings.ToLower(qna.Content), strings.ToLower(q.Search)) {
			continue
		}
		out = append(out, qna)
	}
	sort.Slice(out, func(i, j int) bool {
		if q.Desc {
			return out[i].Order > out[j].Order
		}
		return out[i].Order < out[j].Order
	})
	return out, nil
}

func matchCategory(qna model.ContestQnA, q repository.QnAQuery) bool {
	for _, category := range q.Categories {
		if qna.Category != category {
			continue
		}
		if category == model.QnACategoryProblem && len(q.ProblemOrders) > 0 {
			for _, po := range q.ProblemOrders {
				if qna.ProblemOrder != nil && *qna.ProblemOrder == po {
					return true
				}
			}
			continue
		}
		return true
	}
	return false
}

func (m *mockQnARepo) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, q := range m.qnas {
		if q.ID == id {
			m.qnas = append(m.qnas[:i], m.qnas[i+1:]...)
			break
		}
	}
	var remaining []model.ContestQnAComment
	for _, c := range m.comments {
		if c.ContestQnAID != id {
			remaining = append(remaining, c)
		}
	}
	m.comments = remaining
	return nil
}

func (m *mockQnARepo) AddComment(_ context.Context, qnaID int64, comment *model.ContestQnAComment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	maxOrder := 0
	for _, c := range m.comments {
		if c.ContestQnAID == qnaID && c.Order > maxOrder {
			maxOrder = c.Order
		}
	}
	comment.ID = m.nextID
	m.nextID++
	comment.ContestQnAID = qnaID
	comment.Order = maxOrder + 1
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now()
	}
	m.comments = append(m.comments, *comment)
	m.setResolved(qnaID, comment.IsStaff)
	return nil
}

func (m *mockQnARepo) GetComment(_ context.Context, qnaID int64, order int) (*model.ContestQnAComment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, c := range m.comments {
		if c.ContestQnAID == qnaID && c.Order == order {
			comment := c
			return &comment, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockQnARepo) DeleteComment(_ context.Context, comment *model.ContestQnAComment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, c := range m.comments {
		if c.ID == comment.ID {
			m.comments = append(m.comments[:i], m.comments[i+1:]...)
			break
		}
	}
	remaining := m.commentsOf(comment.ContestQnAID)
	resolved := false
	if len(remaining) > 0 {
		resolved = remaining[len(remaining)-1].IsStaff
	}
	m.setResolved(comment.ContestQnAID, resolved)
	return nil
}

func (m *mockQnARepo) setResolved(qnaID int64, resolved bool) {
	for i := range m.qnas {
		if m.qnas[i].ID == qnaID {
			m.qnas[i].IsResolved = resolved
			return
		}
	}
}

// ── 组装辅助 ──

func newTestRepository(contestRepo *mockContestRepo, recordRepo *mockContestRecordRepo, qnaRepo *mockQnARepo) *repository.Repository {
	contestRepo.records = recordRepo
	return &repository.Repository{
		Contest:       contestRepo,
		ContestRecord: recordRepo,
		QnA:           qnaRepo,
	}
}
