package repository

import (
	"errors"
	"testing"

	"gorm.io/gorm"
)

func TestRetryOnDuplicate(t *testing.T) {
	t.Run("撞唯一约束后重试一次", func(t *testing.T) {
		calls := 0
		err := retryOnDuplicate(func() error {
			calls++
			if calls == 1 {
				return gorm.ErrDuplicatedKey
			}
			return nil
		})
		if err != nil {
			t.Errorf("重试后应成功，实际 %v", err)
		}
		if calls != 2 {
			t.Errorf("期望调用 2 次，实际 %d 次", calls)
		}
	})

	t.Run("连续冲突只重试一次", func(t *testing.T) {
		calls := 0
		err := retryOnDuplicate(func() error {
			calls++
			return gorm.ErrDuplicatedKey
		})
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			t.Errorf("期望 ErrDuplicatedKey，实际 %v", err)
		}
		if calls != 2 {
			t.Errorf("期望调用 2 次，实际 %d 次", calls)
		}
	})

	t.Run("其他错误不重试", func(t *testing.T) {
		calls := 0
		wantErr := errors.New("连接中断")
		err := retryOnDuplicate(func() error {
			calls++
			return wantErr
		})
		if !errors.Is(err, wantErr) {
			t.Errorf("期望原始错误，实际 %v", err)
		}
		if calls != 1 {
			t.Errorf("期望调用 1 次，实际 %d 次", calls)
		}
	})

	t.Run("首次成功不重试", func(t *testing.T) {
		calls := 0
		if err := retryOnDuplicate(func() error {
			calls++
			return nil
		}); err != nil {
			t.Errorf("期望成功，实际 %v", err)
		}
		if calls != 1 {
			t.Errorf("期望调用 1 次，实际 %d 次", calls)
		}
	})
}
