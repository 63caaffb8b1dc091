package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Completer 将已结束的记录标记为 completed
type Completer interface {
	CompleteEnded(ctx context.Context, now time.Time) (int64, error)
}

// Scheduler 后台定时任务
type Scheduler struct {
	cron     *cron.Cron
	bookings Completer
	classes  Completer
	now      func() time.Time
	timeout  time.Duration
	logger   *zap.Logger
}

// NewScheduler 创建定时任务调度器
func NewScheduler(bookings, classes Completer, logger *zap.Logger) *Scheduler {
	cl := newCronLogger(logger)
	return &Scheduler{
		cron:     cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl))),
		bookings: bookings,
		classes:  classes,
		now:      time.Now,
		timeout:  time.Minute,
		logger:   logger,
	}
}

// Start 按 cron 表达式注册完成任务并启动调度
// 表达式为空时不注册任何任务
func (s *Scheduler) Start(spec string) error {
	if spec != "" {
		if _, err := s.cron.AddFunc(spec, s.run); err != nil {
			return fmt.Errorf("注册完成任务失败: %w", err)
		}
	}
	s.cron.Start()
	s.logger.Info("定时任务已启动", zap.String("completion_spec", spec))
	return nil
}

// Stop 停止调度并等待正在执行的任务结束
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.logger.Warn("等待定时任务结束超时")
	}
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	s.CompleteEnded(ctx)
}

// CompleteEnded 执行一次：结束时间已过的 confirmed 预约与 scheduled 课程置为 completed
func (s *Scheduler) CompleteEnded(ctx context.Context) (bookings, classes int64) {
	now := s.now()

	n, err := s.bookings.CompleteEnded(ctx, now)
	if err != nil {
		s.logger.Error("标记预约完成失败", zap.Error(err))
	} else {
		bookings = n
	}

	n, err = s.classes.CompleteEnded(ctx, now)
	if err != nil {
		s.logger.Error("标记课程完成失败", zap.Error(err))
	} else {
		classes = n
	}

	if bookings > 0 || classes > 0 {
		s.logger.Info("已标记完成",
			zap.Int64("bookings", bookings),
			zap.Int64("classes", classes),
		)
	}
	return bookings, classes
}
