package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"studio-booking/config"
	"studio-booking/internal/model"
	"studio-booking/internal/repository"
)

// sampleRooms 空库时写入的示例房间
var sampleRooms = []struct {
	name, description, equipment string
	capacity                     int
}{
	{"Practice Room 1", "Standard practice room", "Acoustic drum kit, sticks, practice pad", 2},
	{"Practice Room 2", "Electronic drum practice room", "Electronic drum kit, headphones, amplifier", 1},
	{"Recording Studio", "Professional recording studio", "Professional drum kit, microphones, recording equipment", 4},
}

// Bootstrap 启动时确保管理员账号存在；房间表为空时写入示例房间
func Bootstrap(ctx context.Context, cfg *config.BootstrapConfig, repo *repository.Repository, logger *zap.Logger) error {
	if cfg.AdminEmail != "" {
		if err := ensureAdmin(ctx, cfg, repo, logger); err != nil {
			return err
		}
	}

	if !cfg.SeedRooms {
		return nil
	}
	n, err := repo.Room.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	for _, sr := range sampleRooms {
		desc, equip := sr.description, sr.equipment
		room := &model.Room{
			Name:        sr.name,
			Description: &desc,
			Capacity:    sr.capacity,
			Equipment:   &equip,
			IsActive:    true,
		}
		if err := repo.Room.Create(ctx, room); err != nil {
			return err
		}
	}
	logger.Info("已写入示例房间", zap.Int("count", len(sampleRooms)))
	return nil
}

func ensureAdmin(ctx context.Context, cfg *config.BootstrapConfig, repo *repository.Repository, logger *zap.Logger) error {
	_, err := repo.User.GetByEmail(ctx, cfg.AdminEmail)
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := &model.User{
		Email:          cfg.AdminEmail,
		HashedPassword: string(hash),
		FullName:       "Administrator",
		IsActive:       true,
		IsAdmin:        true,
	}
	if err := repo.User.Create(ctx, admin); err != nil {
		return err
	}
	logger.Info("已创建管理员账号", zap.String("email", cfg.AdminEmail))
	return nil
}
