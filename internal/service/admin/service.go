package admin

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/niqqow96/Backend-PKROnchain/internal/config"
	"github.com/niqqow96/Backend-PKROnchain/internal/model"
	"github.com/niqqow96/Backend-PKROnchain/internal/service/game"
	pkgAuth "github.com/niqqow96/Backend-PKROnchain/pkg/auth"
	appErr "github.com/niqqow96/Backend-PKROnchain/pkg/errors"
	"github.com/niqqow96/Backend-PKROnchain/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// authorityID is the primary key of the GameAuthority singleton.
const authorityID = 1

type Service struct {
	db *gorm.DB
}

type LoginResult struct {
	Token    string    `json:"token"`
	ExpireAt time.Time `json:"expireAt"`
	Admin    AdminInfo `json:"admin"`
}

type AdminInfo struct {
	ID          int64      `json:"id"`
	Username    string     `json:"username"`
	DisplayName string     `json:"displayName"`
	Status      string     `json:"status"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

func (s *Service) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)
	if username == "" || password == "" {
		return nil, appErr.ErrInvalidAdminPassword
	}

	var admin model.Admin
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, appErr.ErrAdminNotFound
		}
		return nil, err
	}
	if !strings.EqualFold(admin.Status, "active") {
		return nil, appErr.ErrAdminDisabled
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return nil, appErr.ErrInvalidAdminPassword
	}

	token, expireAt, err := pkgAuth.GenerateAdminToken(admin.Username)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err := s.db.WithContext(ctx).
		Model(&admin).
		Updates(map[string]interface{}{
			"last_login_at": now,
			"updated_at":    now,
		}).Error; err != nil {
		return nil, err
	}
	admin.LastLoginAt = &now

	return &LoginResult{
		Token:    token,
		ExpireAt: expireAt,
		Admin:    sanitizeAdmin(admin),
	}, nil
}

func (s *Service) EnsureDefaultAdmin(ctx context.Context) error {
	cfg := config.GlobalConfig.Admin
	if cfg.DefaultUsername == "" || cfg.DefaultPassword == "" {
		logger.Log.Warn("default admin credentials not configured; skipping bootstrap")
		return nil
	}

	var exists int64
	if err := s.db.WithContext(ctx).
		Model(&model.Admin{}).
		Where("username = ?", cfg.DefaultUsername).
		Count(&exists).Error; err != nil {
		return err
	}
	if exists > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.DefaultPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := model.Admin{
		Username:     cfg.DefaultUsername,
		PasswordHash: string(hash),
		DisplayName:  cfg.DefaultUsername,
		Status:       "active",
	}
	if err := s.db.WithContext(ctx).Create(&admin).Error; err != nil {
		return err
	}
	logger.Log.Info("default admin account created",
		zap.String("username", cfg.DefaultUsername))
	return nil
}

// InitializeAuthority creates the GameAuthority singleton owned by owner.
// It can run once.
func (s *Service) InitializeAuthority(ctx context.Context, owner string, feePercentage uint8) (*game.Authority, error) {
	auth, err := game.NewAuthority(owner, feePercentage)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var exists int64
		if err := tx.Model(&model.GameAuthority{}).Where("id = ?", authorityID).Count(&exists).Error; err != nil {
			return err
		}
		if exists > 0 {
			return appErr.ErrAuthorityExists
		}
		return tx.Create(&model.GameAuthority{
			ID:            authorityID,
			Owner:         auth.Owner,
			FeePercentage: auth.FeePercentage,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	logger.Log.Info("game authority initialized",
		zap.String("owner", owner),
		zap.Uint8("feePercentage", feePercentage))
	return auth, nil
}

func (s *Service) GetAuthority(ctx context.Context) (*game.Authority, error) {
	var rec model.GameAuthority
	if err := s.db.WithContext(ctx).First(&rec, authorityID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, appErr.ErrAuthorityNotInitialized
		}
		return nil, err
	}
	return &game.Authority{
		Owner:              rec.Owner,
		FeePercentage:      rec.FeePercentage,
		TotalGamesPlayed:   rec.TotalGamesPlayed,
		TotalFeesCollected: rec.TotalFeesCollected,
	}, nil
}

func sanitizeAdmin(admin model.Admin) AdminInfo {
	return AdminInfo{
		ID:          admin.ID,
		Username:    admin.Username,
		DisplayName: admin.DisplayName,
		Status:      admin.Status,
		LastLoginAt: admin.LastLoginAt,
		CreatedAt:   admin.CreatedAt,
	}
}
