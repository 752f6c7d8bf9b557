package services

import (
	"errors"
	"log"
	"strings"
	"time"

	"volunteer-hub/backend/internal/models"

	"github.com/gofrs/uuid"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

type AuthService interface {
	LoginUser(db *gorm.DB, email, password string) (*models.User, error)
	GenerateToken(db *gorm.DB, userID uuid.UUID) (string, string, error)
	RefreshToken(db *gorm.DB, refreshToken string) (string, string, int64, error)
	RevokeToken(db *gorm.DB, refreshToken string) error
}

type AuthServiceImpl struct {
	jwtSecret       string
	accessTokenTTL  time.Duration
	refreshTokenTTL time.Duration
	bcryptCost      int
	badgeService    BadgeService
}

func NewAuthService(jwtSecret string, accessTokenTTL, refreshTokenTTL time.Duration, bcryptCost int, badgeService BadgeService) *AuthServiceImpl {
	if accessTokenTTL <= 0 {
		accessTokenTTL = 15 * time.Minute
	}
	if refreshTokenTTL <= 0 {
		refreshTokenTTL = 7 * 24 * time.Hour
	}
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthServiceImpl{
		jwtSecret:       jwtSecret,
		accessTokenTTL:  accessTokenTTL,
		refreshTokenTTL: refreshTokenTTL,
		bcryptCost:      bcryptCost,
		badgeService:    badgeService,
	}
}

// VerifyPassword checks a bcrypt hash and nothing else. There is exactly
// one hashing scheme; legacy rows are handled by MigrateLegacyPasswords,
// never by fallback comparison paths.
func VerifyPassword(hashedPassword, plainPassword string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(plainPassword))
	return err == nil
}

func isBcryptHash(stored string) bool {
	return strings.HasPrefix(stored, "$2a$") ||
		strings.HasPrefix(stored, "$2b$") ||
		strings.HasPrefix(stored, "$2y$")
}

func (s *AuthServiceImpl) LoginUser(db *gorm.DB, email, password string) (*models.User, error) {
	var user models.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !VerifyPassword(user.Password, password) {
		return nil, ErrInvalidCredentials
	}

	if s.badgeService != nil {
		// Best-effort side path; a failed badge grant never blocks login.
		if _, err := s.badgeService.AwardBadgeByCriteria(db, user.ID, models.BadgeCriteriaFirstLogin); err != nil && !errors.Is(err, ErrBadgeNotFound) {
			log.Printf("first-login badge grant failed for %s: %v", user.ID, err)
		}
	}

	return &user, nil
}

func (s *AuthServiceImpl) GenerateToken(db *gorm.DB, userID uuid.UUID) (string, string, error) {
	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		return "", "", err
	}

	accessTokenClaims := jwt.MapClaims{
		"user_id": userID.String(),
		"role":    user.Role,
		"exp":     time.Now().Add(s.accessTokenTTL).Unix(),
		"iss":     "volunteer-hub-backend",
	}
	accessToken := jwt.NewWithClaims(jwt.SigningMethodHS256, accessTokenClaims)
	accessTokenString, err := accessToken.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", "", err
	}

	refreshTokenUUID, err := uuid.NewV4()
	if err != nil {
		return "", "", err
	}

	token := models.Token{
		ID:           uuid.Must(uuid.NewV4()),
		UserID:       userID,
		RefreshToken: refreshTokenUUID,
		ExpiresAt:    time.Now().Add(s.refreshTokenTTL),
	}
	if err := db.Create(&token).Error; err != nil {
		return "", "", err
	}

	return accessTokenString, refreshTokenUUID.String(), nil
}

func (s *AuthServiceImpl) RefreshToken(db *gorm.DB, refreshToken string) (string, string, int64, error) {
	var token models.Token
	err := db.Where("refresh_token = ? AND expires_at > ?", refreshToken, time.Now()).First(&token).Error
	if err != nil {
		return "", "", 0, err
	}

	accessToken, newRefreshToken, err := s.GenerateToken(db, token.UserID)
	if err != nil {
		return "", "", 0, err
	}
	expiresIn := int64(s.accessTokenTTL.Seconds())

	db.Delete(&token)

	return accessToken, newRefreshToken, expiresIn, nil
}

func (s *AuthServiceImpl) RevokeToken(db *gorm.DB, refreshToken string) error {
	return db.Where("refresh_token = ?", refreshToken).Delete(&models.Token{}).Error
}

// MigrateLegacyPasswords rehashes any row whose stored credential is not
// a bcrypt hash. It is a one-time, logged migration pass run at startup;
// the login path itself never falls back to plaintext comparison.
func MigrateLegacyPasswords(db *gorm.DB, bcryptCost int) (int, error) {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}

	var users []models.User
	if err := db.Find(&users).Error; err != nil {
		return 0, err
	}

	migrated := 0
	for _, user := range users {
		if isBcryptHash(user.Password) {
			continue
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcryptCost)
		if err != nil {
			return migrated, err
		}

		if err := db.Model(&user).Update("password", string(hashed)).Error; err != nil {
			return migrated, err
		}

		migrated++
		log.Printf("migrated legacy credential for user %s", user.ID)
	}

	return migrated, nil
}
