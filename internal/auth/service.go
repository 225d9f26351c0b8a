package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/printo/RiderPro-sub006/internal/db"
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour
)

type Service struct {
	secret []byte
	db     db.Querier
}

type Claims struct {
	EmployeeID string `json:"employeeId"`
	Role       string `json:"role"`
	jwt.RegisteredClaims
}

func NewService(secret string, db db.Querier) *Service {
	return &Service{
		secret: []byte(secret),
		db:     db,
	}
}

// test seams
var (
	hashPasswordFn    = bcrypt.GenerateFromPassword
	parseWithClaimsFn = jwt.ParseWithClaims
	signTokenFn       = (*Service).signToken
)

func (s *Service) Register(ctx context.Context, req RegisterRequest) (Employee, TokenResponse, error) {
	if req.Email == "" || req.Password == "" {
		return Employee{}, TokenResponse{}, errors.New("email and password required")
	}
	if req.Role == "" {
		req.Role = RoleRider
	}
	if req.Role != RoleRider && req.Role != RoleDispatcher {
		return Employee{}, TokenResponse{}, errors.New("role must be rider or dispatcher")
	}

	hash, err := hashPasswordFn([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return Employee{}, TokenResponse{}, err
	}

	employee := Employee{
		ID:           uuid.NewString(),
		Email:        req.Email,
		FullName:     req.FullName,
		Role:         req.Role,
		VehicleType:  req.VehicleType,
		PasswordHash: string(hash),
	}

	row := s.db.QueryRow(ctx, `
		INSERT INTO employees (id, email, password_hash, full_name, role, vehicle_type)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING created_at, updated_at
	`, employee.ID, employee.Email, employee.PasswordHash, employee.FullName, employee.Role, employee.VehicleType)
	if err := row.Scan(&employee.CreatedAt, &employee.UpdatedAt); err != nil {
		return Employee{}, TokenResponse{}, err
	}

	tokens, err := s.GenerateTokens(ctx, employee.ID, employee.Role)
	if err != nil {
		return Employee{}, TokenResponse{}, err
	}
	return employee, tokens, nil
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (Employee, TokenResponse, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, email, password_hash, full_name, role, vehicle_type, created_at, updated_at
		FROM employees WHERE email = $1
	`, req.Email)

	var employee Employee
	if err := row.Scan(&employee.ID, &employee.Email, &employee.PasswordHash, &employee.FullName,
		&employee.Role, &employee.VehicleType, &employee.CreatedAt, &employee.UpdatedAt); err != nil {
		return Employee{}, TokenResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(employee.PasswordHash), []byte(req.Password)); err != nil {
		return Employee{}, TokenResponse{}, errors.New("invalid credentials")
	}

	tokens, err := s.GenerateTokens(ctx, employee.ID, employee.Role)
	if err != nil {
		return Employee{}, TokenResponse{}, err
	}
	return employee, tokens, nil
}

func (s *Service) GenerateTokens(ctx context.Context, employeeID, role string) (TokenResponse, error) {
	access, err := signTokenFn(s, employeeID, role, accessTokenTTL)
	if err != nil {
		return TokenResponse{}, err
	}

	refresh, err := signTokenFn(s, employeeID, role, refreshTokenTTL)
	if err != nil {
		return TokenResponse{}, err
	}

	if err := s.saveRefreshToken(ctx, refresh, employeeID, refreshTokenTTL); err != nil {
		return TokenResponse{}, err
	}

	return TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int64(accessTokenTTL.Seconds()),
	}, nil
}

func (s *Service) ValidateRefreshToken(ctx context.Context, token string) (string, string, error) {
	claims, err := s.parseToken(token)
	if err != nil {
		return "", "", err
	}

	employeeID, expiresAt, err := s.lookupRefreshToken(ctx, token)
	if err != nil || employeeID != claims.EmployeeID || time.Now().After(expiresAt) {
		return "", "", errors.New("refresh token invalid")
	}
	return claims.EmployeeID, claims.Role, nil
}

func (s *Service) ValidateAccessToken(token string) (string, string, error) {
	claims, err := s.parseToken(token)
	if err != nil {
		return "", "", err
	}
	return claims.EmployeeID, claims.Role, nil
}

func (s *Service) signToken(employeeID, role string, ttl time.Duration) (string, error) {
	claims := Claims{
		EmployeeID: employeeID,
		Role:       role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *Service) parseToken(token string) (*Claims, error) {
	parsed, err := parseWithClaimsFn(token, &Claims{}, func(_ *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("token invalid")
	}
	return claims, nil
}

func (s *Service) saveRefreshToken(ctx context.Context, token, employeeID string, ttl time.Duration) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO refresh_tokens (id, employee_id, token, expires_at)
		VALUES ($1,$2,$3,$4)
	`, uuid.NewString(), employeeID, token, time.Now().Add(ttl))
	return err
}

func (s *Service) lookupRefreshToken(ctx context.Context, token string) (string, time.Time, error) {
	row := s.db.QueryRow(ctx, `
		SELECT employee_id, expires_at
		FROM refresh_tokens
		WHERE token = $1 AND revoked_at IS NULL
	`, token)
	var employeeID string
	var expiresAt time.Time
	if err := row.Scan(&employeeID, &expiresAt); err != nil {
		return "", time.Time{}, err
	}
	return employeeID, expiresAt, nil
}
