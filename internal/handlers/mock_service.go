package handlers

import (
	"context"

	"bomberquiz/internal/models"
	"bomberquiz/internal/service"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpUser   *models.User
	signUpErr    error
	logged       *models.UserLogged
	loginErr     error
	session      *models.Session
	parseErr     error
	logoutErr    error
	meUser       *models.User
	meErr        error
	changePwdErr error

	lastSignUp     models.SignUpInput
	lastLogin      models.LoginProps
	lastParseToken string
	lastLogout     models.Session
	lastMeID       string
	lastChangePwd  models.ChangePasswordInput
	logoutCalls    int
}

func (m *mockAuth) SignUp(_ context.Context, in models.SignUpInput) (*models.User, error) {
	m.lastSignUp = in
	return m.signUpUser, m.signUpErr
}

func (m *mockAuth) Login(_ context.Context, p models.LoginProps) (*models.UserLogged, error) {
	m.lastLogin = p
	return m.logged, m.loginErr
}

func (m *mockAuth) ParseToken(_ context.Context, token string) (*models.Session, error) {
	m.lastParseToken = token
	return m.session, m.parseErr
}

func (m *mockAuth) Logout(_ context.Context, s models.Session) error {
	m.logoutCalls++
	m.lastLogout = s
	return m.logoutErr
}

func (m *mockAuth) Me(_ context.Context, userID string) (*models.User, error) {
	m.lastMeID = userID
	return m.meUser, m.meErr
}

func (m *mockAuth) ChangePassword(_ context.Context, _ string, in models.ChangePasswordInput) error {
	m.lastChangePwd = in
	return m.changePwdErr
}

type mockUsers struct {
	user      *models.User
	page      *models.Page[models.User]
	err       error
	created   bool
	lastID    string
	lastQuery models.PageQuery
	lastActor string
	lastInput any
}

func (m *mockUsers) Create(ctx context.Context, in models.CreateUserInput) (*models.User, error) {
	m.lastInput = in
	m.lastActor = service.ActorFrom(ctx)
	return m.user, m.err
}

func (m *mockUsers) List(_ context.Context, q models.PageQuery) (*models.Page[models.User], error) {
	m.lastQuery = q
	return m.page, m.err
}

func (m *mockUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	m.lastID = id
	return m.user, m.err
}

func (m *mockUsers) Update(_ context.Context, id string, in models.UpdateUserInput) (*models.User, error) {
	m.lastID = id
	m.lastInput = in
	return m.user, m.err
}

func (m *mockUsers) Delete(ctx context.Context, id string) error {
	m.lastID = id
	m.lastActor = service.ActorFrom(ctx)
	return m.err
}

func (m *mockUsers) Bootstrap(_ context.Context, in models.CreateUserInput) (bool, error) {
	m.lastInput = in
	return m.created, m.err
}

type mockRanks struct {
	rank   *models.MilitaryRank
	ranks  []models.MilitaryRank
	err    error
	lastID string
	calls  int
}

func (m *mockRanks) Create(_ context.Context, in models.MilitaryRankInput) (*models.MilitaryRank, error) {
	m.calls++
	return m.rank, m.err
}

func (m *mockRanks) List(_ context.Context) ([]models.MilitaryRank, error) {
	m.calls++
	return m.ranks, m.err
}

func (m *mockRanks) GetByID(_ context.Context, id string) (*models.MilitaryRank, error) {
	m.calls++
	m.lastID = id
	return m.rank, m.err
}

func (m *mockRanks) Update(_ context.Context, id string, _ models.MilitaryRankInput) (*models.MilitaryRank, error) {
	m.calls++
	m.lastID = id
	return m.rank, m.err
}

func (m *mockRanks) Delete(_ context.Context, id string) error {
	m.calls++
	m.lastID = id
	return m.err
}

type mockAuditLog struct {
	resp     []models.AuditEvent
	err      error
	lastF    service.AuditFilter
	calls    int
	recorded []models.AuditEvent
}

func (m *mockAuditLog) Record(_ context.Context, e models.AuditEvent) {
	m.recorded = append(m.recorded, e)
}

func (m *mockAuditLog) List(_ context.Context, f service.AuditFilter) ([]models.AuditEvent, error) {
	m.calls++
	m.lastF = f
	return m.resp, m.err
}
