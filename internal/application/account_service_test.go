package application

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/oksasatya/go-account-service/internal/domain/apperror"
	"github.com/oksasatya/go-account-service/internal/domain/entity"
	"github.com/oksasatya/go-account-service/internal/domain/policy"
	"github.com/oksasatya/go-account-service/internal/domain/repository"
	"github.com/oksasatya/go-account-service/internal/events"
	"github.com/oksasatya/go-account-service/internal/infrastructure/sqlite"
	"github.com/oksasatya/go-account-service/pkg/helpers"
)

var today = time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)

type fixture struct {
	svc   *Service
	repo  *sqlite.UserRepository
	event *events.Recorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := sqlite.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	r := sqlite.NewUserRepository(db)
	t.Cleanup(func() { _ = r.Close() })

	rec := &events.Recorder{}
	svc := NewService(r, helpers.NewJWTManager("test-secret", 0),
		helpers.NewPasswordHasher(bcrypt.MinCost), rec, nil, helpers.NewDiscardLogger())
	tick := today
	var mu sync.Mutex
	svc.Now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		tick = tick.Add(time.Second)
		return tick
	}

	f := &fixture{svc: svc, repo: r, event: rec}
	f.seedAdmin(t, "root", "rootpw")
	return f
}

// seedAdmin writes an admin straight to the store, the way cmd/seed does.
func (f *fixture) seedAdmin(t *testing.T, login, password string) {
	t.Helper()
	hash, err := f.svc.Hasher.Hash(password)
	require.NoError(t, err)
	now := f.svc.Now()
	require.NoError(t, f.repo.Create(context.Background(), &entity.User{
		ID: f.svc.NewID(), Login: login, Password: hash, Name: "Root", Gender: entity.GenderUnknown,
		Role: entity.RoleAdmin, CreatedOn: now, CreatedBy: login, ModifiedOn: now, ModifiedBy: login,
	}))
}

func (f *fixture) register(t *testing.T, actor, login, password string) *entity.User {
	t.Helper()
	res, err := f.svc.Register(context.Background(), actor, RegisterInput{
		Login: login, Password: password, Name: "Test User", Gender: entity.GenderUnknown,
	})
	require.NoError(t, err)
	return res.User
}

func birthday(y int, m time.Month) *time.Time {
	b := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
	return &b
}

func TestRegister_SelfStampsOwnLoginAndIssuesToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.svc.Register(ctx, "", RegisterInput{Login: "Alice", Password: "secret1", Name: "Alice"})
	require.NoError(t, err)
	assert.Equal(t, "alice", res.User.Login)
	assert.Equal(t, "alice", res.User.CreatedBy)
	assert.Equal(t, "alice", res.User.ModifiedBy)
	assert.False(t, res.User.IsAdmin())
	assert.False(t, res.User.IsRevoked())
	assert.NotEqual(t, "secret1", res.User.Password)

	claims, err := f.svc.JWT.ParseAccessToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Login)
	assert.Equal(t, res.User.ID, claims.UserID)

	assert.Equal(t, []events.Type{events.TypeRegistered}, f.event.Types())
}

func TestRegister_DuplicateLoginConflicts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "", "alice", "pw")

	for _, login := range []string{"alice", "ALICE"} {
		_, err := f.svc.Register(ctx, "", RegisterInput{Login: login, Password: "pw", Name: "Other"})
		assert.True(t, apperror.Is(err, apperror.KindConflict), login)
	}

	active, err := f.svc.ListActive(ctx, "root")
	require.NoError(t, err)
	count := 0
	for _, u := range active {
		if u.Login == "alice" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestRegister_RevokedLoginCannotBeReused(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "", "alice", "pw")
	require.NoError(t, f.svc.Delete(ctx, "root", "alice", true))

	_, err := f.svc.Register(ctx, "", RegisterInput{Login: "alice", Password: "pw", Name: "Again"})
	assert.True(t, apperror.Is(err, apperror.KindConflict))
}

func TestRegister_OnlyAdminsGrantAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "", "bob", "pw")

	for _, actor := range []string{"", "bob", "ghost"} {
		_, err := f.svc.Register(ctx, actor, RegisterInput{Login: "mallory", Password: "pw", Name: "M", Admin: true})
		assert.True(t, apperror.Is(err, apperror.KindAuthorization), "actor %q", actor)
		assert.Equal(t, policy.MsgOnlyAdminGrantsAdmin, apperror.Message(err))
	}
	_, err := f.repo.GetByLogin(ctx, "mallory")
	assert.Error(t, err, "no record may be created")

	res, err := f.svc.Register(ctx, "root", RegisterInput{Login: "ops", Password: "pw", Name: "Ops", Admin: true})
	require.NoError(t, err)
	assert.True(t, res.User.IsAdmin())
	assert.Equal(t, "root", res.User.CreatedBy)
}

func TestRegister_AssistedByStandardUser(t *testing.T) {
	f := newFixture(t)
	f.register(t, "", "bob", "pw")

	u := f.register(t, "bob", "carol", "pw")
	assert.Equal(t, "bob", u.CreatedBy)
	assert.False(t, u.IsAdmin())

	// an unknown actor is treated as anonymous
	u = f.register(t, "ghost", "dave", "pw")
	assert.Equal(t, "dave", u.CreatedBy)
}

func TestLogin_DistinguishesFailures(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "", "alice", "pw")

	_, err := f.svc.Login(ctx, "nobody", "pw")
	assert.True(t, apperror.Is(err, apperror.KindAuthentication))
	assert.Equal(t, policy.MsgUserDoesNotExist, apperror.Message(err))

	_, err = f.svc.Login(ctx, "alice", "wrong")
	assert.True(t, apperror.Is(err, apperror.KindAuthentication))
	assert.Equal(t, policy.MsgInvalidPassword, apperror.Message(err))

	res, err := f.svc.Login(ctx, "ALICE", "pw")
	require.NoError(t, err)
	assert.Equal(t, "alice", res.User.Login)
	assert.NotEmpty(t, res.Token)
}

func TestLogin_RevokedIsStateError(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "", "alice", "pw")
	require.NoError(t, f.svc.Delete(ctx, "root", "alice", true))

	_, err := f.svc.Login(ctx, "alice", "pw")
	assert.True(t, apperror.Is(err, apperror.KindState))
	assert.Equal(t, policy.MsgUserDeleted, apperror.Message(err))
}

func TestAdminGate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "", "alice", "pw")

	for _, actor := range []string{"", "alice", "ghost"} {
		_, err := f.svc.ListActive(ctx, actor)
		assert.True(t, apperror.Is(err, apperror.KindAuthorization))
		_, err = f.svc.ListOlderThan(ctx, actor, 10)
		assert.True(t, apperror.Is(err, apperror.KindAuthorization))
		_, err = f.svc.GetByLogin(ctx, actor, "root")
		assert.True(t, apperror.Is(err, apperror.KindAuthorization))
		err = f.svc.Delete(ctx, actor, "root", true)
		assert.True(t, apperror.Is(err, apperror.KindAuthorization))
		err = f.svc.Unrevoke(ctx, actor, "root")
		assert.True(t, apperror.Is(err, apperror.KindAuthorization))
		_, err = f.svc.SearchUsers(ctx, actor, "root", 5)
		assert.True(t, apperror.Is(err, apperror.KindAuthorization))
	}
}

func TestGetByLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.Register(ctx, "", RegisterInput{Login: "alice", Password: "pw", Name: "Alice",
		Gender: entity.GenderFemale, Birthday: birthday(1990, time.March)})
	require.NoError(t, err)

	d, err := f.svc.GetByLogin(ctx, "root", "Alice")
	require.NoError(t, err)
	assert.Equal(t, "Alice", d.Name)
	assert.Equal(t, entity.GenderFemale, d.Gender)
	require.NotNil(t, d.Birthday)
	assert.Equal(t, 1990, d.Birthday.Year())
	assert.True(t, d.Active)

	require.NoError(t, f.svc.Delete(ctx, "root", "alice", true))
	d, err = f.svc.GetByLogin(ctx, "root", "alice")
	require.NoError(t, err)
	assert.False(t, d.Active)

	_, err = f.svc.GetByLogin(ctx, "root", "nobody")
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
	assert.Equal(t, MsgInvalidLogin, apperror.Message(err))
}

func TestListOlderThan_MonthGranularity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cases := map[string]*time.Time{
		"exactly":   birthday(1994, time.June), // 30 by month
		"monthpast": birthday(1993, time.June), // 31
		"notyet":    birthday(1993, time.July), // 30, birthday month still ahead
		"older":     birthday(1980, time.January),
		"nobirth":   nil,
	}
	for login, b := range cases {
		_, err := f.svc.Register(ctx, "", RegisterInput{Login: login, Password: "pw", Name: "X", Birthday: b})
		require.NoError(t, err)
	}
	require.NoError(t, f.svc.Delete(ctx, "root", "older", true))

	users, err := f.svc.ListOlderThan(ctx, "root", 30)
	require.NoError(t, err)
	var logins []string
	for _, u := range users {
		logins = append(logins, u.Login)
	}
	assert.ElementsMatch(t, []string{"monthpast", "older"}, logins)
}

func TestListActive_ExcludesRevokedInCreationOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "", "alice", "pw")
	f.register(t, "", "bob", "pw")
	f.register(t, "", "carol", "pw")
	require.NoError(t, f.svc.Delete(ctx, "root", "bob", true))

	users, err := f.svc.ListActive(ctx, "root")
	require.NoError(t, err)
	var logins []string
	for _, u := range users {
		logins = append(logins, u.Login)
	}
	assert.Equal(t, []string{"root", "alice", "carol"}, logins)
}

func TestRevocationStateMachine(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "", "alice", "pw")

	err := f.svc.Unrevoke(ctx, "root", "alice")
	assert.True(t, apperror.Is(err, apperror.KindState))
	assert.Equal(t, policy.MsgNotRevoked, apperror.Message(err))

	require.NoError(t, f.svc.Delete(ctx, "root", "alice", true))
	u, err := f.repo.GetByLogin(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, u.RevokedOn)
	require.NotNil(t, u.RevokedBy)
	assert.Equal(t, "root", *u.RevokedBy)

	err = f.svc.Delete(ctx, "root", "alice", true)
	assert.True(t, apperror.Is(err, apperror.KindState))
	assert.Equal(t, policy.MsgAlreadyRevoked, apperror.Message(err))

	require.NoError(t, f.svc.Unrevoke(ctx, "root", "alice"))
	err = f.svc.Unrevoke(ctx, "root", "alice")
	assert.True(t, apperror.Is(err, apperror.KindState))

	u, err = f.repo.GetByLogin(ctx, "alice")
	require.NoError(t, err)
	assert.Nil(t, u.RevokedOn)
	assert.Nil(t, u.RevokedBy)
}

func TestHardDelete_FromEitherState(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "", "alice", "pw")
	f.register(t, "", "bob", "pw")
	require.NoError(t, f.svc.Delete(ctx, "root", "bob", true))

	require.NoError(t, f.svc.Delete(ctx, "root", "alice", false))
	require.NoError(t, f.svc.Delete(ctx, "root", "bob", false))

	for _, login := range []string{"alice", "bob"} {
		_, err := f.svc.GetByLogin(ctx, "root", login)
		assert.True(t, apperror.Is(err, apperror.KindNotFound))
		err = f.svc.Unrevoke(ctx, "root", login)
		assert.True(t, apperror.Is(err, apperror.KindNotFound))
	}
	err := f.svc.Delete(ctx, "root", "alice", false)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	// a hard-deleted login is free again
	f.register(t, "", "alice", "pw")
}

func TestMutationGate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "", "alice", "pw")
	f.register(t, "", "bob", "pw")
	profile := UpdateProfileInput{Login: "alice", Name: "Алиса Smith", Gender: entity.GenderFemale, Birthday: birthday(1991, time.May)}

	err := f.svc.UpdateProfile(ctx, "", profile)
	assert.True(t, apperror.Is(err, apperror.KindAuthentication))
	assert.Equal(t, policy.MsgLoginRequired, apperror.Message(err))

	err = f.svc.UpdateProfile(ctx, "bob", profile)
	assert.True(t, apperror.Is(err, apperror.KindAuthorization))
	assert.Equal(t, policy.MsgNotEnoughRights, apperror.Message(err))

	require.NoError(t, f.svc.UpdateProfile(ctx, "alice", profile))
	u, err := f.repo.GetByLogin(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "Алиса Smith", u.Name)
	assert.Equal(t, "alice", u.ModifiedBy)

	require.NoError(t, f.svc.Delete(ctx, "root", "alice", true))
	err = f.svc.UpdatePassword(ctx, "alice", "alice", "newpw")
	assert.True(t, apperror.Is(err, apperror.KindAuthorization))
	assert.Equal(t, policy.MsgAccountBlocked, apperror.Message(err))

	profile.Name = "Alice"
	require.NoError(t, f.svc.UpdateProfile(ctx, "root", profile), "admins may modify revoked accounts")
	u, err = f.repo.GetByLogin(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "root", u.ModifiedBy)
	assert.True(t, u.ModifiedOn.After(u.CreatedOn))

	err = f.svc.UpdateProfile(ctx, "root", UpdateProfileInput{Login: "nobody", Name: "X"})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestUpdatePassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "", "alice", "pw")

	require.NoError(t, f.svc.UpdatePassword(ctx, "alice", "alice", "changed"))
	_, err := f.svc.Login(ctx, "alice", "pw")
	assert.True(t, apperror.Is(err, apperror.KindAuthentication))
	_, err = f.svc.Login(ctx, "alice", "changed")
	assert.NoError(t, err)

	require.NoError(t, f.svc.UpdatePassword(ctx, "root", "alice", "reset"))
	_, err = f.svc.Login(ctx, "alice", "reset")
	assert.NoError(t, err)
}

func TestUpdateLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "", "alice", "pw")
	f.register(t, "", "bob", "pw")

	err := f.svc.UpdateLogin(ctx, "alice", "alice", "BOB")
	assert.True(t, apperror.Is(err, apperror.KindConflict))
	assert.Equal(t, MsgLoginUnavailable, apperror.Message(err))

	require.NoError(t, f.svc.UpdateLogin(ctx, "root", "alice", "Alicia"))
	u, err := f.repo.GetByLogin(ctx, "alicia")
	require.NoError(t, err)
	assert.Equal(t, "alicia", u.ModifiedBy, "rename stamps the new login")

	_, err = f.svc.Login(ctx, "alice", "pw")
	assert.True(t, apperror.Is(err, apperror.KindAuthentication))
	_, err = f.svc.Login(ctx, "alicia", "pw")
	assert.NoError(t, err)

	evs := f.event.Events()
	last := evs[len(evs)-1]
	assert.Equal(t, events.TypeLoginRenamed, last.Type)
	assert.Equal(t, "alice", last.PreviousLogin)
	assert.Equal(t, "alicia", last.Login)
	assert.Equal(t, "root", last.Actor)
}

func TestUpdateLogin_ConcurrentRenamesToSameLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	const n = 8
	logins := make([]string, n)
	for i := range logins {
		logins[i] = "user" + string(rune('a'+i))
		f.register(t, "", logins[i], "pw")
	}

	var wg sync.WaitGroup
	errs := make([]error, n)
	for i, login := range logins {
		wg.Add(1)
		go func(i int, login string) {
			defer wg.Done()
			errs[i] = f.svc.UpdateLogin(ctx, login, login, "winner")
		}(i, login)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.True(t, apperror.Is(err, apperror.KindConflict), "unexpected error: %v", err)
	}
	assert.Equal(t, 1, succeeded)
	_, err := f.repo.GetByLogin(ctx, "winner")
	assert.NoError(t, err)
}

// interleavingRepo runs before once, right ahead of the next write, the way a
// request committing between this request's load and write would.
type interleavingRepo struct {
	repository.UserRepository
	before func()
}

func (r *interleavingRepo) interleave() {
	if fn := r.before; fn != nil {
		r.before = nil
		fn()
	}
}

func (r *interleavingRepo) UpdateProfile(ctx context.Context, u *entity.User) error {
	r.interleave()
	return r.UserRepository.UpdateProfile(ctx, u)
}

func (r *interleavingRepo) UpdatePassword(ctx context.Context, u *entity.User) error {
	r.interleave()
	return r.UserRepository.UpdatePassword(ctx, u)
}

func (r *interleavingRepo) UpdateLogin(ctx context.Context, u *entity.User) error {
	r.interleave()
	return r.UserRepository.UpdateLogin(ctx, u)
}

func (r *interleavingRepo) Revoke(ctx context.Context, u *entity.User) error {
	r.interleave()
	return r.UserRepository.Revoke(ctx, u)
}

func TestSelfServiceWrites_KeepConcurrentRevocation(t *testing.T) {
	writes := map[string]func(context.Context, *Service) error{
		"profile": func(ctx context.Context, s *Service) error {
			return s.UpdateProfile(ctx, "alice", UpdateProfileInput{Login: "alice", Name: "Alice", Gender: entity.GenderFemale})
		},
		"password": func(ctx context.Context, s *Service) error {
			return s.UpdatePassword(ctx, "alice", "alice", "changed")
		},
		"login": func(ctx context.Context, s *Service) error {
			return s.UpdateLogin(ctx, "alice", "alice", "alicia")
		},
	}
	for name, write := range writes {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()
			u := f.register(t, "", "alice", "pw")

			f.svc.Repo = &interleavingRepo{UserRepository: f.repo, before: func() {
				require.NoError(t, f.svc.Delete(ctx, "root", "alice", true))
			}}
			require.NoError(t, write(ctx, f.svc))

			got, err := f.repo.GetByID(ctx, u.ID)
			require.NoError(t, err)
			require.True(t, got.IsRevoked(), "revocation survives the self-service write")
			assert.Equal(t, "root", *got.RevokedBy)

			_, err = f.svc.Login(ctx, got.Login, "pw")
			assert.True(t, apperror.Is(err, apperror.KindState))
		})
	}
}

func TestSoftDelete_LosesToConcurrentRevocation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedAdmin(t, "ops", "opspw")
	u := f.register(t, "", "alice", "pw")

	f.svc.Repo = &interleavingRepo{UserRepository: f.repo, before: func() {
		require.NoError(t, f.svc.Delete(ctx, "ops", "alice", true))
	}}
	err := f.svc.Delete(ctx, "root", "alice", true)
	assert.True(t, apperror.Is(err, apperror.KindState))
	assert.Equal(t, policy.MsgAlreadyRevoked, apperror.Message(err))

	got, err := f.repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "ops", *got.RevokedBy)
}

// blindRepo reports every login as free so writes reach the unique index.
type blindRepo struct {
	repository.UserRepository
}

func (blindRepo) LoginExists(context.Context, string) (bool, error) { return false, nil }

func TestUniqueIndexSettlesLoginRaces(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "", "alice", "pw")
	f.register(t, "", "bob", "pw")
	f.svc.Repo = blindRepo{UserRepository: f.repo}

	err := f.svc.UpdateLogin(ctx, "bob", "bob", "alice")
	assert.True(t, apperror.Is(err, apperror.KindConflict))
	assert.Equal(t, MsgLoginUnavailable, apperror.Message(err))
	assert.ErrorIs(t, err, repository.ErrDuplicateLogin)

	_, err = f.svc.Register(ctx, "", RegisterInput{Login: "ALICE", Password: "pw", Name: "Other", Gender: entity.GenderUnknown})
	assert.True(t, apperror.Is(err, apperror.KindConflict))
	assert.Equal(t, policy.MsgLoginTaken, apperror.Message(err))
	assert.ErrorIs(t, err, repository.ErrDuplicateLogin)

	u, err := f.repo.GetByLogin(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, "bob", u.Login)
}

func TestOverlongPasswordIsValidationError(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	long := strings.Repeat("a", 80)

	_, err := f.svc.Register(ctx, "", RegisterInput{Login: "alice", Password: long, Name: "Alice", Gender: entity.GenderFemale})
	assert.True(t, apperror.Is(err, apperror.KindValidation))
	assert.Equal(t, MsgPasswordTooLong, apperror.Message(err))

	f.register(t, "", "alice", "pw")
	err = f.svc.UpdatePassword(ctx, "alice", "alice", long)
	assert.True(t, apperror.Is(err, apperror.KindValidation))
	_, err = f.svc.Login(ctx, "alice", "pw")
	assert.NoError(t, err)
}

func TestPublishFailureDoesNotFailWrite(t *testing.T) {
	f := newFixture(t)
	f.event.Err = errors.New("broker down")

	u := f.register(t, "", "alice", "pw")
	assert.Equal(t, "alice", u.Login)
	assert.Empty(t, f.event.Events())
}

func TestSearchUsers_DirectoryDisabled(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.SearchUsers(context.Background(), "root", "alice", 5)
	assert.True(t, apperror.Is(err, apperror.KindState))
}

func TestScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Register(ctx, "", RegisterInput{Login: "alice", Password: "pw", Name: "Alice", Admin: true})
	assert.True(t, apperror.Is(err, apperror.KindAuthorization))

	f.register(t, "", "alice", "pw")

	_, err = f.svc.Login(ctx, "alice", "bad")
	assert.True(t, apperror.Is(err, apperror.KindAuthentication))

	require.NoError(t, f.svc.Delete(ctx, "root", "alice", true))
	_, err = f.svc.Login(ctx, "alice", "pw")
	assert.True(t, apperror.Is(err, apperror.KindState))

	require.NoError(t, f.svc.Unrevoke(ctx, "root", "alice"))
	_, err = f.svc.Login(ctx, "alice", "pw")
	assert.NoError(t, err)

	assert.Equal(t, []events.Type{events.TypeRegistered, events.TypeRevoked, events.TypeUnrevoked}, f.event.Types())
}
