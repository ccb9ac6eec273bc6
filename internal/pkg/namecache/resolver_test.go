package namecache

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/criadoresdevideo/videoclub/app/models"
)

// fakeUserRepo implements repository.UserRepository for resolver tests.
type fakeUserRepo struct {
	users   map[uint]*models.User
	created []*models.User
	getErr  error
	lookups int
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	m := make(map[uint]*models.User)
	for _, u := range users {
		m[u.ID] = u
	}
	return &fakeUserRepo{users: m}
}

func (f *fakeUserRepo) Create(user *models.User) error {
	f.created = append(f.created, user)
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) GetByID(id uint) (*models.User, error) {
	f.lookups++
	if f.getErr != nil {
		return nil, f.getErr
	}
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) GetByEmail(email string) (*models.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) GetByResetToken(token string) (*models.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) Update(user *models.User) error       { return nil }
func (f *fakeUserRepo) SetSubscriber(id uint, s bool) error  { return nil }
func (f *fakeUserRepo) Delete(id uint) error                 { return nil }
func (f *fakeUserRepo) List(o, l int) ([]models.User, error) { return nil, nil }
func (f *fakeUserRepo) Count() (int64, error)                { return 0, nil }

func TestResolveCachesAfterFirstLookup(t *testing.T) {
	repo := newFakeUserRepo(&models.User{ID: 2, Name: "Maria"})
	r := NewResolver(New(), repo)

	viewer := Viewer{ID: 1, Name: "Eu"}
	assert.Equal(t, "Maria", r.Resolve(viewer, 2))
	assert.Equal(t, "Maria", r.Resolve(viewer, 2))
	assert.Equal(t, 1, repo.lookups)
}

func TestResolveViewerShortcut(t *testing.T) {
	repo := newFakeUserRepo(&models.User{ID: 1, Name: "Eu"})
	r := NewResolver(New(), repo)

	// the viewer's own id never touches the repository, cold or warm
	viewer := Viewer{ID: 1, Name: "Eu", Email: "eu@example.com"}
	assert.Equal(t, "Eu", r.Resolve(viewer, 1))
	assert.Equal(t, "Eu", r.Resolve(viewer, 1))
	assert.Equal(t, 0, repo.lookups)
}

func TestResolveProvisionsMissingViewerProfile(t *testing.T) {
	repo := newFakeUserRepo()
	r := NewResolver(New(), repo)

	// session carries an email but no name yet, and no profile row exists
	viewer := Viewer{ID: 5, Email: "nova@example.com"}
	assert.Equal(t, "nova", r.Resolve(viewer, 5))
	assert.Len(t, repo.created, 1)
	assert.Equal(t, uint(5), repo.created[0].ID)
	assert.Equal(t, "nova@example.com", repo.created[0].Email)
}

func TestResolveSelfWithoutSessionNameUsesProfile(t *testing.T) {
	repo := newFakeUserRepo(&models.User{ID: 3, Name: "Carlos"})
	r := NewResolver(New(), repo)

	viewer := Viewer{ID: 3, Email: "carlos@example.com"}
	assert.Equal(t, "Carlos", r.Resolve(viewer, 3))
	assert.Empty(t, repo.created)
}

func TestResolvePlaceholderForUnknownUser(t *testing.T) {
	repo := newFakeUserRepo()
	r := NewResolver(New(), repo)

	assert.Equal(t, "User 42", r.Resolve(Viewer{}, 42))
	// placeholder is cached: the missing row is not retried per render
	assert.Equal(t, "User 42", r.Resolve(Viewer{}, 42))
	assert.Equal(t, 1, repo.lookups)
}

func TestResolvePlaceholderUsesLastFourDigits(t *testing.T) {
	repo := newFakeUserRepo()
	r := NewResolver(New(), repo)

	assert.Equal(t, "User 6789", r.Resolve(Viewer{}, 123456789))
}

func TestResolveTransientErrorIsNotCached(t *testing.T) {
	repo := newFakeUserRepo()
	repo.getErr = errors.New("connection refused")
	r := NewResolver(New(), repo)

	assert.Equal(t, "User 7", r.Resolve(Viewer{}, 7))

	// once the database recovers the real name comes through
	repo.getErr = nil
	repo.users[7] = &models.User{ID: 7, Name: "Rita"}
	assert.Equal(t, "Rita", r.Resolve(Viewer{}, 7))
}

func TestInvalidateForcesRefresh(t *testing.T) {
	repo := newFakeUserRepo(&models.User{ID: 2, Name: "Antes"})
	r := NewResolver(New(), repo)

	viewer := Viewer{ID: 1}
	assert.Equal(t, "Antes", r.Resolve(viewer, 2))

	repo.users[2].Name = "Depois"
	assert.Equal(t, "Antes", r.Resolve(viewer, 2))

	r.Invalidate(2)
	assert.Equal(t, "Depois", r.Resolve(viewer, 2))
}

func TestCacheBasics(t *testing.T) {
	c := New()
	assert.Equal(t, 0, c.Len())

	c.Set(1, "a")
	name, ok := c.Get(1)
	assert.True(t, ok)
	assert.Equal(t, "a", name)

	c.Invalidate(1)
	_, ok = c.Get(1)
	assert.False(t, ok)

	c.Set(1, "a")
	c.Set(2, "b")
	c.Clear()
	assert.Equal(t, 0, c.Len())
}
