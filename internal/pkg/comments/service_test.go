package comments

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/criadoresdevideo/videoclub/app/models"
	"github.com/criadoresdevideo/videoclub/internal/pkg/namecache"
)

type fakeCommentRepo struct {
	rows   []models.Comment
	nextID uint
}

func (f *fakeCommentRepo) Create(c *models.Comment) error {
	f.nextID++
	c.ID = f.nextID
	c.CreatedAt = time.Now()
	f.rows = append(f.rows, *c)
	return nil
}

func (f *fakeCommentRepo) GetByID(id uint) (*models.Comment, error) {
	for i := range f.rows {
		if f.rows[i].ID == id {
			return &f.rows[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCommentRepo) GetByVideoID(videoID uint) ([]models.Comment, error) {
	var out []models.Comment
	for _, r := range f.rows {
		if r.VideoID == videoID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeCommentRepo) Delete(id uint) error { return nil }

func (f *fakeCommentRepo) CountByVideoID(videoID uint) (int64, error) {
	rows, _ := f.GetByVideoID(videoID)
	return int64(len(rows)), nil
}

type fakeUserRepo struct{}

func (fakeUserRepo) Create(u *models.User) error { return nil }

func (fakeUserRepo) GetByID(id uint) (*models.User, error) {
	return &models.User{ID: id, Name: "u"}, nil
}

func (fakeUserRepo) GetByEmail(e string) (*models.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func (fakeUserRepo) GetByResetToken(token string) (*models.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func (fakeUserRepo) Update(u *models.User) error          { return nil }
func (fakeUserRepo) SetSubscriber(id uint, s bool) error  { return nil }
func (fakeUserRepo) Delete(id uint) error                 { return nil }
func (fakeUserRepo) List(o, l int) ([]models.User, error) { return nil, nil }
func (fakeUserRepo) Count() (int64, error)                { return 0, nil }

func newTestService(repo *fakeCommentRepo) *Service {
	resolver := namecache.NewResolver(namecache.New(), fakeUserRepo{})
	return NewService(repo, resolver)
}

func TestPostRootComment(t *testing.T) {
	repo := &fakeCommentRepo{}
	svc := newTestService(repo)

	c, err := svc.Post(1, 10, "primeiro!", nil)
	assert.NoError(t, err)
	assert.NotZero(t, c.ID)
	assert.Nil(t, c.ParentID)
}

func TestPostReply(t *testing.T) {
	repo := &fakeCommentRepo{}
	svc := newTestService(repo)

	root, err := svc.Post(1, 10, "root", nil)
	assert.NoError(t, err)

	reply, err := svc.Post(1, 11, "resposta", &root.ID)
	assert.NoError(t, err)
	assert.Equal(t, root.ID, *reply.ParentID)
}

func TestPostRejectsEmptyText(t *testing.T) {
	svc := newTestService(&fakeCommentRepo{})

	_, err := svc.Post(1, 10, "", nil)
	assert.Error(t, err)
}

func TestPostRejectsMissingParent(t *testing.T) {
	svc := newTestService(&fakeCommentRepo{})

	missing := uint(99)
	_, err := svc.Post(1, 10, "resposta", &missing)
	assert.Error(t, err)
}

func TestPostRejectsCrossVideoParent(t *testing.T) {
	repo := &fakeCommentRepo{}
	svc := newTestService(repo)

	other, err := svc.Post(2, 10, "em outro vídeo", nil)
	assert.NoError(t, err)

	_, err = svc.Post(1, 10, "resposta", &other.ID)
	assert.Error(t, err)
}

func TestThreadResolvesNames(t *testing.T) {
	repo := &fakeCommentRepo{}
	svc := newTestService(repo)

	root, _ := svc.Post(1, 10, "root", nil)
	_, _ = svc.Post(1, 11, "resposta", &root.ID)

	tree, err := svc.Thread(1, namecache.Viewer{})
	assert.NoError(t, err)
	assert.Len(t, tree, 1)
	assert.Equal(t, "u", tree[0].UserName)
	assert.Len(t, tree[0].Replies, 1)
	assert.Equal(t, "u", tree[0].Replies[0].UserName)
}
