package namecache

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/criadoresdevideo/videoclub/app/models"
	"github.com/criadoresdevideo/videoclub/app/repository"
	"gorm.io/gorm"
)

// Viewer is the authenticated identity on whose behalf names are resolved.
// Zero ID means anonymous.
type Viewer struct {
	ID    uint
	Name  string
	Email string
}

// Resolver turns user ids into display names: viewer short-circuit first,
// then cache, then profile lookup with a best-effort auto-provision for the
// viewer's own missing profile, then a deterministic placeholder.
type Resolver struct {
	cache *Cache
	users repository.UserRepository
}

// NewResolver creates a resolver over an injected cache and user repository.
func NewResolver(cache *Cache, users repository.UserRepository) *Resolver {
	return &Resolver{cache: cache, users: users}
}

// Resolve returns the display name for userID. The viewer's own name comes
// straight from the session without any repository traffic; other ids hit
// the repository exactly once until the cache entry is invalidated.
func (r *Resolver) Resolve(viewer Viewer, userID uint) string {
	self := viewer.ID != 0 && viewer.ID == userID
	if self && viewer.Name != "" {
		return viewer.Name
	}

	if name, ok := r.cache.Get(userID); ok {
		return name
	}

	user, err := r.users.GetByID(userID)
	if err == nil {
		r.cache.Set(userID, user.Name)
		return user.Name
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("name resolution for user %d failed: %v", userID, err)
		// Transient failure: do not cache, the next request retries.
		return placeholderName(userID)
	}

	name := placeholderName(userID)
	if self {
		// Session without a name and no profile row yet. Provision one
		// so joins and payment reconciliation can find it later.
		if local := emailLocalPart(viewer.Email); local != "" {
			name = local
		}
		if created := r.provisionProfile(userID, name, viewer.Email); created != "" {
			name = created
		}
	}
	r.cache.Set(userID, name)
	return name
}

// Invalidate drops the cached name for a user. Called from every profile
// mutation path.
func (r *Resolver) Invalidate(userID uint) {
	r.cache.Invalidate(userID)
}

func (r *Resolver) provisionProfile(userID uint, name, email string) string {
	if email == "" {
		return ""
	}
	user := &models.User{
		ID:     userID,
		Name:   name,
		Email:  email,
		Status: models.STATUS_ACTIVE,
		Role:   models.ROLE_USER,
	}
	if err := r.users.Create(user); err != nil {
		log.Printf("auto-provisioning profile for user %d failed: %v", userID, err)
		return ""
	}
	return user.Name
}

func emailLocalPart(email string) string {
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return ""
}

// placeholderName derives a deterministic fallback from the trailing digits
// of the id.
func placeholderName(userID uint) string {
	id := fmt.Sprintf("%d", userID)
	if len(id) > 4 {
		id = id[len(id)-4:]
	}
	return "User " + id
}
