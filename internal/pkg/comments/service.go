package comments

import (
	"errors"

	"github.com/criadoresdevideo/videoclub/app/models"
	"github.com/criadoresdevideo/videoclub/app/repository"
	"github.com/criadoresdevideo/videoclub/internal/pkg/namecache"
)

// Service assembles comment threads and resolves author display names.
type Service struct {
	comments repository.CommentRepository
	names    *namecache.Resolver
}

// NewService creates a comment thread service.
func NewService(comments repository.CommentRepository, names *namecache.Resolver) *Service {
	return &Service{comments: comments, names: names}
}

// Thread loads a video's comments and returns the rendered two-level tree
// with author names resolved on behalf of the viewer.
func (s *Service) Thread(videoID uint, viewer namecache.Viewer) ([]*Node, error) {
	rows, err := s.comments.GetByVideoID(videoID)
	if err != nil {
		return nil, err
	}

	tree := BuildTree(rows)
	for _, root := range tree {
		root.UserName = s.names.Resolve(viewer, root.UserID)
		for _, reply := range root.Replies {
			reply.UserName = s.names.Resolve(viewer, reply.UserID)
		}
	}
	return tree, nil
}

// Post creates a comment or reply. Replies must reference a comment on the
// same video; a reply to a reply is accepted and later flattened by BuildTree.
func (s *Service) Post(videoID, userID uint, text string, parentID *uint) (*models.Comment, error) {
	comment := &models.Comment{
		VideoID:  videoID,
		UserID:   userID,
		Text:     text,
		ParentID: parentID,
	}
	if err := comment.Validate(); err != nil {
		return nil, err
	}

	if parentID != nil {
		parent, err := s.comments.GetByID(*parentID)
		if err != nil {
			return nil, err
		}
		if parent.VideoID != videoID {
			return nil, errors.New("parent comment belongs to a different video")
		}
	}

	if err := s.comments.Create(comment); err != nil {
		return nil, err
	}
	return comment, nil
}
