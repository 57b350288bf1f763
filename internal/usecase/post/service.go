package post

import (
	"context"
	"errors"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/hualinpp/threadhub/domain"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 50
)

// errNoChange aborts an atomic unit that turned out to be a no-op. It never
// escapes the service; callers see changed=false instead.
var errNoChange = errors.New("no state change")

// Service is the interaction engine: it orchestrates every post, like,
// comment and notification mutation as one atomic unit against the primary
// store, and notifies the search sync worker afterwards.
type Service struct {
	store  domain.Store
	syncer domain.SearchSyncWorker
}

var _ domain.PostUsecase = (*Service)(nil)

// NewService will create a new post service object
func NewService(store domain.Store, syncer domain.SearchSyncWorker) *Service {
	return &Service{
		store:  store,
		syncer: syncer,
	}
}

func validateContent(content string) error {
	if content == "" {
		return domain.ErrBadParamInput
	}
	if utf8.RuneCountInString(content) > domain.MaxContentRunes {
		return domain.ErrContentTooLong
	}
	return nil
}

// storeErr passes domain sentinels through and degrades everything else to
// ErrStoreUnavailable: a failed atomic unit is retried by re-invoking the
// whole operation, never by resuming partway.
func storeErr(err error) error {
	if err == nil {
		return nil
	}
	for _, known := range []error{
		domain.ErrNotFound, domain.ErrConflict, domain.ErrContentTooLong, domain.ErrBadParamInput,
	} {
		if errors.Is(err, known) {
			return err
		}
	}
	logrus.Errorf("primary store failure: %v", err)
	return domain.ErrStoreUnavailable
}

func (s *Service) CreatePost(ctx context.Context, authorID int64, content string) (domain.Post, error) {
	if err := validateContent(content); err != nil {
		return domain.Post{}, err
	}

	p := domain.Post{
		User:    domain.User{ID: authorID},
		Content: content,
	}
	if err := s.store.CreatePost(ctx, &p); err != nil {
		return domain.Post{}, storeErr(err)
	}

	author, err := s.store.GetUser(ctx, authorID)
	if err == nil {
		p.User = author
	}

	s.syncer.Send(domain.SearchTask{
		Op:    domain.SearchUpsert,
		Index: domain.IndexPosts,
		DocID: domain.FormatDocID(p.ID),
		Body:  domain.NewPostDocument(p),
	})
	return p, nil
}

func (s *Service) UpdatePost(ctx context.Context, postID, requesterID int64, content string) (domain.Post, error) {
	if err := validateContent(content); err != nil {
		return domain.Post{}, err
	}

	p, err := s.store.UpdatePostContent(ctx, postID, requesterID, content)
	if err != nil {
		return domain.Post{}, storeErr(err)
	}

	author, err := s.store.GetUser(ctx, p.User.ID)
	if err == nil {
		p.User = author
	}

	s.syncer.Send(domain.SearchTask{
		Op:    domain.SearchUpsert,
		Index: domain.IndexPosts,
		DocID: domain.FormatDocID(p.ID),
		Body:  domain.NewPostDocument(p),
	})
	return p, nil
}

// DeletePost removes the post and cascades over its comments, its likes and
// the notifications that reference it. Either all four deletions commit or
// none do.
func (s *Service) DeletePost(ctx context.Context, postID, requesterID int64) error {
	err := s.store.Atomic(ctx, func(tx domain.Store) error {
		ok, err := tx.DeletePostOwned(ctx, postID, requesterID)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrNotFound
		}

		comments, err := tx.FetchCommentsByPosts(ctx, []int64{postID})
		if err != nil {
			return err
		}
		for i := range comments {
			if _, err := tx.DeleteLikesByTarget(ctx, comments[i].ID, domain.TargetComment); err != nil {
				return err
			}
		}
		if _, err := tx.DeleteCommentsByPost(ctx, postID); err != nil {
			return err
		}
		if _, err := tx.DeleteLikesByTarget(ctx, postID, domain.TargetPost); err != nil {
			return err
		}
		if _, err := tx.DeleteEventsByPost(ctx, postID); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return storeErr(err)
	}

	s.syncer.Send(domain.SearchTask{
		Op:    domain.SearchDelete,
		Index: domain.IndexPosts,
		DocID: domain.FormatDocID(postID),
	})
	return nil
}

// LikePost inserts the like record, moves the counter and notifies the
// author in one unit. Liking an already-liked post reports changed=false.
func (s *Service) LikePost(ctx context.Context, postID, userID int64) (bool, error) {
	err := s.store.Atomic(ctx, func(tx domain.Store) error {
		p, err := tx.GetPost(ctx, postID)
		if err != nil {
			return err
		}

		if _, err := tx.GetLike(ctx, userID, postID, domain.TargetPost); err == nil {
			return errNoChange
		} else if !errors.Is(err, domain.ErrNotFound) {
			return err
		}

		like := domain.Like{
			UserID:     userID,
			TargetID:   postID,
			TargetKind: domain.TargetPost,
		}
		if err := tx.CreateLike(ctx, &like); err != nil {
			// Lost the race against another like of the same pair:
			// the unique index fired, the state is already what the
			// caller asked for.
			if errors.Is(err, domain.ErrConflict) {
				return errNoChange
			}
			return err
		}

		if err := tx.AddPostLikes(ctx, postID, 1); err != nil {
			return err
		}

		if p.User.ID != userID {
			return tx.CreateEvent(ctx, &domain.Event{
				SenderID:   userID,
				ReceiverID: p.User.ID,
				Kind:       domain.EventLike,
				Detail:     domain.EventDetail{PostID: postID},
			})
		}
		return nil
	})
	if errors.Is(err, errNoChange) {
		return false, nil
	}
	if err != nil {
		return false, storeErr(err)
	}
	return true, nil
}

// UnlikePost is the symmetric triple: delete the like, move the counter back
// and drop the matching notification, in one unit.
func (s *Service) UnlikePost(ctx context.Context, postID, userID int64) (bool, error) {
	err := s.store.Atomic(ctx, func(tx domain.Store) error {
		p, err := tx.GetPost(ctx, postID)
		if err != nil {
			return err
		}

		like, err := tx.GetLike(ctx, userID, postID, domain.TargetPost)
		if errors.Is(err, domain.ErrNotFound) {
			return errNoChange
		} else if err != nil {
			return err
		}

		if err := tx.DeleteLike(ctx, like.ID); err != nil {
			return err
		}
		if err := tx.AddPostLikes(ctx, postID, -1); err != nil {
			return err
		}

		if p.User.ID != userID {
			if _, err := tx.DeleteLikeEvent(ctx, userID, p.User.ID, postID); err != nil {
				return err
			}
		}
		return nil
	})
	if errors.Is(err, errNoChange) {
		return false, nil
	}
	if err != nil {
		return false, storeErr(err)
	}
	return true, nil
}

// AddComment inserts the comment, appends it to the post and notifies the
// author in one unit.
func (s *Service) AddComment(ctx context.Context, postID, userID int64, content string) (domain.Comment, error) {
	if err := validateContent(content); err != nil {
		return domain.Comment{}, err
	}

	comment := domain.Comment{
		PostID:  postID,
		UserID:  userID,
		Content: content,
	}
	err := s.store.Atomic(ctx, func(tx domain.Store) error {
		p, err := tx.GetPost(ctx, postID)
		if err != nil {
			return err
		}

		if err := tx.CreateComment(ctx, &comment); err != nil {
			return err
		}
		if err := tx.AddPostComments(ctx, postID, 1); err != nil {
			return err
		}

		if p.User.ID != userID {
			return tx.CreateEvent(ctx, &domain.Event{
				SenderID:   userID,
				ReceiverID: p.User.ID,
				Kind:       domain.EventComment,
				Detail: domain.EventDetail{
					PostID:    postID,
					CommentID: comment.ID,
				},
			})
		}
		return nil
	})
	if err != nil {
		return domain.Comment{}, storeErr(err)
	}

	if author, err := s.store.GetUser(ctx, userID); err == nil {
		summary := author.Summary()
		comment.User = &summary
	}
	return comment, nil
}

// ListPosts is purely read-only: page and total are fetched in parallel, then
// authors and comments get resolved in batch.
func (s *Service) ListPosts(ctx context.Context, page, pageSize int64) ([]domain.Post, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > MaxPageSize {
		pageSize = DefaultPageSize
	}

	var (
		posts []domain.Post
		total int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		posts, err = s.store.FetchPosts(gctx, (page-1)*pageSize, pageSize)
		return
	})
	g.Go(func() (err error) {
		total, err = s.store.CountPosts(gctx)
		return
	})
	if err := g.Wait(); err != nil {
		return nil, 0, storeErr(err)
	}

	posts, err := s.resolvePosts(ctx, posts)
	if err != nil {
		return nil, 0, storeErr(err)
	}
	return posts, total, nil
}

func (s *Service) GetPost(ctx context.Context, id int64) (domain.Post, error) {
	p, err := s.store.GetPost(ctx, id)
	if err != nil {
		return domain.Post{}, storeErr(err)
	}

	resolved, err := s.resolvePosts(ctx, []domain.Post{p})
	if err != nil {
		return domain.Post{}, storeErr(err)
	}
	return resolved[0], nil
}

// resolvePosts fills author summaries and nests each post's comments under
// it, with the comment authors resolved as well.
func (s *Service) resolvePosts(ctx context.Context, posts []domain.Post) ([]domain.Post, error) {
	if len(posts) == 0 {
		return posts, nil
	}

	postIDs := make([]int64, len(posts))
	for i := range posts {
		postIDs[i] = posts[i].ID
	}

	comments, err := s.store.FetchCommentsByPosts(ctx, postIDs)
	if err != nil {
		return nil, err
	}

	userIDs := make([]int64, 0, len(posts)+len(comments))
	seen := make(map[int64]bool)
	collect := func(id int64) {
		if !seen[id] {
			userIDs = append(userIDs, id)
			seen[id] = true
		}
	}
	for i := range posts {
		collect(posts[i].User.ID)
	}
	for i := range comments {
		collect(comments[i].UserID)
	}

	users, err := s.store.GetUsersByIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	userMap := make(map[int64]domain.User, len(users))
	for _, u := range users {
		userMap[u.ID] = u
	}

	commentMap := groupComments(comments, userMap)
	for i := range posts {
		if u, ok := userMap[posts[i].User.ID]; ok {
			posts[i].User = u
		}
		posts[i].Comments = commentMap[posts[i].ID]
	}
	return posts, nil
}

// groupComments assembles each post's shallow comment tree: top-level
// comments in append order, replies nested under their parent.
func groupComments(comments []domain.Comment, userMap map[int64]domain.User) map[int64][]domain.Comment {
	byParent := make(map[int64][]*domain.Comment)
	roots := make(map[int64][]*domain.Comment)
	for i := range comments {
		c := comments[i]
		if u, ok := userMap[c.UserID]; ok {
			summary := u.Summary()
			c.User = &summary
		}
		if c.ParentID == 0 {
			roots[c.PostID] = append(roots[c.PostID], &c)
		} else {
			byParent[c.ParentID] = append(byParent[c.ParentID], &c)
		}
	}

	var attach func(c *domain.Comment)
	attach = func(c *domain.Comment) {
		c.Replies = byParent[c.ID]
		for _, r := range c.Replies {
			attach(r)
		}
	}

	res := make(map[int64][]domain.Comment, len(roots))
	for postID, list := range roots {
		out := make([]domain.Comment, len(list))
		for i, c := range list {
			attach(c)
			out[i] = *c
		}
		res[postID] = out
	}
	return res
}
