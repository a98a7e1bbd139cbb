package service

import (
	"context"

	"socialfeed/internal/models"
	"socialfeed/internal/repository"
)

// followRepoStub is a stub for repository.FollowRepository.
type followRepoStub struct {
	getFollowedAuthorIDsFn func(context.Context, uint) ([]uint, error)
	getFollowedTagsFn      func(context.Context, uint) ([]string, error)
	upsertFn               func(context.Context, *models.Follow) error
	deactivateFn           func(context.Context, *models.Follow) (bool, error)
	countFollowersFn       func(context.Context, uint) (int64, error)
	countFollowingFn       func(context.Context, uint) (int64, error)
}

func (s *followRepoStub) GetFollowedAuthorIDs(ctx context.Context, viewerID uint) ([]uint, error) {
	return s.getFollowedAuthorIDsFn(ctx, viewerID)
}
func (s *followRepoStub) GetFollowedTags(ctx context.Context, viewerID uint) ([]string, error) {
	return s.getFollowedTagsFn(ctx, viewerID)
}
func (s *followRepoStub) Upsert(ctx context.Context, follow *models.Follow) error {
	return s.upsertFn(ctx, follow)
}
func (s *followRepoStub) Deactivate(ctx context.Context, follow *models.Follow) (bool, error) {
	return s.deactivateFn(ctx, follow)
}
func (s *followRepoStub) CountFollowers(ctx context.Context, userID uint) (int64, error) {
	return s.countFollowersFn(ctx, userID)
}
func (s *followRepoStub) CountFollowing(ctx context.Context, userID uint) (int64, error) {
	return s.countFollowingFn(ctx, userID)
}

func followsOf(ids ...uint) *followRepoStub {
	return &followRepoStub{
		getFollowedAuthorIDsFn: func(_ context.Context, _ uint) ([]uint, error) { return ids, nil },
		getFollowedTagsFn:      func(_ context.Context, _ uint) ([]string, error) { return nil, nil },
		upsertFn:               func(_ context.Context, _ *models.Follow) error { return nil },
		deactivateFn:           func(_ context.Context, _ *models.Follow) (bool, error) { return true, nil },
		countFollowersFn:       func(_ context.Context, _ uint) (int64, error) { return 0, nil },
		countFollowingFn:       func(_ context.Context, _ uint) (int64, error) { return 0, nil },
	}
}

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	listActiveFn       func(context.Context, repository.CandidateFilter, repository.SortSpec, int, int) ([]*models.Post, error)
	countActiveFn      func(context.Context, repository.CandidateFilter) (int64, error)
	getByIDFn          func(context.Context, uint) (*models.Post, error)
	getByIDsUnscopedFn func(context.Context, []uint) ([]*models.Post, error)
	createFn           func(context.Context, *models.Post) error
	createRepostFn     func(context.Context, *models.Post) error
	softDeleteFn       func(context.Context, uint) error
	deleteRepostFn     func(context.Context, uint, uint) error
}

func (s *postRepoStub) ListActive(ctx context.Context, filter repository.CandidateFilter, sort repository.SortSpec, limit, offset int) ([]*models.Post, error) {
	return s.listActiveFn(ctx, filter, sort, limit, offset)
}
func (s *postRepoStub) CountActive(ctx context.Context, filter repository.CandidateFilter) (int64, error) {
	return s.countActiveFn(ctx, filter)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) GetByIDsUnscoped(ctx context.Context, ids []uint) ([]*models.Post, error) {
	return s.getByIDsUnscopedFn(ctx, ids)
}
func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) CreateRepost(ctx context.Context, repost *models.Post) error {
	return s.createRepostFn(ctx, repost)
}
func (s *postRepoStub) SoftDelete(ctx context.Context, id uint) error {
	return s.softDeleteFn(ctx, id)
}
func (s *postRepoStub) DeleteRepost(ctx context.Context, id, originalID uint) error {
	return s.deleteRepostFn(ctx, id, originalID)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		listActiveFn: func(_ context.Context, _ repository.CandidateFilter, _ repository.SortSpec, _, _ int) ([]*models.Post, error) {
			return nil, nil
		},
		countActiveFn:      func(_ context.Context, _ repository.CandidateFilter) (int64, error) { return 0, nil },
		getByIDFn:          func(_ context.Context, id uint) (*models.Post, error) { return nil, models.NewNotFoundError("Post", id) },
		getByIDsUnscopedFn: func(_ context.Context, _ []uint) ([]*models.Post, error) { return nil, nil },
		createFn:           func(_ context.Context, _ *models.Post) error { return nil },
		createRepostFn:     func(_ context.Context, _ *models.Post) error { return nil },
		softDeleteFn:       func(_ context.Context, _ uint) error { return nil },
		deleteRepostFn:     func(_ context.Context, _, _ uint) error { return nil },
	}
}

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	createFn           func(context.Context, *models.User) error
	getByIDFn          func(context.Context, uint) (*models.User, error)
	getByIDsUnscopedFn func(context.Context, []uint) ([]*models.User, error)
}

func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByIDsUnscoped(ctx context.Context, ids []uint) ([]*models.User, error) {
	return s.getByIDsUnscopedFn(ctx, ids)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		createFn:  func(_ context.Context, _ *models.User) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.User, error) { return &models.User{ID: id}, nil },
		getByIDsUnscopedFn: func(_ context.Context, ids []uint) ([]*models.User, error) {
			users := make([]*models.User, 0, len(ids))
			for _, id := range ids {
				users = append(users, &models.User{ID: id})
			}
			return users, nil
		},
	}
}

// interactionRepoStub is a stub for repository.InteractionRepository.
type interactionRepoStub struct {
	activePostIDsFn func(context.Context, uint, models.InteractionKind, []uint) ([]uint, error)
	setFn           func(context.Context, uint, uint, models.InteractionKind, bool) (bool, error)
}

func (s *interactionRepoStub) ActivePostIDs(ctx context.Context, userID uint, kind models.InteractionKind, postIDs []uint) ([]uint, error) {
	return s.activePostIDsFn(ctx, userID, kind, postIDs)
}
func (s *interactionRepoStub) Set(ctx context.Context, userID, postID uint, kind models.InteractionKind, active bool) (bool, error) {
	return s.setFn(ctx, userID, postID, kind, active)
}

func noopInteractionRepo() *interactionRepoStub {
	return &interactionRepoStub{
		activePostIDsFn: func(_ context.Context, _ uint, _ models.InteractionKind, _ []uint) ([]uint, error) { return nil, nil },
		setFn:           func(_ context.Context, _, _ uint, _ models.InteractionKind, _ bool) (bool, error) { return true, nil },
	}
}
