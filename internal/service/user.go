package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/types"
)

// UserService serves public profiles and the follow relation.
type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// Get returns a user's public profile with is_subscribed computed relative
// to the requester.
func (s *UserService) Get(ctx context.Context, id uuid.UUID, requester *uuid.UUID) (*types.UserResponse, error) {
	user, err := s.findUser(ctx, id)
	if err != nil {
		return nil, err
	}

	subscribed, err := s.isSubscribed(ctx, requester, id)
	if err != nil {
		return nil, err
	}

	resp := userResponse(*user, subscribed)
	return &resp, nil
}

// List returns a page of public profiles ordered by username, plus the
// total user count.
func (s *UserService) List(ctx context.Context, page, limit int, requester *uuid.UUID) ([]types.UserResponse, int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	var users []models.User
	err := s.db.WithContext(ctx).
		Order("username ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}

	subscribed := map[uuid.UUID]bool{}
	if requester != nil && len(users) > 0 {
		ids := make([]uuid.UUID, 0, len(users))
		for _, u := range users {
			ids = append(ids, u.ID)
		}
		var followed []uuid.UUID
		err := s.db.WithContext(ctx).Model(&models.Follow{}).
			Where("user_id = ? AND author_id IN ?", *requester, ids).
			Pluck("author_id", &followed).Error
		if err != nil {
			return nil, 0, err
		}
		for _, id := range followed {
			subscribed[id] = true
		}
	}

	out := make([]types.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, userResponse(u, subscribed[u.ID]))
	}
	return out, total, nil
}

// Subscribe creates a follow edge from userID to authorID and returns the
// followed author's profile with their most recent recipes. Following
// yourself or following twice is rejected.
func (s *UserService) Subscribe(ctx context.Context, userID, authorID uuid.UUID) (*types.FollowResponse, error) {
	if userID == authorID {
		return nil, ErrSelfFollow
	}
	author, err := s.findUser(ctx, authorID)
	if err != nil {
		return nil, err
	}

	row := models.Follow{UserID: userID, AuthorID: authorID}
	cond := map[string]interface{}{"user_id": userID, "author_id": authorID}
	if err := addMembership(ctx, s.db, &row, cond); err != nil {
		return nil, err
	}

	return s.followResponse(ctx, *author, userID)
}

// Unsubscribe removes the follow edge; removing a missing edge is an error.
func (s *UserService) Unsubscribe(ctx context.Context, userID, authorID uuid.UUID) error {
	if _, err := s.findUser(ctx, authorID); err != nil {
		return err
	}
	cond := map[string]interface{}{"user_id": userID, "author_id": authorID}
	return removeMembership[models.Follow](ctx, s.db, cond)
}

// Subscriptions returns the authors the user follows, most recently
// followed first, as follow projections.
func (s *UserService) Subscriptions(ctx context.Context, userID uuid.UUID, page, limit int) ([]types.FollowResponse, int64, error) {
	base := func() *gorm.DB {
		return s.db.WithContext(ctx).Model(&models.User{}).
			Joins("JOIN follows ON follows.author_id = users.id").
			Where("follows.user_id = ?", userID)
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	var authors []models.User
	err := base().
		Order("follows.created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&authors).Error
	if err != nil {
		return nil, 0, err
	}

	out := make([]types.FollowResponse, 0, len(authors))
	for _, author := range authors {
		resp, err := s.followResponse(ctx, author, userID)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *resp)
	}
	return out, total, nil
}

// followResponse builds the author profile with their up-to-3 most recent
// recipes and the total recipe count.
func (s *UserService) followResponse(ctx context.Context, author models.User, requester uuid.UUID) (*types.FollowResponse, error) {
	subscribed, err := s.isSubscribed(ctx, &requester, author.ID)
	if err != nil {
		return nil, err
	}

	var recipes []models.Recipe
	err = s.db.WithContext(ctx).
		Where("author_id = ?", author.ID).
		Order("created_at DESC").
		Limit(3).
		Find(&recipes).Error
	if err != nil {
		return nil, err
	}

	var count int64
	err = s.db.WithContext(ctx).Model(&models.Recipe{}).
		Where("author_id = ?", author.ID).
		Count(&count).Error
	if err != nil {
		return nil, err
	}

	short := make([]types.ShortRecipeResponse, 0, len(recipes))
	for _, r := range recipes {
		short = append(short, shortRecipeResponse(r))
	}

	return &types.FollowResponse{
		UserResponse: userResponse(author, subscribed),
		Recipes:      short,
		RecipesCount: count,
	}, nil
}

// FindByID loads the stored user record; handlers use it to resolve the
// authenticated requester for permission checks.
func (s *UserService) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.findUser(ctx, id)
}

func (s *UserService) findUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *UserService) isSubscribed(ctx context.Context, requester *uuid.UUID, authorID uuid.UUID) (bool, error) {
	if requester == nil {
		return false, nil
	}
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Follow{}).
		Where("user_id = ? AND author_id = ?", *requester, authorID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
