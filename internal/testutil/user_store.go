// Package testutil provides in-memory fakes of the domain ports for tests.
package testutil

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"vidhub/internal/domain/entity"
	domainerrors "vidhub/internal/domain/errors"
	"vidhub/internal/domain/repository"

	"github.com/google/uuid"
)

// Video is a stored video used by the watch history view.
type Video struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	Title       string
	Description string
	Thumbnail   string
	VideoFile   string
	Duration    float64
	Views       int64
}

// Subscription links a subscriber to a channel.
type Subscription struct {
	SubscriberID uuid.UUID
	ChannelID    uuid.UUID
}

// Store is an in-memory implementation of UserRepository, ChannelRepository and
// TransactionManager. A failed transaction restores the users present before it started.
type Store struct {
	mu            sync.Mutex
	users         map[uuid.UUID]*entity.User
	videos        map[uuid.UUID]*Video
	subscriptions []Subscription
	now           func() time.Time
}

var (
	_ repository.UserRepository     = (*Store)(nil)
	_ repository.ChannelRepository  = (*Store)(nil)
	_ repository.TransactionManager = (*Store)(nil)
)

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		users:  make(map[uuid.UUID]*entity.User),
		videos: make(map[uuid.UUID]*Video),
		now:    time.Now,
	}
}

// Len returns the number of stored users.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.users)
}

// Get returns a copy of the stored user, including secrets.
func (s *Store) Get(id uuid.UUID) (*entity.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, false
	}

	return cloneUser(user), true
}

// Put stores the user as given, assigning an ID when missing.
func (s *Store) Put(user *entity.User) *entity.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := cloneUser(user)
	if stored.ID == uuid.Nil {
		stored.ID = uuid.New()
	}
	s.users[stored.ID] = stored

	return cloneUser(stored)
}

// AddVideo stores a video.
func (s *Store) AddVideo(video *Video) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if video.ID == uuid.Nil {
		video.ID = uuid.New()
	}
	copied := *video
	s.videos[video.ID] = &copied
}

// Subscribe records that subscriber follows channel.
func (s *Store) Subscribe(subscriberID, channelID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.subscriptions = append(s.subscriptions, Subscription{SubscriberID: subscriberID, ChannelID: channelID})
}

// Watch appends a video to the user's watch history.
func (s *Store) Watch(userID, videoID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if user, ok := s.users[userID]; ok {
		user.WatchHistory = append(user.WatchHistory, videoID)
	}
}

// Execute implements repository.TransactionManager.
func (s *Store) Execute(_ context.Context, fn func(repository.RepositoryFactory) error) error {
	s.mu.Lock()
	snapshot := make(map[uuid.UUID]*entity.User, len(s.users))
	for id, user := range s.users {
		snapshot[id] = cloneUser(user)
	}
	s.mu.Unlock()

	if err := fn(storeFactory{store: s}); err != nil {
		s.mu.Lock()
		s.users = snapshot
		s.mu.Unlock()

		return err
	}

	return nil
}

type storeFactory struct {
	store *Store
}

func (f storeFactory) NewUserRepository() repository.UserRepository {
	return f.store
}

func (s *Store) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	user, ok := s.Get(id)
	if !ok {
		return nil, domainerrors.ErrUserNotFound
	}

	return user, nil
}

func (s *Store) FindByIdentifier(_ context.Context, username, email string) (*entity.User, error) {
	if username == "" && email == "" {
		return nil, domainerrors.ErrUserNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if (username != "" && user.Username == username) || (email != "" && user.Email == email) {
			return cloneUser(user), nil
		}
	}

	return nil, domainerrors.ErrUserNotFound
}

func (s *Store) ExistsByUsernameOrEmail(_ context.Context, username, email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.taken(username, email, uuid.Nil), nil
}

func (s *Store) Create(_ context.Context, user *entity.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	username := strings.ToLower(user.Username)
	email := strings.ToLower(user.Email)
	if s.taken(username, email, uuid.Nil) {
		return domainerrors.ErrUserAlreadyExists.WrapMessage("duplicate key")
	}

	now := s.now()
	user.ID = uuid.New()
	user.Username = username
	user.Email = email
	user.CreatedAt = now
	user.UpdatedAt = now
	s.users[user.ID] = cloneUser(user)

	return nil
}

func (s *Store) SetRefreshToken(_ context.Context, id uuid.UUID, digest *string) error {
	return s.update(id, func(user *entity.User) error {
		if digest == nil {
			user.RefreshTokenHash = nil

			return nil
		}
		value := *digest
		user.RefreshTokenHash = &value

		return nil
	})
}

func (s *Store) UpdatePassword(_ context.Context, id uuid.UUID, passwordHash string) error {
	return s.update(id, func(user *entity.User) error {
		user.PasswordHash = passwordHash

		return nil
	})
}

func (s *Store) UpdateAccount(ctx context.Context, id uuid.UUID, fullName, email string) (*entity.User, error) {
	err := s.update(id, func(user *entity.User) error {
		if s.taken("", email, id) {
			return domainerrors.ErrUserAlreadyExists.WrapMessage("duplicate key")
		}
		user.FullName = fullName
		user.Email = email

		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.FindByID(ctx, id)
}

func (s *Store) UpdateAvatar(ctx context.Context, id uuid.UUID, url string) (*entity.User, error) {
	if err := s.update(id, func(user *entity.User) error {
		user.Avatar = url

		return nil
	}); err != nil {
		return nil, err
	}

	return s.FindByID(ctx, id)
}

func (s *Store) UpdateCoverImage(ctx context.Context, id uuid.UUID, url string) (*entity.User, error) {
	if err := s.update(id, func(user *entity.User) error {
		user.CoverImage = url

		return nil
	}); err != nil {
		return nil, err
	}

	return s.FindByID(ctx, id)
}

func (s *Store) FindChannelProfile(_ context.Context, username string, viewerID uuid.UUID) (*entity.ChannelProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var channel *entity.User
	for _, user := range s.users {
		if user.Username == username {
			channel = user

			break
		}
	}
	if channel == nil {
		return nil, domainerrors.ErrChannelNotFound
	}

	profile := &entity.ChannelProfile{
		ID:         channel.ID,
		Username:   channel.Username,
		FullName:   channel.FullName,
		Email:      channel.Email,
		Avatar:     channel.Avatar,
		CoverImage: channel.CoverImage,
	}
	for _, sub := range s.subscriptions {
		if sub.ChannelID == channel.ID {
			profile.SubscribersCount++
			if sub.SubscriberID == viewerID {
				profile.IsSubscribed = true
			}
		}
		if sub.SubscriberID == channel.ID {
			profile.ChannelsSubscribedToCount++
		}
	}

	return profile, nil
}

func (s *Store) FindWatchHistory(_ context.Context, userID uuid.UUID) ([]*entity.WatchHistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return []*entity.WatchHistoryEntry{}, nil
	}

	entries := make([]*entity.WatchHistoryEntry, 0, len(user.WatchHistory))
	for _, videoID := range user.WatchHistory {
		video, ok := s.videos[videoID]
		if !ok {
			continue
		}
		owner := s.users[video.OwnerID]
		entry := &entity.WatchHistoryEntry{
			VideoID:     video.ID,
			Title:       video.Title,
			Description: video.Description,
			Thumbnail:   video.Thumbnail,
			VideoFile:   video.VideoFile,
			Duration:    video.Duration,
			Views:       video.Views,
		}
		if owner != nil {
			entry.Owner = entity.VideoOwner{
				ID:       owner.ID,
				Username: owner.Username,
				FullName: owner.FullName,
				Avatar:   owner.Avatar,
			}
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

func (s *Store) update(id uuid.UUID, mutate func(*entity.User) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return domainerrors.ErrUserNotFound
	}

	updated := cloneUser(user)
	if err := mutate(updated); err != nil {
		return err
	}
	updated.UpdatedAt = s.now()
	s.users[id] = updated

	return nil
}

// taken must be called with the lock held.
func (s *Store) taken(username, email string, except uuid.UUID) bool {
	for id, user := range s.users {
		if id == except {
			continue
		}
		if (username != "" && user.Username == username) || (email != "" && user.Email == email) {
			return true
		}
	}

	return false
}

func cloneUser(user *entity.User) *entity.User {
	copied := *user
	copied.WatchHistory = slices.Clone(user.WatchHistory)
	if user.RefreshTokenHash != nil {
		digest := *user.RefreshTokenHash
		copied.RefreshTokenHash = &digest
	}

	return &copied
}
