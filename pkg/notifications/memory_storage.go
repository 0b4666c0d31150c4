package notifications

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"
)

// MemoryStorage is an in-memory implementation of the Storage interface.
// Suitable for development and testing.
type MemoryStorage struct {
	byID   map[string]Notification
	byUser map[string][]string // userID -> notification ids, insertion order
	mu     sync.RWMutex
}

// NewMemoryStorage creates a new in-memory notification storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		byID:   make(map[string]Notification),
		byUser: make(map[string][]string),
	}
}

func (s *MemoryStorage) Create(ctx context.Context, notif Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if notif.ID == "" {
		return errors.New("notification ID is required")
	}
	if notif.UserID == "" {
		return errors.New("user ID is required")
	}
	if _, exists := s.byID[notif.ID]; exists {
		return errors.New("notification ID already exists")
	}

	if notif.ReceivedAt.IsZero() {
		notif.ReceivedAt = time.Now()
	}

	s.byID[notif.ID] = notif
	s.byUser[notif.UserID] = append(s.byUser[notif.UserID], notif.ID)
	return nil
}

func (s *MemoryStorage) Get(ctx context.Context, id string) (*Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	notif, exists := s.byID[id]
	if !exists {
		return nil, ErrNotificationNotFound
	}
	// Return a copy to prevent external mutation of stored data.
	return &notif, nil
}

func (s *MemoryStorage) ListByUser(ctx context.Context, userID string) ([]Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.byUser[userID]
	list := make([]Notification, 0, len(ids))
	for _, id := range ids {
		if notif, ok := s.byID[id]; ok {
			list = append(list, notif)
		}
	}

	sort.SliceStable(list, func(i, j int) bool {
		return list[i].ReceivedAt.After(list[j].ReceivedAt)
	})
	return list, nil
}

func (s *MemoryStorage) SetReadAt(ctx context.Context, id string, readAt *time.Time) (*Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	notif, exists := s.byID[id]
	if !exists {
		return nil, ErrNotificationNotFound
	}

	notif.ReadAt = readAt
	s.byID[id] = notif
	return &notif, nil
}

func (s *MemoryStorage) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	notif, exists := s.byID[id]
	if !exists {
		return ErrNotificationNotFound
	}

	delete(s.byID, id)
	ids := s.byUser[notif.UserID]
	for i, nid := range ids {
		if nid == id {
			s.byUser[notif.UserID] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	if len(s.byUser[notif.UserID]) == 0 {
		delete(s.byUser, notif.UserID)
	}
	return nil
}
