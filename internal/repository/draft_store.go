package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"backoffice/internal/inspection"
	"backoffice/internal/model"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DraftStore keeps inspection sessions that have not been submitted yet.
type DraftStore interface {
	Get(ctx context.Context, id string) (inspection.Session, error)
	Put(ctx context.Context, s inspection.Session) error
	Delete(ctx context.Context, id string) error
}

// --- postgres ---

type gormDraftStore struct {
	db *gorm.DB
}

// NewGormDraftStore persists drafts as jsonb rows of reception_drafts.
func NewGormDraftStore(db *gorm.DB) DraftStore {
	return &gormDraftStore{db: db}
}

func (s *gormDraftStore) Get(ctx context.Context, id string) (inspection.Session, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return inspection.Session{}, fmt.Errorf("%w: draft %s", ErrNotFound, id)
	}
	var row model.ReceptionDraft
	if err := GetDB(ctx, s.db).First(&row, "id = ?", uid).Error; err != nil {
		return inspection.Session{}, translate(err)
	}
	var session inspection.Session
	if err := json.Unmarshal([]byte(row.Snapshot), &session); err != nil {
		return inspection.Session{}, fmt.Errorf("decode draft %s: %w", id, err)
	}
	return session, nil
}

func (s *gormDraftStore) Put(ctx context.Context, session inspection.Session) error {
	uid, err := uuid.Parse(session.ID)
	if err != nil {
		return fmt.Errorf("invalid draft id %q: %w", session.ID, err)
	}
	raw, err := json.Marshal(session)
	if err != nil {
		return err
	}
	row := model.ReceptionDraft{ID: uid, Snapshot: string(raw)}
	return GetDB(ctx, s.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"snapshot", "updated_at"}),
	}).Create(&row).Error
}

func (s *gormDraftStore) Delete(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil
	}
	return GetDB(ctx, s.db).Delete(&model.ReceptionDraft{}, "id = ?", uid).Error
}

// --- redis ---

const draftKeyPrefix = "reception:draft:"

type redisDraftStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisDraftStore keeps drafts in redis. A zero ttl keeps them until
// deleted.
func NewRedisDraftStore(client *redis.Client, ttl time.Duration) DraftStore {
	return &redisDraftStore{client: client, ttl: ttl}
}

func (s *redisDraftStore) Get(ctx context.Context, id string) (inspection.Session, error) {
	raw, err := s.client.Get(ctx, draftKeyPrefix+id).Bytes()
	if err == redis.Nil {
		return inspection.Session{}, fmt.Errorf("%w: draft %s", ErrNotFound, id)
	}
	if err != nil {
		return inspection.Session{}, err
	}
	var session inspection.Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return inspection.Session{}, fmt.Errorf("decode draft %s: %w", id, err)
	}
	return session, nil
}

func (s *redisDraftStore) Put(ctx context.Context, session inspection.Session) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, draftKeyPrefix+session.ID, raw, s.ttl).Err()
}

func (s *redisDraftStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, draftKeyPrefix+id).Err()
}

// --- memory ---

type memoryDraftStore struct {
	mu     sync.RWMutex
	drafts map[string][]byte
}

// NewMemoryDraftStore is a process-local store for development and tests.
// Sessions are stored encoded so callers never share slices with it.
func NewMemoryDraftStore() DraftStore {
	return &memoryDraftStore{drafts: make(map[string][]byte)}
}

func (s *memoryDraftStore) Get(_ context.Context, id string) (inspection.Session, error) {
	s.mu.RLock()
	raw, ok := s.drafts[id]
	s.mu.RUnlock()
	if !ok {
		return inspection.Session{}, fmt.Errorf("%w: draft %s", ErrNotFound, id)
	}
	var session inspection.Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return inspection.Session{}, err
	}
	return session, nil
}

func (s *memoryDraftStore) Put(_ context.Context, session inspection.Session) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.drafts[session.ID] = raw
	s.mu.Unlock()
	return nil
}

func (s *memoryDraftStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.drafts, id)
	s.mu.Unlock()
	return nil
}
