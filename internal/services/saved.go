package services

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/AnshRaj112/coffeemates-backend/internal/storage"
)

// SavedKey is the key holding the JSON array of saved post ids.
const SavedKey = "coffeemates_saved_post_ids"

// SavedService tracks the posts a client session has saved. The set lives
// next to the session and is never synchronized across devices or users.
type SavedService struct {
	kv  storage.KV
	log logrus.FieldLogger
}

func NewSavedService(kv storage.KV) *SavedService {
	return &SavedService{kv: kv, log: logrus.WithField("service", "saved")}
}

func savedKey(sessionToken string) string {
	return SavedKey + ":" + sessionToken
}

// IDs returns the saved post ids in insertion order. An unreadable value is
// treated as an empty set.
func (s *SavedService) IDs(ctx context.Context, sessionToken string) ([]string, error) {
	raw, err := s.kv.Get(ctx, savedKey(sessionToken))
	if errors.Is(err, storage.ErrNotFound) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}

	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		s.log.WithError(err).Warn("discarding unreadable saved set")
		return []string{}, nil
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

// Set returns the saved ids as a lookup set.
func (s *SavedService) Set(ctx context.Context, sessionToken string) (map[string]bool, error) {
	ids, err := s.IDs(ctx, sessionToken)
	if err != nil {
		return nil, err
	}

	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

// Toggle flips the membership of postID and returns the new state.
func (s *SavedService) Toggle(ctx context.Context, sessionToken, postID string) (bool, error) {
	ids, err := s.IDs(ctx, sessionToken)
	if err != nil {
		return false, err
	}

	out := make([]string, 0, len(ids)+1)
	removed := false
	for _, id := range ids {
		if id == postID {
			removed = true
			continue
		}
		out = append(out, id)
	}
	if !removed {
		out = append(out, postID)
	}

	data, err := json.Marshal(out)
	if err != nil {
		return false, err
	}
	if err := s.kv.Set(ctx, savedKey(sessionToken), string(data), SessionDuration); err != nil {
		return false, err
	}

	return !removed, nil
}

// Forget drops the set of a session that ended.
func (s *SavedService) Forget(ctx context.Context, sessionToken string) error {
	return s.kv.Del(ctx, savedKey(sessionToken))
}
