package firebaseclient

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/markdave123-py/covidsearch/internal/models"
)

// UpsertProfile merges the profile into users/{uid}.
func (c *Client) UpsertProfile(ctx context.Context, p *models.UserProfile) error {
	if p == nil || p.UID == "" {
		return fmt.Errorf("profile without uid")
	}
	data := map[string]interface{}{
		"email":       p.Email,
		"displayName": p.DisplayName,
		"createdAt":   p.CreatedAt,
	}
	if _, err := c.fs.Collection(usersCollection).Doc(p.UID).Set(ctx, data, firestore.MergeAll); err != nil {
		return fmt.Errorf("upsert profile %s: %w", p.UID, err)
	}
	return nil
}

func (c *Client) GetProfile(ctx context.Context, uid string) (*models.UserProfile, error) {
	snap, err := c.fs.Collection(usersCollection).Doc(uid).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get profile %s: %w", uid, err)
	}
	return profileFromData(uid, snap.Data()), nil
}

// profileFromData tolerates createdAt stored either as a timestamp or as an
// RFC 3339 string (older profiles).
func profileFromData(uid string, data map[string]interface{}) *models.UserProfile {
	p := &models.UserProfile{UID: uid}
	p.Email, _ = data["email"].(string)
	p.DisplayName, _ = data["displayName"].(string)
	switch v := data["createdAt"].(type) {
	case time.Time:
		p.CreatedAt = v
	case string:
		if ts, err := time.Parse(time.RFC3339Nano, v); err == nil {
			p.CreatedAt = ts
		}
	}
	return p
}

// AddSearch appends a history entry stamped by the Firestore server clock.
func (c *Client) AddSearch(ctx context.Context, uid, query string) error {
	_, _, err := c.fs.Collection(searchHistoryCollection).Add(ctx, map[string]interface{}{
		"uid":       uid,
		"query":     query,
		"timestamp": firestore.ServerTimestamp,
	})
	if err != nil {
		return fmt.Errorf("add search history: %w", err)
	}
	return nil
}

// ListSearches needs the composite index (uid ASC, timestamp DESC) on searchHistory.
func (c *Client) ListSearches(ctx context.Context, uid string, limit int) ([]models.SearchHistoryEntry, error) {
	docs, err := c.fs.Collection(searchHistoryCollection).
		Where("uid", "==", uid).
		OrderBy("timestamp", firestore.Desc).
		Limit(limit).
		Documents(ctx).
		GetAll()
	if err != nil {
		return nil, fmt.Errorf("list search history: %w", err)
	}

	out := make([]models.SearchHistoryEntry, 0, len(docs))
	for _, d := range docs {
		var e models.SearchHistoryEntry
		if err := d.DataTo(&e); err != nil {
			c.log.Warn("skipping malformed history entry", zap.String("id", d.Ref.ID), zap.Error(err))
			continue
		}
		e.ID = d.Ref.ID
		out = append(out, e)
	}
	return out, nil
}
