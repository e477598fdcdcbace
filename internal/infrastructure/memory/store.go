package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"contentscale/internal/domain/models"
)

// Store keeps every entity in process memory. It backs tests and local
// development; production uses the Postgres repositories. IDs are assigned
// from a counter per entity type, not one shared counter.
type Store struct {
	mu sync.RWMutex

	users        map[int64]*models.User
	contentItems map[int64]*models.ContentItem
	transactions map[int64]*models.CreditTransaction
	apiKeys      map[int64]*models.APIKey
	seoAnalyses  map[int64]*models.SeoAnalysis
	analytics    map[int64]*models.AnalyticsRecord

	nextUserID        int64
	nextContentID     int64
	nextTransactionID int64
	nextAPIKeyID      int64
	nextSeoID         int64
	nextAnalyticsID   int64
}

func New() *Store {
	return &Store{
		users:        make(map[int64]*models.User),
		contentItems: make(map[int64]*models.ContentItem),
		transactions: make(map[int64]*models.CreditTransaction),
		apiKeys:      make(map[int64]*models.APIKey),
		seoAnalyses:  make(map[int64]*models.SeoAnalysis),
		analytics:    make(map[int64]*models.AnalyticsRecord),
	}
}

// ──────────────────────────────────────────────────
// UserRepository
// ──────────────────────────────────────────────────

func (s *Store) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == user.Email || u.Username == user.Username {
			return models.ErrAlreadyExists
		}
	}

	s.nextUserID++
	user.ID = s.nextUserID
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	cp := *user
	s.users[user.ID] = &cp
	return nil
}

func (s *Store) GetUserByID(_ context.Context, id int64) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if u, ok := s.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, models.ErrUserNotFound
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, models.ErrUserNotFound
}

func (s *Store) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, models.ErrUserNotFound
}

func (s *Store) UpdateCredits(_ context.Context, userID int64, credits int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return models.ErrUserNotFound
	}
	u.Credits = credits
	return nil
}

func (s *Store) UpdateAPIKeyStatus(_ context.Context, userID int64, hasAPIKey bool, provider *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return models.ErrUserNotFound
	}
	u.HasAPIKey = hasAPIKey
	u.APIProvider = provider
	return nil
}

func (s *Store) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return models.ErrUserNotFound
	}
	delete(s.users, id)
	return nil
}

// ──────────────────────────────────────────────────
// ContentRepository
// ──────────────────────────────────────────────────

func (s *Store) CreateContentItem(_ context.Context, item *models.ContentItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextContentID++
	item.ID = s.nextContentID
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now()
	}
	cp := *item
	s.contentItems[item.ID] = &cp
	return nil
}

func (s *Store) GetContentItem(_ context.Context, id int64) (*models.ContentItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if item, ok := s.contentItems[id]; ok {
		cp := *item
		return &cp, nil
	}
	return nil, models.ErrContentNotFound
}

func (s *Store) GetContentItems(_ context.Context, userID int64) ([]*models.ContentItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]*models.ContentItem, 0)
	for _, item := range s.contentItems {
		if item.UserID == userID {
			cp := *item
			items = append(items, &cp)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (s *Store) UpdateContentItem(_ context.Context, item *models.ContentItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.contentItems[item.ID]; !ok {
		return models.ErrContentNotFound
	}
	cp := *item
	s.contentItems[item.ID] = &cp
	return nil
}

func (s *Store) DeleteContentItem(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.contentItems[id]; !ok {
		return models.ErrContentNotFound
	}
	delete(s.contentItems, id)
	return nil
}

func (s *Store) DeleteContentItems(_ context.Context, ids []int64) (*models.BulkDeleteResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := &models.BulkDeleteResult{
		Deleted: make([]int64, 0, len(ids)),
		Missing: make([]int64, 0),
	}
	for _, id := range ids {
		if _, ok := s.contentItems[id]; ok {
			delete(s.contentItems, id)
			result.Deleted = append(result.Deleted, id)
		} else {
			result.Missing = append(result.Missing, id)
		}
	}
	return result, nil
}

// ──────────────────────────────────────────────────
// CreditRepository
// ──────────────────────────────────────────────────

func (s *Store) CreateTransaction(_ context.Context, tx *models.CreditTransaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// mirrors the unique constraint on stripe_session_id
	if tx.StripeSessionID != nil {
		for _, existing := range s.transactions {
			if existing.StripeSessionID != nil && *existing.StripeSessionID == *tx.StripeSessionID {
				return models.ErrAlreadyExists
			}
		}
	}

	s.nextTransactionID++
	tx.ID = s.nextTransactionID
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now()
	}
	cp := *tx
	s.transactions[tx.ID] = &cp
	return nil
}

func (s *Store) GetTransactions(_ context.Context, userID int64) ([]*models.CreditTransaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	txs := make([]*models.CreditTransaction, 0)
	for _, tx := range s.transactions {
		if tx.UserID == userID {
			cp := *tx
			txs = append(txs, &cp)
		}
	}
	// append order == id order
	sort.Slice(txs, func(i, j int) bool { return txs[i].ID < txs[j].ID })
	return txs, nil
}

func (s *Store) GetTransactionBySessionID(_ context.Context, sessionID string) (*models.CreditTransaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, tx := range s.transactions {
		if tx.StripeSessionID != nil && *tx.StripeSessionID == sessionID {
			cp := *tx
			return &cp, nil
		}
	}
	return nil, models.ErrTransactionNotFound
}

// ──────────────────────────────────────────────────
// APIKeyRepository
// ──────────────────────────────────────────────────

func (s *Store) CreateAPIKey(_ context.Context, key *models.APIKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextAPIKeyID++
	key.ID = s.nextAPIKeyID
	if key.CreatedAt.IsZero() {
		key.CreatedAt = time.Now()
	}
	cp := *key
	s.apiKeys[key.ID] = &cp
	return nil
}

func (s *Store) GetAPIKeys(_ context.Context, userID int64) ([]*models.APIKey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]*models.APIKey, 0)
	for _, key := range s.apiKeys {
		if key.UserID == userID {
			cp := *key
			keys = append(keys, &cp)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].ID < keys[j].ID })
	return keys, nil
}

func (s *Store) DeleteAPIKey(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.apiKeys[id]; !ok {
		return models.ErrAPIKeyNotFound
	}
	delete(s.apiKeys, id)
	return nil
}

// ──────────────────────────────────────────────────
// SeoAnalysisRepository / AnalyticsRepository
// ──────────────────────────────────────────────────

func (s *Store) CreateSeoAnalysis(_ context.Context, analysis *models.SeoAnalysis) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextSeoID++
	analysis.ID = s.nextSeoID
	if analysis.CreatedAt.IsZero() {
		analysis.CreatedAt = time.Now()
	}
	cp := *analysis
	s.seoAnalyses[analysis.ID] = &cp
	return nil
}

func (s *Store) GetSeoAnalyses(_ context.Context, userID int64) ([]*models.SeoAnalysis, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	analyses := make([]*models.SeoAnalysis, 0)
	for _, a := range s.seoAnalyses {
		if a.UserID == userID {
			cp := *a
			analyses = append(analyses, &cp)
		}
	}
	sort.Slice(analyses, func(i, j int) bool { return analyses[i].ID < analyses[j].ID })
	return analyses, nil
}

func (s *Store) CreateAnalyticsRecord(_ context.Context, record *models.AnalyticsRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextAnalyticsID++
	record.ID = s.nextAnalyticsID
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}
	cp := *record
	s.analytics[record.ID] = &cp
	return nil
}

func (s *Store) GetAnalyticsRecords(_ context.Context, userID int64) ([]*models.AnalyticsRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]*models.AnalyticsRecord, 0)
	for _, r := range s.analytics {
		if r.UserID == userID {
			cp := *r
			records = append(records, &cp)
		}
	}
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })
	return records, nil
}
